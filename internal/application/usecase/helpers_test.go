package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jhoicas/albaranes-api/internal/application/auth"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/postgres"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := postgres.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, postgres.AutoMigrate(db))
	t.Cleanup(func() { _ = postgres.Close(db) })
	return db
}

// createUser persiste un usuario con contraseña "secreto1".
func createUser(t *testing.T, db *gorm.DB, email, company string) *entity.User {
	t.Helper()
	hash, err := auth.HashPassword("secreto1")
	require.NoError(t, err)
	now := time.Now()
	u := &entity.User{
		ID:           uuid.NewString(),
		Name:         "Usuario " + email,
		Email:        email,
		PasswordHash: hash,
		Company:      entity.Company{ID: uuid.NewString(), Name: company},
		Validated:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, postgres.NewUserRepository(db).Create(context.Background(), u))
	return u
}

type notification struct {
	kind, to, token string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *fakeNotifier) EmailValidation(_ context.Context, to, _, token string) {
	n.add(notification{"validation", to, token})
}

func (n *fakeNotifier) PasswordReset(_ context.Context, to, _, token string) {
	n.add(notification{"reset", to, token})
}

func (n *fakeNotifier) CompanyInvitation(_ context.Context, to, _, _, token string) {
	n.add(notification{"invitation", to, token})
}

func (n *fakeNotifier) add(x notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, x)
}

func (n *fakeNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.sent...)
}
