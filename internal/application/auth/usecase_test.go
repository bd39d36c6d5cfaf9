package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/albaranes-api/internal/application/auth"
	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/postgres"
	pkgjwt "github.com/jhoicas/albaranes-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

type sentMail struct {
	kind, to, token string
}

// fakeNotifier guarda los tokens que se habrían enviado por email.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *fakeNotifier) EmailValidation(_ context.Context, to, _, token string) {
	n.record("validation", to, token)
}

func (n *fakeNotifier) PasswordReset(_ context.Context, to, _, token string) {
	n.record("reset", to, token)
}

func (n *fakeNotifier) CompanyInvitation(_ context.Context, to, _, _, token string) {
	n.record("invitation", to, token)
}

func (n *fakeNotifier) record(kind, to, token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{kind: kind, to: to, token: token})
}

func (n *fakeNotifier) last(kind string) (sentMail, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].kind == kind {
			return n.sent[i], true
		}
	}
	return sentMail{}, false
}

func setup(t *testing.T) (*auth.AuthUseCase, *postgres.UserRepo, *fakeNotifier) {
	t.Helper()
	db, err := postgres.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, postgres.AutoMigrate(db))
	t.Cleanup(func() { _ = postgres.Close(db) })

	users := postgres.NewUserRepository(db)
	notifier := &fakeNotifier{}
	uc := auth.NewAuthUseCase(users, notifier, auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"}, nil)
	return uc, users, notifier
}

func register(t *testing.T, uc *auth.AuthUseCase, email string) *dto.AuthResponse {
	t.Helper()
	resp, err := uc.Register(context.Background(), dto.RegisterRequest{
		Name:        "Ana",
		Email:       email,
		Password:    "secreto1",
		CompanyName: "  Acme  ",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister_DevuelveTokenYEncolaValidacion(t *testing.T) {
	uc, users, notifier := setup(t)

	resp := register(t, uc, "Ana@Example.com")

	userID, err := pkgjwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.Equal(t, "Acme", resp.User.Company.Name)
	assert.NotEmpty(t, resp.User.Company.ID)
	assert.False(t, resp.User.Validated)

	sent, ok := notifier.last("validation")
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", sent.to)
	assert.Len(t, sent.token, 2*auth.ValidationTokenBytes)

	stored, err := users.GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.NotEqual(t, "secreto1", stored.PasswordHash)
	assert.True(t, auth.CheckPassword(stored.PasswordHash, "secreto1"))
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _, _ := setup(t)
	register(t, uc, "ana@example.com")

	_, err := uc.Register(context.Background(), dto.RegisterRequest{Name: "Otra", Email: "ANA@example.com", Password: "secreto1"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	uc, _, _ := setup(t)
	register(t, uc, "ana@example.com")
	ctx := context.Background()

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "secreto1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "secreto1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_CuentaEliminada_SiempreForbidden(t *testing.T) {
	uc, users, _ := setup(t)
	resp := register(t, uc, "ana@example.com")
	ctx := context.Background()

	u, err := users.GetByID(ctx, resp.User.ID)
	require.NoError(t, err)
	u.SoftDelete(time.Now())
	require.NoError(t, users.Update(ctx, u))

	for _, pwd := range []string{"secreto1", "incorrecta"} {
		_, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: pwd})
		assert.ErrorIs(t, err, domain.ErrForbidden, pwd)
	}
}

func TestResetPassword_TokenDeUnSoloUso(t *testing.T) {
	uc, users, notifier := setup(t)
	resp := register(t, uc, "ana@example.com")
	ctx := context.Background()

	msg := uc.RequestPasswordReset(ctx, dto.PasswordResetRequest{Email: "ana@example.com"})
	assert.Equal(t, auth.ResetRequestedMessage, msg)
	sent, ok := notifier.last("reset")
	require.True(t, ok)

	require.NoError(t, uc.ResetPassword(ctx, dto.PasswordResetConfirm{Token: sent.token, Password: "nueva123"}))
	err := uc.ResetPassword(ctx, dto.PasswordResetConfirm{Token: sent.token, Password: "otra1234"})
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	u, err := users.GetByID(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.True(t, u.Validated)
	assert.True(t, auth.CheckPassword(u.PasswordHash, "nueva123"))
	assert.Empty(t, u.PasswordResetToken)
}

func TestRequestPasswordReset_EmailDesconocido_MismoMensaje(t *testing.T) {
	uc, _, notifier := setup(t)

	msg := uc.RequestPasswordReset(context.Background(), dto.PasswordResetRequest{Email: "nadie@example.com"})
	assert.Equal(t, auth.ResetRequestedMessage, msg)
	_, ok := notifier.last("reset")
	assert.False(t, ok)
}

func TestValidateEmail(t *testing.T) {
	uc, _, notifier := setup(t)
	register(t, uc, "ana@example.com")
	ctx := context.Background()
	sent, ok := notifier.last("validation")
	require.True(t, ok)

	require.NoError(t, uc.ValidateEmail(ctx, dto.ValidateEmailRequest{Token: sent.token}))

	// El token se consume: un segundo uso ya no lo encuentra.
	err := uc.ValidateEmail(ctx, dto.ValidateEmailRequest{Token: sent.token})
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestValidateEmail_TokenExpirado(t *testing.T) {
	uc, users, notifier := setup(t)
	resp := register(t, uc, "ana@example.com")
	ctx := context.Background()
	sent, _ := notifier.last("validation")

	u, err := users.GetByID(ctx, resp.User.ID)
	require.NoError(t, err)
	u.SetValidationToken(sent.token, time.Now().Add(-time.Minute))
	require.NoError(t, users.Update(ctx, u))

	err = uc.ValidateEmail(ctx, dto.ValidateEmailRequest{Token: sent.token})
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRandomToken(t *testing.T) {
	a, err := auth.RandomToken(32)
	require.NoError(t, err)
	b, err := auth.RandomToken(32)
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
