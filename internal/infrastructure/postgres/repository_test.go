package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/postgres"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := postgres.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, postgres.AutoMigrate(db))
	t.Cleanup(func() { _ = postgres.Close(db) })
	return db
}

func newUser(email string) *entity.User {
	now := time.Now()
	return &entity.User{
		ID:           uuid.NewString(),
		Name:         "Ana",
		Email:        email,
		PasswordHash: "hash",
		Company:      entity.Company{ID: uuid.NewString(), Name: "Obras SL"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ── usuarios ─────────────────────────────────────────────────────────────────

func TestUserRepo_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	u := newUser("ana@example.com")
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Obras SL", got.Company.Name)

	got, err = repo.GetByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
}

func TestUserRepo_EmailDuplicado(t *testing.T) {
	db := openTestDB(t)
	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("dup@example.com")))
	err := repo.Create(ctx, newUser("dup@example.com"))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUserRepo_IDMalFormado_NoEncontrado(t *testing.T) {
	db := openTestDB(t)
	repo := postgres.NewUserRepository(db)

	got, err := repo.GetByID(context.Background(), "no-es-un-uuid")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, repo.Delete(context.Background(), "no-es-un-uuid"), domain.ErrNotFound)
}

func TestUserRepo_TokenExpirado_NoSeDevuelve(t *testing.T) {
	db := openTestDB(t)
	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	u := newUser("tok@example.com")
	u.SetValidationToken("vigente", time.Now().Add(time.Hour))
	u.SetResetToken("caducado", time.Now().Add(-time.Minute))
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByValidationToken(ctx, "vigente")
	require.NoError(t, err)
	require.NotNil(t, got)

	got, err = repo.GetByResetToken(ctx, "caducado")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepo_UpdateYDelete(t *testing.T) {
	db := openTestDB(t)
	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	u := newUser("upd@example.com")
	require.NoError(t, repo.Create(ctx, u))

	u.Name = "Ana María"
	u.Validated = true
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana María", got.Name)
	assert.True(t, got.Validated)

	require.NoError(t, repo.Delete(ctx, u.ID))
	assert.ErrorIs(t, repo.Delete(ctx, u.ID), domain.ErrNotFound)
}

// ── clientes y proyectos ─────────────────────────────────────────────────────

func TestClientRepo_FiltroEliminados(t *testing.T) {
	db := openTestDB(t)
	repo := postgres.NewClientRepository(db)
	ctx := context.Background()
	owner := uuid.NewString()

	c := &entity.Client{ID: uuid.NewString(), UserID: owner, Name: "Cliente Uno", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, c))

	require.NoError(t, c.SoftDelete(time.Now()))
	require.NoError(t, repo.Update(ctx, c))

	list, err := repo.List(ctx, owner, repository.ClientFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = repo.List(ctx, owner, repository.ClientFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// otro propietario no lo ve
	got, err := repo.GetByID(ctx, uuid.NewString(), c.ID, repository.ClientFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProjectRepo_ArchivadosExcluidosPorDefecto(t *testing.T) {
	db := openTestDB(t)
	repo := postgres.NewProjectRepository(db)
	ctx := context.Background()
	owner := uuid.NewString()
	clientID := uuid.NewString()

	active := &entity.Project{ID: uuid.NewString(), UserID: owner, ClientID: clientID, Name: "Activo", Status: entity.ProjectPending, CreatedAt: time.Now()}
	archived := &entity.Project{ID: uuid.NewString(), UserID: owner, ClientID: clientID, Name: "Archivado", Status: entity.ProjectPending, CreatedAt: time.Now()}
	require.NoError(t, archived.Archive(time.Now()))
	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.Create(ctx, archived))

	list, err := repo.List(ctx, owner, repository.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, active.ID, list[0].ID)

	got, err := repo.GetByID(ctx, owner, archived.ID, repository.ProjectFilter{IncludeArchived: true})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.ProjectArchived, got.Status)

	list, err = repo.List(ctx, owner, repository.ProjectFilter{ClientID: uuid.NewString(), IncludeArchived: true})
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ── albaranes ────────────────────────────────────────────────────────────────

func TestDeliveryNoteRepo_LineasYOrden(t *testing.T) {
	db := openTestDB(t)
	repo := postgres.NewDeliveryNoteRepository(db)
	ctx := context.Background()
	owner := uuid.NewString()
	projectID := uuid.NewString()

	older := &entity.DeliveryNote{
		ID: uuid.NewString(), UserID: owner, ProjectID: projectID, ClientID: uuid.NewString(),
		IssueDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Status: entity.NoteDraft,
		Lines: []entity.DeliveryNoteLine{
			{Description: "Cemento", Quantity: decimal.NewFromInt(3), Unit: "saco", UnitPrice: decimal.RequireFromString("7.50")},
		},
	}
	newer := &entity.DeliveryNote{
		ID: uuid.NewString(), UserID: owner, ProjectID: projectID, ClientID: older.ClientID,
		IssueDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Status: entity.NoteDraft,
		Lines: []entity.DeliveryNoteLine{
			{Description: "Arena", Quantity: decimal.NewFromInt(1), Unit: entity.DefaultLineUnit, UnitPrice: decimal.Zero},
		},
	}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	list, err := repo.List(ctx, owner, repository.DeliveryNoteFilter{ProjectID: projectID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	got, err := repo.GetByID(ctx, owner, older.ID, repository.DeliveryNoteFilter{})
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "saco", got.Lines[0].Unit)
	assert.True(t, decimal.RequireFromString("22.5").Equal(got.Total()))
}

func TestDeliveryNoteRepo_BorradoLogicoYFisico(t *testing.T) {
	db := openTestDB(t)
	repo := postgres.NewDeliveryNoteRepository(db)
	ctx := context.Background()
	owner := uuid.NewString()

	n := &entity.DeliveryNote{ID: uuid.NewString(), UserID: owner, ProjectID: uuid.NewString(), ClientID: uuid.NewString(), IssueDate: time.Now(), Status: entity.NoteDraft}
	require.NoError(t, repo.Create(ctx, n))
	require.NoError(t, n.SoftDelete(time.Now()))
	require.NoError(t, repo.Update(ctx, n))

	got, err := repo.GetByID(ctx, owner, n.ID, repository.DeliveryNoteFilter{})
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetByID(ctx, owner, n.ID, repository.DeliveryNoteFilter{IncludeDeleted: true})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Deleted)

	require.NoError(t, repo.Delete(ctx, owner, n.ID))
	assert.ErrorIs(t, repo.Delete(ctx, owner, n.ID), domain.ErrNotFound)
}

// ── invitaciones y transacciones ─────────────────────────────────────────────

func TestInvitationRepo_GetPending(t *testing.T) {
	db := openTestDB(t)
	repo := postgres.NewInvitationRepository(db)
	ctx := context.Background()

	inv := &entity.Invitation{
		ID: uuid.NewString(), InvitedEmail: "bob@example.com", CompanyName: "Obras SL",
		InviterID: uuid.NewString(), Token: "tok-1", ExpiresAt: time.Now().Add(time.Hour),
		Status: entity.InvitationPending,
	}
	require.NoError(t, repo.Create(ctx, inv))

	got, err := repo.GetPending(ctx, "BOB@example.com", "Obras SL")
	require.NoError(t, err)
	require.NotNil(t, got)

	inv.Status = entity.InvitationAccepted
	require.NoError(t, repo.Update(ctx, inv))

	got, err = repo.GetPending(ctx, "bob@example.com", "Obras SL")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.InvitationAccepted, got.Status)
}

func TestTxRunner_RollbackEnError(t *testing.T) {
	db := openTestDB(t)
	runner := postgres.NewTxRunner(db)
	ctx := context.Background()
	u := newUser("tx@example.com")

	err := runner.Run(ctx, func(users repository.UserRepository, _ repository.InvitationRepository) error {
		require.NoError(t, users.Create(ctx, u))
		return domain.ErrInvalidState
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	got, err := postgres.NewUserRepository(db).GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "la transacción debe revertirse")
}
