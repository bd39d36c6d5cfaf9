package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/usecase"
	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/postgres"
)

func TestClient_CreateDefaults(t *testing.T) {
	db := openTestDB(t)
	uc := usecase.NewClientUseCase(postgres.NewClientRepository(db), postgres.NewUserRepository(db), nil)
	u := createUser(t, db, "ana@example.com", "Acme")

	c, err := uc.Create(context.Background(), u.ID, dto.CreateClientRequest{
		Name:    " Construcciones Pérez ",
		Address: &dto.AddressDTO{City: "Madrid"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Construcciones Pérez", c.Name)
	assert.Equal(t, entity.DefaultCountry, c.Address.Country)
	assert.Equal(t, "Madrid", c.Address.City)
	assert.Equal(t, u.Company.ID, c.CompanyID)
	assert.Equal(t, u.ID, c.UserID)
}

func TestClient_SoftDeleteRecover(t *testing.T) {
	db := openTestDB(t)
	uc := usecase.NewClientUseCase(postgres.NewClientRepository(db), postgres.NewUserRepository(db), nil)
	ctx := context.Background()
	u := createUser(t, db, "ana@example.com", "Acme")

	c, err := uc.Create(ctx, u.ID, dto.CreateClientRequest{Name: "Cliente"})
	require.NoError(t, err)

	// Recuperar algo no eliminado es un estado inválido.
	_, err = uc.Recover(ctx, u.ID, c.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	require.NoError(t, uc.SoftDelete(ctx, u.ID, c.ID))
	assert.ErrorIs(t, uc.SoftDelete(ctx, u.ID, c.ID), domain.ErrInvalidState)

	_, err = uc.Get(ctx, u.ID, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	list, err := uc.List(ctx, u.ID, false)
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = uc.List(ctx, u.ID, true)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.Recover(ctx, u.ID, c.ID)
	require.NoError(t, err)
	got, err := uc.Get(ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDeleted)
}

func TestClient_HardDeleteYPropiedad(t *testing.T) {
	db := openTestDB(t)
	uc := usecase.NewClientUseCase(postgres.NewClientRepository(db), postgres.NewUserRepository(db), nil)
	ctx := context.Background()
	u := createUser(t, db, "ana@example.com", "Acme")
	otro := createUser(t, db, "otro@example.com", "")

	c, err := uc.Create(ctx, u.ID, dto.CreateClientRequest{Name: "Cliente"})
	require.NoError(t, err)

	_, err = uc.Get(ctx, otro.ID, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.HardDelete(ctx, otro.ID, c.ID), domain.ErrNotFound)

	require.NoError(t, uc.SoftDelete(ctx, u.ID, c.ID))
	require.NoError(t, uc.HardDelete(ctx, u.ID, c.ID))
	_, err = uc.Recover(ctx, u.ID, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.HardDelete(ctx, u.ID, "mal-formado"), domain.ErrNotFound)
}

func TestClient_Update(t *testing.T) {
	db := openTestDB(t)
	uc := usecase.NewClientUseCase(postgres.NewClientRepository(db), postgres.NewUserRepository(db), nil)
	ctx := context.Background()
	u := createUser(t, db, "ana@example.com", "Acme")

	c, err := uc.Create(ctx, u.ID, dto.CreateClientRequest{Name: "Cliente", Phone: "600000000"})
	require.NoError(t, err)

	got, err := uc.Update(ctx, u.ID, c.ID, dto.UpdateClientRequest{Email: strPtr("Pagos@Cliente.es")})
	require.NoError(t, err)
	assert.Equal(t, "Cliente", got.Name)
	assert.Equal(t, "600000000", got.Phone)
	assert.Equal(t, "pagos@cliente.es", got.Email)
}

func newProjectFixture(t *testing.T) (*usecase.ProjectUseCase, string, string) {
	t.Helper()
	db := openTestDB(t)
	clients := usecase.NewClientUseCase(postgres.NewClientRepository(db), postgres.NewUserRepository(db), nil)
	u := createUser(t, db, "ana@example.com", "Acme")
	c, err := clients.Create(context.Background(), u.ID, dto.CreateClientRequest{Name: "Cliente"})
	require.NoError(t, err)
	uc := usecase.NewProjectUseCase(postgres.NewProjectRepository(db), postgres.NewClientRepository(db), nil)
	return uc, u.ID, c.ID
}

func TestProject_CreateRequiereClientePropio(t *testing.T) {
	uc, userID, clientID := newProjectFixture(t)
	ctx := context.Background()

	p, err := uc.Create(ctx, userID, dto.CreateProjectRequest{Name: "Reforma", ClientID: clientID})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ProjectPending), p.Status)

	_, err = uc.Create(ctx, userID, dto.CreateProjectRequest{Name: "Reforma", ClientID: "00000000-0000-0000-0000-000000000000"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProject_ArchivarYListar(t *testing.T) {
	uc, userID, clientID := newProjectFixture(t)
	ctx := context.Background()

	p, err := uc.Create(ctx, userID, dto.CreateProjectRequest{Name: "Reforma", ClientID: clientID})
	require.NoError(t, err)

	archived, err := uc.Archive(ctx, userID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ProjectArchived), archived.Status)
	assert.True(t, archived.IsArchived)
	assert.False(t, archived.Deleted)

	_, err = uc.Archive(ctx, userID, p.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	list, err := uc.List(ctx, userID, usecase.ProjectQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = uc.List(ctx, userID, usecase.ProjectQuery{IncludeArchived: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)

	_, err = uc.Get(ctx, userID, p.ID, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Get(ctx, userID, p.ID, true)
	require.NoError(t, err)

	recovered, err := uc.Recover(ctx, userID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ProjectPending), recovered.Status)
	assert.False(t, recovered.IsArchived)
}

func TestProject_EjesIndependientes(t *testing.T) {
	uc, userID, clientID := newProjectFixture(t)
	ctx := context.Background()

	p, err := uc.Create(ctx, userID, dto.CreateProjectRequest{Name: "Reforma", ClientID: clientID})
	require.NoError(t, err)

	_, err = uc.Restore(ctx, userID, p.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	deleted, err := uc.SoftDelete(ctx, userID, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
	assert.False(t, deleted.IsArchived)

	archived, err := uc.Archive(ctx, userID, p.ID)
	require.NoError(t, err)
	assert.True(t, archived.Deleted)

	restored, err := uc.Restore(ctx, userID, p.ID)
	require.NoError(t, err)
	assert.False(t, restored.Deleted)
	assert.True(t, restored.IsArchived)

	require.NoError(t, uc.HardDelete(ctx, userID, p.ID))
	_, err = uc.Get(ctx, userID, p.ID, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProject_UpdateEstadoArchivado(t *testing.T) {
	uc, userID, clientID := newProjectFixture(t)
	ctx := context.Background()

	p, err := uc.Create(ctx, userID, dto.CreateProjectRequest{Name: "Reforma", ClientID: clientID})
	require.NoError(t, err)

	got, err := uc.Update(ctx, userID, p.ID, dto.UpdateProjectRequest{Status: strPtr(string(entity.ProjectArchived))})
	require.NoError(t, err)
	assert.True(t, got.IsArchived)

	got, err = uc.Update(ctx, userID, p.ID, dto.UpdateProjectRequest{Status: strPtr(string(entity.ProjectInProgress))})
	require.NoError(t, err)
	assert.False(t, got.IsArchived)
	assert.Nil(t, got.ArchivedAt)

	_, err = uc.Update(ctx, userID, p.ID, dto.UpdateProjectRequest{ClientID: strPtr("00000000-0000-0000-0000-000000000000")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
