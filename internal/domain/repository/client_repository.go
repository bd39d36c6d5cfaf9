package repository

import (
	"context"

	"github.com/jhoicas/albaranes-api/internal/domain/entity"
)

// ClientFilter filtro explícito de listados y búsquedas de clientes.
type ClientFilter struct {
	IncludeDeleted bool
}

// ClientRepository puerto de persistencia para Client. Todas las operaciones
// se acotan al propietario (userID).
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, userID, id string, f ClientFilter) (*entity.Client, error)
	List(ctx context.Context, userID string, f ClientFilter) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, userID, id string) error
}
