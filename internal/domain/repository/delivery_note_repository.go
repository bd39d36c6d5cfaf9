package repository

import (
	"context"

	"github.com/jhoicas/albaranes-api/internal/domain/entity"
)

// DeliveryNoteFilter filtro explícito de albaranes. Por defecto se excluyen eliminados.
type DeliveryNoteFilter struct {
	ProjectID      string
	ClientID       string
	IncludeDeleted bool
}

// DeliveryNoteRepository puerto de persistencia para DeliveryNote, acotado al propietario.
// List ordena por fecha de emisión descendente.
type DeliveryNoteRepository interface {
	Create(ctx context.Context, note *entity.DeliveryNote) error
	GetByID(ctx context.Context, userID, id string, f DeliveryNoteFilter) (*entity.DeliveryNote, error)
	List(ctx context.Context, userID string, f DeliveryNoteFilter) ([]*entity.DeliveryNote, error)
	Update(ctx context.Context, note *entity.DeliveryNote) error
	Delete(ctx context.Context, userID, id string) error
}
