package repository

import (
	"context"

	"github.com/jhoicas/albaranes-api/internal/domain/entity"
)

// ProjectFilter filtro explícito de proyectos. Por defecto se excluyen archivados y eliminados.
type ProjectFilter struct {
	ClientID        string
	IncludeArchived bool
	IncludeDeleted  bool
}

// ProjectRepository puerto de persistencia para Project, acotado al propietario.
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, userID, id string, f ProjectFilter) (*entity.Project, error)
	List(ctx context.Context, userID string, f ProjectFilter) ([]*entity.Project, error)
	Update(ctx context.Context, project *entity.Project) error
	Delete(ctx context.Context, userID, id string) error
}
