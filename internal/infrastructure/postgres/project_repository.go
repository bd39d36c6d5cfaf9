package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo implementación del puerto ProjectRepository sobre GORM.
type ProjectRepo struct {
	db *gorm.DB
}

// NewProjectRepository construye el adaptador de persistencia para proyectos.
func NewProjectRepository(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// Create persiste un nuevo proyecto.
func (r *ProjectRepo) Create(ctx context.Context, project *entity.Project) error {
	if err := r.db.WithContext(ctx).Create(newProjectRecord(project)).Error; err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetByID obtiene un proyecto del propietario aplicando el filtro.
func (r *ProjectRepo) GetByID(ctx context.Context, userID, id string, f repository.ProjectFilter) (*entity.Project, error) {
	if !validID(id) {
		return nil, nil
	}
	rec, err := first[projectRecord](r.scoped(ctx, userID, f).Where("id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	return rec.toEntity(), nil
}

// List devuelve los proyectos del propietario, más recientes primero.
func (r *ProjectRepo) List(ctx context.Context, userID string, f repository.ProjectFilter) ([]*entity.Project, error) {
	q := r.scoped(ctx, userID, f)
	if f.ClientID != "" {
		q = q.Where("client_id = ?", f.ClientID)
	}
	var recs []projectRecord
	if err := q.Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	list := make([]*entity.Project, 0, len(recs))
	for i := range recs {
		list = append(list, recs[i].toEntity())
	}
	return list, nil
}

// Update reescribe todas las columnas del proyecto.
func (r *ProjectRepo) Update(ctx context.Context, project *entity.Project) error {
	rec := newProjectRecord(project)
	res := r.db.WithContext(ctx).Model(rec).Select("*").Updates(rec)
	if res.Error != nil {
		return fmt.Errorf("update project: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	project.UpdatedAt = rec.UpdatedAt
	return nil
}

// Delete borra físicamente el proyecto.
func (r *ProjectRepo) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&projectRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete project: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProjectRepo) scoped(ctx context.Context, userID string, f repository.ProjectFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !f.IncludeArchived {
		q = q.Where("is_archived = ?", false)
	}
	if !f.IncludeDeleted {
		q = q.Where("deleted = ?", false)
	}
	return q
}
