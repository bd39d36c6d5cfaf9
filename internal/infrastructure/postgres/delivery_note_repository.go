package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

var _ repository.DeliveryNoteRepository = (*DeliveryNoteRepo)(nil)

// DeliveryNoteRepo implementación del puerto DeliveryNoteRepository sobre GORM.
// Las líneas viajan en una columna JSON.
type DeliveryNoteRepo struct {
	db *gorm.DB
}

// NewDeliveryNoteRepository construye el adaptador de persistencia para albaranes.
func NewDeliveryNoteRepository(db *gorm.DB) *DeliveryNoteRepo {
	return &DeliveryNoteRepo{db: db}
}

// Create persiste un nuevo albarán.
func (r *DeliveryNoteRepo) Create(ctx context.Context, note *entity.DeliveryNote) error {
	if err := r.db.WithContext(ctx).Create(newDeliveryNoteRecord(note)).Error; err != nil {
		return fmt.Errorf("insert delivery note: %w", err)
	}
	return nil
}

// GetByID obtiene un albarán del propietario.
func (r *DeliveryNoteRepo) GetByID(ctx context.Context, userID, id string, f repository.DeliveryNoteFilter) (*entity.DeliveryNote, error) {
	if !validID(id) {
		return nil, nil
	}
	rec, err := first[deliveryNoteRecord](r.scoped(ctx, userID, f).Where("id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get delivery note: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	return rec.toEntity(), nil
}

// List devuelve los albaranes ordenados por fecha de emisión descendente.
func (r *DeliveryNoteRepo) List(ctx context.Context, userID string, f repository.DeliveryNoteFilter) ([]*entity.DeliveryNote, error) {
	q := r.scoped(ctx, userID, f)
	if f.ProjectID != "" {
		q = q.Where("project_id = ?", f.ProjectID)
	}
	if f.ClientID != "" {
		q = q.Where("client_id = ?", f.ClientID)
	}
	var recs []deliveryNoteRecord
	if err := q.Order("issue_date DESC").Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list delivery notes: %w", err)
	}
	list := make([]*entity.DeliveryNote, 0, len(recs))
	for i := range recs {
		list = append(list, recs[i].toEntity())
	}
	return list, nil
}

// Update reescribe todas las columnas del albarán.
func (r *DeliveryNoteRepo) Update(ctx context.Context, note *entity.DeliveryNote) error {
	rec := newDeliveryNoteRecord(note)
	res := r.db.WithContext(ctx).Model(rec).Select("*").Updates(rec)
	if res.Error != nil {
		return fmt.Errorf("update delivery note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	note.UpdatedAt = rec.UpdatedAt
	return nil
}

// Delete borra físicamente el albarán.
func (r *DeliveryNoteRepo) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&deliveryNoteRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete delivery note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DeliveryNoteRepo) scoped(ctx context.Context, userID string, f repository.DeliveryNoteFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !f.IncludeDeleted {
		q = q.Where("deleted = ?", false)
	}
	return q
}
