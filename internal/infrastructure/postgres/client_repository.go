package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación del puerto ClientRepository sobre GORM.
type ClientRepo struct {
	db *gorm.DB
}

// NewClientRepository construye el adaptador de persistencia para clientes.
func NewClientRepository(db *gorm.DB) *ClientRepo {
	return &ClientRepo{db: db}
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, client *entity.Client) error {
	if err := r.db.WithContext(ctx).Create(newClientRecord(client)).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente del propietario.
func (r *ClientRepo) GetByID(ctx context.Context, userID, id string, f repository.ClientFilter) (*entity.Client, error) {
	if !validID(id) {
		return nil, nil
	}
	q := r.scoped(ctx, userID, f).Where("id = ?", id)
	rec, err := first[clientRecord](q)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	return rec.toEntity(), nil
}

// List devuelve los clientes del propietario, más recientes primero.
func (r *ClientRepo) List(ctx context.Context, userID string, f repository.ClientFilter) ([]*entity.Client, error) {
	var recs []clientRecord
	if err := r.scoped(ctx, userID, f).Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	list := make([]*entity.Client, 0, len(recs))
	for i := range recs {
		list = append(list, recs[i].toEntity())
	}
	return list, nil
}

// Update reescribe todas las columnas del cliente.
func (r *ClientRepo) Update(ctx context.Context, client *entity.Client) error {
	rec := newClientRecord(client)
	res := r.db.WithContext(ctx).Model(rec).Select("*").Updates(rec)
	if res.Error != nil {
		return fmt.Errorf("update client: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	client.UpdatedAt = rec.UpdatedAt
	return nil
}

// Delete borra físicamente el cliente.
func (r *ClientRepo) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&clientRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete client: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ClientRepo) scoped(ctx context.Context, userID string, f repository.ClientFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !f.IncludeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	return q
}
