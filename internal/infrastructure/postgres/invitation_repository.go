package postgres

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

var _ repository.InvitationRepository = (*InvitationRepo)(nil)

// InvitationRepo implementación del puerto InvitationRepository sobre GORM.
type InvitationRepo struct {
	db *gorm.DB
}

// NewInvitationRepository construye el adaptador de persistencia para invitaciones.
func NewInvitationRepository(db *gorm.DB) *InvitationRepo {
	return &InvitationRepo{db: db}
}

// Create persiste una invitación.
func (r *InvitationRepo) Create(ctx context.Context, inv *entity.Invitation) error {
	if err := r.db.WithContext(ctx).Create(newInvitationRecord(inv)).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

// GetPending busca una invitación pendiente para (email, empresa).
func (r *InvitationRepo) GetPending(ctx context.Context, email, companyName string) (*entity.Invitation, error) {
	q := r.db.WithContext(ctx).
		Where("invited_email = ? AND company_name = ? AND status = ?",
			strings.ToLower(strings.TrimSpace(email)), companyName, string(entity.InvitationPending))
	rec, err := first[invitationRecord](q)
	if err != nil {
		return nil, fmt.Errorf("get pending invitation: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	return rec.toEntity(), nil
}

// GetByToken busca una invitación por token, en cualquier estado.
func (r *InvitationRepo) GetByToken(ctx context.Context, token string) (*entity.Invitation, error) {
	if token == "" {
		return nil, nil
	}
	rec, err := first[invitationRecord](r.db.WithContext(ctx).Where("token = ?", token))
	if err != nil {
		return nil, fmt.Errorf("get invitation by token: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	return rec.toEntity(), nil
}

// Update reescribe la invitación (típicamente el estado).
func (r *InvitationRepo) Update(ctx context.Context, inv *entity.Invitation) error {
	rec := newInvitationRecord(inv)
	res := r.db.WithContext(ctx).Model(rec).Select("*").Updates(rec)
	if res.Error != nil {
		return fmt.Errorf("update invitation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	inv.UpdatedAt = rec.UpdatedAt
	return nil
}
