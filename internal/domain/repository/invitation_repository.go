package repository

import (
	"context"

	"github.com/jhoicas/albaranes-api/internal/domain/entity"
)

// InvitationRepository puerto de persistencia para Invitation.
type InvitationRepository interface {
	Create(ctx context.Context, inv *entity.Invitation) error
	// GetPending busca una invitación pendiente para (email, empresa).
	GetPending(ctx context.Context, email, companyName string) (*entity.Invitation, error)
	GetByToken(ctx context.Context, token string) (*entity.Invitation, error)
	Update(ctx context.Context, inv *entity.Invitation) error
}
