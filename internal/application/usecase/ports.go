package usecase

import (
	"context"

	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Un error devuelto por fn provoca rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(users repository.UserRepository, invitations repository.InvitationRepository) error) error
}
