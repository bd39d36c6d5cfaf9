package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

// TxRunner ejecuta callbacks dentro de una transacción.
type TxRunner struct {
	db *gorm.DB
}

// NewTxRunner construye el runner con la conexión.
func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run abre una transacción, ejecuta fn con repos atados a la tx y hace Commit
// o Rollback según el error devuelto.
func (r *TxRunner) Run(ctx context.Context, fn func(
	users repository.UserRepository,
	invitations repository.InvitationRepository,
) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewUserRepository(tx), NewInvitationRepository(tx))
	})
}
