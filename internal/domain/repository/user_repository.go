package repository

import (
	"context"

	"github.com/jhoicas/albaranes-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get* devuelven (nil, nil) cuando no hay coincidencia.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail compara sin distinguir mayúsculas.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByValidationToken solo devuelve tokens no expirados.
	GetByValidationToken(ctx context.Context, token string) (*entity.User, error)
	// GetByResetToken solo devuelve tokens no expirados.
	GetByResetToken(ctx context.Context, token string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// Delete borra físicamente; domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
}
