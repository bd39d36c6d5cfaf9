package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/albaranes-api/internal/application/auth"
	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/mail"
	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

var (
	ErrUserNotFound    = fmt.Errorf("%w: usuario", domain.ErrNotFound)
	ErrWrongPassword   = fmt.Errorf("%w: la contraseña actual no es correcta", domain.ErrUnauthorized)
	ErrUserAlreadyGone = fmt.Errorf("%w: el usuario ya está eliminado", domain.ErrInvalidState)
	ErrNotOwnAccount   = fmt.Errorf("%w: solo puedes eliminar tu propia cuenta", domain.ErrForbidden)
)

// UserUseCase aplica reglas de negocio sobre el perfil del usuario autenticado.
type UserUseCase struct {
	repo     repository.UserRepository
	notifier mail.Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, notifier mail.Notifier, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{repo: repo, notifier: notifier, log: log.Component("user"), now: time.Now}
}

// Get devuelve el perfil del usuario.
func (uc *UserUseCase) Get(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Update modifica nombre, email o contraseña. Un email nuevo debe ser único,
// deja la cuenta sin validar y dispara un nuevo email de validación.
func (uc *UserUseCase) Update(ctx context.Context, userID string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	now := uc.now()
	var validationToken string
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != user.Email {
			other, err := uc.repo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != user.ID {
				return nil, domain.ErrEmailAlreadyExists
			}
			validationToken, err = auth.RandomToken(auth.ValidationTokenBytes)
			if err != nil {
				return nil, err
			}
			user.Email = email
			user.Validated = false
			user.SetValidationToken(validationToken, now.Add(auth.ValidationTokenTTL))
		}
	}
	if in.Password != nil && !auth.CheckPassword(user.PasswordHash, *in.Password) {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = now
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	if validationToken != "" {
		uc.notifier.EmailValidation(ctx, user.Email, user.Name, validationToken)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// ChangePassword verifica la contraseña actual antes de sustituirla.
func (uc *UserUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !auth.CheckPassword(user.PasswordHash, in.CurrentPassword) {
		return ErrWrongPassword
	}
	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = uc.now()
	return uc.repo.Update(ctx, user)
}

// SoftDeleteSelf marca la propia cuenta como eliminada.
func (uc *UserUseCase) SoftDeleteSelf(ctx context.Context, userID string) error {
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.IsDeleted {
		return ErrUserAlreadyGone
	}
	now := uc.now()
	user.SoftDelete(now)
	user.UpdatedAt = now
	if err := uc.repo.Update(ctx, user); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("cuenta eliminada (lógico)")
	return nil
}

// HardDelete borra físicamente la cuenta indicada. Solo la propia:
// un id inexistente da NotFound y uno ajeno Forbidden.
func (uc *UserUseCase) HardDelete(ctx context.Context, callerID, id string) error {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.ID != callerID {
		return ErrNotOwnAccount
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", id).Msg("cuenta eliminada (física)")
	return nil
}
