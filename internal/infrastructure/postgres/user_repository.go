package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre GORM.
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	if err := r.db.WithContext(ctx).Create(newUserRecord(user)).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, nil
	}
	rec, err := first[userRecord](r.db.WithContext(ctx).Where("id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return userOrNil(rec), nil
}

// GetByEmail obtiene un usuario por email sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	rec, err := first[userRecord](r.db.WithContext(ctx).Where("LOWER(email) = ?", email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return userOrNil(rec), nil
}

// GetByValidationToken busca por token de validación vigente.
func (r *UserRepo) GetByValidationToken(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, nil
	}
	rec, err := first[userRecord](r.db.WithContext(ctx).Where("email_validation_token = ?", token))
	if err != nil {
		return nil, fmt.Errorf("get user by validation token: %w", err)
	}
	if rec == nil || expired(rec.EmailValidationExpiresAt) {
		return nil, nil
	}
	return rec.toEntity(), nil
}

// GetByResetToken busca por token de reseteo vigente.
func (r *UserRepo) GetByResetToken(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, nil
	}
	rec, err := first[userRecord](r.db.WithContext(ctx).Where("password_reset_token = ?", token))
	if err != nil {
		return nil, fmt.Errorf("get user by reset token: %w", err)
	}
	if rec == nil || expired(rec.PasswordResetExpiresAt) {
		return nil, nil
	}
	return rec.toEntity(), nil
}

// Update reescribe todas las columnas del usuario.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	rec := newUserRecord(user)
	res := r.db.WithContext(ctx).Model(rec).Select("*").Updates(rec)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	user.UpdatedAt = rec.UpdatedAt
	return nil
}

// Delete elimina físicamente un usuario.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&userRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func userOrNil(rec *userRecord) *entity.User {
	if rec == nil {
		return nil
	}
	return rec.toEntity()
}

// expired un token sin expiración se considera caducado.
func expired(at *time.Time) bool {
	return at == nil || time.Now().After(*at)
}
