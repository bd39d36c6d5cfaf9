package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/mail"
	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
	"github.com/jhoicas/albaranes-api/pkg/jwt"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

// ResetRequestedMessage respuesta genérica de la solicitud de reseteo; no revela si el email existe.
const ResetRequestedMessage = "Si el email está registrado, recibirás un enlace para restablecer tu contraseña."

var (
	ErrInvalidCredentials = fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	ErrAccountDeleted     = fmt.Errorf("%w: la cuenta ha sido eliminada", domain.ErrForbidden)
	ErrAlreadyValidated   = fmt.Errorf("%w: el correo electrónico ya ha sido validado", domain.ErrInvalidState)
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login, reseteo y validación de email.
type AuthUseCase struct {
	userRepo repository.UserRepository
	notifier mail.Notifier
	jwtCfg   JWTConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, notifier mail.Notifier, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		userRepo: userRepo,
		notifier: notifier,
		jwtCfg:   jwtCfg,
		log:      log.Component("auth"),
		now:      time.Now,
	}
}

// Register crea la cuenta, encola el email de validación y devuelve un JWT.
// Devuelve ErrEmailAlreadyExists si el email ya existe (sin distinguir mayúsculas).
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	token, err := RandomToken(ValidationTokenBytes)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Company:      entity.Company{ID: uuid.New().String(), Name: strings.TrimSpace(in.CompanyName)},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	user.SetValidationToken(token, now.Add(ValidationTokenTTL))

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.notifier.EmailValidation(ctx, user.Email, user.Name, token)
	uc.log.Info().Str("user_id", user.ID).Msg("usuario registrado")

	jwtToken, err := uc.issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Message: "Usuario registrado. Revisa tu email para validar tu cuenta.",
		Token:   jwtToken,
		User:    dto.NewUserResponse(user),
	}, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Una cuenta eliminada responde Forbidden aunque la contraseña sea incorrecta.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if user.IsDeleted {
		return nil, ErrAccountDeleted
	}
	if !CheckPassword(user.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}
	token, err := uc.issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

// RequestPasswordReset genera un token de reseteo si el email existe. La respuesta
// es siempre la misma; los fallos internos solo se registran.
func (uc *AuthUseCase) RequestPasswordReset(ctx context.Context, in dto.PasswordResetRequest) string {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		uc.log.Error().Err(err).Msg("buscar usuario para reseteo")
		return ResetRequestedMessage
	}
	if user == nil || user.IsDeleted {
		return ResetRequestedMessage
	}
	token, err := RandomToken(ResetTokenBytes)
	if err != nil {
		uc.log.Error().Err(err).Msg("generar token de reseteo")
		return ResetRequestedMessage
	}
	now := uc.now()
	user.SetResetToken(token, now.Add(ResetTokenTTL))
	user.UpdatedAt = now
	if err := uc.userRepo.Update(ctx, user); err != nil {
		uc.log.Error().Err(err).Str("user_id", user.ID).Msg("guardar token de reseteo")
		return ResetRequestedMessage
	}
	uc.notifier.PasswordReset(ctx, user.Email, user.Name, token)
	return ResetRequestedMessage
}

// ResetPassword consume el token (uso único), cambia la contraseña y marca el email como validado.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.PasswordResetConfirm) error {
	user, err := uc.userRepo.GetByResetToken(ctx, in.Token)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrInvalidToken
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ClearResetToken()
	user.Validated = true
	user.UpdatedAt = uc.now()
	return uc.userRepo.Update(ctx, user)
}

// ValidateEmail marca el email como validado y consume el token.
func (uc *AuthUseCase) ValidateEmail(ctx context.Context, in dto.ValidateEmailRequest) error {
	user, err := uc.userRepo.GetByValidationToken(ctx, in.Token)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrInvalidToken
	}
	if user.Validated {
		return ErrAlreadyValidated
	}
	user.Validated = true
	user.ClearValidationToken()
	user.UpdatedAt = uc.now()
	return uc.userRepo.Update(ctx, user)
}

func (uc *AuthUseCase) issue(user *entity.User) (string, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return "", fmt.Errorf("emitir jwt: %w", err)
	}
	return token, nil
}

// ── contraseñas ───────────────────────────────────────────────────────────────

// HashPassword aplica bcrypt con el coste por defecto.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: la contraseña no puede superar 72 bytes", domain.ErrInvalidInput)
		}
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compara en tiempo constante contra el hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
