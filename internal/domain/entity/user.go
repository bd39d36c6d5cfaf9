package entity

import "time"

// User representa una cuenta del sistema con su empresa embebida.
type User struct {
	ID           string
	Name         string
	Email        string // siempre en minúsculas
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Company      Company
	Validated    bool

	EmailValidationToken     string
	EmailValidationExpiresAt *time.Time
	PasswordResetToken       string
	PasswordResetExpiresAt   *time.Time

	IsDeleted bool
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetValidationToken guarda un token de validación de email con su expiración.
func (u *User) SetValidationToken(token string, expiresAt time.Time) {
	u.EmailValidationToken = token
	u.EmailValidationExpiresAt = &expiresAt
}

// SetResetToken guarda un token de reseteo de contraseña con su expiración.
func (u *User) SetResetToken(token string, expiresAt time.Time) {
	u.PasswordResetToken = token
	u.PasswordResetExpiresAt = &expiresAt
}

// ClearValidationToken consume el token de validación (uso único).
func (u *User) ClearValidationToken() {
	u.EmailValidationToken = ""
	u.EmailValidationExpiresAt = nil
}

// ClearResetToken consume el token de reseteo (uso único).
func (u *User) ClearResetToken() {
	u.PasswordResetToken = ""
	u.PasswordResetExpiresAt = nil
}

// SoftDelete marca la cuenta como eliminada.
func (u *User) SoftDelete(now time.Time) {
	u.IsDeleted = true
	u.DeletedAt = &now
}
