package dto

import "time"

// InviteRequest invitación a la empresa del usuario autenticado.
type InviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AcceptInvitationRequest aceptación por token.
type AcceptInvitationRequest struct {
	Token string `json:"token" validate:"required"`
}

// InvitationResponse salida de una invitación (sin token).
type InvitationResponse struct {
	ID           string    `json:"id"`
	InvitedEmail string    `json:"invited_email"`
	CompanyName  string    `json:"company_name"`
	Status       string    `json:"status"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AcceptInvitationResponse resultado de aceptar: mensaje y usuario actualizado.
type AcceptInvitationResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// InviteResponse resultado de crear una invitación.
type InviteResponse struct {
	Message    string             `json:"message"`
	Invitation InvitationResponse `json:"invitation"`
}
