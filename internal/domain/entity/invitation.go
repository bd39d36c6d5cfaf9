package entity

import "time"

// InvitationStatus estado de una invitación a empresa.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
	InvitationRejected InvitationStatus = "rejected"
)

// Invitation invitación para unirse a la empresa del invitador.
type Invitation struct {
	ID           string
	InvitedEmail string // minúsculas
	CompanyName  string
	InviterID    string
	Token        string
	ExpiresAt    time.Time
	Status       InvitationStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsExpired compara la expiración con now.
func (i *Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
