package dto

import "time"

// AddressDTO dirección postal.
type AddressDTO struct {
	Street     string `json:"street" validate:"omitempty,max=200"`
	City       string `json:"city" validate:"omitempty,max=100"`
	PostalCode string `json:"postal_code" validate:"omitempty,max=10"`
	Province   string `json:"province" validate:"omitempty,max=100"`
	Country    string `json:"country" validate:"omitempty,max=100"`
}

// CreateClientRequest entrada para crear un cliente.
type CreateClientRequest struct {
	Name    string      `json:"name" validate:"required,min=2,max=100"`
	Email   string      `json:"email" validate:"omitempty,email"`
	Phone   string      `json:"phone" validate:"omitempty,max=30"`
	Address *AddressDTO `json:"address"`
}

// UpdateClientRequest parche de cliente (campos opcionales).
type UpdateClientRequest struct {
	Name    *string     `json:"name" validate:"omitempty,min=2,max=100"`
	Email   *string     `json:"email" validate:"omitempty,email"`
	Phone   *string     `json:"phone" validate:"omitempty,max=30"`
	Address *AddressDTO `json:"address"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Address   AddressDTO `json:"address"`
	UserID    string     `json:"user_id"`
	CompanyID string     `json:"company_id,omitempty"`
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
