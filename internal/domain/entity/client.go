package entity

import "time"

// DefaultCountry país por defecto de la dirección de un cliente.
const DefaultCountry = "España"

// Address dirección postal de un cliente.
type Address struct {
	Street     string
	City       string
	PostalCode string
	Province   string
	Country    string
}

// Client representa un cliente de un usuario.
type Client struct {
	ID        string
	UserID    string // propietario
	CompanyID string // empresa embebida del propietario al crear (opcional)
	Name      string
	Email     string
	Phone     string
	Address   Address
	IsDeleted bool
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SoftDelete oculta el cliente de las consultas por defecto.
func (c *Client) SoftDelete(now time.Time) error {
	if c.IsDeleted {
		return ErrAlreadyDeleted
	}
	c.IsDeleted = true
	c.DeletedAt = &now
	return nil
}

// Recover revierte SoftDelete.
func (c *Client) Recover() error {
	if !c.IsDeleted {
		return ErrNotDeleted
	}
	c.IsDeleted = false
	c.DeletedAt = nil
	return nil
}
