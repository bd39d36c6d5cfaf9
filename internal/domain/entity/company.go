package entity

import "strings"

// Company es el perfil de empresa embebido en el usuario.
// No tiene ciclo de vida propio: se crea y se edita junto al User.
type Company struct {
	ID      string
	Name    string
	Address string
	TaxID   string // CIF/NIF
	Phone   string
	Email   string
	Website string
}

// HasName indica si el usuario pertenece a alguna empresa.
func (c Company) HasName() bool {
	return strings.TrimSpace(c.Name) != ""
}

// SameName compara nombres de empresa sin distinguir mayúsculas ni espacios externos.
func (c Company) SameName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(name))
}
