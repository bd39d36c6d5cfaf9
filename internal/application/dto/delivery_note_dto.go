package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryNoteLineRequest línea de entrada; cantidad, unidad y precio tienen valores por defecto.
type DeliveryNoteLineRequest struct {
	Description string           `json:"description" validate:"required,max=500"`
	Quantity    *decimal.Decimal `json:"quantity" validate:"omitempty,gte=0"`
	Unit        string           `json:"unit" validate:"omitempty,max=30"`
	UnitPrice   *decimal.Decimal `json:"unit_price" validate:"omitempty,gte=0"`
}

// CreateDeliveryNoteRequest entrada para crear un albarán.
type CreateDeliveryNoteRequest struct {
	Number       string                    `json:"number" validate:"omitempty,max=50"`
	IssueDate    *time.Time                `json:"issue_date"`
	ProjectID    string                    `json:"project_id" validate:"required"`
	Lines        []DeliveryNoteLineRequest `json:"lines" validate:"required,min=1,dive"`
	Observations string                    `json:"observations" validate:"omitempty,max=2000"`
	Status       string                    `json:"status" validate:"omitempty,oneof=Borrador Emitido Cancelado"`
}

// DeliveryNoteLineResponse línea de salida con total calculado.
type DeliveryNoteLineResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// DeliveryNoteResponse salida de un albarán.
type DeliveryNoteResponse struct {
	ID            string                     `json:"id"`
	Number        string                     `json:"number,omitempty"`
	IssueDate     time.Time                  `json:"issue_date"`
	ProjectID     string                     `json:"project_id"`
	ClientID      string                     `json:"client_id"`
	UserID        string                     `json:"user_id"`
	Lines         []DeliveryNoteLineResponse `json:"lines"`
	Total         decimal.Decimal            `json:"total"`
	Observations  string                     `json:"observations"`
	Status        string                     `json:"status"`
	SignaturePath string                     `json:"signature_path,omitempty"`
	SignedAt      *time.Time                 `json:"signed_at,omitempty"`
	PDFPath       string                     `json:"pdf_path,omitempty"`
	Deleted       bool                       `json:"deleted"`
	DeletedAt     *time.Time                 `json:"deleted_at,omitempty"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// SignedPDFResponse resultado de generar y guardar el PDF firmado.
type SignedPDFResponse struct {
	Message string               `json:"message"`
	PDFPath string               `json:"pdf_path"`
	Note    DeliveryNoteResponse `json:"delivery_note"`
}
