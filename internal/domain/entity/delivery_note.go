package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryNoteStatus estado de un albarán.
type DeliveryNoteStatus string

const (
	NoteDraft     DeliveryNoteStatus = "Borrador"
	NoteIssued    DeliveryNoteStatus = "Emitido"
	NoteSigned    DeliveryNoteStatus = "Firmado"
	NoteCancelled DeliveryNoteStatus = "Cancelado"
)

// DefaultLineUnit unidad por defecto de una línea.
const DefaultLineUnit = "unidad"

// Valid indica si el estado pertenece al enum.
func (s DeliveryNoteStatus) Valid() bool {
	switch s {
	case NoteDraft, NoteIssued, NoteSigned, NoteCancelled:
		return true
	}
	return false
}

// DeliveryNoteLine línea de un albarán.
type DeliveryNoteLine struct {
	Description string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
}

// Total cantidad × precio unitario.
func (l DeliveryNoteLine) Total() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// DeliveryNote albarán de entrega asociado a un proyecto.
// ClientID se copia del proyecto al crear y no se edita después.
type DeliveryNote struct {
	ID            string
	UserID        string
	ProjectID     string
	ClientID      string
	Number        string
	IssueDate     time.Time
	Lines         []DeliveryNoteLine
	Observations  string
	Status        DeliveryNoteStatus
	SignaturePath string
	SignedAt      *time.Time
	PDFPath       string
	Deleted       bool
	DeletedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Total suma de los totales de línea.
func (n *DeliveryNote) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range n.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// DisplayNumber número visible del albarán; usa el ID si no tiene número.
func (n *DeliveryNote) DisplayNumber() string {
	if n.Number != "" {
		return n.Number
	}
	return n.ID
}

// Sign registra la firma. Solo Borrador/Emitido y no eliminado.
func (n *DeliveryNote) Sign(signaturePath string, now time.Time) error {
	if n.Status == NoteSigned {
		return ErrAlreadySigned
	}
	if n.Status == NoteCancelled || n.Deleted {
		return ErrNoteNotSignable
	}
	n.SignaturePath = signaturePath
	n.Status = NoteSigned
	n.SignedAt = &now
	return nil
}

// SoftDelete aplica el borrado lógico. Firmados y cancelados no se eliminan.
func (n *DeliveryNote) SoftDelete(now time.Time) error {
	switch {
	case n.Status == NoteSigned:
		return ErrSignedNoteDelete
	case n.Status == NoteCancelled:
		return ErrCancelledDelete
	case n.Deleted:
		return ErrAlreadyDeleted
	}
	n.Deleted = true
	n.DeletedAt = &now
	return nil
}

// Recover revierte SoftDelete.
func (n *DeliveryNote) Recover() error {
	if !n.Deleted {
		return ErrNotDeleted
	}
	n.Deleted = false
	n.DeletedAt = nil
	return nil
}

// CanHardDelete un albarán firmado no se borra físicamente.
func (n *DeliveryNote) CanHardDelete() error {
	if n.Status == NoteSigned {
		return ErrSignedNoteDelete
	}
	return nil
}

// AttachPDF guarda la ruta del PDF generado. Requiere estado Firmado.
func (n *DeliveryNote) AttachPDF(path string) error {
	if n.Status != NoteSigned {
		return ErrNoteNotSigned
	}
	n.PDFPath = path
	return nil
}
