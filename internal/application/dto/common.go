package dto

import "github.com/jhoicas/albaranes-api/internal/application/validation"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
	Stack   string                  `json:"stack,omitempty"`
}

// MessageResponse respuesta con solo un mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}

// ListResponse lista con total de elementos.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewList construye un ListResponse; nunca serializa null.
func NewList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}
