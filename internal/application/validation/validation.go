// Package validation aplica las etiquetas `validate` de los DTOs con
// go-playground/validator y devuelve todos los campos inválidos de una vez.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/albaranes-api/internal/domain"
)

// FieldError error de un campo concreto, con el nombre JSON del campo.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors lista de campos inválidos. Implementa error.
type Errors struct {
	Fields []FieldError
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validación fallida: " + strings.Join(parts, "; ")
}

// New construye un *Errors con un único campo.
func New(field, message string) *Errors {
	return &Errors{Fields: []FieldError{{Field: field, Message: message}}}
}

// Validator envuelve una instancia de validator configurada para usar los nombres JSON.
type Validator struct {
	v *validator.Validate
}

// NewValidator construye el validador. Es seguro para uso concurrente.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	// Los decimales se validan como float64 (gte, lte...).
	v.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
		d, ok := f.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		return d.InexactFloat64()
	}, decimal.Decimal{})
	return &Validator{v: v}
}

// Struct valida s. Devuelve nil o un *Errors.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Errors{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fieldPath(fe), Message: message(fe)})
	}
	return out
}

// fieldPath quita el nombre del struct raíz: "CreateClientRequest.address.city" -> "address.city".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "debe ser un email válido"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("debe tener al menos %s caracteres", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("debe contener al menos %s elementos", fe.Param())
		}
		return fmt.Sprintf("debe ser mayor o igual que %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("no puede superar %s caracteres", fe.Param())
		}
		return fmt.Sprintf("debe ser menor o igual que %s", fe.Param())
	case "gte":
		return fmt.Sprintf("debe ser mayor o igual que %s", fe.Param())
	case "oneof":
		return "debe ser uno de: " + strings.ReplaceAll(fe.Param(), "'", "")
	case "uuid", "uuid4":
		return "debe ser un identificador válido"
	case "url":
		return "debe ser una URL válida"
	case "nefield":
		return "debe ser distinto de " + fe.Param()
	}
	return "no es válido (" + fe.Tag() + ")"
}

// Is permite errors.Is(err, &Errors{}) y errors.Is(err, domain.ErrInvalidInput).
func (e *Errors) Is(target error) bool {
	if target == domain.ErrInvalidInput {
		return true
	}
	_, ok := target.(*Errors)
	return ok
}

// AsErrors extrae el *Errors si err lo contiene.
func AsErrors(err error) (*Errors, bool) {
	var ve *Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
