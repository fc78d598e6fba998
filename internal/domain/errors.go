package domain

import (
	"errors"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// NonFieldErrors agrupa los errores que no corresponden a un campo puntual.
const NonFieldErrors = "non_field_errors"

// ValidationError es el único tipo de error que exponen los motores de imputación y pagos.
// Fields mapea el nombre del campo (tal como llega en el JSON) a sus mensajes.
type ValidationError struct {
	Fields map[string][]string
	cause  error
}

// NewValidationError crea un error con un único mensaje asociado a field.
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// Add agrega un mensaje al campo indicado. No repite mensajes idénticos.
func (v *ValidationError) Add(field, message string) {
	if v.Fields == nil {
		v.Fields = make(map[string][]string)
	}
	for _, m := range v.Fields[field] {
		if m == message {
			return
		}
	}
	v.Fields[field] = append(v.Fields[field], message)
}

// HasErrors indica si se registró al menos un mensaje.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.Fields) > 0
}

// OrNil devuelve nil cuando no hay mensajes, para poder retornar el acumulador directamente.
func (v *ValidationError) OrNil() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

// Has indica si el campo tiene al menos un mensaje.
func (v *ValidationError) Has(field string) bool {
	return v != nil && len(v.Fields[field]) > 0
}

func (v *ValidationError) Error() string {
	if v == nil || len(v.Fields) == 0 {
		return "error de validación"
	}
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(v.Fields[k], " "))
	}
	return strings.Join(parts, "; ")
}

// Unwrap expone el error original cuando la validación envuelve una falla de persistencia.
func (v *ValidationError) Unwrap() error {
	return v.cause
}

// WrapValidation convierte cualquier error en un ValidationError.
// Si err ya es de validación se devuelve tal cual; nil queda nil.
func WrapValidation(err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return err
	}
	wrapped := NewValidationError(NonFieldErrors, err.Error())
	wrapped.cause = err
	return wrapped
}

// IsValidation indica si err es (o envuelve) un ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
