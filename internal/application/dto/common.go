package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistemita-api/internal/domain/entity"
)

// DateLayout formato de fecha en requests y responses.
const DateLayout = "2006-01-02"

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP. Fields lleva los mensajes por campo de una validación.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// Counterparty identifica la contraparte de un documento.
// Solo se usa el campo que corresponde al lado del libro.
type Counterparty struct {
	ClienteID   string `json:"cliente_id,omitempty"`
	ProveedorID string `json:"proveedor_id,omitempty"`
}

// CounterpartyID devuelve el id de contraparte según el lado del libro.
func (c Counterparty) CounterpartyID(kind entity.Kind) string {
	if kind == entity.KindProveedor {
		return c.ProveedorID
	}
	return c.ClienteID
}

// CounterpartyField es el nombre del campo de contraparte para mensajes de validación.
func CounterpartyField(kind entity.Kind) string {
	if kind == entity.KindProveedor {
		return "proveedor_id"
	}
	return "cliente_id"
}

// CounterpartyOf arma el identificador de contraparte para responses.
func CounterpartyOf(kind entity.Kind, id string) Counterparty {
	if kind == entity.KindProveedor {
		return Counterparty{ProveedorID: id}
	}
	return Counterparty{ClienteID: id}
}

// RowData indica qué hacer con una fila en un PUT y sobre qué registro existente.
type RowData struct {
	Action string `json:"action" validate:"required,oneof=add update delete"`
	ID     string `json:"id,omitempty"`
}

// Acciones de fila.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Money formatea un importe con dos decimales fijos.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatDate formatea una fecha con DateLayout; cero queda vacío.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseDate interpreta una fecha con DateLayout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
