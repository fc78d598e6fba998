package dto

import "github.com/shopspring/decimal"

// Summary son los totales que declara quien llama; el motor los verifica.
type Summary struct {
	AmountOfInvoices   *decimal.Decimal `json:"monto_facturas" validate:"required"`
	AmountOfCreditNote *decimal.Decimal `json:"monto_nota_de_credito" validate:"required"`
	TotalInvoice       *decimal.Decimal `json:"total_factura" validate:"required"`
}

// CreateImputationRequest body para POST /api/factura-imputada.
// Invoices define el orden en que se consume la nota de crédito.
type CreateImputationRequest struct {
	Counterparty
	Summary
	Date         string   `json:"fecha" validate:"required,datetime=2006-01-02"`
	CreditNoteID string   `json:"nota_de_credito_id" validate:"required"`
	Invoices     []string `json:"facturas_list" validate:"required,min=1,dive,required"`
}

// ImputationRowRequest fila de un PUT de imputación.
// Invoice es la factura que queda en la fila (add/update); Data.ID la que estaba (update/delete).
type ImputationRowRequest struct {
	Invoice string  `json:"factura,omitempty"`
	Data    RowData `json:"data"`
}

// UpdateImputationRequest body para PUT /api/factura-imputada/:id.
type UpdateImputationRequest struct {
	Summary
	Date string                 `json:"fecha,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Rows []ImputationRowRequest `json:"facturas_list" validate:"required,min=1,dive"`
}

// ImputationRowResponse factura imputada dentro de un grupo.
type ImputationRowResponse struct {
	InvoiceID string           `json:"factura_id"`
	Position  int              `json:"posicion"`
	Applied   string           `json:"aplicado"`
	Invoice   *InvoiceResponse `json:"factura,omitempty"`
}

// ImputationResponse grupo de imputación en respuestas.
type ImputationResponse struct {
	ID string `json:"id"`
	Counterparty
	Date               string                  `json:"fecha"`
	Currency           string                  `json:"moneda"`
	CreditNoteID       string                  `json:"nota_de_credito_id"`
	CreditNote         *InvoiceResponse        `json:"nota_de_credito,omitempty"`
	Invoices           []ImputationRowResponse `json:"facturas"`
	AmountOfInvoices   string                  `json:"monto_facturas"`
	AmountOfCreditNote string                  `json:"monto_nota_de_credito"`
	TotalInvoice       string                  `json:"total_factura"`
}

// ImputationListResponse listado paginado de grupos.
type ImputationListResponse struct {
	Items []ImputationResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
