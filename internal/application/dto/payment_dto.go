package dto

import "github.com/shopspring/decimal"

// PaymentMethodLineRequest monto abonado con un medio de pago.
// Si se informa Amount, Method es obligatorio.
type PaymentMethodLineRequest struct {
	Data   *RowData         `json:"data,omitempty" validate:"omitempty"`
	Method string           `json:"metodo,omitempty" validate:"required_with=Amount"`
	Amount *decimal.Decimal `json:"monto,omitempty" validate:"omitempty,gte=0"`
}

// PaymentLineRequest factura dentro de un pago o una cobranza, con sus retenciones.
// Los pagos usan pago_factura_pagos y las cobranzas cobranza_factura_pagos.
type PaymentLineRequest struct {
	Data            *RowData                   `json:"data,omitempty" validate:"omitempty"`
	Invoice         string                     `json:"factura,omitempty"`
	IncomeTax       decimal.Decimal            `json:"ganancias" validate:"gte=0"`
	GrossReceipts   decimal.Decimal            `json:"ingresos_brutos" validate:"gte=0"`
	VAT             decimal.Decimal            `json:"iva" validate:"gte=0"`
	SUSS            decimal.Decimal            `json:"suss" validate:"gte=0"`
	PagoMethods     []PaymentMethodLineRequest `json:"pago_factura_pagos,omitempty" validate:"omitempty,dive"`
	CobranzaMethods []PaymentMethodLineRequest `json:"cobranza_factura_pagos,omitempty" validate:"omitempty,dive"`
}

// Methods devuelve los medios de pago de la línea sin importar el nombre del campo.
func (l PaymentLineRequest) Methods() []PaymentMethodLineRequest {
	if len(l.CobranzaMethods) == 0 {
		return l.PagoMethods
	}
	return append(append([]PaymentMethodLineRequest(nil), l.PagoMethods...), l.CobranzaMethods...)
}

// PaymentLines agrupa las líneas de pago (pago_facturas) o de cobranza (cobranza_facturas).
type PaymentLines struct {
	PagoLines     []PaymentLineRequest `json:"pago_facturas,omitempty" validate:"omitempty,dive"`
	CobranzaLines []PaymentLineRequest `json:"cobranza_facturas,omitempty" validate:"omitempty,dive"`
}

// Lines devuelve las líneas en el orden recibido.
func (p PaymentLines) Lines() []PaymentLineRequest {
	if len(p.CobranzaLines) == 0 {
		return p.PagoLines
	}
	return append(append([]PaymentLineRequest(nil), p.PagoLines...), p.CobranzaLines...)
}

// CreatePaymentRequest body para POST /api/pagos y /api/cobranzas.
// Currency es opcional; si falta se toma la de la primera factura.
type CreatePaymentRequest struct {
	Counterparty
	PaymentLines
	Date     string           `json:"fecha" validate:"required,datetime=2006-01-02"`
	Currency string           `json:"moneda,omitempty" validate:"omitempty,oneof=P D"`
	Total    *decimal.Decimal `json:"total" validate:"required,gte=0"`
	Paid     *decimal.Decimal `json:"pagado,omitempty" validate:"omitempty,gte=0"`
}

// UpdatePaymentRequest body para PUT /api/pagos/:id y /api/cobranzas/:id.
// Cada línea lleva data.action; la cabecera se reemplaza siempre.
type UpdatePaymentRequest struct {
	PaymentLines
	Date  string           `json:"fecha" validate:"required,datetime=2006-01-02"`
	Total *decimal.Decimal `json:"total" validate:"required,gte=0"`
	Paid  *decimal.Decimal `json:"pagado,omitempty" validate:"omitempty,gte=0"`
}

// PaymentMethodLineResponse medio de pago de una línea.
type PaymentMethodLineResponse struct {
	ID     string `json:"id"`
	Method string `json:"metodo,omitempty"`
	Amount string `json:"monto"`
}

// PaymentLineResponse línea de un pago en respuestas.
type PaymentLineResponse struct {
	ID            string                      `json:"id"`
	InvoiceID     string                      `json:"factura"`
	IncomeTax     string                      `json:"ganancias"`
	GrossReceipts string                      `json:"ingresos_brutos"`
	VAT           string                      `json:"iva"`
	SUSS          string                      `json:"suss"`
	Withholdings  string                      `json:"retenciones"`
	Methods       []PaymentMethodLineResponse `json:"pagos"`
}

// PaymentResponse pago o cobranza en respuestas.
type PaymentResponse struct {
	ID string `json:"id"`
	Counterparty
	Kind     string                `json:"tipo"`
	Date     string                `json:"fecha"`
	Currency string                `json:"moneda"`
	Total    string                `json:"total"`
	Paid     string                `json:"pagado"`
	Lines    []PaymentLineResponse `json:"facturas"`
}

// PaymentListResponse listado paginado de pagos.
type PaymentListResponse struct {
	Items []PaymentResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
