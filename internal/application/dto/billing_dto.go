package dto

import "github.com/shopspring/decimal"

// CreateCounterpartyRequest body para POST /api/clientes y /api/proveedores.
type CreateCounterpartyRequest struct {
	BusinessName string `json:"razon_social" validate:"required,max=200"`
	CUIT         string `json:"cuit" validate:"required,len=11,numeric"`
	Email        string `json:"correo,omitempty" validate:"omitempty,email"`
	Phone        string `json:"telefono,omitempty" validate:"omitempty,max=50"`
}

// CounterpartyResponse cliente o proveedor en respuestas.
type CounterpartyResponse struct {
	ID           string `json:"id"`
	Kind         string `json:"tipo"`
	BusinessName string `json:"razon_social"`
	CUIT         string `json:"cuit"`
	Email        string `json:"correo,omitempty"`
	Phone        string `json:"telefono,omitempty"`
}

// CreateInvoiceRequest body para POST /api/facturas y /api/facturas-proveedor.
// Si Total no se informa se calcula como Neto más el porcentaje de IVA.
type CreateInvoiceRequest struct {
	Counterparty
	Number   string           `json:"numero" validate:"required,max=13"`
	Date     string           `json:"fecha" validate:"required,datetime=2006-01-02"`
	Type     string           `json:"tipo" validate:"required,oneof=A ARETEN B C FCPYME M NCA NCARETEN NCB NCC NCFCPYME NCM"`
	Currency string           `json:"moneda" validate:"required,oneof=P D"`
	Net      decimal.Decimal  `json:"neto" validate:"gte=0"`
	VAT      *decimal.Decimal `json:"iva,omitempty" validate:"omitempty,gte=0"`
	Total    *decimal.Decimal `json:"total,omitempty" validate:"omitempty,gte=0"`
	Detail   string           `json:"detalle,omitempty" validate:"omitempty,max=500"`
}

// InvoiceResponse factura o nota de crédito en respuestas.
type InvoiceResponse struct {
	ID string `json:"id"`
	Counterparty
	Number        string `json:"numero"`
	Date          string `json:"fecha"`
	Type          string `json:"tipo"`
	Currency      string `json:"moneda"`
	Net           string `json:"neto"`
	VAT           string `json:"iva"`
	Total         string `json:"total"`
	AmountImputed string `json:"monto_imputado"`
	Collected     bool   `json:"cobrado"`
	Detail        string `json:"detalle,omitempty"`
}

// InvoiceListResponse listado paginado de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreatePaymentMethodRequest body para POST /api/medios-pago.
type CreatePaymentMethodRequest struct {
	Name string `json:"nombre" validate:"required,max=100"`
}

// PaymentMethodResponse medio de pago del catálogo.
type PaymentMethodResponse struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

// ImportRowError fila de un archivo de comprobantes que no se importó.
type ImportRowError struct {
	Row    int    `json:"fila"`
	Number string `json:"numero,omitempty"`
	Reason string `json:"motivo"`
}

// ImportReport resultado de importar un archivo de comprobantes.
type ImportReport struct {
	Created int              `json:"creadas"`
	Skipped []ImportRowError `json:"omitidas"`
}
