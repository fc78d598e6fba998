package domain

// Mensajes de validación compartidos por los motores de imputación y pagos.
const (
	MsgRequired              = "Este campo es requerido."
	MsgCurrencyMismatch      = "Las facturas deben ser de la misma monedas."
	MsgDuplicateInvoices     = "Hay facturas repetidas."
	MsgInvoiceNotFound       = "La factura no existe."
	MsgNotCreditNote         = "La factura no es una nota de crédito."
	MsgCreditNoteAsInvoice   = "Una nota de crédito no puede imputarse como factura."
	MsgClientNotFound        = "El cliente no existe."
	MsgSupplierNotFound      = "El proveedor no existe."
	MsgInvalidDate           = "Fecha inválida."
	MsgInvalidCurrency       = "Moneda inválida."
	MsgMethodRequired        = "El método de pago es requerido cuando se informa el monto."
	MsgMethodNotFound        = "El método de pago no existe."
	MsgLineNotFound          = "La línea no existe."
	MsgNotInImputation       = "La factura no está en la imputación."
	MsgNegativeAmount        = "El monto no puede ser negativo."
	MsgInvalidAction         = "Acción inválida."
	MsgInvalidInvoiceType    = "Tipo de factura inválido."
	MsgSummaryMismatchFormat = "El monto informado no coincide con el calculado (%s)."
)
