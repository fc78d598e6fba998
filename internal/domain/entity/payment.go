package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment es un pago a proveedor (Kind proveedor) o una cobranza a cliente (Kind cliente).
type Payment struct {
	ID             string
	Kind           Kind
	CounterpartyID string
	Date           time.Time
	Currency       Moneda
	Total          decimal.Decimal
	Paid           decimal.Decimal
	Lines          []PaymentInvoiceLine
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PaymentInvoiceLine vincula un pago con una factura y sus retenciones.
type PaymentInvoiceLine struct {
	ID            string
	PaymentID     string
	InvoiceID     string
	IncomeTax     decimal.Decimal // ganancias
	GrossReceipts decimal.Decimal // ingresos brutos
	VAT           decimal.Decimal // iva
	SUSS          decimal.Decimal
	Methods       []PaymentMethodLine
}

// Withholdings suma las retenciones de la línea.
func (l *PaymentInvoiceLine) Withholdings() decimal.Decimal {
	return l.IncomeTax.Add(l.GrossReceipts).Add(l.VAT).Add(l.SUSS)
}

// PaymentMethodLine es el monto abonado con un medio de pago dentro de una línea.
// MethodID vacío significa que el medio no fue informado.
type PaymentMethodLine struct {
	ID       string
	LineID   string
	MethodID string
	Amount   decimal.Decimal
}

// LineIndex devuelve la posición de la línea con ese id o -1.
func (p *Payment) LineIndex(lineID string) int {
	for i := range p.Lines {
		if p.Lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

// InvoiceIDs devuelve las facturas referenciadas por las líneas.
func (p *Payment) InvoiceIDs() []string {
	ids := make([]string, len(p.Lines))
	for i := range p.Lines {
		ids[i] = p.Lines[i].InvoiceID
	}
	return ids
}

// Clone devuelve una copia profunda.
func (p *Payment) Clone() *Payment {
	if p == nil {
		return nil
	}
	c := *p
	c.Lines = make([]PaymentInvoiceLine, len(p.Lines))
	for i, l := range p.Lines {
		l.Methods = append([]PaymentMethodLine(nil), l.Methods...)
		c.Lines[i] = l
	}
	return &c
}

// PaymentMethod es un medio de pago del catálogo (efectivo, cheque, transferencia...).
type PaymentMethod struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
