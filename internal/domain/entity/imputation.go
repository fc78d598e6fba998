package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImputationRow es una factura dentro de un grupo de imputación.
// Applied es lo que la nota de crédito del grupo aplicó sobre esa factura.
type ImputationRow struct {
	InvoiceID string
	Position  int
	Applied   decimal.Decimal
}

// Imputation agrupa una nota de crédito con las facturas contra las que se aplica.
type Imputation struct {
	ID                 string
	Kind               Kind
	CounterpartyID     string
	Date               time.Time
	Currency           Moneda
	CreditNoteID       string
	Rows               []ImputationRow // en orden de imputación
	AmountOfInvoices   decimal.Decimal
	AmountOfCreditNote decimal.Decimal
	TotalInvoice       decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// InvoiceIDs devuelve los ids de las facturas del grupo en orden.
func (g *Imputation) InvoiceIDs() []string {
	ids := make([]string, len(g.Rows))
	for i, r := range g.Rows {
		ids[i] = r.InvoiceID
	}
	return ids
}

// RowIndex devuelve la posición de la factura en el grupo o -1.
func (g *Imputation) RowIndex(invoiceID string) int {
	for i, r := range g.Rows {
		if r.InvoiceID == invoiceID {
			return i
		}
	}
	return -1
}

// Renumber reasigna Position según el orden actual de Rows.
func (g *Imputation) Renumber() {
	for i := range g.Rows {
		g.Rows[i].Position = i
	}
}

// Clone devuelve una copia independiente (incluye las filas).
func (g *Imputation) Clone() *Imputation {
	if g == nil {
		return nil
	}
	c := *g
	c.Rows = append([]ImputationRow(nil), g.Rows...)
	return &c
}
