package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistemita-api/internal/domain/entity"
)

// Step es el resultado de imputar sobre una factura.
type Step struct {
	InvoiceID      string
	Applied        decimal.Decimal
	RemainingAfter decimal.Decimal
}

// Result resume una corrida de Plan.
type Result struct {
	Steps    []Step
	Consumed decimal.Decimal
	Left     decimal.Decimal
}

// Plan imputa creditAvailable sobre las facturas en el orden recibido.
// Las facturas que llegan cuando el crédito ya se agotó quedan con aplicado cero.
// Las facturas se modifican en el lugar.
func Plan(creditAvailable decimal.Decimal, invoices []*entity.Invoice) Result {
	left := decimal.Max(creditAvailable, decimal.Zero)
	res := Result{Steps: make([]Step, 0, len(invoices)), Consumed: decimal.Zero}
	for _, inv := range invoices {
		applied := decimal.Zero
		if left.IsPositive() {
			applied = Apply(inv, left)
			left = left.Sub(applied)
		}
		res.Consumed = res.Consumed.Add(applied)
		res.Steps = append(res.Steps, Step{InvoiceID: inv.ID, Applied: applied, RemainingAfter: inv.Total})
	}
	res.Left = left
	return res
}
