// Package allocation contiene la aritmética de imputación de notas de crédito.
// No persiste nada: recibe entidades y devuelve los montos movidos.
package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistemita-api/internal/domain/entity"
)

// Allocate aplica crédito disponible contra un saldo pendiente.
// applied = min(remaining, available); newRemaining = max(remaining - available, 0).
func Allocate(remaining, available decimal.Decimal) (newRemaining, applied decimal.Decimal) {
	if available.IsNegative() {
		available = decimal.Zero
	}
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	applied = decimal.Min(remaining, available)
	newRemaining = decimal.Max(remaining.Sub(available), decimal.Zero)
	return newRemaining, applied
}

// Apply imputa hasta available sobre el saldo de la factura y devuelve lo aplicado.
func Apply(inv *entity.Invoice, available decimal.Decimal) decimal.Decimal {
	newTotal, applied := Allocate(inv.Total, available)
	inv.Total = newTotal
	inv.AmountImputed = inv.AmountImputed.Add(applied)
	inv.Collected = inv.Total.IsZero()
	return applied
}

// Reverse deshace lo que una fila aplicó sobre la factura y devuelve lo liberado.
func Reverse(inv *entity.Invoice, applied decimal.Decimal) decimal.Decimal {
	released := decimal.Min(applied, inv.AmountImputed)
	if released.IsNegative() {
		released = decimal.Zero
	}
	inv.Total = inv.Total.Add(released)
	inv.AmountImputed = inv.AmountImputed.Sub(released)
	inv.Collected = false
	return released
}

// ApplyCreditNote descuenta de la nota de crédito lo consumido por sus facturas.
func ApplyCreditNote(nc *entity.Invoice, consumed decimal.Decimal) {
	nc.Total = decimal.Max(nc.Total.Sub(consumed), decimal.Zero)
	nc.AmountImputed = nc.AmountImputed.Add(consumed)
	nc.Collected = nc.Total.IsZero()
}

// ReverseCreditNote devuelve a la nota de crédito un monto liberado.
func ReverseCreditNote(nc *entity.Invoice, released decimal.Decimal) {
	nc.Total = nc.Total.Add(released)
	nc.AmountImputed = decimal.Max(nc.AmountImputed.Sub(released), decimal.Zero)
	nc.Collected = nc.Total.IsZero()
}

// TotalInvoice es el saldo del grupo: max(facturas - nota de crédito, 0).
func TotalInvoice(amountOfInvoices, amountOfCreditNote decimal.Decimal) decimal.Decimal {
	return decimal.Max(amountOfInvoices.Sub(amountOfCreditNote), decimal.Zero)
}
