package dto

import "github.com/jhoicas/sistemita-api/internal/domain/entity"

// InvoiceFromEntity arma la respuesta de una factura.
func InvoiceFromEntity(inv *entity.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.ID,
		Counterparty:  CounterpartyOf(inv.Kind, inv.CounterpartyID),
		Number:        inv.Number,
		Date:          FormatDate(inv.Date),
		Type:          inv.Type,
		Currency:      string(inv.Currency),
		Net:           Money(inv.Net),
		VAT:           Money(inv.VAT),
		Total:         Money(inv.Total),
		AmountImputed: Money(inv.AmountImputed),
		Collected:     inv.Collected,
		Detail:        inv.Detail,
	}
}

// CounterpartyFromEntity arma la respuesta de un cliente o proveedor.
func CounterpartyFromEntity(c *entity.Counterparty) CounterpartyResponse {
	return CounterpartyResponse{
		ID:           c.ID,
		Kind:         string(c.Kind),
		BusinessName: c.BusinessName,
		CUIT:         c.CUIT,
		Email:        c.Email,
		Phone:        c.Phone,
	}
}

// PaymentMethodFromEntity arma la respuesta de un medio de pago.
func PaymentMethodFromEntity(m *entity.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{ID: m.ID, Name: m.Name}
}

// ImputationFromEntity arma la respuesta de un grupo. invoices es opcional e indexa
// por id las facturas (y la nota de crédito) a incluir expandidas.
func ImputationFromEntity(g *entity.Imputation, invoices map[string]*entity.Invoice) ImputationResponse {
	out := ImputationResponse{
		ID:                 g.ID,
		Counterparty:       CounterpartyOf(g.Kind, g.CounterpartyID),
		Date:               FormatDate(g.Date),
		Currency:           string(g.Currency),
		CreditNoteID:       g.CreditNoteID,
		Invoices:           make([]ImputationRowResponse, 0, len(g.Rows)),
		AmountOfInvoices:   Money(g.AmountOfInvoices),
		AmountOfCreditNote: Money(g.AmountOfCreditNote),
		TotalInvoice:       Money(g.TotalInvoice),
	}
	if nc, ok := invoices[g.CreditNoteID]; ok {
		r := InvoiceFromEntity(nc)
		out.CreditNote = &r
	}
	for _, row := range g.Rows {
		item := ImputationRowResponse{InvoiceID: row.InvoiceID, Position: row.Position, Applied: Money(row.Applied)}
		if inv, ok := invoices[row.InvoiceID]; ok {
			r := InvoiceFromEntity(inv)
			item.Invoice = &r
		}
		out.Invoices = append(out.Invoices, item)
	}
	return out
}

// PaymentFromEntity arma la respuesta de un pago o cobranza.
func PaymentFromEntity(p *entity.Payment) PaymentResponse {
	out := PaymentResponse{
		ID:           p.ID,
		Counterparty: CounterpartyOf(p.Kind, p.CounterpartyID),
		Kind:         string(p.Kind),
		Date:         FormatDate(p.Date),
		Currency:     string(p.Currency),
		Total:        Money(p.Total),
		Paid:         Money(p.Paid),
		Lines:        make([]PaymentLineResponse, 0, len(p.Lines)),
	}
	for _, l := range p.Lines {
		line := PaymentLineResponse{
			ID:            l.ID,
			InvoiceID:     l.InvoiceID,
			IncomeTax:     Money(l.IncomeTax),
			GrossReceipts: Money(l.GrossReceipts),
			VAT:           Money(l.VAT),
			SUSS:          Money(l.SUSS),
			Withholdings:  Money(l.Withholdings()),
			Methods:       make([]PaymentMethodLineResponse, 0, len(l.Methods)),
		}
		for _, m := range l.Methods {
			line.Methods = append(line.Methods, PaymentMethodLineResponse{ID: m.ID, Method: m.MethodID, Amount: Money(m.Amount)})
		}
		out.Lines = append(out.Lines, line)
	}
	return out
}
