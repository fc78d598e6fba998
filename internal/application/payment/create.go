package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/sistemita-api/internal/application/dto"
	"github.com/jhoicas/sistemita-api/internal/application/guard"
	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

// Create registra el pago, sus líneas con retenciones y sus medios de pago.
// Cada factura referenciada queda cobrada.
func (s *Service) Create(ctx context.Context, kind entity.Kind, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	ve := &domain.ValidationError{}
	counterpartyID := in.CounterpartyID(kind)
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		ve.Add("fecha", domain.MsgInvalidDate)
	}
	currency := entity.Moneda(in.Currency)
	if currency != "" && !currency.Valid() {
		ve.Add("moneda", domain.MsgInvalidCurrency)
	}
	if in.Total == nil {
		ve.Add("total", domain.MsgRequired)
	} else if in.Total.IsNegative() {
		ve.Add("total", domain.MsgNegativeAmount)
	}
	lines := in.Lines()
	invoiceIDs := make([]string, 0, len(lines))
	methodIDs := make([]string, 0)
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if l.Invoice == "" {
			ve.Add("factura", domain.MsgRequired)
			continue
		}
		if _, ok := seen[l.Invoice]; ok {
			ve.Add("facturas", domain.MsgDuplicateInvoices)
		}
		seen[l.Invoice] = struct{}{}
		invoiceIDs = append(invoiceIDs, l.Invoice)
		checkLineAmounts(l, ve)
		for _, m := range l.Methods() {
			methodIDs = append(methodIDs, m.Method)
		}
	}
	if ve.HasErrors() {
		return nil, ve
	}

	var created *entity.Payment
	err = finish(s.tx.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := guard.CheckCounterparty(ctx, repos.Counterparties, kind, counterpartyID, ve); err != nil {
			return err
		}
		invoices, err := guard.LockInvoices(ctx, repos.Invoices, invoiceIDs)
		if err != nil {
			return err
		}
		currency = checkInvoices(invoiceIDs, invoices, kind, counterpartyID, currency, ve)
		if err := checkMethods(ctx, repos.PaymentMethods, methodIDs, ve); err != nil {
			return err
		}
		if ve.HasErrors() {
			return ve
		}
		if currency == "" {
			currency = entity.MonedaPesos
		}

		now := s.now()
		p := &entity.Payment{
			ID:             uuid.New().String(),
			Kind:           kind,
			CounterpartyID: counterpartyID,
			Date:           date,
			Currency:       currency,
			Total:          amountOf(in.Total),
			Paid:           amountOf(in.Paid),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := repos.Payments.Create(ctx, p); err != nil {
			return err
		}
		for _, l := range lines {
			if err := repos.Invoices.SetCollected(ctx, l.Invoice, true); err != nil {
				return err
			}
			if _, err := createLine(ctx, repos.Payments, p.ID, l); err != nil {
				return err
			}
		}
		created = p
		return nil
	}))
	if err != nil {
		s.logFailure("crear", "", err)
		return nil, err
	}

	full, err := s.repos.Payments.GetByID(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("pago_id", full.ID).
		Str("tipo", string(kind)).
		Strs("facturas", full.InvoiceIDs()).
		Str("total", dto.Money(full.Total)).
		Msg("pago creado")
	out := dto.PaymentFromEntity(full)
	return &out, nil
}

// createLine crea la línea y todos sus medios de pago como nuevos.
func createLine(ctx context.Context, repo repository.PaymentRepository, paymentID string, l dto.PaymentLineRequest) (*entity.PaymentInvoiceLine, error) {
	line := &entity.PaymentInvoiceLine{
		ID:            uuid.New().String(),
		PaymentID:     paymentID,
		InvoiceID:     l.Invoice,
		IncomeTax:     l.IncomeTax.Round(2),
		GrossReceipts: l.GrossReceipts.Round(2),
		VAT:           l.VAT.Round(2),
		SUSS:          l.SUSS.Round(2),
	}
	if err := repo.CreateLine(ctx, line); err != nil {
		return nil, err
	}
	for _, m := range l.Methods() {
		if err := createMethodLine(ctx, repo, line.ID, m); err != nil {
			return nil, err
		}
	}
	return line, nil
}

func createMethodLine(ctx context.Context, repo repository.PaymentRepository, lineID string, m dto.PaymentMethodLineRequest) error {
	return repo.CreateMethodLine(ctx, &entity.PaymentMethodLine{
		ID:       uuid.New().String(),
		LineID:   lineID,
		MethodID: m.Method,
		Amount:   amountOf(m.Amount),
	})
}
