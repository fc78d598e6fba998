package payment

import (
	"context"

	"github.com/jhoicas/sistemita-api/internal/application/dto"
	"github.com/jhoicas/sistemita-api/internal/application/guard"
	"github.com/jhoicas/sistemita-api/internal/application/ports"
	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

// checkUpdateRows valida que cada fila traiga lo que su acción necesita.
func checkUpdateRows(lines []dto.PaymentLineRequest, ve *domain.ValidationError) {
	for _, l := range lines {
		if l.Data == nil {
			ve.Add("data", domain.MsgRequired)
			continue
		}
		switch l.Data.Action {
		case dto.ActionAdd:
			if l.Invoice == "" {
				ve.Add("factura", domain.MsgRequired)
			}
			checkLineAmounts(l, ve)
		case dto.ActionUpdate:
			if l.Data.ID == "" {
				ve.Add("data.id", domain.MsgRequired)
			}
			if l.Invoice == "" {
				ve.Add("factura", domain.MsgRequired)
			}
			checkLineAmounts(l, ve)
			for _, m := range l.Methods() {
				if m.Data == nil {
					ve.Add("data", domain.MsgRequired)
					continue
				}
				switch m.Data.Action {
				case dto.ActionAdd:
				case dto.ActionUpdate, dto.ActionDelete:
					if m.Data.ID == "" {
						ve.Add("data.id", domain.MsgRequired)
					}
				default:
					ve.Add("data.action", domain.MsgInvalidAction)
				}
			}
		case dto.ActionDelete:
			if l.Data.ID == "" {
				ve.Add("data.id", domain.MsgRequired)
			}
		default:
			ve.Add("data.action", domain.MsgInvalidAction)
		}
	}
}

// Update reemplaza la cabecera y aplica las acciones de cada línea en el orden recibido.
func (s *Service) Update(ctx context.Context, kind entity.Kind, id string, in dto.UpdatePaymentRequest) (*dto.PaymentResponse, error) {
	ve := &domain.ValidationError{}
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		ve.Add("fecha", domain.MsgInvalidDate)
	}
	if in.Total == nil {
		ve.Add("total", domain.MsgRequired)
	} else if in.Total.IsNegative() {
		ve.Add("total", domain.MsgNegativeAmount)
	}
	lines := in.Lines()
	checkUpdateRows(lines, ve)
	if ve.HasErrors() {
		return nil, ve
	}

	err = ports.WithLock(ctx, s.locker, ports.PaymentLockKey(id), func() error {
		return finish(s.tx.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
			p, err := repos.Payments.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if p == nil || p.Kind != kind {
				return domain.ErrNotFound
			}

			changed, methodIDs := resolve(p, lines, ve)
			if ve.HasErrors() {
				return ve
			}
			lockIDs := append(p.InvoiceIDs(), changed...)
			invoices, err := guard.LockInvoices(ctx, repos.Invoices, lockIDs)
			if err != nil {
				return err
			}
			checkInvoices(changed, invoices, kind, p.CounterpartyID, p.Currency, ve)
			if err := checkMethods(ctx, repos.PaymentMethods, methodIDs, ve); err != nil {
				return err
			}
			if ve.HasErrors() {
				return ve
			}

			for _, l := range lines {
				if err := applyLine(ctx, repos, p, l); err != nil {
					return err
				}
			}
			p.Date = date
			p.Total = amountOf(in.Total)
			p.Paid = amountOf(in.Paid)
			p.UpdatedAt = s.now()
			return repos.Payments.UpdateHeader(ctx, p)
		}))
	})
	if err != nil {
		s.logFailure("actualizar", id, err)
		return nil, err
	}

	full, err := s.repos.Payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("pago_id", id).
		Str("tipo", string(kind)).
		Int("acciones", len(lines)).
		Strs("facturas", full.InvoiceIDs()).
		Msg("pago actualizado")
	out := dto.PaymentFromEntity(full)
	return &out, nil
}

// resolve simula las acciones sobre las líneas actuales sin tocar la base. Las filas se
// aplican en el orden recibido y ninguna puede dejar una factura en dos líneas, ni siquiera
// de forma transitoria. Devuelve las facturas que entran por add/update y los medios de
// pago referenciados.
func resolve(p *entity.Payment, lines []dto.PaymentLineRequest, ve *domain.ValidationError) (changed, methodIDs []string) {
	current := make(map[string]string, len(p.Lines))
	held := make(map[string]struct{}, len(p.Lines))
	for _, l := range p.Lines {
		current[l.ID] = l.InvoiceID
		held[l.InvoiceID] = struct{}{}
	}
	take := func(invID string) {
		if _, ok := held[invID]; ok {
			ve.Add("facturas", domain.MsgDuplicateInvoices)
		}
		held[invID] = struct{}{}
	}
	for _, l := range lines {
		switch l.Data.Action {
		case dto.ActionAdd:
			take(l.Invoice)
			changed = append(changed, l.Invoice)
			for _, m := range l.Methods() {
				methodIDs = append(methodIDs, m.Method)
			}
		case dto.ActionUpdate:
			prev, ok := current[l.Data.ID]
			if !ok {
				ve.Add("data.id", domain.MsgLineNotFound)
				continue
			}
			if prev != l.Invoice {
				take(l.Invoice)
				delete(held, prev)
				changed = append(changed, l.Invoice)
			}
			current[l.Data.ID] = l.Invoice
			line := &p.Lines[p.LineIndex(l.Data.ID)]
			for _, m := range l.Methods() {
				if m.Data.Action != dto.ActionAdd && !hasMethodLine(line, m.Data.ID) {
					ve.Add("data.id", domain.MsgLineNotFound)
				}
				if m.Data.Action != dto.ActionDelete {
					methodIDs = append(methodIDs, m.Method)
				}
			}
		case dto.ActionDelete:
			prev, ok := current[l.Data.ID]
			if !ok {
				ve.Add("data.id", domain.MsgLineNotFound)
				continue
			}
			delete(current, l.Data.ID)
			delete(held, prev)
		}
	}
	return changed, methodIDs
}

func hasMethodLine(line *entity.PaymentInvoiceLine, id string) bool {
	for _, m := range line.Methods {
		if m.ID == id {
			return true
		}
	}
	return false
}

// applyLine persiste una fila ya validada y mantiene p.Lines al día.
func applyLine(ctx context.Context, repos repository.Repositories, p *entity.Payment, l dto.PaymentLineRequest) error {
	switch l.Data.Action {
	case dto.ActionAdd:
		if err := repos.Invoices.SetCollected(ctx, l.Invoice, true); err != nil {
			return err
		}
		_, err := createLine(ctx, repos.Payments, p.ID, l)
		return err

	case dto.ActionUpdate:
		idx := p.LineIndex(l.Data.ID)
		line := p.Lines[idx]
		if line.InvoiceID != l.Invoice {
			if err := repos.Invoices.SetCollected(ctx, line.InvoiceID, false); err != nil {
				return err
			}
		}
		if err := repos.Invoices.SetCollected(ctx, l.Invoice, true); err != nil {
			return err
		}
		line.InvoiceID = l.Invoice
		line.IncomeTax = l.IncomeTax.Round(2)
		line.GrossReceipts = l.GrossReceipts.Round(2)
		line.VAT = l.VAT.Round(2)
		line.SUSS = l.SUSS.Round(2)
		if err := repos.Payments.UpdateLine(ctx, &line); err != nil {
			return err
		}
		p.Lines[idx] = line
		for _, m := range l.Methods() {
			var err error
			switch m.Data.Action {
			case dto.ActionAdd:
				err = createMethodLine(ctx, repos.Payments, line.ID, m)
			case dto.ActionUpdate:
				err = repos.Payments.UpdateMethodLine(ctx, &entity.PaymentMethodLine{
					ID: m.Data.ID, LineID: line.ID, MethodID: m.Method, Amount: amountOf(m.Amount),
				})
			case dto.ActionDelete:
				err = repos.Payments.DeleteMethodLine(ctx, m.Data.ID)
			}
			if err != nil {
				return err
			}
		}
		return nil

	case dto.ActionDelete:
		idx := p.LineIndex(l.Data.ID)
		line := p.Lines[idx]
		if err := repos.Invoices.SetCollected(ctx, line.InvoiceID, false); err != nil {
			return err
		}
		if err := repos.Payments.DeleteLine(ctx, line.ID); err != nil {
			return err
		}
		p.Lines = append(p.Lines[:idx], p.Lines[idx+1:]...)
		return nil
	}
	return nil
}
