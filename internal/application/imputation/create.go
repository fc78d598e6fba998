package imputation

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/sistemita-api/internal/application/dto"
	"github.com/jhoicas/sistemita-api/internal/application/guard"
	"github.com/jhoicas/sistemita-api/internal/application/ports"
	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/domain/allocation"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

// Create imputa la nota de crédito contra las facturas en el orden recibido.
// El crédito disponible es el saldo actual de la nota; las facturas que llegan con el
// crédito agotado quedan en el grupo sin imputación.
func (s *Service) Create(ctx context.Context, kind entity.Kind, in dto.CreateImputationRequest) (*dto.ImputationResponse, error) {
	ve := &domain.ValidationError{}
	counterpartyID := in.CounterpartyID(kind)
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		ve.Add("fecha", domain.MsgInvalidDate)
	}
	if in.CreditNoteID == "" {
		ve.Add("nota_de_credito_id", domain.MsgRequired)
	}
	if len(in.Invoices) == 0 {
		ve.Add("facturas", domain.MsgRequired)
	}
	seen := make(map[string]struct{}, len(in.Invoices))
	for _, id := range in.Invoices {
		if _, ok := seen[id]; ok || id == in.CreditNoteID {
			ve.Add("facturas", domain.MsgDuplicateInvoices)
		}
		seen[id] = struct{}{}
	}
	if ve.HasErrors() {
		return nil, ve
	}

	var group *entity.Imputation
	var touched map[string]*entity.Invoice
	err = ports.WithLock(ctx, s.locker, ports.CreditNoteLockKey(in.CreditNoteID), func() error {
		return finish(s.tx.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
			if err := guard.CheckCounterparty(ctx, repos.Counterparties, kind, counterpartyID, ve); err != nil {
				return err
			}
			locked, err := guard.LockInvoices(ctx, repos.Invoices, append([]string{in.CreditNoteID}, in.Invoices...))
			if err != nil {
				return err
			}
			nc := locked[in.CreditNoteID]
			checkCreditNote(nc, kind, counterpartyID, ve)
			ordered := make([]*entity.Invoice, 0, len(in.Invoices))
			for _, id := range in.Invoices {
				inv := locked[id]
				if checkInvoice(inv, nc, kind, counterpartyID, ve) {
					ordered = append(ordered, inv)
				}
			}
			if ve.HasErrors() {
				return ve
			}

			res := allocation.Plan(nc.Total, ordered)
			allocation.ApplyCreditNote(nc, res.Consumed)

			now := s.now()
			group = &entity.Imputation{
				ID:             uuid.New().String(),
				Kind:           kind,
				CounterpartyID: counterpartyID,
				Date:           date,
				Currency:       nc.Currency,
				CreditNoteID:   nc.ID,
				Rows:           make([]entity.ImputationRow, 0, len(res.Steps)),
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			for i, step := range res.Steps {
				group.Rows = append(group.Rows, entity.ImputationRow{InvoiceID: step.InvoiceID, Position: i, Applied: step.Applied})
			}

			sum := summarize(group, nc, locked)
			checkSummary(in.Summary, sum, ve)
			if ve.HasErrors() {
				return ve
			}
			group.AmountOfInvoices = sum.invoices
			group.AmountOfCreditNote = sum.creditNote
			group.TotalInvoice = sum.total

			for _, inv := range ordered {
				inv.UpdatedAt = now
				if err := repos.Invoices.Update(ctx, inv); err != nil {
					return err
				}
			}
			nc.UpdatedAt = now
			if err := repos.Invoices.Update(ctx, nc); err != nil {
				return err
			}
			if err := repos.Imputations.Create(ctx, group); err != nil {
				return err
			}
			touched = locked
			return nil
		}))
	})
	if err != nil {
		s.logFailure("crear", in.CreditNoteID, err)
		return nil, err
	}

	s.log.Info().
		Str("imputacion_id", group.ID).
		Str("nota_de_credito_id", group.CreditNoteID).
		Strs("facturas", group.InvoiceIDs()).
		Str("monto_facturas", dto.Money(group.AmountOfInvoices)).
		Str("total_factura", dto.Money(group.TotalInvoice)).
		Msg("imputación creada")
	out := dto.ImputationFromEntity(group, touched)
	return &out, nil
}

func (s *Service) logFailure(op, creditNoteID string, err error) {
	ev := s.log.Warn()
	if !domain.IsValidation(err) {
		ev = s.log.Error()
	}
	ev.Err(err).Str("operacion", op).Str("nota_de_credito_id", creditNoteID).Msg("imputación rechazada")
}
