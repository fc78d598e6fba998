package imputation

import (
	"context"
	"time"

	"github.com/jhoicas/sistemita-api/internal/application/dto"
	"github.com/jhoicas/sistemita-api/internal/application/guard"
	"github.com/jhoicas/sistemita-api/internal/application/ports"
	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/domain/allocation"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

// RowChange es una fila de un PUT ya interpretada.
// Current es la factura que estaba en la fila (update/delete); Invoice la que queda (add/update).
type RowChange struct {
	Action  string
	Current string
	Invoice string
}

// DecodeRows convierte las filas del request validando que cada acción traiga lo que necesita.
func DecodeRows(rows []dto.ImputationRowRequest, ve *domain.ValidationError) []RowChange {
	out := make([]RowChange, 0, len(rows))
	for _, r := range rows {
		rc := RowChange{Action: r.Data.Action, Current: r.Data.ID, Invoice: r.Invoice}
		switch rc.Action {
		case dto.ActionAdd:
			if rc.Invoice == "" {
				ve.Add("factura", domain.MsgRequired)
			}
		case dto.ActionUpdate:
			if rc.Invoice == "" {
				ve.Add("factura", domain.MsgRequired)
			}
			if rc.Current == "" {
				ve.Add("data.id", domain.MsgRequired)
			}
		case dto.ActionDelete:
			if rc.Current == "" {
				ve.Add("data.id", domain.MsgRequired)
			}
		default:
			ve.Add("data.action", domain.MsgInvalidAction)
		}
		out = append(out, rc)
	}
	return out
}

// Update aplica las filas en el orden recibido sobre el grupo. Cada fila usa el saldo vivo
// de la nota de crédito, por lo que el resultado depende del orden.
func (s *Service) Update(ctx context.Context, kind entity.Kind, id string, in dto.UpdateImputationRequest) (*dto.ImputationResponse, error) {
	ve := &domain.ValidationError{}
	changes := DecodeRows(in.Rows, ve)
	if len(changes) == 0 {
		ve.Add("facturas", domain.MsgRequired)
	}
	var newDate time.Time
	if in.Date != "" {
		d, err := dto.ParseDate(in.Date)
		if err != nil {
			ve.Add("fecha", domain.MsgInvalidDate)
		}
		newDate = d
	}
	if ve.HasErrors() {
		return nil, ve
	}

	current, err := s.repos.Imputations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil || current.Kind != kind {
		return nil, domain.ErrNotFound
	}

	var group *entity.Imputation
	var touched map[string]*entity.Invoice
	err = ports.WithLock(ctx, s.locker, ports.CreditNoteLockKey(current.CreditNoteID), func() error {
		return finish(s.tx.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
			g, err := repos.Imputations.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if g == nil || g.Kind != kind {
				return domain.ErrNotFound
			}
			ids := append([]string{g.CreditNoteID}, g.InvoiceIDs()...)
			for _, c := range changes {
				ids = append(ids, c.Current, c.Invoice)
			}
			locked, err := guard.LockInvoices(ctx, repos.Invoices, ids)
			if err != nil {
				return err
			}
			nc := locked[g.CreditNoteID]
			if nc == nil {
				return domain.NewValidationError("nota_de_credito_id", domain.MsgInvoiceNotFound)
			}

			dirty := make(map[string]*entity.Invoice)
			for _, c := range changes {
				if !applyChange(g, nc, locked, c, ve) {
					break
				}
				if inv := locked[c.Current]; inv != nil {
					dirty[inv.ID] = inv
				}
				if inv := locked[c.Invoice]; inv != nil {
					dirty[inv.ID] = inv
				}
			}
			if ve.HasErrors() {
				return ve
			}
			g.Renumber()

			sum := summarize(g, nc, locked)
			checkSummary(in.Summary, sum, ve)
			if ve.HasErrors() {
				return ve
			}
			g.AmountOfInvoices = sum.invoices
			g.AmountOfCreditNote = sum.creditNote
			g.TotalInvoice = sum.total
			if !newDate.IsZero() {
				g.Date = newDate
			}

			now := s.now()
			for _, inv := range dirty {
				inv.UpdatedAt = now
				if err := repos.Invoices.Update(ctx, inv); err != nil {
					return err
				}
			}
			nc.UpdatedAt = now
			if err := repos.Invoices.Update(ctx, nc); err != nil {
				return err
			}
			g.UpdatedAt = now
			if err := repos.Imputations.Update(ctx, g); err != nil {
				return err
			}
			group = g
			touched = locked
			return nil
		}))
	})
	if err != nil {
		s.logFailure("actualizar", current.CreditNoteID, err)
		return nil, err
	}

	s.log.Info().
		Str("imputacion_id", group.ID).
		Str("nota_de_credito_id", group.CreditNoteID).
		Strs("facturas", group.InvoiceIDs()).
		Int("acciones", len(changes)).
		Str("total_factura", dto.Money(group.TotalInvoice)).
		Msg("imputación actualizada")
	out := dto.ImputationFromEntity(group, touched)
	return &out, nil
}

// applyChange aplica una fila sobre el grupo en memoria. Devuelve false si la fila es inválida.
func applyChange(g *entity.Imputation, nc *entity.Invoice, invoices map[string]*entity.Invoice, c RowChange, ve *domain.ValidationError) bool {
	switch c.Action {
	case dto.ActionAdd:
		inv := invoices[c.Invoice]
		if !checkInvoice(inv, nc, g.Kind, g.CounterpartyID, ve) {
			return false
		}
		if g.RowIndex(inv.ID) >= 0 {
			ve.Add("facturas", domain.MsgDuplicateInvoices)
			return false
		}
		applied := allocation.Apply(inv, nc.Total)
		allocation.ApplyCreditNote(nc, applied)
		g.Rows = append(g.Rows, entity.ImputationRow{InvoiceID: inv.ID, Applied: applied})

	case dto.ActionDelete:
		idx := g.RowIndex(c.Current)
		if idx < 0 {
			ve.Add("data.id", domain.MsgNotInImputation)
			return false
		}
		releaseRow(g, nc, invoices, idx)
		g.Rows = append(g.Rows[:idx], g.Rows[idx+1:]...)

	case dto.ActionUpdate:
		idx := g.RowIndex(c.Current)
		if idx < 0 {
			ve.Add("data.id", domain.MsgNotInImputation)
			return false
		}
		if c.Invoice == c.Current {
			return true
		}
		inv := invoices[c.Invoice]
		if !checkInvoice(inv, nc, g.Kind, g.CounterpartyID, ve) {
			return false
		}
		if g.RowIndex(inv.ID) >= 0 {
			ve.Add("facturas", domain.MsgDuplicateInvoices)
			return false
		}
		releaseRow(g, nc, invoices, idx)
		applied := allocation.Apply(inv, nc.Total)
		allocation.ApplyCreditNote(nc, applied)
		g.Rows[idx] = entity.ImputationRow{InvoiceID: inv.ID, Applied: applied}

	default:
		ve.Add("data.action", domain.MsgInvalidAction)
		return false
	}
	return true
}

// releaseRow devuelve a la nota de crédito lo que la fila idx había aplicado.
func releaseRow(g *entity.Imputation, nc *entity.Invoice, invoices map[string]*entity.Invoice, idx int) {
	row := g.Rows[idx]
	inv := invoices[row.InvoiceID]
	if inv == nil {
		return
	}
	released := allocation.Reverse(inv, row.Applied)
	allocation.ReverseCreditNote(nc, released)
}
