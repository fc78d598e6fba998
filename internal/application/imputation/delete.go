package imputation

import (
	"context"

	"github.com/jhoicas/sistemita-api/internal/application/guard"
	"github.com/jhoicas/sistemita-api/internal/application/ports"
	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

// Delete revierte todas las imputaciones del grupo y lo elimina.
// Facturas y nota de crédito recuperan su saldo y quedan sin cobrar.
func (s *Service) Delete(ctx context.Context, kind entity.Kind, id string) error {
	current, err := s.repos.Imputations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil || current.Kind != kind {
		return domain.ErrNotFound
	}

	err = ports.WithLock(ctx, s.locker, ports.CreditNoteLockKey(current.CreditNoteID), func() error {
		return s.tx.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
			g, err := repos.Imputations.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if g == nil || g.Kind != kind {
				return domain.ErrNotFound
			}
			locked, err := guard.LockInvoices(ctx, repos.Invoices, append([]string{g.CreditNoteID}, g.InvoiceIDs()...))
			if err != nil {
				return err
			}
			nc := locked[g.CreditNoteID]
			now := s.now()
			for idx := range g.Rows {
				inv := locked[g.Rows[idx].InvoiceID]
				if inv == nil {
					continue
				}
				if nc != nil {
					releaseRow(g, nc, locked, idx)
				}
				inv.UpdatedAt = now
				if err := repos.Invoices.Update(ctx, inv); err != nil {
					return err
				}
			}
			if nc != nil {
				nc.Collected = false
				nc.UpdatedAt = now
				if err := repos.Invoices.Update(ctx, nc); err != nil {
					return err
				}
			}
			return repos.Imputations.Delete(ctx, g.ID)
		})
	})
	if err != nil {
		s.logFailure("eliminar", current.CreditNoteID, err)
		return err
	}
	s.log.Info().Str("imputacion_id", id).Str("nota_de_credito_id", current.CreditNoteID).Msg("imputación eliminada")
	return nil
}
