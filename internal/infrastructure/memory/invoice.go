package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

// InvoiceRepo implementa repository.InvoiceRepository en memoria.
type InvoiceRepo struct{ base }

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.with(func(st *state) error {
		if _, ok := st.invoices[inv.ID]; ok {
			return fmt.Errorf("insert invoice: %w", domain.ErrDuplicate)
		}
		for _, other := range st.invoices {
			if other.Kind == inv.Kind && other.CounterpartyID == inv.CounterpartyID && other.Number == inv.Number {
				return fmt.Errorf("insert invoice: %w", domain.ErrDuplicate)
			}
		}
		st.invoices[inv.ID] = inv.Clone()
		st.track(inv.ID)
		return nil
	})
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.with(func(st *state) error {
		out = st.invoices[id].Clone()
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a GetByID: Run ya serializa las transacciones.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *InvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	return r.with(func(st *state) error {
		if _, ok := st.invoices[inv.ID]; !ok {
			return fmt.Errorf("update invoice %s: %w", inv.ID, domain.ErrNotFound)
		}
		st.invoices[inv.ID] = inv.Clone()
		return nil
	})
}

func (r *InvoiceRepo) SetCollected(_ context.Context, id string, collected bool) error {
	return r.with(func(st *state) error {
		inv, ok := st.invoices[id]
		if !ok {
			return fmt.Errorf("set collected %s: %w", id, domain.ErrNotFound)
		}
		inv.Collected = collected
		return nil
	})
}

func (r *InvoiceRepo) GetByNumber(_ context.Context, kind entity.Kind, counterpartyID, number string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.with(func(st *state) error {
		for _, inv := range st.invoices {
			if inv.Kind == kind && inv.CounterpartyID == counterpartyID && inv.Number == number {
				out = inv.Clone()
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	err := r.with(func(st *state) error {
		ids := make([]string, 0, len(st.invoices))
		for id, inv := range st.invoices {
			if inv.Kind == f.Kind && (f.CounterpartyID == "" || inv.CounterpartyID == f.CounterpartyID) {
				ids = append(ids, id)
			}
		}
		st.sortByInsertion(ids)
		for _, id := range page(ids, f.Limit, f.Offset) {
			out = append(out, st.invoices[id].Clone())
		}
		return nil
	})
	return out, err
}
