package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

// ImputationRepo implementa repository.ImputationRepository en memoria.
type ImputationRepo struct{ base }

func (r *ImputationRepo) Create(_ context.Context, g *entity.Imputation) error {
	return r.with(func(st *state) error {
		if _, ok := st.imputations[g.ID]; ok {
			return fmt.Errorf("insert imputation: %w", domain.ErrDuplicate)
		}
		for _, row := range g.Rows {
			if _, ok := st.invoices[row.InvoiceID]; !ok {
				return fmt.Errorf("insert imputation row %s: %w", row.InvoiceID, domain.ErrNotFound)
			}
		}
		st.imputations[g.ID] = g.Clone()
		st.track(g.ID)
		return nil
	})
}

func (r *ImputationRepo) GetByID(_ context.Context, id string) (*entity.Imputation, error) {
	var out *entity.Imputation
	err := r.with(func(st *state) error {
		out = st.imputations[id].Clone()
		return nil
	})
	return out, err
}

func (r *ImputationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Imputation, error) {
	return r.GetByID(ctx, id)
}

func (r *ImputationRepo) Update(_ context.Context, g *entity.Imputation) error {
	return r.with(func(st *state) error {
		if _, ok := st.imputations[g.ID]; !ok {
			return fmt.Errorf("update imputation %s: %w", g.ID, domain.ErrNotFound)
		}
		st.imputations[g.ID] = g.Clone()
		return nil
	})
}

func (r *ImputationRepo) Delete(_ context.Context, id string) error {
	return r.with(func(st *state) error {
		delete(st.imputations, id)
		delete(st.order, id)
		return nil
	})
}

func (r *ImputationRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Imputation, error) {
	var out []*entity.Imputation
	err := r.with(func(st *state) error {
		ids := make([]string, 0, len(st.imputations))
		for id, g := range st.imputations {
			if g.Kind == f.Kind && (f.CounterpartyID == "" || g.CounterpartyID == f.CounterpartyID) {
				ids = append(ids, id)
			}
		}
		st.sortByInsertion(ids)
		for _, id := range page(ids, f.Limit, f.Offset) {
			out = append(out, st.imputations[id].Clone())
		}
		return nil
	})
	return out, err
}
