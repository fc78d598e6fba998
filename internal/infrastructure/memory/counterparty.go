package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

// CounterpartyRepo implementa repository.CounterpartyRepository en memoria.
type CounterpartyRepo struct{ base }

func (r *CounterpartyRepo) Create(_ context.Context, c *entity.Counterparty) error {
	return r.with(func(st *state) error {
		for _, other := range st.counterparties {
			if other.ID == c.ID || (other.Kind == c.Kind && other.CUIT == c.CUIT) {
				return fmt.Errorf("insert counterparty: %w", domain.ErrDuplicate)
			}
		}
		cp := *c
		st.counterparties[c.ID] = &cp
		st.track(c.ID)
		return nil
	})
}

func (r *CounterpartyRepo) GetByID(_ context.Context, id string) (*entity.Counterparty, error) {
	var out *entity.Counterparty
	err := r.with(func(st *state) error {
		if c, ok := st.counterparties[id]; ok {
			cp := *c
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *CounterpartyRepo) GetByCUIT(_ context.Context, kind entity.Kind, cuit string) (*entity.Counterparty, error) {
	var out *entity.Counterparty
	err := r.with(func(st *state) error {
		for _, c := range st.counterparties {
			if c.Kind == kind && c.CUIT == cuit {
				cp := *c
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *CounterpartyRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Counterparty, error) {
	var out []*entity.Counterparty
	err := r.with(func(st *state) error {
		ids := make([]string, 0, len(st.counterparties))
		for id, c := range st.counterparties {
			if c.Kind == f.Kind {
				ids = append(ids, id)
			}
		}
		st.sortByInsertion(ids)
		for _, id := range page(ids, f.Limit, f.Offset) {
			cp := *st.counterparties[id]
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

// PaymentMethodRepo implementa repository.PaymentMethodRepository en memoria.
type PaymentMethodRepo struct{ base }

func (r *PaymentMethodRepo) Create(_ context.Context, m *entity.PaymentMethod) error {
	return r.with(func(st *state) error {
		for _, other := range st.methods {
			if other.ID == m.ID || other.Name == m.Name {
				return fmt.Errorf("insert payment method: %w", domain.ErrDuplicate)
			}
		}
		cp := *m
		st.methods[m.ID] = &cp
		st.track(m.ID)
		return nil
	})
}

func (r *PaymentMethodRepo) GetByID(_ context.Context, id string) (*entity.PaymentMethod, error) {
	var out *entity.PaymentMethod
	err := r.with(func(st *state) error {
		if m, ok := st.methods[id]; ok {
			cp := *m
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *PaymentMethodRepo) GetByName(_ context.Context, name string) (*entity.PaymentMethod, error) {
	var out *entity.PaymentMethod
	err := r.with(func(st *state) error {
		for _, m := range st.methods {
			if m.Name == name {
				cp := *m
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *PaymentMethodRepo) List(_ context.Context) ([]*entity.PaymentMethod, error) {
	var out []*entity.PaymentMethod
	err := r.with(func(st *state) error {
		ids := make([]string, 0, len(st.methods))
		for id := range st.methods {
			ids = append(ids, id)
		}
		st.sortByInsertion(ids)
		for _, id := range ids {
			cp := *st.methods[id]
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}
