package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

// PaymentRepo implementa repository.PaymentRepository en memoria.
// Las líneas viven dentro del pago, igual que las devuelve GetByID.
type PaymentRepo struct{ base }

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	return r.with(func(st *state) error {
		if _, ok := st.payments[p.ID]; ok {
			return fmt.Errorf("insert payment: %w", domain.ErrDuplicate)
		}
		c := p.Clone()
		c.Lines = nil
		st.payments[p.ID] = c
		st.track(p.ID)
		return nil
	})
}

func findLine(st *state, lineID string) (*entity.Payment, int) {
	for _, p := range st.payments {
		if i := p.LineIndex(lineID); i >= 0 {
			return p, i
		}
	}
	return nil, -1
}

func findMethodLine(st *state, methodLineID string) (*entity.PaymentInvoiceLine, int) {
	for _, p := range st.payments {
		for li := range p.Lines {
			for mi := range p.Lines[li].Methods {
				if p.Lines[li].Methods[mi].ID == methodLineID {
					return &p.Lines[li], mi
				}
			}
		}
	}
	return nil, -1
}

func (r *PaymentRepo) CreateLine(_ context.Context, line *entity.PaymentInvoiceLine) error {
	return r.with(func(st *state) error {
		p, ok := st.payments[line.PaymentID]
		if !ok {
			return fmt.Errorf("insert payment line: %w", domain.ErrNotFound)
		}
		if _, ok := st.invoices[line.InvoiceID]; !ok {
			return fmt.Errorf("insert payment line: invoice %s: %w", line.InvoiceID, domain.ErrNotFound)
		}
		for _, l := range p.Lines {
			if l.InvoiceID == line.InvoiceID {
				return fmt.Errorf("insert payment line: %w", domain.ErrDuplicate)
			}
		}
		l := *line
		l.Methods = nil
		p.Lines = append(p.Lines, l)
		return nil
	})
}

func (r *PaymentRepo) CreateMethodLine(_ context.Context, m *entity.PaymentMethodLine) error {
	return r.with(func(st *state) error {
		p, i := findLine(st, m.LineID)
		if p == nil {
			return fmt.Errorf("insert payment method line: %w", domain.ErrNotFound)
		}
		if m.MethodID != "" {
			if _, ok := st.methods[m.MethodID]; !ok {
				return fmt.Errorf("insert payment method line: method %s: %w", m.MethodID, domain.ErrNotFound)
			}
		}
		p.Lines[i].Methods = append(p.Lines[i].Methods, *m)
		return nil
	})
}

func (r *PaymentRepo) UpdateHeader(_ context.Context, p *entity.Payment) error {
	return r.with(func(st *state) error {
		cur, ok := st.payments[p.ID]
		if !ok {
			return fmt.Errorf("update payment %s: %w", p.ID, domain.ErrNotFound)
		}
		cur.Date = p.Date
		cur.Currency = p.Currency
		cur.Total = p.Total
		cur.Paid = p.Paid
		cur.UpdatedAt = p.UpdatedAt
		return nil
	})
}

func (r *PaymentRepo) UpdateLine(_ context.Context, line *entity.PaymentInvoiceLine) error {
	return r.with(func(st *state) error {
		p, i := findLine(st, line.ID)
		if p == nil {
			return fmt.Errorf("update payment line %s: %w", line.ID, domain.ErrNotFound)
		}
		for j, l := range p.Lines {
			if j != i && l.InvoiceID == line.InvoiceID {
				return fmt.Errorf("update payment line: %w", domain.ErrDuplicate)
			}
		}
		methods := p.Lines[i].Methods
		l := *line
		l.PaymentID = p.ID
		l.Methods = methods
		p.Lines[i] = l
		return nil
	})
}

func (r *PaymentRepo) UpdateMethodLine(_ context.Context, m *entity.PaymentMethodLine) error {
	return r.with(func(st *state) error {
		line, i := findMethodLine(st, m.ID)
		if line == nil {
			return fmt.Errorf("update payment method line %s: %w", m.ID, domain.ErrNotFound)
		}
		line.Methods[i].MethodID = m.MethodID
		line.Methods[i].Amount = m.Amount
		return nil
	})
}

func (r *PaymentRepo) DeleteLine(_ context.Context, lineID string) error {
	return r.with(func(st *state) error {
		p, i := findLine(st, lineID)
		if p == nil {
			return nil
		}
		p.Lines = append(p.Lines[:i], p.Lines[i+1:]...)
		return nil
	})
}

func (r *PaymentRepo) DeleteMethodLine(_ context.Context, methodLineID string) error {
	return r.with(func(st *state) error {
		line, i := findMethodLine(st, methodLineID)
		if line == nil {
			return nil
		}
		line.Methods = append(line.Methods[:i], line.Methods[i+1:]...)
		return nil
	})
}

func (r *PaymentRepo) Delete(_ context.Context, id string) error {
	return r.with(func(st *state) error {
		delete(st.payments, id)
		delete(st.order, id)
		return nil
	})
}

func (r *PaymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	var out *entity.Payment
	err := r.with(func(st *state) error {
		out = st.payments[id].Clone()
		return nil
	})
	return out, err
}

func (r *PaymentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Payment, error) {
	return r.GetByID(ctx, id)
}

func (r *PaymentRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Payment, error) {
	var out []*entity.Payment
	err := r.with(func(st *state) error {
		ids := make([]string, 0, len(st.payments))
		for id, p := range st.payments {
			if p.Kind == f.Kind && (f.CounterpartyID == "" || p.CounterpartyID == f.CounterpartyID) {
				ids = append(ids, id)
			}
		}
		st.sortByInsertion(ids)
		for _, id := range page(ids, f.Limit, f.Offset) {
			out = append(out, st.payments[id].Clone())
		}
		return nil
	})
	return out, err
}
