// Package memory implementa los repositorios en memoria con transacciones reales:
// Run trabaja sobre una copia del estado y solo la publica si fn no falla.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

type state struct {
	seq            int64
	order          map[string]int64
	invoices       map[string]*entity.Invoice
	imputations    map[string]*entity.Imputation
	payments       map[string]*entity.Payment
	counterparties map[string]*entity.Counterparty
	methods        map[string]*entity.PaymentMethod
}

func newState() *state {
	return &state{
		order:          make(map[string]int64),
		invoices:       make(map[string]*entity.Invoice),
		imputations:    make(map[string]*entity.Imputation),
		payments:       make(map[string]*entity.Payment),
		counterparties: make(map[string]*entity.Counterparty),
		methods:        make(map[string]*entity.PaymentMethod),
	}
}

func (st *state) clone() *state {
	c := newState()
	c.seq = st.seq
	for k, v := range st.order {
		c.order[k] = v
	}
	for k, v := range st.invoices {
		c.invoices[k] = v.Clone()
	}
	for k, v := range st.imputations {
		c.imputations[k] = v.Clone()
	}
	for k, v := range st.payments {
		c.payments[k] = v.Clone()
	}
	for k, v := range st.counterparties {
		cp := *v
		c.counterparties[k] = &cp
	}
	for k, v := range st.methods {
		m := *v
		c.methods[k] = &m
	}
	return c
}

func (st *state) track(id string) {
	st.seq++
	st.order[id] = st.seq
}

// sortByInsertion ordena ids por orden de alta.
func (st *state) sortByInsertion(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return st.order[ids[i]] < st.order[ids[j]] })
}

// Store guarda todo el estado detrás de un único mutex.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con repositorios transaccionales. Si fn falla el estado no cambia.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	if err := fn(ctx, reposFor(s, work)); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repositories devuelve repositorios que operan fuera de transacción.
func (s *Store) Repositories() repository.Repositories {
	return reposFor(s, nil)
}

func reposFor(s *Store, tx *state) repository.Repositories {
	b := base{s: s, tx: tx}
	return repository.Repositories{
		Invoices:       &InvoiceRepo{b},
		Imputations:    &ImputationRepo{b},
		Payments:       &PaymentRepo{b},
		Counterparties: &CounterpartyRepo{b},
		PaymentMethods: &PaymentMethodRepo{b},
	}
}

type base struct {
	s  *Store
	tx *state
}

// with ejecuta fn sobre el estado de la transacción o, fuera de ella, con el mutex tomado.
func (b base) with(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return fn(b.s.st)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
