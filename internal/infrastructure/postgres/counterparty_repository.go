package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

var (
	_ repository.CounterpartyRepository  = (*CounterpartyRepo)(nil)
	_ repository.PaymentMethodRepository = (*PaymentMethodRepo)(nil)
)

const counterpartyColumns = `id, kind, razon_social, cuit, correo, telefono, created_at, updated_at`

// CounterpartyRepo implementación de CounterpartyRepository (usable con pool o tx).
type CounterpartyRepo struct {
	q Querier
}

// NewCounterpartyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCounterpartyRepository(q Querier) *CounterpartyRepo {
	return &CounterpartyRepo{q: q}
}

func (r *CounterpartyRepo) Create(ctx context.Context, c *entity.Counterparty) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO counterparties (`+counterpartyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Kind, c.BusinessName, c.CUIT, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt,
	)
	return wrap("insert counterparty", err)
}

func (r *CounterpartyRepo) GetByID(ctx context.Context, id string) (*entity.Counterparty, error) {
	return r.one(ctx, "get counterparty",
		`SELECT `+counterpartyColumns+` FROM counterparties WHERE id = $1`, id)
}

func (r *CounterpartyRepo) GetByCUIT(ctx context.Context, kind entity.Kind, cuit string) (*entity.Counterparty, error) {
	return r.one(ctx, "get counterparty by cuit",
		`SELECT `+counterpartyColumns+` FROM counterparties WHERE kind = $1 AND cuit = $2`, kind, cuit)
}

func (r *CounterpartyRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Counterparty, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+counterpartyColumns+` FROM counterparties
		WHERE kind = $1 ORDER BY razon_social, id LIMIT $2 OFFSET $3`,
		f.Kind, limitArg(f.Limit), f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list counterparties: %w", err)
	}
	defer rows.Close()
	var list []*entity.Counterparty
	for rows.Next() {
		c, err := scanCounterparty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan counterparty: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CounterpartyRepo) one(ctx context.Context, op, query string, args ...any) (*entity.Counterparty, error) {
	c, err := scanCounterparty(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func scanCounterparty(row pgx.Row) (*entity.Counterparty, error) {
	var c entity.Counterparty
	err := row.Scan(&c.ID, &c.Kind, &c.BusinessName, &c.CUIT, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// PaymentMethodRepo implementación de PaymentMethodRepository.
type PaymentMethodRepo struct {
	q Querier
}

// NewPaymentMethodRepository construye el adaptador.
func NewPaymentMethodRepository(q Querier) *PaymentMethodRepo {
	return &PaymentMethodRepo{q: q}
}

func (r *PaymentMethodRepo) Create(ctx context.Context, m *entity.PaymentMethod) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO payment_methods (id, nombre, created_at) VALUES ($1, $2, $3)`,
		m.ID, m.Name, m.CreatedAt,
	)
	return wrap("insert payment method", err)
}

func (r *PaymentMethodRepo) GetByID(ctx context.Context, id string) (*entity.PaymentMethod, error) {
	return r.one(ctx, `SELECT id, nombre, created_at FROM payment_methods WHERE id = $1`, id)
}

func (r *PaymentMethodRepo) GetByName(ctx context.Context, name string) (*entity.PaymentMethod, error) {
	return r.one(ctx, `SELECT id, nombre, created_at FROM payment_methods WHERE nombre = $1`, name)
}

func (r *PaymentMethodRepo) List(ctx context.Context) ([]*entity.PaymentMethod, error) {
	rows, err := r.q.Query(ctx, `SELECT id, nombre, created_at FROM payment_methods ORDER BY created_at, nombre`)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	defer rows.Close()
	var list []*entity.PaymentMethod
	for rows.Next() {
		var m entity.PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func (r *PaymentMethodRepo) one(ctx context.Context, query string, arg string) (*entity.PaymentMethod, error) {
	var m entity.PaymentMethod
	err := r.q.QueryRow(ctx, query, arg).Scan(&m.ID, &m.Name, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment method: %w", err)
	}
	return &m, nil
}
