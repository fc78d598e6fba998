package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, kind, counterparty_id, numero, fecha, tipo, moneda, neto, iva, total,
	monto_imputado, cobrado, detalle, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		inv.ID, inv.Kind, inv.CounterpartyID, inv.Number, inv.Date, inv.Type, inv.Currency,
		inv.Net, inv.VAT, inv.Total, inv.AmountImputed, inv.Collected, inv.Detail,
		inv.CreatedAt, inv.UpdatedAt,
	)
	return wrap("insert invoice", err)
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.one(ctx, "get invoice", `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.one(ctx, "lock invoice", `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	return execOne(ctx, r.q, "update invoice", `
		UPDATE invoices SET fecha = $2, tipo = $3, moneda = $4, neto = $5, iva = $6, total = $7,
			monto_imputado = $8, cobrado = $9, detalle = $10, updated_at = now()
		WHERE id = $1`,
		inv.ID, inv.Date, inv.Type, inv.Currency, inv.Net, inv.VAT, inv.Total,
		inv.AmountImputed, inv.Collected, inv.Detail,
	)
}

func (r *InvoiceRepo) SetCollected(ctx context.Context, id string, collected bool) error {
	return execOne(ctx, r.q, "set collected",
		`UPDATE invoices SET cobrado = $2, updated_at = now() WHERE id = $1`, id, collected)
}

func (r *InvoiceRepo) GetByNumber(ctx context.Context, kind entity.Kind, counterpartyID, number string) (*entity.Invoice, error) {
	return r.one(ctx, "get invoice by number", `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE kind = $1 AND counterparty_id = $2 AND numero = $3`, kind, counterpartyID, number)
}

func (r *InvoiceRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE kind = $1 AND ($2 = '' OR counterparty_id = $2)
		ORDER BY fecha, created_at, id LIMIT $3 OFFSET $4`,
		f.Kind, f.CounterpartyID, limitArg(f.Limit), f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func (r *InvoiceRepo) one(ctx context.Context, op, query string, args ...any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return inv, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.Kind, &inv.CounterpartyID, &inv.Number, &inv.Date, &inv.Type, &inv.Currency,
		&inv.Net, &inv.VAT, &inv.Total, &inv.AmountImputed, &inv.Collected, &inv.Detail,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
