package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

const paymentColumns = `id, kind, counterparty_id, fecha, moneda, total, pagado, created_at, updated_at`

// PaymentRepo guarda pagos y cobranzas en payments, payment_invoices y payment_invoice_methods.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Kind, p.CounterpartyID, p.Date, p.Currency, p.Total, p.Paid, p.CreatedAt, p.UpdatedAt,
	)
	return wrap("insert payment", err)
}

func (r *PaymentRepo) CreateLine(ctx context.Context, l *entity.PaymentInvoiceLine) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payment_invoices (id, payment_id, invoice_id, ganancias, ingresos_brutos, iva, suss)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.PaymentID, l.InvoiceID, l.IncomeTax, l.GrossReceipts, l.VAT, l.SUSS,
	)
	return wrap("insert payment line", err)
}

func (r *PaymentRepo) CreateMethodLine(ctx context.Context, m *entity.PaymentMethodLine) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payment_invoice_methods (id, line_id, method_id, monto) VALUES ($1, $2, $3, $4)`,
		m.ID, m.LineID, nullable(m.MethodID), m.Amount,
	)
	return wrap("insert payment method line", err)
}

func (r *PaymentRepo) UpdateHeader(ctx context.Context, p *entity.Payment) error {
	return execOne(ctx, r.q, "update payment", `
		UPDATE payments SET fecha = $2, moneda = $3, total = $4, pagado = $5, updated_at = $6
		WHERE id = $1`,
		p.ID, p.Date, p.Currency, p.Total, p.Paid, p.UpdatedAt,
	)
}

func (r *PaymentRepo) UpdateLine(ctx context.Context, l *entity.PaymentInvoiceLine) error {
	return execOne(ctx, r.q, "update payment line", `
		UPDATE payment_invoices SET invoice_id = $2, ganancias = $3, ingresos_brutos = $4, iva = $5, suss = $6
		WHERE id = $1`,
		l.ID, l.InvoiceID, l.IncomeTax, l.GrossReceipts, l.VAT, l.SUSS,
	)
}

func (r *PaymentRepo) UpdateMethodLine(ctx context.Context, m *entity.PaymentMethodLine) error {
	return execOne(ctx, r.q, "update payment method line",
		`UPDATE payment_invoice_methods SET method_id = $2, monto = $3 WHERE id = $1`,
		m.ID, nullable(m.MethodID), m.Amount,
	)
}

// DeleteLine borra la línea; sus medios caen por ON DELETE CASCADE.
func (r *PaymentRepo) DeleteLine(ctx context.Context, lineID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM payment_invoices WHERE id = $1`, lineID)
	return wrap("delete payment line", err)
}

func (r *PaymentRepo) DeleteMethodLine(ctx context.Context, methodLineID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM payment_invoice_methods WHERE id = $1`, methodLineID)
	return wrap("delete payment method line", err)
}

func (r *PaymentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	return wrap("delete payment", err)
}

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	return r.get(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
}

func (r *PaymentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Payment, error) {
	return r.get(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id)
}

func (r *PaymentRepo) get(ctx context.Context, query, id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if err := r.loadLines(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// loadLines trae líneas y medios en una sola consulta, en orden de alta.
func (r *PaymentRepo) loadLines(ctx context.Context, p *entity.Payment) error {
	rows, err := r.q.Query(ctx, `
		SELECT l.id, l.invoice_id, l.ganancias, l.ingresos_brutos, l.iva, l.suss,
			m.id, m.method_id, m.monto
		FROM payment_invoices l
		LEFT JOIN payment_invoice_methods m ON m.line_id = l.id
		WHERE l.payment_id = $1
		ORDER BY l.seq, m.seq`, p.ID)
	if err != nil {
		return fmt.Errorf("list payment lines: %w", err)
	}
	defer rows.Close()
	p.Lines = nil
	for rows.Next() {
		var l entity.PaymentInvoiceLine
		var methodLineID, methodID *string
		var amount decimal.NullDecimal
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.IncomeTax, &l.GrossReceipts, &l.VAT, &l.SUSS,
			&methodLineID, &methodID, &amount); err != nil {
			return fmt.Errorf("scan payment line: %w", err)
		}
		if n := len(p.Lines); n == 0 || p.Lines[n-1].ID != l.ID {
			l.PaymentID = p.ID
			p.Lines = append(p.Lines, l)
		}
		if methodLineID != nil {
			last := &p.Lines[len(p.Lines)-1]
			last.Methods = append(last.Methods, entity.PaymentMethodLine{
				ID: *methodLineID, LineID: l.ID, MethodID: deref(methodID), Amount: amount.Decimal,
			})
		}
	}
	return rows.Err()
}

func (r *PaymentRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE kind = $1 AND ($2 = '' OR counterparty_id = $2)
		ORDER BY fecha, created_at, id LIMIT $3 OFFSET $4`,
		f.Kind, f.CounterpartyID, limitArg(f.Limit), f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	for _, p := range list {
		if err := r.loadLines(ctx, p); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(&p.ID, &p.Kind, &p.CounterpartyID, &p.Date, &p.Currency, &p.Total, &p.Paid,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
