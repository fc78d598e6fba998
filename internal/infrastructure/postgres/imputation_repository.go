package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

var _ repository.ImputationRepository = (*ImputationRepo)(nil)

const imputationColumns = `id, kind, counterparty_id, fecha, moneda, nota_de_credito_id,
	monto_facturas, monto_nota_de_credito, total_factura, created_at, updated_at`

// ImputationRepo guarda la cabecera en imputations y las filas en imputation_invoices.
type ImputationRepo struct {
	q Querier
}

// NewImputationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewImputationRepository(q Querier) *ImputationRepo {
	return &ImputationRepo{q: q}
}

func (r *ImputationRepo) Create(ctx context.Context, g *entity.Imputation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO imputations (`+imputationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		g.ID, g.Kind, g.CounterpartyID, g.Date, g.Currency, g.CreditNoteID,
		g.AmountOfInvoices, g.AmountOfCreditNote, g.TotalInvoice, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return wrap("insert imputation", err)
	}
	return r.insertRows(ctx, g)
}

func (r *ImputationRepo) insertRows(ctx context.Context, g *entity.Imputation) error {
	for _, row := range g.Rows {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO imputation_invoices (imputation_id, invoice_id, position, applied)
			VALUES ($1, $2, $3, $4)`,
			g.ID, row.InvoiceID, row.Position, row.Applied,
		); err != nil {
			return wrap("insert imputation row", err)
		}
	}
	return nil
}

func (r *ImputationRepo) GetByID(ctx context.Context, id string) (*entity.Imputation, error) {
	return r.get(ctx, `SELECT `+imputationColumns+` FROM imputations WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera; las filas se leen dentro de la misma tx.
func (r *ImputationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Imputation, error) {
	return r.get(ctx, `SELECT `+imputationColumns+` FROM imputations WHERE id = $1 FOR UPDATE`, id)
}

func (r *ImputationRepo) get(ctx context.Context, query, id string) (*entity.Imputation, error) {
	g, err := scanImputation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get imputation: %w", err)
	}
	if err := r.loadRows(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *ImputationRepo) loadRows(ctx context.Context, g *entity.Imputation) error {
	rows, err := r.q.Query(ctx, `
		SELECT invoice_id, position, applied FROM imputation_invoices
		WHERE imputation_id = $1 ORDER BY position`, g.ID)
	if err != nil {
		return fmt.Errorf("list imputation rows: %w", err)
	}
	defer rows.Close()
	g.Rows = nil
	for rows.Next() {
		var row entity.ImputationRow
		if err := rows.Scan(&row.InvoiceID, &row.Position, &row.Applied); err != nil {
			return fmt.Errorf("scan imputation row: %w", err)
		}
		g.Rows = append(g.Rows, row)
	}
	return rows.Err()
}

// Update reemplaza la cabecera y todas las filas.
func (r *ImputationRepo) Update(ctx context.Context, g *entity.Imputation) error {
	if err := execOne(ctx, r.q, "update imputation", `
		UPDATE imputations SET fecha = $2, moneda = $3, monto_facturas = $4,
			monto_nota_de_credito = $5, total_factura = $6, updated_at = $7
		WHERE id = $1`,
		g.ID, g.Date, g.Currency, g.AmountOfInvoices, g.AmountOfCreditNote, g.TotalInvoice, g.UpdatedAt,
	); err != nil {
		return err
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM imputation_invoices WHERE imputation_id = $1`, g.ID); err != nil {
		return fmt.Errorf("clear imputation rows: %w", err)
	}
	return r.insertRows(ctx, g)
}

func (r *ImputationRepo) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.q, "delete imputation", `DELETE FROM imputations WHERE id = $1`, id)
}

func (r *ImputationRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Imputation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+imputationColumns+` FROM imputations
		WHERE kind = $1 AND ($2 = '' OR counterparty_id = $2)
		ORDER BY fecha, created_at, id LIMIT $3 OFFSET $4`,
		f.Kind, f.CounterpartyID, limitArg(f.Limit), f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list imputations: %w", err)
	}
	var list []*entity.Imputation
	for rows.Next() {
		g, err := scanImputation(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan imputation: %w", err)
		}
		list = append(list, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list imputations: %w", err)
	}
	// las filas se cargan después de cerrar el cursor: una conexión no admite dos a la vez.
	for _, g := range list {
		if err := r.loadRows(ctx, g); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func scanImputation(row pgx.Row) (*entity.Imputation, error) {
	var g entity.Imputation
	err := row.Scan(
		&g.ID, &g.Kind, &g.CounterpartyID, &g.Date, &g.Currency, &g.CreditNoteID,
		&g.AmountOfInvoices, &g.AmountOfCreditNote, &g.TotalInvoice, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
