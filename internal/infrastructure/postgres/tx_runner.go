package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/sistemita-api/internal/application/billing"
	"github.com/jhoicas/sistemita-api/internal/application/imputation"
	"github.com/jhoicas/sistemita-api/internal/application/payment"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

var (
	_ imputation.TxRunner = (*TxRunner)(nil)
	_ payment.TxRunner    = (*TxRunner)(nil)
	_ billing.TxRunner    = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepositories arma todos los repos sobre q (pool o tx).
func NewRepositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Invoices:       NewInvoiceRepository(q),
		Imputations:    NewImputationRepository(q),
		Payments:       NewPaymentRepository(q),
		Counterparties: NewCounterpartyRepository(q),
		PaymentMethods: NewPaymentMethodRepository(q),
	}
}
