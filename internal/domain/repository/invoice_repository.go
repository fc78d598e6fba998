package repository

import (
	"context"

	"github.com/jhoicas/sistemita-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas y notas de crédito.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetForUpdate lee la factura bloqueando la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	// Update persiste saldos (total, monto_imputado, cobrado) y datos de cabecera.
	Update(ctx context.Context, invoice *entity.Invoice) error
	SetCollected(ctx context.Context, id string, collected bool) error
	GetByNumber(ctx context.Context, kind entity.Kind, counterpartyID, number string) (*entity.Invoice, error)
	List(ctx context.Context, filter ListFilter) ([]*entity.Invoice, error)
}
