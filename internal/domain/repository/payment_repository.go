package repository

import (
	"context"

	"github.com/jhoicas/sistemita-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para pagos, cobranzas y sus líneas.
type PaymentRepository interface {
	// Create guarda solo la cabecera; las líneas se crean con CreateLine.
	Create(ctx context.Context, payment *entity.Payment) error
	CreateLine(ctx context.Context, line *entity.PaymentInvoiceLine) error
	CreateMethodLine(ctx context.Context, method *entity.PaymentMethodLine) error
	UpdateHeader(ctx context.Context, payment *entity.Payment) error
	UpdateLine(ctx context.Context, line *entity.PaymentInvoiceLine) error
	UpdateMethodLine(ctx context.Context, method *entity.PaymentMethodLine) error
	// DeleteLine borra la línea y sus medios de pago.
	DeleteLine(ctx context.Context, lineID string) error
	DeleteMethodLine(ctx context.Context, methodLineID string) error
	// Delete borra el pago con todas sus líneas.
	Delete(ctx context.Context, id string) error
	// GetByID devuelve el pago con líneas y medios cargados.
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Payment, error)
	List(ctx context.Context, filter ListFilter) ([]*entity.Payment, error)
}
