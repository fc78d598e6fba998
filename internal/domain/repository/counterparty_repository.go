package repository

import (
	"context"

	"github.com/jhoicas/sistemita-api/internal/domain/entity"
)

// CounterpartyRepository define el puerto de persistencia para clientes y proveedores.
type CounterpartyRepository interface {
	Create(ctx context.Context, c *entity.Counterparty) error
	GetByID(ctx context.Context, id string) (*entity.Counterparty, error)
	GetByCUIT(ctx context.Context, kind entity.Kind, cuit string) (*entity.Counterparty, error)
	List(ctx context.Context, filter ListFilter) ([]*entity.Counterparty, error)
}

// PaymentMethodRepository define el puerto del catálogo de medios de pago.
type PaymentMethodRepository interface {
	Create(ctx context.Context, m *entity.PaymentMethod) error
	GetByID(ctx context.Context, id string) (*entity.PaymentMethod, error)
	GetByName(ctx context.Context, name string) (*entity.PaymentMethod, error)
	List(ctx context.Context) ([]*entity.PaymentMethod, error)
}
