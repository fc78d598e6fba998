package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sistemita-api/internal/application/dto"
	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

// DefaultPaymentMethods son los medios que carga el seed inicial.
var DefaultPaymentMethods = []string{
	"Efectivo",
	"Cheque",
	"Cheque diferido",
	"Transferencia bancaria",
	"Tarjeta de débito",
	"Tarjeta de crédito",
	"Depósito bancario",
}

// PaymentMethodUseCase catálogo de medios de pago.
type PaymentMethodUseCase struct {
	repo repository.PaymentMethodRepository
}

// NewPaymentMethodUseCase construye el caso de uso.
func NewPaymentMethodUseCase(repo repository.PaymentMethodRepository) *PaymentMethodUseCase {
	return &PaymentMethodUseCase{repo: repo}
}

// Create agrega un medio de pago; el nombre es único.
func (uc *PaymentMethodUseCase) Create(ctx context.Context, in dto.CreatePaymentMethodRequest) (*dto.PaymentMethodResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	m := &entity.PaymentMethod{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	out := dto.PaymentMethodFromEntity(m)
	return &out, nil
}

// List devuelve el catálogo completo.
func (uc *PaymentMethodUseCase) List(ctx context.Context) ([]dto.PaymentMethodResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentMethodResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.PaymentMethodFromEntity(m))
	}
	return out, nil
}

// Seed crea los medios que falten de names y devuelve cuántos agregó.
func (uc *PaymentMethodUseCase) Seed(ctx context.Context, names []string) (int, error) {
	created := 0
	for _, name := range names {
		_, err := uc.Create(ctx, dto.CreatePaymentMethodRequest{Name: name})
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
		default:
			return created, err
		}
	}
	return created, nil
}
