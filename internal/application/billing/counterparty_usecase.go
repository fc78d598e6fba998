package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sistemita-api/internal/application/dto"
	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

// CounterpartyUseCase casos de uso para clientes y proveedores.
type CounterpartyUseCase struct {
	repo repository.CounterpartyRepository
}

// NewCounterpartyUseCase construye el caso de uso.
func NewCounterpartyUseCase(repo repository.CounterpartyRepository) *CounterpartyUseCase {
	return &CounterpartyUseCase{repo: repo}
}

// Create da de alta un cliente o proveedor. El CUIT es único por lado del libro.
func (uc *CounterpartyUseCase) Create(ctx context.Context, kind entity.Kind, in dto.CreateCounterpartyRequest) (*dto.CounterpartyResponse, error) {
	if in.BusinessName == "" || !ValidCUIT(in.CUIT) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCUIT(ctx, kind, in.CUIT)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	c := &entity.Counterparty{
		ID:           uuid.New().String(),
		Kind:         kind,
		BusinessName: in.BusinessName,
		CUIT:         in.CUIT,
		Email:        in.Email,
		Phone:        in.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	out := dto.CounterpartyFromEntity(c)
	return &out, nil
}

// Get devuelve un cliente o proveedor.
func (uc *CounterpartyUseCase) Get(ctx context.Context, kind entity.Kind, id string) (*dto.CounterpartyResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.Kind != kind {
		return nil, domain.ErrNotFound
	}
	out := dto.CounterpartyFromEntity(c)
	return &out, nil
}

// List lista clientes o proveedores.
func (uc *CounterpartyUseCase) List(ctx context.Context, kind entity.Kind, page dto.PageRequest) ([]dto.CounterpartyResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ListFilter{Kind: kind, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.CounterpartyResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CounterpartyFromEntity(c))
	}
	return out, nil
}

// ValidCUIT verifica que el CUIT tenga 11 dígitos.
func ValidCUIT(cuit string) bool {
	if len(cuit) != 11 {
		return false
	}
	for i := 0; i < len(cuit); i++ {
		if cuit[i] < '0' || cuit[i] > '9' {
			return false
		}
	}
	return true
}
