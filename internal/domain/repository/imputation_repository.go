package repository

import (
	"context"

	"github.com/jhoicas/sistemita-api/internal/domain/entity"
)

// ImputationRepository define el puerto de persistencia para grupos de imputación.
// Las filas se guardan junto con la cabecera y respetan su Position.
type ImputationRepository interface {
	Create(ctx context.Context, group *entity.Imputation) error
	GetByID(ctx context.Context, id string) (*entity.Imputation, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Imputation, error)
	// Update reemplaza cabecera y filas.
	Update(ctx context.Context, group *entity.Imputation) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]*entity.Imputation, error)
}
