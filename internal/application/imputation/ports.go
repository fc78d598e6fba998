package imputation

import (
	"context"

	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción; los repositorios recibidos comparten esa transacción.
// Si fn retorna error se hace rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error
}
