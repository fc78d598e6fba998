// Package guard reúne las verificaciones y bloqueos que comparten imputaciones y pagos
// dentro de una transacción.
package guard

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/sistemita-api/internal/application/dto"
	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

// LockInvoices bloquea las facturas en orden ascendente de id para evitar deadlocks
// entre transacciones concurrentes. Ids vacíos y repetidos se ignoran; las facturas
// inexistentes quedan fuera del mapa.
func LockInvoices(ctx context.Context, repo repository.InvoiceRepository, ids []string) (map[string]*entity.Invoice, error) {
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	sort.Strings(uniq)
	out := make(map[string]*entity.Invoice, len(uniq))
	for _, id := range uniq {
		inv, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("lock invoice %s: %w", id, err)
		}
		if inv != nil {
			out[id] = inv
		}
	}
	return out, nil
}

// CheckCounterparty agrega a ve el error de campo si la contraparte falta o es del otro lado.
func CheckCounterparty(ctx context.Context, repo repository.CounterpartyRepository, kind entity.Kind, id string, ve *domain.ValidationError) error {
	field := dto.CounterpartyField(kind)
	if id == "" {
		ve.Add(field, domain.MsgRequired)
		return nil
	}
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil || c.Kind != kind {
		if kind == entity.KindProveedor {
			ve.Add(field, domain.MsgSupplierNotFound)
		} else {
			ve.Add(field, domain.MsgClientNotFound)
		}
	}
	return nil
}
