// Package payment reparte pagos a proveedores y cobranzas de clientes entre facturas
// y medios de pago, manteniendo el estado cobrado de cada factura.
package payment

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistemita-api/internal/application/dto"
	"github.com/jhoicas/sistemita-api/internal/application/ports"
	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
	"github.com/jhoicas/sistemita-api/pkg/logger"
)

// Service casos de uso de pagos y cobranzas.
type Service struct {
	tx     TxRunner
	repos  repository.Repositories
	locker ports.Locker
	log    *logger.Logger
	now    func() time.Time
}

// NewService construye el servicio. repos se usa para lecturas fuera de transacción.
func NewService(tx TxRunner, repos repository.Repositories, locker ports.Locker, log *logger.Logger) *Service {
	if locker == nil {
		locker = ports.NopLocker{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{tx: tx, repos: repos, locker: locker, log: log.Component("pagos"), now: time.Now}
}

// Get devuelve el pago con sus líneas y medios.
func (s *Service) Get(ctx context.Context, kind entity.Kind, id string) (*dto.PaymentResponse, error) {
	p, err := s.repos.Payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Kind != kind {
		return nil, domain.ErrNotFound
	}
	out := dto.PaymentFromEntity(p)
	return &out, nil
}

// List lista pagos del lado indicado, opcionalmente de una contraparte.
func (s *Service) List(ctx context.Context, kind entity.Kind, counterpartyID string, page dto.PageRequest) (*dto.PaymentListResponse, error) {
	page.DefaultPage()
	list, err := s.repos.Payments.List(ctx, repository.ListFilter{
		Kind: kind, CounterpartyID: counterpartyID, Limit: page.Limit, Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.PaymentListResponse{
		Items: make([]dto.PaymentResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, p := range list {
		out.Items = append(out.Items, dto.PaymentFromEntity(p))
	}
	return out, nil
}

// Delete deja sin cobrar todas las facturas del pago y lo elimina con sus líneas.
func (s *Service) Delete(ctx context.Context, kind entity.Kind, id string) error {
	err := ports.WithLock(ctx, s.locker, ports.PaymentLockKey(id), func() error {
		return s.tx.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
			p, err := repos.Payments.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if p == nil || p.Kind != kind {
				return domain.ErrNotFound
			}
			ids := p.InvoiceIDs()
			sort.Strings(ids)
			for _, invID := range ids {
				if err := repos.Invoices.SetCollected(ctx, invID, false); err != nil {
					return err
				}
			}
			return repos.Payments.Delete(ctx, id)
		})
	})
	if err != nil {
		s.logFailure("eliminar", id, err)
		return err
	}
	s.log.Info().Str("pago_id", id).Str("tipo", string(kind)).Msg("pago eliminado")
	return nil
}

func (s *Service) logFailure(op, paymentID string, err error) {
	ev := s.log.Warn()
	if !domain.IsValidation(err) && !errors.Is(err, domain.ErrNotFound) {
		ev = s.log.Error()
	}
	ev.Err(err).Str("operacion", op).Str("pago_id", paymentID).Msg("pago rechazado")
}

// checkLineAmounts valida retenciones y medios de una línea.
func checkLineAmounts(l dto.PaymentLineRequest, ve *domain.ValidationError) {
	for field, v := range map[string]decimal.Decimal{
		"ganancias": l.IncomeTax, "ingresos_brutos": l.GrossReceipts, "iva": l.VAT, "suss": l.SUSS,
	} {
		if v.IsNegative() {
			ve.Add(field, domain.MsgNegativeAmount)
		}
	}
	for _, m := range l.Methods() {
		checkMethodLine(m, ve)
	}
}

// checkMethodLine exige metodo cuando hay monto.
func checkMethodLine(m dto.PaymentMethodLineRequest, ve *domain.ValidationError) {
	if m.Amount != nil && m.Method == "" {
		ve.Add("metodo", domain.MsgMethodRequired)
	}
	if m.Amount != nil && m.Amount.IsNegative() {
		ve.Add("monto", domain.MsgNegativeAmount)
	}
}

func amountOf(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return d.Round(2)
}

// checkInvoices valida que las facturas existan, sean de la contraparte y compartan moneda.
// Si currency viene vacía se toma la de la primera factura; se devuelve la moneda resultante.
func checkInvoices(ids []string, invoices map[string]*entity.Invoice, kind entity.Kind, counterpartyID string, currency entity.Moneda, ve *domain.ValidationError) entity.Moneda {
	for _, id := range ids {
		inv := invoices[id]
		if inv == nil || inv.Kind != kind || inv.CounterpartyID != counterpartyID {
			ve.Add("facturas", domain.MsgInvoiceNotFound)
			continue
		}
		if currency == "" {
			currency = inv.Currency
		}
		if inv.Currency != currency {
			ve.Add("facturas", domain.MsgCurrencyMismatch)
		}
	}
	return currency
}

// checkMethods valida que los medios de pago referenciados existan.
func checkMethods(ctx context.Context, repo repository.PaymentMethodRepository, ids []string, ve *domain.ValidationError) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		m, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			ve.Add("metodo", domain.MsgMethodNotFound)
		}
	}
	return nil
}

func finish(err error) error {
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return domain.WrapValidation(err)
}
