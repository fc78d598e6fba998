// Package imputation aplica notas de crédito contra facturas del mismo cliente o proveedor.
package imputation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistemita-api/internal/application/dto"
	"github.com/jhoicas/sistemita-api/internal/application/ports"
	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/domain/allocation"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
	"github.com/jhoicas/sistemita-api/pkg/logger"
)

// Service casos de uso de imputación de notas de crédito.
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
	return &Service{tx: tx, repos: repos, locker: locker, log: log.Component("imputacion"), now: time.Now}
}

// Get devuelve un grupo con su nota de crédito y facturas expandidas.
func (s *Service) Get(ctx context.Context, kind entity.Kind, id string) (*dto.ImputationResponse, error) {
	g, err := s.repos.Imputations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil || g.Kind != kind {
		return nil, domain.ErrNotFound
	}
	invoices, err := s.loadInvoices(ctx, append(g.InvoiceIDs(), g.CreditNoteID))
	if err != nil {
		return nil, err
	}
	out := dto.ImputationFromEntity(g, invoices)
	return &out, nil
}

// List lista grupos del lado indicado, opcionalmente de una contraparte.
func (s *Service) List(ctx context.Context, kind entity.Kind, counterpartyID string, page dto.PageRequest) (*dto.ImputationListResponse, error) {
	page.DefaultPage()
	list, err := s.repos.Imputations.List(ctx, repository.ListFilter{
		Kind: kind, CounterpartyID: counterpartyID, Limit: page.Limit, Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.ImputationListResponse{
		Items: make([]dto.ImputationResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, g := range list {
		out.Items = append(out.Items, dto.ImputationFromEntity(g, nil))
	}
	return out, nil
}

func (s *Service) loadInvoices(ctx context.Context, ids []string) (map[string]*entity.Invoice, error) {
	out := make(map[string]*entity.Invoice, len(ids))
	for _, id := range ids {
		if _, ok := out[id]; ok || id == "" {
			continue
		}
		inv, err := s.repos.Invoices.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if inv != nil {
			out[id] = inv
		}
	}
	return out, nil
}

// checkCreditNote valida la nota de crédito del grupo.
func checkCreditNote(nc *entity.Invoice, kind entity.Kind, counterpartyID string, ve *domain.ValidationError) {
	const field = "nota_de_credito_id"
	switch {
	case nc == nil || nc.Kind != kind || nc.CounterpartyID != counterpartyID:
		ve.Add(field, domain.MsgInvoiceNotFound)
	case !nc.IsCreditNote():
		ve.Add(field, domain.MsgNotCreditNote)
	}
}

// checkInvoice valida una factura a imputar contra la nota de crédito.
// Devuelve false si la factura no puede usarse.
func checkInvoice(inv, nc *entity.Invoice, kind entity.Kind, counterpartyID string, ve *domain.ValidationError) bool {
	const field = "facturas"
	switch {
	case inv == nil || inv.Kind != kind || inv.CounterpartyID != counterpartyID:
		ve.Add(field, domain.MsgInvoiceNotFound)
		return false
	case inv.IsCreditNote():
		ve.Add(field, domain.MsgCreditNoteAsInvoice)
		return false
	case nc != nil && inv.Currency != nc.Currency:
		ve.Add(field, domain.MsgCurrencyMismatch)
		return false
	}
	return true
}

// computedSummary son los totales del grupo calculados a partir del estado ya imputado.
// Cada factura vale lo que tenía antes de que este grupo la tocara.
type computedSummary struct {
	invoices   decimal.Decimal
	creditNote decimal.Decimal
	total      decimal.Decimal
}

func summarize(g *entity.Imputation, nc *entity.Invoice, invoices map[string]*entity.Invoice) computedSummary {
	sumInvoices := decimal.Zero
	sumApplied := decimal.Zero
	for _, row := range g.Rows {
		inv := invoices[row.InvoiceID]
		sumInvoices = sumInvoices.Add(inv.Total).Add(row.Applied)
		sumApplied = sumApplied.Add(row.Applied)
	}
	creditNote := nc.Total.Add(sumApplied)
	return computedSummary{
		invoices:   sumInvoices,
		creditNote: creditNote,
		total:      allocation.TotalInvoice(sumInvoices, creditNote),
	}
}

// checkSummary compara los totales declarados contra los calculados.
func checkSummary(in dto.Summary, got computedSummary, ve *domain.ValidationError) {
	check := func(field string, declared *decimal.Decimal, computed decimal.Decimal) {
		if declared == nil {
			ve.Add(field, domain.MsgRequired)
			return
		}
		if !declared.Round(2).Equal(computed.Round(2)) {
			ve.Add(field, fmt.Sprintf(domain.MsgSummaryMismatchFormat, dto.Money(computed)))
		}
	}
	check("monto_facturas", in.AmountOfInvoices, got.invoices)
	check("monto_nota_de_credito", in.AmountOfCreditNote, got.creditNote)
	check("total_factura", in.TotalInvoice, got.total)
}

// finish traduce el error de una operación de escritura: validación y not found pasan tal cual,
// el resto se envuelve como error de validación general.
func finish(err error) error {
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return domain.WrapValidation(err)
}
