package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistemita-api/internal/application/dto"
	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
)

// InvoiceUseCase alta y consulta de facturas de clientes y proveedores.
type InvoiceUseCase struct {
	invoices       repository.InvoiceRepository
	counterparties repository.CounterpartyRepository
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(invoices repository.InvoiceRepository, counterparties repository.CounterpartyRepository) *InvoiceUseCase {
	return &InvoiceUseCase{invoices: invoices, counterparties: counterparties}
}

// PercentageAdded devuelve amount más el pct por ciento, redondeado a 2 decimales.
func PercentageAdded(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Add(pct.Mul(amount).Div(decimal.NewFromInt(100))).Round(2)
}

// Create registra una factura. Si no se informa total se calcula como neto + IVA.
func (uc *InvoiceUseCase) Create(ctx context.Context, kind entity.Kind, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	counterpartyID := in.CounterpartyID(kind)
	ve := &domain.ValidationError{}
	if counterpartyID == "" {
		ve.Add(dto.CounterpartyField(kind), domain.MsgRequired)
	}
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		ve.Add("fecha", domain.MsgInvalidDate)
	}
	currency := entity.Moneda(in.Currency)
	if !currency.Valid() {
		ve.Add("moneda", domain.MsgInvalidCurrency)
	}
	if !entity.ValidInvoiceType(in.Type) {
		ve.Add("tipo", domain.MsgInvalidInvoiceType)
	}
	if in.Number == "" {
		ve.Add("numero", domain.MsgRequired)
	}
	if ve.HasErrors() {
		return nil, ve
	}

	c, err := uc.counterparties.GetByID(ctx, counterpartyID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.Kind != kind {
		if kind == entity.KindProveedor {
			return nil, domain.NewValidationError(dto.CounterpartyField(kind), domain.MsgSupplierNotFound)
		}
		return nil, domain.NewValidationError(dto.CounterpartyField(kind), domain.MsgClientNotFound)
	}
	existing, err := uc.invoices.GetByNumber(ctx, kind, counterpartyID, in.Number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	vat := entity.DefaultVAT
	if in.VAT != nil {
		vat = *in.VAT
	}
	net := in.Net.Round(2)
	total := PercentageAdded(net, vat)
	if in.Total != nil {
		total = in.Total.Round(2)
	}
	now := time.Now()
	inv := &entity.Invoice{
		ID:             uuid.New().String(),
		Kind:           kind,
		CounterpartyID: counterpartyID,
		Number:         in.Number,
		Date:           date,
		Type:           in.Type,
		Currency:       currency,
		Net:            net,
		VAT:            vat,
		Total:          total,
		AmountImputed:  decimal.Zero,
		Detail:         in.Detail,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}
	out := dto.InvoiceFromEntity(inv)
	return &out, nil
}

// Get devuelve una factura del lado indicado.
func (uc *InvoiceUseCase) Get(ctx context.Context, kind entity.Kind, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.Kind != kind {
		return nil, domain.ErrNotFound
	}
	out := dto.InvoiceFromEntity(inv)
	return &out, nil
}

// List lista facturas, opcionalmente de una contraparte.
func (uc *InvoiceUseCase) List(ctx context.Context, kind entity.Kind, counterpartyID string, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	list, err := uc.invoices.List(ctx, repository.ListFilter{
		Kind: kind, CounterpartyID: counterpartyID, Limit: page.Limit, Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, inv := range list {
		out.Items = append(out.Items, dto.InvoiceFromEntity(inv))
	}
	return out, nil
}
