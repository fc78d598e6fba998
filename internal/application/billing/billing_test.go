package billing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sistemita-api/internal/application/dto"
	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValidCUIT(t *testing.T) {
	assert.True(t, ValidCUIT("30712345678"))
	assert.False(t, ValidCUIT("3071234567"))
	assert.False(t, ValidCUIT("30-71234567"))
	assert.False(t, ValidCUIT(""))
}

func TestCounterparty_CreateGetList(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := NewCounterpartyUseCase(store.Repositories().Counterparties)

	created, err := uc.Create(ctx, entity.KindCliente, dto.CreateCounterpartyRequest{BusinessName: "ACME SA", CUIT: "30712345678"})
	require.NoError(t, err)
	assert.Equal(t, "cliente", created.Kind)

	_, err = uc.Create(ctx, entity.KindCliente, dto.CreateCounterpartyRequest{BusinessName: "Otra", CUIT: "30712345678"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// el mismo CUIT puede existir como proveedor
	_, err = uc.Create(ctx, entity.KindProveedor, dto.CreateCounterpartyRequest{BusinessName: "ACME SA", CUIT: "30712345678"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, entity.KindCliente, dto.CreateCounterpartyRequest{BusinessName: "Sin CUIT", CUIT: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := uc.Get(ctx, entity.KindCliente, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACME SA", got.BusinessName)

	_, err = uc.Get(ctx, entity.KindProveedor, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, entity.KindCliente, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func newInvoiceUseCase(t *testing.T) (*InvoiceUseCase, string) {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	cp, err := NewCounterpartyUseCase(repos.Counterparties).Create(context.Background(), entity.KindCliente,
		dto.CreateCounterpartyRequest{BusinessName: "ACME SA", CUIT: "30712345678"})
	require.NoError(t, err)
	return NewInvoiceUseCase(repos.Invoices, repos.Counterparties), cp.ID
}

func TestInvoice_CreateCalculaTotal(t *testing.T) {
	uc, cpID := newInvoiceUseCase(t)
	out, err := uc.Create(context.Background(), entity.KindCliente, dto.CreateInvoiceRequest{
		Counterparty: dto.Counterparty{ClienteID: cpID},
		Number:       "0000100000001",
		Date:         "2026-03-01",
		Type:         entity.TipoA,
		Currency:     "P",
		Net:          dec("1000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "1210.00", out.Total)
	assert.Equal(t, "21.00", out.VAT)
	assert.Equal(t, "0.00", out.AmountImputed)
	assert.False(t, out.Collected)
}

func TestInvoice_CreateRespetaTotalInformado(t *testing.T) {
	uc, cpID := newInvoiceUseCase(t)
	vat := dec("10.5")
	total := dec("1100")
	out, err := uc.Create(context.Background(), entity.KindCliente, dto.CreateInvoiceRequest{
		Counterparty: dto.Counterparty{ClienteID: cpID},
		Number:       "0000100000002",
		Date:         "2026-03-01",
		Type:         entity.TipoB,
		Currency:     "D",
		Net:          dec("1000"),
		VAT:          &vat,
		Total:        &total,
	})
	require.NoError(t, err)
	assert.Equal(t, "1100.00", out.Total)
	assert.Equal(t, "10.50", out.VAT)
	assert.Equal(t, "D", out.Currency)
}

func TestInvoice_CreateErrores(t *testing.T) {
	uc, cpID := newInvoiceUseCase(t)
	ctx := context.Background()
	base := dto.CreateInvoiceRequest{
		Counterparty: dto.Counterparty{ClienteID: cpID},
		Number:       "0000100000003",
		Date:         "2026-03-01",
		Type:         entity.TipoA,
		Currency:     "P",
		Net:          dec("100"),
	}
	_, err := uc.Create(ctx, entity.KindCliente, base)
	require.NoError(t, err)

	_, err = uc.Create(ctx, entity.KindCliente, base)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	bad := base
	bad.Number = "x"
	bad.Date = "01/03/2026"
	bad.Currency = "E"
	_, err = uc.Create(ctx, entity.KindCliente, bad)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Has("fecha"))
	assert.True(t, ve.Has("moneda"))

	other := base
	other.Counterparty = dto.Counterparty{ClienteID: "no-existe"}
	_, err = uc.Create(ctx, entity.KindCliente, other)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{domain.MsgClientNotFound}, ve.Fields["cliente_id"])

	// un cliente no sirve como proveedor
	supplier := base
	supplier.Counterparty = dto.Counterparty{ProveedorID: cpID}
	_, err = uc.Create(ctx, entity.KindProveedor, supplier)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{domain.MsgSupplierNotFound}, ve.Fields["proveedor_id"])
}

func TestInvoice_GetYList(t *testing.T) {
	uc, cpID := newInvoiceUseCase(t)
	ctx := context.Background()
	for _, n := range []string{"0000100000010", "0000100000011"} {
		_, err := uc.Create(ctx, entity.KindCliente, dto.CreateInvoiceRequest{
			Counterparty: dto.Counterparty{ClienteID: cpID}, Number: n, Date: "2026-03-01",
			Type: entity.TipoA, Currency: "P", Net: dec("10"),
		})
		require.NoError(t, err)
	}
	list, err := uc.List(ctx, entity.KindCliente, cpID, dto.PageRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "0000100000010", list.Items[0].Number)

	got, err := uc.Get(ctx, entity.KindCliente, list.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, cpID, got.ClienteID)

	_, err = uc.Get(ctx, entity.KindProveedor, list.Items[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPaymentMethod_Seed(t *testing.T) {
	ctx := context.Background()
	uc := NewPaymentMethodUseCase(memory.NewStore().Repositories().PaymentMethods)

	_, err := uc.Create(ctx, dto.CreatePaymentMethodRequest{Name: "Efectivo"})
	require.NoError(t, err)

	n, err := uc.Seed(ctx, DefaultPaymentMethods)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultPaymentMethods)-1, n)

	n, err = uc.Seed(ctx, DefaultPaymentMethods)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, len(DefaultPaymentMethods))
	assert.Equal(t, "Efectivo", list[0].Name)

	_, err = uc.Create(ctx, dto.CreatePaymentMethodRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPercentageAdded(t *testing.T) {
	assert.True(t, dec("121").Equal(PercentageAdded(dec("100"), dec("21"))))
	assert.True(t, dec("110.5").Equal(PercentageAdded(dec("100"), dec("10.5"))))
	assert.True(t, dec("0.01").Equal(PercentageAdded(dec("0.01"), dec("21"))))
}
