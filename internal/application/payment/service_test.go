package payment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sistemita-api/internal/application/dto"
	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
	"github.com/jhoicas/sistemita-api/internal/infrastructure/memory"
)

type fixture struct {
	repos repository.Repositories
	svc   *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()
	require.NoError(t, repos.Counterparties.Create(ctx, &entity.Counterparty{ID: "p1", Kind: entity.KindProveedor, CUIT: "30798765432"}))
	require.NoError(t, repos.Counterparties.Create(ctx, &entity.Counterparty{ID: "c1", Kind: entity.KindCliente, CUIT: "30712345678"}))
	require.NoError(t, repos.PaymentMethods.Create(ctx, &entity.PaymentMethod{ID: "efectivo", Name: "Efectivo"}))
	require.NoError(t, repos.PaymentMethods.Create(ctx, &entity.PaymentMethod{ID: "cheque", Name: "Cheque"}))
	svc := NewService(store, repos, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return &fixture{repos: repos, svc: svc}
}

func dec(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func (f *fixture) invoice(t *testing.T, id string, kind entity.Kind, moneda entity.Moneda) {
	t.Helper()
	cp := "p1"
	if kind == entity.KindCliente {
		cp = "c1"
	}
	require.NoError(t, f.repos.Invoices.Create(context.Background(), &entity.Invoice{
		ID: id, Kind: kind, CounterpartyID: cp, Number: id, Type: entity.TipoA,
		Currency: moneda, Total: decimal.NewFromInt(100), AmountImputed: decimal.Zero,
	}))
}

func (f *fixture) collected(t *testing.T, id string) bool {
	t.Helper()
	inv, err := f.repos.Invoices.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, inv)
	return inv.Collected
}

func line(invoice string, methods ...dto.PaymentMethodLineRequest) dto.PaymentLineRequest {
	return dto.PaymentLineRequest{
		Invoice:       invoice,
		IncomeTax:     *dec("1.50"),
		GrossReceipts: *dec("2"),
		PagoMethods:   methods,
	}
}

func method(id, amount string) dto.PaymentMethodLineRequest {
	return dto.PaymentMethodLineRequest{Method: id, Amount: dec(amount)}
}

func createPago(lines ...dto.PaymentLineRequest) dto.CreatePaymentRequest {
	return dto.CreatePaymentRequest{
		Counterparty: dto.Counterparty{ProveedorID: "p1"},
		PaymentLines: dto.PaymentLines{PagoLines: lines},
		Date:         "2026-03-01",
		Total:        dec("200"),
	}
}

func requireFieldError(t *testing.T, err error, field string) *domain.ValidationError {
	t.Helper()
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	require.True(t, ve.Has(field), "se esperaba error en %s, se obtuvo %v", field, ve.Fields)
	return ve
}

func TestCreate_MarcaFacturasCobradas(t *testing.T) {
	f := newFixture(t)
	f.invoice(t, "f1", entity.KindProveedor, entity.MonedaPesos)
	f.invoice(t, "f2", entity.KindProveedor, entity.MonedaPesos)

	out, err := f.svc.Create(context.Background(), entity.KindProveedor, createPago(
		line("f1", method("efectivo", "50"), method("cheque", "46.50")),
		line("f2", method("efectivo", "100")),
	))
	require.NoError(t, err)

	assert.True(t, f.collected(t, "f1"))
	assert.True(t, f.collected(t, "f2"))
	assert.Equal(t, "P", out.Currency)
	assert.Equal(t, "200.00", out.Total)
	require.Len(t, out.Lines, 2)
	assert.Equal(t, "1.50", out.Lines[0].IncomeTax)
	assert.Equal(t, "3.50", out.Lines[0].Withholdings)
	require.Len(t, out.Lines[0].Methods, 2)
	assert.Equal(t, "46.50", out.Lines[0].Methods[1].Amount)
	assert.Equal(t, "p1", out.ProveedorID)
}

// Escenario C: borrar una línea por update solo descobra esa factura.
func TestUpdate_DeleteLineaDescobraSoloEsaFactura(t *testing.T) {
	f := newFixture(t)
	f.invoice(t, "f1", entity.KindProveedor, entity.MonedaPesos)
	f.invoice(t, "f2", entity.KindProveedor, entity.MonedaPesos)
	out, err := f.svc.Create(context.Background(), entity.KindProveedor, createPago(line("f1"), line("f2")))
	require.NoError(t, err)

	res, err := f.svc.Update(context.Background(), entity.KindProveedor, out.ID, dto.UpdatePaymentRequest{
		Date:  "2026-03-02",
		Total: dec("100"),
		PaymentLines: dto.PaymentLines{PagoLines: []dto.PaymentLineRequest{
			{Data: &dto.RowData{Action: dto.ActionDelete, ID: out.Lines[0].ID}, Invoice: "f1"},
		}},
	})
	require.NoError(t, err)

	assert.False(t, f.collected(t, "f1"))
	assert.True(t, f.collected(t, "f2"))
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "f2", res.Lines[0].InvoiceID)
	assert.Equal(t, "100.00", res.Total)
	assert.Equal(t, "2026-03-02", res.Date)
}

// Escenario D: monedas distintas no crean nada.
func TestCreate_MonedasDistintasNoCreaNada(t *testing.T) {
	f := newFixture(t)
	f.invoice(t, "f1", entity.KindProveedor, entity.MonedaPesos)
	f.invoice(t, "f2", entity.KindProveedor, entity.MonedaDolares)

	_, err := f.svc.Create(context.Background(), entity.KindProveedor, createPago(line("f1"), line("f2")))

	ve := requireFieldError(t, err, "facturas")
	assert.Contains(t, ve.Fields["facturas"], domain.MsgCurrencyMismatch)
	assert.False(t, f.collected(t, "f1"))
	assert.False(t, f.collected(t, "f2"))
	list, err := f.svc.List(context.Background(), entity.KindProveedor, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

// Escenario E: monto sin método falla en metodo.
func TestCreate_MontoSinMetodo(t *testing.T) {
	f := newFixture(t)
	f.invoice(t, "f1", entity.KindProveedor, entity.MonedaPesos)

	_, err := f.svc.Create(context.Background(), entity.KindProveedor, createPago(
		line("f1", dto.PaymentMethodLineRequest{Amount: dec("50")}),
	))

	ve := requireFieldError(t, err, "metodo")
	assert.Contains(t, ve.Fields["metodo"], domain.MsgMethodRequired)
	assert.False(t, f.collected(t, "f1"))
}

func TestCreate_Validaciones(t *testing.T) {
	cases := []struct {
		name  string
		req   func() dto.CreatePaymentRequest
		field string
		msg   string
	}{
		{"facturas_repetidas", func() dto.CreatePaymentRequest { return createPago(line("f1"), line("f1")) }, "facturas", domain.MsgDuplicateInvoices},
		{"factura_inexistente", func() dto.CreatePaymentRequest { return createPago(line("nope")) }, "facturas", domain.MsgInvoiceNotFound},
		{"factura_de_cliente", func() dto.CreatePaymentRequest { return createPago(line("fc")) }, "facturas", domain.MsgInvoiceNotFound},
		{"metodo_inexistente", func() dto.CreatePaymentRequest { return createPago(line("f1", method("bitcoin", "1"))) }, "metodo", domain.MsgMethodNotFound},
		{"proveedor_inexistente", func() dto.CreatePaymentRequest {
			r := createPago(line("f1"))
			r.ProveedorID = "c1"
			return r
		}, "proveedor_id", domain.MsgSupplierNotFound},
		{"retencion_negativa", func() dto.CreatePaymentRequest {
			l := line("f1")
			l.SUSS = *dec("-1")
			return createPago(l)
		}, "suss", domain.MsgNegativeAmount},
		{"moneda_explicita_distinta", func() dto.CreatePaymentRequest {
			r := createPago(line("f1"))
			r.Currency = "D"
			return r
		}, "facturas", domain.MsgCurrencyMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.invoice(t, "f1", entity.KindProveedor, entity.MonedaPesos)
			f.invoice(t, "fc", entity.KindCliente, entity.MonedaPesos)

			_, err := f.svc.Create(context.Background(), entity.KindProveedor, tc.req())

			ve := requireFieldError(t, err, tc.field)
			assert.Contains(t, ve.Fields[tc.field], tc.msg)
			assert.False(t, f.collected(t, "f1"))
		})
	}
}

func TestUpdate_CambioDeFacturaYMediosAnidados(t *testing.T) {
	f := newFixture(t)
	f.invoice(t, "f1", entity.KindProveedor, entity.MonedaPesos)
	f.invoice(t, "f2", entity.KindProveedor, entity.MonedaPesos)
	f.invoice(t, "f3", entity.KindProveedor, entity.MonedaPesos)
	out, err := f.svc.Create(context.Background(), entity.KindProveedor, createPago(
		line("f1", method("efectivo", "50"), method("cheque", "50")),
	))
	require.NoError(t, err)
	l := out.Lines[0]

	res, err := f.svc.Update(context.Background(), entity.KindProveedor, out.ID, dto.UpdatePaymentRequest{
		Date:  "2026-03-01",
		Total: dec("150"),
		Paid:  dec("150"),
		PaymentLines: dto.PaymentLines{PagoLines: []dto.PaymentLineRequest{
			{
				Data: &dto.RowData{Action: dto.ActionUpdate, ID: l.ID}, Invoice: "f2", VAT: *dec("10"),
				PagoMethods: []dto.PaymentMethodLineRequest{
					{Data: &dto.RowData{Action: dto.ActionUpdate, ID: l.Methods[0].ID}, Method: "cheque", Amount: dec("70")},
					{Data: &dto.RowData{Action: dto.ActionDelete, ID: l.Methods[1].ID}},
					{Data: &dto.RowData{Action: dto.ActionAdd}, Method: "efectivo", Amount: dec("20")},
				},
			},
			{
				Data: &dto.RowData{Action: dto.ActionAdd}, Invoice: "f3",
				PagoMethods: []dto.PaymentMethodLineRequest{
					{Data: &dto.RowData{Action: dto.ActionDelete, ID: "ignorado"}, Method: "efectivo", Amount: dec("30")},
				},
			},
		}},
	})
	require.NoError(t, err)

	assert.False(t, f.collected(t, "f1"))
	assert.True(t, f.collected(t, "f2"))
	assert.True(t, f.collected(t, "f3"))
	require.Len(t, res.Lines, 2)
	updated := res.Lines[0]
	assert.Equal(t, l.ID, updated.ID)
	assert.Equal(t, "f2", updated.InvoiceID)
	assert.Equal(t, "10.00", updated.VAT)
	require.Len(t, updated.Methods, 2)
	assert.Equal(t, "cheque", updated.Methods[0].Method)
	assert.Equal(t, "70.00", updated.Methods[0].Amount)
	assert.Equal(t, "20.00", updated.Methods[1].Amount)
	require.Len(t, res.Lines[1].Methods, 1)
	assert.Equal(t, "30.00", res.Lines[1].Methods[0].Amount)
	assert.Equal(t, "150.00", res.Paid)
}

func TestUpdate_LineaAjena(t *testing.T) {
	f := newFixture(t)
	f.invoice(t, "f1", entity.KindProveedor, entity.MonedaPesos)
	out, err := f.svc.Create(context.Background(), entity.KindProveedor, createPago(line("f1")))
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), entity.KindProveedor, out.ID, dto.UpdatePaymentRequest{
		Date:  "2026-03-01",
		Total: dec("100"),
		PaymentLines: dto.PaymentLines{PagoLines: []dto.PaymentLineRequest{
			{Data: &dto.RowData{Action: dto.ActionDelete, ID: "otra"}},
		}},
	})

	ve := requireFieldError(t, err, "data.id")
	assert.Contains(t, ve.Fields["data.id"], domain.MsgLineNotFound)
	assert.True(t, f.collected(t, "f1"))
}

func TestUpdate_AddFacturaYaEnElPagoEsDuplicado(t *testing.T) {
	f := newFixture(t)
	f.invoice(t, "f1", entity.KindProveedor, entity.MonedaPesos)
	out, err := f.svc.Create(context.Background(), entity.KindProveedor, createPago(line("f1")))
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), entity.KindProveedor, out.ID, dto.UpdatePaymentRequest{
		Date:  "2026-03-01",
		Total: dec("100"),
		PaymentLines: dto.PaymentLines{PagoLines: []dto.PaymentLineRequest{
			{Data: &dto.RowData{Action: dto.ActionAdd}, Invoice: "f1"},
		}},
	})
	requireFieldError(t, err, "facturas")
}

func TestUpdate_FacturaRepetidaEnElOrdenRecibido(t *testing.T) {
	cases := []struct {
		name string
		rows func(l1, l2 string) []dto.PaymentLineRequest
	}{
		{
			name: "intercambio_entre_lineas",
			rows: func(l1, l2 string) []dto.PaymentLineRequest {
				return []dto.PaymentLineRequest{
					{Data: &dto.RowData{Action: dto.ActionUpdate, ID: l1}, Invoice: "f2"},
					{Data: &dto.RowData{Action: dto.ActionUpdate, ID: l2}, Invoice: "f1"},
				}
			},
		},
		{
			name: "mover_antes_de_borrar",
			rows: func(l1, l2 string) []dto.PaymentLineRequest {
				return []dto.PaymentLineRequest{
					{Data: &dto.RowData{Action: dto.ActionUpdate, ID: l1}, Invoice: "f2"},
					{Data: &dto.RowData{Action: dto.ActionDelete, ID: l2}},
				}
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.invoice(t, "f1", entity.KindProveedor, entity.MonedaPesos)
			f.invoice(t, "f2", entity.KindProveedor, entity.MonedaPesos)
			out, err := f.svc.Create(context.Background(), entity.KindProveedor, createPago(line("f1"), line("f2")))
			require.NoError(t, err)

			_, err = f.svc.Update(context.Background(), entity.KindProveedor, out.ID, dto.UpdatePaymentRequest{
				Date:         "2026-03-01",
				Total:        dec("100"),
				PaymentLines: dto.PaymentLines{PagoLines: tc.rows(out.Lines[0].ID, out.Lines[1].ID)},
			})

			ve := requireFieldError(t, err, "facturas")
			assert.Contains(t, ve.Fields["facturas"], domain.MsgDuplicateInvoices)
			assert.True(t, f.collected(t, "f1"))
			assert.True(t, f.collected(t, "f2"))
			p, err := f.repos.Payments.GetByID(context.Background(), out.ID)
			require.NoError(t, err)
			assert.Equal(t, []string{"f1", "f2"}, p.InvoiceIDs())
		})
	}
}

func TestUpdate_BorrarYLuegoMoverLaFactura(t *testing.T) {
	f := newFixture(t)
	f.invoice(t, "f1", entity.KindProveedor, entity.MonedaPesos)
	f.invoice(t, "f2", entity.KindProveedor, entity.MonedaPesos)
	out, err := f.svc.Create(context.Background(), entity.KindProveedor, createPago(line("f1"), line("f2")))
	require.NoError(t, err)

	res, err := f.svc.Update(context.Background(), entity.KindProveedor, out.ID, dto.UpdatePaymentRequest{
		Date:  "2026-03-01",
		Total: dec("100"),
		PaymentLines: dto.PaymentLines{PagoLines: []dto.PaymentLineRequest{
			{Data: &dto.RowData{Action: dto.ActionDelete, ID: out.Lines[1].ID}},
			{Data: &dto.RowData{Action: dto.ActionUpdate, ID: out.Lines[0].ID}, Invoice: "f2"},
		}},
	})
	require.NoError(t, err)

	assert.False(t, f.collected(t, "f1"))
	assert.True(t, f.collected(t, "f2"))
	require.Len(t, res.Lines, 1)
	assert.Equal(t, out.Lines[0].ID, res.Lines[0].ID)
	assert.Equal(t, "f2", res.Lines[0].InvoiceID)
}

func TestUpdate_SinDataEsError(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Update(context.Background(), entity.KindProveedor, "x", dto.UpdatePaymentRequest{
		Date:         "2026-03-01",
		Total:        dec("1"),
		PaymentLines: dto.PaymentLines{PagoLines: []dto.PaymentLineRequest{line("f1")}},
	})
	requireFieldError(t, err, "data")
}

func TestUpdate_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Update(context.Background(), entity.KindProveedor, "nope", dto.UpdatePaymentRequest{
		Date: "2026-03-01", Total: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_DescobraTodasLasFacturas(t *testing.T) {
	f := newFixture(t)
	f.invoice(t, "f1", entity.KindProveedor, entity.MonedaPesos)
	f.invoice(t, "f2", entity.KindProveedor, entity.MonedaPesos)
	out, err := f.svc.Create(context.Background(), entity.KindProveedor, createPago(line("f1"), line("f2")))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), entity.KindProveedor, out.ID))

	assert.False(t, f.collected(t, "f1"))
	assert.False(t, f.collected(t, "f2"))
	_, err = f.svc.Get(context.Background(), entity.KindProveedor, out.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCobranza_UsaCamposDeCliente(t *testing.T) {
	f := newFixture(t)
	f.invoice(t, "fc", entity.KindCliente, entity.MonedaDolares)

	out, err := f.svc.Create(context.Background(), entity.KindCliente, dto.CreatePaymentRequest{
		Counterparty: dto.Counterparty{ClienteID: "c1"},
		PaymentLines: dto.PaymentLines{CobranzaLines: []dto.PaymentLineRequest{{
			Invoice:         "fc",
			CobranzaMethods: []dto.PaymentMethodLineRequest{method("efectivo", "100")},
		}}},
		Date:  "2026-03-01",
		Total: dec("100"),
	})
	require.NoError(t, err)

	assert.Equal(t, "D", out.Currency)
	assert.Equal(t, "c1", out.ClienteID)
	assert.Equal(t, "cliente", out.Kind)
	assert.True(t, f.collected(t, "fc"))

	_, err = f.svc.Get(context.Background(), entity.KindProveedor, out.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
