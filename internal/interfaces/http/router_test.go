package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sistemita-api/internal/application/billing"
	"github.com/jhoicas/sistemita-api/internal/application/dto"
	"github.com/jhoicas/sistemita-api/internal/application/imputation"
	"github.com/jhoicas/sistemita-api/internal/application/payment"
	"github.com/jhoicas/sistemita-api/internal/domain"
	"github.com/jhoicas/sistemita-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/sistemita-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/sistemita-api/pkg/jwt"
)

type api struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Counterparties: billing.NewCounterpartyUseCase(repos.Counterparties),
		Invoices:       billing.NewInvoiceUseCase(repos.Invoices, repos.Counterparties),
		Importer:       billing.NewAFIPImporter(store, nil),
		PaymentMethods: billing.NewPaymentMethodUseCase(repos.PaymentMethods),
		Imputations:    imputation.NewService(store, repos, nil, nil),
		Payments:       payment.NewService(store, repos, nil, nil),
		JWTSecret:      testJWTSecret,
	})
	return &api{t: t, app: app, token: tokenForRole(t, pkgjwt.RoleContable)}
}

func (a *api) do(method, path string, body interface{}, out interface{}) int {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", a.token)
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(a.t, err)
		if len(raw) > 0 {
			require.NoError(a.t, json.Unmarshal(raw, out), string(raw))
		}
	}
	return resp.StatusCode
}

func (a *api) cliente() string {
	a.t.Helper()
	var out dto.CounterpartyResponse
	status := a.do(http.MethodPost, "/api/clientes", map[string]string{"razon_social": "ACME SA", "cuit": "30712345678"}, &out)
	require.Equal(a.t, http.StatusCreated, status)
	return out.ID
}

func (a *api) factura(cliente, numero, tipo, total string) string {
	a.t.Helper()
	var out dto.InvoiceResponse
	status := a.do(http.MethodPost, "/api/facturas", map[string]interface{}{
		"cliente_id": cliente, "numero": numero, "fecha": "2026-03-01", "tipo": tipo,
		"moneda": "P", "neto": total, "total": total,
	}, &out)
	require.Equal(a.t, http.StatusCreated, status)
	return out.ID
}

func TestRouter_ImputacionCompleta(t *testing.T) {
	a := newAPI(t)
	cliente := a.cliente()
	nc := a.factura(cliente, "0000100000001", "NCA", "100")
	f1 := a.factura(cliente, "0000100000002", "A", "60")
	f2 := a.factura(cliente, "0000100000003", "A", "60")

	var created dto.ImputationResponse
	status := a.do(http.MethodPost, "/api/factura-imputada", map[string]interface{}{
		"cliente_id": cliente, "fecha": "2026-03-02", "nota_de_credito_id": nc,
		"facturas_list":  []string{f1, f2},
		"monto_facturas": "120", "monto_nota_de_credito": "100", "total_factura": "20",
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "20.00", created.TotalInvoice)
	require.Len(t, created.Invoices, 2)
	require.NotNil(t, created.Invoices[0].Invoice)
	assert.True(t, created.Invoices[0].Invoice.Collected)

	var inv dto.InvoiceResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/facturas/"+f2, nil, &inv))
	assert.Equal(t, "20.00", inv.Total)
	assert.Equal(t, "40.00", inv.AmountImputed)

	var list dto.ImputationListResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/factura-imputada?cliente_id="+cliente, nil, &list))
	assert.Len(t, list.Items, 1)

	require.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/factura-imputada/"+created.ID, nil, nil))
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/facturas/"+f2, nil, &inv))
	assert.Equal(t, "60.00", inv.Total)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/factura-imputada/"+created.ID, nil, nil))
}

func TestRouter_ErroresDeValidacion(t *testing.T) {
	a := newAPI(t)

	var errResp dto.ErrorResponse
	status := a.do(http.MethodPost, "/api/factura-imputada", map[string]interface{}{
		"fecha": "02/03/2026", "facturas_list": []string{},
	}, &errResp)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Equal(t, []string{domain.MsgRequired}, errResp.Fields["monto_facturas"])
	assert.Equal(t, []string{domain.MsgRequired}, errResp.Fields["nota_de_credito_id"])
	assert.Equal(t, []string{domain.MsgInvalidDate}, errResp.Fields["fecha"])
	assert.Contains(t, errResp.Fields, "facturas_list")

	errResp = dto.ErrorResponse{}
	status = a.do(http.MethodPost, "/api/pagos", map[string]interface{}{
		"proveedor_id": "p1", "fecha": "2026-03-01", "total": "10",
		"pago_facturas": []map[string]interface{}{{
			"factura": "f1", "ganancias": "-1",
			"pago_factura_pagos": []map[string]interface{}{{"monto": "5"}},
		}},
	}, &errResp)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{domain.MsgNegativeAmount}, errResp.Fields["pago_facturas[0].ganancias"])
	assert.Equal(t, []string{domain.MsgMethodRequired}, errResp.Fields["pago_facturas[0].pago_factura_pagos[0].metodo"])
}

func TestRouter_PagoYCobranza(t *testing.T) {
	a := newAPI(t)

	var proveedor dto.CounterpartyResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/proveedores",
		map[string]string{"razon_social": "Proveedor SRL", "cuit": "30798765432"}, &proveedor))
	var medio dto.PaymentMethodResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/medios-pago", map[string]string{"nombre": "Cheque"}, &medio))

	var fp dto.InvoiceResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/facturas-proveedor", map[string]interface{}{
		"proveedor_id": proveedor.ID, "numero": "0000200000001", "fecha": "2026-03-01", "tipo": "A",
		"moneda": "P", "neto": "100",
	}, &fp))
	assert.Equal(t, "121.00", fp.Total)

	var pago dto.PaymentResponse
	status := a.do(http.MethodPost, "/api/pagos", map[string]interface{}{
		"proveedor_id": proveedor.ID, "fecha": "2026-03-05", "total": "121", "pagado": "121",
		"pago_facturas": []map[string]interface{}{{
			"factura": fp.ID, "ganancias": "1",
			"pago_factura_pagos": []map[string]interface{}{{"metodo": medio.ID, "monto": "120"}},
		}},
	}, &pago)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, pago.Lines, 1)
	assert.Equal(t, "1.00", pago.Lines[0].Withholdings)

	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/facturas-proveedor/"+fp.ID, nil, &fp))
	assert.True(t, fp.Collected)

	// un pago no es visible como cobranza
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/cobranzas/"+pago.ID, nil, nil))

	require.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/pagos/"+pago.ID, nil, nil))
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/facturas-proveedor/"+fp.ID, nil, &fp))
	assert.False(t, fp.Collected)
}

func TestRouter_RolConsultaSoloLee(t *testing.T) {
	a := newAPI(t)
	a.token = tokenForRole(t, pkgjwt.RoleConsulta)

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/clientes",
		map[string]string{"razon_social": "ACME SA", "cuit": "30712345678"}, nil))
	var list []dto.CounterpartyResponse
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/clientes", nil, &list))
	assert.Empty(t, list)
}

func TestRouter_ClienteDuplicado(t *testing.T) {
	a := newAPI(t)
	a.cliente()
	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/api/clientes",
		map[string]string{"razon_social": "Otra", "cuit": "30712345678"}, &errResp))
	assert.Equal(t, "DUPLICATE", errResp.Code)
}

func TestRouter_ImportarFacturas(t *testing.T) {
	a := newAPI(t)
	csv := "Fecha;Tipo;Punto de Venta;Número Desde;Tipo Doc. Receptor;Nro. Doc. Receptor;Denominación Receptor;Moneda;Imp. Neto Gravado;Imp. Total\n" +
		"01/03/2026;1 - Factura A;1;7;CUIT;30712345678;ACME SA;$;100,00;121,00\n"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("archivo", "comprobantes.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/facturas/importar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", a.token)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report dto.ImportReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 1, report.Created)

	var list dto.InvoiceListResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/facturas", nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "0000100000007", list.Items[0].Number)
}
