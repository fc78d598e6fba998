package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sistemita-api/internal/application/billing"
	"github.com/jhoicas/sistemita-api/internal/application/imputation"
	"github.com/jhoicas/sistemita-api/internal/application/payment"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
	"github.com/jhoicas/sistemita-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Counterparties *billing.CounterpartyUseCase
	Invoices       *billing.InvoiceUseCase
	Importer       *billing.AFIPImporter
	PaymentMethods *billing.PaymentMethodUseCase
	Imputations    *imputation.Service
	Payments       *payment.Service
	JWTSecret      string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token; las escrituras
// además piden rol admin o contable.
func Router(app *fiber.App, deps RouterDeps) {
	v := NewValidator()
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	write := RequireRole(jwt.RoleAdmin, jwt.RoleContable)

	for path, kind := range map[string]entity.Kind{"/clientes": entity.KindCliente, "/proveedores": entity.KindProveedor} {
		h := NewCounterpartyHandler(deps.Counterparties, v, kind)
		g := api.Group(path)
		g.Post("/", write, h.Create)
		g.Get("/", h.List)
		g.Get("/:id", h.GetByID)
	}

	for path, kind := range map[string]entity.Kind{"/facturas": entity.KindCliente, "/facturas-proveedor": entity.KindProveedor} {
		h := NewInvoiceHandler(deps.Invoices, deps.Importer, v, kind)
		g := api.Group(path)
		g.Post("/importar", write, h.Import)
		g.Post("/", write, h.Create)
		g.Get("/", h.List)
		g.Get("/:id", h.GetByID)
	}

	methods := NewPaymentMethodHandler(deps.PaymentMethods, v)
	api.Get("/medios-pago", methods.List)
	api.Post("/medios-pago", write, methods.Create)

	for path, kind := range map[string]entity.Kind{"/factura-imputada": entity.KindCliente, "/factura-proveedor-imputada": entity.KindProveedor} {
		h := NewImputationHandler(deps.Imputations, v, kind)
		g := api.Group(path)
		g.Post("/", write, h.Create)
		g.Get("/", h.List)
		g.Get("/:id", h.GetByID)
		g.Put("/:id", write, h.Update)
		g.Delete("/:id", write, h.Delete)
	}

	// pagos a proveedores y cobranzas a clientes comparten el motor
	for path, kind := range map[string]entity.Kind{"/pagos": entity.KindProveedor, "/cobranzas": entity.KindCliente} {
		h := NewPaymentHandler(deps.Payments, v, kind)
		g := api.Group(path)
		g.Post("/", write, h.Create)
		g.Get("/", h.List)
		g.Get("/:id", h.GetByID)
		g.Put("/:id", write, h.Update)
		g.Delete("/:id", write, h.Delete)
	}
}
