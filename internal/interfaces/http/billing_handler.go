package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sistemita-api/internal/application/billing"
	"github.com/jhoicas/sistemita-api/internal/application/dto"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
)

// CounterpartyHandler clientes o proveedores según kind.
type CounterpartyHandler struct {
	uc       *billing.CounterpartyUseCase
	validate *validator.Validate
	kind     entity.Kind
}

// NewCounterpartyHandler construye el handler.
func NewCounterpartyHandler(uc *billing.CounterpartyUseCase, v *validator.Validate, kind entity.Kind) *CounterpartyHandler {
	return &CounterpartyHandler{uc: uc, validate: v, kind: kind}
}

// Create POST /api/clientes
func (h *CounterpartyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCounterpartyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(h.validate, in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), h.kind, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/clientes/:id
func (h *CounterpartyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), h.kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/clientes?limit=20&offset=0
func (h *CounterpartyHandler) List(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), h.kind, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PaymentMethodHandler catálogo de medios de pago.
type PaymentMethodHandler struct {
	uc       *billing.PaymentMethodUseCase
	validate *validator.Validate
}

// NewPaymentMethodHandler construye el handler.
func NewPaymentMethodHandler(uc *billing.PaymentMethodUseCase, v *validator.Validate) *PaymentMethodHandler {
	return &PaymentMethodHandler{uc: uc, validate: v}
}

// Create POST /api/medios-pago
func (h *PaymentMethodHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePaymentMethodRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(h.validate, in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/medios-pago
func (h *PaymentMethodHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
