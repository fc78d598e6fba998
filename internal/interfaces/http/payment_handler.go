package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sistemita-api/internal/application/dto"
	"github.com/jhoicas/sistemita-api/internal/application/payment"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
)

// PaymentHandler pagos a proveedores (kind proveedor) o cobranzas a clientes (kind cliente).
type PaymentHandler struct {
	svc      *payment.Service
	validate *validator.Validate
	kind     entity.Kind
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(svc *payment.Service, v *validator.Validate, kind entity.Kind) *PaymentHandler {
	return &PaymentHandler{svc: svc, validate: v, kind: kind}
}

// Create POST /api/pagos
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(h.validate, in); err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.Create(c.UserContext(), h.kind, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update PUT /api/pagos/:id
func (h *PaymentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(h.validate, in); err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.Update(c.UserContext(), h.kind, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/pagos/:id
func (h *PaymentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.UserContext(), h.kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/pagos?cliente_id=
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.List(c.UserContext(), h.kind, c.Query(dto.CounterpartyField(h.kind)), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/pagos/:id
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), h.kind, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
