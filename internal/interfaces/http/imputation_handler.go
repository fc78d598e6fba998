package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sistemita-api/internal/application/dto"
	"github.com/jhoicas/sistemita-api/internal/application/imputation"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
)

// ImputationHandler imputación de notas de crédito de clientes o de proveedores.
type ImputationHandler struct {
	svc      *imputation.Service
	validate *validator.Validate
	kind     entity.Kind
}

// NewImputationHandler construye el handler.
func NewImputationHandler(svc *imputation.Service, v *validator.Validate, kind entity.Kind) *ImputationHandler {
	return &ImputationHandler{svc: svc, validate: v, kind: kind}
}

// Create POST /api/factura-imputada
func (h *ImputationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateImputationRequest
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

// Update PUT /api/factura-imputada/:id
func (h *ImputationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateImputationRequest
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

// GetByID GET /api/factura-imputada/:id
func (h *ImputationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.UserContext(), h.kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/factura-imputada?cliente_id=
func (h *ImputationHandler) List(c *fiber.Ctx) error {
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

// Delete DELETE /api/factura-imputada/:id
func (h *ImputationHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), h.kind, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
