package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sistemita-api/internal/application/billing"
	"github.com/jhoicas/sistemita-api/internal/application/dto"
	"github.com/jhoicas/sistemita-api/internal/domain/entity"
)

// InvoiceHandler facturas de clientes o de proveedores según kind.
type InvoiceHandler struct {
	uc       *billing.InvoiceUseCase
	importer *billing.AFIPImporter
	validate *validator.Validate
	kind     entity.Kind
}

// NewInvoiceHandler construye el handler para un lado del libro.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, importer *billing.AFIPImporter, v *validator.Validate, kind entity.Kind) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, importer: importer, validate: v, kind: kind}
}

// Create POST /api/facturas
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
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

// GetByID GET /api/facturas/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), h.kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/facturas?cliente_id=&limit=20&offset=0
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), h.kind, c.Query(dto.CounterpartyField(h.kind)), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Import POST /api/facturas/importar (multipart, campo "archivo")
func (h *InvoiceHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("archivo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "archivo requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()
	report, err := h.importer.Import(c.UserContext(), h.kind, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

func parsePage(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, fiber.NewError(fiber.StatusBadRequest, "paginado inválido")
	}
	if page.Limit > 100 {
		page.Limit = 100
	}
	if page.Offset < 0 {
		page.Offset = 0
	}
	return page, nil
}
