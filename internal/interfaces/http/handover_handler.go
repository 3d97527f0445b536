package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ozonpanel/backend/internal/application/dto"
	"github.com/ozonpanel/backend/internal/application/handover"
	"github.com/ozonpanel/backend/internal/infrastructure/pdf"
)

// HandoverHandler entrega de paquetes del mensajero al depósito: escaneo
// desde la app móvil, confirmación de recepción y manifiesto en PDF.
type HandoverHandler struct {
	uc       *handover.UseCase
	manifest *pdf.ManifestGenerator
}

// NewHandoverHandler construye el handler de entregas.
func NewHandoverHandler(uc *handover.UseCase, manifest *pdf.ManifestGenerator) *HandoverHandler {
	return &HandoverHandler{uc: uc, manifest: manifest}
}

// Scan godoc
// @Summary      Escanear código de barras de un envío
// @Tags         handover
// @Accept       json
// @Produce      json
// @Param        body  body  dto.HandoverScanRequest  true  "número de envío"
// @Success      201   {object}  dto.HandoverResponse
// @Failure      404   {object}  dto.ErrorResponse  "el pedido no existe"
// @Router       /api/handover/scan [post]
func (h *HandoverHandler) Scan(c *fiber.Ctx) error {
	var in dto.HandoverScanRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.PostingNumber == "" {
		return badRequest(c, "posting_number es requerido")
	}
	rec, err := h.uc.Scan(c.Context(), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(handover.ToResponse(rec))
}

// Confirm confirma la recepción de un envío en el depósito.
func (h *HandoverHandler) Confirm(c *fiber.Ctx) error {
	rec, err := h.uc.Confirm(c.Context(), c.Params("posting"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(handover.ToResponse(rec))
}

// Remove quita un envío escaneado por error. No permite quitar confirmados.
func (h *HandoverHandler) Remove(c *fiber.Ctx) error {
	if err := h.uc.Remove(c.Context(), c.Params("posting")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Pending godoc
// @Summary      Envíos escaneados sin confirmar
// @Tags         handover
// @Produce      json
// @Success      200  {object}  dto.PendingPostingsResponse
// @Router       /api/handover/pending [get]
func (h *HandoverHandler) Pending(c *fiber.Ctx) error {
	out, err := h.uc.Pending(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Get devuelve la entrega de un envío.
func (h *HandoverHandler) Get(c *fiber.Ctx) error {
	rec, err := h.uc.Get(c.Context(), c.Params("posting"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(handover.ToResponse(rec))
}

// Manifest godoc
// @Summary      Manifiesto de entrega en PDF con códigos de barras
// @Tags         handover
// @Produce      application/pdf
// @Param        courier  query  string  false  "nombre del mensajero para el encabezado"
// @Success      200  {file}  binary
// @Router       /api/handover/manifest [get]
func (h *HandoverHandler) Manifest(c *fiber.Ctx) error {
	list, err := h.uc.PendingRecords(c.Context())
	if err != nil {
		return fail(c, err)
	}
	if len(list) == 0 {
		return badRequest(c, "no hay envíos pendientes para el manifiesto")
	}
	courier := c.Query("courier")
	if courier == "" {
		courier = "Kurye"
	}
	data, err := h.manifest.Generate(courier, list)
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		`attachment; filename="teslim-tutanagi-`+time.Now().Format("2006-01-02")+`.pdf"`)
	return c.Send(data)
}
