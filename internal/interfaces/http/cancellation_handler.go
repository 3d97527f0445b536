package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ozonpanel/backend/internal/application/cancellation"
	"github.com/ozonpanel/backend/internal/application/dto"
)

// CancellationHandler workflow de pedidos cancelados: aviso al carrier y
// confirmación de recepción en el depósito.
type CancellationHandler struct {
	uc *cancellation.UseCase
}

// NewCancellationHandler construye el handler de cancelaciones.
func NewCancellationHandler(uc *cancellation.UseCase) *CancellationHandler {
	return &CancellationHandler{uc: uc}
}

// Track godoc
// @Summary      Registrar pedido cancelado para seguimiento
// @Tags         cancellations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NotifyCarrierRequest  true  "pedido cancelado"
// @Success      201   {object}  dto.CancellationResponse
// @Router       /api/cancellations [post]
func (h *CancellationHandler) Track(c *fiber.Ctx) error {
	var in dto.NotifyCarrierRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.PostingNumber == "" {
		return badRequest(c, "posting_number es requerido")
	}
	rec, err := h.uc.Track(c.Context(), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cancellation.ToResponse(rec))
}

// Action godoc
// @Summary      Aplicar acción del workflow
// @Tags         cancellations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CancellationActionRequest  true  "notify-carrier | confirm-warehouse | revert-notification | revert-confirmation"
// @Success      200   {object}  dto.CancellationResponse
// @Failure      409   {object}  dto.ErrorResponse  "transición inválida"
// @Router       /api/cancellations/action [post]
func (h *CancellationHandler) Action(c *fiber.Ctx) error {
	var in dto.CancellationActionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.PostingNumber == "" || in.Action == "" {
		return badRequest(c, "posting_number y action son requeridos")
	}
	rec, err := h.uc.ApplyAction(c.Context(), in.PostingNumber, in.Action)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cancellation.ToResponse(rec))
}

// Get devuelve el seguimiento de un pedido.
func (h *CancellationHandler) Get(c *fiber.Ctx) error {
	rec, err := h.uc.Get(c.Context(), c.Params("posting"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cancellation.ToResponse(rec))
}

// List godoc
// @Summary      Listar seguimientos por estado
// @Tags         cancellations
// @Produce      json
// @Param        status  query  string  false  "PENDING_NOTIFICATION | PENDING_WAREHOUSE | IN_WAREHOUSE"
// @Success      200  {array}  dto.CancellationResponse
// @Router       /api/cancellations [get]
func (h *CancellationHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListByStatus(c.Context(), c.Query("status"))
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.CancellationResponse, 0, len(list))
	for _, rec := range list {
		out = append(out, cancellation.ToResponse(rec))
	}
	return c.JSON(out)
}
