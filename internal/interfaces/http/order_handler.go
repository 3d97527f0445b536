package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ozonpanel/backend/internal/application/dto"
	"github.com/ozonpanel/backend/internal/application/orders"
)

// OrderHandler sincronización de pedidos con el marketplace y carga manual
// del precio de compra.
type OrderHandler struct {
	uc *orders.UseCase
}

// NewOrderHandler construye el handler de pedidos.
func NewOrderHandler(uc *orders.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// List godoc
// @Summary      Pedidos del período (sincroniza con el marketplace)
// @Tags         orders
// @Produce      json
// @Param        year   query  int   true   "año"
// @Param        month  query  int   true   "mes 1-12"
// @Param        force  query  bool  false  "ignorar caché y re-sincronizar"
// @Success      200  {array}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	req, err := periodFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	list, err := h.uc.SyncPeriod(c.Context(), GetUserID(c), req, c.QueryBool("force"))
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, dto.ToOrderResponse(o))
	}
	return c.JSON(out)
}

// Get devuelve un pedido por número de envío.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	o, err := h.uc.Get(c.Context(), c.Params("posting"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.ToOrderResponse(o))
}

// SetPurchasePrice godoc
// @Summary      Registrar precio de compra en moneda local
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetPurchasePriceRequest  true  "precio > 0"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders/{posting}/purchase-price [put]
func (h *OrderHandler) SetPurchasePrice(c *fiber.Ctx) error {
	var in dto.SetPurchasePriceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	posting := c.Params("posting")
	if err := h.uc.SetPurchasePrice(c.Context(), posting, in.Price); err != nil {
		return fail(c, err)
	}
	o, err := h.uc.Get(c.Context(), posting)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.ToOrderResponse(o))
}
