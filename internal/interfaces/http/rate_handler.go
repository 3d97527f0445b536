package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ozonpanel/backend/internal/application/dto"
	"github.com/ozonpanel/backend/internal/application/ports"
)

// RateHandler consulta puntual de tipo de cambio (TCMB / CBR) con fallback a
// días anteriores.
type RateHandler struct {
	lookup ports.RateLookup
}

// NewRateHandler construye el handler de cotizaciones.
func NewRateHandler(lookup ports.RateLookup) *RateHandler {
	return &RateHandler{lookup: lookup}
}

// Get godoc
// @Summary      Cotización para una fecha
// @Tags         rates
// @Produce      json
// @Param        date  query  string  true   "YYYY-MM-DD"
// @Param        pair  query  string  false  "USD/TRY (default) | USD/RUB"
// @Success      200  {object}  dto.RateResponse
// @Failure      422  {object}  dto.ErrorResponse  "sin cotización"
// @Router       /api/rates [get]
func (h *RateHandler) Get(c *fiber.Ctx) error {
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return badRequest(c, "date debe ser YYYY-MM-DD")
	}
	pair := c.Query("pair", ports.PairUSDTRY)
	rate, effective, err := h.lookup.RateFor(c.Context(), date, pair)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.RateResponse{
		Pair:          pair,
		Rate:          rate,
		RequestedDate: date,
		EffectiveDate: effective,
	})
}
