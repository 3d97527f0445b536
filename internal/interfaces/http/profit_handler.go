package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/ozonpanel/backend/internal/application/dto"
	"github.com/ozonpanel/backend/internal/application/profit"
	"github.com/ozonpanel/backend/internal/infrastructure/excel"
)

// ProfitHandler corre el cálculo de kar en lote y sirve el agregado mensual.
type ProfitHandler struct {
	uc *profit.UseCase
}

// NewProfitHandler construye el handler de beneficio.
func NewProfitHandler(uc *profit.UseCase) *ProfitHandler {
	return &ProfitHandler{uc: uc}
}

// RunBatch godoc
// @Summary      Calcular beneficio del período
// @Tags         profit
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProfitBatchRequest  true  "período o lista de pedidos"
// @Success      200   {object}  dto.ProfitBatchResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/profit/batch [post]
func (h *ProfitHandler) RunBatch(c *fiber.Ctx) error {
	var in dto.ProfitBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.uc.RunBatch(c.Context(), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	if c.Query("format") == "xlsx" {
		data, err := excel.WriteProfitReport(res)
		if err != nil {
			return fail(c, err)
		}
		return sendXLSX(c, fmt.Sprintf("kar-%04d-%02d.xlsx", in.Year, in.Month), data)
	}
	return c.JSON(res)
}

// Monthly godoc
// @Summary      Agregado mensual persistido
// @Tags         profit
// @Produce      json
// @Param        year   query  int  true  "año"
// @Param        month  query  int  true  "mes 1-12"
// @Success      200  {object}  dto.MonthlyProfitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/profit/monthly [get]
func (h *ProfitHandler) Monthly(c *fiber.Ctx) error {
	year := c.QueryInt("year")
	month := c.QueryInt("month")
	res, err := h.uc.Monthly(c.Context(), GetUserID(c), year, month)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MonthlyProfitResponse{
		Year:              res.Year,
		Month:             res.Month,
		Processed:         res.Processed,
		SkippedNoPurchase: res.SkippedNoPurchase,
		SkippedReturn:     res.SkippedReturn,
		Cancelled:         res.Cancelled,
		TotalProfitTRY:    res.TotalProfitTRY,
		TotalProfitUSD:    res.TotalProfitUSD,
		CancelledLossTRY:  res.CancelledLossTRY,
		CancelledLossUSD:  res.CancelledLossUSD,
		UpdatedAt:         res.UpdatedAt,
	})
}
