package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/ozonpanel/backend/internal/application/dto"
	"github.com/ozonpanel/backend/internal/application/reports"
	"github.com/ozonpanel/backend/internal/infrastructure/excel"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler reportes de conciliación: uso de facturas de compra y
// conflictos de fecha. Con ?format=xlsx descarga la planilla.
type ReportHandler struct {
	uc *reports.UseCase
}

// NewReportHandler construye el handler de reportes.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// InvoiceUsage godoc
// @Summary      Reporte de uso de facturas de compra
// @Tags         reports
// @Produce      json
// @Param        year    query  int     true   "año"
// @Param        month   query  int     true   "mes 1-12"
// @Param        format  query  string  false  "xlsx para descargar planilla"
// @Success      200  {object}  dto.InvoiceUsageReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/invoice-usage [get]
func (h *ReportHandler) InvoiceUsage(c *fiber.Ctx) error {
	req, err := periodFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	rep, err := h.uc.InvoiceUsage(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	if c.Query("format") == "xlsx" {
		data, err := excel.WriteUsageReport(rep)
		if err != nil {
			return fail(c, err)
		}
		return sendXLSX(c, fmt.Sprintf("fatura-kullanim-%04d-%02d.xlsx", req.Year, req.Month), data)
	}
	return c.JSON(rep)
}

// DateConflicts godoc
// @Summary      Reporte de conflictos de fecha compra/venta
// @Tags         reports
// @Produce      json
// @Param        year    query  int     true   "año"
// @Param        month   query  int     true   "mes 1-12"
// @Param        format  query  string  false  "xlsx para descargar planilla"
// @Success      200  {object}  dto.DateConflictReport
// @Router       /api/reports/date-conflicts [get]
func (h *ReportHandler) DateConflicts(c *fiber.Ctx) error {
	req, err := periodFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	rep, err := h.uc.DateConflicts(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	if c.Query("format") == "xlsx" {
		data, err := excel.WriteConflictReport(rep)
		if err != nil {
			return fail(c, err)
		}
		return sendXLSX(c, fmt.Sprintf("tarih-cakisma-%04d-%02d.xlsx", req.Year, req.Month), data)
	}
	return c.JSON(rep)
}

// VKNConflicts godoc
// @Summary      Reporte de VKN de comprador distinto al de la empresa
// @Tags         reports
// @Produce      json
// @Param        year   query  int  true  "año"
// @Param        month  query  int  true  "mes 1-12"
// @Success      200  {object}  dto.VKNConflictReport
// @Router       /api/reports/vkn-conflicts [get]
func (h *ReportHandler) VKNConflicts(c *fiber.Ctx) error {
	req, err := periodFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	rep, err := h.uc.VKNConflicts(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rep)
}

// periodFromQuery lee year y month de los query params.
func periodFromQuery(c *fiber.Ctx) (dto.PeriodRequest, error) {
	req := dto.PeriodRequest{
		Year:  c.QueryInt("year"),
		Month: c.QueryInt("month"),
	}
	if !req.Valid() {
		return req, fmt.Errorf("year y month inválidos")
	}
	return req, nil
}

// sendXLSX responde la planilla como descarga.
func sendXLSX(c *fiber.Ctx, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
