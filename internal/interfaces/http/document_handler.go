package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ozonpanel/backend/internal/application/documents"
	"github.com/ozonpanel/backend/internal/application/dto"
	"github.com/ozonpanel/backend/internal/infrastructure/excel"
)

// DocumentHandler maneja el conjunto documental de los pedidos: alta y
// edición, guarda de duplicados, import masivo desde planilla y OCR en lote.
type DocumentHandler struct {
	uc    *documents.UseCase
	batch *documents.BatchOCR
}

// NewDocumentHandler construye el handler de documentos.
func NewDocumentHandler(uc *documents.UseCase, batch *documents.BatchOCR) *DocumentHandler {
	return &DocumentHandler{uc: uc, batch: batch}
}

// List godoc
// @Summary      Documentos de todos los pedidos del período
// @Tags         documents
// @Produce      json
// @Param        year   query  int  true  "año"
// @Param        month  query  int  true  "mes 1-12"
// @Success      200  {array}  dto.DocumentResponse
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	req, err := periodFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	list, err := h.uc.ListPeriod(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.DocumentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.ToDocumentResponse(d))
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Documentos de un pedido
// @Tags         documents
// @Produce      json
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{posting} [get]
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	docs, err := h.uc.Get(c.Context(), c.Params("posting"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.ToDocumentResponse(docs))
}

// Upsert godoc
// @Summary      Alta/edición de documentos
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertDocumentRequest  true  "campos del documento"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      409   {object}  dto.ErrorResponse  "factura de venta duplicada"
// @Router       /api/documents [put]
func (h *DocumentHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.PostingNumber == "" {
		return badRequest(c, "posting_number es requerido")
	}
	docs, err := h.uc.Upsert(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.ToDocumentResponse(docs))
}

// CheckDuplicate godoc
// @Summary      Consulta de factura de venta duplicada
// @Tags         documents
// @Produce      json
// @Param        invoice  query  string  true   "número de factura de venta"
// @Param        posting  query  string  false  "pedido a excluir de la consulta"
// @Success      200  {object}  dto.DuplicateCheckResponse
// @Router       /api/documents/check-duplicate [get]
func (h *DocumentHandler) CheckDuplicate(c *fiber.Ctx) error {
	invoice := c.Query("invoice")
	if invoice == "" {
		return badRequest(c, "invoice es requerido")
	}
	out, err := h.uc.CheckDuplicate(c.Context(), invoice, c.Query("posting"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// SetNote guarda la nota libre de un pedido.
func (h *DocumentHandler) SetNote(c *fiber.Ctx) error {
	var in struct {
		Note string `json:"note"`
	}
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.SetNote(c.Context(), c.Params("posting"), in.Note); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete borra los campos de un tipo de documento (alis | satis | etgb),
// incluido el PDF.
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteDocument(c.Context(), c.Params("posting"), c.Params("type")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ResetOCR limpia los campos extraídos de un tipo de documento conservando el
// PDF, para reprocesar.
func (h *DocumentHandler) ResetOCR(c *fiber.Ctx) error {
	if err := h.uc.ResetOCR(c.Context(), c.Params("posting"), c.Params("type")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Search busca pedidos por prefijo del número de envío.
func (h *DocumentHandler) Search(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return badRequest(c, "q es requerido")
	}
	limit := c.QueryInt("limit", 20)
	list, err := h.uc.Search(c.Context(), q, limit)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.DocumentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.ToDocumentResponse(d))
	}
	return c.JSON(out)
}

// BulkImport godoc
// @Summary      Import masivo de documentos desde planilla xlsx
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "planilla xlsx"
// @Success      200   {object}  dto.BulkImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/documents/import [post]
func (h *DocumentHandler) BulkImport(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "archivo 'file' requerido (multipart)")
	}
	f, err := fh.Open()
	if err != nil {
		return fail(c, err)
	}
	defer f.Close()

	rows, err := excel.ParseImportFile(f)
	if err != nil {
		return badRequest(c, "planilla inválida: "+err.Error())
	}
	res, err := h.uc.Import(c.Context(), rows)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(res)
}

// BatchOCR godoc
// @Summary      OCR en lote sobre los PDFs cargados
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchOCRRequest  true  "pedidos y tipos a procesar"
// @Success      200   {object}  dto.BatchOCRResult
// @Router       /api/documents/batch-ocr [post]
func (h *DocumentHandler) BatchOCR(c *fiber.Ctx) error {
	var in dto.BatchOCRRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if len(in.PostingNumbers) == 0 {
		return badRequest(c, "posting_numbers no puede estar vacío")
	}
	res, err := h.batch.Run(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(res)
}
