package documents

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ozonpanel/backend/internal/application/dto"
	"github.com/ozonpanel/backend/internal/application/ports"
	"github.com/ozonpanel/backend/internal/domain/entity"
	"github.com/ozonpanel/backend/internal/domain/repository"
	"github.com/ozonpanel/backend/pkg/logger"
)

// DelayFunc pausa entre llamadas al OCR. Inyectable para que los tests no
// duerman de verdad. Debe respetar la cancelación del contexto.
type DelayFunc func(ctx context.Context, d time.Duration) error

// SleepDelay implementación real de DelayFunc sobre time.Timer.
func SleepDelay(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// BatchOCR orquesta la extracción OCR sobre un lote de pedidos. Procesamiento
// estrictamente secuencial con pausa fija entre llamadas: el proveedor
// (Gemini) limita la tasa y el lote entero debe sobrevivir a fallos
// individuales.
type BatchOCR struct {
	docRepo repository.DocumentRepository
	ocr     ports.OCRService
	delay   DelayFunc
	wait    time.Duration
	log     *logger.Logger
}

// NewBatchOCR construye el orquestador. wait es la pausa entre llamadas.
func NewBatchOCR(docRepo repository.DocumentRepository, ocr ports.OCRService, delay DelayFunc, wait time.Duration, log *logger.Logger) *BatchOCR {
	if delay == nil {
		delay = SleepDelay
	}
	return &BatchOCR{docRepo: docRepo, ocr: ocr, delay: delay, wait: wait, log: log.Named("batch-ocr")}
}

// Run procesa el lote en el orden recibido. Cada pedido produce al menos una
// entrada en Details; un fallo de OCR o de persistencia se registra y el lote
// continúa con el siguiente. Solo la cancelación del contexto corta el lote:
// los pedidos restantes quedan marcados como error con la razón del contexto.
func (b *BatchOCR) Run(ctx context.Context, req dto.BatchOCRRequest) (*dto.BatchOCRResult, error) {
	res := &dto.BatchOCRResult{Details: make([]dto.BatchOCRItem, 0, len(req.PostingNumbers))}
	if !req.ProcessPurchase && !req.ProcessETGB {
		req.ProcessPurchase = true
	}

	var cancelReason string
	for i, posting := range req.PostingNumbers {
		if cancelReason == "" && ctx.Err() != nil {
			cancelReason = ctx.Err().Error()
		}
		if cancelReason != "" {
			b.record(res, dto.BatchOCRItem{PostingNumber: posting, Status: "error", Reason: cancelReason})
			continue
		}
		if i > 0 {
			if err := b.delay(ctx, b.wait); err != nil {
				cancelReason = err.Error()
				b.record(res, dto.BatchOCRItem{PostingNumber: posting, Status: "error", Reason: cancelReason})
				continue
			}
		}
		b.processPosting(ctx, posting, req, res)
	}

	b.log.Info().
		Int("total", len(req.PostingNumbers)).
		Int("success", res.Success).
		Int("skipped", res.Skipped).
		Int("errors", res.Errors).
		Msg("lote OCR finalizado")
	return res, nil
}

func (b *BatchOCR) processPosting(ctx context.Context, posting string, req dto.BatchOCRRequest, res *dto.BatchOCRResult) {
	docs, err := b.docRepo.GetByPostingNumber(ctx, posting)
	if err != nil {
		b.record(res, dto.BatchOCRItem{PostingNumber: posting, Status: "error", Reason: err.Error()})
		return
	}
	if docs == nil {
		b.record(res, dto.BatchOCRItem{PostingNumber: posting, Status: "skipped", Reason: "pedido sin documentos"})
		return
	}

	type job struct {
		docType string
		pdfURL  string
	}
	var jobs []job
	if req.ProcessPurchase {
		jobs = append(jobs, job{ports.DocTypePurchase, docs.Purchase.PDFURL})
	}
	if req.ProcessETGB {
		jobs = append(jobs, job{ports.DocTypeETGB, docs.Customs.PDFURL})
	}

	changed := false
	for _, j := range jobs {
		item := dto.BatchOCRItem{PostingNumber: posting, DocType: j.docType}
		switch {
		case j.pdfURL == "":
			item.Status = "skipped"
			item.Reason = "sin PDF cargado"
		default:
			fields, err := b.ocr.ExtractFields(ctx, j.pdfURL, j.docType)
			switch {
			case err != nil:
				item.Status = "error"
				item.Reason = err.Error()
				b.log.Warn().Err(err).Str("posting", posting).Str("doc_type", j.docType).Msg("fallo OCR")
			case len(fields) == 0:
				item.Status = "skipped"
				item.Reason = "sin campos utilizables"
			default:
				applyOCRFields(docs, j.docType, fields)
				changed = true
				item.Status = "success"
			}
		}
		b.record(res, item)
	}

	if changed {
		docs.UpdatedAt = time.Now()
		if err := b.docRepo.Upsert(ctx, docs); err != nil {
			b.record(res, dto.BatchOCRItem{PostingNumber: posting, Status: "error", Reason: "persistencia: " + err.Error()})
		}
	}
}

func (b *BatchOCR) record(res *dto.BatchOCRResult, item dto.BatchOCRItem) {
	switch item.Status {
	case "success":
		res.Success++
	case "skipped":
		res.Skipped++
	default:
		res.Errors++
	}
	res.Details = append(res.Details, item)
}

// applyOCRFields vuelca los campos extraídos sobre la entidad. Claves según el
// prompt turco del adaptador Gemini; valores no reconocidos se ignoran.
func applyOCRFields(docs *entity.OrderDocuments, docType string, fields map[string]string) {
	get := func(k string) string { return strings.TrimSpace(fields[k]) }

	switch docType {
	case ports.DocTypePurchase:
		if v := get("faturaNo"); v != "" {
			docs.Purchase.InvoiceNumber = v
		}
		if d := parseDate(get("faturaTarihi")); d != nil {
			docs.Purchase.InvoiceDate = d
		}
		if v := get("saticiUnvani"); v != "" {
			docs.Purchase.SellerName = v
		}
		if v := get("saticiVkn"); v != "" {
			docs.Purchase.SellerTaxID = v
		}
		if v := get("aliciVkn"); v != "" {
			docs.Purchase.BuyerTaxID = v
		}
		if v := get("urunBilgisi"); v != "" {
			docs.Purchase.ProductInfo = v
		}
		if n, err := strconv.Atoi(get("urunAdedi")); err == nil && n > 0 {
			docs.Purchase.ProductQuantity = n
		}
		if d, ok := parseAmount(get("kdvHaricTutar")); ok {
			docs.Purchase.NetAmount = d
		}
		if d, ok := parseAmount(get("kdvTutari")); ok {
			docs.Purchase.VATAmount = d
		}
	case ports.DocTypeSale:
		if v := get("faturaNo"); v != "" {
			docs.Sale.InvoiceNumber = v
		}
		if d := parseDate(get("faturaTarihi")); d != nil {
			docs.Sale.InvoiceDate = d
		}
		if v := get("aliciAdSoyad"); v != "" {
			docs.Sale.BuyerFullName = v
		}
	case ports.DocTypeETGB:
		if v := get("etgbNo"); v != "" {
			docs.Customs.DeclarationNumber = v
		}
		if d := parseDate(get("etgbTarihi")); d != nil {
			docs.Customs.DeclarationDate = d
		}
		if d := parseDate(get("faturaTarihi")); d != nil {
			docs.Customs.InvoiceDate = d
		}
		if d, ok := parseAmount(get("tutar")); ok {
			docs.Customs.Amount = d
		}
		if v := get("dovizCinsi"); v == "USD" || v == "EUR" {
			docs.Customs.Currency = v
		}
	}
}

// parseAmount acepta punto o coma decimal ("1.234,56" y "1234.56").
func parseAmount(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
