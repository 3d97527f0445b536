package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ozonpanel/backend/internal/application/dto"
	"github.com/ozonpanel/backend/internal/domain"
	"github.com/ozonpanel/backend/internal/domain/entity"
	"github.com/ozonpanel/backend/internal/domain/reconcile"
	"github.com/ozonpanel/backend/internal/domain/repository"
)

// UseCase gestión del conjunto documental por pedido: alta/edición con guarda
// de duplicados, notas, borrado por tipo y reseteo de campos OCR.
type UseCase struct {
	docRepo repository.DocumentRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(docRepo repository.DocumentRepository) *UseCase {
	return &UseCase{docRepo: docRepo}
}

// ListPeriod devuelve los conjuntos documentales de los pedidos del mes.
func (uc *UseCase) ListPeriod(ctx context.Context, req dto.PeriodRequest) ([]*entity.OrderDocuments, error) {
	if !req.Valid() {
		return nil, fmt.Errorf("%w: período %d-%d", domain.ErrInvalidInput, req.Year, req.Month)
	}
	list, err := uc.docRepo.ListByPeriod(ctx, repository.Period{Year: req.Year, Month: req.Month})
	if err != nil {
		return nil, fmt.Errorf("listar documentos del período: %w", err)
	}
	return list, nil
}

// CheckDuplicate consulta si un número de factura de venta ya está asignado a
// otro pedido. Consulta pura: no escribe nada.
func (uc *UseCase) CheckDuplicate(ctx context.Context, invoiceNumber, postingNumber string) (*dto.DuplicateCheckResponse, error) {
	if strings.TrimSpace(invoiceNumber) == "" {
		return nil, domain.ErrInvalidInput
	}
	refs, err := uc.docRepo.ListSaleInvoiceRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar referencias de factura: %w", err)
	}
	res := reconcile.CheckDuplicate(invoiceNumber, postingNumber, refs)
	out := &dto.DuplicateCheckResponse{
		IsDuplicate:           res.IsDuplicate,
		ExistingPostingNumber: res.ExistingPostingNumber,
	}
	if res.IsDuplicate {
		out.Message = fmt.Sprintf("Bu fatura numarası daha önce %s numaralı gönderi için kullanılmış.", res.ExistingPostingNumber)
	}
	return out, nil
}

// Upsert crea o actualiza los documentos de un pedido. Antes de escribir corre
// la guarda de duplicados sobre el número de factura de venta: un positivo
// bloquea la escritura salvo override explícito (ForceDuplicate).
func (uc *UseCase) Upsert(ctx context.Context, in dto.UpsertDocumentRequest) (*entity.OrderDocuments, error) {
	posting := strings.TrimSpace(in.PostingNumber)
	if posting == "" {
		return nil, domain.ErrInvalidInput
	}

	if saleNo := strings.TrimSpace(in.SaleInvoiceNo); saleNo != "" && !in.ForceDuplicate {
		refs, err := uc.docRepo.ListSaleInvoiceRefs(ctx)
		if err != nil {
			return nil, fmt.Errorf("guarda de duplicados: %w", err)
		}
		if res := reconcile.CheckDuplicate(saleNo, posting, refs); res.IsDuplicate {
			return nil, fmt.Errorf("%w: pedido %s", domain.ErrDuplicateInvoice, res.ExistingPostingNumber)
		}
	}

	existing, err := uc.docRepo.GetByPostingNumber(ctx, posting)
	if err != nil {
		return nil, fmt.Errorf("obtener documentos: %w", err)
	}
	now := time.Now()
	docs := existing
	if docs == nil {
		docs = &entity.OrderDocuments{PostingNumber: posting, CreatedAt: now}
	}
	applyRequest(docs, in)
	docs.UpdatedAt = now

	if err := uc.docRepo.Upsert(ctx, docs); err != nil {
		return nil, fmt.Errorf("guardar documentos: %w", err)
	}
	return docs, nil
}

// SetNote guarda la nota libre del pedido.
func (uc *UseCase) SetNote(ctx context.Context, postingNumber, note string) error {
	if strings.TrimSpace(postingNumber) == "" {
		return domain.ErrInvalidInput
	}
	return uc.docRepo.SetNote(ctx, postingNumber, note)
}

// DeleteDocument borra un tipo de documento del pedido.
func (uc *UseCase) DeleteDocument(ctx context.Context, postingNumber, docType string) error {
	switch docType {
	case "alis", "satis", "etgb":
	default:
		return domain.ErrInvalidInput
	}
	return uc.docRepo.DeleteDocument(ctx, postingNumber, docType)
}

// ResetOCR limpia los campos extraídos por OCR conservando el PDF.
func (uc *UseCase) ResetOCR(ctx context.Context, postingNumber, docType string) error {
	switch docType {
	case "alis", "satis", "etgb":
	default:
		return domain.ErrInvalidInput
	}
	return uc.docRepo.ResetOCRFields(ctx, postingNumber, docType)
}

// Get devuelve los documentos de un pedido.
func (uc *UseCase) Get(ctx context.Context, postingNumber string) (*entity.OrderDocuments, error) {
	docs, err := uc.docRepo.GetByPostingNumber(ctx, postingNumber)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		return nil, domain.ErrNotFound
	}
	return docs, nil
}

// Search busca documentos por prefijo de número de envío.
func (uc *UseCase) Search(ctx context.Context, prefix string, limit int) ([]*entity.OrderDocuments, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.docRepo.Search(ctx, strings.TrimSpace(prefix), limit)
}

// applyRequest pisa solo los campos presentes en la petición.
func applyRequest(docs *entity.OrderDocuments, in dto.UpsertDocumentRequest) {
	if v := strings.TrimSpace(in.PurchaseInvoiceNo); v != "" {
		docs.Purchase.InvoiceNumber = v
	}
	if d := parseDate(in.PurchaseDate); d != nil {
		docs.Purchase.InvoiceDate = d
	}
	if in.SellerName != "" {
		docs.Purchase.SellerName = in.SellerName
	}
	if in.SellerTaxID != "" {
		docs.Purchase.SellerTaxID = in.SellerTaxID
	}
	if in.BuyerTaxID != "" {
		docs.Purchase.BuyerTaxID = in.BuyerTaxID
	}
	if in.ProductInfo != "" {
		docs.Purchase.ProductInfo = in.ProductInfo
	}
	if in.ProductQuantity > 0 {
		docs.Purchase.ProductQuantity = in.ProductQuantity
	}
	if !in.NetAmount.IsZero() {
		docs.Purchase.NetAmount = in.NetAmount
	}
	if !in.VATAmount.IsZero() {
		docs.Purchase.VATAmount = in.VATAmount
	}
	if in.PurchasePDFURL != "" {
		docs.Purchase.PDFURL = in.PurchasePDFURL
	}

	if v := strings.TrimSpace(in.SaleInvoiceNo); v != "" {
		docs.Sale.InvoiceNumber = v
	}
	if d := parseDate(in.SaleDate); d != nil {
		docs.Sale.InvoiceDate = d
	}
	if in.BuyerFullName != "" {
		docs.Sale.BuyerFullName = in.BuyerFullName
	}
	if in.SalePDFURL != "" {
		docs.Sale.PDFURL = in.SalePDFURL
	}

	if v := strings.TrimSpace(in.ETGBNumber); v != "" {
		docs.Customs.DeclarationNumber = v
	}
	if !in.ETGBAmount.IsZero() {
		docs.Customs.Amount = in.ETGBAmount
	}
	if in.ETGBCurrency == "USD" || in.ETGBCurrency == "EUR" {
		docs.Customs.Currency = in.ETGBCurrency
	}
	if d := parseDate(in.ETGBDate); d != nil {
		docs.Customs.DeclarationDate = d
	}
	if in.ETGBPDFURL != "" {
		docs.Customs.PDFURL = in.ETGBPDFURL
	}
}

// parseDate acepta YYYY-MM-DD y DD.MM.YYYY (formato de los documentos turcos).
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", "02.01.2006", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
