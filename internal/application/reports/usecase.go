// Package reports arma los reportes de conciliación del período: uso de
// facturas de compra, conflictos de fecha y VKN de comprador ajeno. Lee el
// conjunto documental del repositorio y delega la lógica en los servicios
// puros de reconcile.
package reports

import (
	"context"
	"fmt"

	"github.com/ozonpanel/backend/internal/application/dto"
	"github.com/ozonpanel/backend/internal/domain"
	"github.com/ozonpanel/backend/internal/domain/entity"
	"github.com/ozonpanel/backend/internal/domain/reconcile"
	"github.com/ozonpanel/backend/internal/domain/repository"
)

// UseCase reportes de conciliación sobre un período calendario. companyVKN es
// el VKN propio contra el que se valida el comprador de las facturas de
// compra.
type UseCase struct {
	docRepo    repository.DocumentRepository
	companyVKN string
}

// NewUseCase construye el caso de uso.
func NewUseCase(docRepo repository.DocumentRepository, companyVKN string) *UseCase {
	return &UseCase{docRepo: docRepo, companyVKN: companyVKN}
}

// InvoiceUsage reporte de uso de facturas de compra del período. Los pedidos
// sin factura de compra no entran al índice pero sí al contador de faltantes.
func (uc *UseCase) InvoiceUsage(ctx context.Context, req dto.PeriodRequest) (*dto.InvoiceUsageReport, error) {
	docs, err := uc.listPeriod(ctx, req)
	if err != nil {
		return nil, err
	}

	refs := make([]reconcile.OrderInvoiceRef, 0, len(docs))
	for _, d := range docs {
		refs = append(refs, reconcile.OrderInvoiceRef{
			PostingNumber:   d.PostingNumber,
			InvoiceNumber:   d.Purchase.InvoiceNumber,
			InvoiceDate:     d.Purchase.InvoiceDate,
			SellerName:      d.Purchase.SellerName,
			SellerTaxID:     d.Purchase.SellerTaxID,
			ProductInfo:     d.Purchase.ProductInfo,
			ProductQuantity: d.Purchase.ProductQuantity,
			PDFURL:          d.Purchase.PDFURL,
		})
	}

	idx := reconcile.BuildUsageIndex(refs)

	out := &dto.InvoiceUsageReport{
		Invoices: make([]dto.InvoiceUsageItem, 0, len(idx.Invoices)),
		Period:   req,
	}
	out.Stats.MissingInvoice = idx.MissingInvoice
	out.Stats.TotalInvoices = len(idx.Invoices)
	for _, inv := range idx.Invoices {
		out.Invoices = append(out.Invoices, dto.InvoiceUsageItem{
			InvoiceNumber:  inv.InvoiceNumber,
			InvoiceDate:    inv.InvoiceDate,
			SellerName:     inv.SellerName,
			SellerTaxID:    inv.SellerTaxID,
			ProductInfo:    inv.ProductInfo,
			Capacity:       inv.Capacity,
			UsageCount:     inv.UsageCount,
			Remaining:      inv.Remaining,
			Excess:         inv.Excess,
			State:          inv.State,
			PostingNumbers: inv.PostingNumbers,
			PDFURL:         inv.PDFURL,
		})
		switch inv.State {
		case reconcile.UsageFull:
			out.Stats.FullyUsed++
		case reconcile.UsageUsable:
			out.Stats.Usable++
		case reconcile.UsageOverused:
			out.Stats.Overused++
		}
	}
	return out, nil
}

// DateConflicts reporte de facturas de compra fechadas después de la venta.
func (uc *UseCase) DateConflicts(ctx context.Context, req dto.PeriodRequest) (*dto.DateConflictReport, error) {
	docs, err := uc.listPeriod(ctx, req)
	if err != nil {
		return nil, err
	}

	dates := make([]reconcile.OrderDates, 0, len(docs))
	for _, d := range docs {
		dates = append(dates, reconcile.OrderDates{
			PostingNumber:     d.PostingNumber,
			PurchaseInvoiceNo: d.Purchase.InvoiceNumber,
			PurchaseDate:      d.Purchase.InvoiceDate,
			SaleInvoiceNo:     d.Sale.InvoiceNumber,
			SaleDate:          d.Sale.InvoiceDate,
		})
	}

	conflicts := reconcile.DetectDateConflicts(dates)

	out := &dto.DateConflictReport{
		Conflicts: make([]dto.DateConflictItem, 0, len(conflicts)),
		Period:    req,
	}
	for _, c := range conflicts {
		out.Conflicts = append(out.Conflicts, dto.DateConflictItem{
			PostingNumber:     c.PostingNumber,
			PurchaseInvoiceNo: c.PurchaseInvoiceNo,
			PurchaseDate:      c.PurchaseDate,
			SaleInvoiceNo:     c.SaleInvoiceNo,
			SaleDate:          c.SaleDate,
			GapDays:           c.GapDays,
		})
	}
	return out, nil
}

// VKNConflicts reporte de facturas de compra emitidas a un VKN de comprador
// distinto al de la empresa. Los registros sin VKN de comprador no cuentan.
func (uc *UseCase) VKNConflicts(ctx context.Context, req dto.PeriodRequest) (*dto.VKNConflictReport, error) {
	docs, err := uc.listPeriod(ctx, req)
	if err != nil {
		return nil, err
	}

	refs := make([]reconcile.PurchaseVKNRef, 0, len(docs))
	for _, d := range docs {
		if d.Purchase.BuyerTaxID == "" {
			continue
		}
		refs = append(refs, reconcile.PurchaseVKNRef{
			PostingNumber: d.PostingNumber,
			InvoiceNumber: d.Purchase.InvoiceNumber,
			InvoiceDate:   d.Purchase.InvoiceDate,
			SellerName:    d.Purchase.SellerName,
			SellerTaxID:   d.Purchase.SellerTaxID,
			BuyerTaxID:    d.Purchase.BuyerTaxID,
			ProductInfo:   d.Purchase.ProductInfo,
			PDFURL:        d.Purchase.PDFURL,
		})
	}

	conflicts := reconcile.DetectVKNConflicts(refs, uc.companyVKN)

	out := &dto.VKNConflictReport{
		Conflicts:   make([]dto.VKNConflictItem, 0, len(conflicts)),
		ExpectedVKN: uc.companyVKN,
		Period:      req,
	}
	out.Stats.TotalWithVKN = len(refs)
	out.Stats.Conflicting = len(conflicts)
	out.Stats.Matching = len(refs) - len(conflicts)
	out.Stats.VKNDistribution = map[string]int{}
	for _, c := range conflicts {
		out.Conflicts = append(out.Conflicts, dto.VKNConflictItem{
			PostingNumber: c.PostingNumber,
			InvoiceNumber: c.InvoiceNumber,
			InvoiceDate:   c.InvoiceDate,
			SellerName:    c.SellerName,
			SellerTaxID:   c.SellerTaxID,
			BuyerTaxID:    c.BuyerTaxID,
			ExpectedVKN:   c.ExpectedVKN,
			ProductInfo:   c.ProductInfo,
			PDFURL:        c.PDFURL,
		})
		out.Stats.VKNDistribution[c.BuyerTaxID]++
	}
	out.Stats.DistinctVKNs = len(out.Stats.VKNDistribution)
	return out, nil
}

func (uc *UseCase) listPeriod(ctx context.Context, req dto.PeriodRequest) ([]*entity.OrderDocuments, error) {
	if !req.Valid() {
		return nil, domain.ErrInvalidInput
	}
	docs, err := uc.docRepo.ListByPeriod(ctx, repository.Period{Year: req.Year, Month: req.Month})
	if err != nil {
		return nil, fmt.Errorf("listar documentos del período: %w", err)
	}
	return docs, nil
}
