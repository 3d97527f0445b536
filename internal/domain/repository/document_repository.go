package repository

import (
	"context"

	"github.com/ozonpanel/backend/internal/domain/entity"
	"github.com/ozonpanel/backend/internal/domain/reconcile"
)

// DocumentRepository persistencia del conjunto documental por pedido.
type DocumentRepository interface {
	GetByPostingNumber(ctx context.Context, postingNumber string) (*entity.OrderDocuments, error)
	Upsert(ctx context.Context, docs *entity.OrderDocuments) error
	ListByPeriod(ctx context.Context, period Period) ([]*entity.OrderDocuments, error)
	Search(ctx context.Context, postingNumberPrefix string, limit int) ([]*entity.OrderDocuments, error)
	SetNote(ctx context.Context, postingNumber, note string) error
	// DeleteDocument borra un tipo de documento ("alis" | "satis" | "etgb") del pedido.
	DeleteDocument(ctx context.Context, postingNumber, docType string) error
	// ResetOCRFields limpia los campos extraídos por OCR del tipo dado,
	// conservando el PDF, para poder re-procesar.
	ResetOCRFields(ctx context.Context, postingNumber, docType string) error
	// ListSaleInvoiceRefs asignaciones número de factura de venta -> pedido,
	// para la guarda de duplicados antes de escribir.
	ListSaleInvoiceRefs(ctx context.Context) ([]reconcile.InvoiceRef, error)
}
