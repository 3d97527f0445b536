package ports

import (
	"context"
	"time"

	"github.com/ozonpanel/backend/internal/domain/entity"
)

// CancelledPosting cancelación reportada por el marketplace.
type CancelledPosting struct {
	PostingNumber string
	ProductName   string
	SKU           string
	Quantity      int
	CancelDate    *time.Time
	CancelReason  string
}

// MarketplaceClient puerto hacia el Seller API del marketplace (Ozon). Las
// implementaciones paginan internamente y devuelven el rango completo ya
// mapeado a entidades internas.
type MarketplaceClient interface {
	// ListPostings envíos del rango [from, to], con estado ya mapeado.
	ListPostings(ctx context.Context, from, to time.Time) ([]*entity.Order, error)
	// ListCancellations cancelaciones reportadas en el rango.
	ListCancellations(ctx context.Context, from, to time.Time) ([]CancelledPosting, error)
}
