package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ozonpanel/backend/internal/domain/entity"
)

// Period ventana de reporte (mes calendario).
type Period struct {
	Year  int
	Month int
}

// Start devuelve el primer instante del mes en UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End devuelve el último instante del mes en UTC.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0).Add(-time.Millisecond)
}

// OrderRepository persistencia de pedidos sincronizados del marketplace.
type OrderRepository interface {
	Upsert(ctx context.Context, order *entity.Order) error
	GetByPostingNumber(ctx context.Context, postingNumber string) (*entity.Order, error)
	ListByPeriod(ctx context.Context, period Period) ([]*entity.Order, error)
	ListByPostingNumbers(ctx context.Context, postingNumbers []string) ([]*entity.Order, error)
	SetPurchasePrice(ctx context.Context, postingNumber string, price decimal.Decimal) error
}
