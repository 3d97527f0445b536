package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ozonpanel/backend/internal/domain/entity"
	"github.com/ozonpanel/backend/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
// Los ítems del pedido viajan como JSONB: no se consultan por separado.
type OrderRepo struct {
	pool *pgxpool.Pool
}

// NewOrderRepository construye el adaptador de persistencia para pedidos.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

const orderColumns = `
	posting_number, status, order_date, delivery_date, customer_name, items,
	settlement_amount, purchase_price, is_cancelled, is_returned, created_at, updated_at`

// Upsert inserta o actualiza el pedido por posting_number. El precio de compra
// solo se escribe por SetPurchasePrice: el sync nunca lo pisa.
func (r *OrderRepo) Upsert(ctx context.Context, o *entity.Order) error {
	const q = `
		INSERT INTO orders (posting_number, status, order_date, delivery_date, customer_name, items,
		                    settlement_amount, purchase_price, is_cancelled, is_returned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (posting_number) DO UPDATE SET
			status            = EXCLUDED.status,
			order_date        = EXCLUDED.order_date,
			delivery_date     = EXCLUDED.delivery_date,
			customer_name     = EXCLUDED.customer_name,
			items             = EXCLUDED.items,
			settlement_amount = EXCLUDED.settlement_amount,
			is_cancelled      = EXCLUDED.is_cancelled,
			is_returned       = EXCLUDED.is_returned,
			updated_at        = EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, q,
		o.PostingNumber, o.Status, o.OrderDate, o.DeliveryDate, o.CustomerName, o.Items,
		o.SettlementAmount, o.PurchasePrice, o.IsCancelled, o.IsReturned, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}
	return nil
}

// GetByPostingNumber obtiene un pedido. Devuelve (nil, nil) si no existe.
func (r *OrderRepo) GetByPostingNumber(ctx context.Context, postingNumber string) (*entity.Order, error) {
	q := `SELECT` + orderColumns + ` FROM orders WHERE posting_number = $1`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, postingNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// ListByPeriod lista los pedidos del mes calendario, más antiguos primero.
func (r *OrderRepo) ListByPeriod(ctx context.Context, period repository.Period) ([]*entity.Order, error) {
	q := `SELECT` + orderColumns + `
		FROM orders
		WHERE order_date >= $1 AND order_date <= $2
		ORDER BY order_date ASC, posting_number ASC`
	rows, err := r.pool.Query(ctx, q, period.Start(), period.End())
	if err != nil {
		return nil, fmt.Errorf("list orders by period: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListByPostingNumbers lista los pedidos indicados, en orden de fecha.
func (r *OrderRepo) ListByPostingNumbers(ctx context.Context, postingNumbers []string) ([]*entity.Order, error) {
	if len(postingNumbers) == 0 {
		return nil, nil
	}
	q := `SELECT` + orderColumns + `
		FROM orders
		WHERE posting_number = ANY($1)
		ORDER BY order_date ASC, posting_number ASC`
	rows, err := r.pool.Query(ctx, q, postingNumbers)
	if err != nil {
		return nil, fmt.Errorf("list orders by posting numbers: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

// SetPurchasePrice registra el precio de compra local del pedido.
func (r *OrderRepo) SetPurchasePrice(ctx context.Context, postingNumber string, price decimal.Decimal) error {
	const q = `UPDATE orders SET purchase_price = $2, updated_at = now() WHERE posting_number = $1`
	tag, err := r.pool.Exec(ctx, q, postingNumber, price)
	if err != nil {
		return fmt.Errorf("set purchase price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set purchase price: pedido %s no existe", postingNumber)
	}
	return nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.PostingNumber, &o.Status, &o.OrderDate, &o.DeliveryDate, &o.CustomerName, &o.Items,
		&o.SettlementAmount, &o.PurchasePrice, &o.IsCancelled, &o.IsReturned, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]*entity.Order, error) {
	var orders []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
