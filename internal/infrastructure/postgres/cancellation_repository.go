package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ozonpanel/backend/internal/domain"
	"github.com/ozonpanel/backend/internal/domain/entity"
	"github.com/ozonpanel/backend/internal/domain/repository"
)

var _ repository.CancellationRepository = (*CancellationRepo)(nil)

// CancellationRepo implementación del puerto CancellationRepository sobre PostgreSQL.
type CancellationRepo struct {
	pool *pgxpool.Pool
}

// NewCancellationRepository construye el adaptador de seguimiento de cancelaciones.
func NewCancellationRepository(pool *pgxpool.Pool) *CancellationRepo {
	return &CancellationRepo{pool: pool}
}

const cancellationColumns = `
	id, posting_number, seller_id, product_name, sku, quantity, cancel_date,
	cancel_reason, status, notified_at, confirmed_at, created_at, updated_at`

// Create persiste un seguimiento nuevo. Un posting_number repetido es
// ErrDuplicateInvoice a nivel de datos: el caso de uso lo evita antes.
func (r *CancellationRepo) Create(ctx context.Context, rec *entity.CancellationRecord) error {
	const q = `
		INSERT INTO cancellations
			(id, posting_number, seller_id, product_name, sku, quantity, cancel_date,
			 cancel_reason, status, notified_at, confirmed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.pool.Exec(ctx, q,
		rec.ID, rec.PostingNumber, rec.SellerID, rec.ProductName, rec.SKU, rec.Quantity,
		rec.CancelDate, rec.CancelReason, rec.Status, rec.NotifiedAt, rec.ConfirmedAt,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert cancellation: %w", err)
	}
	return nil
}

// GetByPostingNumber obtiene el seguimiento. (nil, nil) si no existe.
func (r *CancellationRepo) GetByPostingNumber(ctx context.Context, postingNumber string) (*entity.CancellationRecord, error) {
	q := `SELECT` + cancellationColumns + ` FROM cancellations WHERE posting_number = $1`
	rec, err := scanCancellation(r.pool.QueryRow(ctx, q, postingNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cancellation: %w", err)
	}
	return rec, nil
}

// Update reescribe el estado y las marcas de tiempo del seguimiento.
func (r *CancellationRepo) Update(ctx context.Context, rec *entity.CancellationRecord) error {
	const q = `
		UPDATE cancellations SET
			status = $2, notified_at = $3, confirmed_at = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, rec.ID, rec.Status, rec.NotifiedAt, rec.ConfirmedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update cancellation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByStatus lista seguimientos por estado ("" = todos), más nuevos primero.
func (r *CancellationRepo) ListByStatus(ctx context.Context, status string) ([]*entity.CancellationRecord, error) {
	q := `SELECT` + cancellationColumns + ` FROM cancellations`
	args := []any{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list cancellations: %w", err)
	}
	defer rows.Close()

	var recs []*entity.CancellationRecord
	for rows.Next() {
		rec, err := scanCancellation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cancellation: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func scanCancellation(row pgx.Row) (*entity.CancellationRecord, error) {
	var rec entity.CancellationRecord
	err := row.Scan(
		&rec.ID, &rec.PostingNumber, &rec.SellerID, &rec.ProductName, &rec.SKU, &rec.Quantity,
		&rec.CancelDate, &rec.CancelReason, &rec.Status, &rec.NotifiedAt, &rec.ConfirmedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
