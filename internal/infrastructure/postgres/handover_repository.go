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

var _ repository.HandoverRepository = (*HandoverRepo)(nil)

// HandoverRepo implementación del puerto HandoverRepository sobre PostgreSQL.
type HandoverRepo struct {
	pool *pgxpool.Pool
}

// NewHandoverRepository construye el adaptador de entregas de mensajero.
func NewHandoverRepository(pool *pgxpool.Pool) *HandoverRepo {
	return &HandoverRepo{pool: pool}
}

// Create persiste un escaneo nuevo.
func (r *HandoverRepo) Create(ctx context.Context, h *entity.CourierHandover) error {
	const q = `
		INSERT INTO courier_handovers
			(id, posting_number, courier_id, status, scanned_at, confirmed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, q,
		h.ID, h.PostingNumber, h.CourierID, h.Status, h.ScannedAt, h.ConfirmedAt, h.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert handover: %w", err)
	}
	return nil
}

// GetByPostingNumber obtiene la entrega. (nil, nil) si no existe.
func (r *HandoverRepo) GetByPostingNumber(ctx context.Context, postingNumber string) (*entity.CourierHandover, error) {
	const q = `
		SELECT id, posting_number, courier_id, status, scanned_at, confirmed_at, created_at
		FROM courier_handovers WHERE posting_number = $1`
	var h entity.CourierHandover
	err := r.pool.QueryRow(ctx, q, postingNumber).Scan(
		&h.ID, &h.PostingNumber, &h.CourierID, &h.Status, &h.ScannedAt, &h.ConfirmedAt, &h.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get handover: %w", err)
	}
	return &h, nil
}

// Update reescribe estado y confirmación.
func (r *HandoverRepo) Update(ctx context.Context, h *entity.CourierHandover) error {
	const q = `UPDATE courier_handovers SET status = $2, confirmed_at = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, h.ID, h.Status, h.ConfirmedAt)
	if err != nil {
		return fmt.Errorf("update handover: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la entrega por ID.
func (r *HandoverRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courier_handovers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete handover: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByStatus lista las entregas en un estado, por orden de escaneo.
func (r *HandoverRepo) ListByStatus(ctx context.Context, status string) ([]*entity.CourierHandover, error) {
	const q = `
		SELECT id, posting_number, courier_id, status, scanned_at, confirmed_at, created_at
		FROM courier_handovers WHERE status = $1
		ORDER BY scanned_at ASC`
	rows, err := r.pool.Query(ctx, q, status)
	if err != nil {
		return nil, fmt.Errorf("list handovers: %w", err)
	}
	defer rows.Close()

	var list []*entity.CourierHandover
	for rows.Next() {
		var h entity.CourierHandover
		if err := rows.Scan(&h.ID, &h.PostingNumber, &h.CourierID, &h.Status, &h.ScannedAt, &h.ConfirmedAt, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan handover: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
