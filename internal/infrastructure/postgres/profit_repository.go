package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ozonpanel/backend/internal/domain/entity"
	"github.com/ozonpanel/backend/internal/domain/repository"
)

var _ repository.ProfitRepository = (*ProfitRepo)(nil)

// ProfitRepo implementación del puerto ProfitRepository sobre PostgreSQL.
type ProfitRepo struct {
	pool *pgxpool.Pool
}

// NewProfitRepository construye el adaptador de persistencia de kar.
func NewProfitRepository(pool *pgxpool.Pool) *ProfitRepo {
	return &ProfitRepo{pool: pool}
}

// UpsertSnapshot reemplaza el snapshot del pedido. El recálculo sobrescribe.
func (r *ProfitRepo) UpsertSnapshot(ctx context.Context, s *entity.ProfitSnapshot) error {
	const q = `
		INSERT INTO profit_snapshots
			(posting_number, net_profit_usd, net_profit_try, payment_usd,
			 exchange_rate, rate_date, is_loss, calculated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (posting_number) DO UPDATE SET
			net_profit_usd = EXCLUDED.net_profit_usd,
			net_profit_try = EXCLUDED.net_profit_try,
			payment_usd    = EXCLUDED.payment_usd,
			exchange_rate  = EXCLUDED.exchange_rate,
			rate_date      = EXCLUDED.rate_date,
			is_loss        = EXCLUDED.is_loss,
			calculated_at  = EXCLUDED.calculated_at`
	_, err := r.pool.Exec(ctx, q,
		s.PostingNumber, s.NetProfitUSD, s.NetProfitTRY, s.PaymentUSD,
		s.ExchangeRate, s.RateDate, s.IsLoss, s.CalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profit snapshot: %w", err)
	}
	return nil
}

// GetSnapshot obtiene el snapshot del pedido. (nil, nil) si no existe.
func (r *ProfitRepo) GetSnapshot(ctx context.Context, postingNumber string) (*entity.ProfitSnapshot, error) {
	const q = `
		SELECT posting_number, net_profit_usd, net_profit_try, payment_usd,
		       exchange_rate, rate_date, is_loss, calculated_at
		FROM profit_snapshots WHERE posting_number = $1`
	var s entity.ProfitSnapshot
	err := r.pool.QueryRow(ctx, q, postingNumber).Scan(
		&s.PostingNumber, &s.NetProfitUSD, &s.NetProfitTRY, &s.PaymentUSD,
		&s.ExchangeRate, &s.RateDate, &s.IsLoss, &s.CalculatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profit snapshot: %w", err)
	}
	return &s, nil
}

// UpsertMonthlyResult reemplaza el agregado mensual. Clave (year, month, user_id).
func (r *ProfitRepo) UpsertMonthlyResult(ctx context.Context, m *entity.MonthlyProfitResult) error {
	const q = `
		INSERT INTO monthly_profit_results
			(id, year, month, user_id, processed, skipped_no_purchase, skipped_return,
			 cancelled, total_profit_try, total_profit_usd, cancelled_loss_try,
			 cancelled_loss_usd, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (year, month, user_id) DO UPDATE SET
			processed           = EXCLUDED.processed,
			skipped_no_purchase = EXCLUDED.skipped_no_purchase,
			skipped_return      = EXCLUDED.skipped_return,
			cancelled           = EXCLUDED.cancelled,
			total_profit_try    = EXCLUDED.total_profit_try,
			total_profit_usd    = EXCLUDED.total_profit_usd,
			cancelled_loss_try  = EXCLUDED.cancelled_loss_try,
			cancelled_loss_usd  = EXCLUDED.cancelled_loss_usd,
			updated_at          = EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, q,
		m.ID, m.Year, m.Month, m.UserID, m.Processed, m.SkippedNoPurchase, m.SkippedReturn,
		m.Cancelled, m.TotalProfitTRY, m.TotalProfitUSD, m.CancelledLossTRY,
		m.CancelledLossUSD, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert monthly profit: %w", err)
	}
	return nil
}

// GetMonthlyResult obtiene el agregado del período. (nil, nil) si no existe.
func (r *ProfitRepo) GetMonthlyResult(ctx context.Context, period repository.Period, userID string) (*entity.MonthlyProfitResult, error) {
	const q = `
		SELECT id, year, month, user_id, processed, skipped_no_purchase, skipped_return,
		       cancelled, total_profit_try, total_profit_usd, cancelled_loss_try,
		       cancelled_loss_usd, created_at, updated_at
		FROM monthly_profit_results
		WHERE year = $1 AND month = $2 AND user_id = $3`
	var m entity.MonthlyProfitResult
	err := r.pool.QueryRow(ctx, q, period.Year, period.Month, userID).Scan(
		&m.ID, &m.Year, &m.Month, &m.UserID, &m.Processed, &m.SkippedNoPurchase, &m.SkippedReturn,
		&m.Cancelled, &m.TotalProfitTRY, &m.TotalProfitUSD, &m.CancelledLossTRY,
		&m.CancelledLossUSD, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get monthly profit: %w", err)
	}
	return &m, nil
}
