package repository

import (
	"context"

	"github.com/ozonpanel/backend/internal/domain/entity"
)

// ProfitRepository snapshots por pedido y agregados mensuales.
// Ambas escrituras son upsert: recalcular un período sobrescribe, nunca acumula.
type ProfitRepository interface {
	UpsertSnapshot(ctx context.Context, snap *entity.ProfitSnapshot) error
	GetSnapshot(ctx context.Context, postingNumber string) (*entity.ProfitSnapshot, error)
	UpsertMonthlyResult(ctx context.Context, result *entity.MonthlyProfitResult) error
	GetMonthlyResult(ctx context.Context, period Period, userID string) (*entity.MonthlyProfitResult, error)
}
