package repository

import (
	"context"

	"github.com/ozonpanel/backend/internal/domain/entity"
)

// CancellationRepository seguimiento de cancelaciones.
type CancellationRepository interface {
	Create(ctx context.Context, rec *entity.CancellationRecord) error
	GetByPostingNumber(ctx context.Context, postingNumber string) (*entity.CancellationRecord, error)
	Update(ctx context.Context, rec *entity.CancellationRecord) error
	ListByStatus(ctx context.Context, status string) ([]*entity.CancellationRecord, error)
}
