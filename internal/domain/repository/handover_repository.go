package repository

import (
	"context"

	"github.com/ozonpanel/backend/internal/domain/entity"
)

// HandoverRepository entregas de mensajero al depósito.
type HandoverRepository interface {
	Create(ctx context.Context, h *entity.CourierHandover) error
	GetByPostingNumber(ctx context.Context, postingNumber string) (*entity.CourierHandover, error)
	Update(ctx context.Context, h *entity.CourierHandover) error
	Delete(ctx context.Context, id string) error
	ListByStatus(ctx context.Context, status string) ([]*entity.CourierHandover, error)
}
