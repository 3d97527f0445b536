package repository

import (
	"context"

	"github.com/ozonpanel/backend/internal/domain/entity"
)

// UserRepository usuarios del panel y de la app móvil.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
