package repository

import (
	"context"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
)

// CategoryRepository puerto de persistencia para categorías.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]*entity.Category, error)
}
