package repository

import (
	"context"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia para productos y sus variantes.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error

	CreateVariant(ctx context.Context, variant *entity.ProductVariant) error
	GetVariantByID(ctx context.Context, id string) (*entity.ProductVariant, error)
	ListVariantsByProduct(ctx context.Context, productID string) ([]*entity.ProductVariant, error)
}
