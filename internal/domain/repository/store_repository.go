package repository

import (
	"context"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
)

// StoreRepository puerto de persistencia para tiendas.
type StoreRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	// ListByMerchant devuelve las tiendas del merchant ordenadas por creación ascendente.
	ListByMerchant(ctx context.Context, merchantID string) ([]*entity.Store, error)
	// FirstByMerchant devuelve la tienda más antigua del merchant, o nil si no hay.
	FirstByMerchant(ctx context.Context, merchantID string) (*entity.Store, error)
	Create(ctx context.Context, store *entity.Store) error
}
