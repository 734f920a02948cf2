package repository

import (
	"context"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
)

// OrderRepository puerto de persistencia para órdenes de venta.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByStore(ctx context.Context, storeID string, limit int) ([]*entity.Order, error)
	// NextOrderNumber devuelve el consecutivo de orden del merchant.
	NextOrderNumber(ctx context.Context, merchantID string) (int64, error)

	CreateItem(ctx context.Context, item *entity.OrderItem) error
	ListItemsByOrder(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
}
