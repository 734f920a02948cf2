package repository

import (
	"context"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
)

// InventoryRepository puerto de persistencia para existencias por tienda.
type InventoryRepository interface {
	GetByStoreAndVariant(ctx context.Context, storeID, variantID string) (*entity.Inventory, error)
	ListByStore(ctx context.Context, storeID string) ([]*entity.Inventory, error)
	// Upsert fija la cantidad absoluta del par (tienda, variante).
	Upsert(ctx context.Context, inv *entity.Inventory) error
	// Decrement descuenta qty de forma condicional: solo aplica si la fila
	// existe y quantity >= qty. Devuelve false cuando no hay stock suficiente.
	Decrement(ctx context.Context, storeID, variantID string, qty int) (bool, error)
}
