package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
	"github.com/slipsync/slipsync-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación del puerto InventoryRepository sobre PostgreSQL.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, store_id, variant_id, quantity, reserved, reorder_point, updated_at`

// GetByStoreAndVariant obtiene la existencia del par (tienda, variante).
func (r *InventoryRepo) GetByStoreAndVariant(ctx context.Context, storeID, variantID string) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := r.q.QueryRow(ctx,
		`SELECT `+inventoryColumns+` FROM inventory WHERE store_id = $1 AND variant_id = $2`,
		storeID, variantID).
		Scan(&inv.ID, &inv.StoreID, &inv.VariantID, &inv.Quantity, &inv.Reserved, &inv.ReorderPoint, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return &inv, nil
}

// ListByStore lista las existencias de la tienda.
func (r *InventoryRepo) ListByStore(ctx context.Context, storeID string) ([]*entity.Inventory, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+inventoryColumns+` FROM inventory WHERE store_id = $1 ORDER BY variant_id ASC`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inventory
	for rows.Next() {
		var inv entity.Inventory
		if err := rows.Scan(&inv.ID, &inv.StoreID, &inv.VariantID, &inv.Quantity, &inv.Reserved, &inv.ReorderPoint, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// Upsert fija la cantidad absoluta del par (tienda, variante).
func (r *InventoryRepo) Upsert(ctx context.Context, inv *entity.Inventory) error {
	query := `
		INSERT INTO inventory (id, store_id, variant_id, quantity, reserved, reorder_point, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (store_id, variant_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, reorder_point = EXCLUDED.reorder_point, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.StoreID, inv.VariantID, inv.Quantity, inv.Reserved, inv.ReorderPoint, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert inventory: %w", err)
	}
	return nil
}

// Decrement descuenta qty de forma condicional en un solo UPDATE: aplica
// únicamente si quantity >= qty, así el stock nunca baja de cero aun con
// ventas concurrentes.
func (r *InventoryRepo) Decrement(ctx context.Context, storeID, variantID string, qty int) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE inventory
		SET quantity = quantity - $3, updated_at = now()
		WHERE store_id = $1 AND variant_id = $2 AND quantity >= $3`,
		storeID, variantID, qty)
	if err != nil {
		return false, fmt.Errorf("decrement inventory: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
