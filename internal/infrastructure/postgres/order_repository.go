package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
	"github.com/slipsync/slipsync-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, merchant_id, store_id, COALESCE(customer_id::text, ''), order_number, status,
	subtotal, discounts_total, taxes_total, total_amount, currency, placed_at, fulfilled_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.MerchantID, &o.StoreID, &o.CustomerID, &o.OrderNumber, &o.Status,
		&o.Subtotal, &o.DiscountsTotal, &o.TaxesTotal, &o.TotalAmount, &o.Currency, &o.PlacedAt, &o.FulfilledAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste una nueva orden.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (id, merchant_id, store_id, customer_id, order_number, status,
			subtotal, discounts_total, taxes_total, total_amount, currency, placed_at, fulfilled_at)
		VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.MerchantID, order.StoreID, order.CustomerID, order.OrderNumber, order.Status,
		order.Subtotal, order.DiscountsTotal, order.TaxesTotal, order.TotalAmount,
		order.Currency, order.PlacedAt, order.FulfilledAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	order, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// ListByStore órdenes recientes de una tienda.
func (r *OrderRepo) ListByStore(ctx context.Context, storeID string, limit int) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE store_id = $1 ORDER BY placed_at DESC LIMIT $2`,
		storeID, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// NextOrderNumber devuelve el consecutivo del merchant. El upsert sobre
// order_counters serializa los incrementos concurrentes del mismo merchant.
func (r *OrderRepo) NextOrderNumber(ctx context.Context, merchantID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO order_counters (merchant_id, value)
		VALUES ($1, 1)
		ON CONFLICT (merchant_id)
		DO UPDATE SET value = order_counters.value + 1
		RETURNING value`, merchantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next order number: %w", err)
	}
	return n, nil
}

// CreateItem persiste una línea de la orden.
func (r *OrderRepo) CreateItem(ctx context.Context, item *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, variant_id, quantity, unit_price, discounts_total, taxes_total, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.OrderID, item.VariantID, item.Quantity,
		item.UnitPrice, item.DiscountsTotal, item.TaxesTotal, item.TotalPrice,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// ListItemsByOrder lista las líneas de una orden.
func (r *OrderRepo) ListItemsByOrder(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, variant_id, quantity, unit_price, discounts_total, taxes_total, total_price
		FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.VariantID, &it.Quantity,
			&it.UnitPrice, &it.DiscountsTotal, &it.TaxesTotal, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
