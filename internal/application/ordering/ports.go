package ordering

import (
	"context"

	"github.com/slipsync/slipsync-api/internal/domain/repository"
)

// OrderTxRunner ejecuta una función dentro de una transacción que incluye los
// repos de órdenes, facturas e inventario. El descuento de stock y la
// creación de la orden son atómicos: sin stock no hay orden.
type OrderTxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		invoiceRepo repository.InvoiceRepository,
		inventoryRepo repository.InventoryRepository,
	) error) error
}
