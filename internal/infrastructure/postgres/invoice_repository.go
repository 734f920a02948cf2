package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/slipsync/slipsync-api/internal/domain"
	"github.com/slipsync/slipsync-api/internal/domain/entity"
	"github.com/slipsync/slipsync-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación del puerto InvoiceRepository sobre PostgreSQL.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste una nueva factura (única por orden).
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, order_id, merchant_id, store_id, invoice_number, total, currency, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.OrderID, invoice.MerchantID, invoice.StoreID,
		invoice.InvoiceNumber, invoice.Total, invoice.Currency, invoice.IssuedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByOrder obtiene la factura de una orden.
func (r *InvoiceRepo) GetByOrder(ctx context.Context, orderID string) (*entity.Invoice, error) {
	query := `
		SELECT id, order_id, merchant_id, store_id, invoice_number, total, currency, issued_at
		FROM invoices WHERE order_id = $1`
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, query, orderID).Scan(
		&inv.ID, &inv.OrderID, &inv.MerchantID, &inv.StoreID,
		&inv.InvoiceNumber, &inv.Total, &inv.Currency, &inv.IssuedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}
