package repository

import (
	"context"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
)

// InvoiceRepository puerto de persistencia para facturas.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByOrder(ctx context.Context, orderID string) (*entity.Invoice, error)
}
