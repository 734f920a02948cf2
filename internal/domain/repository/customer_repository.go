package repository

import (
	"context"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
)

// CustomerRepository puerto de persistencia para clientes.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
}
