package repository

import (
	"context"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
)

// MerchantRepository puerto de persistencia para merchants.
// Los métodos que no encuentran filas devuelven (nil, nil), no error.
type MerchantRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Merchant, error)
	Create(ctx context.Context, merchant *entity.Merchant) error
}
