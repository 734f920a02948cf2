package repository

import (
	"context"
	"time"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
)

// PrintDeviceRepository puerto de persistencia para dispositivos de impresión.
type PrintDeviceRepository interface {
	GetByIdentifier(ctx context.Context, deviceIdentifier string) (*entity.PrintDevice, error)
	// GetBySecret resuelve el dispositivo por su credencial (lookup indexado).
	GetBySecret(ctx context.Context, apiSecret string) (*entity.PrintDevice, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]*entity.PrintDevice, error)
	// Upsert inserta o actualiza por device_identifier. Nunca pisa un
	// api_secret existente: la credencial sobrevive a los re-registros.
	Upsert(ctx context.Context, device *entity.PrintDevice) error
	// UpdateLastSeen actualiza el latido; (nil, nil) si el identificador no existe.
	UpdateLastSeen(ctx context.Context, deviceIdentifier string, at time.Time) (*entity.PrintDevice, error)
}
