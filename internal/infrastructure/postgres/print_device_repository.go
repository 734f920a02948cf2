package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
	"github.com/slipsync/slipsync-api/internal/domain/repository"
)

var _ repository.PrintDeviceRepository = (*PrintDeviceRepo)(nil)

// PrintDeviceRepo implementación del puerto PrintDeviceRepository sobre PostgreSQL.
type PrintDeviceRepo struct {
	q Querier
}

// NewPrintDeviceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPrintDeviceRepository(q Querier) *PrintDeviceRepo {
	return &PrintDeviceRepo{q: q}
}

const deviceColumns = `id, device_identifier, api_secret, merchant_id, COALESCE(name, ''), last_seen, created_at`

func scanDevice(row pgx.Row) (*entity.PrintDevice, error) {
	var d entity.PrintDevice
	err := row.Scan(&d.ID, &d.DeviceIdentifier, &d.APISecret, &d.MerchantID, &d.Name, &d.LastSeen, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByIdentifier obtiene un dispositivo por su identificador estable.
func (r *PrintDeviceRepo) GetByIdentifier(ctx context.Context, deviceIdentifier string) (*entity.PrintDevice, error) {
	device, err := scanDevice(r.q.QueryRow(ctx,
		`SELECT `+deviceColumns+` FROM print_devices WHERE device_identifier = $1`, deviceIdentifier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get device: %w", err)
	}
	return device, nil
}

// GetBySecret resuelve un dispositivo por su credencial (columna con índice único).
func (r *PrintDeviceRepo) GetBySecret(ctx context.Context, apiSecret string) (*entity.PrintDevice, error) {
	device, err := scanDevice(r.q.QueryRow(ctx,
		`SELECT `+deviceColumns+` FROM print_devices WHERE api_secret = $1`, apiSecret))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get device by secret: %w", err)
	}
	return device, nil
}

// ListByMerchant lista los dispositivos del merchant.
func (r *PrintDeviceRepo) ListByMerchant(ctx context.Context, merchantID string) ([]*entity.PrintDevice, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+deviceColumns+` FROM print_devices WHERE merchant_id = $1 ORDER BY created_at ASC`, merchantID)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()
	var list []*entity.PrintDevice
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Upsert inserta o actualiza por device_identifier. El api_secret solo se
// escribe en el INSERT: el conflicto nunca lo pisa.
func (r *PrintDeviceRepo) Upsert(ctx context.Context, device *entity.PrintDevice) error {
	query := `
		INSERT INTO print_devices (id, device_identifier, api_secret, merchant_id, name, last_seen, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (device_identifier)
		DO UPDATE SET name = EXCLUDED.name, last_seen = EXCLUDED.last_seen`
	_, err := r.q.Exec(ctx, query,
		device.ID, device.DeviceIdentifier, device.APISecret,
		device.MerchantID, device.Name, device.LastSeen, device.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert device: %w", err)
	}
	return nil
}

// UpdateLastSeen actualiza el latido y devuelve el dispositivo, o (nil, nil)
// si el identificador no está emparejado.
func (r *PrintDeviceRepo) UpdateLastSeen(ctx context.Context, deviceIdentifier string, at time.Time) (*entity.PrintDevice, error) {
	device, err := scanDevice(r.q.QueryRow(ctx, `
		UPDATE print_devices SET last_seen = $2
		WHERE device_identifier = $1
		RETURNING `+deviceColumns, deviceIdentifier, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update last_seen: %w", err)
	}
	return device, nil
}
