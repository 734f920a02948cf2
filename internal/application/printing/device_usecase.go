// Package printing implementa el pipeline de impresión remota: registro y
// liveness de dispositivos, y la cola de print jobs que los agentes drenan.
package printing

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/slipsync/slipsync-api/internal/application/dto"
	"github.com/slipsync/slipsync-api/internal/domain"
	"github.com/slipsync/slipsync-api/internal/domain/entity"
	"github.com/slipsync/slipsync-api/internal/domain/repository"
	"github.com/slipsync/slipsync-api/pkg/metrics"
)

// DeviceUseCase registro, autenticación y liveness de dispositivos.
type DeviceUseCase struct {
	deviceRepo   repository.PrintDeviceRepository
	onlineWindow time.Duration
}

// NewDeviceUseCase construye el caso de uso de dispositivos.
func NewDeviceUseCase(deviceRepo repository.PrintDeviceRepository, onlineWindow time.Duration) *DeviceUseCase {
	return &DeviceUseCase{deviceRepo: deviceRepo, onlineWindow: onlineWindow}
}

// Register empareja (o re-empareja) un dispositivo con el merchant. Es
// idempotente sobre DeviceIdentifier: un re-registro actualiza el nombre pero
// NUNCA rota el APISecret, así la credencial guardada del agente sigue válida.
func (uc *DeviceUseCase) Register(ctx context.Context, merchantID string, in dto.RegisterDeviceRequest) (*dto.RegisterDeviceResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	existing, err := uc.deviceRepo.GetByIdentifier(ctx, in.DeviceIdentifier)
	if err != nil {
		return nil, fmt.Errorf("buscando dispositivo: %w", err)
	}
	if existing != nil && existing.MerchantID != merchantID {
		// el identificador ya pertenece a otro merchant
		return nil, domain.ErrConflict
	}

	secret := uuid.NewString()
	now := time.Now()
	device := &entity.PrintDevice{
		ID:               uuid.NewString(),
		DeviceIdentifier: in.DeviceIdentifier,
		APISecret:        secret,
		MerchantID:       merchantID,
		Name:             in.Name,
		LastSeen:         now,
		CreatedAt:        now,
	}
	if existing != nil {
		device.ID = existing.ID
		device.APISecret = existing.APISecret
		device.CreatedAt = existing.CreatedAt
		if in.Name == "" {
			device.Name = existing.Name
		}
	}
	if err := uc.deviceRepo.Upsert(ctx, device); err != nil {
		return nil, fmt.Errorf("guardando dispositivo: %w", err)
	}
	metrics.DeviceRegistrations.Inc()

	return &dto.RegisterDeviceResponse{
		DeviceIdentifier: device.DeviceIdentifier,
		APISecret:        device.APISecret,
		Name:             device.Name,
	}, nil
}

// ResolveBySecret autentica una llamada de agente por su X-Device-Secret.
// El lookup va por índice y después se recompara en tiempo constante.
func (uc *DeviceUseCase) ResolveBySecret(ctx context.Context, apiSecret string) (*entity.PrintDevice, error) {
	if apiSecret == "" {
		return nil, domain.ErrUnauthorized
	}
	device, err := uc.deviceRepo.GetBySecret(ctx, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("resolviendo dispositivo: %w", err)
	}
	if device == nil || subtle.ConstantTimeCompare([]byte(device.APISecret), []byte(apiSecret)) != 1 {
		return nil, domain.ErrUnauthorized
	}
	return device, nil
}

// Heartbeat actualiza el latido del dispositivo. Un identificador que no está
// emparejado se rechaza: el latido nunca crea dispositivos implícitamente.
func (uc *DeviceUseCase) Heartbeat(ctx context.Context, deviceIdentifier string, now time.Time) (*dto.HeartbeatResponse, error) {
	device, err := uc.deviceRepo.UpdateLastSeen(ctx, deviceIdentifier, now)
	if err != nil {
		return nil, fmt.Errorf("actualizando latido: %w", err)
	}
	if device == nil {
		return nil, domain.ErrDeviceNotPaired
	}
	metrics.DeviceHeartbeats.Inc()
	return &dto.HeartbeatResponse{
		DeviceIdentifier: device.DeviceIdentifier,
		LastSeen:         device.LastSeen,
	}, nil
}

// ListDevices dispositivos del merchant con su estado de liveness calculado
// contra la ventana configurada.
func (uc *DeviceUseCase) ListDevices(ctx context.Context, merchantID string, now time.Time) ([]dto.DeviceResponse, error) {
	devices, err := uc.deviceRepo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("listando dispositivos: %w", err)
	}
	out := make([]dto.DeviceResponse, 0, len(devices))
	for _, d := range devices {
		out = append(out, dto.DeviceResponse{
			DeviceIdentifier: d.DeviceIdentifier,
			Name:             d.Name,
			Online:           now.Sub(d.LastSeen) <= uc.onlineWindow,
			LastSeen:         d.LastSeen,
		})
	}
	return out, nil
}
