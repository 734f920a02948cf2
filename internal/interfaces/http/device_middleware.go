package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/slipsync/slipsync-api/internal/application/dto"
	"github.com/slipsync/slipsync-api/internal/application/printing"
	"github.com/slipsync/slipsync-api/internal/domain/entity"
	"github.com/slipsync/slipsync-api/pkg/metrics"
)

// HeaderDeviceSecret credencial de los agentes de impresión.
const HeaderDeviceSecret = "X-Device-Secret"

const localDevice = "print_device"

// DeviceAuthMiddleware autentica al agente por su API secret y deja el
// dispositivo en c.Locals. El secreto solo autentica; el ruteo de jobs usa
// el device identifier estable del dispositivo.
func DeviceAuthMiddleware(deviceUC *printing.DeviceUseCase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := c.Get(HeaderDeviceSecret)
		if secret == "" {
			metrics.AuthRejections.WithLabelValues("device").Inc()
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_DEVICE_SECRET", Message: HeaderDeviceSecret + " requerido"})
		}
		device, err := deviceUC.ResolveBySecret(c.UserContext(), secret)
		if err != nil {
			metrics.AuthRejections.WithLabelValues("device").Inc()
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_DEVICE_SECRET", Message: "credencial de dispositivo inválida"})
		}
		c.Locals(localDevice, device)
		return c.Next()
	}
}

// GetDevice devuelve el dispositivo autenticado (después del middleware de dispositivo).
func GetDevice(c *fiber.Ctx) *entity.PrintDevice {
	v := c.Locals(localDevice)
	if v == nil {
		return nil
	}
	d, _ := v.(*entity.PrintDevice)
	return d
}
