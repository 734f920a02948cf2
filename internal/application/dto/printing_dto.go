package dto

import (
	"encoding/json"
	"time"
)

// RegisterDeviceRequest body para POST /api/printing/devices/register.
type RegisterDeviceRequest struct {
	DeviceIdentifier string `json:"device_identifier" validate:"required,min=1,max=120"`
	Name             string `json:"name,omitempty" validate:"omitempty,max=120"`
}

// RegisterDeviceResponse credenciales de emparejamiento. APISecret solo se
// entrega aquí; las demás respuestas nunca lo incluyen.
type RegisterDeviceResponse struct {
	DeviceIdentifier string `json:"device_identifier"`
	APISecret        string `json:"api_secret"`
	Name             string `json:"name,omitempty"`
}

// DeviceResponse dispositivo en listados (sin secreto).
type DeviceResponse struct {
	DeviceIdentifier string    `json:"device_identifier"`
	Name             string    `json:"name,omitempty"`
	Online           bool      `json:"online"`
	LastSeen         time.Time `json:"last_seen"`
}

// HeartbeatResponse confirmación del latido.
type HeartbeatResponse struct {
	DeviceIdentifier string    `json:"device_identifier"`
	LastSeen         time.Time `json:"last_seen"`
}

// EnqueueJobRequest body para POST /api/printing/jobs.
type EnqueueJobRequest struct {
	DeviceIdentifier string          `json:"device_identifier" validate:"required"`
	JobType          string          `json:"job_type,omitempty" validate:"omitempty,oneof=receipt"`
	Payload          json.RawMessage `json:"payload" validate:"required"`
}

// ReprintReceiptRequest body para POST /api/print-jobs/:orderId. El payload
// no viaja en el request: el servidor lo reconstruye desde la orden.
type ReprintReceiptRequest struct {
	DeviceIdentifier string `json:"device_identifier" validate:"required"`
}

// JobResponse print job en respuestas.
type JobResponse struct {
	ID               string          `json:"id"`
	StoreID          string          `json:"store_id,omitempty"`
	DeviceIdentifier string          `json:"device_identifier"`
	JobType          string          `json:"job_type"`
	Payload          json.RawMessage `json:"payload,omitempty"`
	Status           string          `json:"status"`
	Attempts         int             `json:"attempts"`
	Error            string          `json:"error,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	ClaimedAt        *time.Time      `json:"claimed_at,omitempty"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
}

// ReportResultRequest body para POST /api/print-jobs/:jobId/response.
type ReportResultRequest struct {
	Status       string `json:"status" validate:"required,oneof=success failed"`
	ErrorMessage string `json:"error_message,omitempty" validate:"omitempty,max=500"`
}
