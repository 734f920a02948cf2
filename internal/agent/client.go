package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/slipsync/slipsync-api/internal/application/dto"
)

// Client cliente HTTP mínimo contra la API del backend. El emparejamiento
// usa un token de sesión de usuario; el resto de llamadas van con el secreto
// del dispositivo.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient construye el cliente.
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: 15 * time.Second}}
}

// Pair registra el dispositivo usando el token de sesión del operador y
// devuelve las credenciales. El backend conserva el secreto en re-registros,
// así que volver a emparejar el mismo identificador es seguro.
func (c *Client) Pair(ctx context.Context, sessionToken, deviceIdentifier, name string) (*dto.RegisterDeviceResponse, error) {
	body, err := json.Marshal(dto.RegisterDeviceRequest{DeviceIdentifier: deviceIdentifier, Name: name})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/printing/devices/register", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sessionToken)

	var out dto.RegisterDeviceResponse
	if err := c.do(req, http.StatusCreated, &out); err != nil {
		return nil, fmt.Errorf("emparejar dispositivo: %w", err)
	}
	return &out, nil
}

// Heartbeat reporta liveness.
func (c *Client) Heartbeat(ctx context.Context, apiSecret string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/print-devices/heartbeat", nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Device-Secret", apiSecret)
	return c.do(req, http.StatusOK, nil)
}

// ClaimPending reclama los jobs pendientes del dispositivo.
func (c *Client) ClaimPending(ctx context.Context, apiSecret string) ([]dto.JobResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/print-jobs/pending", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Device-Secret", apiSecret)

	var jobs []dto.JobResponse
	if err := c.do(req, http.StatusOK, &jobs); err != nil {
		return nil, fmt.Errorf("reclamar jobs: %w", err)
	}
	return jobs, nil
}

// ReportResult reporta el resultado de impresión de un job.
func (c *Client) ReportResult(ctx context.Context, apiSecret, jobID, status, errorMessage string) error {
	body, err := json.Marshal(dto.ReportResultRequest{Status: status, ErrorMessage: errorMessage})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/print-jobs/"+jobID+"/response", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-Secret", apiSecret)
	if err := c.do(req, http.StatusOK, nil); err != nil {
		return fmt.Errorf("reportar job %s: %w", jobID, err)
	}
	return nil
}

func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
