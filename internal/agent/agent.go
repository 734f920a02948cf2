package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/slipsync/slipsync-api/internal/application/dto"
	"github.com/slipsync/slipsync-api/internal/application/printing"
	"github.com/slipsync/slipsync-api/internal/domain/entity"
)

// Intervalos del loop. El poll es corto porque el recibo se imprime con el
// cliente esperando en caja; el heartbeat solo alimenta el estado online.
const (
	pollInterval      = 5 * time.Second
	heartbeatInterval = 30 * time.Second
)

// Renderer convierte el payload de un job en bytes imprimibles (PDF).
type Renderer interface {
	Render(p *printing.ReceiptPayload) ([]byte, error)
}

// Agent drena la cola de print jobs del dispositivo emparejado.
type Agent struct {
	cfg      Config
	client   *Client
	renderer Renderer
	log      zerolog.Logger
}

// New construye el agente. La config debe venir ya emparejada.
func New(cfg Config, client *Client, renderer Renderer, log zerolog.Logger) *Agent {
	return &Agent{cfg: cfg, client: client, renderer: renderer, log: log}
}

// Run alterna heartbeats y sondeos hasta que el contexto se cancele. Los
// errores de un ciclo se registran y se descartan: el backend re-entrega los
// jobs huérfanos tras el claim timeout, así que perder un ciclo no pierde
// trabajo.
func (a *Agent) Run(ctx context.Context) error {
	a.log.Info().
		Str("device", a.cfg.DeviceIdentifier).
		Str("server", a.cfg.ServerURL).
		Msg("agente iniciado")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()
	poll := time.NewTicker(pollInterval)
	defer poll.Stop()

	// Primer latido inmediato para marcar el dispositivo online.
	if err := a.client.Heartbeat(ctx, a.cfg.APISecret); err != nil {
		a.log.Warn().Err(err).Msg("heartbeat inicial falló")
	}

	for {
		select {
		case <-ctx.Done():
			a.log.Info().Msg("agente detenido")
			return ctx.Err()
		case <-heartbeat.C:
			if err := a.client.Heartbeat(ctx, a.cfg.APISecret); err != nil {
				a.log.Warn().Err(err).Msg("heartbeat falló")
			}
		case <-poll.C:
			if err := a.PollOnce(ctx); err != nil {
				a.log.Warn().Err(err).Msg("ciclo de impresión falló")
			}
		}
	}
}

// PollOnce reclama los jobs pendientes y los procesa uno a uno. El resultado
// de cada job se reporta individualmente: un fallo de impresión no frena a
// los demás.
func (a *Agent) PollOnce(ctx context.Context) error {
	jobs, err := a.client.ClaimPending(ctx, a.cfg.APISecret)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		status, printErr := entity.PrintJobSuccess, ""
		if err := a.printJob(job); err != nil {
			status, printErr = entity.PrintJobFailed, err.Error()
			a.log.Error().Err(err).Str("job", job.ID).Msg("impresión fallida")
		} else {
			a.log.Info().Str("job", job.ID).Msg("job impreso")
		}
		if err := a.client.ReportResult(ctx, a.cfg.APISecret, job.ID, status, printErr); err != nil {
			a.log.Warn().Err(err).Str("job", job.ID).Msg("no se pudo reportar el resultado")
		}
	}
	return nil
}

// printJob renderiza el recibo y lo deja en el spool local. La integración
// con la impresora física queda fuera: el spool es el contrato.
func (a *Agent) printJob(job dto.JobResponse) error {
	var payload printing.ReceiptPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("payload ilegible: %w", err)
	}
	pdf, err := a.renderer.Render(&payload)
	if err != nil {
		return fmt.Errorf("render del recibo: %w", err)
	}
	if err := os.MkdirAll(a.cfg.SpoolDir, 0o755); err != nil {
		return fmt.Errorf("crear spool: %w", err)
	}
	path := filepath.Join(a.cfg.SpoolDir, job.ID+".pdf")
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("escribir recibo: %w", err)
	}
	return nil
}
