package printing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/slipsync/slipsync-api/internal/application/dto"
	"github.com/slipsync/slipsync-api/internal/domain"
	"github.com/slipsync/slipsync-api/internal/domain/entity"
	"github.com/slipsync/slipsync-api/internal/domain/repository"
	"github.com/slipsync/slipsync-api/pkg/metrics"
)

// JobUseCase cola de print jobs: encolar, reclamar y reportar resultado.
type JobUseCase struct {
	jobRepo      repository.PrintJobRepository
	deviceRepo   repository.PrintDeviceRepository
	claimTimeout time.Duration
}

// NewJobUseCase construye el caso de uso de jobs.
func NewJobUseCase(jobRepo repository.PrintJobRepository, deviceRepo repository.PrintDeviceRepository, claimTimeout time.Duration) *JobUseCase {
	return &JobUseCase{jobRepo: jobRepo, deviceRepo: deviceRepo, claimTimeout: claimTimeout}
}

// Enqueue crea un job en queued para el dispositivo indicado. El dispositivo
// debe estar emparejado con el merchant del emisor; no hace falta que esté en
// línea, el job espera en la cola.
func (uc *JobUseCase) Enqueue(ctx context.Context, merchantID, storeID string, in dto.EnqueueJobRequest) (*dto.JobResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	device, err := uc.deviceRepo.GetByIdentifier(ctx, in.DeviceIdentifier)
	if err != nil {
		return nil, fmt.Errorf("buscando dispositivo destino: %w", err)
	}
	if device == nil || device.MerchantID != merchantID {
		return nil, domain.ErrDeviceNotPaired
	}

	jobType := in.JobType
	if jobType == "" {
		jobType = entity.PrintJobTypeReceipt
	}
	job := &entity.PrintJob{
		ID:               uuid.NewString(),
		MerchantID:       merchantID,
		StoreID:          storeID,
		DeviceIdentifier: device.DeviceIdentifier,
		JobType:          jobType,
		Payload:          in.Payload,
		Status:           entity.PrintJobQueued,
		CreatedAt:        time.Now(),
	}
	if err := uc.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("encolando job: %w", err)
	}
	metrics.JobsEnqueued.Inc()
	return toJobResponse(job), nil
}

// Claim entrega al agente los jobs pendientes de su dispositivo: los queued
// más los processing cuyo claim venció (agente anterior caído). La entrega es
// atómica; dos agentes con la misma credencial nunca reciben el mismo job.
func (uc *JobUseCase) Claim(ctx context.Context, device *entity.PrintDevice, now time.Time) ([]dto.JobResponse, error) {
	reclaimBefore := now.Add(-uc.claimTimeout)
	jobs, err := uc.jobRepo.ClaimPending(ctx, device.DeviceIdentifier, reclaimBefore, now)
	if err != nil {
		return nil, fmt.Errorf("reclamando jobs: %w", err)
	}
	out := make([]dto.JobResponse, 0, len(jobs))
	for _, j := range jobs {
		if j.Attempts > 1 {
			metrics.JobsReclaimed.Inc()
		}
		metrics.JobsClaimed.Inc()
		out = append(out, *toJobResponse(j))
	}
	return out, nil
}

// ReportResult registra el desenlace de un job. Solo el dispositivo dueño del
// job puede reportarlo y solo una vez: los estados terminales son finales.
// CompletedAt se fija únicamente en success.
func (uc *JobUseCase) ReportResult(ctx context.Context, device *entity.PrintDevice, jobID string, in dto.ReportResultRequest) (*dto.JobResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	var completedAt *time.Time
	if in.Status == entity.PrintJobSuccess {
		now := time.Now()
		completedAt = &now
	}
	updated, err := uc.jobRepo.FinishJob(ctx, jobID, device.DeviceIdentifier, in.Status, in.ErrorMessage, completedAt)
	if err != nil {
		return nil, fmt.Errorf("reportando resultado: %w", err)
	}
	if updated == nil {
		return nil, uc.diagnoseReportFailure(ctx, jobID, device.DeviceIdentifier)
	}
	metrics.JobsReported.WithLabelValues(in.Status).Inc()
	return toJobResponse(updated), nil
}

// diagnoseReportFailure distingue por qué el update condicional no aplicó.
func (uc *JobUseCase) diagnoseReportFailure(ctx context.Context, jobID, deviceIdentifier string) error {
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("consultando job: %w", err)
	}
	switch {
	case job == nil:
		return domain.ErrNotFound
	case job.DeviceIdentifier != deviceIdentifier:
		// otro dispositivo intenta cerrar un job ajeno
		return domain.ErrForbidden
	case job.Terminal():
		return domain.ErrJobTerminal
	default:
		return domain.ErrConflict
	}
}

// ListByStore jobs recientes de una tienda, para la vista de estado del POS.
func (uc *JobUseCase) ListByStore(ctx context.Context, storeID string, limit int) ([]dto.JobResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	jobs, err := uc.jobRepo.ListByStore(ctx, storeID, limit)
	if err != nil {
		return nil, fmt.Errorf("listando jobs: %w", err)
	}
	out := make([]dto.JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, *toJobResponse(j))
	}
	return out, nil
}

func toJobResponse(j *entity.PrintJob) *dto.JobResponse {
	return &dto.JobResponse{
		ID:               j.ID,
		StoreID:          j.StoreID,
		DeviceIdentifier: j.DeviceIdentifier,
		JobType:          j.JobType,
		Payload:          j.Payload,
		Status:           j.Status,
		Attempts:         j.Attempts,
		Error:            j.Error,
		CreatedAt:        j.CreatedAt,
		ClaimedAt:        j.ClaimedAt,
		CompletedAt:      j.CompletedAt,
	}
}
