package repository

import (
	"context"
	"time"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
)

// PrintJobRepository puerto de persistencia para trabajos de impresión.
type PrintJobRepository interface {
	Create(ctx context.Context, job *entity.PrintJob) error
	GetByID(ctx context.Context, id string) (*entity.PrintJob, error)
	ListByStore(ctx context.Context, storeID string, limit int) ([]*entity.PrintJob, error)
	// ClaimPending reclama atómicamente los trabajos del dispositivo: los que
	// están en queued, más los processing cuyo claimed_at es anterior a
	// reclaimBefore (huérfanos de un agente caído). Los seleccionados pasan a
	// processing con attempts+1 y claimed_at=now. Dos agentes concurrentes
	// nunca reciben el mismo trabajo (FOR UPDATE SKIP LOCKED).
	ClaimPending(ctx context.Context, deviceIdentifier string, reclaimBefore, now time.Time) ([]*entity.PrintJob, error)
	// FinishJob marca el resultado solo si el trabajo pertenece al dispositivo
	// y sigue en un estado no terminal. Devuelve (nil, nil) si la condición no
	// se cumple; el caso de uso distingue después entre no-existe y terminal.
	FinishJob(ctx context.Context, jobID, deviceIdentifier, status, errorMessage string, completedAt *time.Time) (*entity.PrintJob, error)
}
