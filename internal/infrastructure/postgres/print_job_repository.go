package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
	"github.com/slipsync/slipsync-api/internal/domain/repository"
)

var _ repository.PrintJobRepository = (*PrintJobRepo)(nil)

// PrintJobRepo implementación del puerto PrintJobRepository sobre PostgreSQL.
type PrintJobRepo struct {
	q Querier
}

// NewPrintJobRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPrintJobRepository(q Querier) *PrintJobRepo {
	return &PrintJobRepo{q: q}
}

const jobColumns = `id, merchant_id, store_id, device_identifier, job_type, payload,
	status, attempts, COALESCE(error, ''), created_at, claimed_at, completed_at`

func scanJob(row pgx.Row) (*entity.PrintJob, error) {
	var j entity.PrintJob
	err := row.Scan(&j.ID, &j.MerchantID, &j.StoreID, &j.DeviceIdentifier, &j.JobType, &j.Payload,
		&j.Status, &j.Attempts, &j.Error, &j.CreatedAt, &j.ClaimedAt, &j.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// Create persiste un nuevo print job.
func (r *PrintJobRepo) Create(ctx context.Context, job *entity.PrintJob) error {
	query := `
		INSERT INTO print_jobs (id, merchant_id, store_id, device_identifier, job_type, payload, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		job.ID, job.MerchantID, job.StoreID, job.DeviceIdentifier,
		job.JobType, job.Payload, job.Status, job.Attempts, job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert print job: %w", err)
	}
	return nil
}

// GetByID obtiene un print job por ID.
func (r *PrintJobRepo) GetByID(ctx context.Context, id string) (*entity.PrintJob, error) {
	job, err := scanJob(r.q.QueryRow(ctx, `SELECT `+jobColumns+` FROM print_jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get print job: %w", err)
	}
	return job, nil
}

// ListByStore jobs recientes de una tienda.
func (r *PrintJobRepo) ListByStore(ctx context.Context, storeID string, limit int) ([]*entity.PrintJob, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+jobColumns+` FROM print_jobs WHERE store_id = $1 ORDER BY created_at DESC LIMIT $2`,
		storeID, limit)
	if err != nil {
		return nil, fmt.Errorf("list print jobs: %w", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

// ClaimPending entrega atómicamente los jobs pendientes del dispositivo.
// El CTE selecciona con FOR UPDATE SKIP LOCKED los queued y los processing
// vencidos, y el UPDATE los pasa a processing con attempts+1. Dos agentes
// concurrentes se reparten los jobs sin duplicar ninguno.
func (r *PrintJobRepo) ClaimPending(ctx context.Context, deviceIdentifier string, reclaimBefore, now time.Time) ([]*entity.PrintJob, error) {
	query := `
		WITH pending AS (
			SELECT id FROM print_jobs
			WHERE device_identifier = $1
			  AND (status = 'queued' OR (status = 'processing' AND claimed_at < $2))
			ORDER BY created_at ASC
			FOR UPDATE SKIP LOCKED
		)
		UPDATE print_jobs j
		SET status = 'processing', attempts = j.attempts + 1, claimed_at = $3
		FROM pending p
		WHERE j.id = p.id
		RETURNING ` + jobQualifiedColumns
	rows, err := r.q.Query(ctx, query, deviceIdentifier, reclaimBefore, now)
	if err != nil {
		return nil, fmt.Errorf("claim print jobs: %w", err)
	}
	defer rows.Close()
	jobs, err := collectJobs(rows)
	if err != nil {
		return nil, err
	}
	// el RETURNING del UPDATE no garantiza orden; re-ordenar por antigüedad
	sortJobsByCreatedAt(jobs)
	return jobs, nil
}

const jobQualifiedColumns = `j.id, j.merchant_id, j.store_id, j.device_identifier, j.job_type, j.payload,
	j.status, j.attempts, COALESCE(j.error, ''), j.created_at, j.claimed_at, j.completed_at`

// FinishJob marca el resultado solo si el job pertenece al dispositivo y no
// está en estado terminal. Devuelve (nil, nil) cuando la condición no aplica.
func (r *PrintJobRepo) FinishJob(ctx context.Context, jobID, deviceIdentifier, status, errorMessage string, completedAt *time.Time) (*entity.PrintJob, error) {
	query := `
		UPDATE print_jobs
		SET status = $3, error = NULLIF($4, ''), completed_at = $5
		WHERE id = $1 AND device_identifier = $2 AND status IN ('queued', 'processing')
		RETURNING ` + jobColumns
	job, err := scanJob(r.q.QueryRow(ctx, query, jobID, deviceIdentifier, status, errorMessage, completedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finish print job: %w", err)
	}
	return job, nil
}

func collectJobs(rows pgx.Rows) ([]*entity.PrintJob, error) {
	var list []*entity.PrintJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan print job: %w", err)
		}
		list = append(list, j)
	}
	return list, rows.Err()
}

func sortJobsByCreatedAt(jobs []*entity.PrintJob) {
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].CreatedAt.Before(jobs[k].CreatedAt) })
}
