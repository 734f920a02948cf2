package printing

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipsync/slipsync-api/internal/application/dto"
	"github.com/slipsync/slipsync-api/internal/domain"
	"github.com/slipsync/slipsync-api/internal/domain/entity"
)

// ── fakes en memoria ──────────────────────────────────────────────────────────

type fakeDeviceRepo struct {
	mu      sync.Mutex
	devices map[string]*entity.PrintDevice // por DeviceIdentifier
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{devices: map[string]*entity.PrintDevice{}}
}

func (r *fakeDeviceRepo) GetByIdentifier(_ context.Context, id string) (*entity.PrintDevice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.devices[id], nil
}

func (r *fakeDeviceRepo) GetBySecret(_ context.Context, secret string) (*entity.PrintDevice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.devices {
		if d.APISecret == secret {
			return d, nil
		}
	}
	return nil, nil
}

func (r *fakeDeviceRepo) ListByMerchant(_ context.Context, merchantID string) ([]*entity.PrintDevice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.PrintDevice
	for _, d := range r.devices {
		if d.MerchantID == merchantID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDeviceRepo) Upsert(_ context.Context, device *entity.PrintDevice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[device.DeviceIdentifier] = device
	return nil
}

func (r *fakeDeviceRepo) UpdateLastSeen(_ context.Context, id string, at time.Time) (*entity.PrintDevice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.devices[id]
	if d == nil {
		return nil, nil
	}
	d.LastSeen = at
	return d, nil
}

// fakeJobRepo reproduce la semántica del claim atómico bajo un mutex.
type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*entity.PrintJob
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[string]*entity.PrintJob{}}
}

func (r *fakeJobRepo) Create(_ context.Context, job *entity.PrintJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id string) (*entity.PrintJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.jobs[id], nil
}

func (r *fakeJobRepo) ListByStore(_ context.Context, storeID string, limit int) ([]*entity.PrintJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.PrintJob
	for _, j := range r.jobs {
		if j.StoreID == storeID {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeJobRepo) ClaimPending(_ context.Context, deviceIdentifier string, reclaimBefore, now time.Time) ([]*entity.PrintJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.PrintJob
	for _, j := range r.jobs {
		if j.DeviceIdentifier != deviceIdentifier {
			continue
		}
		claimable := j.Status == entity.PrintJobQueued ||
			(j.Status == entity.PrintJobProcessing && j.ClaimedAt != nil && j.ClaimedAt.Before(reclaimBefore))
		if !claimable {
			continue
		}
		j.Status = entity.PrintJobProcessing
		j.Attempts++
		at := now
		j.ClaimedAt = &at
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.Before(out[k].CreatedAt) })
	return out, nil
}

func (r *fakeJobRepo) FinishJob(_ context.Context, jobID, deviceIdentifier, status, errorMessage string, completedAt *time.Time) (*entity.PrintJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j := r.jobs[jobID]
	if j == nil || j.DeviceIdentifier != deviceIdentifier || j.Terminal() {
		return nil, nil
	}
	j.Status = status
	j.Error = errorMessage
	j.CompletedAt = completedAt
	return j, nil
}

// ── fixtures ──────────────────────────────────────────────────────────────────

const (
	onlineWindow = 10 * time.Second
	claimTimeout = 180 * time.Second
)

func pairedDevice(devices *fakeDeviceRepo) *entity.PrintDevice {
	d := &entity.PrintDevice{
		ID:               "dev-1",
		DeviceIdentifier: "caja-principal",
		APISecret:        "secreto-1",
		MerchantID:       "m1",
		Name:             "Caja principal",
		LastSeen:         time.Now(),
		CreatedAt:        time.Now(),
	}
	devices.devices[d.DeviceIdentifier] = d
	return d
}

func payload() json.RawMessage {
	return json.RawMessage(`{"order_number":"0001","total":"12.50"}`)
}

// ── dispositivos ──────────────────────────────────────────────────────────────

func TestRegisterGeneraSecretoYEsIdempotente(t *testing.T) {
	devices := newFakeDeviceRepo()
	uc := NewDeviceUseCase(devices, onlineWindow)

	first, err := uc.Register(context.Background(), "m1", dto.RegisterDeviceRequest{
		DeviceIdentifier: "caja-principal",
		Name:             "Caja principal",
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.APISecret)

	// re-registro: mismo identificador, el secreto no rota
	second, err := uc.Register(context.Background(), "m1", dto.RegisterDeviceRequest{
		DeviceIdentifier: "caja-principal",
		Name:             "Caja renombrada",
	})
	require.NoError(t, err)
	assert.Equal(t, first.APISecret, second.APISecret)
	assert.Equal(t, "Caja renombrada", second.Name)
}

func TestRegisterIdentificadorDeOtroMerchantRechaza(t *testing.T) {
	devices := newFakeDeviceRepo()
	pairedDevice(devices) // pertenece a m1
	uc := NewDeviceUseCase(devices, onlineWindow)

	_, err := uc.Register(context.Background(), "m2", dto.RegisterDeviceRequest{DeviceIdentifier: "caja-principal"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestResolveBySecret(t *testing.T) {
	devices := newFakeDeviceRepo()
	d := pairedDevice(devices)
	uc := NewDeviceUseCase(devices, onlineWindow)

	got, err := uc.ResolveBySecret(context.Background(), d.APISecret)
	require.NoError(t, err)
	assert.Equal(t, d.DeviceIdentifier, got.DeviceIdentifier)

	_, err = uc.ResolveBySecret(context.Background(), "secreto-equivocado")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.ResolveBySecret(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestHeartbeatActualizaLastSeen(t *testing.T) {
	devices := newFakeDeviceRepo()
	d := pairedDevice(devices)
	uc := NewDeviceUseCase(devices, onlineWindow)

	at := time.Now().Add(time.Minute)
	resp, err := uc.Heartbeat(context.Background(), d.DeviceIdentifier, at)
	require.NoError(t, err)
	assert.Equal(t, at, resp.LastSeen)
}

func TestHeartbeatDispositivoNoEmparejadoRechaza(t *testing.T) {
	uc := NewDeviceUseCase(newFakeDeviceRepo(), onlineWindow)

	_, err := uc.Heartbeat(context.Background(), "fantasma", time.Now())
	assert.ErrorIs(t, err, domain.ErrDeviceNotPaired)
}

func TestListDevicesCalculaOnline(t *testing.T) {
	devices := newFakeDeviceRepo()
	now := time.Now()
	devices.devices["viva"] = &entity.PrintDevice{DeviceIdentifier: "viva", MerchantID: "m1", LastSeen: now.Add(-5 * time.Second)}
	devices.devices["muerta"] = &entity.PrintDevice{DeviceIdentifier: "muerta", MerchantID: "m1", LastSeen: now.Add(-time.Minute)}
	uc := NewDeviceUseCase(devices, onlineWindow)

	list, err := uc.ListDevices(context.Background(), "m1", now)
	require.NoError(t, err)
	require.Len(t, list, 2)
	byID := map[string]bool{}
	for _, d := range list {
		byID[d.DeviceIdentifier] = d.Online
	}
	assert.True(t, byID["viva"])
	assert.False(t, byID["muerta"])
}

// ── cola de jobs ──────────────────────────────────────────────────────────────

func TestEnqueueCreaJobEnQueued(t *testing.T) {
	devices := newFakeDeviceRepo()
	pairedDevice(devices)
	jobs := newFakeJobRepo()
	uc := NewJobUseCase(jobs, devices, claimTimeout)

	resp, err := uc.Enqueue(context.Background(), "m1", "s1", dto.EnqueueJobRequest{
		DeviceIdentifier: "caja-principal",
		Payload:          payload(),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PrintJobQueued, resp.Status)
	assert.Equal(t, entity.PrintJobTypeReceipt, resp.JobType) // default
	assert.Equal(t, 0, resp.Attempts)
	assert.Nil(t, resp.CompletedAt)
}

func TestEnqueueDispositivoNoEmparejadoRechaza(t *testing.T) {
	uc := NewJobUseCase(newFakeJobRepo(), newFakeDeviceRepo(), claimTimeout)

	_, err := uc.Enqueue(context.Background(), "m1", "s1", dto.EnqueueJobRequest{
		DeviceIdentifier: "fantasma",
		Payload:          payload(),
	})
	assert.ErrorIs(t, err, domain.ErrDeviceNotPaired)
}

func TestEnqueueDispositivoDeOtroMerchantRechaza(t *testing.T) {
	devices := newFakeDeviceRepo()
	pairedDevice(devices) // m1
	uc := NewJobUseCase(newFakeJobRepo(), devices, claimTimeout)

	_, err := uc.Enqueue(context.Background(), "m2", "s1", dto.EnqueueJobRequest{
		DeviceIdentifier: "caja-principal",
		Payload:          payload(),
	})
	assert.ErrorIs(t, err, domain.ErrDeviceNotPaired)
}

func TestClaimEntregaYPasaAProcessing(t *testing.T) {
	devices := newFakeDeviceRepo()
	device := pairedDevice(devices)
	jobs := newFakeJobRepo()
	uc := NewJobUseCase(jobs, devices, claimTimeout)

	_, err := uc.Enqueue(context.Background(), "m1", "s1", dto.EnqueueJobRequest{DeviceIdentifier: device.DeviceIdentifier, Payload: payload()})
	require.NoError(t, err)

	claimed, err := uc.Claim(context.Background(), device, time.Now())
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, entity.PrintJobProcessing, claimed[0].Status)
	assert.Equal(t, 1, claimed[0].Attempts)
	assert.NotNil(t, claimed[0].ClaimedAt)

	// segundo claim inmediato: nada pendiente
	again, err := uc.Claim(context.Background(), device, time.Now())
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestClaimReentregaTrasTimeout(t *testing.T) {
	devices := newFakeDeviceRepo()
	device := pairedDevice(devices)
	jobs := newFakeJobRepo()
	uc := NewJobUseCase(jobs, devices, claimTimeout)

	resp, err := uc.Enqueue(context.Background(), "m1", "s1", dto.EnqueueJobRequest{DeviceIdentifier: device.DeviceIdentifier, Payload: payload()})
	require.NoError(t, err)

	t0 := time.Now()
	first, err := uc.Claim(context.Background(), device, t0)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// antes del timeout: el job sigue en manos del agente anterior
	mid, err := uc.Claim(context.Background(), device, t0.Add(claimTimeout/2))
	require.NoError(t, err)
	assert.Empty(t, mid)

	// pasado el timeout: se re-entrega con attempts incrementado
	late, err := uc.Claim(context.Background(), device, t0.Add(claimTimeout+time.Second))
	require.NoError(t, err)
	require.Len(t, late, 1)
	assert.Equal(t, resp.ID, late[0].ID)
	assert.Equal(t, 2, late[0].Attempts)
}

func TestClaimConcurrenteNoDuplicaEntrega(t *testing.T) {
	devices := newFakeDeviceRepo()
	device := pairedDevice(devices)
	jobs := newFakeJobRepo()
	uc := NewJobUseCase(jobs, devices, claimTimeout)

	for i := 0; i < 20; i++ {
		_, err := uc.Enqueue(context.Background(), "m1", "s1", dto.EnqueueJobRequest{DeviceIdentifier: device.DeviceIdentifier, Payload: payload()})
		require.NoError(t, err)
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan string, workers*20)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := uc.Claim(context.Background(), device, time.Now())
			assert.NoError(t, err)
			for _, j := range claimed {
				results <- j.ID
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := map[string]int{}
	for id := range results {
		seen[id]++
	}
	assert.Len(t, seen, 20)
	for id, n := range seen {
		assert.Equalf(t, 1, n, "job %s entregado %d veces", id, n)
	}
}

func TestReportResultSuccessFijaCompletedAt(t *testing.T) {
	devices := newFakeDeviceRepo()
	device := pairedDevice(devices)
	jobs := newFakeJobRepo()
	uc := NewJobUseCase(jobs, devices, claimTimeout)

	resp, _ := uc.Enqueue(context.Background(), "m1", "s1", dto.EnqueueJobRequest{DeviceIdentifier: device.DeviceIdentifier, Payload: payload()})
	_, err := uc.Claim(context.Background(), device, time.Now())
	require.NoError(t, err)

	done, err := uc.ReportResult(context.Background(), device, resp.ID, dto.ReportResultRequest{Status: entity.PrintJobSuccess})
	require.NoError(t, err)
	assert.Equal(t, entity.PrintJobSuccess, done.Status)
	assert.NotNil(t, done.CompletedAt)
}

func TestReportResultFailedDejaCompletedAtNulo(t *testing.T) {
	devices := newFakeDeviceRepo()
	device := pairedDevice(devices)
	jobs := newFakeJobRepo()
	uc := NewJobUseCase(jobs, devices, claimTimeout)

	resp, _ := uc.Enqueue(context.Background(), "m1", "s1", dto.EnqueueJobRequest{DeviceIdentifier: device.DeviceIdentifier, Payload: payload()})
	_, err := uc.Claim(context.Background(), device, time.Now())
	require.NoError(t, err)

	done, err := uc.ReportResult(context.Background(), device, resp.ID, dto.ReportResultRequest{
		Status:       entity.PrintJobFailed,
		ErrorMessage: "sin papel",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PrintJobFailed, done.Status)
	assert.Equal(t, "sin papel", done.Error)
	assert.Nil(t, done.CompletedAt)
}

func TestReportResultJobTerminalRechaza(t *testing.T) {
	devices := newFakeDeviceRepo()
	device := pairedDevice(devices)
	jobs := newFakeJobRepo()
	uc := NewJobUseCase(jobs, devices, claimTimeout)

	resp, _ := uc.Enqueue(context.Background(), "m1", "s1", dto.EnqueueJobRequest{DeviceIdentifier: device.DeviceIdentifier, Payload: payload()})
	_, err := uc.Claim(context.Background(), device, time.Now())
	require.NoError(t, err)
	_, err = uc.ReportResult(context.Background(), device, resp.ID, dto.ReportResultRequest{Status: entity.PrintJobSuccess})
	require.NoError(t, err)

	_, err = uc.ReportResult(context.Background(), device, resp.ID, dto.ReportResultRequest{Status: entity.PrintJobFailed})
	assert.ErrorIs(t, err, domain.ErrJobTerminal)
}

func TestReportResultDeOtroDispositivoRechaza(t *testing.T) {
	devices := newFakeDeviceRepo()
	device := pairedDevice(devices)
	intruso := &entity.PrintDevice{DeviceIdentifier: "intruso", APISecret: "secreto-2", MerchantID: "m1"}
	devices.devices[intruso.DeviceIdentifier] = intruso
	jobs := newFakeJobRepo()
	uc := NewJobUseCase(jobs, devices, claimTimeout)

	resp, _ := uc.Enqueue(context.Background(), "m1", "s1", dto.EnqueueJobRequest{DeviceIdentifier: device.DeviceIdentifier, Payload: payload()})

	_, err := uc.ReportResult(context.Background(), intruso, resp.ID, dto.ReportResultRequest{Status: entity.PrintJobSuccess})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReportResultJobInexistente(t *testing.T) {
	devices := newFakeDeviceRepo()
	device := pairedDevice(devices)
	uc := NewJobUseCase(newFakeJobRepo(), devices, claimTimeout)

	_, err := uc.ReportResult(context.Background(), device, "no-existe", dto.ReportResultRequest{Status: entity.PrintJobSuccess})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportResultEstadoInvalido(t *testing.T) {
	devices := newFakeDeviceRepo()
	device := pairedDevice(devices)
	uc := NewJobUseCase(newFakeJobRepo(), devices, claimTimeout)

	_, err := uc.ReportResult(context.Background(), device, "x", dto.ReportResultRequest{Status: "impreso"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
