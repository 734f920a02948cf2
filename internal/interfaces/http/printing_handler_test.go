package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipsync/slipsync-api/internal/application/auth"
	"github.com/slipsync/slipsync-api/internal/application/dto"
	"github.com/slipsync/slipsync-api/internal/application/ordering"
	"github.com/slipsync/slipsync-api/internal/application/printing"
	"github.com/slipsync/slipsync-api/internal/application/storectx"
	"github.com/slipsync/slipsync-api/internal/application/usecase"
	"github.com/slipsync/slipsync-api/internal/domain/entity"
	"github.com/slipsync/slipsync-api/internal/domain/repository"
	apphttp "github.com/slipsync/slipsync-api/internal/interfaces/http"
	"github.com/slipsync/slipsync-api/internal/infrastructure/identity"
	"github.com/slipsync/slipsync-api/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSecret     = "test-session-secret"
	testMerchantID = "org_test_merchant"
	testStoreID    = "00000000-0000-0000-0000-0000000000a1"
)

// fakes en memoria de los puertos que tocan estas rutas.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeUserRepo) GetBySubjectID(_ context.Context, subjectID string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.SubjectID == subjectID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ListByMerchant(_ context.Context, merchantID string) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.User
	for _, u := range f.users {
		if u.MerchantID == merchantID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) CountByMerchant(_ context.Context, merchantID string) (int64, error) {
	list, _ := f.ListByMerchant(context.Background(), merchantID)
	return int64(len(list)), nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.RoleID = roleID
	}
	return nil
}

type fakeMerchantRepo struct {
	mu        sync.Mutex
	merchants map[string]*entity.Merchant
}

func (f *fakeMerchantRepo) GetByID(_ context.Context, id string) (*entity.Merchant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.merchants[id], nil
}

func (f *fakeMerchantRepo) Create(_ context.Context, m *entity.Merchant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.merchants[m.ID] = m
	return nil
}

type fakeRoleRepo struct {
	mu    sync.Mutex
	roles map[string]*entity.Role // por nombre
}

func (f *fakeRoleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.roles[name], nil
}

func (f *fakeRoleRepo) Create(_ context.Context, r *entity.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[r.Name] = r
	return nil
}

type fakeStoreRepo struct {
	mu     sync.Mutex
	stores []*entity.Store
}

func (f *fakeStoreRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.stores {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeStoreRepo) ListByMerchant(_ context.Context, merchantID string) ([]*entity.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Store
	for _, s := range f.stores {
		if s.MerchantID == merchantID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStoreRepo) FirstByMerchant(ctx context.Context, merchantID string) (*entity.Store, error) {
	list, _ := f.ListByMerchant(ctx, merchantID)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (f *fakeStoreRepo) Create(_ context.Context, s *entity.Store) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stores = append(f.stores, s)
	return nil
}

type fakeAccessRepo struct{}

func (f *fakeAccessRepo) ListStoreIDsByUser(context.Context, string) ([]string, error) {
	return nil, nil
}

func (f *fakeAccessRepo) ReplaceForUser(context.Context, string, []*entity.StoreAccessGrant) error {
	return nil
}

type fakeDeviceRepo struct {
	mu      sync.Mutex
	devices map[string]*entity.PrintDevice // por identificador
}

func (f *fakeDeviceRepo) GetByIdentifier(_ context.Context, id string) (*entity.PrintDevice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.devices[id], nil
}

func (f *fakeDeviceRepo) GetBySecret(_ context.Context, secret string) (*entity.PrintDevice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.devices {
		if d.APISecret == secret {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDeviceRepo) ListByMerchant(_ context.Context, merchantID string) ([]*entity.PrintDevice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.PrintDevice
	for _, d := range f.devices {
		if d.MerchantID == merchantID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDeviceRepo) Upsert(_ context.Context, device *entity.PrintDevice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.devices[device.DeviceIdentifier]; ok {
		existing.Name = device.Name
		existing.LastSeen = device.LastSeen
		return nil
	}
	cp := *device
	f.devices[device.DeviceIdentifier] = &cp
	return nil
}

func (f *fakeDeviceRepo) UpdateLastSeen(_ context.Context, id string, at time.Time) (*entity.PrintDevice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.devices[id]
	if !ok {
		return nil, nil
	}
	d.LastSeen = at
	return d, nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*entity.PrintJob
}

func (f *fakeJobRepo) Create(_ context.Context, job *entity.PrintJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *job
	f.jobs[job.ID] = &cp
	return nil
}

func (f *fakeJobRepo) GetByID(_ context.Context, id string) (*entity.PrintJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if j, ok := f.jobs[id]; ok {
		cp := *j
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeJobRepo) ListByStore(_ context.Context, storeID string, limit int) ([]*entity.PrintJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.PrintJob
	for _, j := range f.jobs {
		if j.StoreID == storeID && len(out) < limit {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) ClaimPending(_ context.Context, deviceIdentifier string, reclaimBefore, now time.Time) ([]*entity.PrintJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.PrintJob
	for _, j := range f.jobs {
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
		cp := *j
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeJobRepo) FinishJob(_ context.Context, jobID, deviceIdentifier, status, errorMessage string, completedAt *time.Time) (*entity.PrintJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[jobID]
	if !ok || j.DeviceIdentifier != deviceIdentifier || j.Terminal() {
		return nil, nil
	}
	j.Status = status
	j.Error = errorMessage
	j.CompletedAt = completedAt
	cp := *j
	return &cp, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*entity.Order
	items  map[string][]*entity.OrderItem
	seq    int64
}

func (f *fakeOrderRepo) Create(_ context.Context, o *entity.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[o.ID] = o
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id], nil
}

func (f *fakeOrderRepo) ListByStore(_ context.Context, storeID string, limit int) ([]*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Order
	for _, o := range f.orders {
		if o.StoreID == storeID && len(out) < limit {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) NextOrderNumber(_ context.Context, _ string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return f.seq, nil
}

func (f *fakeOrderRepo) CreateItem(_ context.Context, it *entity.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[it.OrderID] = append(f.items[it.OrderID], it)
	return nil
}

func (f *fakeOrderRepo) ListItemsByOrder(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[orderID], nil
}

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[string]*entity.Invoice // por OrderID
}

func (f *fakeInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invoices[inv.OrderID] = inv
	return nil
}

func (f *fakeInvoiceRepo) GetByOrder(_ context.Context, orderID string) (*entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invoices[orderID], nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
	variants map[string]*entity.ProductVariant
}

func (f *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id], nil
}

func (f *fakeProductRepo) ListByMerchant(_ context.Context, _ string) ([]*entity.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) CreateVariant(_ context.Context, v *entity.ProductVariant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.variants[v.ID] = v
	return nil
}

func (f *fakeProductRepo) GetVariantByID(_ context.Context, id string) (*entity.ProductVariant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.variants[id], nil
}

func (f *fakeProductRepo) ListVariantsByProduct(_ context.Context, _ string) ([]*entity.ProductVariant, error) {
	return nil, nil
}

// inlineTxRunner pasa los repos tal cual; estas rutas no ejercitan el checkout.
type inlineTxRunner struct {
	orders   *fakeOrderRepo
	invoices *fakeInvoiceRepo
}

func (r *inlineTxRunner) RunOrder(_ context.Context, fn func(
	orderRepo repository.OrderRepository,
	invoiceRepo repository.InvoiceRepository,
	inventoryRepo repository.InventoryRepository,
) error) error {
	return fn(r.orders, r.invoices, nil)
}

// testEnv repos en memoria que los tests siembran directamente.
type testEnv struct {
	orders   *fakeOrderRepo
	invoices *fakeInvoiceRepo
	products *fakeProductRepo
}

// buildTestApp arma la app Fiber completa con fakes en memoria y una tienda
// sembrada para el merchant de prueba.
func buildTestApp(t *testing.T) (*fiber.App, *testEnv) {
	t.Helper()

	merchantRepo := &fakeMerchantRepo{merchants: map[string]*entity.Merchant{
		testMerchantID: {ID: testMerchantID, Name: "Merchant Test", Currency: "USD"},
	}}
	storeRepo := &fakeStoreRepo{stores: []*entity.Store{
		{ID: testStoreID, MerchantID: testMerchantID, Name: "Principal", Currency: "USD"},
	}}
	userRepo := &fakeUserRepo{users: map[string]*entity.User{}}
	roleRepo := &fakeRoleRepo{roles: map[string]*entity.Role{}}
	accessRepo := &fakeAccessRepo{}
	deviceRepo := &fakeDeviceRepo{devices: map[string]*entity.PrintDevice{}}
	jobRepo := &fakeJobRepo{jobs: map[string]*entity.PrintJob{}}
	orderRepo := &fakeOrderRepo{orders: map[string]*entity.Order{}, items: map[string][]*entity.OrderItem{}}
	invoiceRepo := &fakeInvoiceRepo{invoices: map[string]*entity.Invoice{}}
	productRepo := &fakeProductRepo{products: map[string]*entity.Product{}, variants: map[string]*entity.ProductVariant{}}

	deviceUC := printing.NewDeviceUseCase(deviceRepo, 10*time.Second)
	jobUC := printing.NewJobUseCase(jobRepo, deviceRepo, 3*time.Minute)
	orderUC := ordering.NewOrderUseCase(
		&inlineTxRunner{orders: orderRepo, invoices: invoiceRepo},
		orderRepo, invoiceRepo, productRepo, nil, jobUC, zerolog.Nop(),
	)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Verifier:    identity.NewJWTVerifier(config.IdentityConfig{SessionSecret: testSecret}),
		AuthUC:      auth.NewAuthUseCase(userRepo, merchantRepo, roleRepo),
		Resolver:    storectx.NewResolver(storeRepo, accessRepo),
		StoreUC:     usecase.NewStoreUseCase(storeRepo, merchantRepo),
		EmployeeUC:  usecase.NewEmployeeUseCase(userRepo, storeRepo, accessRepo),
		DeviceUC:    deviceUC,
		JobUC:       jobUC,
		OrderUC:     orderUC,
		InventoryUC: usecase.NewInventoryUseCase(nil, nil),
		ProductUC:   usecase.NewProductUseCase(nil, nil, nil, nil),
		CategoryUC:  usecase.NewCategoryUseCase(nil),
		CustomerUC:  usecase.NewCustomerUseCase(nil),
		SupplierUC:  usecase.NewSupplierUseCase(nil),
	})
	return app, &testEnv{orders: orderRepo, invoices: invoiceRepo, products: productRepo}
}

// adminToken emite un token de sesión HS256 como el proveedor de identidad.
func adminToken(t *testing.T) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "user_admin",
		"email":    "admin@test.dev",
		"name":     "Admin Test",
		"org_id":   testMerchantID,
		"org_role": "org:admin",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doJSON(t *testing.T, app *fiber.App, method, path string, headers map[string]string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests del pipeline de impresión vía HTTP
// ──────────────────────────────────────────────────────────────────────────────

// Recorrido completo: registrar dispositivo, encolar, reclamar y reportar.
func TestPrinting_FlujoCompleto(t *testing.T) {
	app, _ := buildTestApp(t)
	userHeaders := map[string]string{"Authorization": adminToken(t)}

	// Registro del dispositivo (sesión de usuario).
	resp := doJSON(t, app, http.MethodPost, "/api/printing/devices/register", userHeaders,
		dto.RegisterDeviceRequest{DeviceIdentifier: "caja-1", Name: "Caja 1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	reg := decode[dto.RegisterDeviceResponse](t, resp)
	require.NotEmpty(t, reg.APISecret)

	// Re-registro: mismo secreto.
	resp = doJSON(t, app, http.MethodPost, "/api/printing/devices/register", userHeaders,
		dto.RegisterDeviceRequest{DeviceIdentifier: "caja-1", Name: "Caja 1 bis"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, reg.APISecret, decode[dto.RegisterDeviceResponse](t, resp).APISecret)

	// Encolar un job para la tienda activa.
	resp = doJSON(t, app, http.MethodPost, "/api/printing/jobs", userHeaders,
		dto.EnqueueJobRequest{DeviceIdentifier: "caja-1", Payload: json.RawMessage(`{"doc":"x"}`)})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	enqueued := decode[dto.JobResponse](t, resp)
	assert.Equal(t, entity.PrintJobQueued, enqueued.Status)
	assert.Equal(t, entity.PrintJobTypeReceipt, enqueued.JobType)

	// El agente reclama con su secreto.
	agentHeaders := map[string]string{apphttp.HeaderDeviceSecret: reg.APISecret}
	resp = doJSON(t, app, http.MethodGet, "/api/print-jobs/pending", agentHeaders, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	claimed := decode[[]dto.JobResponse](t, resp)
	require.Len(t, claimed, 1)
	assert.Equal(t, enqueued.ID, claimed[0].ID)
	assert.Equal(t, entity.PrintJobProcessing, claimed[0].Status)
	assert.Equal(t, 1, claimed[0].Attempts)

	// Segundo claim inmediato: vacío, el job quedó en processing.
	resp = doJSON(t, app, http.MethodGet, "/api/print-jobs/pending", agentHeaders, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]dto.JobResponse](t, resp))

	// Reporte de éxito.
	resp = doJSON(t, app, http.MethodPost, "/api/print-jobs/"+enqueued.ID+"/response", agentHeaders,
		dto.ReportResultRequest{Status: entity.PrintJobSuccess})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	done := decode[dto.JobResponse](t, resp)
	assert.Equal(t, entity.PrintJobSuccess, done.Status)
	assert.NotNil(t, done.CompletedAt)

	// Reportar de nuevo sobre un estado terminal: conflicto.
	resp = doJSON(t, app, http.MethodPost, "/api/print-jobs/"+enqueued.ID+"/response", agentHeaders,
		dto.ReportResultRequest{Status: entity.PrintJobFailed, ErrorMessage: "sin papel"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// El heartbeat de un dispositivo emparejado responde 200 y lo deja online.
func TestPrinting_Heartbeat(t *testing.T) {
	app, _ := buildTestApp(t)
	userHeaders := map[string]string{"Authorization": adminToken(t)}

	resp := doJSON(t, app, http.MethodPost, "/api/printing/devices/register", userHeaders,
		dto.RegisterDeviceRequest{DeviceIdentifier: "caja-2"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	reg := decode[dto.RegisterDeviceResponse](t, resp)

	resp = doJSON(t, app, http.MethodPost, "/api/print-devices/heartbeat",
		map[string]string{apphttp.HeaderDeviceSecret: reg.APISecret}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hb := decode[dto.HeartbeatResponse](t, resp)
	assert.Equal(t, "caja-2", hb.DeviceIdentifier)

	resp = doJSON(t, app, http.MethodGet, "/api/printing/devices", userHeaders, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	devices := decode[[]dto.DeviceResponse](t, resp)
	require.Len(t, devices, 1)
	assert.True(t, devices[0].Online)
}

// Sin Bearer token las rutas de usuario devuelven 401.
func TestPrinting_SinTokenRechaza(t *testing.T) {
	app, _ := buildTestApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/printing/jobs", nil,
		dto.EnqueueJobRequest{DeviceIdentifier: "caja-1", Payload: json.RawMessage(`{}`)})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decode[dto.ErrorResponse](t, resp).Code)
}

// Sin X-Device-Secret (o con uno inválido) las rutas de agente devuelven 401.
func TestPrinting_SecretoInvalidoRechaza(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/print-jobs/pending", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_DEVICE_SECRET", decode[dto.ErrorResponse](t, resp).Code)

	resp = doJSON(t, app, http.MethodGet, "/api/print-jobs/pending",
		map[string]string{apphttp.HeaderDeviceSecret: "no-existe"}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_DEVICE_SECRET", decode[dto.ErrorResponse](t, resp).Code)
}

// Encolar hacia un dispositivo nunca registrado responde 404.
func TestPrinting_EncolarSinDispositivo(t *testing.T) {
	app, _ := buildTestApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/printing/jobs",
		map[string]string{"Authorization": adminToken(t)},
		dto.EnqueueJobRequest{DeviceIdentifier: "fantasma", Payload: json.RawMessage(`{}`)})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// POST /api/print-jobs/:orderId reimprime una orden: el servidor reconstruye
// el recibo desde la orden persistida y encola el job al dispositivo pedido.
func TestPrinting_ReimprimeOrden(t *testing.T) {
	app, env := buildTestApp(t)
	userHeaders := map[string]string{"Authorization": adminToken(t)}

	resp := doJSON(t, app, http.MethodPost, "/api/printing/devices/register", userHeaders,
		dto.RegisterDeviceRequest{DeviceIdentifier: "caja-re"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// orden confirmada con su línea y su factura, como la dejó el checkout
	env.products.products["p-re"] = &entity.Product{ID: "p-re", MerchantID: testMerchantID, Name: "Camiseta"}
	env.products.variants["v-re"] = &entity.ProductVariant{ID: "v-re", ProductID: "p-re", SKU: "CAM-M", Price: decimal.NewFromInt(20)}
	env.orders.orders["ord-1"] = &entity.Order{
		ID: "ord-1", MerchantID: testMerchantID, StoreID: testStoreID,
		OrderNumber: "7", Status: "paid", Currency: "USD",
		Subtotal: decimal.NewFromInt(40), TotalAmount: decimal.NewFromInt(40),
		PlacedAt: time.Now(),
	}
	env.orders.items["ord-1"] = []*entity.OrderItem{{
		ID: "it-1", OrderID: "ord-1", VariantID: "v-re", Quantity: 2,
		UnitPrice: decimal.NewFromInt(20), TotalPrice: decimal.NewFromInt(40),
	}}
	env.invoices.invoices["ord-1"] = &entity.Invoice{
		ID: "inv-1", OrderID: "ord-1", MerchantID: testMerchantID, StoreID: testStoreID,
		InvoiceNumber: "INV-7", Total: decimal.NewFromInt(40), Currency: "USD", IssuedAt: time.Now(),
	}

	resp = doJSON(t, app, http.MethodPost, "/api/print-jobs/ord-1", userHeaders,
		dto.ReprintReceiptRequest{DeviceIdentifier: "caja-re"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	job := decode[dto.JobResponse](t, resp)
	assert.Equal(t, entity.PrintJobQueued, job.Status)
	assert.Equal(t, "caja-re", job.DeviceIdentifier)

	var receipt printing.ReceiptPayload
	require.NoError(t, json.Unmarshal(job.Payload, &receipt))
	assert.Equal(t, "INV-7", receipt.InvoiceNumber)
	assert.Equal(t, "7", receipt.OrderNumber)
	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, "Camiseta", receipt.Lines[0].Name)
	assert.Equal(t, 2, receipt.Lines[0].Quantity)
}

// La reimpresión es una ruta de usuario: sin Bearer responde el 401 de
// sesión, no el del middleware de dispositivo que comparte el prefijo.
func TestPrinting_ReimprimirSinTokenRechaza(t *testing.T) {
	app, _ := buildTestApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/print-jobs/ord-x", nil,
		dto.ReprintReceiptRequest{DeviceIdentifier: "caja-1"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decode[dto.ErrorResponse](t, resp).Code)
}
