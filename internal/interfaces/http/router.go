package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/slipsync/slipsync-api/internal/application/auth"
	"github.com/slipsync/slipsync-api/internal/application/ordering"
	"github.com/slipsync/slipsync-api/internal/application/printing"
	"github.com/slipsync/slipsync-api/internal/application/storectx"
	"github.com/slipsync/slipsync-api/internal/application/usecase"
	"github.com/slipsync/slipsync-api/internal/infrastructure/identity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Verifier    identity.Verifier
	AuthUC      *auth.AuthUseCase
	Resolver    *storectx.Resolver
	StoreUC     *usecase.StoreUseCase
	EmployeeUC  *usecase.EmployeeUseCase
	ProductUC   *usecase.ProductUseCase
	CategoryUC  *usecase.CategoryUseCase
	CustomerUC  *usecase.CustomerUseCase
	SupplierUC  *usecase.SupplierUseCase
	InventoryUC *usecase.InventoryUseCase
	DeviceUC    *printing.DeviceUseCase
	JobUC       *printing.JobUseCase
	OrderUC     *ordering.OrderUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas de agente: autenticadas por X-Device-Secret, sin sesión de usuario.
	// El middleware de dispositivo va ruta por ruta porque el prefijo
	// /print-jobs se comparte con la reimpresión, que es de usuario.
	printingHandler := NewPrintingHandler(deps.DeviceUC, deps.JobUC)
	deviceAuth := DeviceAuthMiddleware(deps.DeviceUC)
	api.Get("/print-jobs/pending", deviceAuth, printingHandler.ClaimPending)
	api.Post("/print-jobs/:jobId/response", deviceAuth, printingHandler.ReportResult)
	api.Post("/print-devices/heartbeat", deviceAuth, printingHandler.Heartbeat)

	// Rutas de usuario: Bearer token + contexto de tienda.
	protected := api.Group("/", AuthMiddleware(deps.Verifier, deps.AuthUC, deps.Resolver))

	authHandler := NewAuthHandler(deps.AuthUC)
	protected.Post("/auth/sync", authHandler.Sync)
	protected.Get("/auth/me", authHandler.Me)

	storeHandler := NewStoreHandler(deps.StoreUC)
	protected.Get("/stores", storeHandler.List)
	protected.Post("/stores", storeHandler.Create)
	protected.Get("/stores/:id", storeHandler.Get)

	employeeHandler := NewEmployeeHandler(deps.EmployeeUC, deps.StoreUC)
	protected.Get("/employees", employeeHandler.List)
	protected.Get("/employees/stores", employeeHandler.ListStores)
	protected.Put("/employees/:userId/store-access", employeeHandler.UpdateStoreAccess)

	protected.Post("/printing/devices/register", printingHandler.RegisterDevice)
	protected.Get("/printing/devices", printingHandler.ListDevices)
	protected.Post("/printing/jobs", printingHandler.EnqueueJob)
	protected.Get("/printing/jobs", printingHandler.ListJobs)

	orderHandler := NewOrderHandler(deps.OrderUC)
	protected.Post("/orders", orderHandler.Create)
	protected.Get("/orders", orderHandler.List)
	protected.Get("/orders/:id", orderHandler.Get)
	protected.Post("/print-jobs/:orderId", orderHandler.Reprint)

	productHandler := NewProductHandler(deps.ProductUC)
	protected.Post("/products", productHandler.Create)
	protected.Get("/products", productHandler.List)
	protected.Get("/products/:id", productHandler.Get)

	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	protected.Post("/categories", categoryHandler.Create)
	protected.Get("/categories", categoryHandler.List)

	customerHandler := NewCustomerHandler(deps.CustomerUC)
	protected.Post("/customers", customerHandler.Create)
	protected.Get("/customers", customerHandler.List)
	protected.Put("/customers/:id", customerHandler.Update)

	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	protected.Post("/suppliers", supplierHandler.Create)
	protected.Get("/suppliers", supplierHandler.List)
	protected.Put("/suppliers/:id", supplierHandler.Update)
	protected.Delete("/suppliers/:id", supplierHandler.Delete)

	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	protected.Get("/inventory", inventoryHandler.List)
	protected.Put("/inventory", inventoryHandler.Set)
}
