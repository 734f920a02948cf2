package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/slipsync/slipsync-api/internal/application/auth"
	"github.com/slipsync/slipsync-api/internal/application/ordering"
	"github.com/slipsync/slipsync-api/internal/application/printing"
	"github.com/slipsync/slipsync-api/internal/application/storectx"
	"github.com/slipsync/slipsync-api/internal/application/usecase"
	"github.com/slipsync/slipsync-api/internal/infrastructure/identity"
	"github.com/slipsync/slipsync-api/internal/infrastructure/postgres"
	httpRouter "github.com/slipsync/slipsync-api/internal/interfaces/http"
	"github.com/slipsync/slipsync-api/pkg/config"
	"github.com/slipsync/slipsync-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	merchantRepo := postgres.NewMerchantRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	accessRepo := postgres.NewStoreAccessRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	deviceRepo := postgres.NewPrintDeviceRepository(pool)
	jobRepo := postgres.NewPrintJobRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, merchantRepo, roleRepo)
	resolver := storectx.NewResolver(storeRepo, accessRepo)
	deviceUC := printing.NewDeviceUseCase(deviceRepo, cfg.Print.OnlineWindow)
	jobUC := printing.NewJobUseCase(jobRepo, deviceRepo, cfg.Print.ClaimTimeout)
	orderUC := ordering.NewOrderUseCase(
		txRunner, orderRepo, invoiceRepo, productRepo, customerRepo, jobUC, log.Component("checkout"),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " +
			httpRouter.HeaderStoreID + ", " + httpRouter.HeaderStoreAccess + ", " +
			httpRouter.HeaderOrgID + ", " + httpRouter.HeaderOrgRole + ", " +
			httpRouter.HeaderDeviceSecret,
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "SlipSync API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Verifier:    identity.NewJWTVerifier(cfg.Identity),
		AuthUC:      authUC,
		Resolver:    resolver,
		StoreUC:     usecase.NewStoreUseCase(storeRepo, merchantRepo),
		EmployeeUC:  usecase.NewEmployeeUseCase(userRepo, storeRepo, accessRepo),
		ProductUC:   usecase.NewProductUseCase(productRepo, categoryRepo, storeRepo, inventoryRepo),
		CategoryUC:  usecase.NewCategoryUseCase(categoryRepo),
		CustomerUC:  usecase.NewCustomerUseCase(customerRepo),
		SupplierUC:  usecase.NewSupplierUseCase(supplierRepo),
		InventoryUC: usecase.NewInventoryUseCase(inventoryRepo, productRepo),
		DeviceUC:    deviceUC,
		JobUC:       jobUC,
		OrderUC:     orderUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
