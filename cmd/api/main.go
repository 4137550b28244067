package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/jhoicas/Proveedores-api/internal/application/inventory"
	appsupplier "github.com/jhoicas/Proveedores-api/internal/application/supplier"
	"github.com/jhoicas/Proveedores-api/internal/application/usecase"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
	dsupplier "github.com/jhoicas/Proveedores-api/internal/domain/supplier"
	"github.com/jhoicas/Proveedores-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Proveedores-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Proveedores-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Proveedores-api/internal/interfaces/http"
	"github.com/jhoicas/Proveedores-api/pkg/config"
	"github.com/jhoicas/Proveedores-api/pkg/logger"
)

// backend agrupa los adaptadores de persistencia elegidos por STORAGE_DRIVER.
type backend struct {
	repos     repository.Repositories
	txRunner  interface {
		inventory.TxRunner
		appsupplier.TxRunner
	}
	products  repository.ProductRepository
	locations repository.LocationRepository
	users     repository.UserRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Str("receive_policy", cfg.Supplier.ReceivePolicy).
		Msg("iniciando aplicación")

	ctx := context.Background()
	be, err := newBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer be.close()

	limiter := rate.NewLimiter(rate.Limit(cfg.Identity.LookupsPerSecond), cfg.Identity.Burst)
	actors := usecase.NewActorResolver(be.users, limiter, log)

	orderUC := appsupplier.NewOrderUseCase(be.txRunner, be.repos, be.products, be.locations, appsupplier.OrderConfig{
		ReceivePolicy:       dsupplier.ParseReceivePolicy(cfg.Supplier.ReceivePolicy),
		ReceivingLocationID: cfg.Supplier.ReceivingLocationID,
		DefaultCurrency:     cfg.Supplier.DefaultCurrency,
		Tax:                 dsupplier.ZeroTax{},
	}, log)
	priceUC := appsupplier.NewPriceUseCase(be.repos, be.products, cfg.Supplier.PriceIncludeDraft, log)
	pdfUC := appsupplier.NewPDFUseCase(be.repos, actors, infrapdf.NewMarotoOrderPDFGenerator(language.Spanish))
	transferUC := inventory.NewTransferUseCase(be.txRunner, be.repos, be.products, be.locations, cfg.Supplier.DefaultCurrency, log)
	movementsUC := inventory.NewMovementQueryUseCase(be.repos.Movements)
	supplierUC := usecase.NewSupplierUseCase(be.repos.Suppliers)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		SupplierUC:  supplierUC,
		OrderUC:     orderUC,
		PriceUC:     priceUC,
		PDFUC:       pdfUC,
		TransferUC:  transferUC,
		MovementsUC: movementsUC,
		Actors:      actors,
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
		Log:         log,
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

func newBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		store := memory.NewStore()
		memory.SeedDemo(store)
		log.Warn().Msg("persistencia en memoria: los datos se pierden al reiniciar")
		return &backend{
			repos:     store.Repositories(),
			txRunner:  memory.NewTxRunner(store),
			products:  store.Products(),
			locations: store.Locations(),
			users:     store.Users(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &backend{
		repos:     postgres.NewRepositories(pool),
		txRunner:  postgres.NewTxRunner(pool),
		products:  postgres.NewProductRepository(pool),
		locations: postgres.NewLocationRepository(pool),
		users:     postgres.NewUserRepository(pool),
		close:     pool.Close,
	}, nil
}
