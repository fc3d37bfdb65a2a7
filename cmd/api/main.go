package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/jhoicas/stock-ledger/internal/application/admin"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/application/sales"
	"github.com/jhoicas/stock-ledger/internal/application/store"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/filestore"
	infraforecast "github.com/jhoicas/stock-ledger/internal/infrastructure/forecast"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	gateway, stats, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer closeStorage()

	st := store.New(gateway, log.Component("store"))
	if err := st.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("cargar datos")
	}

	defaults := entity.DefaultSettings()
	defaults.CompanyName = cfg.Defaults.CompanyName
	defaults.Currency = cfg.Defaults.Currency

	ledger := inventory.NewMovementLedger(st)
	catalog := inventory.NewProductCatalog(st, ledger, log.Component("catalog"))
	inventoryUC := inventory.NewUseCase(st, catalog, ledger, log.Component("inventory"))

	tag, err := language.Parse(cfg.Defaults.Locale)
	if err != nil {
		log.Warn().Err(err).Str("locale", cfg.Defaults.Locale).Msg("PDF_LOCALE inválido, se usa en-US")
		tag = language.AmericanEnglish
	}
	renderer := infrapdf.NewRenderer(tag)

	saleTx := sales.NewSaleTransaction(st, catalog, log.Component("sales"))
	salesUC := sales.NewUseCase(st, saleTx, renderer, log.Component("sales"))
	reportUC := report.NewUseCase(st, renderer, log.Component("report"))
	forecastUC := report.NewForecastUseCase(st, forecastGateway(cfg, log.Component("forecast")), cfg.Forecast.Timeout, log.Component("forecast"))
	adminUC := admin.NewUseCase(st, defaults, log.Component("admin"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    16 * 1024 * 1024, // respaldos completos
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, " + httpRouter.ResetKeyHeader,
	}))
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		InventoryUC: inventoryUC,
		SalesUC:     salesUC,
		ReportUC:    reportUC,
		ForecastUC:  forecastUC,
		AdminUC:     adminUC,
		ResetKey:    cfg.Reset.Key,
		ResetHash:   cfg.Reset.Hash,
		Storage:     cfg.Storage.Driver,
		Stats:       stats,
		Log:         log.Component("http"),
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

// openStorage elige el StorageGateway según STORAGE_DRIVER. stats es nil si el driver no lo soporta.
func openStorage(ctx context.Context, cfg *config.Config) (repository.StorageGateway, repository.StatsReporter, func(), error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		s := postgres.NewCollectionStore(pool)
		if err := s.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return s, s, pool.Close, nil
	case config.StorageMemory:
		return memory.NewGateway(), nil, func() {}, nil
	default:
		s, err := filestore.New(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, nil, err
		}
		return s, nil, func() {}, nil
	}
}

func forecastGateway(cfg *config.Config, log zerolog.Logger) ports.ForecastGateway {
	switch {
	case cfg.Forecast.URL != "":
		return infraforecast.NewHTTPClient(cfg.Forecast.URL, cfg.Forecast.Timeout)
	case cfg.Forecast.Command != "":
		c, err := infraforecast.NewProcessClient(cfg.Forecast.Command, "", log)
		if err != nil {
			log.Warn().Err(err).Msg("FORECAST_COMMAND inválido, pronóstico deshabilitado")
			return infraforecast.Disabled{}
		}
		return c
	default:
		log.Info().Msg("pronóstico deshabilitado (sin FORECAST_URL ni FORECAST_COMMAND)")
		return infraforecast.Disabled{}
	}
}
