package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/admin"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/application/sales"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InventoryUC *inventory.UseCase
	SalesUC     *sales.UseCase
	ReportUC    *report.UseCase
	ForecastUC  *report.ForecastUseCase
	AdminUC     *admin.UseCase
	ResetKey    string
	ResetHash   string
	// Storage nombre del driver para /health; Stats opcional (PostgreSQL).
	Storage string
	Stats   repository.StatsReporter
	Log     zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps))

	api := app.Group("/api")

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.InventoryUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/status", productHandler.Status)
	products.Get("/:id/movements", productHandler.Movements)
	products.Get("/:id/reconcile", productHandler.Reconcile)

	// Movements
	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.InventoryUC)
	movements.Get("/", movementHandler.List)
	movements.Post("/", movementHandler.Record)

	// Sales (forecast antes de /:id)
	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC, deps.ForecastUC)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Post("/", saleHandler.Complete)
	salesGroup.Get("/forecast", saleHandler.Forecast)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	// Reports
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC, deps.InventoryUC)
	reports.Get("/sales", reportHandler.Sales)
	reports.Get("/performance", reportHandler.Performance)
	reports.Get("/inventory", reportHandler.Inventory)
	reports.Get("/inventory/pdf", reportHandler.InventoryPDF)
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/reconcile", reportHandler.Reconcile)

	// Settings
	adminHandler := NewAdminHandler(deps.AdminUC)
	api.Get("/settings", adminHandler.GetSettings)
	api.Put("/settings", adminHandler.UpdateSettings)

	// Data: el respaldo es de lectura; el resto requiere la clave de reset
	data := api.Group("/data")
	data.Get("/backup", adminHandler.Backup)
	resetKey := ResetKeyMiddleware(deps.ResetKey, deps.ResetHash, deps.Log)
	data.Post("/restore", resetKey, adminHandler.Restore)
	data.Delete("/reset-all", resetKey, adminHandler.ResetAll)
	data.Delete("/clear", resetKey, adminHandler.Clear)
	data.Post("/initialize", resetKey, adminHandler.Initialize)
}

// healthHandler godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out := dto.HealthResponse{Status: "ok", Storage: deps.Storage, Time: time.Now().UTC()}
		if deps.Stats != nil {
			stats, err := deps.Stats.Stats(c.UserContext())
			if err != nil {
				deps.Log.Error().Err(err).Msg("health: estadísticas de almacenamiento")
				out.Status = "degraded"
				return c.Status(fiber.StatusServiceUnavailable).JSON(out)
			}
			out.Collections = stats
		}
		return c.JSON(out)
	}
}
