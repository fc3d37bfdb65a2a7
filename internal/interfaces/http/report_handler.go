package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/report"
)

// ReportHandler reportes de ventas, inventario y tablero.
type ReportHandler struct {
	uc        *report.UseCase
	inventory *inventory.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase, inv *inventory.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc, inventory: inv}
}

func periodFrom(c *fiber.Ctx) (dto.PeriodRequest, error) {
	var in dto.PeriodRequest
	err := c.QueryParser(&in)
	return in, err
}

// Sales godoc
// @Summary      Reporte de ventas del período
// @Tags         reports
// @Produce      json
// @Param        period_type   query  string  false  "day, week, month, year, all"
// @Param        period_value  query  string  false  "Valor del período"
// @Success      200           {object}  dto.SalesReportDTO
// @Failure      400           {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	in, err := periodFrom(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.uc.SalesReport(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Performance godoc
// @Summary      Rendimiento por producto
// @Tags         reports
// @Produce      json
// @Param        period_type   query  string  false  "day, week, month, year, all"
// @Param        period_value  query  string  false  "Valor del período"
// @Success      200           {object}  dto.PerformanceReportDTO
// @Failure      400           {object}  dto.ErrorResponse
// @Router       /api/reports/performance [get]
func (h *ReportHandler) Performance(c *fiber.Ctx) error {
	in, err := periodFrom(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.uc.Performance(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Inventory godoc
// @Summary      Inventario valorizado
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.InventoryReportDTO
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	out, err := h.uc.Inventory(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// InventoryPDF godoc
// @Summary      Inventario valorizado en PDF
// @Tags         reports
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reports/inventory/pdf [get]
func (h *ReportHandler) InventoryPDF(c *fiber.Ctx) error {
	pdf, err := h.uc.InventoryPDF(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="inventario.pdf"`)
	return c.Send(pdf)
}

// LowStock godoc
// @Summary      Productos con stock bajo o crítico
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.LowStockReportDTO
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Dashboard godoc
// @Summary      Tablero
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.DashboardDTO
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Reconciliación de todo el catálogo
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.ReconcileListResponse
// @Router       /api/reports/reconcile [get]
func (h *ReportHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.inventory.ReconcileAll(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
