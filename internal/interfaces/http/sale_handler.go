package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/application/sales"
)

// SaleHandler ventas, comprobantes y pronóstico.
type SaleHandler struct {
	uc       *sales.UseCase
	forecast *report.ForecastUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase, forecast *report.ForecastUseCase) *SaleHandler {
	return &SaleHandler{uc: uc, forecast: forecast}
}

// Complete godoc
// @Summary      Completar venta
// @Description  Valida el stock de todas las líneas, descuenta, registra movimientos y asigna número de pedido. Todo o nada.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompleteSaleRequest  true  "Venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Complete(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas del período
// @Tags         sales
// @Produce      json
// @Param        period_type   query  string  false  "day, week, month, year, all"
// @Param        period_value  query  string  false  "2025-07-21, 2025-W30, 2025-07, 2025"
// @Success      200           {object}  dto.SaleListResponse
// @Failure      400           {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var in dto.PeriodRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "venta no encontrada")
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF de la venta
// @Tags         sales
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	pdf, order, err := h.uc.Receipt(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s.pdf"`, order))
	return c.Send(pdf)
}

// Forecast godoc
// @Summary      Pronóstico de ventas
// @Description  Si el servicio externo falla o excede el timeout devuelve una serie vacía con degraded=true.
// @Tags         sales
// @Produce      json
// @Success      200  {object}  dto.ForecastResponse
// @Router       /api/sales/forecast [get]
func (h *SaleHandler) Forecast(c *fiber.Ctx) error {
	out, err := h.forecast.Forecast(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
