package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// MovementHandler registro y consulta del historial de stock.
type MovementHandler struct {
	uc *inventory.UseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.UseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Record godoc
// @Summary      Registrar movimiento de stock
// @Description  add/remove: quantity > 0. adjust: quantity es el nuevo stock absoluto.
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.RecordMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RecordMovement(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Produce      json
// @Param        from   query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to     query  string  false  "Hasta (inclusive)"
// @Param        order  query  string  false  "asc o desc"  default(desc)
// @Param        limit  query  int     false  "Máximo de resultados"
// @Success      200    {object}  dto.MovementListResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var in dto.MovementListRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	if in.Limit < 0 {
		in.Limit = 0
	}
	out, err := h.uc.ListMovements(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
