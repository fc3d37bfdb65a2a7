package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/admin"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

// AdminHandler configuración, respaldo y reinicio de datos.
type AdminHandler struct {
	uc *admin.UseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(uc *admin.UseCase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// GetSettings godoc
// @Summary      Configuración actual
// @Tags         settings
// @Produce      json
// @Success      200  {object}  dto.SettingsDTO
// @Router       /api/settings [get]
func (h *AdminHandler) GetSettings(c *fiber.Ctx) error {
	return c.JSON(h.uc.GetSettings(c.UserContext()))
}

// UpdateSettings godoc
// @Summary      Reemplazar configuración
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SettingsDTO  true  "Configuración"
// @Success      200   {object}  dto.SettingsDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings [put]
func (h *AdminHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.SettingsDTO
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateSettings(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Backup godoc
// @Summary      Respaldo completo
// @Tags         data
// @Produce      json
// @Success      200  {object}  dto.BackupDocument
// @Router       /api/data/backup [get]
func (h *AdminHandler) Backup(c *fiber.Ctx) error {
	doc := h.uc.Backup(c.UserContext())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="backup-%s.json"`, doc.ExportedAt.Format("20060102-150405")))
	return c.JSON(doc)
}

// Restore godoc
// @Summary      Restaurar respaldo
// @Description  Reemplaza todos los datos. Requiere las cuatro claves; si algo es inválido no se escribe nada.
// @Tags         data
// @Accept       json
// @Produce      json
// @Param        X-Reset-Key  header  string  true  "Clave de reset"
// @Param        body  body  dto.BackupDocument  true  "Respaldo"
// @Success      200   {object}  dto.ResetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/data/restore [post]
func (h *AdminHandler) Restore(c *fiber.Ctx) error {
	out, err := h.uc.Restore(c.UserContext(), c.Body())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ResetAll godoc
// @Summary      Borrar todo y restablecer la configuración por defecto
// @Tags         data
// @Produce      json
// @Param        X-Reset-Key  header  string  true  "Clave de reset"
// @Success      200  {object}  dto.ResetResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/data/reset-all [delete]
func (h *AdminHandler) ResetAll(c *fiber.Ctx) error {
	out, err := h.uc.ResetAll(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Clear godoc
// @Summary      Borrar productos, movimientos y ventas (conserva la configuración)
// @Tags         data
// @Produce      json
// @Param        X-Reset-Key  header  string  true  "Clave de reset"
// @Success      200  {object}  dto.ResetResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/data/clear [delete]
func (h *AdminHandler) Clear(c *fiber.Ctx) error {
	out, err := h.uc.Clear(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Initialize godoc
// @Summary      Escribir la configuración por defecto si nunca se guardó
// @Tags         data
// @Produce      json
// @Param        X-Reset-Key  header  string  true  "Clave de reset"
// @Success      200  {object}  dto.ResetResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/data/initialize [post]
func (h *AdminHandler) Initialize(c *fiber.Ctx) error {
	out, err := h.uc.Initialize(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
