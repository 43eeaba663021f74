package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Stockeando-api/internal/application/analytics"
	"github.com/jhoicas/Stockeando-api/internal/application/validation"
)

// BackupHandler respaldo, importación y validación de consistencia (protegido).
type BackupHandler struct {
	backup    *appanalytics.BackupUseCase
	validator *validation.Validator
}

// NewBackupHandler construye el handler.
func NewBackupHandler(backup *appanalytics.BackupUseCase, validator *validation.Validator) *BackupHandler {
	return &BackupHandler{backup: backup, validator: validator}
}

// Export godoc
// @Summary      Descargar respaldo completo
// @Tags         backup
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BackupDTO
// @Router       /api/backup [get]
func (h *BackupHandler) Export(c *fiber.Ctx) error {
	b, err := h.backup.Build(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	c.Attachment(appanalytics.FileName(b.ExportDate))
	return c.JSON(b)
}

// Import godoc
// @Summary      Importar ledger desde un respaldo (solo admin)
// @Description  Sobrescribe productStates y/o movements si están presentes. Inventario y categorías se ignoran.
// @Tags         backup
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.ImportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/backup/import [post]
func (h *BackupHandler) Import(c *fiber.Ctx) error {
	out, err := h.backup.Import(c.UserContext(), c.Body())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Upload godoc
// @Summary      Subir respaldo al destino configurado
// @Tags         backup
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BackupUploadResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/backup/upload [post]
func (h *BackupHandler) Upload(c *fiber.Ctx) error {
	out, err := h.backup.Upload(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Validate godoc
// @Summary      Validar y reparar inventario y máquinas
// @Tags         backup
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  validation.Report
// @Router       /api/validate [post]
func (h *BackupHandler) Validate(c *fiber.Ctx) error {
	report, err := h.validator.Run(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
