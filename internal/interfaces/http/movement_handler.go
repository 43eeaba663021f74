package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Stockeando-api/internal/application/dto"
	"github.com/jhoicas/Stockeando-api/internal/application/ledger"
)

// MovementHandler consultas y mantenimiento del ledger (protegido).
type MovementHandler struct {
	ledger        *ledger.Service
	retentionDays int
}

// NewMovementHandler retentionDays es el valor por defecto de la limpieza.
func NewMovementHandler(l *ledger.Service, retentionDays int) *MovementHandler {
	if retentionDays <= 0 {
		retentionDays = ledger.DefaultRetentionDays
	}
	return &MovementHandler{ledger: l, retentionDays: retentionDays}
}

// List godoc
// @Summary      Listar movimientos del ledger
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(100)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.MovementsPage
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if e := parseQuery(c, &page); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	page.DefaultPage()
	all, err := h.ledger.AllMovements(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	start := min(page.Offset, len(all))
	end := min(start+page.Limit, len(all))
	return c.JSON(dto.MovementsPage{
		Items: all[start:end],
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(all)},
	})
}

// Stats godoc
// @Summary      Resumen del ledger
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.MovementStats
// @Router       /api/movements/stats [get]
func (h *MovementHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.ledger.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// Cleanup godoc
// @Summary      Eliminar movimientos antiguos del ledger (solo admin)
// @Description  El historial por material no se modifica.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CleanupRequest  false  "retention_days"
// @Success      200   {object}  dto.CleanupResponse
// @Router       /api/movements/cleanup [post]
func (h *MovementHandler) Cleanup(c *fiber.Ctx) error {
	var in dto.CleanupRequest
	if len(c.Body()) > 0 {
		if e := parseBody(c, &in); e != nil {
			return c.Status(fiber.StatusBadRequest).JSON(e)
		}
	}
	days := in.RetentionDays
	if days <= 0 {
		days = h.retentionDays
	}
	removed, err := h.ledger.CleanOldMovements(c.UserContext(), days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CleanupResponse{Removed: removed, RetentionDays: days})
}
