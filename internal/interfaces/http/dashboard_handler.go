package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Stockeando-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del Dashboard.
type DashboardHandler struct {
	refresher *appanalytics.Refresher
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(refresher *appanalytics.Refresher) *DashboardHandler {
	return &DashboardHandler{refresher: refresher}
}

// GetSummary devuelve el último resumen calculado: estadísticas del ledger y
// cantidad de materiales por ubicación y por máquina.
// GET /api/dashboard/summary
//
// El resumen se recalcula en segundo plano y se descarta tras cada escritura.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.refresher.Latest(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
