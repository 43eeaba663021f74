package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Stockeando-api/internal/application/analytics"
	"github.com/jhoicas/Stockeando-api/internal/application/dto"
	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
)

// AnalyticsHandler reportes de movimientos y rechazos (protegido).
type AnalyticsHandler struct {
	uc *appanalytics.ReportUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *appanalytics.ReportUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// reportFilter parsea from/to (YYYY-MM-DD) y plant de la query.
func reportFilter(c *fiber.Ctx) (dto.ReportFilter, *dto.ErrorResponse) {
	var q dto.ReportQuery
	if e := parseQuery(c, &q); e != nil {
		return dto.ReportFilter{}, e
	}
	f := dto.ReportFilter{Plant: q.Plant}
	if q.From != "" {
		f.From, _ = time.Parse(entity.DateLayout, q.From)
	}
	if q.To != "" {
		f.To, _ = time.Parse(entity.DateLayout, q.To)
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return f, &dto.ErrorResponse{Code: "VALIDATION", Message: "to no puede ser anterior a from"}
	}
	return f, nil
}

// GetReport godoc
// @Summary      Reporte de movimientos
// @Description  Tarjetas de resumen, eficiencia por planta, rechazos por motivo, serie diaria
//
//	y productos con más movimientos. Sin filtros usa todo el historial.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from   query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to     query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Param        plant  query  int     false  "Planta 1..3"
// @Success      200  {object}  dto.ReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports [get]
func (h *AnalyticsHandler) GetReport(c *fiber.Ctx) error {
	f, e := reportFilter(c)
	if e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	report, err := h.uc.Report(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// MovementsCSV godoc
// @Summary      Exportar movimientos filtrados a CSV
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Param        from   query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to     query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Param        plant  query  int     false  "Planta 1..3"
// @Success      200
// @Router       /api/reports/movements.csv [get]
func (h *AnalyticsHandler) MovementsCSV(c *fiber.Ctx) error {
	f, e := reportFilter(c)
	if e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.uc.MovementsCSV(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Attachment("movimientos-" + time.Now().Format(entity.DateLayout) + ".csv")
	return c.Send(out)
}

// ReportPDF godoc
// @Summary      Exportar el reporte a PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        from   query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to     query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Param        plant  query  int     false  "Planta 1..3"
// @Success      200
// @Router       /api/reports/report.pdf [get]
func (h *AnalyticsHandler) ReportPDF(c *fiber.Ctx) error {
	f, e := reportFilter(c)
	if e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.uc.ReportPDF(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment("reporte-" + time.Now().Format(entity.DateLayout) + ".pdf")
	return c.Send(out)
}
