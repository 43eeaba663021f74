// Package pdf genera los documentos PDF del sistema: el reporte de análisis
// y la etiqueta QR de cada material.
//
// Layout del reporte (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + rango de fechas │ Fecha de generación     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TARJETAS: Movimientos / Productos / Rechazos / Éxito        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Planta | Procesados | Rechazados | Éxito | Peso      │
//	│  TABLA: Motivo de rechazo | Cantidad                        │
//	│  TABLA: Fecha | Producto | Origen | Destino | Peso | Lote   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Stockeando-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 176, Green: 32, Blue: 38}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoRenderer implementa ports.ReportRenderer y ports.LabelRenderer usando Maroto v2.
type MarotoRenderer struct {
	author string
}

// NewMarotoRenderer construye el renderer; author se escribe en los metadatos del PDF.
func NewMarotoRenderer(author string) *MarotoRenderer {
	if author == "" {
		author = "Stockeando"
	}
	return &MarotoRenderer{author: author}
}

// RenderReport genera el PDF del reporte y devuelve sus bytes.
func (r *MarotoRenderer) RenderReport(_ context.Context, report dto.ReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de movimientos", true).
		WithAuthor(r.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(reportHeaderRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(statsRow(report.Stats))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("EFICIENCIA POR PLANTA"))
	m.AddRows(plantHeaderRow())
	m.AddRows(plantRows(report.PlantEfficiency)...)

	if len(report.RejectionsByReason) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(sectionTitle("RECHAZOS POR MOTIVO"))
		m.AddRows(reasonRows(report.RejectionsByReason)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle(fmt.Sprintf("MOVIMIENTOS (%d)", len(report.Movements))))
	m.AddRows(movementHeaderRow())
	m.AddRows(movementRows(report.Movements)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func reportHeaderRow(report dto.ReportDTO) core.Row {
	rango := "Todo el historial"
	if !report.Filter.From.IsZero() || !report.Filter.To.IsZero() {
		rango = fmt.Sprintf("Del %s al %s",
			dateOr(report.Filter.From, "inicio"),
			dateOr(report.Filter.To, "hoy"))
	}
	if report.Filter.Plant > 0 {
		rango += fmt.Sprintf("   |   Planta %d", report.Filter.Plant)
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE MOVIMIENTOS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(rango, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func statsRow(s dto.ReportStatsDTO) core.Row {
	card := func(label, value string, color *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(value, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Center, Color: color, Top: 6,
			}),
		)
	}
	return row.New(16).Add(
		card("Movimientos", fmt.Sprint(s.TotalMovements), colorPrimary),
		card("Productos únicos", fmt.Sprint(s.UniqueProducts), colorPrimary),
		card("Rechazados", fmt.Sprint(s.Rejected), colorDanger),
		card("Tasa de éxito", s.SuccessRate.StringFixed(1)+"%", colorPrimary),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
}

func plantHeaderRow() core.Row {
	return row.New(6).Add(
		headerCell("Planta", 4, align.Left),
		headerCell("Procesados", 2, align.Center),
		headerCell("Rechazados", 2, align.Center),
		headerCell("Éxito", 2, align.Center),
		headerCell("Peso (kg)", 2, align.Right),
	)
}

func plantRows(plants []dto.PlantEfficiencyDTO) []core.Row {
	result := make([]core.Row, 0, len(plants))
	for _, p := range plants {
		result = append(result, row.New(6).Add(
			cell(p.Label, 4, align.Left),
			cell(fmt.Sprint(p.Processed), 2, align.Center),
			cell(fmt.Sprint(p.Rejected), 2, align.Center),
			cell(p.SuccessRate.StringFixed(1)+"%", 2, align.Center),
			cell(p.TotalWeight.StringFixed(1), 2, align.Right),
		))
	}
	return result
}

func reasonRows(reasons []dto.ReasonCountDTO) []core.Row {
	result := make([]core.Row, 0, len(reasons))
	for _, rc := range reasons {
		result = append(result, row.New(6).Add(
			cell(rc.Reason, 10, align.Left),
			cell(fmt.Sprint(rc.Count), 2, align.Right),
		))
	}
	return result
}

func movementHeaderRow() core.Row {
	return row.New(6).Add(
		headerCell("Fecha", 2, align.Left),
		headerCell("Producto", 3, align.Left),
		headerCell("Origen", 2, align.Left),
		headerCell("Destino", 2, align.Left),
		headerCell("Peso", 1, align.Right),
		headerCell("Lote", 2, align.Left),
	)
}

func movementRows(movs []dto.MovementRowDTO) []core.Row {
	result := make([]core.Row, 0, len(movs))
	for _, mv := range movs {
		result = append(result, row.New(5).Add(
			cell(mv.Date, 2, align.Left),
			cell(mv.Product, 3, align.Left),
			cell(mv.From, 2, align.Left),
			cell(mv.To, 2, align.Left),
			cell(mv.Weight, 1, align.Right),
			cell(nonEmpty(mv.Lot, "—"), 2, align.Left),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a,
		Color: colorPrimary, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func dateOr(t time.Time, fallback string) string {
	if t.IsZero() {
		return fallback
	}
	return t.Format("02/01/2006")
}
