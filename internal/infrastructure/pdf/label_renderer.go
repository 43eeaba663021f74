package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
)

// Etiqueta de 100 x 70 mm.
const (
	labelWidth  = 100
	labelHeight = 70
)

// RenderLabel genera la etiqueta imprimible con el QR y los datos del material.
func (r *MarotoRenderer) RenderLabel(_ context.Context, p entity.QRPayload, qrText string) ([]byte, error) {
	if qrText == "" {
		return nil, fmt.Errorf("pdf: etiqueta sin contenido QR")
	}
	cfg := config.NewBuilder().
		WithDimensions(labelWidth, labelHeight).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(2).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Etiqueta "+nonEmpty(p.Code, p.ID), true).
		WithAuthor(r.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(p.Name, props.Text{Style: fontstyle.Bold, Size: 11, Color: colorPrimary}),
	)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(48).Add(
		col.New(5).Add(code.NewQr(qrText, props.Rect{Percent: 95, Center: true})),
		col.New(7).Add(
			labelField("Código", nonEmpty(p.Code, "—"), 2),
			labelField("Medida", nonEmpty(p.Measure, "—"), 10),
			labelField("Peso", p.Weight.String(), 18),
			labelField("Lote", nonEmpty(p.Lot, "—"), 26),
			labelField("Ingreso", nonEmpty(p.EntryDate, "—"), 34),
			labelField("Ubicación", nonEmpty(entity.ParseLocation(p.Location).Label(), "—"), 42),
		),
	))
	m.AddRows(row.New(4).Add(col.New(12).Add(
		text.New(p.ID, props.Text{Size: 5.5, Align: align.Center, Color: colorGray}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiqueta: %w", err)
	}
	return doc.GetBytes(), nil
}

func labelField(label, value string, top float64) core.Component {
	return text.New(label+": "+value, props.Text{Size: 8, Top: top, Left: 2})
}
