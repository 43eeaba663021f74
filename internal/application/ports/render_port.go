package ports

import (
	"context"

	"github.com/jhoicas/Stockeando-api/internal/application/dto"
	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
)

// ReportRenderer genera el PDF del reporte de análisis.
type ReportRenderer interface {
	RenderReport(ctx context.Context, report dto.ReportDTO) ([]byte, error)
}

// LabelRenderer genera la etiqueta PDF con el QR de un material.
type LabelRenderer interface {
	RenderLabel(ctx context.Context, payload entity.QRPayload, qrText string) ([]byte, error)
}
