package analytics

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Stockeando-api/internal/application/dto"
	"github.com/jhoicas/Stockeando-api/internal/application/ports"
	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
	"github.com/jhoicas/Stockeando-api/internal/domain/repository"
)

// ReportUseCase reportes sobre el ledger y los rechazos.
type ReportUseCase struct {
	movements  repository.MovementRepository
	rejections repository.RejectionRepository
	renderer   ports.ReportRenderer
	now        func() time.Time
}

// NewReportUseCase construye el caso de uso. renderer puede ser nil (sin PDF).
func NewReportUseCase(movements repository.MovementRepository, rejections repository.RejectionRepository, renderer ports.ReportRenderer) *ReportUseCase {
	return &ReportUseCase{movements: movements, rejections: rejections, renderer: renderer, now: time.Now}
}

func (uc *ReportUseCase) load(ctx context.Context) ([]entity.Movement, []entity.RejectionRecord, error) {
	movs, err := uc.movements.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("reporte: movimientos: %w", err)
	}
	rejs, err := uc.rejections.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("reporte: rechazos: %w", err)
	}
	return movs, rejs, nil
}

// Report reporte completo para el filtro.
func (uc *ReportUseCase) Report(ctx context.Context, f dto.ReportFilter) (*dto.ReportDTO, error) {
	movs, rejs, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	r := BuildReport(movs, rejs, f, uc.now())
	return &r, nil
}

// MovementsCSV exporte CSV de los movimientos filtrados.
func (uc *ReportUseCase) MovementsCSV(ctx context.Context, f dto.ReportFilter) ([]byte, error) {
	movs, rejs, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteMovementsCSV(&buf, Filter(movs, rejs, f).Movements); err != nil {
		return nil, fmt.Errorf("reporte: csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ReportPDF reporte en PDF.
func (uc *ReportUseCase) ReportPDF(ctx context.Context, f dto.ReportFilter) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("reporte: pdf no disponible")
	}
	r, err := uc.Report(ctx, f)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderReport(ctx, *r)
}
