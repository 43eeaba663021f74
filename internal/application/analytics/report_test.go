package analytics_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stockeando-api/internal/application/analytics"
	"github.com/jhoicas/Stockeando-api/internal/application/dto"
	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
)

func day(d, h int) time.Time { return time.Date(2024, 3, d, h, 0, 0, 0, time.UTC) }

func resina() entity.ProductSnapshot {
	return entity.SnapshotOf(entity.Item{ID: "p1", Name: "Resina", Weight: entity.WeightFromFloat(10)})
}

func fixture() ([]entity.Movement, []entity.RejectionRecord) {
	movs := []entity.Movement{
		{ProductID: "p1", From: "deposito", To: "planta1", ProductData: resina(), Timestamp: day(1, 10)},
		{ProductID: "p1", From: "planta1", To: entity.RejectedSink, ProductData: resina(), Timestamp: day(2, 23)},
		{ProductID: "p2", From: "deposito", To: "planta2", ProductData: entity.PlaceholderSnapshot("p2"), Timestamp: day(3, 0)},
		{ProductID: "p2", From: "planta2", To: "transito", ProductData: entity.PlaceholderSnapshot("p2"), Timestamp: day(5, 9)},
	}
	rejs := []entity.RejectionRecord{
		{ProductID: "p1", Name: "Resina", PlantNumber: 1, Reason: "fisura", RejectedBy: "ana", Date: "2024-03-02T23:00:00Z"},
		{ProductID: "p9", Name: "Lámina", PlantNumber: 1, Date: "2024-03-02"},
		{ProductID: "p2", Name: "", PlantNumber: 2, Reason: "fisura", Date: "2024-03-10T08:00:00Z"},
	}
	return movs, rejs
}

func TestBuildReport_RangoDeDias(t *testing.T) {
	movs, rejs := fixture()
	f := dto.ReportFilter{From: day(1, 0), To: day(2, 0)}
	r := analytics.BuildReport(movs, rejs, f, day(20, 0))

	assert.Equal(t, 2, r.Stats.TotalMovements)
	assert.Equal(t, 1, r.Stats.UniqueProducts)
	assert.Equal(t, 2, r.Stats.Rejected)
	assert.Equal(t, "0", r.Stats.SuccessRate.String())
	assert.Equal(t, "20", r.Stats.TotalWeight.String())
	assert.Equal(t, 1, r.Stats.ActivePlants)
	assert.Equal(t, []dto.DailyCountDTO{{Date: "2024-03-01", Count: 1}, {Date: "2024-03-02", Count: 1}}, r.Daily)
	assert.Equal(t, day(20, 0), r.GeneratedAt)
}

// El día "to" se incluye completo y el siguiente no.
func TestFilter_FinExclusivo(t *testing.T) {
	movs, rejs := fixture()
	got := analytics.Filter(movs, rejs, dto.ReportFilter{From: day(2, 0), To: day(2, 0)})
	require.Len(t, got.Movements, 1)
	assert.Equal(t, entity.RejectedSink, got.Movements[0].To)
	assert.Len(t, got.Rejections, 2)
}

func TestFilter_PlantaTambienFiltraRechazosPorFecha(t *testing.T) {
	movs, rejs := fixture()
	got := analytics.Filter(movs, rejs, dto.ReportFilter{From: day(9, 0), To: day(11, 0), Plant: 2})
	assert.Empty(t, got.Movements)
	require.Len(t, got.Rejections, 1)
	assert.Equal(t, "p2", got.Rejections[0].ProductID)

	got = analytics.Filter(movs, rejs, dto.ReportFilter{Plant: 2})
	assert.Len(t, got.Movements, 2)
	assert.Len(t, got.Rejections, 1)
}

func TestBuildReport_SinFiltro(t *testing.T) {
	movs, rejs := fixture()
	r := analytics.BuildReport(movs, rejs, dto.ReportFilter{}, day(20, 0))

	assert.Equal(t, 4, r.Stats.TotalMovements)
	assert.Equal(t, 2, r.Stats.UniqueProducts)
	assert.Equal(t, "25", r.Stats.SuccessRate.String())
	assert.Equal(t, 2, r.Stats.ActivePlants)

	require.Len(t, r.PlantEfficiency, 3)
	assert.Equal(t, dto.PlantEfficiencyDTO{Plant: 1, Label: "Planta 1", Processed: 2, Rejected: 2}, withoutDecimals(r.PlantEfficiency[0]))
	assert.Equal(t, "0", r.PlantEfficiency[0].SuccessRate.String())
	assert.Equal(t, "50", r.PlantEfficiency[1].SuccessRate.String())
	assert.Equal(t, "0", r.PlantEfficiency[2].SuccessRate.String())

	assert.Equal(t, []dto.ReasonCountDTO{{Reason: "fisura", Count: 2}, {Reason: "Sin especificar", Count: 1}}, r.RejectionsByReason)
	assert.Equal(t, []dto.ProductCountDTO{{Name: "Resina", Count: 2}, {Name: "p2", Count: 2}}, r.TopProducts)

	require.Len(t, r.Movements, 4)
	assert.Equal(t, dto.MovementRowDTO{Date: "1/3/2024", Product: "Resina", From: "Depósito", To: "Planta 1", Weight: "10kg", Lot: "N/A"}, r.Movements[0])
	assert.Equal(t, "Rechazado", r.Movements[1].To)
	assert.Equal(t, "N/A", r.Movements[2].Weight)

	require.Len(t, r.Rejections, 3)
	assert.Equal(t, "Planta 1", r.Rejections[0].Plant)
	assert.Equal(t, "N/A", r.Rejections[1].Reason)
	assert.Equal(t, "N/A", r.Rejections[2].Name)
}

func TestBuildReport_TasaNegativa(t *testing.T) {
	movs, rejs := fixture()
	r := analytics.BuildReport(movs[:1], rejs[:2], dto.ReportFilter{}, day(20, 0))
	assert.Equal(t, "-100", r.Stats.SuccessRate.String())

	empty := analytics.BuildReport(nil, nil, dto.ReportFilter{}, day(20, 0))
	assert.Equal(t, "0", empty.Stats.SuccessRate.String())
	assert.NotNil(t, empty.Movements)
	assert.NotNil(t, empty.RejectionsByReason)
}

func TestWriteMovementsCSV(t *testing.T) {
	movs, _ := fixture()
	movs[0].ProductData.Name = `Bobina "X"`
	movs[0].ProductData.Lot = "L1"
	var buf bytes.Buffer
	require.NoError(t, analytics.WriteMovementsCSV(&buf, movs[:3]))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, analytics.CSVHeader, lines[0])
	assert.Equal(t, `1/3/2024,"Bobina ""X""","Depósito","Planta 1",10,"L1"`, lines[1])
	assert.Equal(t, `2/3/2024,"Resina","Planta 1","Rechazado",10,"N/A"`, lines[2])
	assert.Equal(t, `3/3/2024,"p2","Depósito","Planta 2",N/A,"N/A"`, lines[3])
}

func withoutDecimals(p dto.PlantEfficiencyDTO) dto.PlantEfficiencyDTO {
	return dto.PlantEfficiencyDTO{Plant: p.Plant, Label: p.Label, Processed: p.Processed, Rejected: p.Rejected}
}
