// Package analytics agrega el ledger y los rechazos en reportes de solo
// lectura: tarjetas de resumen, eficiencia por planta, rechazos por motivo,
// serie diaria, productos más movidos, exportes CSV/PDF, resumen del
// dashboard y respaldo completo.
package analytics

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Stockeando-api/internal/application/dto"
	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
)

const (
	topProducts      = 10
	movementsInTable = 100
	unspecified      = "Sin especificar"
)

var hundred = decimal.NewFromInt(100)

// Filtered movimientos y rechazos que pasan el filtro.
type Filtered struct {
	Movements  []entity.Movement
	Rejections []entity.RejectionRecord
}

// dayRange límites [from, to+24h) en UTC. ok=false si el filtro no tiene fechas.
func dayRange(f dto.ReportFilter) (from, to time.Time, ok bool) {
	if f.From.IsZero() || f.To.IsZero() {
		return time.Time{}, time.Time{}, false
	}
	from = time.Date(f.From.Year(), f.From.Month(), f.From.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(f.To.Year(), f.To.Month(), f.To.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	return from, to, true
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

// parseRecordDate acepta RFC3339 o YYYY-MM-DD.
func parseRecordDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(entity.DateLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Filter aplica rango de fechas y planta. Los rechazos se filtran por fecha
// también cuando hay filtro de planta.
func Filter(movements []entity.Movement, rejections []entity.RejectionRecord, f dto.ReportFilter) Filtered {
	from, to, dated := dayRange(f)
	out := Filtered{Movements: []entity.Movement{}, Rejections: []entity.RejectionRecord{}}
	for _, m := range movements {
		if dated && !inRange(m.Timestamp, from, to) {
			continue
		}
		if f.Plant > 0 && !m.TouchesPlant(f.Plant) {
			continue
		}
		out.Movements = append(out.Movements, m)
	}
	for _, r := range rejections {
		if dated {
			t, ok := parseRecordDate(r.Date)
			if !ok || !inRange(t, from, to) {
				continue
			}
		}
		if f.Plant > 0 && r.PlantNumber != f.Plant {
			continue
		}
		out.Rejections = append(out.Rejections, r)
	}
	return out
}

// successRate (movimientos - rechazos) / movimientos * 100 con un decimal; 0 sin movimientos.
func successRate(movements, rejected int) decimal.Decimal {
	if movements == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(movements - rejected)).
		Div(decimal.NewFromInt(int64(movements))).
		Mul(hundred).
		Round(1)
}

func sumWeight(movements []entity.Movement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.ProductData.Weight.Decimal())
	}
	return total
}

// BuildReport arma el reporte completo. Es puro: no accede al almacenamiento.
func BuildReport(movements []entity.Movement, rejections []entity.RejectionRecord, f dto.ReportFilter, now time.Time) dto.ReportDTO {
	data := Filter(movements, rejections, f)
	return dto.ReportDTO{
		Filter:             f,
		Stats:              stats(data),
		PlantEfficiency:    plantEfficiency(data),
		RejectionsByReason: rejectionsByReason(data.Rejections),
		Daily:              daily(data.Movements),
		TopProducts:        topProductsByCount(data.Movements),
		Movements:          movementRows(data.Movements),
		Rejections:         rejectionRows(data.Rejections),
		GeneratedAt:        now.UTC(),
	}
}

func stats(data Filtered) dto.ReportStatsDTO {
	unique := map[string]struct{}{}
	plants := map[int]struct{}{}
	for _, m := range data.Movements {
		unique[m.ProductData.DisplayName(m.ProductID)] = struct{}{}
		if p, ok := m.FromLocation().PlantNumber(); ok {
			plants[p] = struct{}{}
		}
		if p, ok := m.ToLocation().PlantNumber(); ok {
			plants[p] = struct{}{}
		}
	}
	return dto.ReportStatsDTO{
		TotalMovements: len(data.Movements),
		UniqueProducts: len(unique),
		Rejected:       len(data.Rejections),
		SuccessRate:    successRate(len(data.Movements), len(data.Rejections)),
		TotalWeight:    sumWeight(data.Movements).Round(1),
		ActivePlants:   len(plants),
	}
}

func plantEfficiency(data Filtered) []dto.PlantEfficiencyDTO {
	out := make([]dto.PlantEfficiencyDTO, 0, entity.PlantCount)
	for n := 1; n <= entity.PlantCount; n++ {
		var movs []entity.Movement
		for _, m := range data.Movements {
			if m.TouchesPlant(n) {
				movs = append(movs, m)
			}
		}
		rejected := 0
		for _, r := range data.Rejections {
			if r.PlantNumber == n {
				rejected++
			}
		}
		out = append(out, dto.PlantEfficiencyDTO{
			Plant:       n,
			Label:       "Planta " + strconv.Itoa(n),
			Processed:   len(movs),
			Rejected:    rejected,
			SuccessRate: successRate(len(movs), rejected),
			TotalWeight: sumWeight(movs).Round(1),
		})
	}
	return out
}

func rejectionsByReason(rejections []entity.RejectionRecord) []dto.ReasonCountDTO {
	counts := map[string]int{}
	for _, r := range rejections {
		reason := r.Reason
		if reason == "" {
			reason = unspecified
		}
		counts[reason]++
	}
	out := make([]dto.ReasonCountDTO, 0, len(counts))
	for reason, n := range counts {
		out = append(out, dto.ReasonCountDTO{Reason: reason, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Reason < out[j].Reason
	})
	return out
}

func daily(movements []entity.Movement) []dto.DailyCountDTO {
	counts := map[string]int{}
	for _, m := range movements {
		counts[m.Timestamp.UTC().Format(entity.DateLayout)]++
	}
	out := make([]dto.DailyCountDTO, 0, len(counts))
	for d, n := range counts {
		out = append(out, dto.DailyCountDTO{Date: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func topProductsByCount(movements []entity.Movement) []dto.ProductCountDTO {
	counts := map[string]int{}
	for _, m := range movements {
		counts[m.ProductData.DisplayName(m.ProductID)]++
	}
	out := make([]dto.ProductCountDTO, 0, len(counts))
	for name, n := range counts {
		out = append(out, dto.ProductCountDTO{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > topProducts {
		out = out[:topProducts]
	}
	return out
}

// ShortDate fecha d/m/aaaa (formato de los exportes).
func ShortDate(t time.Time) string {
	t = t.UTC()
	return strconv.Itoa(t.Day()) + "/" + strconv.Itoa(int(t.Month())) + "/" + strconv.Itoa(t.Year())
}

func orNA(s string) string {
	if s == "" {
		return entity.PlaceholderText
	}
	return s
}

func weightLabel(w entity.Weight) string {
	if !w.Valid || w.Value.IsZero() {
		return entity.PlaceholderText
	}
	return w.Value.String() + "kg"
}

func movementRows(movements []entity.Movement) []dto.MovementRowDTO {
	n := len(movements)
	if n > movementsInTable {
		n = movementsInTable
	}
	out := make([]dto.MovementRowDTO, 0, n)
	for _, m := range movements[:n] {
		out = append(out, dto.MovementRowDTO{
			Date:    ShortDate(m.Timestamp),
			Product: m.ProductData.DisplayName(m.ProductID),
			From:    m.FromLocation().Label(),
			To:      m.ToLocation().Label(),
			Weight:  weightLabel(m.ProductData.Weight),
			Lot:     orNA(m.ProductData.Lot),
		})
	}
	return out
}

func rejectionRows(rejections []entity.RejectionRecord) []dto.RejectionRowDTO {
	out := make([]dto.RejectionRowDTO, 0, len(rejections))
	for _, r := range rejections {
		name := r.MaterialData.Name
		if name == "" {
			name = r.Name
		}
		plant := entity.PlaceholderText
		if r.PlantNumber > 0 {
			plant = strconv.Itoa(r.PlantNumber)
		}
		out = append(out, dto.RejectionRowDTO{
			Date:       orNA(r.Date),
			Name:       orNA(name),
			Plant:      "Planta " + plant,
			Reason:     orNA(r.Reason),
			RejectedBy: orNA(r.RejectedBy),
			Weight:     weightLabel(r.MaterialData.Weight),
		})
	}
	return out
}
