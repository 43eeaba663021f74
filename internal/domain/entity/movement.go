package entity

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// DefaultActor usuario que se registra cuando no hay sesión.
const DefaultActor = "sistema"

// Movement evento del ledger: transición de un material entre dos ubicaciones.
// Una vez escrito no se edita ni se reordena.
type Movement struct {
	ID            string            `json:"id"`
	ProductID     string            `json:"productId"`
	From          string            `json:"from"`
	To            string            `json:"to"`
	Reason        string            `json:"reason"`
	ProductData   ProductSnapshot   `json:"productData"`
	User          string            `json:"user"`
	Timestamp     time.Time         `json:"timestamp"`
	RejectedBy    string            `json:"rejectedBy,omitempty"`
	RejectionDate string            `json:"rejectionDate,omitempty"`
	Extra         map[string]string `json:"details,omitempty"`
}

// UnmarshalJSON repara lo reparable de un movimiento viejo: textos numéricos,
// fechas en otros formatos y productData ilegible (queda como material
// desconocido). Sin timestamp legible el movimiento no se puede ubicar en el
// ledger y se devuelve error.
func (m *Movement) UnmarshalJSON(data []byte) error {
	var f map[string]json.RawMessage
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("movimiento nulo")
	}
	ts, err := ParseTimestamp(f["timestamp"])
	if err != nil {
		return fmt.Errorf("movimiento %q: %w", looseText(f["id"]), err)
	}
	productID := looseText(f["productId"])
	var snap ProductSnapshot
	if raw, ok := f["productData"]; ok {
		if err := snap.UnmarshalJSON(raw); err != nil {
			snap = PlaceholderSnapshot(productID)
		}
	}
	*m = Movement{
		ID:            looseText(f["id"]),
		ProductID:     productID,
		From:          looseText(f["from"]),
		To:            looseText(f["to"]),
		Reason:        looseText(f["reason"]),
		ProductData:   snap,
		User:          looseText(f["user"]),
		Timestamp:     ts,
		RejectedBy:    looseText(f["rejectedBy"]),
		RejectionDate: looseText(f["rejectionDate"]),
		Extra:         looseTextMap(f["details"]),
	}
	return nil
}

// FromLocation ubicación de origen ya parseada.
func (m Movement) FromLocation() Location { return ParseLocation(m.From) }

// ToLocation ubicación de destino ya parseada.
func (m Movement) ToLocation() Location { return ParseLocation(m.To) }

// IsRejection indica si el movimiento es un rechazo.
func (m Movement) IsRejection() bool { return m.To == RejectedSink }

// TouchesPlant indica si origen o destino pertenecen a la planta n.
func (m Movement) TouchesPlant(n int) bool {
	if p, ok := m.FromLocation().PlantNumber(); ok && p == n {
		return true
	}
	if p, ok := m.ToLocation().PlantNumber(); ok && p == n {
		return true
	}
	return false
}

// MovementDetails datos adicionales de un movimiento.
type MovementDetails struct {
	RejectedBy    string
	RejectionDate string
	Extra         map[string]string
}

// ProductState índice derivado por material: ubicación actual + historial completo.
type ProductState struct {
	CurrentLocation string     `json:"currentLocation"`
	History         []Movement `json:"history"`
}

// ProductStates documento "product_states".
type ProductStates map[string]*ProductState

// MovementStats resumen del ledger.
type MovementStats struct {
	Total      int            `json:"total"`
	Today      int            `json:"today"`
	Rejected   int            `json:"rejected"`
	ByLocation map[string]int `json:"byLocation"`
}

// ComputeMovementStats calcula el resumen. "Hoy" compara la fecha ISO (UTC)
// del timestamp con la de now.
func ComputeMovementStats(movements []Movement, now time.Time) MovementStats {
	today := now.UTC().Format(DateLayout)
	stats := MovementStats{Total: len(movements), ByLocation: map[string]int{}}
	for _, m := range movements {
		if m.Timestamp.UTC().Format(DateLayout) == today {
			stats.Today++
		}
		if m.IsRejection() {
			stats.Rejected++
		}
		stats.ByLocation[m.To]++
	}
	return stats
}

// SortByTimestamp ordena de más antiguo a más nuevo sin romper el orden de inserción en empates.
func SortByTimestamp(movements []Movement) {
	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].Timestamp.Before(movements[j].Timestamp)
	})
}

// DateLayout formato de fecha corta (YYYY-MM-DD).
const DateLayout = "2006-01-02"
