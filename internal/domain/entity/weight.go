package entity

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Weight peso en kg de un material. Tolera lo que haya quedado persistido:
// números, strings numéricos, null o basura ("N/A"). Lo que no se puede leer
// queda en cero con Valid=false, así los agregados lo cuentan como 0.
type Weight struct {
	Value decimal.Decimal
	Valid bool
}

// NewWeight construye un peso válido.
func NewWeight(v decimal.Decimal) Weight { return Weight{Value: v, Valid: true} }

// WeightFromFloat atajo para tests y seeds.
func WeightFromFloat(f float64) Weight { return NewWeight(decimal.NewFromFloat(f)) }

// Decimal devuelve el valor o cero si no es válido.
func (w Weight) Decimal() decimal.Decimal {
	if !w.Valid {
		return decimal.Zero
	}
	return w.Value
}

// String representación para exportes: "N/A" si no hay peso.
func (w Weight) String() string {
	if !w.Valid {
		return "N/A"
	}
	return w.Value.String()
}

// MarshalJSON escribe el peso como número JSON, o null si no es válido.
func (w Weight) MarshalJSON() ([]byte, error) {
	if !w.Valid {
		return []byte("null"), nil
	}
	return []byte(w.Value.String()), nil
}

// UnmarshalJSON nunca falla: los valores ilegibles quedan en cero.
func (w *Weight) UnmarshalJSON(data []byte) error {
	*w = Weight{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
		raw = strings.TrimSuffix(strings.TrimSuffix(raw, "kg"), "Kg")
		raw = strings.TrimSpace(raw)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	*w = NewWeight(d)
	return nil
}
