package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var nullJSON = []byte("null")

// looseText lee un campo de texto tal como haya quedado persistido: strings,
// números y booleanos se conservan como texto; null, objetos y arrays quedan vacíos.
func looseText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, nullJSON) {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{', '[':
		return ""
	}
	return string(raw)
}

// looseTextMap como looseText para un objeto de strings.
func looseTextMap(raw json.RawMessage) map[string]string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = looseText(v)
	}
	return out
}

// Formatos de fecha aceptados al leer movimientos viejos. Los que no traen
// zona se interpretan en UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayout,
	"1/2/2006, 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006",
}

// ParseTimestamp acepta RFC3339, fechas cortas, el formato M/D/AAAA y
// milisegundos epoch (número o string numérico).
func ParseTimestamp(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, nullJSON) {
		return time.Time{}, fmt.Errorf("timestamp vacío")
	}
	s := looseText(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("timestamp ilegible: %s", raw)
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp ilegible: %q", s)
}
