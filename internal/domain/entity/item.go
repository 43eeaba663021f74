package entity

import (
	"bytes"
	"encoding/json"
)

// PlaceholderText valor que se usa en los campos de texto de un material desconocido.
const PlaceholderText = "N/A"

// Item material físico (materia prima) que se mueve entre ubicaciones.
// Un solo registro por material: mover significa sacarlo de una colección y
// agregarlo a otra.
type Item struct {
	ID               string `json:"id,omitempty"`
	Name             string `json:"name"`
	Measure          string `json:"measure,omitempty"`
	Weight           Weight `json:"weight"`
	Lot              string `json:"lot,omitempty"`
	Code             string `json:"code,omitempty"`
	EntryDate        string `json:"entryDate,omitempty"`
	MachineEntryDate string `json:"machineEntryDate,omitempty"`
	Category         string `json:"category,omitempty"`
	QRURL            string `json:"qrUrl,omitempty"`
}

// UnmarshalJSON tolera lo que haya quedado persistido: el formato viejo de
// las máquinas (un string con el nombre) y campos de texto guardados como
// números. Solo falla si el valor no es ni objeto ni string.
func (it *Item) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullJSON) {
		*it = Item{}
		return nil
	}
	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*it = Item{Name: name}
		return nil
	}
	var f map[string]json.RawMessage
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	var w Weight
	_ = w.UnmarshalJSON(f["weight"])
	*it = Item{
		ID:               looseText(f["id"]),
		Name:             looseText(f["name"]),
		Measure:          looseText(f["measure"]),
		Weight:           w,
		Lot:              looseText(f["lot"]),
		Code:             looseText(f["code"]),
		EntryDate:        looseText(f["entryDate"]),
		MachineEntryDate: looseText(f["machineEntryDate"]),
		Category:         looseText(f["category"]),
		QRURL:            looseText(f["qrUrl"]),
	}
	return nil
}

// IsComplete indica si el registro tiene los datos de negocio y no solo
// {id, name} como quedan algunos materiales en máquinas.
func (it Item) IsComplete() bool {
	return it.Code != "" || it.Lot != ""
}

// DedupKey clave compuesta (nombre, lote, código) para detectar duplicados exactos.
func (it Item) DedupKey() string {
	return it.Name + "\x00" + it.Lot + "\x00" + it.Code
}

// ProductSnapshot copia del material embebida en cada movimiento.
// Unknown=true marca el registro de reemplazo cuando el material no se encontró;
// así se distingue "material desconocido" de un material real llamado "N/A".
type ProductSnapshot struct {
	Item
	Unknown bool `json:"unknown,omitempty"`
}

// SnapshotOf copia un material encontrado.
func SnapshotOf(it Item) ProductSnapshot {
	return ProductSnapshot{Item: it}
}

// PlaceholderSnapshot registro de reemplazo con todos los campos en "N/A".
func PlaceholderSnapshot(productID string) ProductSnapshot {
	return ProductSnapshot{
		Item: Item{
			ID:        productID,
			Name:      PlaceholderText,
			Measure:   PlaceholderText,
			Lot:       PlaceholderText,
			Code:      PlaceholderText,
			EntryDate: PlaceholderText,
		},
		Unknown: true,
	}
}

// DisplayName nombre para reportes: si el material es desconocido se usa el id.
func (s ProductSnapshot) DisplayName(productID string) string {
	if s.Unknown || s.Name == "" {
		if productID != "" {
			return productID
		}
		return PlaceholderText
	}
	return s.Name
}

// UnmarshalJSON necesario porque Item define el suyo y se promovería,
// perdiendo la marca Unknown.
func (s *ProductSnapshot) UnmarshalJSON(data []byte) error {
	var it Item
	if err := it.UnmarshalJSON(data); err != nil {
		return err
	}
	var flag struct {
		Unknown bool `json:"unknown"`
	}
	if d := bytes.TrimSpace(data); len(d) > 0 && d[0] == '{' {
		_ = json.Unmarshal(d, &flag)
	}
	*s = ProductSnapshot{Item: it, Unknown: flag.Unknown}
	return nil
}
