package entity

// Inventory documento "inventory": colecciones de materiales por ubicación.
// Es un mapa para no perder colecciones desconocidas al reescribir el documento.
type Inventory map[string][]Item

// NewInventory inventario con todas las colecciones vacías.
func NewInventory() Inventory {
	inv := make(Inventory, len(InventoryCollections()))
	for _, c := range InventoryCollections() {
		inv[c] = []Item{}
	}
	return inv
}

// Get colección por nombre; vacía si no existe.
func (inv Inventory) Get(name string) []Item {
	items := inv[name]
	if items == nil {
		return []Item{}
	}
	return items
}

// Clone copia profunda de las colecciones (los Item son valores).
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		cp := make([]Item, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// Counts cantidad de materiales por colección conocida.
func (inv Inventory) Counts() map[string]int {
	out := make(map[string]int, len(InventoryCollections()))
	for _, c := range InventoryCollections() {
		out[c] = len(inv[c])
	}
	return out
}

// MachineState documento "machines": materiales dentro de cada máquina.
type MachineState map[string][]Item

// NewMachineState las seis máquinas vacías.
func NewMachineState() MachineState {
	ms := make(MachineState, len(validMachines))
	for _, m := range validMachines {
		ms[string(m)] = []Item{}
	}
	return ms
}

// Get materiales de una máquina; vacío si no existe.
func (ms MachineState) Get(name string) []Item {
	items := ms[name]
	if items == nil {
		return []Item{}
	}
	return items
}

// Clone copia profunda.
func (ms MachineState) Clone() MachineState {
	out := make(MachineState, len(ms))
	for k, v := range ms {
		cp := make([]Item, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// IndexOfID posición del material con ese id en la colección, -1 si no está.
func IndexOfID(items []Item, id string) int {
	if id == "" {
		return -1
	}
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// IndexOfName posición del primer material con ese nombre, -1 si no está.
func IndexOfName(items []Item, name string) int {
	if name == "" {
		return -1
	}
	for i, it := range items {
		if it.Name == name {
			return i
		}
	}
	return -1
}

// HasCode indica si algún material de cualquier colección (no máquinas) usa ese código.
func (inv Inventory) HasCode(code string) bool {
	if code == "" {
		return false
	}
	for _, items := range inv {
		for _, it := range items {
			if it.Code == code {
				return true
			}
		}
	}
	return false
}
