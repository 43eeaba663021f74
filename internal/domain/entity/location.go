package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Nombres de colecciones del inventario (claves del documento "inventory").
const (
	CollectionDeposit    = "deposito"
	CollectionTransit    = "transito"
	CollectionOrders     = "pedidos"
	CollectionEliminated = "eliminados"
	CollectionRejected   = "rechazados"
)

// RejectedSink destino sintético que registra el ledger para los rechazos.
const RejectedSink = "rejected"

// PlantCount cantidad de plantas de producción.
const PlantCount = 3

// LocationKind tipo de ubicación.
type LocationKind string

const (
	KindUnknown    LocationKind = ""
	KindDeposit    LocationKind = "deposit"
	KindTransit    LocationKind = "transit"
	KindOrders     LocationKind = "orders"
	KindEliminated LocationKind = "eliminated"
	KindRejected   LocationKind = "rejected"
	KindPlant      LocationKind = "plant"
	KindMachine    LocationKind = "machine"
)

// MachineID identificador de una máquina de procesamiento. El conjunto válido
// es cerrado: dos máquinas (A y B) por planta.
type MachineID string

const (
	Plant1MachineA MachineID = "plant1MachineA"
	Plant1MachineB MachineID = "plant1MachineB"
	Plant2MachineA MachineID = "plant2MachineA"
	Plant2MachineB MachineID = "plant2MachineB"
	Plant3MachineA MachineID = "plant3MachineA"
	Plant3MachineB MachineID = "plant3MachineB"
)

var validMachines = []MachineID{
	Plant1MachineA, Plant1MachineB,
	Plant2MachineA, Plant2MachineB,
	Plant3MachineA, Plant3MachineB,
}

// Nombres viejos de las máquinas de la planta 2.
var legacyMachineAliases = map[string]MachineID{
	"machineA": Plant2MachineA,
	"machineB": Plant2MachineB,
}

// ValidMachines devuelve el conjunto de máquinas válidas en orden estable.
func ValidMachines() []MachineID {
	out := make([]MachineID, len(validMachines))
	copy(out, validMachines)
	return out
}

// ParseMachineID valida un nombre de máquina. legacy=true si se reconoció un alias viejo.
func ParseMachineID(s string) (id MachineID, legacy bool, ok bool) {
	for _, m := range validMachines {
		if string(m) == s {
			return m, false, true
		}
	}
	if m, found := legacyMachineAliases[s]; found {
		return m, true, true
	}
	return "", false, false
}

// Plant número de planta de la máquina (1..3).
func (m MachineID) Plant() int {
	n, _ := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(string(m), "plant"), "Machine"+m.Slot()))
	return n
}

// Slot letra de la máquina dentro de la planta ("A" o "B").
func (m MachineID) Slot() string {
	s := string(m)
	if s == "" {
		return ""
	}
	return s[len(s)-1:]
}

// PlantCollection nombre de la colección de depósito de una planta.
func PlantCollection(n int) string { return fmt.Sprintf("planta%d", n) }

// PlantCollections colecciones de las tres plantas.
func PlantCollections() []string {
	out := make([]string, 0, PlantCount)
	for i := 1; i <= PlantCount; i++ {
		out = append(out, PlantCollection(i))
	}
	return out
}

// InventoryCollections todas las colecciones del documento de inventario.
func InventoryCollections() []string {
	return []string{
		CollectionDeposit, CollectionTransit, CollectionOrders,
		PlantCollection(1), PlantCollection(2), PlantCollection(3),
		CollectionEliminated, CollectionRejected,
	}
}

// Location identificador estructurado de una ubicación. Se decide una sola vez
// al parsear el nombre persistido; el resto del código no compara strings.
type Location struct {
	Kind    LocationKind
	Plant   int
	Machine MachineID
	Raw     string
}

// ParseLocation interpreta un nombre de ubicación tal como aparece en el
// inventario o en el ledger. Reconoce las variantes históricas
// ("planta1_deposit", "plant1deposit", "plant1") y los alias de máquinas.
func ParseLocation(raw string) Location {
	s := strings.TrimSpace(raw)
	loc := Location{Raw: raw}
	switch s {
	case CollectionDeposit:
		loc.Kind = KindDeposit
		return loc
	case CollectionTransit:
		loc.Kind = KindTransit
		return loc
	case CollectionOrders:
		loc.Kind = KindOrders
		return loc
	case CollectionEliminated:
		loc.Kind = KindEliminated
		return loc
	case CollectionRejected, RejectedSink:
		loc.Kind = KindRejected
		return loc
	}
	if m, _, ok := ParseMachineID(s); ok {
		loc.Kind = KindMachine
		loc.Machine = m
		loc.Plant = m.Plant()
		return loc
	}
	if n, ok := parsePlantName(s); ok {
		loc.Kind = KindPlant
		loc.Plant = n
	}
	return loc
}

// parsePlantName reconoce "planta1", "planta1_deposit", "plant1deposit", "plant1".
func parsePlantName(s string) (int, bool) {
	rest := ""
	switch {
	case strings.HasPrefix(s, "planta"):
		rest = strings.TrimPrefix(s, "planta")
	case strings.HasPrefix(s, "plant"):
		rest = strings.TrimPrefix(s, "plant")
	default:
		return 0, false
	}
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	switch rest[i:] {
	case "", "_deposit", "deposit", "_deposito":
	default:
		return 0, false
	}
	n, err := strconv.Atoi(rest[:i])
	if err != nil || n < 1 || n > PlantCount {
		return 0, false
	}
	return n, true
}

// Valid indica si la ubicación fue reconocida.
func (l Location) Valid() bool { return l.Kind != KindUnknown }

// IsMachine indica si es una máquina.
func (l Location) IsMachine() bool { return l.Kind == KindMachine }

// PlantNumber número de planta asociado (plantas y máquinas).
func (l Location) PlantNumber() (int, bool) {
	if (l.Kind == KindPlant || l.Kind == KindMachine) && l.Plant > 0 {
		return l.Plant, true
	}
	return 0, false
}

// Collection colección (o máquina) que guarda físicamente un material en esta
// ubicación. El destino "rejected" del ledger corresponde a "rechazados".
func (l Location) Collection() string {
	switch l.Kind {
	case KindDeposit:
		return CollectionDeposit
	case KindTransit:
		return CollectionTransit
	case KindOrders:
		return CollectionOrders
	case KindEliminated:
		return CollectionEliminated
	case KindRejected:
		return CollectionRejected
	case KindPlant:
		return PlantCollection(l.Plant)
	case KindMachine:
		return string(l.Machine)
	}
	return ""
}

// LedgerName nombre que se registra en los movimientos.
func (l Location) LedgerName() string {
	if l.Kind == KindRejected {
		return RejectedSink
	}
	if c := l.Collection(); c != "" {
		return c
	}
	return l.Raw
}

// Label etiqueta legible en español para reportes y exportes.
func (l Location) Label() string {
	switch l.Kind {
	case KindDeposit:
		return "Depósito"
	case KindTransit:
		return "Tránsito"
	case KindOrders:
		return "Pedidos"
	case KindEliminated:
		return "Eliminados"
	case KindRejected:
		return "Rechazado"
	case KindPlant, KindMachine:
		return fmt.Sprintf("Planta %d", l.Plant)
	}
	return l.Raw
}

// String nombre canónico.
func (l Location) String() string { return l.LedgerName() }
