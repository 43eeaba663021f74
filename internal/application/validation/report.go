package validation

// CodeChange código regenerado por colisión.
type CodeChange struct {
	Collection string `json:"collection"`
	ItemID     string `json:"itemId"`
	OldCode    string `json:"oldCode"`
	NewCode    string `json:"newCode"`
}

// OwnershipFix material que estaba en más de una colección.
type OwnershipFix struct {
	ItemID  string   `json:"itemId"`
	Kept    string   `json:"kept"`
	Removed []string `json:"removed"`
}

// Mismatch material cuya colección no coincide con la ubicación del ledger.
// Solo se informa, no se corrige.
type Mismatch struct {
	ItemID          string `json:"itemId"`
	Collection      string `json:"collection"`
	CurrentLocation string `json:"currentLocation"`
}

// InventoryReport resultado de la pasada sobre el inventario.
type InventoryReport struct {
	Changed            bool           `json:"changed"`
	CreatedCollections []string       `json:"createdCollections,omitempty"`
	IDsAssigned        int            `json:"idsAssigned"`
	DuplicatesRemoved  map[string]int `json:"duplicatesRemoved,omitempty"`
	CodesRegenerated   []CodeChange   `json:"codesRegenerated,omitempty"`
	OwnershipFixed     []OwnershipFix `json:"ownershipFixed,omitempty"`
	Mismatches         []Mismatch     `json:"mismatches,omitempty"`
}

// MachineReport resultado de la pasada sobre las máquinas. InventoryChanged
// indica que se sacó de una colección del inventario la copia de un material
// que quedó en una máquina.
type MachineReport struct {
	Changed           bool           `json:"changed"`
	InventoryChanged  bool           `json:"inventoryChanged,omitempty"`
	BucketsDropped    []string       `json:"bucketsDropped,omitempty"`
	LegacyMerged      []string       `json:"legacyMerged,omitempty"`
	DuplicatesRemoved map[string]int `json:"duplicatesRemoved,omitempty"`
	OwnershipFixed    []OwnershipFix `json:"ownershipFixed,omitempty"`
	OrphansRemoved    map[string]int `json:"orphansRemoved,omitempty"`
}

// Report resultado combinado de Run.
type Report struct {
	Changed   bool            `json:"changed"`
	Inventory InventoryReport `json:"inventory"`
	Machines  MachineReport   `json:"machines"`
}
