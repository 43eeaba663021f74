package ports

// Diagnostics puerto de salida para hacer observables los caminos degradados
// (datos de reemplazo, documentos ilegibles, reparaciones del validador).
// El logging estructurado lo hace cada servicio; este puerto alimenta métricas.
type Diagnostics interface {
	MovementRecorded(to string)
	PlaceholderUsed(productID string)
	DocumentUnreadable(key string)
	DuplicatesRemoved(collection string, n int)
	CodeRegenerated(collection string)
	MachineEntriesDropped(bucket, reason string, n int)
	OwnershipConflict(itemID string)
	LocationMismatch(itemID string)
}

// NopDiagnostics implementación vacía (tests, CLI).
type NopDiagnostics struct{}

func (NopDiagnostics) MovementRecorded(string)                   {}
func (NopDiagnostics) PlaceholderUsed(string)                    {}
func (NopDiagnostics) DocumentUnreadable(string)                 {}
func (NopDiagnostics) DuplicatesRemoved(string, int)             {}
func (NopDiagnostics) CodeRegenerated(string)                    {}
func (NopDiagnostics) MachineEntriesDropped(string, string, int) {}
func (NopDiagnostics) OwnershipConflict(string)                  {}
func (NopDiagnostics) LocationMismatch(string)                   {}

var _ Diagnostics = NopDiagnostics{}
