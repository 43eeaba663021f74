// Package validation repara el inventario y las máquinas: ids faltantes,
// duplicados, códigos repetidos, materiales en más de una colección y
// entradas huérfanas en máquinas. Es idempotente: una segunda pasada seguida
// no cambia nada.
package validation

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Stockeando-api/internal/application/inventory"
	"github.com/jhoicas/Stockeando-api/internal/application/ports"
	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
	"github.com/jhoicas/Stockeando-api/internal/domain/repository"
)

// Validator pasada de consistencia.
type Validator struct {
	inventory repository.InventoryRepository
	machines  repository.MachineRepository
	states    repository.ProductStateRepository
	codes     *inventory.CodeGenerator
	log       zerolog.Logger
	diag      ports.Diagnostics
	newID     func() string
}

// NewValidator construye el validador. diag puede ser nil.
func NewValidator(
	inv repository.InventoryRepository,
	machines repository.MachineRepository,
	states repository.ProductStateRepository,
	codes *inventory.CodeGenerator,
	log zerolog.Logger,
	diag ports.Diagnostics,
) *Validator {
	if diag == nil {
		diag = ports.NopDiagnostics{}
	}
	return &Validator{
		inventory: inv,
		machines:  machines,
		states:    states,
		codes:     codes,
		log:       log.With().Str("component", "validator").Logger(),
		diag:      diag,
		newID:     uuid.NewString,
	}
}

// Run ejecuta ambas pasadas y persiste solo los documentos que cambiaron.
func (v *Validator) Run(ctx context.Context) (Report, error) {
	inv, err := v.inventory.Get(ctx)
	if err != nil {
		return Report{}, err
	}
	ms, err := v.machines.Get(ctx)
	if err != nil {
		return Report{}, err
	}
	states, err := v.states.GetAll(ctx)
	if err != nil {
		return Report{}, err
	}

	invReport, err := v.ValidateInventory(ctx, inv, states)
	if err != nil {
		return Report{}, err
	}
	msReport := v.ValidateMachines(ms, inv, states)

	if invReport.Changed || msReport.InventoryChanged {
		if err := v.inventory.Save(ctx, inv); err != nil {
			return Report{}, fmt.Errorf("guardar inventario validado: %w", err)
		}
	}
	if msReport.Changed {
		if err := v.machines.Save(ctx, ms); err != nil {
			return Report{}, fmt.Errorf("guardar máquinas validadas: %w", err)
		}
	}

	rep := Report{Changed: invReport.Changed || msReport.Changed, Inventory: invReport, Machines: msReport}
	v.log.Info().Bool("changed", rep.Changed).Int("ids_assigned", invReport.IDsAssigned).
		Int("codes_regenerated", len(invReport.CodesRegenerated)).
		Int("ownership_fixed", len(invReport.OwnershipFixed)+len(msReport.OwnershipFixed)).
		Int("mismatches", len(invReport.Mismatches)).
		Strs("buckets_dropped", msReport.BucketsDropped).
		Msg("validación completada")
	return rep, nil
}

// ValidateInventory repara inv en el lugar. states se usa para decidir qué
// copia conservar cuando un material aparece en varias colecciones y para
// informar diferencias con el ledger.
func (v *Validator) ValidateInventory(ctx context.Context, inv entity.Inventory, states entity.ProductStates) (InventoryReport, error) {
	rep := InventoryReport{DuplicatesRemoved: map[string]int{}}

	// 1. colecciones presentes
	for _, c := range entity.InventoryCollections() {
		if inv[c] == nil {
			inv[c] = []entity.Item{}
			rep.CreatedCollections = append(rep.CreatedCollections, c)
		}
	}

	order := collectionOrder(inv)

	// 2. ids faltantes
	for _, c := range order {
		items := inv[c]
		for i := range items {
			if items[i].ID == "" {
				items[i].ID = v.newID()
				rep.IDsAssigned++
			}
		}
	}

	// 3. duplicados exactos dentro de cada planta
	for _, c := range entity.PlantCollections() {
		seen := make(map[string]bool, len(inv[c]))
		kept := make([]entity.Item, 0, len(inv[c]))
		for _, it := range inv[c] {
			key := it.DedupKey()
			if seen[key] {
				continue
			}
			seen[key] = true
			kept = append(kept, it)
		}
		if removed := len(inv[c]) - len(kept); removed > 0 {
			inv[c] = kept
			rep.DuplicatesRemoved[c] = removed
			v.diag.DuplicatesRemoved(c, removed)
			v.log.Warn().Str("collection", c).Int("removed", removed).Msg("duplicados eliminados")
		}
	}

	// 4. un solo dueño por id
	rep.OwnershipFixed = v.fixOwnership(inv, order, states)

	// 5. códigos únicos entre depósito y plantas
	changes, err := v.fixDuplicateCodes(ctx, inv)
	if err != nil {
		return rep, err
	}
	rep.CodesRegenerated = changes

	// 6. diferencias con el ledger (solo informe)
	rep.Mismatches = v.detectMismatches(inv, order, states)

	if len(rep.DuplicatesRemoved) == 0 {
		rep.DuplicatesRemoved = nil
	}
	rep.Changed = len(rep.CreatedCollections) > 0 || rep.IDsAssigned > 0 || rep.DuplicatesRemoved != nil ||
		len(rep.OwnershipFixed) > 0 || len(rep.CodesRegenerated) > 0
	return rep, nil
}

// collectionOrder colecciones conocidas en orden fijo y luego el resto ordenado.
func collectionOrder(inv entity.Inventory) []string {
	known := entity.InventoryCollections()
	isKnown := make(map[string]bool, len(known))
	for _, c := range known {
		isKnown[c] = true
	}
	var extra []string
	for c := range inv {
		if !isKnown[c] {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	return append(known, extra...)
}

func (v *Validator) fixOwnership(inv entity.Inventory, order []string, states entity.ProductStates) []OwnershipFix {
	holders := map[string][]string{}
	var ids []string
	for _, c := range order {
		for _, it := range inv[c] {
			hs := holders[it.ID]
			if len(hs) == 0 {
				ids = append(ids, it.ID)
			}
			holders[it.ID] = append(hs, c)
		}
	}

	var fixes []OwnershipFix
	for _, id := range ids {
		hs := holders[id]
		if len(hs) < 2 {
			continue
		}
		keep := hs[0]
		if st, ok := states[id]; ok {
			want := entity.ParseLocation(st.CurrentLocation).Collection()
			for _, h := range hs {
				if h == want {
					keep = h
					break
				}
			}
		}
		fix := OwnershipFix{ItemID: id, Kept: keep}
		removedFrom := map[string]bool{}
		for _, c := range uniq(hs) {
			keptOne := false
			filtered := make([]entity.Item, 0, len(inv[c]))
			for _, it := range inv[c] {
				if it.ID != id {
					filtered = append(filtered, it)
					continue
				}
				if c == keep && !keptOne {
					keptOne = true
					filtered = append(filtered, it)
					continue
				}
				removedFrom[c] = true
			}
			inv[c] = filtered
		}
		for _, c := range uniq(hs) {
			if removedFrom[c] {
				fix.Removed = append(fix.Removed, c)
			}
		}
		fixes = append(fixes, fix)
		v.diag.OwnershipConflict(id)
		v.log.Warn().Str("item_id", id).Str("kept", keep).Strs("removed", fix.Removed).
			Msg("material en más de una colección")
	}
	return fixes
}

func uniq(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// fixDuplicateCodes la primera aparición conserva el código; el resto recibe uno nuevo.
func (v *Validator) fixDuplicateCodes(ctx context.Context, inv entity.Inventory) ([]CodeChange, error) {
	scope := append([]string{entity.CollectionDeposit}, entity.PlantCollections()...)
	seen := map[string]bool{}
	var changes []CodeChange
	for _, c := range scope {
		items := inv[c]
		for i := range items {
			code := items[i].Code
			if code == "" {
				continue
			}
			if !seen[code] {
				seen[code] = true
				continue
			}
			newCode, err := v.codes.Generate(ctx, items[i].Name, func(candidate string) bool {
				return seen[candidate] || inv.HasCode(candidate)
			})
			if err != nil {
				return changes, err
			}
			items[i].Code = newCode
			seen[newCode] = true
			changes = append(changes, CodeChange{Collection: c, ItemID: items[i].ID, OldCode: code, NewCode: newCode})
			v.diag.CodeRegenerated(c)
			v.log.Warn().Str("collection", c).Str("item_id", items[i].ID).Str("old_code", code).
				Str("new_code", newCode).Msg("código duplicado regenerado")
		}
	}
	return changes, nil
}

func (v *Validator) detectMismatches(inv entity.Inventory, order []string, states entity.ProductStates) []Mismatch {
	var out []Mismatch
	for _, c := range order {
		for _, it := range inv[c] {
			st, ok := states[it.ID]
			if !ok || st.CurrentLocation == "" {
				continue
			}
			loc := entity.ParseLocation(st.CurrentLocation)
			if !loc.Valid() || loc.Collection() == c {
				continue
			}
			out = append(out, Mismatch{ItemID: it.ID, Collection: c, CurrentLocation: st.CurrentLocation})
			v.diag.LocationMismatch(it.ID)
			v.log.Warn().Str("item_id", it.ID).Str("collection", c).Str("current_location", st.CurrentLocation).
				Msg("la colección no coincide con la ubicación del ledger")
		}
	}
	return out
}

// ValidateMachines repara ms en el lugar: fusiona los alias viejos de la
// planta 2, descarta máquinas desconocidas, deja un solo registro por id entre
// inventario y máquinas, y saca los materiales que no se pueden relacionar con
// la planta ni con el ledger. Puede modificar inv (ver InventoryChanged).
func (v *Validator) ValidateMachines(ms entity.MachineState, inv entity.Inventory, states entity.ProductStates) MachineReport {
	rep := MachineReport{DuplicatesRemoved: map[string]int{}, OrphansRemoved: map[string]int{}}

	keys := make([]string, 0, len(ms))
	for k := range ms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		id, legacy, ok := entity.ParseMachineID(k)
		switch {
		case ok && !legacy:
			continue
		case ok && legacy:
			ms[string(id)] = append(ms.Get(string(id)), ms[k]...)
			delete(ms, k)
			rep.LegacyMerged = append(rep.LegacyMerged, k)
			v.log.Info().Str("bucket", k).Str("into", string(id)).Msg("máquina con nombre viejo fusionada")
		default:
			n := len(ms[k])
			delete(ms, k)
			rep.BucketsDropped = append(rep.BucketsDropped, k)
			v.diag.MachineEntriesDropped(k, "invalid_bucket", n)
			v.log.Warn().Str("bucket", k).Int("items", n).Msg("máquina desconocida descartada")
		}
	}

	for _, m := range entity.ValidMachines() {
		bucket := string(m)
		items, ok := ms[bucket]
		if !ok {
			continue
		}
		kept := uniqueByID(items)
		if removed := len(items) - len(kept); removed > 0 {
			ms[bucket] = kept
			rep.DuplicatesRemoved[bucket] = removed
			v.diag.DuplicatesRemoved(bucket, removed)
			v.log.Warn().Str("bucket", bucket).Int("removed", removed).Msg("ids repetidos en la máquina")
		}
	}

	rep.OwnershipFixed = v.fixMachineOwnership(ms, inv, states)
	for _, fix := range rep.OwnershipFixed {
		for _, c := range fix.Removed {
			if entity.ParseLocation(c).Kind != entity.KindMachine {
				rep.InventoryChanged = true
			}
		}
	}

	for _, m := range entity.ValidMachines() {
		bucket := string(m)
		items, ok := ms[bucket]
		if !ok {
			continue
		}
		plant := inv.Get(entity.PlantCollection(m.Plant()))
		kept := make([]entity.Item, 0, len(items))
		for _, it := range items {
			if belongsToMachine(it, bucket, plant, states) {
				kept = append(kept, it)
				continue
			}
			v.log.Warn().Str("bucket", bucket).Str("item_id", it.ID).Str("name", it.Name).
				Msg("material huérfano removido de la máquina")
		}
		if removed := len(items) - len(kept); removed > 0 {
			ms[bucket] = kept
			rep.OrphansRemoved[bucket] = removed
			v.diag.MachineEntriesDropped(bucket, "orphan", removed)
		}
	}

	if len(rep.DuplicatesRemoved) == 0 {
		rep.DuplicatesRemoved = nil
	}
	if len(rep.OrphansRemoved) == 0 {
		rep.OrphansRemoved = nil
	}
	rep.Changed = len(rep.BucketsDropped) > 0 || len(rep.LegacyMerged) > 0 || rep.DuplicatesRemoved != nil ||
		len(rep.OwnershipFixed) > 0 || rep.OrphansRemoved != nil
	return rep
}

// uniqueByID conserva la primera aparición de cada id. Los registros sin id
// (formato viejo, solo nombre) se dejan todos.
func uniqueByID(items []entity.Item) []entity.Item {
	seen := make(map[string]bool, len(items))
	out := make([]entity.Item, 0, len(items))
	for _, it := range items {
		if it.ID != "" {
			if seen[it.ID] {
				continue
			}
			seen[it.ID] = true
		}
		out = append(out, it)
	}
	return out
}

// fixMachineOwnership un id que está en una máquina y además en otra máquina o
// en una colección del inventario queda solo donde lo ubica el ledger; sin
// ledger gana la colección del inventario, y entre máquinas la primera.
func (v *Validator) fixMachineOwnership(ms entity.MachineState, inv entity.Inventory, states entity.ProductStates) []OwnershipFix {
	type holder struct {
		name    string
		machine bool
	}
	holders := map[string][]holder{}
	var ids []string
	add := func(h holder, items []entity.Item) {
		for _, it := range items {
			if it.ID == "" {
				continue
			}
			hs := holders[it.ID]
			if len(hs) > 0 && hs[len(hs)-1] == h {
				continue
			}
			if len(hs) == 0 {
				ids = append(ids, it.ID)
			}
			holders[it.ID] = append(hs, h)
		}
	}
	for _, c := range collectionOrder(inv) {
		add(holder{name: c}, inv[c])
	}
	for _, m := range entity.ValidMachines() {
		add(holder{name: string(m), machine: true}, ms[string(m)])
	}

	var fixes []OwnershipFix
	for _, id := range ids {
		hs := holders[id]
		inMachine := false
		for _, h := range hs {
			inMachine = inMachine || h.machine
		}
		if len(hs) < 2 || !inMachine {
			continue
		}
		keep := hs[0]
		if st, ok := states[id]; ok {
			want := entity.ParseLocation(st.CurrentLocation).Collection()
			for _, h := range hs {
				if h.name == want {
					keep = h
					break
				}
			}
		}
		fix := OwnershipFix{ItemID: id, Kept: keep.name}
		for _, h := range hs {
			if h == keep {
				continue
			}
			if h.machine {
				ms[h.name] = withoutID(ms[h.name], id)
			} else {
				inv[h.name] = withoutID(inv[h.name], id)
			}
			fix.Removed = append(fix.Removed, h.name)
		}
		fixes = append(fixes, fix)
		v.diag.OwnershipConflict(id)
		v.log.Warn().Str("item_id", id).Str("kept", keep.name).Strs("removed", fix.Removed).
			Msg("material en una máquina y en otra ubicación")
	}
	return fixes
}

func withoutID(items []entity.Item, id string) []entity.Item {
	out := make([]entity.Item, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

func belongsToMachine(it entity.Item, bucket string, plant []entity.Item, states entity.ProductStates) bool {
	if entity.IndexOfID(plant, it.ID) >= 0 || entity.IndexOfName(plant, it.Name) >= 0 {
		return true
	}
	if it.ID == "" {
		return false
	}
	st, ok := states[it.ID]
	return ok && entity.ParseLocation(st.CurrentLocation).Collection() == bucket
}
