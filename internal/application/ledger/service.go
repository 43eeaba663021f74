// Package ledger registra los movimientos de materiales: ledger plano
// (documento "movements") más el índice por material con su ubicación actual
// e historial completo (documento "product_states").
package ledger

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Stockeando-api/internal/application/ports"
	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
	"github.com/jhoicas/Stockeando-api/internal/domain/repository"
)

// DefaultRetentionDays días que se conservan en el ledger plano.
const DefaultRetentionDays = 30

// Service ledger de movimientos.
type Service struct {
	movements repository.MovementRepository
	states    repository.ProductStateRepository
	inventory repository.InventoryRepository
	machines  repository.MachineRepository
	log       zerolog.Logger
	diag      ports.Diagnostics
	now       func() time.Time
	newID     func() string
}

// NewService construye el ledger. diag puede ser nil.
func NewService(
	movements repository.MovementRepository,
	states repository.ProductStateRepository,
	inventory repository.InventoryRepository,
	machines repository.MachineRepository,
	log zerolog.Logger,
	diag ports.Diagnostics,
) *Service {
	if diag == nil {
		diag = ports.NopDiagnostics{}
	}
	return &Service{
		movements: movements,
		states:    states,
		inventory: inventory,
		machines:  machines,
		log:       log.With().Str("component", "ledger").Logger(),
		diag:      diag,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// WithClock reemplaza el reloj (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Now hora actual según el reloj del servicio.
func (s *Service) Now() time.Time { return s.now() }

// canonical normaliza nombres de ubicación conocidos; los desconocidos
// (ej. "ingreso") se registran tal cual.
func canonical(name string) string {
	loc := entity.ParseLocation(name)
	if !loc.Valid() {
		return name
	}
	return loc.LedgerName()
}

// RegisterMovement agrega el movimiento al ledger y al historial del material.
// Nunca falla por datos faltantes del material: se usa un registro de reemplazo.
// Solo devuelve error si falla el almacenamiento.
func (s *Service) RegisterMovement(ctx context.Context, productID, from, to, reason string, details entity.MovementDetails) (entity.Movement, error) {
	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return entity.Movement{}, err
	}

	movements, err := s.movements.List(ctx)
	if err != nil {
		return entity.Movement{}, err
	}
	ts := s.now().UTC()
	if n := len(movements); n > 0 && ts.Before(movements[n-1].Timestamp) {
		// reloj atrasado: no romper el orden del ledger
		ts = movements[n-1].Timestamp
	}

	mov := entity.Movement{
		ID:            s.newID(),
		ProductID:     productID,
		From:          canonical(from),
		To:            canonical(to),
		Reason:        reason,
		ProductData:   product,
		User:          ActorFromContext(ctx),
		Timestamp:     ts,
		RejectedBy:    details.RejectedBy,
		RejectionDate: details.RejectionDate,
		Extra:         details.Extra,
	}

	states, err := s.states.GetAll(ctx)
	if err != nil {
		return entity.Movement{}, err
	}
	st, ok := states[productID]
	if !ok {
		st = &entity.ProductState{History: []entity.Movement{}}
		states[productID] = st
	}
	st.History = append(st.History, mov)
	st.CurrentLocation = mov.To
	if err := s.states.Save(ctx, states); err != nil {
		return entity.Movement{}, fmt.Errorf("guardar historial: %w", err)
	}

	movements = append(movements, mov)
	if err := s.movements.Save(ctx, movements); err != nil {
		return entity.Movement{}, fmt.Errorf("guardar ledger: %w", err)
	}

	s.diag.MovementRecorded(mov.To)
	s.log.Debug().Str("product_id", productID).Str("from", mov.From).Str("to", mov.To).
		Str("user", mov.User).Msg("movimiento registrado")
	return mov, nil
}

// RegisterRejection movimiento hacia "rejected" con quién rechazó y la fecha.
func (s *Service) RegisterRejection(ctx context.Context, productID, from, reason, rejectedBy string) (entity.Movement, error) {
	return s.RegisterMovement(ctx, productID, from, entity.RejectedSink, reason, entity.MovementDetails{
		RejectedBy:    rejectedBy,
		RejectionDate: s.now().UTC().Format(entity.DateLayout),
	})
}

// lookupProduct busca el registro completo del material en todas las ubicaciones.
func (s *Service) lookupProduct(ctx context.Context, productID string) (entity.ProductSnapshot, error) {
	inv, err := s.inventory.Get(ctx)
	if err != nil {
		return entity.ProductSnapshot{}, err
	}
	primary := []string{
		entity.CollectionDeposit,
		entity.PlantCollection(1), entity.PlantCollection(2), entity.PlantCollection(3),
		entity.CollectionTransit, entity.CollectionOrders,
	}
	for _, c := range primary {
		items := inv.Get(c)
		if i := entity.IndexOfID(items, productID); i >= 0 {
			return entity.SnapshotOf(items[i]), nil
		}
	}

	ms, err := s.machines.Get(ctx)
	if err != nil {
		return entity.ProductSnapshot{}, err
	}
	for bucket, items := range orderedBuckets(ms) {
		i := entity.IndexOfID(items, productID)
		if i < 0 {
			continue
		}
		it := items[i]
		if !it.IsComplete() {
			// en máquinas puede quedar solo {id, name}: completar desde la planta
			if m, _, ok := entity.ParseMachineID(bucket); ok {
				plant := inv.Get(entity.PlantCollection(m.Plant()))
				if j := entity.IndexOfName(plant, it.Name); j >= 0 {
					full := plant[j]
					full.ID = it.ID
					full.MachineEntryDate = it.MachineEntryDate
					return entity.SnapshotOf(full), nil
				}
			}
		}
		return entity.SnapshotOf(it), nil
	}

	for _, c := range []string{entity.CollectionEliminated, entity.CollectionRejected} {
		items := inv.Get(c)
		if i := entity.IndexOfID(items, productID); i >= 0 {
			return entity.SnapshotOf(items[i]), nil
		}
	}

	s.log.Warn().Str("product_id", productID).Msg("material no encontrado, se registra con datos de reemplazo")
	s.diag.PlaceholderUsed(productID)
	return entity.PlaceholderSnapshot(productID), nil
}

// orderedBuckets recorre primero las máquinas válidas en orden fijo y luego
// cualquier otra clave del documento.
func orderedBuckets(ms entity.MachineState) iter.Seq2[string, []entity.Item] {
	return func(yield func(string, []entity.Item) bool) {
		seen := make(map[string]bool, len(ms))
		for _, m := range entity.ValidMachines() {
			seen[string(m)] = true
			if items, ok := ms[string(m)]; ok {
				if !yield(string(m), items) {
					return
				}
			}
		}
		for _, k := range sortedKeys(ms) {
			if seen[k] {
				continue
			}
			if !yield(k, ms[k]) {
				return
			}
		}
	}
}

func sortedKeys(ms entity.MachineState) []string {
	keys := make([]string, 0, len(ms))
	for k := range ms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
