// Package inventory mantiene las colecciones de materiales por ubicación
// (inventario y máquinas) y la unicidad de los códigos de negocio.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Stockeando-api/internal/application/ledger"
	"github.com/jhoicas/Stockeando-api/internal/domain"
	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
	"github.com/jhoicas/Stockeando-api/internal/domain/repository"
)

// EntryOrigin origen que se registra al ingresar un material nuevo.
const EntryOrigin = "ingreso"

// Registry inventario por ubicación. Cada mutación lee el documento completo,
// modifica una copia local y lo reescribe; las escrituras concurrentes deben
// serializarse afuera (un solo escritor).
type Registry struct {
	inventory  repository.InventoryRepository
	machines   repository.MachineRepository
	rejections repository.RejectionRepository
	ledger     *ledger.Service
	codes      *CodeGenerator
	log        zerolog.Logger
	now        func() time.Time
	loc        *time.Location
	newID      func() string
}

// NewRegistry construye el registro. loc se usa para las fechas cortas (entrada a máquina, ingreso).
func NewRegistry(
	inventory repository.InventoryRepository,
	machines repository.MachineRepository,
	rejections repository.RejectionRepository,
	ledgerSvc *ledger.Service,
	codes *CodeGenerator,
	loc *time.Location,
	log zerolog.Logger,
) *Registry {
	if loc == nil {
		loc = time.UTC
	}
	return &Registry{
		inventory:  inventory,
		machines:   machines,
		rejections: rejections,
		ledger:     ledgerSvc,
		codes:      codes,
		log:        log.With().Str("component", "registry").Logger(),
		now:        time.Now,
		loc:        loc,
		newID:      uuid.NewString,
	}
}

// WithClock reemplaza el reloj (tests).
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

func (r *Registry) today() string {
	return r.now().In(r.loc).Format(entity.DateLayout)
}

// Get materiales de una ubicación en orden. Una ubicación desconocida o sin
// inicializar devuelve una colección vacía.
func (r *Registry) Get(ctx context.Context, location string) ([]entity.Item, error) {
	loc := entity.ParseLocation(location)
	if loc.IsMachine() {
		ms, err := r.machines.Get(ctx)
		if err != nil {
			return nil, err
		}
		return ms.Get(loc.Collection()), nil
	}
	inv, err := r.inventory.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !loc.Valid() {
		return inv.Get(location), nil
	}
	return inv.Get(loc.Collection()), nil
}

// Put reemplaza la colección completa de una ubicación.
func (r *Registry) Put(ctx context.Context, location string, items []entity.Item) error {
	loc := entity.ParseLocation(location)
	if !loc.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidLocation, location)
	}
	if items == nil {
		items = []entity.Item{}
	}
	if loc.IsMachine() {
		ms, err := r.machines.Get(ctx)
		if err != nil {
			return err
		}
		ms[loc.Collection()] = items
		return r.machines.Save(ctx, ms)
	}
	inv, err := r.inventory.Get(ctx)
	if err != nil {
		return err
	}
	inv[loc.Collection()] = items
	return r.inventory.Save(ctx, inv)
}

// IsCodeUnique indica si ningún material de las colecciones del inventario
// (sin máquinas) usa el código.
func (r *Registry) IsCodeUnique(ctx context.Context, code string) (bool, error) {
	inv, err := r.inventory.Get(ctx)
	if err != nil {
		return false, err
	}
	return !inv.HasCode(code), nil
}

// GenerateUniqueCode genera un código que no existe en el inventario actual.
func (r *Registry) GenerateUniqueCode(ctx context.Context, name string) (string, error) {
	inv, err := r.inventory.Get(ctx)
	if err != nil {
		return "", err
	}
	return r.codes.Generate(ctx, name, inv.HasCode)
}

// Codes generador compartido con el validador.
func (r *Registry) Codes() *CodeGenerator { return r.codes }

// CurrentLocation ubicación actual del material según el ledger.
func (r *Registry) CurrentLocation(ctx context.Context, itemID string) (string, bool, error) {
	return r.ledger.CurrentLocation(ctx, itemID)
}

// NewItemInput datos de un material nuevo. Code vacío = se genera.
type NewItemInput struct {
	Name      string
	Measure   string
	Weight    entity.Weight
	Lot       string
	EntryDate string
	Code      string
	Category  string
}

// AddItem registra un material nuevo en location (no se admite ingresar
// directamente a una máquina ni a rechazados) y su movimiento de ingreso.
func (r *Registry) AddItem(ctx context.Context, location string, in NewItemInput) (entity.Item, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return entity.Item{}, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	loc := entity.ParseLocation(location)
	if !loc.Valid() || loc.IsMachine() || loc.Kind == entity.KindRejected {
		return entity.Item{}, fmt.Errorf("%w: %q", domain.ErrInvalidLocation, location)
	}
	inv, err := r.inventory.Get(ctx)
	if err != nil {
		return entity.Item{}, err
	}

	code := strings.TrimSpace(in.Code)
	if code == "" {
		code, err = r.codes.Generate(ctx, in.Name, inv.HasCode)
		if err != nil {
			return entity.Item{}, err
		}
	} else if inv.HasCode(code) {
		return entity.Item{}, fmt.Errorf("%w: %s", domain.ErrDuplicateCode, code)
	}

	entryDate := in.EntryDate
	if entryDate == "" {
		entryDate = r.today()
	}
	item := entity.Item{
		ID:        r.newID(),
		Name:      in.Name,
		Measure:   in.Measure,
		Weight:    in.Weight,
		Lot:       in.Lot,
		Code:      code,
		EntryDate: entryDate,
		Category:  in.Category,
	}
	coll := loc.Collection()
	inv[coll] = append(inv.Get(coll), item)
	if err := r.inventory.Save(ctx, inv); err != nil {
		return entity.Item{}, err
	}
	if _, err := r.ledger.RegisterMovement(ctx, item.ID, EntryOrigin, coll, "Ingreso de material", entity.MovementDetails{}); err != nil {
		return entity.Item{}, err
	}
	r.log.Info().Str("item_id", item.ID).Str("code", item.Code).Str("location", coll).Msg("material ingresado")
	return item, nil
}

// MoveItem saca el material en la posición index de from y lo agrega al final
// de to. Si index no existe en from no hace nada (devuelve nil, nil): el
// llamador es quien valida la posición. Al entrar a una máquina se anota la
// fecha de entrada y al salir se borra. Mover a rechazados equivale a
// RejectItem con el usuario de la sesión.
func (r *Registry) MoveItem(ctx context.Context, itemID, from, to string, index int, reason string) (*entity.Item, error) {
	if entity.ParseLocation(to).Kind == entity.KindRejected {
		return r.RejectItem(ctx, itemID, from, index, reason, "")
	}
	return r.move(ctx, itemID, from, to, index, reason, nil)
}

// RejectItem mueve el material a rechazados, registra el rechazo en el ledger
// (con motivo y quién rechazó) y agrega el registro para los reportes.
func (r *Registry) RejectItem(ctx context.Context, itemID, from string, index int, reason, rejectedBy string) (*entity.Item, error) {
	if strings.TrimSpace(rejectedBy) == "" {
		rejectedBy = ledger.ActorFromContext(ctx)
	}
	return r.move(ctx, itemID, from, entity.RejectedSink, index, reason, &rejection{reason: reason, rejectedBy: rejectedBy})
}

type rejection struct {
	reason     string
	rejectedBy string
}

func (r *Registry) move(ctx context.Context, itemID, from, to string, index int, reason string, rej *rejection) (*entity.Item, error) {
	fromLoc := entity.ParseLocation(from)
	toLoc := entity.ParseLocation(to)
	if !fromLoc.Valid() {
		return nil, fmt.Errorf("%w: origen %q", domain.ErrInvalidLocation, from)
	}
	if !toLoc.Valid() {
		return nil, fmt.Errorf("%w: destino %q", domain.ErrInvalidLocation, to)
	}

	inv, err := r.inventory.Get(ctx)
	if err != nil {
		return nil, err
	}
	ms, err := r.machines.Get(ctx)
	if err != nil {
		return nil, err
	}
	col := func(l entity.Location) []entity.Item {
		if l.IsMachine() {
			return ms.Get(l.Collection())
		}
		return inv.Get(l.Collection())
	}
	set := func(l entity.Location, items []entity.Item) {
		if l.IsMachine() {
			ms[l.Collection()] = items
			return
		}
		inv[l.Collection()] = items
	}

	src := col(fromLoc)
	if index < 0 || index >= len(src) {
		r.log.Warn().Str("item_id", itemID).Str("from", fromLoc.Collection()).Int("index", index).
			Int("size", len(src)).Msg("posición inexistente, movimiento ignorado")
		return nil, nil
	}

	item := src[index]
	if itemID != "" && item.ID != "" && item.ID != itemID {
		r.log.Warn().Str("item_id", itemID).Str("record_id", item.ID).Int("index", index).
			Msg("el id pedido no coincide con el registro, se usa el del registro")
	}
	if item.ID == "" {
		item.ID = itemID
		if item.ID == "" {
			item.ID = r.newID()
		}
	}

	rest := make([]entity.Item, 0, len(src)-1)
	rest = append(rest, src[:index]...)
	rest = append(rest, src[index+1:]...)
	set(fromLoc, rest)

	switch {
	case toLoc.IsMachine():
		item.MachineEntryDate = r.today()
	case fromLoc.IsMachine():
		item.MachineEntryDate = ""
	}
	set(toLoc, append(col(toLoc), item))

	if !fromLoc.IsMachine() || !toLoc.IsMachine() {
		if err := r.inventory.Save(ctx, inv); err != nil {
			return nil, err
		}
	}
	if fromLoc.IsMachine() || toLoc.IsMachine() {
		if err := r.machines.Save(ctx, ms); err != nil {
			return nil, err
		}
	}

	if reason == "" {
		reason = DefaultReason(fromLoc, toLoc)
	}
	if rej != nil {
		if _, err := r.ledger.RegisterRejection(ctx, item.ID, fromLoc.LedgerName(), reason, rej.rejectedBy); err != nil {
			return nil, err
		}
		if err := r.appendRejection(ctx, item, fromLoc, rej); err != nil {
			return nil, err
		}
	} else {
		if _, err := r.ledger.RegisterMovement(ctx, item.ID, fromLoc.LedgerName(), toLoc.LedgerName(), reason, entity.MovementDetails{}); err != nil {
			return nil, err
		}
	}
	return &item, nil
}

func (r *Registry) appendRejection(ctx context.Context, item entity.Item, from entity.Location, rej *rejection) error {
	records, err := r.rejections.List(ctx)
	if err != nil {
		return err
	}
	plant, _ := from.PlantNumber()
	records = append(records, entity.RejectionRecord{
		ID:           r.newID(),
		ProductID:    item.ID,
		Name:         item.Name,
		PlantNumber:  plant,
		Reason:       rej.reason,
		RejectedBy:   rej.rejectedBy,
		Date:         r.now().UTC().Format(time.RFC3339),
		MaterialData: item,
	})
	if err := r.rejections.Save(ctx, records); err != nil {
		return fmt.Errorf("guardar rechazo: %w", err)
	}
	return nil
}

// DefaultReason motivo por defecto según el tipo de movimiento.
func DefaultReason(from, to entity.Location) string {
	switch {
	case to.IsMachine():
		return "Movido a máquina para procesamiento"
	case from.IsMachine():
		return "Retornado a depósito desde máquina"
	case to.Kind == entity.KindRejected:
		return "Rechazado"
	case to.Kind == entity.KindPlant:
		return fmt.Sprintf("Enviado a planta %d", to.Plant)
	case to.Kind == entity.KindTransit:
		return "Enviado a tránsito"
	case to.Kind == entity.KindOrders:
		return "Asignado a pedido"
	case to.Kind == entity.KindEliminated:
		return "Eliminado"
	}
	return "Movimiento de inventario"
}

// ResetPlants vacía todas las colecciones del inventario, recrea las seis
// máquinas vacías y borra el índice por material. Movimientos, categorías y
// QR no se tocan.
func (r *Registry) ResetPlants(ctx context.Context) error {
	if err := r.inventory.Save(ctx, entity.NewInventory()); err != nil {
		return err
	}
	if err := r.machines.Save(ctx, entity.NewMachineState()); err != nil {
		return err
	}
	if err := r.ledger.ClearProductStates(ctx); err != nil {
		return err
	}
	r.log.Info().Msg("plantas reiniciadas")
	return nil
}

// Snapshot inventario y máquinas actuales (lectura).
func (r *Registry) Snapshot(ctx context.Context) (entity.Inventory, entity.MachineState, error) {
	inv, err := r.inventory.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	ms, err := r.machines.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	return inv, ms, nil
}
