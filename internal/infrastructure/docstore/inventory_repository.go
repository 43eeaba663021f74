package docstore

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
	"github.com/jhoicas/Stockeando-api/internal/domain/repository"
)

var (
	_ repository.InventoryRepository = (*InventoryRepo)(nil)
	_ repository.MachineRepository   = (*MachineRepo)(nil)
	_ repository.CounterRepository   = (*CounterRepo)(nil)
	_ repository.CategoryRepository  = (*CategoryRepo)(nil)
)

// InventoryRepo documento "inventory".
type InventoryRepo struct{ c codec }

// Get devuelve el inventario persistido. Sin documento: todas las colecciones vacías.
// Con documento: tal cual se guardó (las colecciones faltantes quedan ausentes
// para que el validador las detecte).
func (r *InventoryRepo) Get(ctx context.Context) (entity.Inventory, error) {
	cols, found, err := loadCollections(ctx, r.c, repository.KeyInventory)
	if err != nil {
		return nil, err
	}
	if !found {
		return entity.NewInventory(), nil
	}
	return entity.Inventory(cols), nil
}

// Save reemplaza el documento completo.
func (r *InventoryRepo) Save(ctx context.Context, inv entity.Inventory) error {
	return r.c.save(ctx, repository.KeyInventory, inv)
}

// MachineRepo documento "machines".
type MachineRepo struct{ c codec }

// Get devuelve el estado de máquinas; vacío si no existe.
func (r *MachineRepo) Get(ctx context.Context) (entity.MachineState, error) {
	cols, _, err := loadCollections(ctx, r.c, repository.KeyMachines)
	if err != nil {
		return nil, err
	}
	if cols == nil {
		return entity.MachineState{}, nil
	}
	return entity.MachineState(cols), nil
}

// Save reemplaza el documento completo.
func (r *MachineRepo) Save(ctx context.Context, ms entity.MachineState) error {
	return r.c.save(ctx, repository.KeyMachines, ms)
}

// CounterRepo contador diario de códigos.
type CounterRepo struct{ c codec }

// Get lee el contador. Acepta número o string numérico (formato viejo).
func (r *CounterRepo) Get(ctx context.Context) (int, error) {
	var raw json.RawMessage
	found, err := r.c.load(ctx, repository.KeyDailyCounter, &raw)
	if err != nil || !found {
		return 0, err
	}
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	n, convErr := strconv.Atoi(s)
	if convErr != nil || n < 0 {
		r.c.log.Warn().Str("key", repository.KeyDailyCounter).Str("value", s).
			Msg("contador ilegible, se reinicia en 0")
		return 0, nil
	}
	return n, nil
}

// Set persiste el contador.
func (r *CounterRepo) Set(ctx context.Context, value int) error {
	return r.c.save(ctx, repository.KeyDailyCounter, value)
}

// CategoryRepo documento "categories", se exporta tal cual.
type CategoryRepo struct{ c codec }

// Get devuelve el JSON crudo o "{}" si no hay categorías.
func (r *CategoryRepo) Get(ctx context.Context) ([]byte, error) {
	var raw json.RawMessage
	found, err := r.c.load(ctx, repository.KeyCategories, &raw)
	if err != nil {
		return nil, err
	}
	if !found {
		return []byte("{}"), nil
	}
	return raw, nil
}
