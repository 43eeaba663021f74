package repository

import (
	"context"

	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
)

// InventoryRepository documento "inventory" (lectura-modificación-escritura completa).
type InventoryRepository interface {
	Get(ctx context.Context) (entity.Inventory, error)
	Save(ctx context.Context, inv entity.Inventory) error
}

// MachineRepository documento "machines".
type MachineRepository interface {
	Get(ctx context.Context) (entity.MachineState, error)
	Save(ctx context.Context, ms entity.MachineState) error
}

// CounterRepository contador persistente para la generación de códigos.
type CounterRepository interface {
	Get(ctx context.Context) (int, error)
	Set(ctx context.Context, value int) error
}

// CategoryRepository documento "categories" (opaco para este servicio).
type CategoryRepository interface {
	Get(ctx context.Context) ([]byte, error)
}
