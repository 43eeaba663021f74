package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Stockeando-api/internal/application/dto"
	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
	"github.com/jhoicas/Stockeando-api/internal/domain/repository"
)

// DashboardUseCase resumen rápido: estadísticas del ledger y cantidades por ubicación.
type DashboardUseCase struct {
	movements repository.MovementRepository
	inventory repository.InventoryRepository
	machines  repository.MachineRepository
	now       func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(movements repository.MovementRepository, inventory repository.InventoryRepository, machines repository.MachineRepository) *DashboardUseCase {
	return &DashboardUseCase{movements: movements, inventory: inventory, machines: machines, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary lee los tres documentos en paralelo.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	type movsResult struct {
		movs []entity.Movement
		err  error
	}
	type invResult struct {
		inv entity.Inventory
		err error
	}
	type msResult struct {
		ms  entity.MachineState
		err error
	}

	movsCh := make(chan movsResult, 1)
	invCh := make(chan invResult, 1)
	msCh := make(chan msResult, 1)

	go func() {
		movs, err := uc.movements.List(ctx)
		movsCh <- movsResult{movs, err}
	}()
	go func() {
		inv, err := uc.inventory.Get(ctx)
		invCh <- invResult{inv, err}
	}()
	go func() {
		ms, err := uc.machines.Get(ctx)
		msCh <- msResult{ms, err}
	}()

	movs := <-movsCh
	inv := <-invCh
	ms := <-msCh

	if movs.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos: %w", movs.err)
	}
	if inv.err != nil {
		return nil, fmt.Errorf("dashboard: inventario: %w", inv.err)
	}
	if ms.err != nil {
		return nil, fmt.Errorf("dashboard: máquinas: %w", ms.err)
	}

	now := uc.now()
	machines := make(map[string]int, len(entity.ValidMachines()))
	for _, m := range entity.ValidMachines() {
		machines[string(m)] = len(ms.ms.Get(string(m)))
	}
	return &dto.DashboardSummaryDTO{
		Movements:   entity.ComputeMovementStats(movs.movs, now),
		Inventory:   inv.inv.Counts(),
		Machines:    machines,
		RefreshedAt: now.UTC(),
	}, nil
}

// Refresher recalcula el resumen periódicamente (solo lectura) y lo deja en caché.
// Un resumen cuya lectura empezó antes de un Invalidate no se guarda.
type Refresher struct {
	uc       *DashboardUseCase
	interval time.Duration
	log      zerolog.Logger

	mu     sync.RWMutex
	latest *dto.DashboardSummaryDTO
	gen    uint64
}

// NewRefresher interval <= 0 usa 30s.
func NewRefresher(uc *DashboardUseCase, interval time.Duration, log zerolog.Logger) *Refresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Refresher{uc: uc, interval: interval, log: log.With().Str("component", "dashboard").Logger()}
}

// Run refresca de inmediato y luego cada intervalo hasta que ctx se cancele.
func (r *Refresher) Run(ctx context.Context) {
	r.refresh(ctx)
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	r.mu.RLock()
	gen := r.gen
	r.mu.RUnlock()

	s, err := r.uc.GetSummary(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.log.Warn().Err(err).Msg("no se pudo refrescar el resumen")
		}
		return
	}
	if !r.store(gen, s) {
		r.log.Debug().Msg("resumen descartado, hubo escrituras durante la lectura")
	}
}

// store guarda s si no hubo Invalidate desde que se leyó gen.
func (r *Refresher) store(gen uint64, s *dto.DashboardSummaryDTO) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return false
	}
	r.latest = s
	return true
}

// Latest último resumen calculado; si todavía no hay, lo calcula en el momento.
func (r *Refresher) Latest(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	r.mu.RLock()
	s, gen := r.latest, r.gen
	r.mu.RUnlock()
	if s != nil {
		return s, nil
	}
	s, err := r.uc.GetSummary(ctx)
	if err != nil {
		return nil, err
	}
	r.store(gen, s)
	return s, nil
}

// Invalidate descarta el resumen en caché (después de una escritura).
func (r *Refresher) Invalidate() {
	r.mu.Lock()
	r.latest = nil
	r.gen++
	r.mu.Unlock()
}
