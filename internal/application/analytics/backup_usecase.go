package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Stockeando-api/internal/application/dto"
	"github.com/jhoicas/Stockeando-api/internal/application/ledger"
	"github.com/jhoicas/Stockeando-api/internal/application/ports"
	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
	"github.com/jhoicas/Stockeando-api/internal/domain/repository"
)

// ErrBackupSinkDisabled no hay destino de respaldos configurado.
var ErrBackupSinkDisabled = errors.New("destino de respaldos no configurado")

// BackupUseCase respaldo completo y su importación (solo ledger).
type BackupUseCase struct {
	ledger     *ledger.Service
	inventory  repository.InventoryRepository
	categories repository.CategoryRepository
	sink       ports.BackupSink
	log        zerolog.Logger
}

// NewBackupUseCase sink puede ser nil.
func NewBackupUseCase(l *ledger.Service, inventory repository.InventoryRepository, categories repository.CategoryRepository, sink ports.BackupSink, log zerolog.Logger) *BackupUseCase {
	return &BackupUseCase{
		ledger:     l,
		inventory:  inventory,
		categories: categories,
		sink:       sink,
		log:        log.With().Str("component", "backup").Logger(),
	}
}

// Build ledger + inventario + categorías + estadísticas.
func (uc *BackupUseCase) Build(ctx context.Context) (*dto.BackupDTO, error) {
	exp, err := uc.ledger.ExportData(ctx)
	if err != nil {
		return nil, err
	}
	inv, err := uc.inventory.Get(ctx)
	if err != nil {
		return nil, err
	}
	cats, err := uc.categories.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.BackupDTO{
		ProductStates: exp.ProductStates,
		Movements:     exp.Movements,
		Inventory:     inv,
		Categories:    cats,
		Stats: dto.BackupStatsDTO{
			Movements: entity.ComputeMovementStats(exp.Movements, exp.ExportDate),
			Inventory: inv.Counts(),
		},
		ExportDate: exp.ExportDate,
	}, nil
}

// FileName nombre del respaldo para una fecha.
func FileName(t time.Time) string {
	return fmt.Sprintf("stockeando-backup-%s.json", t.UTC().Format(entity.DateLayout))
}

// Upload genera el respaldo y lo sube al destino configurado.
func (uc *BackupUseCase) Upload(ctx context.Context) (*dto.BackupUploadResponse, error) {
	if uc.sink == nil {
		return nil, ErrBackupSinkDisabled
	}
	b, err := uc.Build(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("respaldo: codificar: %w", err)
	}
	name := FileName(b.ExportDate)
	location, err := uc.sink.Upload(ctx, name, bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("respaldo: subir: %w", err)
	}
	uc.log.Info().Str("name", name).Str("location", location).Int("bytes", len(payload)).Msg("respaldo subido")
	return &dto.BackupUploadResponse{Name: name, Location: location, Bytes: int64(len(payload))}, nil
}

// Import sobrescribe product_states y/o movements. Inventario y categorías
// del respaldo se ignoran.
func (uc *BackupUseCase) Import(ctx context.Context, payload []byte) (*dto.ImportResponse, error) {
	doc, err := ledger.DecodeImport(payload)
	if err != nil {
		return nil, err
	}
	if err := uc.ledger.ImportData(ctx, doc); err != nil {
		return nil, err
	}
	return &dto.ImportResponse{ProductStates: doc.ProductStates != nil, Movements: doc.Movements != nil}, nil
}
