// Package qr genera el contenido de los códigos QR de los materiales y guarda
// cada payload generado.
package qr

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Stockeando-api/internal/application/ledger"
	"github.com/jhoicas/Stockeando-api/internal/application/ports"
	"github.com/jhoicas/Stockeando-api/internal/domain"
	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
	"github.com/jhoicas/Stockeando-api/internal/domain/repository"
)

// UseCase generación de payloads QR y etiquetas.
type UseCase struct {
	inventory repository.InventoryRepository
	machines  repository.MachineRepository
	codes     repository.QRRepository
	ledger    *ledger.Service
	labels    ports.LabelRenderer
	now       func() time.Time
}

// NewUseCase labels puede ser nil (sin etiquetas PDF).
func NewUseCase(inv repository.InventoryRepository, machines repository.MachineRepository, codes repository.QRRepository, l *ledger.Service, labels ports.LabelRenderer) *UseCase {
	return &UseCase{inventory: inv, machines: machines, codes: codes, ledger: l, labels: labels, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// findItem busca el material por id en inventario y máquinas.
func (uc *UseCase) findItem(ctx context.Context, itemID string) (entity.Item, string, error) {
	inv, err := uc.inventory.Get(ctx)
	if err != nil {
		return entity.Item{}, "", err
	}
	for _, c := range entity.InventoryCollections() {
		items := inv.Get(c)
		if i := entity.IndexOfID(items, itemID); i >= 0 {
			return items[i], c, nil
		}
	}
	ms, err := uc.machines.Get(ctx)
	if err != nil {
		return entity.Item{}, "", err
	}
	for _, m := range entity.ValidMachines() {
		items := ms.Get(string(m))
		if i := entity.IndexOfID(items, itemID); i >= 0 {
			return items[i], string(m), nil
		}
	}
	return entity.Item{}, "", fmt.Errorf("%w: material %s", domain.ErrNotFound, itemID)
}

// Generate arma el payload del material, lo guarda en qr_codes y devuelve
// también su texto JSON (lo que se codifica en el QR).
func (uc *UseCase) Generate(ctx context.Context, itemID string) (*entity.QRPayload, string, error) {
	payload, text, err := uc.build(ctx, itemID)
	if err != nil {
		return nil, "", err
	}
	codes, err := uc.codes.List(ctx)
	if err != nil {
		return nil, "", err
	}
	codes = append(codes, entity.QRSnapshot{QRPayload: *payload, GeneratedAt: payload.Metadata.CreatedAt, QRID: "qr_" + uuid.NewString()})
	if err := uc.codes.Save(ctx, codes); err != nil {
		return nil, "", fmt.Errorf("qr: guardar: %w", err)
	}
	return payload, text, nil
}

func (uc *UseCase) build(ctx context.Context, itemID string) (*entity.QRPayload, string, error) {
	item, holder, err := uc.findItem(ctx, itemID)
	if err != nil {
		return nil, "", err
	}
	history, err := uc.ledger.ProductHistory(ctx, itemID)
	if err != nil {
		return nil, "", err
	}
	location := holder
	var last *entity.Movement
	if n := len(history); n > 0 {
		mv := history[n-1]
		last = &mv
		location = mv.To
	}

	now := uc.now().UTC()
	payload := entity.QRPayload{
		ID:           item.ID,
		Name:         item.Name,
		Measure:      item.Measure,
		Weight:       item.Weight,
		Lot:          item.Lot,
		Code:         item.Code,
		EntryDate:    item.EntryDate,
		Location:     location,
		LastMovement: last,
		Metadata:     entity.QRMetadata{CreatedAt: now, Version: entity.QRVersion},
	}
	text, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("qr: codificar: %w", err)
	}
	return &payload, string(text), nil
}

// Label etiqueta PDF con el QR del material. No guarda nada en qr_codes.
func (uc *UseCase) Label(ctx context.Context, itemID string) ([]byte, error) {
	if uc.labels == nil {
		return nil, fmt.Errorf("qr: etiquetas no disponibles")
	}
	payload, text, err := uc.build(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return uc.labels.RenderLabel(ctx, *payload, text)
}

// List payloads generados.
func (uc *UseCase) List(ctx context.Context) ([]entity.QRSnapshot, error) {
	return uc.codes.List(ctx)
}
