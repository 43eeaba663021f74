package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
	"github.com/jhoicas/Stockeando-api/internal/domain/repository"
)

var (
	_ repository.MovementRepository     = (*MovementRepo)(nil)
	_ repository.ProductStateRepository = (*ProductStateRepo)(nil)
	_ repository.RejectionRepository    = (*RejectionRepo)(nil)
	_ repository.QRRepository           = (*QRRepo)(nil)
	_ repository.UserRepository         = (*UserRepo)(nil)
)

// MovementRepo documento "movements".
type MovementRepo struct{ c codec }

// List devuelve el ledger en orden de inserción (vacío si no existe).
func (r *MovementRepo) List(ctx context.Context) ([]entity.Movement, error) {
	return loadList[entity.Movement](ctx, r.c, repository.KeyMovements)
}

// Save reemplaza el ledger completo.
func (r *MovementRepo) Save(ctx context.Context, movements []entity.Movement) error {
	if movements == nil {
		movements = []entity.Movement{}
	}
	return r.c.save(ctx, repository.KeyMovements, movements)
}

// ProductStateRepo documento "product_states".
type ProductStateRepo struct{ c codec }

// GetAll devuelve el índice por material (vacío si no existe).
func (r *ProductStateRepo) GetAll(ctx context.Context) (entity.ProductStates, error) {
	states := entity.ProductStates{}
	payload, found, err := r.c.loadRaw(ctx, repository.KeyProductStates)
	if err != nil || !found {
		return states, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return states, r.c.degraded(ctx, repository.KeyProductStates, payload, err)
	}
	var errs []error
	for id, entry := range raw {
		if bytes.Equal(bytes.TrimSpace(entry), []byte("null")) {
			continue
		}
		var wire struct {
			CurrentLocation string          `json:"currentLocation"`
			History         json.RawMessage `json:"history"`
		}
		if err := json.Unmarshal(entry, &wire); err != nil {
			errs = append(errs, fmt.Errorf("material %s: %w", id, err))
			continue
		}
		history, cause := decodeList[entity.Movement](wire.History)
		if cause != nil {
			errs = append(errs, fmt.Errorf("historial de %s: %w", id, cause))
		}
		states[id] = &entity.ProductState{CurrentLocation: wire.CurrentLocation, History: history}
	}
	if err := errors.Join(errs...); err != nil {
		if err := r.c.degraded(ctx, repository.KeyProductStates, payload, err); err != nil {
			return nil, err
		}
	}
	return states, nil
}

// Save reemplaza el índice completo.
func (r *ProductStateRepo) Save(ctx context.Context, states entity.ProductStates) error {
	if states == nil {
		states = entity.ProductStates{}
	}
	return r.c.save(ctx, repository.KeyProductStates, states)
}

// Clear elimina el índice.
func (r *ProductStateRepo) Clear(ctx context.Context) error {
	return r.c.store.Delete(ctx, repository.KeyProductStates)
}

// RejectionRepo documento "rejections".
type RejectionRepo struct{ c codec }

func (r *RejectionRepo) List(ctx context.Context) ([]entity.RejectionRecord, error) {
	return loadList[entity.RejectionRecord](ctx, r.c, repository.KeyRejections)
}

func (r *RejectionRepo) Save(ctx context.Context, records []entity.RejectionRecord) error {
	if records == nil {
		records = []entity.RejectionRecord{}
	}
	return r.c.save(ctx, repository.KeyRejections, records)
}

// QRRepo documento "qr_codes".
type QRRepo struct{ c codec }

func (r *QRRepo) List(ctx context.Context) ([]entity.QRSnapshot, error) {
	return loadList[entity.QRSnapshot](ctx, r.c, repository.KeyQRCodes)
}

func (r *QRRepo) Save(ctx context.Context, codes []entity.QRSnapshot) error {
	if codes == nil {
		codes = []entity.QRSnapshot{}
	}
	return r.c.save(ctx, repository.KeyQRCodes, codes)
}

// UserRepo documento "users".
type UserRepo struct{ c codec }

func (r *UserRepo) List(ctx context.Context) ([]entity.User, error) {
	return loadList[entity.User](ctx, r.c, repository.KeyUsers)
}

func (r *UserRepo) Save(ctx context.Context, users []entity.User) error {
	return r.c.save(ctx, repository.KeyUsers, users)
}
