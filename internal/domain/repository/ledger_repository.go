package repository

import (
	"context"

	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
)

// MovementRepository documento "movements": ledger plano en orden de inserción.
type MovementRepository interface {
	List(ctx context.Context) ([]entity.Movement, error)
	Save(ctx context.Context, movements []entity.Movement) error
}

// ProductStateRepository documento "product_states": índice por material.
type ProductStateRepository interface {
	GetAll(ctx context.Context) (entity.ProductStates, error)
	Save(ctx context.Context, states entity.ProductStates) error
	Clear(ctx context.Context) error
}

// RejectionRepository documento "rejections".
type RejectionRepository interface {
	List(ctx context.Context) ([]entity.RejectionRecord, error)
	Save(ctx context.Context, records []entity.RejectionRecord) error
}

// QRRepository documento "qr_codes".
type QRRepository interface {
	List(ctx context.Context) ([]entity.QRSnapshot, error)
	Save(ctx context.Context, codes []entity.QRSnapshot) error
}
