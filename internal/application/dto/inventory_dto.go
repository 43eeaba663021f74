package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Location  string           `json:"location" validate:"required"`
	Name      string           `json:"name" validate:"required,min=1,max=200"`
	Measure   string           `json:"measure" validate:"omitempty,max=100"`
	Weight    *decimal.Decimal `json:"weight,omitempty"`
	Lot       string           `json:"lot" validate:"omitempty,max=100"`
	EntryDate string           `json:"entry_date" validate:"omitempty,datetime=2006-01-02"`
	Code      string           `json:"code" validate:"omitempty,max=50"`
	Category  string           `json:"category" validate:"omitempty,max=100"`
}

// MoveItemRequest body para POST /api/items/move.
// Index es la posición del material en la colección de origen.
type MoveItemRequest struct {
	ItemID string `json:"item_id"`
	From   string `json:"from" validate:"required"`
	To     string `json:"to" validate:"required"`
	Index  *int   `json:"index" validate:"required,min=0"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// RejectItemRequest body para POST /api/items/reject.
type RejectItemRequest struct {
	ItemID     string `json:"item_id"`
	From       string `json:"from" validate:"required"`
	Index      *int   `json:"index" validate:"required,min=0"`
	Reason     string `json:"reason" validate:"omitempty,max=500"`
	RejectedBy string `json:"rejected_by" validate:"omitempty,max=200"`
}

// GenerateCodeRequest body para POST /api/codes/generate.
type GenerateCodeRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

// CodeResponse código generado.
type CodeResponse struct {
	Code string `json:"code"`
}

// CodeUniqueResponse respuesta de GET /api/codes/unique.
type CodeUniqueResponse struct {
	Code   string `json:"code"`
	Unique bool   `json:"unique"`
}

// LocationItemsResponse colección de una ubicación.
type LocationItemsResponse struct {
	Location string        `json:"location"`
	Items    []entity.Item `json:"items"`
}

// MoveItemResponse resultado de mover o rechazar. Moved=false si la posición no existía.
type MoveItemResponse struct {
	Moved bool         `json:"moved"`
	Item  *entity.Item `json:"item,omitempty"`
}

// CurrentLocationResponse respuesta de GET /api/items/:id/location.
type CurrentLocationResponse struct {
	ItemID   string `json:"item_id"`
	Location string `json:"location"`
	Label    string `json:"label"`
}

// CleanupRequest body opcional de POST /api/movements/cleanup.
type CleanupRequest struct {
	RetentionDays int `json:"retention_days" validate:"omitempty,min=1,max=3650"`
}

// CleanupResponse cantidad de movimientos eliminados del ledger.
type CleanupResponse struct {
	Removed       int `json:"removed"`
	RetentionDays int `json:"retention_days"`
}

// MovementsPage listado paginado del ledger.
type MovementsPage struct {
	Items []entity.Movement `json:"items"`
	Page  PageResponse      `json:"page"`
}

// PutLocationRequest body para PUT /api/locations/:location (reemplaza la colección).
type PutLocationRequest struct {
	Items []entity.Item `json:"items" validate:"dive"`
}

// ItemHistoryResponse historial de movimientos de un material.
type ItemHistoryResponse struct {
	ItemID  string            `json:"item_id"`
	History []entity.Movement `json:"history"`
}

// QRResponse payload del QR y el texto que se codifica.
type QRResponse struct {
	Payload *entity.QRPayload `json:"payload"`
	QRText  string            `json:"qr_text"`
}
