package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/Stockeando-api/internal/domain"
	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
)

// AllMovements ledger plano en orden de inserción.
func (s *Service) AllMovements(ctx context.Context) ([]entity.Movement, error) {
	return s.movements.List(ctx)
}

// ProductStates índice completo por material.
func (s *Service) ProductStates(ctx context.Context) (entity.ProductStates, error) {
	return s.states.GetAll(ctx)
}

// ProductHistory historial del material, del más antiguo al más nuevo. Vacío si no tiene movimientos.
func (s *Service) ProductHistory(ctx context.Context, productID string) ([]entity.Movement, error) {
	states, err := s.states.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	st, ok := states[productID]
	if !ok {
		return []entity.Movement{}, nil
	}
	return st.History, nil
}

// CurrentLocation ubicación actual según el último movimiento; found=false si nunca se movió.
func (s *Service) CurrentLocation(ctx context.Context, productID string) (string, bool, error) {
	states, err := s.states.GetAll(ctx)
	if err != nil {
		return "", false, err
	}
	st, ok := states[productID]
	if !ok {
		return "", false, nil
	}
	return st.CurrentLocation, true, nil
}

// Stats resumen del ledger a la fecha actual.
func (s *Service) Stats(ctx context.Context) (entity.MovementStats, error) {
	movements, err := s.movements.List(ctx)
	if err != nil {
		return entity.MovementStats{}, err
	}
	return entity.ComputeMovementStats(movements, s.now()), nil
}

// CleanOldMovements elimina del ledger plano los movimientos anteriores a
// retentionDays días. El historial por material no se toca.
func (s *Service) CleanOldMovements(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	movements, err := s.movements.List(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := s.now().AddDate(0, 0, -retentionDays)
	kept := make([]entity.Movement, 0, len(movements))
	for _, m := range movements {
		if !m.Timestamp.Before(cutoff) {
			kept = append(kept, m)
		}
	}
	removed := len(movements) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.movements.Save(ctx, kept); err != nil {
		return 0, fmt.Errorf("guardar ledger: %w", err)
	}
	s.log.Info().Int("removed", removed).Int("retention_days", retentionDays).Msg("movimientos antiguos eliminados")
	return removed, nil
}

// ClearProductStates borra el índice por material (reinicio de plantas).
func (s *Service) ClearProductStates(ctx context.Context) error {
	return s.states.Clear(ctx)
}

// ExportDocument respaldo del ledger.
type ExportDocument struct {
	ProductStates entity.ProductStates `json:"productStates"`
	Movements     []entity.Movement    `json:"movements"`
	ExportDate    time.Time            `json:"exportDate"`
}

// ImportDocument entrada de importación: solo se sobrescriben las claves presentes.
type ImportDocument struct {
	ProductStates *entity.ProductStates `json:"productStates,omitempty"`
	Movements     *[]entity.Movement    `json:"movements,omitempty"`
}

// ExportData índice por material + ledger plano + fecha del respaldo.
func (s *Service) ExportData(ctx context.Context) (ExportDocument, error) {
	states, err := s.states.GetAll(ctx)
	if err != nil {
		return ExportDocument{}, err
	}
	movements, err := s.movements.List(ctx)
	if err != nil {
		return ExportDocument{}, err
	}
	return ExportDocument{ProductStates: states, Movements: movements, ExportDate: s.now().UTC()}, nil
}

// ImportData sobrescribe product_states y/o movements con lo que traiga doc.
// Inventario y categorías no se importan por esta vía.
func (s *Service) ImportData(ctx context.Context, doc ImportDocument) error {
	if doc.ProductStates != nil {
		if err := s.states.Save(ctx, *doc.ProductStates); err != nil {
			return fmt.Errorf("importar product_states: %w", err)
		}
	}
	if doc.Movements != nil {
		if err := s.movements.Save(ctx, *doc.Movements); err != nil {
			return fmt.Errorf("importar movements: %w", err)
		}
	}
	s.log.Info().Bool("product_states", doc.ProductStates != nil).Bool("movements", doc.Movements != nil).
		Msg("datos importados")
	return nil
}

// DecodeImport interpreta un respaldo JSON (el mismo formato de ExportData).
func DecodeImport(payload []byte) (ImportDocument, error) {
	var doc ImportDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return ImportDocument{}, fmt.Errorf("%w: respaldo inválido: %v", domain.ErrInvalidInput, err)
	}
	return doc, nil
}
