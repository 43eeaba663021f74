package dto

import (
	"encoding/json"
	"time"

	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
)

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary: resumen del
// ledger más la cantidad de materiales por ubicación.
type DashboardSummaryDTO struct {
	Movements   entity.MovementStats `json:"movements"`
	Inventory   map[string]int       `json:"inventory"`
	Machines    map[string]int       `json:"machines"`
	RefreshedAt time.Time            `json:"refreshed_at"`
}

// BackupDTO respaldo completo: ledger, inventario, categorías y estadísticas.
// Usa los mismos nombres de campo que el formato de exportación histórico.
type BackupDTO struct {
	ProductStates entity.ProductStates `json:"productStates"`
	Movements     []entity.Movement    `json:"movements"`
	Inventory     entity.Inventory     `json:"inventory"`
	Categories    json.RawMessage      `json:"categories"`
	Stats         BackupStatsDTO       `json:"stats"`
	ExportDate    time.Time            `json:"exportDate"`
}

// BackupStatsDTO estadísticas incluidas en el respaldo.
type BackupStatsDTO struct {
	Movements entity.MovementStats `json:"movements"`
	Inventory map[string]int       `json:"inventory"`
}

// BackupUploadResponse resultado de subir un respaldo al destino configurado.
type BackupUploadResponse struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Bytes    int64  `json:"bytes"`
}

// ImportResponse claves sobrescritas por la importación.
type ImportResponse struct {
	ProductStates bool `json:"product_states"`
	Movements     bool `json:"movements"`
}
