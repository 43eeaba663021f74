package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportFilter filtros del reporte. From/To se interpretan como días completos
// (To incluye todo ese día); cero = sin límite. Plant 0 = todas.
type ReportFilter struct {
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	Plant int       `json:"plant"`
}

// ReportQuery query string de GET /api/reports.
type ReportQuery struct {
	From  string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To    string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Plant int    `query:"plant" validate:"omitempty,min=1,max=3"`
}

// ReportStatsDTO tarjetas de resumen.
type ReportStatsDTO struct {
	TotalMovements int             `json:"total_movements"`
	UniqueProducts int             `json:"unique_products"`
	Rejected       int             `json:"rejected"`
	SuccessRate    decimal.Decimal `json:"success_rate"` // porcentaje, un decimal
	TotalWeight    decimal.Decimal `json:"total_weight"` // kg, un decimal
	ActivePlants   int             `json:"active_plants"`
}

// PlantEfficiencyDTO desglose por planta.
type PlantEfficiencyDTO struct {
	Plant       int             `json:"plant"`
	Label       string          `json:"label"`
	Processed   int             `json:"processed"`
	Rejected    int             `json:"rejected"`
	SuccessRate decimal.Decimal `json:"success_rate"`
	TotalWeight decimal.Decimal `json:"total_weight"`
}

// ReasonCountDTO rechazos agrupados por motivo.
type ReasonCountDTO struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// DailyCountDTO movimientos por día (YYYY-MM-DD).
type DailyCountDTO struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ProductCountDTO cantidad de movimientos por producto.
type ProductCountDTO struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MovementRowDTO fila de la tabla de movimientos.
type MovementRowDTO struct {
	Date    string `json:"date"`
	Product string `json:"product"`
	From    string `json:"from"`
	To      string `json:"to"`
	Weight  string `json:"weight"`
	Lot     string `json:"lot"`
}

// RejectionRowDTO fila de la tabla de rechazos.
type RejectionRowDTO struct {
	Date       string `json:"date"`
	Name       string `json:"name"`
	Plant      string `json:"plant"`
	Reason     string `json:"reason"`
	RejectedBy string `json:"rejected_by"`
	Weight     string `json:"weight"`
}

// ReportDTO respuesta de GET /api/reports.
type ReportDTO struct {
	Filter             ReportFilter         `json:"filter"`
	Stats              ReportStatsDTO       `json:"stats"`
	PlantEfficiency    []PlantEfficiencyDTO `json:"plant_efficiency"`
	RejectionsByReason []ReasonCountDTO     `json:"rejections_by_reason"`
	Daily              []DailyCountDTO      `json:"daily"`
	TopProducts        []ProductCountDTO    `json:"top_products"`
	Movements          []MovementRowDTO     `json:"movements"`
	Rejections         []RejectionRowDTO    `json:"rejections"`
	GeneratedAt        time.Time            `json:"generated_at"`
}
