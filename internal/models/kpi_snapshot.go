package models

import (
	"time"

	"github.com/google/uuid"
)

// KpiSnapshot is one row of dashboard metrics for an observation date.
// Rows are append-only; metrics left nil when the source cell was
// missing or non-numeric.
type KpiSnapshot struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Fecha               string    `gorm:"column:fecha;index" json:"fecha"`
	FacturacionPlazo    *float64  `gorm:"column:facturacion_plazo" json:"facturacion_plazo"`
	TiempoFacturacion   *float64  `gorm:"column:tiempo_facturacion" json:"tiempo_facturacion"`
	IntegracionSistemas *float64  `gorm:"column:integracion_sistemas" json:"integracion_sistemas"`
	CierreContable      *float64  `gorm:"column:cierre_contable" json:"cierre_contable"`
	Errores             *float64  `gorm:"column:errores" json:"errores"`
	Reportes            *float64  `gorm:"column:reportes" json:"reportes"`
	Cobranza            *float64  `gorm:"column:cobranza" json:"cobranza"`
	ControlGastos       *float64  `gorm:"column:control_gastos" json:"control_gastos"`
	Inventarios         *float64  `gorm:"column:inventarios" json:"inventarios"`
	CreatedAt           time.Time `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
