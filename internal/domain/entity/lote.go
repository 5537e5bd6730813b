package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lote es un batch concreto de un material, con su propia cantidad restante,
// fechas y prioridad de consumo. Es la unidad de asignación FIFO por caducidad.
// Invariantes: 0 <= CantidadActual <= CantidadInicial; CantidadInicial es
// inmutable una vez creado el lote; Codigo es único por material.
// Un lote nunca se borra: se desactiva cuando está agotado o se retira, y la
// desactivación está bloqueada mientras CantidadActual > 0.
type Lote struct {
	ID              string
	MaterialID      string
	Codigo          string
	FechaProduccion time.Time
	FechaCaducidad  *time.Time // nil = sin caducidad, el menos urgente al asignar
	CantidadInicial decimal.Decimal
	CantidadActual  decimal.Decimal
	PrioridadUso    int
	EnUso           bool
	CostoUnitario   decimal.Decimal
	Activo          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Agotado indica si al lote no le queda cantidad disponible.
func (l *Lote) Agotado() bool {
	return l.CantidadActual.LessThanOrEqual(decimal.Zero)
}
