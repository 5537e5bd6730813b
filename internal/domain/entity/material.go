package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material es una materia prima controlada por el libro de inventario.
// StockActual y CostoUnitario se expresan en la unidad base del material y
// solo los muta el diario de movimientos dentro de una transacción con
// bloqueo de fila; ningún otro componente escribe estos campos.
// Invariante: StockActual >= 0 en todo momento. Nunca se borra, se desactiva.
type Material struct {
	ID            string
	Nombre        string
	UnidadBaseID  string
	StockActual   decimal.Decimal
	StockMinimo   decimal.Decimal
	CostoUnitario decimal.Decimal
	Activo        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BajoStock indica si el material está en o por debajo de su umbral de reposición.
func (m *Material) BajoStock() bool {
	return m.StockActual.LessThanOrEqual(m.StockMinimo)
}
