package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovimientoEntrada = "entrada"
	MovimientoSalida  = "salida"
)

// Movimiento es una entrada del diario: un cambio atómico de stock registrado
// de forma permanente. Inmutable una vez confirmado; las filas nunca se
// actualizan ni se borran. Es el único mecanismo por el que cambian
// Material.StockActual y Lote.CantidadActual.
type Movimiento struct {
	ID           string
	MaterialID   string
	LoteID       *string // nil cuando el movimiento es contra el agregado, sin lote
	TipoAjusteID *string // nil salvo ajustes; algunos exigen autorización elevada
	Tipo         string  // entrada | salida
	Cantidad     decimal.Decimal // siempre en la unidad base del material, ya convertida
	Descripcion  string
	UsuarioID    string
	Fecha        time.Time
	CreatedAt    time.Time
}
