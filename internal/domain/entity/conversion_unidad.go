package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConversionUnidad es una arista dirigida del grafo de conversiones:
// cantidad_destino = cantidad_origen * Factor.
// Toda arista existe en par con su inversa algebraica (destino→origen, 1/Factor);
// las dos filas se escriben siempre en la misma transacción, nunca por separado.
type ConversionUnidad struct {
	UnidadOrigenID  string
	UnidadDestinoID string
	Factor          decimal.Decimal
	Activa          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
