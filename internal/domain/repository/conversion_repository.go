package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-core/internal/domain/entity"
)

// ConversionRepository define el puerto del grafo de conversiones.
// Las escrituras operan sobre una arista; el caso de uso es responsable de
// escribir siempre el par directa+inversa dentro de la misma transacción.
type ConversionRepository interface {
	// Get devuelve la arista activa origen→destino, o nil si no existe.
	Get(ctx context.Context, origenID, destinoID string) (*entity.ConversionUnidad, error)
	Crear(ctx context.Context, conversion *entity.ConversionUnidad) error
	// ActualizarFactor devuelve ErrSinRutaConversion si la arista no existe.
	ActualizarFactor(ctx context.Context, origenID, destinoID string, factor decimal.Decimal) error
	Desactivar(ctx context.Context, origenID, destinoID string) error
	Listar(ctx context.Context) ([]*entity.ConversionUnidad, error)
}
