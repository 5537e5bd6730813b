package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-core/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia del libro de stock.
// ActualizarStockYCosto solo debe invocarse desde la transacción del diario
// de movimientos, con la fila previamente bloqueada vía GetForUpdate.
type MaterialRepository interface {
	Crear(ctx context.Context, material *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE) para serializar
	// movimientos concurrentes contra el mismo material.
	GetForUpdate(ctx context.Context, id string) (*entity.Material, error)
	ActualizarStockYCosto(ctx context.Context, id string, stock, costo decimal.Decimal) error
	ActualizarStockMinimo(ctx context.Context, id string, minimo decimal.Decimal) error
	ListarBajoStock(ctx context.Context) ([]*entity.Material, error)
	Desactivar(ctx context.Context, id string) error
}
