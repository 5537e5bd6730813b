package repository

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-core/internal/domain/entity"
)

// MovimientoRepository define el puerto del diario de movimientos.
// El diario es append-only: no hay Update ni Delete, una fila confirmada
// es permanente.
type MovimientoRepository interface {
	Crear(ctx context.Context, movimiento *entity.Movimiento) error
	GetByID(ctx context.Context, id string) (*entity.Movimiento, error)
	ListarPorMaterial(ctx context.Context, materialID string, desde, hasta *time.Time, limit, offset int) ([]*entity.Movimiento, error)
	ListarPorLote(ctx context.Context, loteID string, limit, offset int) ([]*entity.Movimiento, error)
}
