package repository

import (
	"context"

	"github.com/jhoicas/almacen-core/internal/domain/entity"
)

// UnidadMedidaRepository define el puerto de lectura/alta de unidades de medida.
type UnidadMedidaRepository interface {
	Crear(ctx context.Context, unidad *entity.UnidadMedida) error
	GetByID(ctx context.Context, id string) (*entity.UnidadMedida, error)
	Listar(ctx context.Context) ([]*entity.UnidadMedida, error)
}
