package repository

import (
	"context"

	"github.com/jhoicas/almacen-core/internal/domain/entity"
)

// TipoAjusteRepository define el puerto de lectura de tipos de ajuste.
// Es catálogo casi estático: el diario lo consulta fuera de la transacción.
type TipoAjusteRepository interface {
	GetByID(ctx context.Context, id string) (*entity.TipoAjuste, error)
	Listar(ctx context.Context) ([]*entity.TipoAjuste, error)
}
