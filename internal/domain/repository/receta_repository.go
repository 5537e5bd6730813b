package repository

import (
	"context"

	"github.com/jhoicas/almacen-core/internal/domain/entity"
)

// RecetaRepository es el puerto de solo lectura que consume el verificador de
// disponibilidad. La gestión de recetas vive fuera de este subsistema.
type RecetaRepository interface {
	// GetConIngredientes devuelve nil si la receta no existe.
	GetConIngredientes(ctx context.Context, id string) (*entity.Receta, error)
}
