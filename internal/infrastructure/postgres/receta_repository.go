package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-core/internal/domain/entity"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

var _ repository.RecetaRepository = (*RecetaRepo)(nil)

// RecetaRepo lectura del modelo de recetas sobre PostgreSQL. Solo lectura:
// la gestión de recetas pertenece a otro subsistema.
type RecetaRepo struct {
	q Querier
}

// NewRecetaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecetaRepository(q Querier) *RecetaRepo {
	return &RecetaRepo{q: q}
}

// GetConIngredientes devuelve la receta con sus ingredientes; nil si no existe.
func (r *RecetaRepo) GetConIngredientes(ctx context.Context, id string) (*entity.Receta, error) {
	var receta entity.Receta
	err := r.q.QueryRow(ctx, `SELECT id, nombre, activa FROM recetas WHERE id = $1`, id).
		Scan(&receta.ID, &receta.Nombre, &receta.Activa)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receta: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT material_id, cantidad, unidad_id
		FROM receta_ingredientes WHERE receta_id = $1
		ORDER BY material_id`, id)
	if err != nil {
		return nil, fmt.Errorf("listar ingredientes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ing entity.RecetaIngrediente
		if err := rows.Scan(&ing.MaterialID, &ing.Cantidad, &ing.UnidadID); err != nil {
			return nil, fmt.Errorf("scan ingrediente: %w", err)
		}
		receta.Ingredientes = append(receta.Ingredientes, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &receta, nil
}
