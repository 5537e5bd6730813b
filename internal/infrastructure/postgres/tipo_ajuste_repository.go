package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-core/internal/domain/entity"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

var _ repository.TipoAjusteRepository = (*TipoAjusteRepo)(nil)

// TipoAjusteRepo lectura del catálogo de tipos de ajuste sobre PostgreSQL.
type TipoAjusteRepo struct {
	q Querier
}

// NewTipoAjusteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTipoAjusteRepository(q Querier) *TipoAjusteRepo {
	return &TipoAjusteRepo{q: q}
}

// GetByID obtiene un tipo de ajuste por ID; nil si no existe.
func (r *TipoAjusteRepo) GetByID(ctx context.Context, id string) (*entity.TipoAjuste, error) {
	query := `
		SELECT id, nombre, requiere_autorizacion, activo, created_at
		FROM tipos_ajuste WHERE id = $1`
	var t entity.TipoAjuste
	err := r.q.QueryRow(ctx, query, id).Scan(&t.ID, &t.Nombre, &t.RequiereAutorizacion, &t.Activo, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tipo ajuste: %w", err)
	}
	return &t, nil
}

// Listar devuelve los tipos de ajuste activos.
func (r *TipoAjusteRepo) Listar(ctx context.Context) ([]*entity.TipoAjuste, error) {
	query := `
		SELECT id, nombre, requiere_autorizacion, activo, created_at
		FROM tipos_ajuste WHERE activo ORDER BY nombre`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listar tipos ajuste: %w", err)
	}
	defer rows.Close()

	var lista []*entity.TipoAjuste
	for rows.Next() {
		var t entity.TipoAjuste
		if err := rows.Scan(&t.ID, &t.Nombre, &t.RequiereAutorizacion, &t.Activo, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tipo ajuste: %w", err)
		}
		lista = append(lista, &t)
	}
	return lista, rows.Err()
}
