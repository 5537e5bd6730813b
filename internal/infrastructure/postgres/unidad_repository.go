package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-core/internal/domain"
	"github.com/jhoicas/almacen-core/internal/domain/entity"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

var _ repository.UnidadMedidaRepository = (*UnidadMedidaRepo)(nil)

// UnidadMedidaRepo implementación de UnidadMedidaRepository sobre PostgreSQL.
type UnidadMedidaRepo struct {
	q Querier
}

// NewUnidadMedidaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUnidadMedidaRepository(q Querier) *UnidadMedidaRepo {
	return &UnidadMedidaRepo{q: q}
}

// Crear persiste una unidad de medida.
func (r *UnidadMedidaRepo) Crear(ctx context.Context, unidad *entity.UnidadMedida) error {
	if unidad.ID == "" {
		unidad.ID = uuid.New().String()
	}
	query := `
		INSERT INTO unidades_medida (id, nombre, abreviatura, activa, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, unidad.ID, unidad.Nombre, unidad.Abreviatura, unidad.Activa, unidad.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEntradaInvalida
		}
		return fmt.Errorf("insert unidad: %w", err)
	}
	return nil
}

// GetByID obtiene una unidad por ID; nil si no existe.
func (r *UnidadMedidaRepo) GetByID(ctx context.Context, id string) (*entity.UnidadMedida, error) {
	query := `SELECT id, nombre, abreviatura, activa, created_at FROM unidades_medida WHERE id = $1`
	var u entity.UnidadMedida
	err := r.q.QueryRow(ctx, query, id).Scan(&u.ID, &u.Nombre, &u.Abreviatura, &u.Activa, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unidad: %w", err)
	}
	return &u, nil
}

// Listar devuelve las unidades activas ordenadas por nombre.
func (r *UnidadMedidaRepo) Listar(ctx context.Context) ([]*entity.UnidadMedida, error) {
	query := `SELECT id, nombre, abreviatura, activa, created_at FROM unidades_medida WHERE activa ORDER BY nombre`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listar unidades: %w", err)
	}
	defer rows.Close()

	var lista []*entity.UnidadMedida
	for rows.Next() {
		var u entity.UnidadMedida
		if err := rows.Scan(&u.ID, &u.Nombre, &u.Abreviatura, &u.Activa, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan unidad: %w", err)
		}
		lista = append(lista, &u)
	}
	return lista, rows.Err()
}
