package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-core/internal/domain/entity"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

var _ repository.MovimientoRepository = (*MovimientoRepo)(nil)

const movimientoColumnas = `id, material_id, lote_id, tipo_ajuste_id, tipo, cantidad, descripcion, usuario_id, fecha, created_at`

// MovimientoRepo implementación del diario sobre PostgreSQL (usable con pool o tx).
// El diario es append-only: este adaptador no expone Update ni Delete y la
// tabla tampoco los admite para filas confirmadas.
type MovimientoRepo struct {
	q Querier
}

// NewMovimientoRepository construye el adaptador del diario. Pasar pool o tx (Querier).
func NewMovimientoRepository(q Querier) *MovimientoRepo {
	return &MovimientoRepo{q: q}
}

// Crear persiste una entrada del diario.
func (r *MovimientoRepo) Crear(ctx context.Context, movimiento *entity.Movimiento) error {
	if movimiento.ID == "" {
		movimiento.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movimientos (` + movimientoColumnas + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		movimiento.ID, movimiento.MaterialID, movimiento.LoteID, movimiento.TipoAjusteID,
		movimiento.Tipo, movimiento.Cantidad, movimiento.Descripcion, movimiento.UsuarioID,
		movimiento.Fecha, movimiento.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movimiento: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID; nil si no existe.
func (r *MovimientoRepo) GetByID(ctx context.Context, id string) (*entity.Movimiento, error) {
	query := `SELECT ` + movimientoColumnas + ` FROM movimientos WHERE id = $1`
	var m entity.Movimiento
	err := r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.MaterialID, &m.LoteID, &m.TipoAjusteID, &m.Tipo,
		&m.Cantidad, &m.Descripcion, &m.UsuarioID, &m.Fecha, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return &m, nil
}

// ListarPorMaterial lista movimientos de un material en un rango de fechas,
// más reciente primero.
func (r *MovimientoRepo) ListarPorMaterial(ctx context.Context, materialID string, desde, hasta *time.Time, limit, offset int) ([]*entity.Movimiento, error) {
	query := `SELECT ` + movimientoColumnas + ` FROM movimientos WHERE material_id = $1`
	args := []any{materialID}
	pos := 2
	if desde != nil {
		query += fmt.Sprintf(" AND fecha >= $%d", pos)
		args = append(args, *desde)
		pos++
	}
	if hasta != nil {
		query += fmt.Sprintf(" AND fecha <= $%d", pos)
		args = append(args, *hasta)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY fecha DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.listar(ctx, query, args...)
}

// ListarPorLote lista los movimientos que tocaron un lote, más reciente primero.
func (r *MovimientoRepo) ListarPorLote(ctx context.Context, loteID string, limit, offset int) ([]*entity.Movimiento, error) {
	query := `
		SELECT ` + movimientoColumnas + `
		FROM movimientos WHERE lote_id = $1
		ORDER BY fecha DESC LIMIT $2 OFFSET $3`
	return r.listar(ctx, query, loteID, limit, offset)
}

func (r *MovimientoRepo) listar(ctx context.Context, query string, args ...any) ([]*entity.Movimiento, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	defer rows.Close()

	var lista []*entity.Movimiento
	for rows.Next() {
		var m entity.Movimiento
		if err := rows.Scan(
			&m.ID, &m.MaterialID, &m.LoteID, &m.TipoAjusteID, &m.Tipo,
			&m.Cantidad, &m.Descripcion, &m.UsuarioID, &m.Fecha, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		lista = append(lista, &m)
	}
	return lista, rows.Err()
}
