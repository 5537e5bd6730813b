package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-core/internal/domain"
	"github.com/jhoicas/almacen-core/internal/domain/entity"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumnas = `id, nombre, unidad_base_id, stock_actual, stock_minimo, costo_unitario, activo, created_at, updated_at`

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador de materiales. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// Crear persiste un material nuevo con stock cero salvo indicación contraria.
func (r *MaterialRepo) Crear(ctx context.Context, material *entity.Material) error {
	if material.ID == "" {
		material.ID = uuid.New().String()
	}
	query := `
		INSERT INTO materiales (` + materialColumnas + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		material.ID, material.Nombre, material.UnidadBaseID,
		material.StockActual, material.StockMinimo, material.CostoUnitario,
		material.Activo, material.CreatedAt, material.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEntradaInvalida
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// GetByID obtiene un material por ID; nil si no existe.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumnas + ` FROM materiales WHERE id = $1`
	return r.escanearUno(ctx, query, id)
}

// GetForUpdate obtiene el material y bloquea la fila (SELECT ... FOR UPDATE).
// Si el bloqueo no llega dentro del lock_timeout de la transacción devuelve
// ErrLockTimeout.
func (r *MaterialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumnas + ` FROM materiales WHERE id = $1 FOR UPDATE`
	return r.escanearUno(ctx, query, id)
}

func (r *MaterialRepo) escanearUno(ctx context.Context, query, id string) (*entity.Material, error) {
	var m entity.Material
	err := r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Nombre, &m.UnidadBaseID, &m.StockActual, &m.StockMinimo,
		&m.CostoUnitario, &m.Activo, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isLockTimeout(err) {
			return nil, domain.ErrLockTimeout
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return &m, nil
}

// ActualizarStockYCosto escribe el stock agregado y el costo promedio.
// Solo el diario de movimientos llama aquí, con la fila ya bloqueada.
func (r *MaterialRepo) ActualizarStockYCosto(ctx context.Context, id string, stock, costo decimal.Decimal) error {
	query := `
		UPDATE materiales SET stock_actual = $2, costo_unitario = $3, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, stock, costo)
	if err != nil {
		return fmt.Errorf("update stock material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMaterialNoEncontrado
	}
	return nil
}

// ActualizarStockMinimo cambia el umbral de reposición.
func (r *MaterialRepo) ActualizarStockMinimo(ctx context.Context, id string, minimo decimal.Decimal) error {
	query := `UPDATE materiales SET stock_minimo = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, minimo)
	if err != nil {
		return fmt.Errorf("update stock minimo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMaterialNoEncontrado
	}
	return nil
}

// ListarBajoStock devuelve los materiales activos en o por debajo de su umbral.
func (r *MaterialRepo) ListarBajoStock(ctx context.Context) ([]*entity.Material, error) {
	query := `
		SELECT ` + materialColumnas + `
		FROM materiales
		WHERE activo AND stock_actual <= stock_minimo
		ORDER BY nombre`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listar bajo stock: %w", err)
	}
	defer rows.Close()

	var lista []*entity.Material
	for rows.Next() {
		var m entity.Material
		if err := rows.Scan(
			&m.ID, &m.Nombre, &m.UnidadBaseID, &m.StockActual, &m.StockMinimo,
			&m.CostoUnitario, &m.Activo, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		lista = append(lista, &m)
	}
	return lista, rows.Err()
}

// Desactivar marca el material como inactivo (nunca se borra).
func (r *MaterialRepo) Desactivar(ctx context.Context, id string) error {
	query := `UPDATE materiales SET activo = false, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("desactivar material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMaterialNoEncontrado
	}
	return nil
}
