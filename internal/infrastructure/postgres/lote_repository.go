package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-core/internal/domain"
	"github.com/jhoicas/almacen-core/internal/domain/entity"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

var _ repository.LoteRepository = (*LoteRepo)(nil)

const loteColumnas = `id, material_id, codigo, fecha_produccion, fecha_caducidad, cantidad_inicial, cantidad_actual, prioridad_uso, en_uso, costo_unitario, activo, created_at, updated_at`

// Orden canónico de asignación FIFO por caducidad; replica
// inventario.OrdenarParaConsumo en SQL.
const loteOrdenAsignacion = `ORDER BY fecha_caducidad ASC NULLS LAST, fecha_produccion ASC, prioridad_uso ASC`

// LoteRepo implementación de LoteRepository sobre PostgreSQL (usable con pool o tx).
type LoteRepo struct {
	q Querier
}

// NewLoteRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLoteRepository(q Querier) *LoteRepo {
	return &LoteRepo{q: q}
}

// Crear persiste un lote nuevo. Código repetido para el mismo material
// devuelve ErrLoteDuplicado (unique en (material_id, codigo)).
func (r *LoteRepo) Crear(ctx context.Context, lote *entity.Lote) error {
	if lote.ID == "" {
		lote.ID = uuid.New().String()
	}
	query := `
		INSERT INTO lotes (` + loteColumnas + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		lote.ID, lote.MaterialID, lote.Codigo, lote.FechaProduccion, lote.FechaCaducidad,
		lote.CantidadInicial, lote.CantidadActual, lote.PrioridadUso, lote.EnUso,
		lote.CostoUnitario, lote.Activo, lote.CreatedAt, lote.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrLoteDuplicado
		}
		return fmt.Errorf("insert lote: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID; nil si no existe.
func (r *LoteRepo) GetByID(ctx context.Context, id string) (*entity.Lote, error) {
	query := `SELECT ` + loteColumnas + ` FROM lotes WHERE id = $1`
	return r.escanearUno(ctx, query, id)
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT ... FOR UPDATE).
func (r *LoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lote, error) {
	query := `SELECT ` + loteColumnas + ` FROM lotes WHERE id = $1 FOR UPDATE`
	return r.escanearUno(ctx, query, id)
}

func (r *LoteRepo) escanearUno(ctx context.Context, query, id string) (*entity.Lote, error) {
	row := r.q.QueryRow(ctx, query, id)
	lote, err := escanearLote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isLockTimeout(err) {
			return nil, domain.ErrLockTimeout
		}
		return nil, fmt.Errorf("get lote: %w", err)
	}
	return lote, nil
}

// ActualizarCantidad escribe la cantidad restante del lote. Solo el diario de
// movimientos llama aquí, con la fila ya bloqueada.
func (r *LoteRepo) ActualizarCantidad(ctx context.Context, id string, cantidad decimal.Decimal) error {
	query := `UPDATE lotes SET cantidad_actual = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, cantidad)
	if err != nil {
		return fmt.Errorf("update cantidad lote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoteNoEncontrado
	}
	return nil
}

// ListarDisponibles devuelve los lotes activos con cantidad, en orden de asignación.
func (r *LoteRepo) ListarDisponibles(ctx context.Context, materialID string) ([]*entity.Lote, error) {
	query := `
		SELECT ` + loteColumnas + `
		FROM lotes
		WHERE material_id = $1 AND activo AND cantidad_actual > 0
		` + loteOrdenAsignacion
	return r.listar(ctx, query, materialID)
}

// ListarDisponiblesForUpdate es ListarDisponibles con bloqueo de todas las
// filas devueltas, para el consumo FIFO multi-lote.
func (r *LoteRepo) ListarDisponiblesForUpdate(ctx context.Context, materialID string) ([]*entity.Lote, error) {
	query := `
		SELECT ` + loteColumnas + `
		FROM lotes
		WHERE material_id = $1 AND activo AND cantidad_actual > 0
		` + loteOrdenAsignacion + `
		FOR UPDATE`
	return r.listar(ctx, query, materialID)
}

// ListarPorCaducar devuelve lotes con cantidad y caducidad dentro de [desde, hasta].
func (r *LoteRepo) ListarPorCaducar(ctx context.Context, desde, hasta time.Time) ([]*entity.Lote, error) {
	query := `
		SELECT ` + loteColumnas + `
		FROM lotes
		WHERE activo AND cantidad_actual > 0
		  AND fecha_caducidad IS NOT NULL
		  AND fecha_caducidad >= $1 AND fecha_caducidad <= $2
		ORDER BY fecha_caducidad ASC`
	return r.listar(ctx, query, desde, hasta)
}

func (r *LoteRepo) listar(ctx context.Context, query string, args ...any) ([]*entity.Lote, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		if isLockTimeout(err) {
			return nil, domain.ErrLockTimeout
		}
		return nil, fmt.Errorf("listar lotes: %w", err)
	}
	defer rows.Close()

	var lista []*entity.Lote
	for rows.Next() {
		lote, err := escanearLote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lote: %w", err)
		}
		lista = append(lista, lote)
	}
	if err := rows.Err(); err != nil {
		if isLockTimeout(err) {
			return nil, domain.ErrLockTimeout
		}
		return nil, err
	}
	return lista, nil
}

// Desactivar retira el lote. El caso de uso verifica antes, bajo bloqueo, que
// no le quede cantidad.
func (r *LoteRepo) Desactivar(ctx context.Context, id string) error {
	query := `UPDATE lotes SET activo = false, en_uso = false, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("desactivar lote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoteNoEncontrado
	}
	return nil
}

func escanearLote(row pgx.Row) (*entity.Lote, error) {
	var l entity.Lote
	err := row.Scan(
		&l.ID, &l.MaterialID, &l.Codigo, &l.FechaProduccion, &l.FechaCaducidad,
		&l.CantidadInicial, &l.CantidadActual, &l.PrioridadUso, &l.EnUso,
		&l.CostoUnitario, &l.Activo, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
