package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-core/internal/domain"
	"github.com/jhoicas/almacen-core/internal/domain/entity"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

var _ repository.ConversionRepository = (*ConversionRepo)(nil)

const conversionColumnas = `unidad_origen_id, unidad_destino_id, factor, activa, created_at, updated_at`

// ConversionRepo implementación del grafo de conversiones sobre PostgreSQL
// (usable con pool o tx). Cada arista es una fila; el par inverso es otra
// fila independiente que el caso de uso escribe en la misma transacción.
type ConversionRepo struct {
	q Querier
}

// NewConversionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConversionRepository(q Querier) *ConversionRepo {
	return &ConversionRepo{q: q}
}

// Get devuelve la arista activa origen→destino, o nil si no existe.
func (r *ConversionRepo) Get(ctx context.Context, origenID, destinoID string) (*entity.ConversionUnidad, error) {
	query := `
		SELECT ` + conversionColumnas + `
		FROM conversiones_unidad
		WHERE unidad_origen_id = $1 AND unidad_destino_id = $2 AND activa`
	var c entity.ConversionUnidad
	err := r.q.QueryRow(ctx, query, origenID, destinoID).Scan(
		&c.UnidadOrigenID, &c.UnidadDestinoID, &c.Factor, &c.Activa, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversion: %w", err)
	}
	return &c, nil
}

// Crear inserta la arista. Si existe una fila desactivada para el mismo par
// la reactiva con el factor nuevo; el caso de uso ya descartó duplicados
// activos dentro de la misma transacción.
func (r *ConversionRepo) Crear(ctx context.Context, conversion *entity.ConversionUnidad) error {
	query := `
		INSERT INTO conversiones_unidad (` + conversionColumnas + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (unidad_origen_id, unidad_destino_id)
		DO UPDATE SET factor = EXCLUDED.factor, activa = true, updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		conversion.UnidadOrigenID, conversion.UnidadDestinoID, conversion.Factor,
		conversion.Activa, conversion.CreatedAt, conversion.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert conversion: %w", err)
	}
	return nil
}

// ActualizarFactor cambia el factor de una arista activa. Devuelve
// ErrSinRutaConversion si la arista no existe.
func (r *ConversionRepo) ActualizarFactor(ctx context.Context, origenID, destinoID string, factor decimal.Decimal) error {
	query := `
		UPDATE conversiones_unidad SET factor = $3, updated_at = now()
		WHERE unidad_origen_id = $1 AND unidad_destino_id = $2 AND activa`
	tag, err := r.q.Exec(ctx, query, origenID, destinoID, factor)
	if err != nil {
		return fmt.Errorf("update conversion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSinRutaConversion
	}
	return nil
}

// Desactivar hace el borrado suave de una arista. Devuelve
// ErrSinRutaConversion si no había arista activa.
func (r *ConversionRepo) Desactivar(ctx context.Context, origenID, destinoID string) error {
	query := `
		UPDATE conversiones_unidad SET activa = false, updated_at = now()
		WHERE unidad_origen_id = $1 AND unidad_destino_id = $2 AND activa`
	tag, err := r.q.Exec(ctx, query, origenID, destinoID)
	if err != nil {
		return fmt.Errorf("desactivar conversion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSinRutaConversion
	}
	return nil
}

// Listar devuelve todas las aristas activas del grafo.
func (r *ConversionRepo) Listar(ctx context.Context) ([]*entity.ConversionUnidad, error) {
	query := `
		SELECT ` + conversionColumnas + `
		FROM conversiones_unidad WHERE activa
		ORDER BY unidad_origen_id, unidad_destino_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listar conversiones: %w", err)
	}
	defer rows.Close()

	var lista []*entity.ConversionUnidad
	for rows.Next() {
		var c entity.ConversionUnidad
		if err := rows.Scan(&c.UnidadOrigenID, &c.UnidadDestinoID, &c.Factor, &c.Activa, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		lista = append(lista, &c)
	}
	return lista, rows.Err()
}
