package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-core/internal/domain"
	"github.com/jhoicas/almacen-core/internal/domain/entity"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

var _ repository.AlertaRepository = (*AlertaRepo)(nil)

const alertaColumnas = `id, material_id, tipo, mensaje, destinatario_id, leida, fecha_lectura, activa, created_at`

// AlertaRepo implementación de AlertaRepository sobre PostgreSQL (usable con pool o tx).
type AlertaRepo struct {
	q Querier
}

// NewAlertaRepository construye el adaptador de alertas. Pasar pool o tx (Querier).
func NewAlertaRepository(q Querier) *AlertaRepo {
	return &AlertaRepo{q: q}
}

// Crear persiste una alerta nueva.
func (r *AlertaRepo) Crear(ctx context.Context, alerta *entity.Alerta) error {
	if alerta.ID == "" {
		alerta.ID = uuid.New().String()
	}
	query := `
		INSERT INTO alertas (` + alertaColumnas + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		alerta.ID, alerta.MaterialID, alerta.Tipo, alerta.Mensaje, alerta.DestinatarioID,
		alerta.Leida, alerta.FechaLectura, alerta.Activa, alerta.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alerta: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID; nil si no existe.
func (r *AlertaRepo) GetByID(ctx context.Context, id string) (*entity.Alerta, error) {
	query := `SELECT ` + alertaColumnas + ` FROM alertas WHERE id = $1`
	var a entity.Alerta
	err := r.q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.MaterialID, &a.Tipo, &a.Mensaje, &a.DestinatarioID,
		&a.Leida, &a.FechaLectura, &a.Activa, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alerta: %w", err)
	}
	return &a, nil
}

// ListarPorDestinatario lista las alertas activas de un destinatario, más
// reciente primero.
func (r *AlertaRepo) ListarPorDestinatario(ctx context.Context, destinatarioID string, soloNoLeidas bool) ([]*entity.Alerta, error) {
	query := `SELECT ` + alertaColumnas + ` FROM alertas WHERE destinatario_id = $1 AND activa`
	if soloNoLeidas {
		query += ` AND NOT leida`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query, destinatarioID)
	if err != nil {
		return nil, fmt.Errorf("listar alertas: %w", err)
	}
	defer rows.Close()

	var lista []*entity.Alerta
	for rows.Next() {
		var a entity.Alerta
		if err := rows.Scan(
			&a.ID, &a.MaterialID, &a.Tipo, &a.Mensaje, &a.DestinatarioID,
			&a.Leida, &a.FechaLectura, &a.Activa, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan alerta: %w", err)
		}
		lista = append(lista, &a)
	}
	return lista, rows.Err()
}

// MarcarLeida sella la lectura. La fecha de lectura original se conserva si la
// alerta ya estaba leída (la transición es de un solo sentido). Devuelve
// ErrAlertaNoEncontrada si la alerta no existe o es de otro destinatario.
func (r *AlertaRepo) MarcarLeida(ctx context.Context, id, destinatarioID string, fecha time.Time) error {
	query := `
		UPDATE alertas SET leida = true, fecha_lectura = COALESCE(fecha_lectura, $3)
		WHERE id = $1 AND destinatario_id = $2`
	tag, err := r.q.Exec(ctx, query, id, destinatarioID, fecha)
	if err != nil {
		return fmt.Errorf("marcar leida: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlertaNoEncontrada
	}
	return nil
}

// ExisteNoLeida indica si el destinatario ya tiene una alerta activa sin leer
// del mismo tipo para el material (IS NOT DISTINCT FROM trata el nil).
func (r *AlertaRepo) ExisteNoLeida(ctx context.Context, materialID *string, tipo, destinatarioID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM alertas
			WHERE material_id IS NOT DISTINCT FROM $1
			  AND tipo = $2 AND destinatario_id = $3
			  AND activa AND NOT leida
		)`
	var existe bool
	if err := r.q.QueryRow(ctx, query, materialID, tipo, destinatarioID).Scan(&existe); err != nil {
		return false, fmt.Errorf("existe alerta no leida: %w", err)
	}
	return existe, nil
}

// Desactivar retira la alerta (borrado suave).
func (r *AlertaRepo) Desactivar(ctx context.Context, id string) error {
	query := `UPDATE alertas SET activa = false WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("desactivar alerta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlertaNoEncontrada
	}
	return nil
}
