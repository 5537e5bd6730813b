package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-core/internal/domain/entity"
)

// LoteRepository define el puerto de persistencia del registro de lotes.
// Los listados "Disponibles" devuelven solo lotes activos con cantidad_actual > 0,
// en el orden canónico de asignación (caducidad ASC NULLS LAST, producción ASC,
// prioridad ASC), el mismo que implementa inventario.OrdenarParaConsumo.
type LoteRepository interface {
	Crear(ctx context.Context, lote *entity.Lote) error
	GetByID(ctx context.Context, id string) (*entity.Lote, error)
	// GetForUpdate bloquea la fila del lote para serializar consumos concurrentes.
	GetForUpdate(ctx context.Context, id string) (*entity.Lote, error)
	ActualizarCantidad(ctx context.Context, id string, cantidad decimal.Decimal) error
	ListarDisponibles(ctx context.Context, materialID string) ([]*entity.Lote, error)
	// ListarDisponiblesForUpdate bloquea todas las filas devueltas; lo usa el
	// consumo FIFO multi-lote dentro de su transacción.
	ListarDisponiblesForUpdate(ctx context.Context, materialID string) ([]*entity.Lote, error)
	ListarPorCaducar(ctx context.Context, desde, hasta time.Time) ([]*entity.Lote, error)
	Desactivar(ctx context.Context, id string) error
}
