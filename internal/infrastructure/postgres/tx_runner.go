package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/almacen-core/internal/application/conversion"
	"github.com/jhoicas/almacen-core/internal/application/inventario"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

var _ inventario.TxRunner = (*TxRunner)(nil)
var _ conversion.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con
// aislamiento read-committed y un lock_timeout acotado: un movimiento que no
// consigue su bloqueo de fila a tiempo aborta con 55P03 (el repositorio lo
// traduce a ErrLockTimeout) en lugar de esperar indefinidamente.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner. lockTimeout <= 0 deja el valor del servidor.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con los repos del diario atados a la
// tx y hace Commit o Rollback. Ningún estado parcial sobrevive a un error.
func (r *TxRunner) Run(ctx context.Context, fn func(
	materialRepo repository.MaterialRepository,
	loteRepo repository.LoteRepository,
	movRepo repository.MovimientoRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		// SET LOCAL muere con la transacción; no toca estado de sesión.
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	materialRepo := NewMaterialRepository(tx)
	loteRepo := NewLoteRepository(tx)
	movRepo := NewMovimientoRepository(tx)

	if err := fn(materialRepo, loteRepo, movRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunConversion inicia una transacción con el repo de conversiones, para que
// la arista directa y su inversa se escriban como un todo.
func (r *TxRunner) RunConversion(ctx context.Context, fn func(repo repository.ConversionRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewConversionRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
