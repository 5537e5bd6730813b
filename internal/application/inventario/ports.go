package inventario

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-core/internal/domain/entity"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el diario de
// movimientos: cualquier error en el callback revierte la transacción entera
// y ningún estado parcial Movimiento/Material/Lote llega a persistirse.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		materialRepo repository.MaterialRepository,
		loteRepo repository.LoteRepository,
		movRepo repository.MovimientoRepository,
	) error) error
}

// Convertidor traduce cantidades entre unidades de medida. Lo implementa el
// caso de uso del grafo de conversiones; el diario lo consulta cuando la
// unidad del movimiento difiere de la unidad base del material.
type Convertidor interface {
	Convertir(ctx context.Context, cantidad decimal.Decimal, origenID, destinoID string) (decimal.Decimal, error)
}

// AutorizadorActores es el chequeo de autorización elevada que provee la capa
// de identidad (excluida de este módulo). El actor viaja siempre como
// parámetro explícito, nunca como variable de sesión de BD.
type AutorizadorActores interface {
	EstaAutorizado(ctx context.Context, usuarioID string, tipoAjuste *entity.TipoAjuste) (bool, error)
}

// Reloj provee "ahora"; inyectable para fijar el tiempo en tests.
type Reloj func() time.Time
