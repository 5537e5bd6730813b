package inventario

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-core/internal/domain"
	"github.com/jhoicas/almacen-core/internal/domain/entity"
	domaininv "github.com/jhoicas/almacen-core/internal/domain/inventario"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

// RegistrarMovimientoUseCase registra movimientos de inventario de forma
// transaccional (entrada/salida, con o sin lote) con bloqueo de fila
// (SELECT FOR UPDATE) y Commit/Rollback. Es el único componente con permiso
// de escritura sobre Material.StockActual y Lote.CantidadActual.
type RegistrarMovimientoUseCase struct {
	txRunner       TxRunner
	materialRepo   repository.MaterialRepository
	tipoAjusteRepo repository.TipoAjusteRepository
	convertidor    Convertidor
	autorizador    AutorizadorActores
	ahora          Reloj
}

// NewRegistrarMovimientoUseCase construye el caso de uso. reloj nil usa time.Now.
func NewRegistrarMovimientoUseCase(
	txRunner TxRunner,
	materialRepo repository.MaterialRepository,
	tipoAjusteRepo repository.TipoAjusteRepository,
	convertidor Convertidor,
	autorizador AutorizadorActores,
	reloj Reloj,
) *RegistrarMovimientoUseCase {
	if reloj == nil {
		reloj = time.Now
	}
	return &RegistrarMovimientoUseCase{
		txRunner:       txRunner,
		materialRepo:   materialRepo,
		tipoAjusteRepo: tipoAjusteRepo,
		convertidor:    convertidor,
		autorizador:    autorizador,
		ahora:          reloj,
	}
}

// MovimientoInputDTO entrada para registrar un movimiento.
// Cantidad se expresa en UnidadID; si UnidadID está vacío o coincide con la
// unidad base del material no hay conversión. CostoUnitario solo se usa en
// entradas para recalcular el costo promedio del material.
type MovimientoInputDTO struct {
	MaterialID    string
	LoteID        *string
	TipoAjusteID  *string
	Tipo          string // entrada | salida
	Cantidad      decimal.Decimal
	UnidadID      string
	CostoUnitario *decimal.Decimal
	Descripcion   string
	UsuarioID     string
}

// Registrar aplica el movimiento completo dentro de una transacción:
// verifica material/lote/autorización, comprueba suficiencia de stock antes
// de cualquier escritura, inserta la fila del diario y aplica el delta al
// agregado y al lote. Cualquier fallo en cualquier paso revierte todo.
func (uc *RegistrarMovimientoUseCase) Registrar(ctx context.Context, input MovimientoInputDTO) (*entity.Movimiento, error) {
	if input.MaterialID == "" || input.UsuarioID == "" {
		return nil, domain.ErrEntradaInvalida
	}
	if input.Tipo != entity.MovimientoEntrada && input.Tipo != entity.MovimientoSalida {
		return nil, domain.ErrEntradaInvalida
	}
	if !input.Cantidad.IsPositive() {
		return nil, domain.ErrEntradaInvalida
	}

	// Lectura previa: existencia, estado y unidad base del material.
	material, err := uc.materialRepo.GetByID(ctx, input.MaterialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrMaterialNoEncontrado
	}
	if !material.Activo {
		return nil, domain.ErrMaterialInactivo
	}

	// La cantidad cruza la frontera de unidades antes de validar suficiencia:
	// todo lo que entra al diario está ya en la unidad base del material.
	cantidad := input.Cantidad
	if input.UnidadID != "" && input.UnidadID != material.UnidadBaseID {
		cantidad, err = uc.convertidor.Convertir(ctx, input.Cantidad, input.UnidadID, material.UnidadBaseID)
		if err != nil {
			return nil, err
		}
	}

	// Autorización elevada para tipos de ajuste que la exigen; el error se
	// propaga tal cual, nunca se degrada.
	if input.TipoAjusteID != nil {
		tipoAjuste, err := uc.tipoAjusteRepo.GetByID(ctx, *input.TipoAjusteID)
		if err != nil {
			return nil, err
		}
		if tipoAjuste == nil || !tipoAjuste.Activo {
			return nil, domain.ErrEntradaInvalida
		}
		if tipoAjuste.RequiereAutorizacion {
			ok, err := uc.autorizador.EstaAutorizado(ctx, input.UsuarioID, tipoAjuste)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, domain.ErrAjusteNoAutorizado
			}
		}
	}

	ahora := uc.ahora()
	mov := &entity.Movimiento{
		MaterialID:   input.MaterialID,
		LoteID:       input.LoteID,
		TipoAjusteID: input.TipoAjusteID,
		Tipo:         input.Tipo,
		Cantidad:     cantidad,
		Descripcion:  input.Descripcion,
		UsuarioID:    input.UsuarioID,
		Fecha:        ahora,
		CreatedAt:    ahora,
	}

	// Transacción: re-lee con bloqueo de fila, verifica y escribe.
	err = uc.txRunner.Run(ctx, func(
		materialRepo repository.MaterialRepository,
		loteRepo repository.LoteRepository,
		movRepo repository.MovimientoRepository,
	) error {
		// Re-lectura con SELECT FOR UPDATE: dos movimientos concurrentes
		// contra el mismo material se serializan aquí en vez de leer ambos
		// un snapshot "suficiente" ya obsoleto.
		material, err := materialRepo.GetForUpdate(ctx, input.MaterialID)
		if err != nil {
			return err
		}
		if material == nil {
			return domain.ErrMaterialNoEncontrado
		}
		if !material.Activo {
			return domain.ErrMaterialInactivo
		}

		var lote *entity.Lote
		if input.LoteID != nil {
			lote, err = loteRepo.GetForUpdate(ctx, *input.LoteID)
			if err != nil {
				return err
			}
			if lote == nil || lote.MaterialID != input.MaterialID || !lote.Activo {
				return domain.ErrLoteNoEncontrado
			}
		}

		// Verificación de suficiencia antes de cualquier escritura.
		switch input.Tipo {
		case entity.MovimientoSalida:
			if lote != nil && lote.CantidadActual.LessThan(cantidad) {
				return domain.ErrStockLoteInsuficiente
			}
			if material.StockActual.LessThan(cantidad) {
				return domain.ErrStockInsuficiente
			}
		case entity.MovimientoEntrada:
			if lote != nil && lote.CantidadActual.Add(cantidad).GreaterThan(lote.CantidadInicial) {
				return domain.ErrSuperaCantidadInicial
			}
		}

		if err := movRepo.Crear(ctx, mov); err != nil {
			return err
		}

		// Delta sobre el agregado; el costo promedio se recalcula de forma
		// explícita aquí, antes del commit, nunca en un callback implícito.
		nuevoStock := material.StockActual
		nuevoCosto := material.CostoUnitario
		if input.Tipo == entity.MovimientoEntrada {
			if input.CostoUnitario != nil {
				nuevoCosto = domaininv.CostoPromedio(material.StockActual, material.CostoUnitario, cantidad, *input.CostoUnitario)
			}
			nuevoStock = nuevoStock.Add(cantidad)
		} else {
			nuevoStock = nuevoStock.Sub(cantidad)
		}
		if err := materialRepo.ActualizarStockYCosto(ctx, material.ID, nuevoStock, nuevoCosto); err != nil {
			return err
		}

		// Delta sobre el lote, si el movimiento lo referencia.
		if lote != nil {
			nuevaCantidad := lote.CantidadActual
			if input.Tipo == entity.MovimientoEntrada {
				nuevaCantidad = nuevaCantidad.Add(cantidad)
			} else {
				nuevaCantidad = nuevaCantidad.Sub(cantidad)
			}
			if err := loteRepo.ActualizarCantidad(ctx, lote.ID, nuevaCantidad); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}
