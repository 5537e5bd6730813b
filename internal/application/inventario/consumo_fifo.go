package inventario

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-core/internal/domain"
	"github.com/jhoicas/almacen-core/internal/domain/entity"
	domaininv "github.com/jhoicas/almacen-core/internal/domain/inventario"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

// ConsumirPorLotes registra una salida repartida entre los lotes del material
// siguiendo el orden de asignación FIFO por caducidad: consume primero el lote
// que caduca antes y continúa hasta cubrir la cantidad pedida, emitiendo un
// movimiento del diario por cada lote tocado. Todo ocurre en una sola
// transacción: si los lotes disponibles no cubren la cantidad no se persiste
// nada y se devuelve ErrStockInsuficiente.
func (uc *RegistrarMovimientoUseCase) ConsumirPorLotes(
	ctx context.Context,
	materialID string,
	cantidad decimal.Decimal,
	usuarioID, descripcion string,
) ([]*entity.Movimiento, error) {
	if materialID == "" || usuarioID == "" {
		return nil, domain.ErrEntradaInvalida
	}
	if !cantidad.IsPositive() {
		return nil, domain.ErrEntradaInvalida
	}

	ahora := uc.ahora()
	var movimientos []*entity.Movimiento

	err := uc.txRunner.Run(ctx, func(
		materialRepo repository.MaterialRepository,
		loteRepo repository.LoteRepository,
		movRepo repository.MovimientoRepository,
	) error {
		material, err := materialRepo.GetForUpdate(ctx, materialID)
		if err != nil {
			return err
		}
		if material == nil {
			return domain.ErrMaterialNoEncontrado
		}
		if !material.Activo {
			return domain.ErrMaterialInactivo
		}
		if material.StockActual.LessThan(cantidad) {
			return domain.ErrStockInsuficiente
		}

		lotes, err := loteRepo.ListarDisponiblesForUpdate(ctx, materialID)
		if err != nil {
			return err
		}
		// El orden de consumo lo decide el dominio, no el SQL del adaptador.
		domaininv.OrdenarParaConsumo(lotes)

		restante := cantidad
		for _, lote := range lotes {
			if !restante.IsPositive() {
				break
			}
			consumir := decimal.Min(restante, lote.CantidadActual)
			loteID := lote.ID
			mov := &entity.Movimiento{
				MaterialID:  materialID,
				LoteID:      &loteID,
				Tipo:        entity.MovimientoSalida,
				Cantidad:    consumir,
				Descripcion: descripcion,
				UsuarioID:   usuarioID,
				Fecha:       ahora,
				CreatedAt:   ahora,
			}
			if err := movRepo.Crear(ctx, mov); err != nil {
				return err
			}
			if err := loteRepo.ActualizarCantidad(ctx, lote.ID, lote.CantidadActual.Sub(consumir)); err != nil {
				return err
			}
			movimientos = append(movimientos, mov)
			restante = restante.Sub(consumir)
		}
		if restante.IsPositive() {
			// El agregado decía que alcanzaba pero los lotes no lo cubren:
			// stock sin lote asignado no es consumible por esta vía.
			return domain.ErrStockInsuficiente
		}

		return materialRepo.ActualizarStockYCosto(ctx, material.ID, material.StockActual.Sub(cantidad), material.CostoUnitario)
	})
	if err != nil {
		return nil, err
	}
	return movimientos, nil
}
