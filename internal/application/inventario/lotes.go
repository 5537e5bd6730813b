package inventario

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-core/internal/domain"
	"github.com/jhoicas/almacen-core/internal/domain/entity"
	domaininv "github.com/jhoicas/almacen-core/internal/domain/inventario"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

// LotesUseCase gestiona el ciclo de vida de los lotes: alta con identidad de
// batch (que registra la entrada correspondiente en el diario), orden de
// asignación FIFO y retiro.
type LotesUseCase struct {
	txRunner TxRunner
	loteRepo repository.LoteRepository
	ahora    Reloj
}

// NewLotesUseCase construye el caso de uso. reloj nil usa time.Now.
func NewLotesUseCase(txRunner TxRunner, loteRepo repository.LoteRepository, reloj Reloj) *LotesUseCase {
	if reloj == nil {
		reloj = time.Now
	}
	return &LotesUseCase{txRunner: txRunner, loteRepo: loteRepo, ahora: reloj}
}

// CrearLoteInputDTO entrada para dar de alta un lote.
// FechaProduccion nil usa la fecha actual; FechaCaducidad nil marca el lote
// como sin caducidad (el menos urgente al asignar).
type CrearLoteInputDTO struct {
	MaterialID      string
	Codigo          string
	CantidadInicial decimal.Decimal
	CostoUnitario   decimal.Decimal
	FechaProduccion *time.Time
	FechaCaducidad  *time.Time
	PrioridadUso    int
	UsuarioID       string
}

// CrearLote da de alta un lote y registra en la misma transacción la entrada
// de stock que lo origina: el material incrementa su agregado y recalcula su
// costo promedio con el costo del lote. Código duplicado para el material
// falla con ErrLoteDuplicado; caducidad anterior a producción con
// ErrRangoFechasInvalido.
func (uc *LotesUseCase) CrearLote(ctx context.Context, input CrearLoteInputDTO) (*entity.Lote, error) {
	if input.MaterialID == "" || input.Codigo == "" || input.UsuarioID == "" {
		return nil, domain.ErrEntradaInvalida
	}
	if !input.CantidadInicial.IsPositive() || input.CostoUnitario.IsNegative() {
		return nil, domain.ErrEntradaInvalida
	}

	ahora := uc.ahora()
	produccion := ahora
	if input.FechaProduccion != nil {
		produccion = *input.FechaProduccion
	}
	if input.FechaCaducidad != nil && input.FechaCaducidad.Before(produccion) {
		return nil, domain.ErrRangoFechasInvalido
	}

	lote := &entity.Lote{
		ID:              uuid.New().String(),
		MaterialID:      input.MaterialID,
		Codigo:          input.Codigo,
		FechaProduccion: produccion,
		FechaCaducidad:  input.FechaCaducidad,
		CantidadInicial: input.CantidadInicial,
		CantidadActual:  input.CantidadInicial,
		PrioridadUso:    input.PrioridadUso,
		CostoUnitario:   input.CostoUnitario,
		Activo:          true,
		CreatedAt:       ahora,
		UpdatedAt:       ahora,
	}

	err := uc.txRunner.Run(ctx, func(
		materialRepo repository.MaterialRepository,
		loteRepo repository.LoteRepository,
		movRepo repository.MovimientoRepository,
	) error {
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

		if err := loteRepo.Crear(ctx, lote); err != nil {
			return err
		}

		mov := &entity.Movimiento{
			MaterialID:  input.MaterialID,
			LoteID:      &lote.ID,
			Tipo:        entity.MovimientoEntrada,
			Cantidad:    input.CantidadInicial,
			Descripcion: "alta de lote " + input.Codigo,
			UsuarioID:   input.UsuarioID,
			Fecha:       ahora,
			CreatedAt:   ahora,
		}
		if err := movRepo.Crear(ctx, mov); err != nil {
			return err
		}

		nuevoCosto := domaininv.CostoPromedio(material.StockActual, material.CostoUnitario, input.CantidadInicial, input.CostoUnitario)
		return materialRepo.ActualizarStockYCosto(ctx, material.ID, material.StockActual.Add(input.CantidadInicial), nuevoCosto)
	})
	if err != nil {
		return nil, err
	}
	return lote, nil
}

// OrdenAsignacion devuelve los lotes con cantidad disponible del material en
// el orden en que deben consumirse: caducidad ascendente con los lotes sin
// caducidad al final, luego producción, luego prioridad.
func (uc *LotesUseCase) OrdenAsignacion(ctx context.Context, materialID string) ([]*entity.Lote, error) {
	if materialID == "" {
		return nil, domain.ErrEntradaInvalida
	}
	return uc.loteRepo.ListarDisponibles(ctx, materialID)
}

// DesactivarLote retira un lote (borrado suave). Bloqueado mientras el lote
// conserve cantidad: primero hay que consumirla o ajustarla a cero.
func (uc *LotesUseCase) DesactivarLote(ctx context.Context, loteID string) error {
	if loteID == "" {
		return domain.ErrEntradaInvalida
	}
	return uc.txRunner.Run(ctx, func(
		_ repository.MaterialRepository,
		loteRepo repository.LoteRepository,
		_ repository.MovimientoRepository,
	) error {
		lote, err := loteRepo.GetForUpdate(ctx, loteID)
		if err != nil {
			return err
		}
		if lote == nil {
			return domain.ErrLoteNoEncontrado
		}
		if lote.CantidadActual.IsPositive() {
			return domain.ErrLoteConStock
		}
		return loteRepo.Desactivar(ctx, loteID)
	})
}

// DiasParaCaducar expone el cálculo de dominio con el reloj del caso de uso.
func (uc *LotesUseCase) DiasParaCaducar(lote *entity.Lote) *int {
	return domaininv.DiasParaCaducar(lote, uc.ahora())
}
