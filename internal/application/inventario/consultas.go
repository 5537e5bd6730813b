package inventario

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-core/internal/domain"
	"github.com/jhoicas/almacen-core/internal/domain/entity"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

// ConsultasUseCase expone las vistas derivadas del libro de stock. Son
// lecturas recalculadas bajo demanda sobre las filas vivas; este caso de uso
// nunca escribe stock.
type ConsultasUseCase struct {
	materialRepo repository.MaterialRepository
	loteRepo     repository.LoteRepository
	ahora        Reloj
}

// NewConsultasUseCase construye el caso de uso de consultas. reloj nil usa time.Now.
func NewConsultasUseCase(materialRepo repository.MaterialRepository, loteRepo repository.LoteRepository, reloj Reloj) *ConsultasUseCase {
	if reloj == nil {
		reloj = time.Now
	}
	return &ConsultasUseCase{materialRepo: materialRepo, loteRepo: loteRepo, ahora: reloj}
}

// MaterialesBajoStock devuelve los materiales activos con
// stock_actual <= stock_minimo.
func (uc *ConsultasUseCase) MaterialesBajoStock(ctx context.Context) ([]*entity.Material, error) {
	return uc.materialRepo.ListarBajoStock(ctx)
}

// LotesPorCaducar devuelve los lotes con cantidad disponible cuya caducidad
// cae dentro de [ahora, ahora+dias]. Lotes sin caducidad quedan fuera.
func (uc *ConsultasUseCase) LotesPorCaducar(ctx context.Context, dias int) ([]*entity.Lote, error) {
	if dias < 0 {
		return nil, domain.ErrEntradaInvalida
	}
	desde := uc.ahora()
	return uc.loteRepo.ListarPorCaducar(ctx, desde, desde.AddDate(0, 0, dias))
}

// HistorialMovimientos lista el diario de un material en un rango de fechas.
type HistorialUseCase struct {
	movRepo repository.MovimientoRepository
}

// NewHistorialUseCase construye el caso de uso de historial.
func NewHistorialUseCase(movRepo repository.MovimientoRepository) *HistorialUseCase {
	return &HistorialUseCase{movRepo: movRepo}
}

// PorMaterial lista los movimientos de un material, más reciente primero.
func (uc *HistorialUseCase) PorMaterial(ctx context.Context, materialID string, desde, hasta *time.Time, limit, offset int) ([]*entity.Movimiento, error) {
	if materialID == "" {
		return nil, domain.ErrEntradaInvalida
	}
	return uc.movRepo.ListarPorMaterial(ctx, materialID, desde, hasta, limit, offset)
}

// PorLote lista los movimientos que tocaron un lote concreto.
func (uc *HistorialUseCase) PorLote(ctx context.Context, loteID string, limit, offset int) ([]*entity.Movimiento, error) {
	if loteID == "" {
		return nil, domain.ErrEntradaInvalida
	}
	return uc.movRepo.ListarPorLote(ctx, loteID, limit, offset)
}
