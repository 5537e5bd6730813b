package alertas

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-core/internal/application/inventario"
	dominv "github.com/jhoicas/almacen-core/internal/domain/inventario"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

// EscaneoUseCase recorre el estado del libro y los lotes y genera las alertas
// que correspondan. Es síncrono: lo invoca un caller externo (por ejemplo el
// binario cmd/escaner); este subsistema no tiene ningún scheduler propio.
type EscaneoUseCase struct {
	consultas    *inventario.ConsultasUseCase
	alertas      *UseCase
	materialRepo repository.MaterialRepository
	ventanaDias  int
	ahora        func() time.Time
}

// NewEscaneoUseCase construye el escaneo. ventanaDias es la antelación con la
// que se avisa de caducidades. reloj nil usa time.Now.
func NewEscaneoUseCase(
	consultas *inventario.ConsultasUseCase,
	alertas *UseCase,
	materialRepo repository.MaterialRepository,
	ventanaDias int,
	reloj func() time.Time,
) *EscaneoUseCase {
	if reloj == nil {
		reloj = time.Now
	}
	return &EscaneoUseCase{
		consultas:    consultas,
		alertas:      alertas,
		materialRepo: materialRepo,
		ventanaDias:  ventanaDias,
		ahora:        reloj,
	}
}

// ResumenEscaneo cuenta lo encontrado y lo notificado en una pasada.
type ResumenEscaneo struct {
	MaterialesBajoStock int
	LotesPorCaducar     int
	AlertasCreadas      int
}

// Ejecutar hace una pasada completa: materiales bajo stock y lotes por
// caducar dentro de la ventana, una alerta por destinatario en cada caso
// (menos las que el dedup descarte).
func (uc *EscaneoUseCase) Ejecutar(ctx context.Context, destinatarios []string) (*ResumenEscaneo, error) {
	resumen := &ResumenEscaneo{}

	bajos, err := uc.consultas.MaterialesBajoStock(ctx)
	if err != nil {
		return nil, err
	}
	resumen.MaterialesBajoStock = len(bajos)
	for _, material := range bajos {
		creadas, err := uc.alertas.GenerarStockBajo(ctx, material, destinatarios)
		if err != nil {
			return nil, err
		}
		resumen.AlertasCreadas += len(creadas)
	}

	lotes, err := uc.consultas.LotesPorCaducar(ctx, uc.ventanaDias)
	if err != nil {
		return nil, err
	}
	resumen.LotesPorCaducar = len(lotes)
	ahora := uc.ahora()
	for _, lote := range lotes {
		material, err := uc.materialRepo.GetByID(ctx, lote.MaterialID)
		if err != nil {
			return nil, err
		}
		if material == nil || !material.Activo {
			continue
		}
		dias := 0
		if d := dominv.DiasParaCaducar(lote, ahora); d != nil {
			dias = *d
		}
		creadas, err := uc.alertas.GenerarCaducidad(ctx, material, lote, destinatarios, dias)
		if err != nil {
			return nil, err
		}
		resumen.AlertasCreadas += len(creadas)
	}

	return resumen, nil
}
