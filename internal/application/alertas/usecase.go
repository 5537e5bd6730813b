package alertas

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/almacen-core/internal/domain"
	"github.com/jhoicas/almacen-core/internal/domain/entity"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

// Opciones de comportamiento del motor de alertas.
// Dedup en true evita regenerar una alerta mientras el destinatario conserve
// una activa sin leer del mismo tipo para el mismo material; en false el
// motor notifica en cada evento calificante, decisión que queda en manos de
// quien configura el sistema.
type Opciones struct {
	Dedup bool
}

// UseCase deriva alertas del estado del libro y los lotes y gestiona su
// estado de lectura. Solo lee stock, nunca lo escribe; las alertas se mutan
// únicamente para marcar lectura o retirarlas.
type UseCase struct {
	alertaRepo repository.AlertaRepository
	opts       Opciones
	ahora      func() time.Time
}

// NewUseCase construye el motor de alertas. reloj nil usa time.Now.
func NewUseCase(alertaRepo repository.AlertaRepository, opts Opciones, reloj func() time.Time) *UseCase {
	if reloj == nil {
		reloj = time.Now
	}
	return &UseCase{alertaRepo: alertaRepo, opts: opts, ahora: reloj}
}

// GenerarStockBajo crea una alerta de stock bajo por destinatario con un
// mensaje plantillado a partir del estado del material.
func (uc *UseCase) GenerarStockBajo(ctx context.Context, material *entity.Material, destinatarios []string) ([]*entity.Alerta, error) {
	if material == nil || len(destinatarios) == 0 {
		return nil, domain.ErrEntradaInvalida
	}
	mensaje := fmt.Sprintf(
		"Stock bajo: %s tiene %s disponibles (mínimo %s)",
		material.Nombre, material.StockActual.String(), material.StockMinimo.String(),
	)
	return uc.generar(ctx, entity.AlertaStockBajo, &material.ID, mensaje, destinatarios)
}

// GenerarCaducidad crea una alerta de caducidad próxima por destinatario para
// un lote concreto.
func (uc *UseCase) GenerarCaducidad(ctx context.Context, material *entity.Material, lote *entity.Lote, destinatarios []string, diasRestantes int) ([]*entity.Alerta, error) {
	if material == nil || lote == nil || len(destinatarios) == 0 {
		return nil, domain.ErrEntradaInvalida
	}
	var mensaje string
	switch {
	case diasRestantes <= 0:
		mensaje = fmt.Sprintf("Caducidad: el lote %s de %s ya está caducado", lote.Codigo, material.Nombre)
	case diasRestantes == 1:
		mensaje = fmt.Sprintf("Caducidad próxima: el lote %s de %s caduca mañana", lote.Codigo, material.Nombre)
	default:
		mensaje = fmt.Sprintf("Caducidad próxima: el lote %s de %s caduca en %d días", lote.Codigo, material.Nombre, diasRestantes)
	}
	return uc.generar(ctx, entity.AlertaCaducidad, &material.ID, mensaje, destinatarios)
}

func (uc *UseCase) generar(ctx context.Context, tipo string, materialID *string, mensaje string, destinatarios []string) ([]*entity.Alerta, error) {
	ahora := uc.ahora()
	creadas := make([]*entity.Alerta, 0, len(destinatarios))
	for _, destinatario := range destinatarios {
		if destinatario == "" {
			return nil, domain.ErrEntradaInvalida
		}
		if uc.opts.Dedup {
			existe, err := uc.alertaRepo.ExisteNoLeida(ctx, materialID, tipo, destinatario)
			if err != nil {
				return nil, err
			}
			if existe {
				continue
			}
		}
		alerta := &entity.Alerta{
			MaterialID:     materialID,
			Tipo:           tipo,
			Mensaje:        mensaje,
			DestinatarioID: destinatario,
			Activa:         true,
			CreatedAt:      ahora,
		}
		if err := uc.alertaRepo.Crear(ctx, alerta); err != nil {
			return nil, err
		}
		creadas = append(creadas, alerta)
	}
	return creadas, nil
}

// MarcarLeida pasa la alerta a leída y sella la fecha de lectura. La
// transición es de un solo sentido. Falla con ErrAlertaNoEncontrada si la
// alerta no existe o pertenece a otro destinatario.
func (uc *UseCase) MarcarLeida(ctx context.Context, alertaID, destinatarioID string) error {
	if alertaID == "" || destinatarioID == "" {
		return domain.ErrEntradaInvalida
	}
	return uc.alertaRepo.MarcarLeida(ctx, alertaID, destinatarioID, uc.ahora())
}

// Desactivar retira una alerta (borrado suave), con independencia de si fue
// leída o no.
func (uc *UseCase) Desactivar(ctx context.Context, alertaID string) error {
	if alertaID == "" {
		return domain.ErrEntradaInvalida
	}
	return uc.alertaRepo.Desactivar(ctx, alertaID)
}

// Pendientes lista las alertas de un destinatario; soloNoLeidas filtra las ya
// atendidas.
func (uc *UseCase) Pendientes(ctx context.Context, destinatarioID string, soloNoLeidas bool) ([]*entity.Alerta, error) {
	if destinatarioID == "" {
		return nil, domain.ErrEntradaInvalida
	}
	return uc.alertaRepo.ListarPorDestinatario(ctx, destinatarioID, soloNoLeidas)
}
