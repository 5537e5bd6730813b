package repository

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-core/internal/domain/entity"
)

// AlertaRepository define el puerto de persistencia de alertas.
type AlertaRepository interface {
	Crear(ctx context.Context, alerta *entity.Alerta) error
	GetByID(ctx context.Context, id string) (*entity.Alerta, error)
	ListarPorDestinatario(ctx context.Context, destinatarioID string, soloNoLeidas bool) ([]*entity.Alerta, error)
	// MarcarLeida devuelve ErrAlertaNoEncontrada si la alerta no existe o no
	// pertenece al destinatario.
	MarcarLeida(ctx context.Context, id, destinatarioID string, fecha time.Time) error
	// ExisteNoLeida indica si el destinatario ya tiene una alerta activa sin
	// leer del mismo tipo para el material (materialID nil = alerta global).
	ExisteNoLeida(ctx context.Context, materialID *string, tipo, destinatarioID string) (bool, error)
	Desactivar(ctx context.Context, id string) error
}
