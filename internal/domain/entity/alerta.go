package entity

import "time"

// Tipos de alerta derivados del estado del libro y los lotes.
const (
	AlertaStockBajo            = "stock_bajo"
	AlertaCaducidad            = "caducidad"
	AlertaVencimientoProveedor = "vencimiento_proveedor"
	AlertaAjusteRequerido      = "ajuste_requerido"
)

// Alerta es una notificación derivada para un destinatario concreto.
// Estado de lectura: no leída → leída (un solo sentido, vía MarcarLeida).
// Activa → inactiva es un retiro suave, independiente del estado de lectura.
// El procesamiento de movimientos nunca muta alertas directamente.
type Alerta struct {
	ID             string
	MaterialID     *string
	Tipo           string
	Mensaje        string
	DestinatarioID string
	Leida          bool
	FechaLectura   *time.Time
	Activa         bool
	CreatedAt      time.Time
}
