package entity

import "time"

// TipoAjuste clasifica los movimientos de ajuste (merma, rotura, corrección
// de conteo). Cuando RequiereAutorizacion es true, el diario exige que el
// actor pase el chequeo de autorización antes de aceptar el movimiento.
type TipoAjuste struct {
	ID                    string
	Nombre                string
	RequiereAutorizacion  bool
	Activo                bool
	CreatedAt             time.Time
}
