package inventario

import (
	"time"

	"github.com/jhoicas/almacen-core/internal/domain/entity"
)

// DiasParaCaducar devuelve los días que faltan para que el lote caduque,
// redondeando hacia arriba: un lote que caduca en 36 horas reporta 2 días.
// Devuelve nil si el lote no tiene fecha de caducidad. Un valor negativo
// significa que el lote ya caducó.
func DiasParaCaducar(lote *entity.Lote, ahora time.Time) *int {
	if lote.FechaCaducidad == nil {
		return nil
	}
	restante := lote.FechaCaducidad.Sub(ahora)
	dias := int(restante / (24 * time.Hour))
	if restante%(24*time.Hour) > 0 {
		dias++
	}
	return &dias
}

// CaducaDentroDe indica si el lote caduca dentro de la ventana [ahora, ahora+dias].
// Los lotes sin caducidad o ya caducados quedan fuera de la ventana.
func CaducaDentroDe(lote *entity.Lote, ahora time.Time, dias int) bool {
	if lote.FechaCaducidad == nil {
		return false
	}
	limite := ahora.AddDate(0, 0, dias)
	return !lote.FechaCaducidad.Before(ahora) && !lote.FechaCaducidad.After(limite)
}
