package inventario

import (
	"sort"

	"github.com/jhoicas/almacen-core/internal/domain/entity"
)

// ConsumirAntes define el orden canónico de asignación FIFO por caducidad:
// primero el lote que caduca antes (los lotes sin caducidad van al final),
// luego el producido antes, por último el de menor número de prioridad.
// Las consultas SQL del registro de lotes replican exactamente esta clave.
func ConsumirAntes(a, b *entity.Lote) bool {
	switch {
	case a.FechaCaducidad == nil && b.FechaCaducidad == nil:
		// sin caducidad ambos: decide producción
	case a.FechaCaducidad == nil:
		return false
	case b.FechaCaducidad == nil:
		return true
	case !a.FechaCaducidad.Equal(*b.FechaCaducidad):
		return a.FechaCaducidad.Before(*b.FechaCaducidad)
	}
	if !a.FechaProduccion.Equal(b.FechaProduccion) {
		return a.FechaProduccion.Before(b.FechaProduccion)
	}
	return a.PrioridadUso < b.PrioridadUso
}

// OrdenarParaConsumo ordena los lotes in situ según ConsumirAntes.
func OrdenarParaConsumo(lotes []*entity.Lote) {
	sort.SliceStable(lotes, func(i, j int) bool {
		return ConsumirAntes(lotes[i], lotes[j])
	})
}
