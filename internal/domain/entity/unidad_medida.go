package entity

import "time"

// UnidadMedida es una unidad en la que se denominan cantidades (kg, g, l, unidad).
// Cada material declara una unidad base; el grafo de conversiones traduce entre ellas.
type UnidadMedida struct {
	ID          string
	Nombre      string
	Abreviatura string
	Activa      bool
	CreatedAt   time.Time
}
