package entity

import "github.com/shopspring/decimal"

// RecetaIngrediente relaciona una receta con un material requerido.
// La cantidad se expresa en la unidad declarada por la receta, que puede
// diferir de la unidad base del material (el chequeo de disponibilidad
// convierte vía el grafo de conversiones).
type RecetaIngrediente struct {
	MaterialID string
	Cantidad   decimal.Decimal
	UnidadID   string
}

// Receta es el modelo de lectura que consume el verificador de disponibilidad.
// Este subsistema no gestiona recetas: solo las lee para reportar faltantes.
type Receta struct {
	ID           string
	Nombre       string
	Activa       bool
	Ingredientes []RecetaIngrediente
}
