package domain

import "errors"

// Errores de dominio (sin dependencias externas). El núcleo nunca formatea
// texto para el usuario final: devuelve estos sentinelas y la capa de
// presentación (excluida de este módulo) decide cómo mostrarlos.
var (
	// Validación: entrada mal formada, culpa del caller.
	ErrEntradaInvalida     = errors.New("entrada inválida")
	ErrFactorInvalido      = errors.New("factor de conversión inválido")
	ErrRangoFechasInvalido = errors.New("rango de fechas inválido")

	// Conflicto de estado: recuperable eligiendo otros parámetros.
	ErrStockInsuficiente     = errors.New("stock insuficiente")
	ErrStockLoteInsuficiente = errors.New("stock insuficiente en el lote")
	ErrSuperaCantidadInicial = errors.New("la cantidad supera la cantidad inicial del lote")
	ErrLoteDuplicado         = errors.New("ya existe un lote con ese código para el material")
	ErrLoteConStock          = errors.New("el lote aún tiene stock disponible")
	ErrConversionDuplicada   = errors.New("la conversión entre esas unidades ya existe")

	// Recurso no encontrado / estado inválido del agregado.
	ErrMaterialNoEncontrado = errors.New("material no encontrado")
	ErrMaterialInactivo     = errors.New("material inactivo")
	ErrLoteNoEncontrado     = errors.New("lote no encontrado")
	ErrAlertaNoEncontrada   = errors.New("alerta no encontrada")
	ErrRecetaNoEncontrada   = errors.New("receta no encontrada")
	ErrSinRutaConversion    = errors.New("no existe ruta de conversión entre las unidades")

	// Autorización: se propaga tal cual, nunca se degrada en silencio.
	ErrAjusteNoAutorizado = errors.New("el usuario no está autorizado para este tipo de ajuste")

	// Recurso transitorio: el caller puede reintentar con backoff.
	ErrLockTimeout = errors.New("no se pudo obtener el bloqueo de fila a tiempo")
)
