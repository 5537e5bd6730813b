package recetas

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-core/internal/application/inventario"
	"github.com/jhoicas/almacen-core/internal/domain"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

// DisponibilidadUseCase es el verificador de disponibilidad de recetas:
// consumidor de solo lectura del libro de stock. Mapea una receta a sus
// materiales requeridos y reporta faltantes; jamás escribe stock ni reserva
// cantidades.
type DisponibilidadUseCase struct {
	recetaRepo   repository.RecetaRepository
	materialRepo repository.MaterialRepository
	convertidor  inventario.Convertidor
}

// NewDisponibilidadUseCase construye el verificador.
func NewDisponibilidadUseCase(
	recetaRepo repository.RecetaRepository,
	materialRepo repository.MaterialRepository,
	convertidor inventario.Convertidor,
) *DisponibilidadUseCase {
	return &DisponibilidadUseCase{
		recetaRepo:   recetaRepo,
		materialRepo: materialRepo,
		convertidor:  convertidor,
	}
}

// FaltanteDTO describe el déficit de un material para la receta, en la unidad
// base del material.
type FaltanteDTO struct {
	MaterialID string
	Nombre     string
	Requerido  decimal.Decimal
	Disponible decimal.Decimal
	Faltante   decimal.Decimal
}

// DisponibilidadDTO es el resultado del chequeo para una receta y un número
// de porciones.
type DisponibilidadDTO struct {
	RecetaID   string
	Porciones  int
	Disponible bool
	Faltantes  []FaltanteDTO
}

// Verificar comprueba si el stock actual cubre los ingredientes de la receta
// para las porciones pedidas. Cada cantidad requerida se convierte a la
// unidad base de su material vía el grafo de conversiones antes de comparar.
// Materiales inactivos cuentan como stock cero.
func (uc *DisponibilidadUseCase) Verificar(ctx context.Context, recetaID string, porciones int) (*DisponibilidadDTO, error) {
	if recetaID == "" || porciones <= 0 {
		return nil, domain.ErrEntradaInvalida
	}

	receta, err := uc.recetaRepo.GetConIngredientes(ctx, recetaID)
	if err != nil {
		return nil, err
	}
	if receta == nil {
		return nil, domain.ErrRecetaNoEncontrada
	}

	factorPorciones := decimal.NewFromInt(int64(porciones))
	resultado := &DisponibilidadDTO{
		RecetaID:   recetaID,
		Porciones:  porciones,
		Disponible: true,
	}

	for _, ingrediente := range receta.Ingredientes {
		material, err := uc.materialRepo.GetByID(ctx, ingrediente.MaterialID)
		if err != nil {
			return nil, err
		}
		if material == nil {
			return nil, domain.ErrMaterialNoEncontrado
		}

		requerido := ingrediente.Cantidad.Mul(factorPorciones)
		if ingrediente.UnidadID != "" && ingrediente.UnidadID != material.UnidadBaseID {
			requerido, err = uc.convertidor.Convertir(ctx, requerido, ingrediente.UnidadID, material.UnidadBaseID)
			if err != nil {
				return nil, err
			}
		}

		disponible := material.StockActual
		if !material.Activo {
			disponible = decimal.Zero
		}
		if disponible.LessThan(requerido) {
			resultado.Disponible = false
			resultado.Faltantes = append(resultado.Faltantes, FaltanteDTO{
				MaterialID: material.ID,
				Nombre:     material.Nombre,
				Requerido:  requerido,
				Disponible: disponible,
				Faltante:   requerido.Sub(disponible),
			})
		}
	}

	return resultado, nil
}
