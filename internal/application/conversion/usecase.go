package conversion

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-core/internal/domain"
	"github.com/jhoicas/almacen-core/internal/domain/entity"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

// UseCase gestiona el grafo de conversiones entre unidades de medida.
// El grafo es disperso y dirigido: cada par de unidades relacionadas se
// materializa como dos filas mutuamente inversas que siempre se escriben en
// la misma transacción. La resolución de cantidades solo intenta la arista
// directa o la inversa; nunca encadena saltos intermedios.
type UseCase struct {
	convRepo repository.ConversionRepository
	txRunner TxRunner
}

// NewUseCase construye el caso de uso. convRepo se usa para lecturas fuera de
// transacción; txRunner para las escrituras en pareja.
func NewUseCase(convRepo repository.ConversionRepository, txRunner TxRunner) *UseCase {
	return &UseCase{convRepo: convRepo, txRunner: txRunner}
}

// ParConversion es el resultado de crear una conversión: la arista pedida y
// la inversa generada automáticamente.
type ParConversion struct {
	Directa *entity.ConversionUnidad
	Inversa *entity.ConversionUnidad
}

// Convertir traduce una cantidad de una unidad a otra.
// Con arista directa multiplica por el factor; si solo existe la inversa
// (destino→origen) divide por el suyo; si no hay ninguna de las dos falla
// con ErrSinRutaConversion. No hay resolución transitiva multi-salto.
func (uc *UseCase) Convertir(ctx context.Context, cantidad decimal.Decimal, origenID, destinoID string) (decimal.Decimal, error) {
	if origenID == "" || destinoID == "" {
		return decimal.Zero, domain.ErrEntradaInvalida
	}
	if origenID == destinoID {
		return cantidad, nil
	}

	directa, err := uc.convRepo.Get(ctx, origenID, destinoID)
	if err != nil {
		return decimal.Zero, err
	}
	if directa != nil {
		return cantidad.Mul(directa.Factor), nil
	}

	inversa, err := uc.convRepo.Get(ctx, destinoID, origenID)
	if err != nil {
		return decimal.Zero, err
	}
	if inversa != nil {
		return cantidad.Div(inversa.Factor), nil
	}
	return decimal.Zero, domain.ErrSinRutaConversion
}

// CrearConversion inserta la arista origen→destino y su inversa 1/factor de
// forma atómica: si cualquiera de las dos inserciones falla, la transacción
// completa se revierte. Un factor no positivo es ErrFactorInvalido; si ya
// existe una arista en cualquiera de los dos sentidos, ErrConversionDuplicada.
func (uc *UseCase) CrearConversion(ctx context.Context, origenID, destinoID string, factor decimal.Decimal) (*ParConversion, error) {
	if origenID == "" || destinoID == "" || origenID == destinoID {
		return nil, domain.ErrEntradaInvalida
	}
	if !factor.IsPositive() {
		return nil, domain.ErrFactorInvalido
	}

	ahora := time.Now()
	par := &ParConversion{
		Directa: &entity.ConversionUnidad{
			UnidadOrigenID:  origenID,
			UnidadDestinoID: destinoID,
			Factor:          factor,
			Activa:          true,
			CreatedAt:       ahora,
			UpdatedAt:       ahora,
		},
		Inversa: &entity.ConversionUnidad{
			UnidadOrigenID:  destinoID,
			UnidadDestinoID: origenID,
			Factor:          decimal.NewFromInt(1).Div(factor),
			Activa:          true,
			CreatedAt:       ahora,
			UpdatedAt:       ahora,
		},
	}

	err := uc.txRunner.RunConversion(ctx, func(repo repository.ConversionRepository) error {
		for _, sentido := range [][2]string{{origenID, destinoID}, {destinoID, origenID}} {
			existente, err := repo.Get(ctx, sentido[0], sentido[1])
			if err != nil {
				return err
			}
			if existente != nil {
				return domain.ErrConversionDuplicada
			}
		}
		if err := repo.Crear(ctx, par.Directa); err != nil {
			return err
		}
		return repo.Crear(ctx, par.Inversa)
	})
	if err != nil {
		return nil, err
	}
	return par, nil
}

// ActualizarConversion cambia el factor de una arista y el de su inversa
// (1/factor) en la misma transacción; una actualización parcial de un solo
// sentido nunca debe ser observable.
func (uc *UseCase) ActualizarConversion(ctx context.Context, origenID, destinoID string, factor decimal.Decimal) error {
	if origenID == "" || destinoID == "" || origenID == destinoID {
		return domain.ErrEntradaInvalida
	}
	if !factor.IsPositive() {
		return domain.ErrFactorInvalido
	}
	inverso := decimal.NewFromInt(1).Div(factor)

	return uc.txRunner.RunConversion(ctx, func(repo repository.ConversionRepository) error {
		if err := repo.ActualizarFactor(ctx, origenID, destinoID, factor); err != nil {
			return err
		}
		return repo.ActualizarFactor(ctx, destinoID, origenID, inverso)
	})
}

// EliminarConversion desactiva el par directa+inversa en una sola transacción
// (borrado suave: las filas quedan, dejan de resolver conversiones).
func (uc *UseCase) EliminarConversion(ctx context.Context, origenID, destinoID string) error {
	if origenID == "" || destinoID == "" || origenID == destinoID {
		return domain.ErrEntradaInvalida
	}
	return uc.txRunner.RunConversion(ctx, func(repo repository.ConversionRepository) error {
		if err := repo.Desactivar(ctx, origenID, destinoID); err != nil {
			return err
		}
		return repo.Desactivar(ctx, destinoID, origenID)
	})
}
