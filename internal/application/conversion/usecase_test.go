package conversion_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-core/internal/application/conversion"
	"github.com/jhoicas/almacen-core/internal/domain"
	"github.com/jhoicas/almacen-core/internal/domain/entity"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// grafoFake guarda las aristas en memoria, indexadas por origen→destino.
type grafoFake struct {
	mu      sync.Mutex
	aristas map[[2]string]*entity.ConversionUnidad
}

func nuevoGrafoFake() *grafoFake {
	return &grafoFake{aristas: map[[2]string]*entity.ConversionUnidad{}}
}

func (g *grafoFake) Get(_ context.Context, origenID, destinoID string) (*entity.ConversionUnidad, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.aristas[[2]string{origenID, destinoID}]
	if !ok || !c.Activa {
		return nil, nil
	}
	copia := *c
	return &copia, nil
}

func (g *grafoFake) Crear(_ context.Context, c *entity.ConversionUnidad) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.aristas[[2]string{c.UnidadOrigenID, c.UnidadDestinoID}] = c
	return nil
}

func (g *grafoFake) ActualizarFactor(_ context.Context, origenID, destinoID string, factor decimal.Decimal) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.aristas[[2]string{origenID, destinoID}]
	if !ok || !c.Activa {
		return domain.ErrSinRutaConversion
	}
	c.Factor = factor
	return nil
}

func (g *grafoFake) Desactivar(_ context.Context, origenID, destinoID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.aristas[[2]string{origenID, destinoID}]; ok {
		c.Activa = false
	}
	return nil
}

func (g *grafoFake) Listar(_ context.Context) ([]*entity.ConversionUnidad, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var lista []*entity.ConversionUnidad
	for _, c := range g.aristas {
		if c.Activa {
			copia := *c
			lista = append(lista, &copia)
		}
	}
	return lista, nil
}

// grafoTxFake revierte el grafo entero si el callback falla.
type grafoTxFake struct {
	g *grafoFake
}

func (r *grafoTxFake) RunConversion(_ context.Context, fn func(repo repository.ConversionRepository) error) error {
	snap := map[[2]string]*entity.ConversionUnidad{}
	r.g.mu.Lock()
	for k, c := range r.g.aristas {
		copia := *c
		snap[k] = &copia
	}
	r.g.mu.Unlock()
	if err := fn(r.g); err != nil {
		r.g.mu.Lock()
		r.g.aristas = snap
		r.g.mu.Unlock()
		return err
	}
	return nil
}

func nuevoUseCase() (*grafoFake, *conversion.UseCase) {
	g := nuevoGrafoFake()
	return g, conversion.NewUseCase(g, &grafoTxFake{g})
}

func TestCrearConversionGeneraInversa(t *testing.T) {
	g, uc := nuevoUseCase()

	par, err := uc.CrearConversion(context.Background(), "u-kg", "u-g", dec("1000"))
	require.NoError(t, err)
	require.NotNil(t, par)
	assert.True(t, par.Directa.Factor.Equal(dec("1000")))
	assert.True(t, par.Inversa.Factor.Equal(dec("0.001")))
	assert.Equal(t, "u-g", par.Inversa.UnidadOrigenID)
	assert.Equal(t, "u-kg", par.Inversa.UnidadDestinoID)

	// las dos aristas quedan persistidas
	directa, _ := g.Get(context.Background(), "u-kg", "u-g")
	inversa, _ := g.Get(context.Background(), "u-g", "u-kg")
	require.NotNil(t, directa)
	require.NotNil(t, inversa)
}

func TestConvertirIdaYVuelta(t *testing.T) {
	_, uc := nuevoUseCase()
	ctx := context.Background()
	_, err := uc.CrearConversion(ctx, "u-kg", "u-g", dec("1000"))
	require.NoError(t, err)

	ida, err := uc.Convertir(ctx, dec("2.5"), "u-kg", "u-g")
	require.NoError(t, err)
	assert.True(t, ida.Equal(dec("2500")))

	vuelta, err := uc.Convertir(ctx, ida, "u-g", "u-kg")
	require.NoError(t, err)
	assert.True(t, vuelta.Equal(dec("2.5")), "ida y vuelta recupera la cantidad original: %s", vuelta)
}

func TestConvertirMismaUnidad(t *testing.T) {
	_, uc := nuevoUseCase()
	res, err := uc.Convertir(context.Background(), dec("7.3"), "u-kg", "u-kg")
	require.NoError(t, err)
	assert.True(t, res.Equal(dec("7.3")))
}

func TestConvertirSoloConInversa(t *testing.T) {
	g, uc := nuevoUseCase()
	ctx := context.Background()
	// solo la arista g→kg; resolver kg→g debe dividir por su factor
	require.NoError(t, g.Crear(ctx, &entity.ConversionUnidad{
		UnidadOrigenID: "u-g", UnidadDestinoID: "u-kg", Factor: dec("0.001"), Activa: true,
	}))

	res, err := uc.Convertir(ctx, dec("3"), "u-kg", "u-g")
	require.NoError(t, err)
	assert.True(t, res.Equal(dec("3000")))
}

func TestConvertirSinRutaNiTransitiva(t *testing.T) {
	_, uc := nuevoUseCase()
	ctx := context.Background()
	_, err := uc.CrearConversion(ctx, "u-saco", "u-kg", dec("25"))
	require.NoError(t, err)
	_, err = uc.CrearConversion(ctx, "u-kg", "u-g", dec("1000"))
	require.NoError(t, err)

	// saco→kg y kg→g existen, pero saco→g no se encadena
	_, err = uc.Convertir(ctx, dec("1"), "u-saco", "u-g")
	assert.ErrorIs(t, err, domain.ErrSinRutaConversion)
}

func TestCrearConversionFactorInvalido(t *testing.T) {
	_, uc := nuevoUseCase()
	ctx := context.Background()

	_, err := uc.CrearConversion(ctx, "u-kg", "u-g", dec("0"))
	assert.ErrorIs(t, err, domain.ErrFactorInvalido)
	_, err = uc.CrearConversion(ctx, "u-kg", "u-g", dec("-2"))
	assert.ErrorIs(t, err, domain.ErrFactorInvalido)
	_, err = uc.CrearConversion(ctx, "u-kg", "u-kg", dec("1"))
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

func TestCrearConversionDuplicada(t *testing.T) {
	_, uc := nuevoUseCase()
	ctx := context.Background()
	_, err := uc.CrearConversion(ctx, "u-kg", "u-g", dec("1000"))
	require.NoError(t, err)

	_, err = uc.CrearConversion(ctx, "u-kg", "u-g", dec("500"))
	assert.ErrorIs(t, err, domain.ErrConversionDuplicada)
	// también en el sentido contrario: la inversa ya existe
	_, err = uc.CrearConversion(ctx, "u-g", "u-kg", dec("0.001"))
	assert.ErrorIs(t, err, domain.ErrConversionDuplicada)
}

func TestActualizarConversionMantienePareja(t *testing.T) {
	_, uc := nuevoUseCase()
	ctx := context.Background()
	_, err := uc.CrearConversion(ctx, "u-caja", "u-unidad", dec("12"))
	require.NoError(t, err)

	require.NoError(t, uc.ActualizarConversion(ctx, "u-caja", "u-unidad", dec("24")))

	res, err := uc.Convertir(ctx, dec("2"), "u-caja", "u-unidad")
	require.NoError(t, err)
	assert.True(t, res.Equal(dec("48")))
	res, err = uc.Convertir(ctx, dec("48"), "u-unidad", "u-caja")
	require.NoError(t, err)
	assert.True(t, res.Equal(dec("2")), "la inversa se actualizó con la directa")
}

func TestActualizarConversionInexistente(t *testing.T) {
	_, uc := nuevoUseCase()
	err := uc.ActualizarConversion(context.Background(), "u-kg", "u-g", dec("1000"))
	assert.ErrorIs(t, err, domain.ErrSinRutaConversion)
}

func TestEliminarConversionDesactivaPareja(t *testing.T) {
	_, uc := nuevoUseCase()
	ctx := context.Background()
	_, err := uc.CrearConversion(ctx, "u-kg", "u-g", dec("1000"))
	require.NoError(t, err)

	require.NoError(t, uc.EliminarConversion(ctx, "u-kg", "u-g"))

	_, err = uc.Convertir(ctx, dec("1"), "u-kg", "u-g")
	assert.ErrorIs(t, err, domain.ErrSinRutaConversion)
	_, err = uc.Convertir(ctx, dec("1"), "u-g", "u-kg")
	assert.ErrorIs(t, err, domain.ErrSinRutaConversion)
}
