package recetas_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-core/internal/application/recetas"
	"github.com/jhoicas/almacen-core/internal/domain"
	"github.com/jhoicas/almacen-core/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type recetarioFake struct {
	recetas map[string]*entity.Receta
}

func (f *recetarioFake) GetConIngredientes(_ context.Context, id string) (*entity.Receta, error) {
	return f.recetas[id], nil
}

type despensaFake struct {
	materiales map[string]*entity.Material
}

func (f *despensaFake) Crear(_ context.Context, m *entity.Material) error {
	f.materiales[m.ID] = m
	return nil
}

func (f *despensaFake) GetByID(_ context.Context, id string) (*entity.Material, error) {
	return f.materiales[id], nil
}

func (f *despensaFake) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	return f.GetByID(ctx, id)
}

func (f *despensaFake) ActualizarStockYCosto(_ context.Context, _ string, _, _ decimal.Decimal) error {
	return domain.ErrEntradaInvalida // el verificador jamás escribe stock
}

func (f *despensaFake) ActualizarStockMinimo(_ context.Context, _ string, _ decimal.Decimal) error {
	return domain.ErrEntradaInvalida
}

func (f *despensaFake) ListarBajoStock(_ context.Context) ([]*entity.Material, error) {
	return nil, nil
}

func (f *despensaFake) Desactivar(_ context.Context, _ string) error {
	return domain.ErrEntradaInvalida
}

// conversorFijo resuelve con una tabla origen→destino.
type conversorFijo struct {
	factores map[[2]string]decimal.Decimal
}

func (c *conversorFijo) Convertir(_ context.Context, cantidad decimal.Decimal, origenID, destinoID string) (decimal.Decimal, error) {
	if origenID == destinoID {
		return cantidad, nil
	}
	f, ok := c.factores[[2]string{origenID, destinoID}]
	if !ok {
		return decimal.Zero, domain.ErrSinRutaConversion
	}
	return cantidad.Mul(f), nil
}

func nuevoVerificador() (*despensaFake, *recetas.DisponibilidadUseCase) {
	despensa := &despensaFake{materiales: map[string]*entity.Material{
		"mat-harina": {
			ID: "mat-harina", Nombre: "Harina de trigo", UnidadBaseID: "u-kg",
			StockActual: dec("5"), Activo: true,
		},
		"mat-huevo": {
			ID: "mat-huevo", Nombre: "Huevo", UnidadBaseID: "u-unidad",
			StockActual: dec("24"), Activo: true,
		},
	}}
	recetario := &recetarioFake{recetas: map[string]*entity.Receta{
		"rec-bizcocho": {
			ID: "rec-bizcocho", Nombre: "Bizcocho", Activa: true,
			Ingredientes: []entity.RecetaIngrediente{
				{MaterialID: "mat-harina", Cantidad: dec("500"), UnidadID: "u-g"},
				{MaterialID: "mat-huevo", Cantidad: dec("3"), UnidadID: "u-unidad"},
			},
		},
	}}
	conv := &conversorFijo{factores: map[[2]string]decimal.Decimal{
		{"u-g", "u-kg"}: dec("0.001"),
	}}
	return despensa, recetas.NewDisponibilidadUseCase(recetario, despensa, conv)
}

func TestVerificarRecetaDisponible(t *testing.T) {
	_, uc := nuevoVerificador()

	// 8 porciones: 4 kg de harina y 24 huevos, justo el stock
	res, err := uc.Verificar(context.Background(), "rec-bizcocho", 8)
	require.NoError(t, err)
	assert.True(t, res.Disponible)
	assert.Empty(t, res.Faltantes)
	assert.Equal(t, 8, res.Porciones)
}

func TestVerificarReportaFaltantesEnUnidadBase(t *testing.T) {
	_, uc := nuevoVerificador()

	// 10 porciones: 5 kg de harina (alcanza) y 30 huevos (faltan 6)
	res, err := uc.Verificar(context.Background(), "rec-bizcocho", 10)
	require.NoError(t, err)
	assert.False(t, res.Disponible)
	require.Len(t, res.Faltantes, 1)
	falta := res.Faltantes[0]
	assert.Equal(t, "mat-huevo", falta.MaterialID)
	assert.True(t, falta.Requerido.Equal(dec("30")))
	assert.True(t, falta.Disponible.Equal(dec("24")))
	assert.True(t, falta.Faltante.Equal(dec("6")))
}

func TestVerificarConvierteIngredientes(t *testing.T) {
	_, uc := nuevoVerificador()

	// 11 porciones: 5.5 kg de harina contra 5 kg de stock
	res, err := uc.Verificar(context.Background(), "rec-bizcocho", 11)
	require.NoError(t, err)
	require.Len(t, res.Faltantes, 2)
	harina := res.Faltantes[0]
	assert.Equal(t, "mat-harina", harina.MaterialID)
	assert.True(t, harina.Requerido.Equal(dec("5.5")), "500 g por porción convertidos a kg")
	assert.True(t, harina.Faltante.Equal(dec("0.5")))
}

func TestVerificarMaterialInactivoCuentaComoCero(t *testing.T) {
	despensa, uc := nuevoVerificador()
	despensa.materiales["mat-huevo"].Activo = false

	res, err := uc.Verificar(context.Background(), "rec-bizcocho", 1)
	require.NoError(t, err)
	assert.False(t, res.Disponible)
	require.Len(t, res.Faltantes, 1)
	assert.True(t, res.Faltantes[0].Disponible.IsZero())
	assert.True(t, res.Faltantes[0].Faltante.Equal(dec("3")))
}

func TestVerificarRecetaInexistente(t *testing.T) {
	_, uc := nuevoVerificador()

	_, err := uc.Verificar(context.Background(), "rec-fantasma", 1)
	assert.ErrorIs(t, err, domain.ErrRecetaNoEncontrada)
}

func TestVerificarEntradaInvalida(t *testing.T) {
	_, uc := nuevoVerificador()

	_, err := uc.Verificar(context.Background(), "", 1)
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
	_, err = uc.Verificar(context.Background(), "rec-bizcocho", 0)
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}
