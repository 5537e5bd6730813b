package inventario_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-core/internal/domain"
	"github.com/jhoicas/almacen-core/internal/domain/entity"
	dominv "github.com/jhoicas/almacen-core/internal/domain/inventario"
	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

// almacenFake es un almacén en memoria compartido por los repos fake.
// txMu emula el bloqueo de fila: cada transacción lo retiene completa, con lo
// que dos movimientos concurrentes contra el mismo estado se serializan igual
// que lo harían dos SELECT FOR UPDATE sobre la misma fila.
type almacenFake struct {
	mu          sync.Mutex // acceso al estado
	txMu        sync.Mutex // serialización de transacciones
	materiales  map[string]*entity.Material
	lotes       map[string]*entity.Lote
	movimientos []*entity.Movimiento
	tiposAjuste map[string]*entity.TipoAjuste
}

func nuevoAlmacenFake() *almacenFake {
	return &almacenFake{
		materiales:  map[string]*entity.Material{},
		lotes:       map[string]*entity.Lote{},
		tiposAjuste: map[string]*entity.TipoAjuste{},
	}
}

type instantanea struct {
	materiales  map[string]*entity.Material
	lotes       map[string]*entity.Lote
	movimientos []*entity.Movimiento
}

func (a *almacenFake) snapshot() instantanea {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := instantanea{
		materiales:  make(map[string]*entity.Material, len(a.materiales)),
		lotes:       make(map[string]*entity.Lote, len(a.lotes)),
		movimientos: append([]*entity.Movimiento(nil), a.movimientos...),
	}
	for id, m := range a.materiales {
		copia := *m
		s.materiales[id] = &copia
	}
	for id, l := range a.lotes {
		copia := *l
		s.lotes[id] = &copia
	}
	return s
}

func (a *almacenFake) restaurar(s instantanea) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.materiales = s.materiales
	a.lotes = s.lotes
	a.movimientos = s.movimientos
}

// txRunnerFake ejecuta el callback contra el estado en memoria y lo revierte
// por completo si devuelve error, igual que el Rollback real.
type txRunnerFake struct {
	a *almacenFake
}

func (r *txRunnerFake) Run(_ context.Context, fn func(
	materialRepo repository.MaterialRepository,
	loteRepo repository.LoteRepository,
	movRepo repository.MovimientoRepository,
) error) error {
	r.a.txMu.Lock()
	defer r.a.txMu.Unlock()
	snap := r.a.snapshot()
	if err := fn(&materialesFake{r.a}, &lotesFake{r.a}, &movimientosFake{r.a}); err != nil {
		r.a.restaurar(snap)
		return err
	}
	return nil
}

// --- MaterialRepository ---

type materialesFake struct{ a *almacenFake }

func (f *materialesFake) Crear(_ context.Context, m *entity.Material) error {
	f.a.mu.Lock()
	defer f.a.mu.Unlock()
	f.a.materiales[m.ID] = m
	return nil
}

func (f *materialesFake) GetByID(_ context.Context, id string) (*entity.Material, error) {
	f.a.mu.Lock()
	defer f.a.mu.Unlock()
	m, ok := f.a.materiales[id]
	if !ok {
		return nil, nil
	}
	copia := *m
	return &copia, nil
}

func (f *materialesFake) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	return f.GetByID(ctx, id)
}

func (f *materialesFake) ActualizarStockYCosto(_ context.Context, id string, stock, costo decimal.Decimal) error {
	f.a.mu.Lock()
	defer f.a.mu.Unlock()
	m, ok := f.a.materiales[id]
	if !ok {
		return domain.ErrMaterialNoEncontrado
	}
	m.StockActual = stock
	m.CostoUnitario = costo
	return nil
}

func (f *materialesFake) ActualizarStockMinimo(_ context.Context, id string, minimo decimal.Decimal) error {
	f.a.mu.Lock()
	defer f.a.mu.Unlock()
	m, ok := f.a.materiales[id]
	if !ok {
		return domain.ErrMaterialNoEncontrado
	}
	m.StockMinimo = minimo
	return nil
}

func (f *materialesFake) ListarBajoStock(_ context.Context) ([]*entity.Material, error) {
	f.a.mu.Lock()
	defer f.a.mu.Unlock()
	var lista []*entity.Material
	for _, m := range f.a.materiales {
		if m.Activo && m.BajoStock() {
			copia := *m
			lista = append(lista, &copia)
		}
	}
	return lista, nil
}

func (f *materialesFake) Desactivar(_ context.Context, id string) error {
	f.a.mu.Lock()
	defer f.a.mu.Unlock()
	m, ok := f.a.materiales[id]
	if !ok {
		return domain.ErrMaterialNoEncontrado
	}
	m.Activo = false
	return nil
}

// --- LoteRepository ---

type lotesFake struct{ a *almacenFake }

func (f *lotesFake) Crear(_ context.Context, l *entity.Lote) error {
	f.a.mu.Lock()
	defer f.a.mu.Unlock()
	for _, existente := range f.a.lotes {
		if existente.MaterialID == l.MaterialID && existente.Codigo == l.Codigo {
			return domain.ErrLoteDuplicado
		}
	}
	f.a.lotes[l.ID] = l
	return nil
}

func (f *lotesFake) GetByID(_ context.Context, id string) (*entity.Lote, error) {
	f.a.mu.Lock()
	defer f.a.mu.Unlock()
	l, ok := f.a.lotes[id]
	if !ok {
		return nil, nil
	}
	copia := *l
	return &copia, nil
}

func (f *lotesFake) GetForUpdate(ctx context.Context, id string) (*entity.Lote, error) {
	return f.GetByID(ctx, id)
}

func (f *lotesFake) ActualizarCantidad(_ context.Context, id string, cantidad decimal.Decimal) error {
	f.a.mu.Lock()
	defer f.a.mu.Unlock()
	l, ok := f.a.lotes[id]
	if !ok {
		return domain.ErrLoteNoEncontrado
	}
	l.CantidadActual = cantidad
	return nil
}

func (f *lotesFake) disponibles(materialID string) []*entity.Lote {
	f.a.mu.Lock()
	defer f.a.mu.Unlock()
	var lista []*entity.Lote
	for _, l := range f.a.lotes {
		if l.MaterialID == materialID && l.Activo && l.CantidadActual.IsPositive() {
			copia := *l
			lista = append(lista, &copia)
		}
	}
	dominv.OrdenarParaConsumo(lista)
	return lista
}

func (f *lotesFake) ListarDisponibles(_ context.Context, materialID string) ([]*entity.Lote, error) {
	return f.disponibles(materialID), nil
}

func (f *lotesFake) ListarDisponiblesForUpdate(_ context.Context, materialID string) ([]*entity.Lote, error) {
	return f.disponibles(materialID), nil
}

func (f *lotesFake) ListarPorCaducar(_ context.Context, desde, hasta time.Time) ([]*entity.Lote, error) {
	f.a.mu.Lock()
	defer f.a.mu.Unlock()
	var lista []*entity.Lote
	for _, l := range f.a.lotes {
		if !l.Activo || !l.CantidadActual.IsPositive() || l.FechaCaducidad == nil {
			continue
		}
		if l.FechaCaducidad.Before(desde) || l.FechaCaducidad.After(hasta) {
			continue
		}
		copia := *l
		lista = append(lista, &copia)
	}
	return lista, nil
}

func (f *lotesFake) Desactivar(_ context.Context, id string) error {
	f.a.mu.Lock()
	defer f.a.mu.Unlock()
	l, ok := f.a.lotes[id]
	if !ok {
		return domain.ErrLoteNoEncontrado
	}
	l.Activo = false
	l.EnUso = false
	return nil
}

// --- MovimientoRepository ---

type movimientosFake struct{ a *almacenFake }

func (f *movimientosFake) Crear(_ context.Context, m *entity.Movimiento) error {
	f.a.mu.Lock()
	defer f.a.mu.Unlock()
	if m.ID == "" {
		m.ID = "mov-" + time.Now().Format("150405.000000000")
	}
	f.a.movimientos = append(f.a.movimientos, m)
	return nil
}

func (f *movimientosFake) GetByID(_ context.Context, id string) (*entity.Movimiento, error) {
	f.a.mu.Lock()
	defer f.a.mu.Unlock()
	for _, m := range f.a.movimientos {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (f *movimientosFake) ListarPorMaterial(_ context.Context, materialID string, _, _ *time.Time, _, _ int) ([]*entity.Movimiento, error) {
	f.a.mu.Lock()
	defer f.a.mu.Unlock()
	var lista []*entity.Movimiento
	for _, m := range f.a.movimientos {
		if m.MaterialID == materialID {
			lista = append(lista, m)
		}
	}
	return lista, nil
}

func (f *movimientosFake) ListarPorLote(_ context.Context, loteID string, _, _ int) ([]*entity.Movimiento, error) {
	f.a.mu.Lock()
	defer f.a.mu.Unlock()
	var lista []*entity.Movimiento
	for _, m := range f.a.movimientos {
		if m.LoteID != nil && *m.LoteID == loteID {
			lista = append(lista, m)
		}
	}
	return lista, nil
}

// --- TipoAjusteRepository ---

type tiposAjusteFake struct{ a *almacenFake }

func (f *tiposAjusteFake) GetByID(_ context.Context, id string) (*entity.TipoAjuste, error) {
	f.a.mu.Lock()
	defer f.a.mu.Unlock()
	t, ok := f.a.tiposAjuste[id]
	if !ok {
		return nil, nil
	}
	return t, nil
}

func (f *tiposAjusteFake) Listar(_ context.Context) ([]*entity.TipoAjuste, error) {
	f.a.mu.Lock()
	defer f.a.mu.Unlock()
	var lista []*entity.TipoAjuste
	for _, t := range f.a.tiposAjuste {
		lista = append(lista, t)
	}
	return lista, nil
}

// --- Convertidor ---

// convertidorFake resuelve con una tabla fija origen→destino.
type convertidorFake struct {
	factores map[[2]string]decimal.Decimal
}

func (c *convertidorFake) Convertir(_ context.Context, cantidad decimal.Decimal, origenID, destinoID string) (decimal.Decimal, error) {
	if origenID == destinoID {
		return cantidad, nil
	}
	if f, ok := c.factores[[2]string{origenID, destinoID}]; ok {
		return cantidad.Mul(f), nil
	}
	if f, ok := c.factores[[2]string{destinoID, origenID}]; ok {
		return cantidad.Div(f), nil
	}
	return decimal.Zero, domain.ErrSinRutaConversion
}

// --- AutorizadorActores ---

type autorizadorFake struct {
	permitidos map[string]bool // usuarioID -> autorizado
}

func (a *autorizadorFake) EstaAutorizado(_ context.Context, usuarioID string, _ *entity.TipoAjuste) (bool, error) {
	return a.permitidos[usuarioID], nil
}
