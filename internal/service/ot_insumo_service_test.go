package service_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"aseopro/internal/apierror"
	"aseopro/internal/dto"
	"aseopro/internal/model"
	"aseopro/internal/repository"
	"aseopro/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── OTInsumoRepository stub ─────────────────────────────────────────────────

type stubOTInsumoRepo struct {
	insumos map[uuid.UUID]*model.OTInsumo
}

func newStubOTInsumoRepo() *stubOTInsumoRepo {
	return &stubOTInsumoRepo{insumos: make(map[uuid.UUID]*model.OTInsumo)}
}

func (r *stubOTInsumoRepo) CreateTx(_ *gorm.DB, i *model.OTInsumo) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	i.CreatedAt = time.Now()
	r.insumos[i.ID] = i
	return nil
}

func (r *stubOTInsumoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.OTInsumo, error) {
	i, ok := r.insumos[id]
	if !ok {
		return nil, apierror.ErrNotFound
	}
	return i, nil
}

func (r *stubOTInsumoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.OTInsumo, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubOTInsumoRepo) ListByOT(_ context.Context, otReferencia string) ([]model.OTInsumo, error) {
	var result []model.OTInsumo
	for _, i := range r.insumos {
		if i.OTReferencia == otReferencia {
			result = append(result, *i)
		}
	}
	sort.Slice(result, func(a, b int) bool { return result[a].CreatedAt.Before(result[b].CreatedAt) })
	return result, nil
}

func (r *stubOTInsumoRepo) SaveTx(_ *gorm.DB, i *model.OTInsumo) error {
	r.insumos[i.ID] = i
	return nil
}

func (r *stubOTInsumoRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.insumos[id]; !ok {
		return apierror.ErrNotFound
	}
	delete(r.insumos, id)
	return nil
}

func (r *stubOTInsumoRepo) DB() *gorm.DB { return nil }

var _ repository.OTInsumoRepository = (*stubOTInsumoRepo)(nil)

// ── Fixture ─────────────────────────────────────────────────────────────────

type otFixture struct {
	repo         *stubOTInsumoRepo
	productoRepo *stubProductoRepo
	movRepo      *stubMovimientoRepo
	svc          service.OTInsumoService
}

func newOTFixture() *otFixture {
	repo := newStubOTInsumoRepo()
	productoRepo := newStubProductoRepo()
	movRepo := &stubMovimientoRepo{}
	inventario := service.NewInventarioService(productoRepo, movRepo)
	return &otFixture{
		repo:         repo,
		productoRepo: productoRepo,
		movRepo:      movRepo,
		svc:          service.NewOTInsumoService(repo, productoRepo, inventario),
	}
}

// ── Tests ───────────────────────────────────────────────────────────────────

func TestCrearOTInsumoConsumeStock(t *testing.T) {
	f := newOTFixture()
	p := seedProducto(f.productoRepo, "Desinfectante industrial", 18000, 12, 3)

	resp, err := f.svc.Crear(context.Background(), "operario1", dto.CrearOTInsumoRequest{
		OTReferencia: "OT-2026-118",
		ProductoID:   p.ID.String(),
		Cantidad:     3,
	})
	require.NoError(t, err)

	assert.Equal(t, "OT-2026-118", resp.OTReferencia)
	assert.Equal(t, 9, p.StockActual)
	// Costo omitido: usa el precio_costo vigente del producto.
	assert.True(t, resp.CostoUnitario.Equal(p.PrecioCosto))
	require.Len(t, f.movRepo.movimientos, 1)
	assert.Equal(t, model.MovSalida, f.movRepo.movimientos[0].Tipo)
}

func TestCrearOTInsumoSinStock(t *testing.T) {
	f := newOTFixture()
	p := seedProducto(f.productoRepo, "Ácido muriático", 7000, 2, 1)

	_, err := f.svc.Crear(context.Background(), "operario1", dto.CrearOTInsumoRequest{
		OTReferencia: "OT-2026-119",
		ProductoID:   p.ID.String(),
		Cantidad:     5,
	})
	assert.ErrorIs(t, err, apierror.ErrStockInsuficiente)
	assert.Equal(t, 2, p.StockActual)
}

func TestActualizarOTInsumoAumentaConsumo(t *testing.T) {
	f := newOTFixture()
	p := seedProducto(f.productoRepo, "Bolsa industrial", 500, 20, 5)

	resp, err := f.svc.Crear(context.Background(), "operario1", dto.CrearOTInsumoRequest{
		OTReferencia: "OT-2026-120",
		ProductoID:   p.ID.String(),
		Cantidad:     4,
	})
	require.NoError(t, err)
	require.Equal(t, 16, p.StockActual)

	actualizado, err := f.svc.Actualizar(context.Background(), uuid.MustParse(resp.ID), dto.ActualizarOTInsumoRequest{
		Cantidad: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, actualizado.Cantidad)
	// Only the differential (3) leaves the shelf.
	assert.Equal(t, 13, p.StockActual)
	require.Len(t, f.movRepo.movimientos, 2)
	assert.Equal(t, 3, f.movRepo.movimientos[1].Cantidad)
}

func TestActualizarOTInsumoReduceConsumo(t *testing.T) {
	f := newOTFixture()
	p := seedProducto(f.productoRepo, "Paño amarillo", 800, 10, 2)

	resp, err := f.svc.Crear(context.Background(), "operario1", dto.CrearOTInsumoRequest{
		OTReferencia: "OT-2026-121",
		ProductoID:   p.ID.String(),
		Cantidad:     6,
	})
	require.NoError(t, err)
	require.Equal(t, 4, p.StockActual)

	_, err = f.svc.Actualizar(context.Background(), uuid.MustParse(resp.ID), dto.ActualizarOTInsumoRequest{
		Cantidad: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, p.StockActual)
	require.Len(t, f.movRepo.movimientos, 2)
	assert.Equal(t, model.MovEntrada, f.movRepo.movimientos[1].Tipo)
	assert.Equal(t, 4, f.movRepo.movimientos[1].Cantidad)
}

func TestActualizarOTInsumoAumentoSinStock(t *testing.T) {
	f := newOTFixture()
	p := seedProducto(f.productoRepo, "Removedor", 11000, 5, 1)

	resp, err := f.svc.Crear(context.Background(), "operario1", dto.CrearOTInsumoRequest{
		OTReferencia: "OT-2026-122",
		ProductoID:   p.ID.String(),
		Cantidad:     5,
	})
	require.NoError(t, err)
	require.Equal(t, 0, p.StockActual)

	// The extra units go through the stock guard like any other salida.
	_, err = f.svc.Actualizar(context.Background(), uuid.MustParse(resp.ID), dto.ActualizarOTInsumoRequest{
		Cantidad: 8,
	})
	assert.ErrorIs(t, err, apierror.ErrStockInsuficiente)
}

func TestEliminarOTInsumoRestauraStock(t *testing.T) {
	f := newOTFixture()
	p := seedProducto(f.productoRepo, "Limpiador de alfombras", 22000, 7, 2)

	resp, err := f.svc.Crear(context.Background(), "operario1", dto.CrearOTInsumoRequest{
		OTReferencia: "OT-2026-123",
		ProductoID:   p.ID.String(),
		Cantidad:     4,
	})
	require.NoError(t, err)
	require.Equal(t, 3, p.StockActual)

	err = f.svc.Eliminar(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, 7, p.StockActual)
	assert.Empty(t, f.repo.insumos)
}

func TestEliminarOTInsumoDosVecesNoDuplicaRestauracion(t *testing.T) {
	f := newOTFixture()
	p := seedProducto(f.productoRepo, "Cera para pisos", 15000, 10, 2)

	resp, err := f.svc.Crear(context.Background(), "operario1", dto.CrearOTInsumoRequest{
		OTReferencia: "OT-2026-130",
		ProductoID:   p.ID.String(),
		Cantidad:     6,
	})
	require.NoError(t, err)
	require.Equal(t, 4, p.StockActual)

	id := uuid.MustParse(resp.ID)
	require.NoError(t, f.svc.Eliminar(context.Background(), id))
	require.Equal(t, 10, p.StockActual)
	movimientosTrasPrimero := len(f.movRepo.movimientos)

	// The second delete hits zero rows and aborts: the stock stays restored once.
	err = f.svc.Eliminar(context.Background(), id)
	assert.ErrorIs(t, err, apierror.ErrNotFound)
	assert.Equal(t, 10, p.StockActual)
	assert.Len(t, f.movRepo.movimientos, movimientosTrasPrimero)
}

func TestRespuestaOTInsumoFechaEnUTC(t *testing.T) {
	f := newOTFixture()
	p := seedProducto(f.productoRepo, "Quitamanchas", 9000, 8, 2)

	resp, err := f.svc.Crear(context.Background(), "operario1", dto.CrearOTInsumoRequest{
		OTReferencia: "OT-2026-140",
		ProductoID:   p.ID.String(),
		Cantidad:     1,
	})
	require.NoError(t, err)

	// The timestamp is rendered in UTC, independent of the server's zone.
	parsed, err := time.Parse(time.RFC3339, resp.CreatedAt)
	require.NoError(t, err)
	guardado, err := f.repo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(guardado.CreatedAt.Truncate(time.Second)))
}

func TestCrearOTInsumoCostoExplicito(t *testing.T) {
	f := newOTFixture()
	p := seedProducto(f.productoRepo, "Sellador", 30000, 10, 2)

	resp, err := f.svc.Crear(context.Background(), "operario1", dto.CrearOTInsumoRequest{
		OTReferencia:  "OT-2026-124",
		ProductoID:    p.ID.String(),
		Cantidad:      1,
		CostoUnitario: decimal.NewFromInt(14500),
	})
	require.NoError(t, err)
	assert.True(t, resp.CostoUnitario.Equal(decimal.NewFromInt(14500)))
}
