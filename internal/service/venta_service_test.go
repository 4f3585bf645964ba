package service_test

import (
	"context"
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

// ── VentaRepository stub ────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
	ticket int
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, apierror.ErrNotFound
	}
	return v, nil
}

func (r *stubVentaRepo) List(_ context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var result []model.Venta
	for _, v := range r.ventas {
		if filter.Estado != "all" && filter.Estado != "" && v.Estado != filter.Estado {
			continue
		}
		result = append(result, *v)
	}
	return result, int64(len(result)), nil
}

func (r *stubVentaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	v, ok := r.ventas[id]
	if !ok {
		return apierror.ErrNotFound
	}
	v.Estado = estado
	return nil
}

func (r *stubVentaRepo) NextTicketNumber(_ *gorm.DB) (int, error) {
	r.ticket++
	return r.ticket, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── Fixture ─────────────────────────────────────────────────────────────────

type ventaFixture struct {
	repo         *stubVentaRepo
	productoRepo *stubProductoRepo
	movRepo      *stubMovimientoRepo
	svc          service.VentaService
}

func newVentaFixture() *ventaFixture {
	repo := newStubVentaRepo()
	productoRepo := newStubProductoRepo()
	movRepo := &stubMovimientoRepo{}
	inventario := service.NewInventarioService(productoRepo, movRepo)
	return &ventaFixture{
		repo:         repo,
		productoRepo: productoRepo,
		movRepo:      movRepo,
		svc:          service.NewVentaService(repo, productoRepo, inventario),
	}
}

// ── Tests ───────────────────────────────────────────────────────────────────

func TestRegistrarVentaDescuentaStock(t *testing.T) {
	f := newVentaFixture()
	p := seedProducto(f.productoRepo, "Esponja doble uso", 1500, 30, 5)

	resp, err := f.svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 4}},
		Pagos: []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromInt(10000)}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.NumeroTicket)
	assert.Equal(t, 26, p.StockActual)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(6000)))
	assert.True(t, resp.Vuelto.Equal(decimal.NewFromInt(4000)), "vuelto %s", resp.Vuelto)
	assert.Equal(t, "completada", resp.Estado)
	require.Len(t, f.movRepo.movimientos, 1)
	assert.Equal(t, model.MovVenta, f.movRepo.movimientos[0].Tipo)
}

func TestRegistrarVentaUsaPrecioPromocional(t *testing.T) {
	f := newVentaFixture()
	p := seedProducto(f.productoRepo, "Lustramuebles", 5000, 10, 2)
	promo := decimal.NewFromInt(3990)
	p.PrecioPromocional = &promo
	p.EnPromocion = true

	resp, err := f.svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 2}},
		Pagos: []dto.PagoRequest{{Metodo: "tarjeta", Monto: decimal.NewFromInt(7980)}},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(7980)))
	assert.True(t, resp.Vuelto.IsZero())
}

func TestRegistrarVentaPagoInsuficiente(t *testing.T) {
	f := newVentaFixture()
	p := seedProducto(f.productoRepo, "Cloro gel", 2500, 10, 2)

	_, err := f.svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 2}},
		Pagos: []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromInt(4000)}},
	})
	assert.ErrorContains(t, err, "insuficiente")
	assert.Equal(t, 10, p.StockActual)
}

func TestRegistrarVentaSinStock(t *testing.T) {
	f := newVentaFixture()
	p := seedProducto(f.productoRepo, "Último bidón", 9000, 1, 1)

	_, err := f.svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 3}},
		Pagos: []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromInt(27000)}},
	})
	assert.ErrorIs(t, err, apierror.ErrStockInsuficiente)
}

func TestAnularVentaRestauraStock(t *testing.T) {
	f := newVentaFixture()
	p := seedProducto(f.productoRepo, "Toalla papel", 3200, 20, 5)

	resp, err := f.svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 6}},
		Pagos: []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromInt(19200)}},
	})
	require.NoError(t, err)
	require.Equal(t, 14, p.StockActual)

	err = f.svc.Anular(context.Background(), uuid.MustParse(resp.ID), "cliente devolvió el producto")
	require.NoError(t, err)
	assert.Equal(t, 20, p.StockActual)

	venta, err := f.repo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, "anulada", venta.Estado)
	// venta + entrada de reversión
	assert.Len(t, f.movRepo.movimientos, 2)
}

func TestAnularVentaYaAnulada(t *testing.T) {
	f := newVentaFixture()
	p := seedProducto(f.productoRepo, "Jabón barra", 1200, 10, 2)

	resp, err := f.svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
		Pagos: []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromInt(1200)}},
	})
	require.NoError(t, err)

	id := uuid.MustParse(resp.ID)
	require.NoError(t, f.svc.Anular(context.Background(), id, "error de digitación"))
	err = f.svc.Anular(context.Background(), id, "error de digitación")
	assert.ErrorContains(t, err, "ya está anulada")
}

func TestListarVentasFiltraAnuladasPorDefecto(t *testing.T) {
	f := newVentaFixture()
	p := seedProducto(f.productoRepo, "Multiuso", 2900, 50, 5)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
			Items: []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
			Pagos: []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromInt(2900)}},
		})
		require.NoError(t, err)
	}
	var anulable uuid.UUID
	for id := range f.repo.ventas {
		anulable = id
		break
	}
	require.NoError(t, f.svc.Anular(context.Background(), anulable, "prueba de anulación"))

	lista, err := f.svc.Listar(context.Background(), dto.VentaFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), lista.Total)
}
