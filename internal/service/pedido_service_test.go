package service_test

import (
	"context"
	"errors"
	"fmt"
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

// ── PedidoRepository stub ───────────────────────────────────────────────────

type stubPedidoRepo struct {
	pedidos    map[uuid.UUID]*model.Pedido
	contadores map[string]int
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{
		pedidos:    make(map[uuid.UUID]*model.Pedido),
		contadores: make(map[string]int),
	}
}

func (r *stubPedidoRepo) CreateTx(_ *gorm.DB, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.pedidos[p.ID] = p
	return nil
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, apierror.ErrNotFound
	}
	return p, nil
}

func (r *stubPedidoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Pedido, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubPedidoRepo) List(_ context.Context, _ dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var result []model.Pedido
	for _, p := range r.pedidos {
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (r *stubPedidoRepo) ListRango(_ context.Context, desde, hasta time.Time, limit int) ([]model.Pedido, error) {
	var result []model.Pedido
	for _, p := range r.pedidos {
		if p.CreatedAt.Before(desde) || p.CreatedAt.After(hasta) {
			continue
		}
		result = append(result, *p)
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (r *stubPedidoRepo) SaveTx(_ *gorm.DB, p *model.Pedido) error {
	r.pedidos[p.ID] = p
	return nil
}

func (r *stubPedidoRepo) NextNumero(_ *gorm.DB, fecha string) (int, error) {
	r.contadores[fecha]++
	return r.contadores[fecha], nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

// ── Fixture ─────────────────────────────────────────────────────────────────

type pedidoFixture struct {
	repo         *stubPedidoRepo
	productoRepo *stubProductoRepo
	movRepo      *stubMovimientoRepo
	svc          service.PedidoService
}

func newPedidoFixture() *pedidoFixture {
	productoRepo := newStubProductoRepo()
	movRepo := &stubMovimientoRepo{}
	repo := newStubPedidoRepo()
	inventario := service.NewInventarioService(productoRepo, movRepo)
	return &pedidoFixture{
		repo:         repo,
		productoRepo: productoRepo,
		movRepo:      movRepo,
		svc:          service.NewPedidoService(repo, productoRepo, inventario),
	}
}

func (f *pedidoFixture) crearPedido(t *testing.T, p *model.Producto, cantidad int) *dto.PedidoResponse {
	t.Helper()
	resp, err := f.svc.Crear(context.Background(), "vendedor", dto.CrearPedidoRequest{
		ClienteNombre: "María Quintero",
		Items: []dto.ItemPedidoRequest{
			{ProductoID: p.ID.String(), Cantidad: cantidad},
		},
	})
	require.NoError(t, err)
	return resp
}

// ── Tests ───────────────────────────────────────────────────────────────────

func TestCrearPedidoNumeracionDiaria(t *testing.T) {
	f := newPedidoFixture()
	p := seedProducto(f.productoRepo, "Kit aseo oficina", 25000, 100, 5)

	primero := f.crearPedido(t, p, 2)
	segundo := f.crearPedido(t, p, 1)

	hoy := time.Now().Format("20060102")
	assert.Equal(t, fmt.Sprintf("PED-%s-001", hoy), primero.Numero)
	assert.Equal(t, fmt.Sprintf("PED-%s-002", hoy), segundo.Numero)
	assert.Equal(t, model.PedidoCreado, primero.Estado)
	// Stock does not move at creation time.
	assert.Equal(t, 100, p.StockActual)
	assert.False(t, primero.StockDescontado)
}

func TestCrearPedidoConIVA(t *testing.T) {
	f := newPedidoFixture()
	p := seedProducto(f.productoRepo, "Bidón cloro", 10000, 50, 5)

	resp, err := f.svc.Crear(context.Background(), "vendedor", dto.CrearPedidoRequest{
		ClienteNombre: "Hotel Mirador",
		Items:         []dto.ItemPedidoRequest{{ProductoID: p.ID.String(), Cantidad: 2}},
		Descuento:     decimal.NewFromInt(2000),
		AplicarIVA:    true,
	})
	require.NoError(t, err)

	// (20000 - 2000) * 0.19 = 3420
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(20000)), "subtotal %s", resp.Subtotal)
	assert.True(t, resp.Impuesto.Equal(decimal.NewFromInt(3420)), "impuesto %s", resp.Impuesto)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(21420)), "total %s", resp.Total)
	assert.True(t, resp.SaldoPendiente.Equal(resp.Total))
}

func TestCrearPedidoDescuentoExcesivo(t *testing.T) {
	f := newPedidoFixture()
	p := seedProducto(f.productoRepo, "Paño", 1000, 50, 5)

	_, err := f.svc.Crear(context.Background(), "vendedor", dto.CrearPedidoRequest{
		ClienteNombre: "Cliente",
		Items:         []dto.ItemPedidoRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
		Descuento:     decimal.NewFromInt(5000),
	})
	assert.ErrorContains(t, err, "descuento no puede superar")
}

func TestCrearPedidoProductoInactivo(t *testing.T) {
	f := newPedidoFixture()
	p := seedProducto(f.productoRepo, "Descontinuado", 1000, 50, 5)
	p.Activo = false

	_, err := f.svc.Crear(context.Background(), "vendedor", dto.CrearPedidoRequest{
		ClienteNombre: "Cliente",
		Items:         []dto.ItemPedidoRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
	})
	assert.ErrorContains(t, err, "inactivo")
}

func TestConfirmarPedidoDescuentaStockUnaVez(t *testing.T) {
	f := newPedidoFixture()
	p := seedProducto(f.productoRepo, "Escoba industrial", 15000, 10, 2)
	pedido := f.crearPedido(t, p, 4)
	id := uuid.MustParse(pedido.ID)

	resp, err := f.svc.CambiarEstado(context.Background(), id, "admin", model.PedidoConfirmado)
	require.NoError(t, err)
	assert.Equal(t, 6, p.StockActual)
	assert.True(t, resp.StockDescontado)
	assert.NotNil(t, resp.Fechas.Confirmacion)

	// Further forward transitions must not decrement again.
	_, err = f.svc.CambiarEstado(context.Background(), id, "admin", model.PedidoPagado)
	require.NoError(t, err)
	_, err = f.svc.CambiarEstado(context.Background(), id, "admin", model.PedidoEnviado)
	require.NoError(t, err)
	assert.Equal(t, 6, p.StockActual)
}

func TestCancelarPedidoRestauraStock(t *testing.T) {
	f := newPedidoFixture()
	p := seedProducto(f.productoRepo, "Aromatizante", 6000, 10, 2)
	pedido := f.crearPedido(t, p, 3)
	id := uuid.MustParse(pedido.ID)

	_, err := f.svc.CambiarEstado(context.Background(), id, "admin", model.PedidoConfirmado)
	require.NoError(t, err)
	require.Equal(t, 7, p.StockActual)

	resp, err := f.svc.CambiarEstado(context.Background(), id, "admin", model.PedidoCancelado)
	require.NoError(t, err)
	assert.Equal(t, 10, p.StockActual)
	assert.False(t, resp.StockDescontado)
	assert.NotNil(t, resp.Fechas.Cancelacion)
}

func TestCancelarPedidoCreadoNoTocaStock(t *testing.T) {
	f := newPedidoFixture()
	p := seedProducto(f.productoRepo, "Jabón líquido", 4000, 10, 2)
	pedido := f.crearPedido(t, p, 3)

	_, err := f.svc.CambiarEstado(context.Background(), uuid.MustParse(pedido.ID), "admin", model.PedidoCancelado)
	require.NoError(t, err)
	assert.Equal(t, 10, p.StockActual)
	assert.Empty(t, f.movRepo.movimientos)
}

func TestCorregirPedidoVuelveACreado(t *testing.T) {
	f := newPedidoFixture()
	p := seedProducto(f.productoRepo, "Desengrasante", 9000, 10, 2)
	pedido := f.crearPedido(t, p, 5)
	id := uuid.MustParse(pedido.ID)

	_, err := f.svc.CambiarEstado(context.Background(), id, "admin", model.PedidoConfirmado)
	require.NoError(t, err)
	require.Equal(t, 5, p.StockActual)

	// Back to creado for edits: the reservation is released.
	resp, err := f.svc.CambiarEstado(context.Background(), id, "admin", model.PedidoCreado)
	require.NoError(t, err)
	assert.Equal(t, 10, p.StockActual)
	assert.False(t, resp.StockDescontado)

	// Re-confirming reserves again, once.
	_, err = f.svc.CambiarEstado(context.Background(), id, "admin", model.PedidoConfirmado)
	require.NoError(t, err)
	assert.Equal(t, 5, p.StockActual)
}

func TestTransicionInvalida(t *testing.T) {
	f := newPedidoFixture()
	p := seedProducto(f.productoRepo, "Cepillo", 2000, 10, 2)
	pedido := f.crearPedido(t, p, 1)

	_, err := f.svc.CambiarEstado(context.Background(), uuid.MustParse(pedido.ID), "admin", model.PedidoCompletado)
	assert.ErrorIs(t, err, apierror.ErrEstadoInvalido)
}

func TestTransicionDesdeTerminal(t *testing.T) {
	f := newPedidoFixture()
	p := seedProducto(f.productoRepo, "Mopa", 7000, 10, 2)
	pedido := f.crearPedido(t, p, 1)
	id := uuid.MustParse(pedido.ID)

	_, err := f.svc.CambiarEstado(context.Background(), id, "admin", model.PedidoCancelado)
	require.NoError(t, err)

	_, err = f.svc.CambiarEstado(context.Background(), id, "admin", model.PedidoConfirmado)
	assert.ErrorIs(t, err, apierror.ErrEstadoInvalido)
}

func TestTransicionMismoEstadoEsIdempotente(t *testing.T) {
	f := newPedidoFixture()
	p := seedProducto(f.productoRepo, "Balde", 3500, 10, 2)
	pedido := f.crearPedido(t, p, 1)

	resp, err := f.svc.CambiarEstado(context.Background(), uuid.MustParse(pedido.ID), "admin", model.PedidoCreado)
	require.NoError(t, err)
	assert.Equal(t, model.PedidoCreado, resp.Estado)
}

func TestConfirmarPedidoStockInsuficiente(t *testing.T) {
	f := newPedidoFixture()
	p := seedProducto(f.productoRepo, "Escaso", 5000, 2, 1)
	pedido := f.crearPedido(t, p, 5)

	_, err := f.svc.CambiarEstado(context.Background(), uuid.MustParse(pedido.ID), "admin", model.PedidoConfirmado)
	var itemsErr *apierror.ItemsError
	require.True(t, errors.As(err, &itemsErr))
	require.Len(t, itemsErr.Items, 1)
	assert.Equal(t, "stock insuficiente", itemsErr.Items[0].Motivo)
}

func TestRegistrarPagoParcial(t *testing.T) {
	f := newPedidoFixture()
	p := seedProducto(f.productoRepo, "Limpiapisos", 10000, 50, 5)
	pedido := f.crearPedido(t, p, 3) // total 30000
	id := uuid.MustParse(pedido.ID)

	resp, err := f.svc.RegistrarPago(context.Background(), id, "caja", decimal.NewFromInt(10000))
	require.NoError(t, err)
	assert.True(t, resp.MontoPagado.Equal(decimal.NewFromInt(10000)))
	assert.True(t, resp.SaldoPendiente.Equal(decimal.NewFromInt(20000)))
	// Parcial: sigue en creado, sin stock descontado.
	assert.Equal(t, model.PedidoCreado, resp.Estado)
	assert.False(t, resp.StockDescontado)
}

func TestRegistrarPagoSaldaYPromueve(t *testing.T) {
	f := newPedidoFixture()
	p := seedProducto(f.productoRepo, "Ambientador", 5000, 20, 2)
	pedido := f.crearPedido(t, p, 2) // total 10000
	id := uuid.MustParse(pedido.ID)

	_, err := f.svc.RegistrarPago(context.Background(), id, "caja", decimal.NewFromInt(4000))
	require.NoError(t, err)

	resp, err := f.svc.RegistrarPago(context.Background(), id, "caja", decimal.NewFromInt(6000))
	require.NoError(t, err)
	assert.Equal(t, model.PedidoPagado, resp.Estado)
	assert.True(t, resp.SaldoPendiente.IsZero())
	assert.NotNil(t, resp.Fechas.Pago)
	// Auto-promotion also reserves the stock.
	assert.True(t, resp.StockDescontado)
	assert.Equal(t, 18, p.StockActual)
}

func TestRegistrarSobrepagoNoSeRecorta(t *testing.T) {
	f := newPedidoFixture()
	p := seedProducto(f.productoRepo, "Bolsas basura", 3000, 20, 2)
	pedido := f.crearPedido(t, p, 1) // total 3000
	id := uuid.MustParse(pedido.ID)

	resp, err := f.svc.RegistrarPago(context.Background(), id, "caja", decimal.NewFromInt(5000))
	require.NoError(t, err)
	assert.True(t, resp.SaldoPendiente.Equal(decimal.NewFromInt(-2000)), "saldo %s", resp.SaldoPendiente)
	assert.Equal(t, model.PedidoPagado, resp.Estado)
}

func TestRegistrarPagoMontoInvalido(t *testing.T) {
	f := newPedidoFixture()
	p := seedProducto(f.productoRepo, "Virutilla", 1500, 20, 2)
	pedido := f.crearPedido(t, p, 1)

	_, err := f.svc.RegistrarPago(context.Background(), uuid.MustParse(pedido.ID), "caja", decimal.Zero)
	assert.ErrorContains(t, err, "positivo")
}

func TestRegistrarPagoPedidoCancelado(t *testing.T) {
	f := newPedidoFixture()
	p := seedProducto(f.productoRepo, "Escobillón", 4000, 20, 2)
	pedido := f.crearPedido(t, p, 1)
	id := uuid.MustParse(pedido.ID)

	_, err := f.svc.CambiarEstado(context.Background(), id, "admin", model.PedidoCancelado)
	require.NoError(t, err)

	_, err = f.svc.RegistrarPago(context.Background(), id, "caja", decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, apierror.ErrEstadoInvalido)
}
