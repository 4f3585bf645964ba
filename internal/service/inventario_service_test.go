package service_test

import (
	"context"
	"testing"

	"aseopro/internal/apierror"
	"aseopro/internal/dto"
	"aseopro/internal/model"
	"aseopro/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrarMovimientoEntrada(t *testing.T) {
	productoRepo := newStubProductoRepo()
	movRepo := &stubMovimientoRepo{}
	svc := service.NewInventarioService(productoRepo, movRepo)

	p := seedProducto(productoRepo, "Cloro 5L", 8000, 10, 3)

	resp, err := svc.RegistrarMovimiento(context.Background(), dto.RegistrarMovimientoRequest{
		ProductoID: p.ID.String(),
		Tipo:       model.MovEntrada,
		Cantidad:   15,
		Motivo:     "Conteo físico",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.StockAnterior)
	assert.Equal(t, 25, resp.StockNuevo)
	assert.Equal(t, 25, p.StockActual)
	assert.Len(t, movRepo.movimientos, 1)
}

func TestRegistrarMovimientosEncadenaSnapshots(t *testing.T) {
	productoRepo := newStubProductoRepo()
	movRepo := &stubMovimientoRepo{}
	svc := service.NewInventarioService(productoRepo, movRepo)

	p := seedProducto(productoRepo, "Limpiavidrios 1L", 3500, 12, 2)

	primero, err := svc.RegistrarMovimiento(context.Background(), dto.RegistrarMovimientoRequest{
		ProductoID: p.ID.String(),
		Tipo:       model.MovSalida,
		Cantidad:   5,
		Motivo:     "Consumo cuadrilla",
	})
	require.NoError(t, err)
	segundo, err := svc.RegistrarMovimiento(context.Background(), dto.RegistrarMovimientoRequest{
		ProductoID: p.ID.String(),
		Tipo:       model.MovEntrada,
		Cantidad:   3,
		Motivo:     "Devolución cuadrilla",
	})
	require.NoError(t, err)

	// Each snapshot derives from the applied update, so consecutive
	// movements chain exactly: anterior del segundo == nuevo del primero.
	assert.Equal(t, 12, primero.StockAnterior)
	assert.Equal(t, 7, primero.StockNuevo)
	assert.Equal(t, 7, segundo.StockAnterior)
	assert.Equal(t, 10, segundo.StockNuevo)
}

func TestRegistrarMovimientoSalidaRechazaStockNegativo(t *testing.T) {
	productoRepo := newStubProductoRepo()
	movRepo := &stubMovimientoRepo{}
	svc := service.NewInventarioService(productoRepo, movRepo)

	p := seedProducto(productoRepo, "Detergente 1L", 4500, 5, 2)

	_, err := svc.RegistrarMovimiento(context.Background(), dto.RegistrarMovimientoRequest{
		ProductoID: p.ID.String(),
		Tipo:       model.MovSalida,
		Cantidad:   6,
		Motivo:     "Merma bodega",
	})
	assert.ErrorIs(t, err, apierror.ErrStockInsuficiente)
	// Nothing reaches the ledger when the guard rejects the write.
	assert.Equal(t, 5, p.StockActual)
	assert.Empty(t, movRepo.movimientos)
}

func TestRegistrarMovimientoSalidaHastaCero(t *testing.T) {
	productoRepo := newStubProductoRepo()
	movRepo := &stubMovimientoRepo{}
	svc := service.NewInventarioService(productoRepo, movRepo)

	p := seedProducto(productoRepo, "Esponjas x10", 3000, 4, 1)

	resp, err := svc.RegistrarMovimiento(context.Background(), dto.RegistrarMovimientoRequest{
		ProductoID: p.ID.String(),
		Tipo:       model.MovSalida,
		Cantidad:   4,
		Motivo:     "Uso interno",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.StockNuevo)
}

func TestRegistrarMovimientoTipoDesconocido(t *testing.T) {
	productoRepo := newStubProductoRepo()
	svc := service.NewInventarioService(productoRepo, &stubMovimientoRepo{})
	p := seedProducto(productoRepo, "Guantes", 2000, 10, 2)

	_, err := svc.RegistrarMovimiento(context.Background(), dto.RegistrarMovimientoRequest{
		ProductoID: p.ID.String(),
		Tipo:       "ajuste",
		Cantidad:   1,
		Motivo:     "n/a",
	})
	assert.ErrorContains(t, err, "tipo de movimiento desconocido")
}

func TestRegistrarMovimientoProductoInexistente(t *testing.T) {
	svc := service.NewInventarioService(newStubProductoRepo(), &stubMovimientoRepo{})

	_, err := svc.RegistrarMovimiento(context.Background(), dto.RegistrarMovimientoRequest{
		ProductoID: "0d9f1d3e-9d3e-4a6b-8c1f-000000000000",
		Tipo:       model.MovEntrada,
		Cantidad:   1,
		Motivo:     "n/a",
	})
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestObtenerAlertasStockBajo(t *testing.T) {
	productoRepo := newStubProductoRepo()
	svc := service.NewInventarioService(productoRepo, &stubMovimientoRepo{})

	seedProducto(productoRepo, "Producto OK", 1000, 50, 5)
	seedProducto(productoRepo, "Producto Bajo", 1000, 3, 5)
	seedProducto(productoRepo, "Producto Critico", 1000, 0, 10)

	alertas, err := svc.ObtenerAlertas(context.Background())
	require.NoError(t, err)
	assert.Len(t, alertas, 2)
}

func TestReconciliarDetectaDrift(t *testing.T) {
	productoRepo := newStubProductoRepo()
	movRepo := &stubMovimientoRepo{}
	svc := service.NewInventarioService(productoRepo, movRepo)

	p := seedProducto(productoRepo, "Cera líquida", 12000, 8, 2)
	// Ledger says 5, cache says 8: someone touched the cache out of band.
	require.NoError(t, movRepo.CreateTx(nil, &model.MovimientoStock{
		ProductoID: p.ID, Tipo: model.MovEntrada, Cantidad: 5,
	}))

	resp, err := svc.Reconciliar(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, resp.Drift, 1)
	assert.Equal(t, 8, resp.Drift[0].StockCache)
	assert.Equal(t, 5, resp.Drift[0].StockLedger)
	assert.Equal(t, -3, resp.Drift[0].Diferencia)
	// Without corregir the cache stays untouched.
	assert.Equal(t, 8, p.StockActual)
	assert.False(t, resp.Corregido)
}

func TestReconciliarCorrigeHaciaLedger(t *testing.T) {
	productoRepo := newStubProductoRepo()
	movRepo := &stubMovimientoRepo{}
	svc := service.NewInventarioService(productoRepo, movRepo)

	p := seedProducto(productoRepo, "Trapo microfibra", 2500, 1, 2)
	require.NoError(t, movRepo.CreateTx(nil, &model.MovimientoStock{
		ProductoID: p.ID, Tipo: model.MovEntrada, Cantidad: 7,
	}))

	resp, err := svc.Reconciliar(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, resp.Drift, 1)
	// The ledger wins.
	assert.Equal(t, 7, p.StockActual)
	assert.True(t, resp.Corregido)
}

func TestReconciliarSinDrift(t *testing.T) {
	productoRepo := newStubProductoRepo()
	movRepo := &stubMovimientoRepo{}
	svc := service.NewInventarioService(productoRepo, movRepo)

	p := seedProducto(productoRepo, "Limpiavidrios", 5000, 3, 1)
	require.NoError(t, movRepo.CreateTx(nil, &model.MovimientoStock{
		ProductoID: p.ID, Tipo: model.MovEntrada, Cantidad: 3,
	}))

	resp, err := svc.Reconciliar(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, resp.Drift)
	assert.Equal(t, 1, resp.ProductosRevisados)
}
