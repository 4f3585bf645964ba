package service_test

import (
	"context"
	"sort"
	"time"

	"aseopro/internal/apierror"
	"aseopro/internal/dto"
	"aseopro/internal/model"
	"aseopro/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. DB() returns nil so the services run their
// transaction callbacks directly, without a database.

// ── ProductoRepository ──────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, apierror.ErrNotFound
	}
	// Copy, like a real query result: later stock writes must not leak into
	// the snapshot the caller read.
	copia := *p
	return &copia, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var result []model.Producto
	for _, p := range r.productos {
		if p.Activo {
			result = append(result, *p)
		}
	}
	return result, int64(len(result)), nil
}

func (r *stubProductoRepo) ListActivos(_ context.Context) ([]model.Producto, error) {
	var result []model.Producto
	for _, p := range r.productos {
		if p.Activo {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Nombre < result[j].Nombre })
	return result, nil
}

func (r *stubProductoRepo) ListStockBajo(_ context.Context) ([]model.Producto, error) {
	var result []model.Producto
	for _, p := range r.productos {
		if p.Activo && p.StockActual <= p.StockMinimo {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return apierror.ErrNotFound
	}
	p.Activo = false
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return apierror.ErrNotFound
	}
	p.Activo = true
	return nil
}

func (r *stubProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductoRepo) AjustarStockCondTx(_ *gorm.DB, id uuid.UUID, delta int) (int, error) {
	p, ok := r.productos[id]
	if !ok {
		return 0, apierror.ErrNotFound
	}
	if p.StockActual+delta < 0 {
		return 0, apierror.ErrStockInsuficiente
	}
	p.StockActual += delta
	return p.StockActual, nil
}

func (r *stubProductoRepo) ActualizarPrecioCostoTx(_ *gorm.DB, id uuid.UUID, costo decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return apierror.ErrNotFound
	}
	p.PrecioCosto = costo
	return nil
}

func (r *stubProductoRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, stock int) error {
	p, ok := r.productos[id]
	if !ok {
		return apierror.ErrNotFound
	}
	p.StockActual = stock
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── MovimientoStockRepository ───────────────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoStock
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, filter dto.MovimientoFilter) ([]model.MovimientoStock, int64, error) {
	var result []model.MovimientoStock
	for _, m := range r.movimientos {
		if filter.ProductoID != "" && m.ProductoID.String() != filter.ProductoID {
			continue
		}
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		result = append(result, m)
	}
	return result, int64(len(result)), nil
}

func (r *stubMovimientoRepo) SumPorProducto(_ context.Context, productoID uuid.UUID) (int, error) {
	total := 0
	for i := range r.movimientos {
		if r.movimientos[i].ProductoID == productoID {
			total += r.movimientos[i].Delta()
		}
	}
	return total, nil
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

// ── Seeding helpers ─────────────────────────────────────────────────────────

func seedProducto(repo *stubProductoRepo, nombre string, venta float64, stock, stockMin int) *model.Producto {
	p := &model.Producto{
		ID:          uuid.New(),
		Nombre:      nombre,
		Categoria:   "insumos",
		PrecioCosto: decimal.NewFromFloat(venta / 2),
		PrecioVenta: decimal.NewFromFloat(venta),
		StockActual: stock,
		StockMinimo: stockMin,
		Visible:     true,
		Activo:      true,
	}
	repo.productos[p.ID] = p
	return p
}
