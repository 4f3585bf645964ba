package repository

import (
	"context"
	"errors"

	"aseopro/internal/apierror"
	"aseopro/internal/dto"
	"aseopro/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	ListActivos(ctx context.Context) ([]model.Producto, error)
	ListStockBajo(ctx context.Context) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)

	// AjustarStockCondTx applies a signed delta with the non-negative guard in
	// a single conditional UPDATE and returns the resulting stock, so callers
	// can snapshot stock_anterior/stock_nuevo without a racy pre-read. Returns
	// apierror.ErrStockInsuficiente when the guard rejects the write (zero
	// rows affected on an existing product).
	AjustarStockCondTx(tx *gorm.DB, id uuid.UUID, delta int) (int, error)

	// ActualizarPrecioCostoTx overwrites precio_costo (last-write-wins).
	ActualizarPrecioCostoTx(tx *gorm.DB, id uuid.UUID, costo decimal.Decimal) error

	// SetStockTx writes the cached stock directly. Reserved for the
	// reconciliation pathway; every other mutation goes through movements.
	SetStockTx(tx *gorm.DB, id uuid.UUID, stock int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	// Activo filter: "false" = inactivos, "all" = todos, default = activos
	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}

	switch filter.Visible {
	case "true":
		q = q.Where("visible = true")
	case "false":
		q = q.Where("visible = false")
	}

	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}
	if filter.StockBajo {
		q = q.Where("stock_actual <= stock_minimo")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) ListActivos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) ListStockBajo(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("activo = true AND stock_actual <= stock_minimo").
		Order("stock_actual ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *productoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	return &p, err
}

func (r *productoRepo) AjustarStockCondTx(tx *gorm.DB, id uuid.UUID, delta int) (int, error) {
	var nuevo int
	res := tx.Raw(
		`UPDATE productos
		 SET stock_actual = stock_actual + ?, updated_at = NOW()
		 WHERE id = ? AND stock_actual + ? >= 0
		 RETURNING stock_actual`,
		delta, id, delta,
	).Scan(&nuevo)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing product from a rejected decrement.
		var count int64
		if err := tx.Model(&model.Producto{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, apierror.ErrNotFound
		}
		return 0, apierror.ErrStockInsuficiente
	}
	return nuevo, nil
}

func (r *productoRepo) ActualizarPrecioCostoTx(tx *gorm.DB, id uuid.UUID, costo decimal.Decimal) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).Update("precio_costo", costo).Error
}

func (r *productoRepo) SetStockTx(tx *gorm.DB, id uuid.UUID, stock int) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).Update("stock_actual", stock).Error
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
