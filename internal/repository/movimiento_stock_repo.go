package repository

import (
	"context"

	"aseopro/internal/dto"
	"aseopro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovimientoStockRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimientoStock) error
	List(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoStock, int64, error)
	// SumPorProducto returns the ledger total (signed sum of all movements)
	// for one product. The reconciliation compares it against the cache.
	SumPorProducto(ctx context.Context, productoID uuid.UUID) (int, error)
}

type movimientoStockRepo struct{ db *gorm.DB }

func NewMovimientoStockRepository(db *gorm.DB) MovimientoStockRepository {
	return &movimientoStockRepo{db: db}
}

func (r *movimientoStockRepo) CreateTx(tx *gorm.DB, m *model.MovimientoStock) error {
	return tx.Create(m).Error
}

func (r *movimientoStockRepo) List(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoStock, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoStock{}).Preload("Producto")
	if filter.ProductoID != "" {
		q = q.Where("producto_id = ?", filter.ProductoID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movimientos []model.MovimientoStock
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movimientos).Error
	return movimientos, total, err
}

func (r *movimientoStockRepo) SumPorProducto(ctx context.Context, productoID uuid.UUID) (int, error) {
	var sum *int
	err := r.db.WithContext(ctx).Model(&model.MovimientoStock{}).
		Select("SUM(CASE WHEN tipo IN ('compra','entrada') THEN cantidad ELSE -cantidad END)").
		Where("producto_id = ?", productoID).
		Scan(&sum).Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}
