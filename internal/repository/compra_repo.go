package repository

import (
	"context"
	"errors"

	"aseopro/internal/apierror"
	"aseopro/internal/dto"
	"aseopro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompraRepository interface {
	CreateTx(tx *gorm.DB, c *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Compra, error)
	List(ctx context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error)
	// DeleteTx removes the compra and its items. Reversal movements must have
	// been registered in the same transaction before calling it.
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) CreateTx(tx *gorm.DB, c *model.Compra) error {
	return tx.Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).Preload("Items").Preload("Proveedor").First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	return &c, err
}

func (r *compraRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := tx.Preload("Items").First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	return &c, err
}

func (r *compraRepo) List(ctx context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Compra{}).Preload("Items").Preload("Proveedor")

	if filter.ProveedorID != "" {
		q = q.Where("proveedor_id = ?", filter.ProveedorID)
	}
	if filter.Desde != "" {
		q = q.Where("fecha >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("fecha < ?::date + interval '1 day'", filter.Hasta)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var compras []model.Compra
	err := q.Order("fecha DESC").Limit(filter.Limit).Offset(offset).Find(&compras).Error
	return compras, total, err
}

func (r *compraRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("compra_id = ?", id).Delete(&model.CompraItem{}).Error; err != nil {
		return err
	}
	res := tx.Delete(&model.Compra{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	// Zero rows means another transaction already deleted it. The error
	// aborts the tx so the reversal movements roll back instead of running
	// a second time.
	if res.RowsAffected == 0 {
		return apierror.ErrNotFound
	}
	return nil
}

func (r *compraRepo) DB() *gorm.DB { return r.db }
