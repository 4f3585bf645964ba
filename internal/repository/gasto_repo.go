package repository

import (
	"context"
	"errors"
	"time"

	"aseopro/internal/apierror"
	"aseopro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GastoFilter struct {
	Categoria string
	Desde     *time.Time
	Hasta     *time.Time
	Limit     int
	Offset    int
}

type GastoRepository interface {
	Create(ctx context.Context, g *model.Gasto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Gasto, error)
	List(ctx context.Context, f GastoFilter) ([]model.Gasto, int64, error)
	ListRango(ctx context.Context, desde, hasta time.Time, limit int) ([]model.Gasto, error)
	Update(ctx context.Context, g *model.Gasto) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gastoRepo struct{ db *gorm.DB }

func NewGastoRepository(db *gorm.DB) GastoRepository { return &gastoRepo{db: db} }

func (r *gastoRepo) Create(ctx context.Context, g *model.Gasto) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gastoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Gasto, error) {
	var g model.Gasto
	err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	return &g, err
}

func (r *gastoRepo) List(ctx context.Context, f GastoFilter) ([]model.Gasto, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Gasto{})
	if f.Categoria != "" {
		q = q.Where("categoria = ?", f.Categoria)
	}
	if f.Desde != nil {
		q = q.Where("fecha >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("fecha <= ?", *f.Hasta)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var gastos []model.Gasto
	err := q.Order("fecha DESC").Find(&gastos).Error
	return gastos, total, err
}

func (r *gastoRepo) ListRango(ctx context.Context, desde, hasta time.Time, limit int) ([]model.Gasto, error) {
	var gastos []model.Gasto
	err := r.db.WithContext(ctx).
		Where("fecha >= ? AND fecha <= ?", desde, hasta).
		Order("fecha ASC").
		Limit(limit).
		Find(&gastos).Error
	return gastos, err
}

func (r *gastoRepo) Update(ctx context.Context, g *model.Gasto) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *gastoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Gasto{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrNotFound
	}
	return nil
}
