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

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
	// NextTicketNumber increments the single-row counter atomically.
	NextTicketNumber(tx *gorm.DB) (int, error)
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Items.Producto").Preload("Pagos").Preload("Usuario").
		First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	return &v, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Venta{}).
		Preload("Items").Preload("Items.Producto").Preload("Pagos")

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Fecha != "" {
		q = q.Where("created_at >= ?::date AND created_at < ?::date + interval '1 day'", filter.Fecha, filter.Fecha)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var ventas []model.Venta
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Venta{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *ventaRepo) NextTicketNumber(tx *gorm.DB) (int, error) {
	var ultimo int
	err := tx.Raw(`
		UPDATE contadores_ticket SET ultimo = ultimo + 1 WHERE id = 1 RETURNING ultimo
	`).Scan(&ultimo).Error
	return ultimo, err
}

func (r *ventaRepo) DB() *gorm.DB { return r.db }
