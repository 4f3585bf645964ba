package repository

import (
	"context"
	"errors"

	"aseopro/internal/apierror"
	"aseopro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OTInsumoRepository interface {
	CreateTx(tx *gorm.DB, i *model.OTInsumo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.OTInsumo, error)
	// FindByIDTx reads inside the caller's transaction, so the quantity the
	// reversal movements are based on is the quantity the delete sees.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.OTInsumo, error)
	ListByOT(ctx context.Context, otReferencia string) ([]model.OTInsumo, error)
	SaveTx(tx *gorm.DB, i *model.OTInsumo) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB
}

type otInsumoRepo struct{ db *gorm.DB }

func NewOTInsumoRepository(db *gorm.DB) OTInsumoRepository { return &otInsumoRepo{db: db} }

func (r *otInsumoRepo) CreateTx(tx *gorm.DB, i *model.OTInsumo) error {
	return tx.Create(i).Error
}

func (r *otInsumoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.OTInsumo, error) {
	var i model.OTInsumo
	err := r.db.WithContext(ctx).Preload("Producto").First(&i, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	return &i, err
}

func (r *otInsumoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.OTInsumo, error) {
	var i model.OTInsumo
	err := tx.Preload("Producto").First(&i, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	return &i, err
}

func (r *otInsumoRepo) ListByOT(ctx context.Context, otReferencia string) ([]model.OTInsumo, error) {
	var insumos []model.OTInsumo
	err := r.db.WithContext(ctx).Preload("Producto").
		Where("ot_referencia = ?", otReferencia).
		Order("created_at ASC").
		Find(&insumos).Error
	return insumos, err
}

func (r *otInsumoRepo) SaveTx(tx *gorm.DB, i *model.OTInsumo) error {
	return tx.Save(i).Error
}

func (r *otInsumoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Delete(&model.OTInsumo{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	// Already deleted by a concurrent call: abort so the reversal rolls back.
	if res.RowsAffected == 0 {
		return apierror.ErrNotFound
	}
	return nil
}

func (r *otInsumoRepo) DB() *gorm.DB { return r.db }
