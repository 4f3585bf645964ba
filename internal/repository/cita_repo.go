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

type CitaFilter struct {
	Estado     string
	EmpleadoID *uuid.UUID
	ClienteID  *uuid.UUID
	Desde      *time.Time
	Hasta      *time.Time
	Limit      int
	Offset     int
}

type CitaRepository interface {
	Create(ctx context.Context, c *model.Cita) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cita, error)
	List(ctx context.Context, f CitaFilter) ([]model.Cita, int64, error)
	ListRango(ctx context.Context, desde, hasta time.Time, limit int) ([]model.Cita, error)
	Update(ctx context.Context, c *model.Cita) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type citaRepo struct{ db *gorm.DB }

func NewCitaRepository(db *gorm.DB) CitaRepository { return &citaRepo{db: db} }

func (r *citaRepo) Create(ctx context.Context, c *model.Cita) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *citaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cita, error) {
	var c model.Cita
	err := r.db.WithContext(ctx).Preload("Empleado").First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	return &c, err
}

func (r *citaRepo) List(ctx context.Context, f CitaFilter) ([]model.Cita, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Cita{})
	if f.Estado != "" {
		q = q.Where("estado = ?", f.Estado)
	}
	if f.EmpleadoID != nil {
		q = q.Where("empleado_id = ?", *f.EmpleadoID)
	}
	if f.ClienteID != nil {
		q = q.Where("cliente_id = ?", *f.ClienteID)
	}
	if f.Desde != nil {
		q = q.Where("fecha_hora >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("fecha_hora <= ?", *f.Hasta)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var citas []model.Cita
	err := q.Preload("Empleado").Order("fecha_hora ASC").Find(&citas).Error
	return citas, total, err
}

// ListRango feeds the performance report: completed appointments only.
func (r *citaRepo) ListRango(ctx context.Context, desde, hasta time.Time, limit int) ([]model.Cita, error) {
	var citas []model.Cita
	err := r.db.WithContext(ctx).
		Where("estado = ? AND fecha_hora >= ? AND fecha_hora <= ?", model.CitaCompletada, desde, hasta).
		Order("fecha_hora ASC").
		Limit(limit).
		Find(&citas).Error
	return citas, err
}

func (r *citaRepo) Update(ctx context.Context, c *model.Cita) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *citaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Cita{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrNotFound
	}
	return nil
}
