package repository

import (
	"context"
	"errors"

	"aseopro/internal/apierror"
	"aseopro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmpleadoRepository interface {
	Create(ctx context.Context, e *model.Empleado) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Empleado, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Empleado, error)
	Update(ctx context.Context, e *model.Empleado) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Asistencia
	UpsertAsistencia(ctx context.Context, a *model.Asistencia) error
	ListAsistencias(ctx context.Context, empleadoID *uuid.UUID, desde, hasta string, limit int) ([]model.Asistencia, error)

	// Banco de horas (append-only ledger)
	CreateHoras(ctx context.Context, h *model.BancoHoras) error
	ListHoras(ctx context.Context, empleadoID uuid.UUID) ([]model.BancoHoras, error)
}

type empleadoRepo struct{ db *gorm.DB }

func NewEmpleadoRepository(db *gorm.DB) EmpleadoRepository { return &empleadoRepo{db: db} }

func (r *empleadoRepo) Create(ctx context.Context, e *model.Empleado) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *empleadoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Empleado, error) {
	var e model.Empleado
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	return &e, err
}

func (r *empleadoRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Empleado, error) {
	q := r.db.WithContext(ctx).Model(&model.Empleado{})
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	var empleados []model.Empleado
	err := q.Order("nombre ASC").Find(&empleados).Error
	return empleados, err
}

func (r *empleadoRepo) Update(ctx context.Context, e *model.Empleado) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *empleadoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Empleado{}).Where("id = ?", id).Update("activo", false).Error
}

// UpsertAsistencia keeps one mark per empleado per day: a second registration
// for the same day overwrites the first.
func (r *empleadoRepo) UpsertAsistencia(ctx context.Context, a *model.Asistencia) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO asistencias (empleado_id, fecha, estado, hora_entrada, hora_salida, notas, created_at)
		VALUES (?, ?, ?, ?, ?, ?, now())
		ON CONFLICT (empleado_id, fecha) DO UPDATE
		SET estado = EXCLUDED.estado,
		    hora_entrada = EXCLUDED.hora_entrada,
		    hora_salida = EXCLUDED.hora_salida,
		    notas = EXCLUDED.notas
	`, a.EmpleadoID, a.Fecha, a.Estado, a.HoraEntrada, a.HoraSalida, a.Notas).Error
}

func (r *empleadoRepo) ListAsistencias(ctx context.Context, empleadoID *uuid.UUID, desde, hasta string, limit int) ([]model.Asistencia, error) {
	q := r.db.WithContext(ctx).Model(&model.Asistencia{}).Preload("Empleado")
	if empleadoID != nil {
		q = q.Where("empleado_id = ?", *empleadoID)
	}
	if desde != "" {
		q = q.Where("fecha >= ?", desde)
	}
	if hasta != "" {
		q = q.Where("fecha <= ?", hasta)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var asistencias []model.Asistencia
	err := q.Order("fecha DESC").Find(&asistencias).Error
	return asistencias, err
}

func (r *empleadoRepo) CreateHoras(ctx context.Context, h *model.BancoHoras) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *empleadoRepo) ListHoras(ctx context.Context, empleadoID uuid.UUID) ([]model.BancoHoras, error) {
	var entradas []model.BancoHoras
	err := r.db.WithContext(ctx).
		Where("empleado_id = ?", empleadoID).
		Order("fecha ASC").
		Find(&entradas).Error
	return entradas, err
}
