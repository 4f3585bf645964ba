package repository

import (
	"context"
	"errors"
	"time"

	"aseopro/internal/apierror"
	"aseopro/internal/dto"
	"aseopro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PedidoRepository interface {
	CreateTx(tx *gorm.DB, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Pedido, error)
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error)
	// ListRango fetches pedidos created within [desde, hasta] up to limit rows,
	// ordered by created_at, for the reporting aggregators.
	ListRango(ctx context.Context, desde, hasta time.Time, limit int) ([]model.Pedido, error)
	SaveTx(tx *gorm.DB, p *model.Pedido) error

	// NextNumero allocates the next per-day sequence value atomically via a
	// single upsert-returning statement on contadores_pedido. Two concurrent
	// checkouts can never observe the same value.
	NextNumero(tx *gorm.DB, fecha string) (int, error)

	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) CreateTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).Preload("Items").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	return &p, err
}

func (r *pedidoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := tx.Preload("Items").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	return &p, err
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Pedido{}).Preload("Items")

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Cliente != "" {
		q = q.Where("cliente_nombre ILIKE ? OR cliente_telefono = ?", "%"+filter.Cliente+"%", filter.Cliente)
	}
	if filter.Desde != "" {
		q = q.Where("created_at >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		// inclusive upper bound on the whole day
		q = q.Where("created_at < ?::date + interval '1 day'", filter.Hasta)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var pedidos []model.Pedido
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&pedidos).Error
	return pedidos, total, err
}

func (r *pedidoRepo) ListRango(ctx context.Context, desde, hasta time.Time, limit int) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", desde, hasta).
		Order("created_at ASC").
		Limit(limit).
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) SaveTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Save(p).Error
}

func (r *pedidoRepo) NextNumero(tx *gorm.DB, fecha string) (int, error) {
	var ultimo int
	err := tx.Raw(`
		INSERT INTO contadores_pedido (fecha, ultimo) VALUES (?, 1)
		ON CONFLICT (fecha) DO UPDATE SET ultimo = contadores_pedido.ultimo + 1
		RETURNING ultimo
	`, fecha).Scan(&ultimo).Error
	return ultimo, err
}

func (r *pedidoRepo) DB() *gorm.DB { return r.db }
