package service

import (
	"context"
	"fmt"
	"time"

	"aseopro/internal/dto"
	"aseopro/internal/model"
	"aseopro/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InventarioService owns the stock ledger. Every stock change in the system —
// compras, pedidos, ventas, consumo de OT, ajustes manuales — flows through
// RegistrarMovimientoTx so the ledger stays the source of truth and the cached
// stock_actual never drifts silently.
type InventarioService interface {
	RegistrarMovimiento(ctx context.Context, req dto.RegistrarMovimientoRequest) (*dto.MovimientoResponse, error)
	// RegistrarMovimientoTx applies one movement inside a caller-owned
	// transaction: conditional stock update plus ledger append. Cantidad must
	// be positive; the sign derives from tipo.
	RegistrarMovimientoTx(tx *gorm.DB, productoID uuid.UUID, tipo string, cantidad int, motivo string, referenciaID *uuid.UUID) (*model.MovimientoStock, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
	ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error)
	// Reconciliar compares the signed ledger sum against the cached stock for
	// every active product. With corregir=true the cache is rewritten to match
	// the ledger (the ledger always wins).
	Reconciliar(ctx context.Context, corregir bool) (*dto.ReconciliacionResponse, error)
}

type inventarioService struct {
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoStockRepository
}

func NewInventarioService(
	productoRepo repository.ProductoRepository,
	movimientoRepo repository.MovimientoStockRepository,
) InventarioService {
	return &inventarioService{
		productoRepo:   productoRepo,
		movimientoRepo: movimientoRepo,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *inventarioService) RegistrarMovimiento(ctx context.Context, req dto.RegistrarMovimientoRequest) (*dto.MovimientoResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id inválido: %w", err)
	}
	if !model.TipoMovimientoValido(req.Tipo) {
		return nil, fmt.Errorf("tipo de movimiento desconocido: %s", req.Tipo)
	}

	var referenciaID *uuid.UUID
	if req.ReferenciaID != nil {
		ref, err := uuid.Parse(*req.ReferenciaID)
		if err != nil {
			return nil, fmt.Errorf("referencia_id inválido: %w", err)
		}
		referenciaID = &ref
	}

	var mov *model.MovimientoStock
	txErr := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		var err error
		mov, err = s.RegistrarMovimientoTx(tx, productoID, req.Tipo, req.Cantidad, req.Motivo, referenciaID)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	return movimientoToResponse(mov), nil
}

func (s *inventarioService) RegistrarMovimientoTx(tx *gorm.DB, productoID uuid.UUID, tipo string, cantidad int, motivo string, referenciaID *uuid.UUID) (*model.MovimientoStock, error) {
	if cantidad <= 0 {
		return nil, fmt.Errorf("cantidad debe ser positiva, recibido %d", cantidad)
	}

	producto, err := s.productoRepo.FindByIDTx(tx, productoID)
	if err != nil {
		return nil, err
	}

	delta := model.DeltaPorTipo(tipo, cantidad)
	// The snapshot derives from the value the conditional UPDATE returned, not
	// from the pre-read: two concurrent movements on one product would
	// otherwise both record the same stock_anterior.
	nuevo, err := s.productoRepo.AjustarStockCondTx(tx, productoID, delta)
	if err != nil {
		return nil, err
	}

	mov := &model.MovimientoStock{
		ProductoID:    productoID,
		Tipo:          tipo,
		Cantidad:      cantidad,
		StockAnterior: nuevo - delta,
		StockNuevo:    nuevo,
		Motivo:        motivo,
		ReferenciaID:  referenciaID,
	}
	if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
		return nil, err
	}
	mov.Producto = producto
	return mov, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	movimientos, total, err := s.movimientoRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoResponse, 0, len(movimientos))
	for i := range movimientos {
		data = append(data, *movimientoToResponse(&movimientos[i]))
	}
	return &dto.MovimientoListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *inventarioService) ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	productos, err := s.productoRepo.ListStockBajo(ctx)
	if err != nil {
		return nil, err
	}
	alertas := make([]dto.AlertaStockResponse, 0, len(productos))
	for _, p := range productos {
		alertas = append(alertas, dto.AlertaStockResponse{
			ProductoID:  p.ID.String(),
			Nombre:      p.Nombre,
			StockActual: p.StockActual,
			StockMinimo: p.StockMinimo,
		})
	}
	return alertas, nil
}

func (s *inventarioService) Reconciliar(ctx context.Context, corregir bool) (*dto.ReconciliacionResponse, error) {
	productos, err := s.productoRepo.ListActivos(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReconciliacionResponse{
		ProductosRevisados: len(productos),
		Drift:              []dto.DriftStock{},
		Corregido:          corregir,
	}

	type correccion struct {
		id    uuid.UUID
		stock int
	}
	var correcciones []correccion

	for _, p := range productos {
		ledger, err := s.movimientoRepo.SumPorProducto(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if ledger == p.StockActual {
			continue
		}
		resp.Drift = append(resp.Drift, dto.DriftStock{
			ProductoID:  p.ID.String(),
			Nombre:      p.Nombre,
			StockCache:  p.StockActual,
			StockLedger: ledger,
			Diferencia:  ledger - p.StockActual,
		})
		if corregir {
			correcciones = append(correcciones, correccion{id: p.ID, stock: ledger})
		}
	}

	if len(correcciones) > 0 {
		err := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
			for _, c := range correcciones {
				if err := s.productoRepo.SetStockTx(tx, c.id, c.stock); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		log.Warn().Int("corregidos", len(correcciones)).Msg("reconciliacion de stock aplicada")
	}

	return resp, nil
}

func movimientoToResponse(m *model.MovimientoStock) *dto.MovimientoResponse {
	nombre := ""
	if m.Producto != nil {
		nombre = m.Producto.Nombre
	}
	var ref *string
	if m.ReferenciaID != nil {
		r := m.ReferenciaID.String()
		ref = &r
	}
	return &dto.MovimientoResponse{
		ID:            m.ID.String(),
		ProductoID:    m.ProductoID.String(),
		Producto:      nombre,
		Tipo:          m.Tipo,
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		Motivo:        m.Motivo,
		ReferenciaID:  ref,
		CreatedAt:     m.CreatedAt.UTC().Format(time.RFC3339),
	}
}
