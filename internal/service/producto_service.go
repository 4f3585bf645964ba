package service

import (
	"context"
	"time"

	"aseopro/internal/dto"
	"aseopro/internal/infra"
	"aseopro/internal/model"
	"aseopro/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	// Actualizar never touches stock_actual: stock is mutated only through
	// the movimientos pathway.
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo       repository.ProductoRepository
	inventario InventarioService
	storage    *infra.Storage
}

func NewProductoService(repo repository.ProductoRepository, inventario InventarioService, storage *infra.Storage) ProductoService {
	return &productoService{repo: repo, inventario: inventario, storage: storage}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	categoria := req.Categoria
	if categoria == "" {
		categoria = "general"
	}
	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}

	producto := model.Producto{
		Nombre:            req.Nombre,
		Descripcion:       req.Descripcion,
		Categoria:         categoria,
		PrecioCosto:       req.PrecioCosto,
		PrecioVenta:       req.PrecioVenta,
		PrecioPromocional: req.PrecioPromocional,
		EnPromocion:       req.EnPromocion,
		StockActual:       0,
		StockMinimo:       req.StockMinimo,
		Visible:           visible,
		Activo:            true,
		FotoID:            req.FotoID,
	}
	if err := s.repo.Create(ctx, &producto); err != nil {
		return nil, err
	}

	// Initial stock enters through the ledger like any other stock.
	if req.StockInicial > 0 {
		err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			_, err := s.inventario.RegistrarMovimientoTx(tx, producto.ID, model.MovEntrada, req.StockInicial,
				"Stock inicial", nil)
			return err
		})
		if err != nil {
			return nil, err
		}
		producto.StockActual = req.StockInicial
	}

	return s.toResponse(&producto), nil
}

func (s *productoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(producto), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *s.toResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Nombre != nil {
		producto.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		producto.Descripcion = req.Descripcion
	}
	if req.Categoria != nil {
		producto.Categoria = *req.Categoria
	}
	if req.PrecioCosto != nil {
		producto.PrecioCosto = *req.PrecioCosto
	}
	if req.PrecioVenta != nil {
		producto.PrecioVenta = *req.PrecioVenta
	}
	if req.PrecioPromocional != nil {
		producto.PrecioPromocional = req.PrecioPromocional
	}
	if req.EnPromocion != nil {
		producto.EnPromocion = *req.EnPromocion
	}
	if req.StockMinimo != nil {
		producto.StockMinimo = *req.StockMinimo
	}
	if req.Visible != nil {
		producto.Visible = *req.Visible
	}
	if req.FotoID != nil {
		producto.FotoID = req.FotoID
	}

	if err := s.repo.Update(ctx, producto); err != nil {
		return nil, err
	}
	return s.toResponse(producto), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Reactivar(ctx, id)
}

func (s *productoService) toResponse(p *model.Producto) *dto.ProductoResponse {
	fotoURL := ""
	if s.storage != nil && p.FotoID != nil {
		fotoURL = s.storage.FileURL(*p.FotoID)
	}
	return &dto.ProductoResponse{
		ID:                p.ID.String(),
		Nombre:            p.Nombre,
		Descripcion:       p.Descripcion,
		Categoria:         p.Categoria,
		PrecioCosto:       p.PrecioCosto,
		PrecioVenta:       p.PrecioVenta,
		PrecioPromocional: p.PrecioPromocional,
		EnPromocion:       p.EnPromocion,
		StockActual:       p.StockActual,
		StockMinimo:       p.StockMinimo,
		Visible:           p.Visible,
		Activo:            p.Activo,
		FotoURL:           fotoURL,
		CreatedAt:         p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
