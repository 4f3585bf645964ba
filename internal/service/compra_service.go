package service

import (
	"context"
	"fmt"
	"time"

	"aseopro/internal/dto"
	"aseopro/internal/model"
	"aseopro/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CompraService interface {
	// Registrar creates the compra, one "compra" movement per line and
	// overwrites cada producto's precio_costo with the line's unit cost
	// (last-write-wins), all in one transaction.
	Registrar(ctx context.Context, creadoPor string, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	Listar(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error)
	// Eliminar reverses the compra with "salida" movements before deleting it.
	// Fails with stock insuficiente when the purchased units were already
	// consumed: the reversal would drive stock negative.
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type compraService struct {
	repo          repository.CompraRepository
	proveedorRepo repository.ProveedorRepository
	productoRepo  repository.ProductoRepository
	inventario    InventarioService
	ahora         func() time.Time
}

func NewCompraService(
	repo repository.CompraRepository,
	proveedorRepo repository.ProveedorRepository,
	productoRepo repository.ProductoRepository,
	inventario InventarioService,
) CompraService {
	return &compraService{
		repo:          repo,
		proveedorRepo: proveedorRepo,
		productoRepo:  productoRepo,
		inventario:    inventario,
		ahora:         time.Now,
	}
}

func (s *compraService) Registrar(ctx context.Context, creadoPor string, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error) {
	proveedorID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor_id inválido: %w", err)
	}
	proveedor, err := s.proveedorRepo.FindByID(ctx, proveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor: %w", err)
	}

	fecha := s.ahora()
	if req.Fecha != "" {
		fecha, err = time.Parse("2006-01-02", req.Fecha)
		if err != nil {
			return nil, fmt.Errorf("fecha inválida: %w", err)
		}
	}

	type lineaResuelta struct {
		productoID uuid.UUID
		nombre     string
		cantidad   int
		costo      decimal.Decimal
		subtotal   decimal.Decimal
	}
	var lineas []lineaResuelta
	subtotal := decimal.Zero
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s: %w", item.ProductoID, err)
		}
		lineaSubtotal := item.CostoUnitario.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		subtotal = subtotal.Add(lineaSubtotal)
		lineas = append(lineas, lineaResuelta{
			productoID: pid,
			nombre:     p.Nombre,
			cantidad:   item.Cantidad,
			costo:      item.CostoUnitario,
			subtotal:   lineaSubtotal,
		})
	}

	impuesto := decimal.Zero
	if req.AplicarIVA {
		impuesto = subtotal.Mul(tasaIVA).Round(2)
	}
	total := subtotal.Add(impuesto)

	numero := fmt.Sprintf("C-%d", s.ahora().UnixMilli())
	if req.Factura != nil && *req.Factura != "" {
		numero = "C-" + *req.Factura
	}

	var compra model.Compra
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		compra = model.Compra{
			Numero:      numero,
			ProveedorID: proveedorID,
			Fecha:       fecha,
			Factura:     req.Factura,
			Subtotal:    subtotal,
			Impuesto:    impuesto,
			Total:       total,
			Pagada:      req.Pagada,
			CreadoPor:   creadoPor,
		}
		for _, l := range lineas {
			compra.Items = append(compra.Items, model.CompraItem{
				ProductoID:    l.productoID,
				Nombre:        l.nombre,
				Cantidad:      l.cantidad,
				CostoUnitario: l.costo,
				Subtotal:      l.subtotal,
			})
		}
		if err := s.repo.CreateTx(tx, &compra); err != nil {
			return err
		}

		for _, l := range lineas {
			ref := compra.ID
			_, err := s.inventario.RegistrarMovimientoTx(tx, l.productoID, model.MovCompra, l.cantidad,
				fmt.Sprintf("Compra %s", numero), &ref)
			if err != nil {
				return err
			}
			if err := s.productoRepo.ActualizarPrecioCostoTx(tx, l.productoID, l.costo); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	compra.Proveedor = proveedor
	return compraToResponse(&compra), nil
}

func (s *compraService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	compra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return compraToResponse(compra), nil
}

func (s *compraService) Listar(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	compras, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CompraResponse, 0, len(compras))
	for i := range compras {
		data = append(data, *compraToResponse(&compras[i]))
	}
	return &dto.CompraListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *compraService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		compra, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		for _, item := range compra.Items {
			ref := compra.ID
			_, err := s.inventario.RegistrarMovimientoTx(tx, item.ProductoID, model.MovSalida, item.Cantidad,
				fmt.Sprintf("Reversión compra %s", compra.Numero), &ref)
			if err != nil {
				return fmt.Errorf("revirtiendo %s: %w", item.Nombre, err)
			}
		}
		return s.repo.DeleteTx(tx, id)
	})
}

func compraToResponse(c *model.Compra) *dto.CompraResponse {
	items := make([]dto.ItemCompraResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, dto.ItemCompraResponse{
			ProductoID:    item.ProductoID.String(),
			Nombre:        item.Nombre,
			Cantidad:      item.Cantidad,
			CostoUnitario: item.CostoUnitario,
			Subtotal:      item.Subtotal,
		})
	}
	proveedor := ""
	if c.Proveedor != nil {
		proveedor = c.Proveedor.RazonSocial
	}
	return &dto.CompraResponse{
		ID:        c.ID.String(),
		Numero:    c.Numero,
		Proveedor: proveedor,
		Fecha:     c.Fecha.Format("2006-01-02"),
		Factura:   c.Factura,
		Items:     items,
		Subtotal:  c.Subtotal,
		Impuesto:  c.Impuesto,
		Total:     c.Total,
		Pagada:    c.Pagada,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
}
