package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aseopro/internal/dto"
	"aseopro/internal/model"
	"aseopro/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	// Registrar processes a counter sale: atomic ticket number, venta + items
	// + pagos, and one guarded "venta" movement per line, all in one tx.
	Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	// Anular restores stock via inverse "entrada" movements and marks the
	// venta anulada. The row is never deleted.
	Anular(ctx context.Context, id uuid.UUID, motivo string) error
}

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	inventario   InventarioService
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	inventario InventarioService,
) VentaService {
	return &ventaService{repo: repo, productoRepo: productoRepo, inventario: inventario}
}

func (s *ventaService) Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	type lineaResuelta struct {
		productoID uuid.UUID
		nombre     string
		precio     decimal.Decimal
		cantidad   int
		descuento  decimal.Decimal
		subtotal   decimal.Decimal
	}

	var lineas []lineaResuelta
	subtotal := decimal.Zero
	descuentoTotal := decimal.Zero

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s: %w", item.ProductoID, err)
		}
		if !p.Activo {
			return nil, fmt.Errorf("producto %s está inactivo y no puede venderse", p.Nombre)
		}
		precio := p.PrecioVigente()
		lineaSubtotal := precio.Mul(decimal.NewFromInt(int64(item.Cantidad))).Sub(item.Descuento)
		subtotal = subtotal.Add(lineaSubtotal)
		descuentoTotal = descuentoTotal.Add(item.Descuento)
		lineas = append(lineas, lineaResuelta{
			productoID: pid,
			nombre:     p.Nombre,
			precio:     precio,
			cantidad:   item.Cantidad,
			descuento:  item.Descuento,
			subtotal:   lineaSubtotal,
		})
	}

	total := subtotal
	totalPagos := decimal.Zero
	for _, pago := range req.Pagos {
		totalPagos = totalPagos.Add(pago.Monto)
	}
	if totalPagos.LessThan(total) {
		return nil, errors.New("el monto total de pagos es insuficiente")
	}
	vuelto := totalPagos.Sub(total)

	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ticket, err := s.repo.NextTicketNumber(tx)
		if err != nil {
			return err
		}

		venta = model.Venta{
			NumeroTicket:   ticket,
			UsuarioID:      usuarioID,
			Subtotal:       subtotal,
			DescuentoTotal: descuentoTotal,
			Total:          total,
			Estado:         "completada",
		}
		for _, l := range lineas {
			venta.Items = append(venta.Items, model.VentaItem{
				ProductoID:     l.productoID,
				Cantidad:       l.cantidad,
				PrecioUnitario: l.precio,
				DescuentoItem:  l.descuento,
				Subtotal:       l.subtotal,
			})
		}
		for _, pago := range req.Pagos {
			venta.Pagos = append(venta.Pagos, model.VentaPago{Metodo: pago.Metodo, Monto: pago.Monto})
		}
		if err := s.repo.CreateTx(tx, &venta); err != nil {
			return err
		}

		for _, l := range lineas {
			ref := venta.ID
			_, err := s.inventario.RegistrarMovimientoTx(tx, l.productoID, model.MovVenta, l.cantidad,
				fmt.Sprintf("Venta #%d", ticket), &ref)
			if err != nil {
				return fmt.Errorf("descontando stock de %s: %w", l.nombre, err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := ventaToResponse(&venta)
	resp.Vuelto = vuelto
	for i, l := range lineas {
		resp.Items[i].Producto = l.nombre
	}
	return resp, nil
}

func (s *ventaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ventaToResponse(venta), nil
}

func (s *ventaService) Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Estado == "" {
		filter.Estado = "completada"
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		data = append(data, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *ventaService) Anular(ctx context.Context, id uuid.UUID, motivo string) error {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if venta.Estado == "anulada" {
		return errors.New("la venta ya está anulada")
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, item := range venta.Items {
			ref := venta.ID
			_, err := s.inventario.RegistrarMovimientoTx(tx, item.ProductoID, model.MovEntrada, item.Cantidad,
				fmt.Sprintf("Anulación venta #%d — %s", venta.NumeroTicket, motivo), &ref)
			if err != nil {
				return err
			}
		}
		return s.repo.UpdateEstadoTx(tx, id, "anulada")
	})
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	for _, item := range v.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		items = append(items, dto.ItemVentaResponse{
			Producto:       nombre,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Subtotal:       item.Subtotal,
		})
	}
	pagos := make([]dto.PagoRequest, 0, len(v.Pagos))
	for _, p := range v.Pagos {
		pagos = append(pagos, dto.PagoRequest{Metodo: p.Metodo, Monto: p.Monto})
	}
	return &dto.VentaResponse{
		ID:             v.ID.String(),
		NumeroTicket:   v.NumeroTicket,
		Items:          items,
		Subtotal:       v.Subtotal,
		DescuentoTotal: v.DescuentoTotal,
		Total:          v.Total,
		Pagos:          pagos,
		Estado:         v.Estado,
		CreatedAt:      v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
