package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aseopro/internal/apierror"
	"aseopro/internal/dto"
	"aseopro/internal/model"
	"aseopro/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// tasaIVA is the fixed Colombian VAT rate applied when un pedido lo solicita.
var tasaIVA = decimal.NewFromFloat(0.19)

// transicionesPedido enumerates the allowed lifecycle edges. "corregir" is the
// only backward edge: any non-terminal state may return to creado for edits.
var transicionesPedido = map[string][]string{
	model.PedidoCreado:     {model.PedidoConfirmado, model.PedidoCancelado},
	model.PedidoConfirmado: {model.PedidoPagado, model.PedidoCreado, model.PedidoCancelado},
	model.PedidoPagado:     {model.PedidoEnviado, model.PedidoCreado, model.PedidoCancelado},
	model.PedidoEnviado:    {model.PedidoCompletado, model.PedidoCreado, model.PedidoCancelado},
	model.PedidoCompletado: {},
	model.PedidoCancelado:  {},
}

func transicionValida(desde, hasta string) bool {
	for _, estado := range transicionesPedido[desde] {
		if estado == hasta {
			return true
		}
	}
	return false
}

type PedidoService interface {
	Crear(ctx context.Context, creadoPor string, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
	// CambiarEstado moves the pedido along the lifecycle. Stock is decremented
	// exactly once on the first forward transition out of creado and restored
	// exactly once on cancelacion o correccion, guarded by stock_descontado.
	CambiarEstado(ctx context.Context, id uuid.UUID, modificadoPor, nuevoEstado string) (*dto.PedidoResponse, error)
	// RegistrarPago accumulates a payment. When the saldo reaches cero (or
	// below: overpayment is accepted, never clamped) and the pedido is in
	// creado o confirmado, it is auto-promoted to pagado.
	RegistrarPago(ctx context.Context, id uuid.UUID, modificadoPor string, monto decimal.Decimal) (*dto.PedidoResponse, error)
}

type pedidoService struct {
	repo         repository.PedidoRepository
	productoRepo repository.ProductoRepository
	inventario   InventarioService
	ahora        func() time.Time
}

func NewPedidoService(
	repo repository.PedidoRepository,
	productoRepo repository.ProductoRepository,
	inventario InventarioService,
) PedidoService {
	return &pedidoService{
		repo:         repo,
		productoRepo: productoRepo,
		inventario:   inventario,
		ahora:        time.Now,
	}
}

func (s *pedidoService) Crear(ctx context.Context, creadoPor string, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	var clienteID *uuid.UUID
	if req.ClienteID != nil {
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id inválido: %w", err)
		}
		clienteID = &cid
	}

	// Resolve products and snapshot prices outside the transaction.
	type lineaResuelta struct {
		productoID uuid.UUID
		nombre     string
		precio     decimal.Decimal
		cantidad   int
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
		if !p.Activo {
			return nil, fmt.Errorf("producto %s está inactivo", p.Nombre)
		}
		precio := p.PrecioVigente()
		lineaSubtotal := precio.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		subtotal = subtotal.Add(lineaSubtotal)
		lineas = append(lineas, lineaResuelta{
			productoID: pid,
			nombre:     p.Nombre,
			precio:     precio,
			cantidad:   item.Cantidad,
			subtotal:   lineaSubtotal,
		})
	}

	base := subtotal.Sub(req.Descuento)
	if base.IsNegative() {
		return nil, errors.New("el descuento no puede superar el subtotal")
	}
	impuesto := decimal.Zero
	if req.AplicarIVA {
		impuesto = base.Mul(tasaIVA).Round(2)
	}
	total := base.Add(impuesto)

	var pedido model.Pedido
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		hoy := s.ahora().Format("20060102")
		seq, err := s.repo.NextNumero(tx, hoy)
		if err != nil {
			return err
		}

		pedido = model.Pedido{
			Numero:          fmt.Sprintf("PED-%s-%03d", hoy, seq),
			ClienteID:       clienteID,
			ClienteNombre:   req.ClienteNombre,
			ClienteTelefono: req.ClienteTelefono,
			ClienteEmail:    req.ClienteEmail,
			Subtotal:        subtotal,
			Descuento:       req.Descuento,
			Impuesto:        impuesto,
			Total:           total,
			Estado:          model.PedidoCreado,
			MontoPagado:     decimal.Zero,
			SaldoPendiente:  total,
			CreadoPor:       creadoPor,
		}
		for _, l := range lineas {
			pedido.Items = append(pedido.Items, model.PedidoItem{
				ProductoID:     l.productoID,
				Nombre:         l.nombre,
				Cantidad:       l.cantidad,
				PrecioUnitario: l.precio,
				Subtotal:       l.subtotal,
			})
		}
		return s.repo.CreateTx(tx, &pedido)
	})
	if txErr != nil {
		return nil, txErr
	}
	return pedidoToResponse(&pedido), nil
}

func (s *pedidoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return pedidoToResponse(pedido), nil
}

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	pedidos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		data = append(data, *pedidoToResponse(&pedidos[i]))
	}
	return &dto.PedidoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *pedidoService) CambiarEstado(ctx context.Context, id uuid.UUID, modificadoPor, nuevoEstado string) (*dto.PedidoResponse, error) {
	var actualizado *model.Pedido
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pedido, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		if pedido.Estado == nuevoEstado {
			actualizado = pedido
			return nil
		}
		if !transicionValida(pedido.Estado, nuevoEstado) {
			return fmt.Errorf("%w: %s -> %s", apierror.ErrEstadoInvalido, pedido.Estado, nuevoEstado)
		}

		descontarAhora := !pedido.StockDescontado &&
			nuevoEstado != model.PedidoCreado && nuevoEstado != model.PedidoCancelado
		restaurarAhora := pedido.StockDescontado &&
			(nuevoEstado == model.PedidoCreado || nuevoEstado == model.PedidoCancelado)

		if descontarAhora {
			if err := s.descontarStockTx(tx, pedido); err != nil {
				return err
			}
			pedido.StockDescontado = true
		}
		if restaurarAhora {
			if err := s.restaurarStockTx(tx, pedido, nuevoEstado); err != nil {
				return err
			}
			pedido.StockDescontado = false
		}

		ahora := s.ahora()
		switch nuevoEstado {
		case model.PedidoConfirmado:
			pedido.FechaConfirmacion = &ahora
		case model.PedidoPagado:
			pedido.FechaPago = &ahora
		case model.PedidoEnviado:
			pedido.FechaEnvio = &ahora
		case model.PedidoCompletado:
			pedido.FechaCompletado = &ahora
		case model.PedidoCancelado:
			pedido.FechaCancelacion = &ahora
		}

		pedido.Estado = nuevoEstado
		pedido.ModificadoPor = modificadoPor
		if err := s.repo.SaveTx(tx, pedido); err != nil {
			return err
		}
		actualizado = pedido
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return pedidoToResponse(actualizado), nil
}

// descontarStockTx issues one "venta" movement per line. Any rejected line
// aborts the whole transaction; the ItemsError lists every failing line so the
// operator can fix them all at once.
func (s *pedidoService) descontarStockTx(tx *gorm.DB, pedido *model.Pedido) error {
	var fallos []apierror.ItemFailure
	for _, item := range pedido.Items {
		ref := pedido.ID
		_, err := s.inventario.RegistrarMovimientoTx(tx, item.ProductoID, model.MovVenta, item.Cantidad,
			fmt.Sprintf("Pedido %s", pedido.Numero), &ref)
		if err != nil {
			motivo := err.Error()
			if errors.Is(err, apierror.ErrStockInsuficiente) {
				motivo = "stock insuficiente"
			}
			fallos = append(fallos, apierror.ItemFailure{
				ProductoID: item.ProductoID.String(),
				Producto:   item.Nombre,
				Motivo:     motivo,
			})
		}
	}
	if len(fallos) > 0 {
		return &apierror.ItemsError{Op: "descontar stock del pedido", Items: fallos}
	}
	return nil
}

func (s *pedidoService) restaurarStockTx(tx *gorm.DB, pedido *model.Pedido, nuevoEstado string) error {
	motivo := fmt.Sprintf("Corrección pedido %s", pedido.Numero)
	if nuevoEstado == model.PedidoCancelado {
		motivo = fmt.Sprintf("Cancelación pedido %s", pedido.Numero)
	}
	for _, item := range pedido.Items {
		ref := pedido.ID
		if _, err := s.inventario.RegistrarMovimientoTx(tx, item.ProductoID, model.MovEntrada, item.Cantidad, motivo, &ref); err != nil {
			return err
		}
	}
	return nil
}

func (s *pedidoService) RegistrarPago(ctx context.Context, id uuid.UUID, modificadoPor string, monto decimal.Decimal) (*dto.PedidoResponse, error) {
	if !monto.IsPositive() {
		return nil, errors.New("el monto del pago debe ser positivo")
	}

	var actualizado *model.Pedido
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pedido, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		if pedido.Estado == model.PedidoCancelado {
			return fmt.Errorf("%w: no se puede pagar un pedido cancelado", apierror.ErrEstadoInvalido)
		}

		pedido.MontoPagado = pedido.MontoPagado.Add(monto)
		pedido.SaldoPendiente = pedido.Total.Sub(pedido.MontoPagado)
		pedido.ModificadoPor = modificadoPor

		saldado := !pedido.SaldoPendiente.IsPositive()
		promovible := pedido.Estado == model.PedidoCreado || pedido.Estado == model.PedidoConfirmado
		if saldado && promovible {
			if !pedido.StockDescontado {
				if err := s.descontarStockTx(tx, pedido); err != nil {
					return err
				}
				pedido.StockDescontado = true
			}
			ahora := s.ahora()
			pedido.Estado = model.PedidoPagado
			pedido.FechaPago = &ahora
		}

		if err := s.repo.SaveTx(tx, pedido); err != nil {
			return err
		}
		actualizado = pedido
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return pedidoToResponse(actualizado), nil
}

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	items := make([]dto.ItemPedidoResponse, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, dto.ItemPedidoResponse{
			ProductoID:     item.ProductoID.String(),
			Nombre:         item.Nombre,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Subtotal:       item.Subtotal,
		})
	}
	var clienteID *string
	if p.ClienteID != nil {
		cid := p.ClienteID.String()
		clienteID = &cid
	}
	fmtFecha := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		f := t.UTC().Format(time.RFC3339)
		return &f
	}
	return &dto.PedidoResponse{
		ID:              p.ID.String(),
		Numero:          p.Numero,
		ClienteID:       clienteID,
		ClienteNombre:   p.ClienteNombre,
		ClienteTelefono: p.ClienteTelefono,
		ClienteEmail:    p.ClienteEmail,
		Items:           items,
		Subtotal:        p.Subtotal,
		Descuento:       p.Descuento,
		Impuesto:        p.Impuesto,
		Total:           p.Total,
		Estado:          p.Estado,
		MontoPagado:     p.MontoPagado,
		SaldoPendiente:  p.SaldoPendiente,
		StockDescontado: p.StockDescontado,
		CreadoPor:       p.CreadoPor,
		ModificadoPor:   p.ModificadoPor,
		Fechas: dto.PedidoFechas{
			Confirmacion: fmtFecha(p.FechaConfirmacion),
			Pago:         fmtFecha(p.FechaPago),
			Envio:        fmtFecha(p.FechaEnvio),
			Completado:   fmtFecha(p.FechaCompletado),
			Cancelacion:  fmtFecha(p.FechaCancelacion),
		},
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
