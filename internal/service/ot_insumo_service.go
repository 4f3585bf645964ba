package service

import (
	"context"
	"fmt"
	"time"

	"aseopro/internal/dto"
	"aseopro/internal/model"
	"aseopro/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OTInsumoService tracks supplies consumed in work orders. Each mutation is a
// paired write: the insumo row and its stock movement commit together.
type OTInsumoService interface {
	Crear(ctx context.Context, creadoPor string, req dto.CrearOTInsumoRequest) (*dto.OTInsumoResponse, error)
	ListarPorOT(ctx context.Context, otReferencia string) ([]dto.OTInsumoResponse, error)
	// Actualizar changes the consumed quantity issuing a single differential
	// movement: más consumo = salida (re-checked against stock), menos = entrada.
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarOTInsumoRequest) (*dto.OTInsumoResponse, error)
	// Eliminar returns the supply to stock with an "entrada" reversal.
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type otInsumoService struct {
	repo         repository.OTInsumoRepository
	productoRepo repository.ProductoRepository
	inventario   InventarioService
}

func NewOTInsumoService(
	repo repository.OTInsumoRepository,
	productoRepo repository.ProductoRepository,
	inventario InventarioService,
) OTInsumoService {
	return &otInsumoService{repo: repo, productoRepo: productoRepo, inventario: inventario}
}

func (s *otInsumoService) Crear(ctx context.Context, creadoPor string, req dto.CrearOTInsumoRequest) (*dto.OTInsumoResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id inválido: %w", err)
	}
	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, err
	}

	costo := req.CostoUnitario
	if costo.IsZero() {
		costo = producto.PrecioCosto
	}

	var insumo model.OTInsumo
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		insumo = model.OTInsumo{
			OTReferencia:  req.OTReferencia,
			ProductoID:    productoID,
			Cantidad:      req.Cantidad,
			CostoUnitario: costo,
			Notas:         req.Notas,
			CreadoPor:     creadoPor,
		}
		if err := s.repo.CreateTx(tx, &insumo); err != nil {
			return err
		}
		ref := insumo.ID
		_, err := s.inventario.RegistrarMovimientoTx(tx, productoID, model.MovSalida, req.Cantidad,
			fmt.Sprintf("Consumo OT %s", req.OTReferencia), &ref)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	insumo.Producto = producto
	return otInsumoToResponse(&insumo), nil
}

func (s *otInsumoService) ListarPorOT(ctx context.Context, otReferencia string) ([]dto.OTInsumoResponse, error) {
	insumos, err := s.repo.ListByOT(ctx, otReferencia)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OTInsumoResponse, 0, len(insumos))
	for i := range insumos {
		data = append(data, *otInsumoToResponse(&insumos[i]))
	}
	return data, nil
}

func (s *otInsumoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarOTInsumoRequest) (*dto.OTInsumoResponse, error) {
	var actualizado *model.OTInsumo
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		insumo, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return err
		}

		diferencia := req.Cantidad - insumo.Cantidad
		if diferencia != 0 {
			ref := insumo.ID
			motivo := fmt.Sprintf("Ajuste consumo OT %s", insumo.OTReferencia)
			if diferencia > 0 {
				// More consumption: the extra units go through the stock guard.
				if _, err := s.inventario.RegistrarMovimientoTx(tx, insumo.ProductoID, model.MovSalida, diferencia, motivo, &ref); err != nil {
					return err
				}
			} else {
				if _, err := s.inventario.RegistrarMovimientoTx(tx, insumo.ProductoID, model.MovEntrada, -diferencia, motivo, &ref); err != nil {
					return err
				}
			}
		}

		insumo.Cantidad = req.Cantidad
		if req.Notas != nil {
			insumo.Notas = req.Notas
		}
		if err := s.repo.SaveTx(tx, insumo); err != nil {
			return err
		}
		actualizado = insumo
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return otInsumoToResponse(actualizado), nil
}

func (s *otInsumoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		insumo, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		ref := insumo.ID
		_, err = s.inventario.RegistrarMovimientoTx(tx, insumo.ProductoID, model.MovEntrada, insumo.Cantidad,
			fmt.Sprintf("Eliminación consumo OT %s", insumo.OTReferencia), &ref)
		if err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, id)
	})
}

func otInsumoToResponse(i *model.OTInsumo) *dto.OTInsumoResponse {
	producto := ""
	if i.Producto != nil {
		producto = i.Producto.Nombre
	}
	return &dto.OTInsumoResponse{
		ID:            i.ID.String(),
		OTReferencia:  i.OTReferencia,
		ProductoID:    i.ProductoID.String(),
		Producto:      producto,
		Cantidad:      i.Cantidad,
		CostoUnitario: i.CostoUnitario,
		Notas:         i.Notas,
		CreatedAt:     i.CreatedAt.UTC().Format(time.RFC3339),
	}
}
