package service

import (
	"context"

	"aseopro/internal/dto"
	"aseopro/internal/model"
	"aseopro/internal/repository"

	"github.com/google/uuid"
)

type ProveedorService interface {
	Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.ProveedorResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type proveedorService struct {
	repo repository.ProveedorRepository
}

func NewProveedorService(repo repository.ProveedorRepository) ProveedorService {
	return &proveedorService{repo: repo}
}

func (s *proveedorService) Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	proveedor := model.Proveedor{
		RazonSocial: req.RazonSocial,
		NIT:         req.NIT,
		Telefono:    req.Telefono,
		Email:       req.Email,
		Direccion:   req.Direccion,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, &proveedor); err != nil {
		return nil, err
	}
	return proveedorToResponse(&proveedor), nil
}

func (s *proveedorService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error) {
	proveedor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return proveedorToResponse(proveedor), nil
}

func (s *proveedorService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.ProveedorResponse, error) {
	proveedores, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProveedorResponse, 0, len(proveedores))
	for i := range proveedores {
		data = append(data, *proveedorToResponse(&proveedores[i]))
	}
	return data, nil
}

func (s *proveedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error) {
	proveedor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RazonSocial != nil {
		proveedor.RazonSocial = *req.RazonSocial
	}
	if req.NIT != nil {
		proveedor.NIT = req.NIT
	}
	if req.Telefono != nil {
		proveedor.Telefono = req.Telefono
	}
	if req.Email != nil {
		proveedor.Email = req.Email
	}
	if req.Direccion != nil {
		proveedor.Direccion = req.Direccion
	}
	if err := s.repo.Update(ctx, proveedor); err != nil {
		return nil, err
	}
	return proveedorToResponse(proveedor), nil
}

func (s *proveedorService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		ID:          p.ID.String(),
		RazonSocial: p.RazonSocial,
		NIT:         p.NIT,
		Telefono:    p.Telefono,
		Email:       p.Email,
		Direccion:   p.Direccion,
		Activo:      p.Activo,
	}
}
