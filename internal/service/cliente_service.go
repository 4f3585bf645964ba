package service

import (
	"context"
	"time"

	"aseopro/internal/dto"
	"aseopro/internal/infra"
	"aseopro/internal/model"
	"aseopro/internal/repository"

	"github.com/google/uuid"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo    repository.ClienteRepository
	storage *infra.Storage
}

func NewClienteService(repo repository.ClienteRepository, storage *infra.Storage) ClienteService {
	return &clienteService{repo: repo, storage: storage}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	cliente := model.Cliente{
		Nombre:    req.Nombre,
		Telefono:  req.Telefono,
		Email:     req.Email,
		Direccion: req.Direccion,
		Notas:     req.Notas,
		FotoID:    req.FotoID,
		Activo:    true,
	}
	if err := s.repo.Create(ctx, &cliente); err != nil {
		return nil, err
	}
	return s.toResponse(&cliente), nil
}

func (s *clienteService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(cliente), nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	clientes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		data = append(data, *s.toResponse(&clientes[i]))
	}
	return &dto.ClienteListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nombre != nil {
		cliente.Nombre = *req.Nombre
	}
	if req.Telefono != nil {
		cliente.Telefono = *req.Telefono
	}
	if req.Email != nil {
		cliente.Email = *req.Email
	}
	if req.Direccion != nil {
		cliente.Direccion = *req.Direccion
	}
	if req.Notas != nil {
		cliente.Notas = req.Notas
	}
	if req.FotoID != nil {
		cliente.FotoID = req.FotoID
	}
	if err := s.repo.Update(ctx, cliente); err != nil {
		return nil, err
	}
	return s.toResponse(cliente), nil
}

func (s *clienteService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *clienteService) toResponse(c *model.Cliente) *dto.ClienteResponse {
	fotoURL := ""
	if s.storage != nil && c.FotoID != nil {
		fotoURL = s.storage.FileURL(*c.FotoID)
	}
	return &dto.ClienteResponse{
		ID:        c.ID.String(),
		Nombre:    c.Nombre,
		Telefono:  c.Telefono,
		Email:     c.Email,
		Direccion: c.Direccion,
		Notas:     c.Notas,
		FotoURL:   fotoURL,
		Activo:    c.Activo,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
}
