package service

import (
	"context"
	"fmt"
	"time"

	"aseopro/internal/dto"
	"aseopro/internal/infra"
	"aseopro/internal/model"
	"aseopro/internal/repository"

	"github.com/google/uuid"
)

type GastoService interface {
	Crear(ctx context.Context, creadoPor string, req dto.CrearGastoRequest) (*dto.GastoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.GastoResponse, error)
	Listar(ctx context.Context, filter dto.GastoFilter) (*dto.GastoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarGastoRequest) (*dto.GastoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type gastoService struct {
	repo    repository.GastoRepository
	storage *infra.Storage
}

func NewGastoService(repo repository.GastoRepository, storage *infra.Storage) GastoService {
	return &gastoService{repo: repo, storage: storage}
}

func (s *gastoService) Crear(ctx context.Context, creadoPor string, req dto.CrearGastoRequest) (*dto.GastoResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, fmt.Errorf("el monto debe ser positivo")
	}
	fecha := time.Now()
	if req.Fecha != "" {
		t, err := time.Parse("2006-01-02", req.Fecha)
		if err != nil {
			return nil, fmt.Errorf("fecha inválida: %w", err)
		}
		fecha = t
	}

	gasto := model.Gasto{
		Categoria:   req.Categoria,
		Descripcion: req.Descripcion,
		Monto:       req.Monto,
		Fecha:       fecha,
		Proveedor:   req.Proveedor,
		ReciboID:    req.ReciboID,
		CreadoPor:   creadoPor,
	}
	if err := s.repo.Create(ctx, &gasto); err != nil {
		return nil, err
	}
	return s.toResponse(&gasto), nil
}

func (s *gastoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.GastoResponse, error) {
	gasto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(gasto), nil
}

func (s *gastoService) Listar(ctx context.Context, filter dto.GastoFilter) (*dto.GastoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}

	repoFilter := repository.GastoFilter{
		Categoria: filter.Categoria,
		Limit:     filter.Limit,
		Offset:    (filter.Page - 1) * filter.Limit,
	}
	if filter.Desde != "" {
		if t, err := time.Parse("2006-01-02", filter.Desde); err == nil {
			repoFilter.Desde = &t
		}
	}
	if filter.Hasta != "" {
		if t, err := time.Parse("2006-01-02", filter.Hasta); err == nil {
			fin := t.Add(24*time.Hour - time.Second)
			repoFilter.Hasta = &fin
		}
	}

	gastos, total, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.GastoResponse, 0, len(gastos))
	for i := range gastos {
		data = append(data, *s.toResponse(&gastos[i]))
	}
	return &dto.GastoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *gastoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarGastoRequest) (*dto.GastoResponse, error) {
	gasto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Categoria != nil {
		gasto.Categoria = *req.Categoria
	}
	if req.Descripcion != nil {
		gasto.Descripcion = *req.Descripcion
	}
	if req.Monto != nil {
		if !req.Monto.IsPositive() {
			return nil, fmt.Errorf("el monto debe ser positivo")
		}
		gasto.Monto = *req.Monto
	}
	if req.Fecha != nil {
		t, err := time.Parse("2006-01-02", *req.Fecha)
		if err != nil {
			return nil, fmt.Errorf("fecha inválida: %w", err)
		}
		gasto.Fecha = t
	}
	if req.Proveedor != nil {
		gasto.Proveedor = req.Proveedor
	}
	if req.ReciboID != nil {
		gasto.ReciboID = req.ReciboID
	}
	if err := s.repo.Update(ctx, gasto); err != nil {
		return nil, err
	}
	return s.toResponse(gasto), nil
}

func (s *gastoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *gastoService) toResponse(g *model.Gasto) *dto.GastoResponse {
	reciboURL := ""
	if s.storage != nil && g.ReciboID != nil {
		reciboURL = s.storage.FileURL(*g.ReciboID)
	}
	return &dto.GastoResponse{
		ID:          g.ID.String(),
		Categoria:   g.Categoria,
		Descripcion: g.Descripcion,
		Monto:       g.Monto,
		Fecha:       g.Fecha.Format("2006-01-02"),
		Proveedor:   g.Proveedor,
		ReciboURL:   reciboURL,
		CreadoPor:   g.CreadoPor,
	}
}
