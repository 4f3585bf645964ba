package service

import (
	"context"
	"fmt"
	"time"

	"aseopro/internal/apierror"
	"aseopro/internal/dto"
	"aseopro/internal/model"
	"aseopro/internal/repository"

	"github.com/google/uuid"
)

type CitaService interface {
	Crear(ctx context.Context, creadoPor string, req dto.CrearCitaRequest) (*dto.CitaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.CitaResponse, error)
	Listar(ctx context.Context, filter dto.CitaFilter) (*dto.CitaListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCitaRequest) (*dto.CitaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type citaService struct {
	repo        repository.CitaRepository
	clienteRepo repository.ClienteRepository
}

func NewCitaService(repo repository.CitaRepository, clienteRepo repository.ClienteRepository) CitaService {
	return &citaService{repo: repo, clienteRepo: clienteRepo}
}

func (s *citaService) Crear(ctx context.Context, creadoPor string, req dto.CrearCitaRequest) (*dto.CitaResponse, error) {
	fechaHora, err := time.Parse(time.RFC3339, req.FechaHora)
	if err != nil {
		// Also accept local datetime without zone, common from form inputs.
		fechaHora, err = time.Parse("2006-01-02T15:04", req.FechaHora)
		if err != nil {
			return nil, fmt.Errorf("fecha_hora inválida: %w", err)
		}
	}

	var clienteID *uuid.UUID
	nombre := req.ClienteNombre
	telefono := req.ClienteTelefono
	if req.ClienteID != nil {
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id inválido: %w", err)
		}
		cliente, err := s.clienteRepo.FindByID(ctx, cid)
		if err != nil {
			return nil, fmt.Errorf("cliente: %w", err)
		}
		clienteID = &cid
		// Snapshot contact data so the agenda survives later CRM edits.
		nombre = cliente.Nombre
		if telefono == "" {
			telefono = cliente.Telefono
		}
	}

	var empleadoID *uuid.UUID
	if req.EmpleadoID != nil {
		eid, err := uuid.Parse(*req.EmpleadoID)
		if err != nil {
			return nil, fmt.Errorf("empleado_id inválido: %w", err)
		}
		empleadoID = &eid
	}

	duracion := req.DuracionMin
	if duracion == 0 {
		duracion = 60
	}

	cita := model.Cita{
		ClienteID:       clienteID,
		ClienteNombre:   nombre,
		ClienteTelefono: telefono,
		EmpleadoID:      empleadoID,
		FechaHora:       fechaHora,
		DuracionMin:     duracion,
		Direccion:       req.Direccion,
		Servicio:        req.Servicio,
		Precio:          req.Precio,
		Estado:          model.CitaProgramada,
		Notas:           req.Notas,
		CreadoPor:       creadoPor,
	}
	if err := s.repo.Create(ctx, &cita); err != nil {
		return nil, err
	}
	return citaToResponse(&cita), nil
}

func (s *citaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CitaResponse, error) {
	cita, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return citaToResponse(cita), nil
}

func (s *citaService) Listar(ctx context.Context, filter dto.CitaFilter) (*dto.CitaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}

	repoFilter := repository.CitaFilter{
		Estado: filter.Estado,
		Limit:  filter.Limit,
		Offset: (filter.Page - 1) * filter.Limit,
	}
	if filter.EmpleadoID != "" {
		eid, err := uuid.Parse(filter.EmpleadoID)
		if err != nil {
			return nil, fmt.Errorf("empleado_id inválido: %w", err)
		}
		repoFilter.EmpleadoID = &eid
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

	citas, total, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CitaResponse, 0, len(citas))
	for i := range citas {
		data = append(data, *citaToResponse(&citas[i]))
	}
	return &dto.CitaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *citaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCitaRequest) (*dto.CitaResponse, error) {
	cita, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Estado != nil && *req.Estado != cita.Estado {
		if cita.Estado != model.CitaProgramada {
			return nil, fmt.Errorf("%w: la cita ya está %s", apierror.ErrEstadoInvalido, cita.Estado)
		}
		cita.Estado = *req.Estado
	}
	if req.EmpleadoID != nil {
		eid, err := uuid.Parse(*req.EmpleadoID)
		if err != nil {
			return nil, fmt.Errorf("empleado_id inválido: %w", err)
		}
		cita.EmpleadoID = &eid
	}
	if req.FechaHora != nil {
		t, err := time.Parse(time.RFC3339, *req.FechaHora)
		if err != nil {
			t, err = time.Parse("2006-01-02T15:04", *req.FechaHora)
			if err != nil {
				return nil, fmt.Errorf("fecha_hora inválida: %w", err)
			}
		}
		cita.FechaHora = t
	}
	if req.DuracionMin != nil {
		cita.DuracionMin = *req.DuracionMin
	}
	if req.Direccion != nil {
		cita.Direccion = *req.Direccion
	}
	if req.Servicio != nil {
		cita.Servicio = *req.Servicio
	}
	if req.Precio != nil {
		cita.Precio = *req.Precio
	}
	if req.Notas != nil {
		cita.Notas = req.Notas
	}

	if err := s.repo.Update(ctx, cita); err != nil {
		return nil, err
	}
	return citaToResponse(cita), nil
}

func (s *citaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func citaToResponse(c *model.Cita) *dto.CitaResponse {
	var clienteID, empleadoID *string
	if c.ClienteID != nil {
		v := c.ClienteID.String()
		clienteID = &v
	}
	if c.EmpleadoID != nil {
		v := c.EmpleadoID.String()
		empleadoID = &v
	}
	empleado := ""
	if c.Empleado != nil {
		empleado = c.Empleado.Nombre
	}
	return &dto.CitaResponse{
		ID:              c.ID.String(),
		ClienteID:       clienteID,
		ClienteNombre:   c.ClienteNombre,
		ClienteTelefono: c.ClienteTelefono,
		EmpleadoID:      empleadoID,
		Empleado:        empleado,
		FechaHora:       c.FechaHora.Format(time.RFC3339),
		DuracionMin:     c.DuracionMin,
		Direccion:       c.Direccion,
		Servicio:        c.Servicio,
		Precio:          c.Precio,
		Estado:          c.Estado,
		Notas:           c.Notas,
	}
}
