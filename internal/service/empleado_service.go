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
	"github.com/shopspring/decimal"
)

type EmpleadoService interface {
	Crear(ctx context.Context, req dto.CrearEmpleadoRequest) (*dto.EmpleadoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.EmpleadoResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.EmpleadoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEmpleadoRequest) (*dto.EmpleadoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error

	// RegistrarAsistencia keeps one mark per empleado per day; a repeated
	// registration for the same day overwrites the previous one.
	RegistrarAsistencia(ctx context.Context, req dto.RegistrarAsistenciaRequest) (*dto.AsistenciaResponse, error)
	ListarAsistencias(ctx context.Context, empleadoID *uuid.UUID, desde, hasta string) ([]dto.AsistenciaResponse, error)

	// RegistrarHoras appends a signed entry to the banco de horas ledger.
	RegistrarHoras(ctx context.Context, creadoPor string, req dto.RegistrarHorasRequest) (*dto.BancoHorasResponse, error)
	SaldoHoras(ctx context.Context, empleadoID uuid.UUID) (*dto.BancoHorasResponse, error)
}

type empleadoService struct {
	repo    repository.EmpleadoRepository
	storage *infra.Storage
}

func NewEmpleadoService(repo repository.EmpleadoRepository, storage *infra.Storage) EmpleadoService {
	return &empleadoService{repo: repo, storage: storage}
}

func (s *empleadoService) Crear(ctx context.Context, req dto.CrearEmpleadoRequest) (*dto.EmpleadoResponse, error) {
	fechaIngreso := time.Now()
	if req.FechaIngreso != "" {
		t, err := time.Parse("2006-01-02", req.FechaIngreso)
		if err != nil {
			return nil, fmt.Errorf("fecha_ingreso inválida: %w", err)
		}
		fechaIngreso = t
	}

	empleado := model.Empleado{
		Nombre:       req.Nombre,
		Cargo:        req.Cargo,
		Telefono:     req.Telefono,
		Email:        req.Email,
		SalarioBase:  req.SalarioBase,
		FechaIngreso: fechaIngreso,
		FotoID:       req.FotoID,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, &empleado); err != nil {
		return nil, err
	}
	return s.toResponse(&empleado), nil
}

func (s *empleadoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.EmpleadoResponse, error) {
	empleado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(empleado), nil
}

func (s *empleadoService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.EmpleadoResponse, error) {
	empleados, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	data := make([]dto.EmpleadoResponse, 0, len(empleados))
	for i := range empleados {
		data = append(data, *s.toResponse(&empleados[i]))
	}
	return data, nil
}

func (s *empleadoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEmpleadoRequest) (*dto.EmpleadoResponse, error) {
	empleado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nombre != nil {
		empleado.Nombre = *req.Nombre
	}
	if req.Cargo != nil {
		empleado.Cargo = *req.Cargo
	}
	if req.Telefono != nil {
		empleado.Telefono = *req.Telefono
	}
	if req.Email != nil {
		empleado.Email = *req.Email
	}
	if req.SalarioBase != nil {
		empleado.SalarioBase = *req.SalarioBase
	}
	if req.FotoID != nil {
		empleado.FotoID = req.FotoID
	}
	if err := s.repo.Update(ctx, empleado); err != nil {
		return nil, err
	}
	return s.toResponse(empleado), nil
}

func (s *empleadoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *empleadoService) RegistrarAsistencia(ctx context.Context, req dto.RegistrarAsistenciaRequest) (*dto.AsistenciaResponse, error) {
	empleadoID, err := uuid.Parse(req.EmpleadoID)
	if err != nil {
		return nil, fmt.Errorf("empleado_id inválido: %w", err)
	}
	empleado, err := s.repo.FindByID(ctx, empleadoID)
	if err != nil {
		return nil, err
	}

	parseHora := func(hora *string) (*time.Time, error) {
		if hora == nil || *hora == "" {
			return nil, nil
		}
		t, err := time.Parse("2006-01-02 15:04", req.Fecha+" "+*hora)
		if err != nil {
			return nil, fmt.Errorf("hora inválida %q: %w", *hora, err)
		}
		return &t, nil
	}
	entrada, err := parseHora(req.HoraEntrada)
	if err != nil {
		return nil, err
	}
	salida, err := parseHora(req.HoraSalida)
	if err != nil {
		return nil, err
	}

	asistencia := model.Asistencia{
		EmpleadoID:  empleadoID,
		Fecha:       req.Fecha,
		Estado:      req.Estado,
		HoraEntrada: entrada,
		HoraSalida:  salida,
		Notas:       req.Notas,
	}
	if err := s.repo.UpsertAsistencia(ctx, &asistencia); err != nil {
		return nil, err
	}

	asistencia.Empleado = empleado
	return asistenciaToResponse(&asistencia), nil
}

func (s *empleadoService) ListarAsistencias(ctx context.Context, empleadoID *uuid.UUID, desde, hasta string) ([]dto.AsistenciaResponse, error) {
	asistencias, err := s.repo.ListAsistencias(ctx, empleadoID, desde, hasta, reporteFetchCap)
	if err != nil {
		return nil, err
	}
	data := make([]dto.AsistenciaResponse, 0, len(asistencias))
	for i := range asistencias {
		data = append(data, *asistenciaToResponse(&asistencias[i]))
	}
	return data, nil
}

func (s *empleadoService) RegistrarHoras(ctx context.Context, creadoPor string, req dto.RegistrarHorasRequest) (*dto.BancoHorasResponse, error) {
	empleadoID, err := uuid.Parse(req.EmpleadoID)
	if err != nil {
		return nil, fmt.Errorf("empleado_id inválido: %w", err)
	}
	if _, err := s.repo.FindByID(ctx, empleadoID); err != nil {
		return nil, err
	}
	if req.Horas.IsZero() {
		return nil, fmt.Errorf("horas no puede ser cero")
	}

	entrada := model.BancoHoras{
		EmpleadoID: empleadoID,
		Horas:      req.Horas,
		Motivo:     req.Motivo,
		Fecha:      req.Fecha,
		CreadoPor:  creadoPor,
	}
	if err := s.repo.CreateHoras(ctx, &entrada); err != nil {
		return nil, err
	}
	return s.SaldoHoras(ctx, empleadoID)
}

func (s *empleadoService) SaldoHoras(ctx context.Context, empleadoID uuid.UUID) (*dto.BancoHorasResponse, error) {
	entradas, err := s.repo.ListHoras(ctx, empleadoID)
	if err != nil {
		return nil, err
	}

	// The balance is always derived by summing the ledger, never cached.
	saldo := decimal.Zero
	data := make([]dto.BancoHorasEntrada, 0, len(entradas))
	for _, e := range entradas {
		saldo = saldo.Add(e.Horas)
		data = append(data, dto.BancoHorasEntrada{
			ID:     e.ID.String(),
			Horas:  e.Horas,
			Motivo: e.Motivo,
			Fecha:  e.Fecha,
		})
	}
	return &dto.BancoHorasResponse{
		EmpleadoID: empleadoID.String(),
		Saldo:      saldo,
		Entradas:   data,
	}, nil
}

func (s *empleadoService) toResponse(e *model.Empleado) *dto.EmpleadoResponse {
	fotoURL := ""
	if s.storage != nil && e.FotoID != nil {
		fotoURL = s.storage.FileURL(*e.FotoID)
	}
	return &dto.EmpleadoResponse{
		ID:           e.ID.String(),
		Nombre:       e.Nombre,
		Cargo:        e.Cargo,
		Telefono:     e.Telefono,
		Email:        e.Email,
		SalarioBase:  e.SalarioBase,
		FechaIngreso: e.FechaIngreso.Format("2006-01-02"),
		FotoURL:      fotoURL,
		Activo:       e.Activo,
	}
}

func asistenciaToResponse(a *model.Asistencia) *dto.AsistenciaResponse {
	fmtHora := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		h := t.Format("15:04")
		return &h
	}
	empleado := ""
	if a.Empleado != nil {
		empleado = a.Empleado.Nombre
	}
	return &dto.AsistenciaResponse{
		ID:          a.ID.String(),
		EmpleadoID:  a.EmpleadoID.String(),
		Empleado:    empleado,
		Fecha:       a.Fecha,
		Estado:      a.Estado,
		HoraEntrada: fmtHora(a.HoraEntrada),
		HoraSalida:  fmtHora(a.HoraSalida),
		Notas:       a.Notas,
	}
}
