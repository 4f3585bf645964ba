package handler

import (
	"net/http"

	"aseopro/internal/apierror"
	"aseopro/internal/dto"
	"aseopro/internal/middleware"
	"aseopro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EmpleadosHandler struct{ svc service.EmpleadoService }

func NewEmpleadosHandler(svc service.EmpleadoService) *EmpleadosHandler {
	return &EmpleadosHandler{svc: svc}
}

func (h *EmpleadosHandler) Crear(c *gin.Context) {
	var req dto.CrearEmpleadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EmpleadosHandler) Obtener(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EmpleadosHandler) Listar(c *gin.Context) {
	incluirInactivos := c.Query("incluir_inactivos") == "true"
	resp, err := h.svc.Listar(c.Request.Context(), incluirInactivos)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar empleados"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EmpleadosHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.ActualizarEmpleadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EmpleadosHandler) Desactivar(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegistrarAsistencia upserts the day's mark: repeating the registration for
// the same empleado and fecha overwrites the previous one.
func (h *EmpleadosHandler) RegistrarAsistencia(c *gin.Context) {
	var req dto.RegistrarAsistenciaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarAsistencia(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EmpleadosHandler) ListarAsistencias(c *gin.Context) {
	var empleadoID *uuid.UUID
	if raw := c.Query("empleado_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("empleado_id invalido"))
			return
		}
		empleadoID = &id
	}
	resp, err := h.svc.ListarAsistencias(c.Request.Context(), empleadoID, c.Query("desde"), c.Query("hasta"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar asistencias"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EmpleadosHandler) RegistrarHoras(c *gin.Context) {
	var req dto.RegistrarHorasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.RegistrarHoras(c.Request.Context(), claims.Username, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EmpleadosHandler) SaldoHoras(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.SaldoHoras(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
