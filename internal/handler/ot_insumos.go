package handler

import (
	"net/http"

	"aseopro/internal/apierror"
	"aseopro/internal/dto"
	"aseopro/internal/middleware"
	"aseopro/internal/service"

	"github.com/gin-gonic/gin"
)

type OTInsumosHandler struct{ svc service.OTInsumoService }

func NewOTInsumosHandler(svc service.OTInsumoService) *OTInsumosHandler {
	return &OTInsumosHandler{svc: svc}
}

func (h *OTInsumosHandler) Crear(c *gin.Context) {
	var req dto.CrearOTInsumoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Crear(c.Request.Context(), claims.Username, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OTInsumosHandler) ListarPorOT(c *gin.Context) {
	ot := c.Query("ot")
	if ot == "" {
		c.JSON(http.StatusBadRequest, apierror.New("parametro ot requerido"))
		return
	}
	resp, err := h.svc.ListarPorOT(c.Request.Context(), ot)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar insumos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OTInsumosHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.ActualizarOTInsumoRequest
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

func (h *OTInsumosHandler) Eliminar(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
