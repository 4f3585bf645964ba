package handler

import (
	"net/http"

	"aseopro/internal/apierror"
	"aseopro/internal/dto"
	"aseopro/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// RegistrarMovimiento godoc
// @Summary Registrar un movimiento manual de stock
// @Tags inventario
// @Accept json
// @Produce json
// @Param body body dto.RegistrarMovimientoRequest true "Movimiento"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 409 {object} apierror.APIError "stock insuficiente"
// @Router /v1/inventario/movimientos [post]
func (h *InventarioHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.RegistrarMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) Alertas(c *gin.Context) {
	resp, err := h.svc.ObtenerAlertas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener alertas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reconciliar runs the ledger-vs-cache check. With ?corregir=true the cached
// stock is rewritten from the ledger.
func (h *InventarioHandler) Reconciliar(c *gin.Context) {
	corregir := c.Query("corregir") == "true"
	resp, err := h.svc.Reconciliar(c.Request.Context(), corregir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error en la reconciliacion"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
