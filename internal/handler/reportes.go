package handler

import (
	"net/http"

	"aseopro/internal/apierror"
	"aseopro/internal/dto"
	"aseopro/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

func (h *ReportesHandler) bindRango(c *gin.Context) (dto.RangoFilter, bool) {
	var filter dto.RangoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return filter, false
	}
	if err := validate.Struct(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("rango de fechas invalido"))
		return filter, false
	}
	return filter, true
}

// Ingresos godoc
// @Summary Ingresos mensuales (citas + pedidos)
// @Tags reportes
// @Produce json
// @Param desde query string false "YYYY-MM-DD"
// @Param hasta query string false "YYYY-MM-DD"
// @Success 200 {object} dto.ReporteIngresosResponse
// @Router /v1/reportes/ingresos [get]
func (h *ReportesHandler) Ingresos(c *gin.Context) {
	filter, ok := h.bindRango(c)
	if !ok {
		return
	}
	resp, err := h.svc.Ingresos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el reporte"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Gastos(c *gin.Context) {
	filter, ok := h.bindRango(c)
	if !ok {
		return
	}
	resp, err := h.svc.Gastos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el reporte"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) TopClientes(c *gin.Context) {
	filter, ok := h.bindRango(c)
	if !ok {
		return
	}
	resp, err := h.svc.TopClientes(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el reporte"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) DesempenoEmpleados(c *gin.Context) {
	filter, ok := h.bindRango(c)
	if !ok {
		return
	}
	resp, err := h.svc.DesempenoEmpleados(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el reporte"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
