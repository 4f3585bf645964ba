package dto

import "github.com/shopspring/decimal"

type CrearGastoRequest struct {
	Categoria   string          `json:"categoria"   validate:"required"`
	Descripcion string          `json:"descripcion" validate:"required"`
	Monto       decimal.Decimal `json:"monto"       validate:"required"`
	Fecha       string          `json:"fecha"       validate:"omitempty,datetime=2006-01-02"`
	Proveedor   *string         `json:"proveedor"`
	ReciboID    *string         `json:"recibo_id"`
}

type ActualizarGastoRequest struct {
	Categoria   *string          `json:"categoria"`
	Descripcion *string          `json:"descripcion"`
	Monto       *decimal.Decimal `json:"monto"`
	Fecha       *string          `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	Proveedor   *string          `json:"proveedor"`
	ReciboID    *string          `json:"recibo_id"`
}

type GastoFilter struct {
	Categoria string `form:"categoria"`
	Desde     string `form:"desde"`
	Hasta     string `form:"hasta"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type GastoResponse struct {
	ID          string          `json:"id"`
	Categoria   string          `json:"categoria"`
	Descripcion string          `json:"descripcion"`
	Monto       decimal.Decimal `json:"monto"`
	Fecha       string          `json:"fecha"`
	Proveedor   *string         `json:"proveedor,omitempty"`
	ReciboURL   string          `json:"recibo_url,omitempty"`
	CreadoPor   string          `json:"creado_por,omitempty"`
}

type GastoListResponse struct {
	Data  []GastoResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
