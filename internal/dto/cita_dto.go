package dto

import "github.com/shopspring/decimal"

type CrearCitaRequest struct {
	ClienteID       *string         `json:"cliente_id" validate:"omitempty,uuid"`
	ClienteNombre   string          `json:"cliente_nombre" validate:"required"`
	ClienteTelefono string          `json:"cliente_telefono"`
	EmpleadoID      *string         `json:"empleado_id" validate:"omitempty,uuid"`
	FechaHora       string          `json:"fecha_hora" validate:"required"`
	DuracionMin     int             `json:"duracion_min" validate:"min=0"`
	Direccion       string          `json:"direccion"`
	Servicio        string          `json:"servicio" validate:"required"`
	Precio          decimal.Decimal `json:"precio" validate:"min=0"`
	Notas           *string         `json:"notas"`
}

type ActualizarCitaRequest struct {
	EmpleadoID  *string          `json:"empleado_id" validate:"omitempty,uuid"`
	FechaHora   *string          `json:"fecha_hora"`
	DuracionMin *int             `json:"duracion_min"`
	Direccion   *string          `json:"direccion"`
	Servicio    *string          `json:"servicio"`
	Precio      *decimal.Decimal `json:"precio"`
	Estado      *string          `json:"estado" validate:"omitempty,oneof=programada completada cancelada"`
	Notas       *string          `json:"notas"`
}

type CitaFilter struct {
	Desde      string `form:"desde"` // YYYY-MM-DD inclusive
	Hasta      string `form:"hasta"` // YYYY-MM-DD inclusive
	EmpleadoID string `form:"empleado_id" validate:"omitempty,uuid"`
	Estado     string `form:"estado"`
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type CitaResponse struct {
	ID              string          `json:"id"`
	ClienteID       *string         `json:"cliente_id,omitempty"`
	ClienteNombre   string          `json:"cliente_nombre"`
	ClienteTelefono string          `json:"cliente_telefono,omitempty"`
	EmpleadoID      *string         `json:"empleado_id,omitempty"`
	Empleado        string          `json:"empleado,omitempty"`
	FechaHora       string          `json:"fecha_hora"`
	DuracionMin     int             `json:"duracion_min"`
	Direccion       string          `json:"direccion,omitempty"`
	Servicio        string          `json:"servicio"`
	Precio          decimal.Decimal `json:"precio"`
	Estado          string          `json:"estado"`
	Notas           *string         `json:"notas,omitempty"`
}

type CitaListResponse struct {
	Data  []CitaResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
