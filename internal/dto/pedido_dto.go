package dto

import "github.com/shopspring/decimal"

// ─── Requests ───────────────────────────────────────────────────────────────

type ItemPedidoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

type CrearPedidoRequest struct {
	ClienteID       *string         `json:"cliente_id" validate:"omitempty,uuid"`
	ClienteNombre   string          `json:"cliente_nombre" validate:"required"`
	ClienteTelefono string          `json:"cliente_telefono"`
	ClienteEmail    string          `json:"cliente_email" validate:"omitempty,email"`
	Items           []ItemPedidoRequest `json:"items" validate:"required,min=1,dive"`
	Descuento       decimal.Decimal `json:"descuento" validate:"min=0"`
	// AplicarIVA: 19% sobre subtotal-descuento.
	AplicarIVA bool `json:"aplicar_iva"`
}

type CambiarEstadoPedidoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=creado confirmado pagado enviado completado cancelado"`
}

type RegistrarPagoRequest struct {
	Monto decimal.Decimal `json:"monto" validate:"required"`
}

type PedidoFilter struct {
	Estado  string `form:"estado"`
	Cliente string `form:"cliente"`
	Desde   string `form:"desde"` // YYYY-MM-DD inclusive
	Hasta   string `form:"hasta"` // YYYY-MM-DD inclusive
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Responses ──────────────────────────────────────────────────────────────

type ItemPedidoResponse struct {
	ProductoID     string          `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type PedidoResponse struct {
	ID              string               `json:"id"`
	Numero          string               `json:"numero"`
	ClienteID       *string              `json:"cliente_id,omitempty"`
	ClienteNombre   string               `json:"cliente_nombre"`
	ClienteTelefono string               `json:"cliente_telefono,omitempty"`
	ClienteEmail    string               `json:"cliente_email,omitempty"`
	Items           []ItemPedidoResponse `json:"items"`
	Subtotal        decimal.Decimal      `json:"subtotal"`
	Descuento       decimal.Decimal      `json:"descuento"`
	Impuesto        decimal.Decimal      `json:"impuesto"`
	Total           decimal.Decimal      `json:"total"`
	Estado          string               `json:"estado"`
	MontoPagado     decimal.Decimal      `json:"monto_pagado"`
	SaldoPendiente  decimal.Decimal      `json:"saldo_pendiente"`
	StockDescontado bool                 `json:"stock_descontado"`
	CreadoPor       string               `json:"creado_por,omitempty"`
	ModificadoPor   string               `json:"modificado_por,omitempty"`
	Fechas          PedidoFechas         `json:"fechas"`
	CreatedAt       string               `json:"created_at"`
}

type PedidoFechas struct {
	Confirmacion *string `json:"confirmacion,omitempty"`
	Pago         *string `json:"pago,omitempty"`
	Envio        *string `json:"envio,omitempty"`
	Completado   *string `json:"completado,omitempty"`
	Cancelacion  *string `json:"cancelacion,omitempty"`
}

type PedidoListResponse struct {
	Data  []PedidoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
