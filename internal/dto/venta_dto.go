package dto

import "github.com/shopspring/decimal"

// ─── Requests ───────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   int             `json:"cantidad"    validate:"required,min=1"`
	Descuento  decimal.Decimal `json:"descuento"   validate:"min=0"`
}

type PagoRequest struct {
	Metodo string          `json:"metodo" validate:"required,oneof=efectivo tarjeta transferencia"`
	Monto  decimal.Decimal `json:"monto"  validate:"required"`
}

type RegistrarVentaRequest struct {
	Items []ItemVentaRequest `json:"items" validate:"required,min=1,dive"`
	Pagos []PagoRequest      `json:"pagos" validate:"required,min=1,dive"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

type VentaFilter struct {
	Fecha  string `form:"fecha"`                     // YYYY-MM-DD; empty = today
	Estado string `form:"estado,default=completada"` // completada | anulada | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Responses ──────────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID             string              `json:"id"`
	NumeroTicket   int                 `json:"numero_ticket"`
	Items          []ItemVentaResponse `json:"items"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DescuentoTotal decimal.Decimal     `json:"descuento_total"`
	Total          decimal.Decimal     `json:"total"`
	Pagos          []PagoRequest       `json:"pagos"`
	Vuelto         decimal.Decimal     `json:"vuelto"`
	Estado         string              `json:"estado"`
	CreatedAt      string              `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
