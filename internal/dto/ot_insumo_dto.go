package dto

import "github.com/shopspring/decimal"

type CrearOTInsumoRequest struct {
	OTReferencia  string          `json:"ot_referencia"  validate:"required"`
	ProductoID    string          `json:"producto_id"    validate:"required,uuid"`
	Cantidad      int             `json:"cantidad"       validate:"required,min=1"`
	CostoUnitario decimal.Decimal `json:"costo_unitario" validate:"min=0"`
	Notas         *string         `json:"notas"`
}

// ActualizarOTInsumoRequest changes only the consumed quantity; the service
// issues a single differential movement for the delta.
type ActualizarOTInsumoRequest struct {
	Cantidad int     `json:"cantidad" validate:"required,min=1"`
	Notas    *string `json:"notas"`
}

type OTInsumoResponse struct {
	ID            string          `json:"id"`
	OTReferencia  string          `json:"ot_referencia"`
	ProductoID    string          `json:"producto_id"`
	Producto      string          `json:"producto,omitempty"`
	Cantidad      int             `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Notas         *string         `json:"notas,omitempty"`
	CreatedAt     string          `json:"created_at"`
}
