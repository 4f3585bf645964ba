package dto

import "github.com/shopspring/decimal"

// ProductoFilter is bound from query string of GET /v1/productos.
type ProductoFilter struct {
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	// Activo: "false" = inactivos, "all" = todos, default = activos
	Activo string `form:"activo"`
	// Visible filters storefront visibility: "true" | "false" | "" (all)
	Visible   string `form:"visible"`
	StockBajo bool   `form:"stock_bajo"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CrearProductoRequest struct {
	Nombre            string           `json:"nombre"      validate:"required"`
	Descripcion       *string          `json:"descripcion"`
	Categoria         string           `json:"categoria"`
	PrecioCosto       decimal.Decimal  `json:"precio_costo" validate:"min=0"`
	PrecioVenta       decimal.Decimal  `json:"precio_venta" validate:"required,min=0"`
	PrecioPromocional *decimal.Decimal `json:"precio_promocional"`
	EnPromocion       bool             `json:"en_promocion"`
	StockInicial      int              `json:"stock_inicial" validate:"min=0"`
	StockMinimo       int              `json:"stock_minimo"  validate:"min=0"`
	Visible           *bool            `json:"visible"`
	FotoID            *string          `json:"foto_id"`
}

// ActualizarProductoRequest deliberately has no stock field: stock is mutated
// only through the movimientos pathway.
type ActualizarProductoRequest struct {
	Nombre            *string          `json:"nombre"`
	Descripcion       *string          `json:"descripcion"`
	Categoria         *string          `json:"categoria"`
	PrecioCosto       *decimal.Decimal `json:"precio_costo"`
	PrecioVenta       *decimal.Decimal `json:"precio_venta"`
	PrecioPromocional *decimal.Decimal `json:"precio_promocional"`
	EnPromocion       *bool            `json:"en_promocion"`
	StockMinimo       *int             `json:"stock_minimo"`
	Visible           *bool            `json:"visible"`
	FotoID            *string          `json:"foto_id"`
}

type ProductoResponse struct {
	ID                string           `json:"id"`
	Nombre            string           `json:"nombre"`
	Descripcion       *string          `json:"descripcion"`
	Categoria         string           `json:"categoria"`
	PrecioCosto       decimal.Decimal  `json:"precio_costo"`
	PrecioVenta       decimal.Decimal  `json:"precio_venta"`
	PrecioPromocional *decimal.Decimal `json:"precio_promocional,omitempty"`
	EnPromocion       bool             `json:"en_promocion"`
	StockActual       int              `json:"stock_actual"`
	StockMinimo       int              `json:"stock_minimo"`
	Visible           bool             `json:"visible"`
	Activo            bool             `json:"activo"`
	FotoURL           string           `json:"foto_url,omitempty"`
	CreatedAt         string           `json:"created_at"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
