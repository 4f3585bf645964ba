package dto

import "github.com/shopspring/decimal"

type ItemCompraRequest struct {
	ProductoID    string          `json:"producto_id"    validate:"required,uuid"`
	Cantidad      int             `json:"cantidad"       validate:"required,min=1"`
	CostoUnitario decimal.Decimal `json:"costo_unitario" validate:"required"`
}

type RegistrarCompraRequest struct {
	ProveedorID string              `json:"proveedor_id" validate:"required,uuid"`
	Fecha       string              `json:"fecha"        validate:"omitempty,datetime=2006-01-02"`
	Factura     *string             `json:"factura"`
	Items       []ItemCompraRequest `json:"items" validate:"required,min=1,dive"`
	// AplicarIVA suma el 19% sobre el subtotal.
	AplicarIVA bool `json:"aplicar_iva"`
	Pagada     bool `json:"pagada"`
}

type CompraFilter struct {
	ProveedorID string `form:"proveedor_id" validate:"omitempty,uuid"`
	Desde       string `form:"desde"`
	Hasta       string `form:"hasta"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ItemCompraResponse struct {
	ProductoID    string          `json:"producto_id"`
	Nombre        string          `json:"nombre"`
	Cantidad      int             `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type CompraResponse struct {
	ID        string               `json:"id"`
	Numero    string               `json:"numero"`
	Proveedor string               `json:"proveedor"`
	Fecha     string               `json:"fecha"`
	Factura   *string              `json:"factura,omitempty"`
	Items     []ItemCompraResponse `json:"items"`
	Subtotal  decimal.Decimal      `json:"subtotal"`
	Impuesto  decimal.Decimal      `json:"impuesto"`
	Total     decimal.Decimal      `json:"total"`
	Pagada    bool                 `json:"pagada"`
	CreatedAt string               `json:"created_at"`
}

type CompraListResponse struct {
	Data  []CompraResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ─── Proveedores ────────────────────────────────────────────────────────────

type CrearProveedorRequest struct {
	RazonSocial string  `json:"razon_social" validate:"required"`
	NIT         *string `json:"nit"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Direccion   *string `json:"direccion"`
}

type ActualizarProveedorRequest struct {
	RazonSocial *string `json:"razon_social"`
	NIT         *string `json:"nit"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Direccion   *string `json:"direccion"`
}

type ProveedorResponse struct {
	ID          string  `json:"id"`
	RazonSocial string  `json:"razon_social"`
	NIT         *string `json:"nit,omitempty"`
	Telefono    *string `json:"telefono,omitempty"`
	Email       *string `json:"email,omitempty"`
	Direccion   *string `json:"direccion,omitempty"`
	Activo      bool    `json:"activo"`
}
