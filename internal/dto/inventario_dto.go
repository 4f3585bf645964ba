package dto

// RegistrarMovimientoRequest is the manual-adjustment entry point
// (POST /v1/inventario/movimientos). Compras, ventas, pedidos y OTs register
// their movements through the service layer, not this endpoint.
type RegistrarMovimientoRequest struct {
	ProductoID   string  `json:"producto_id" validate:"required,uuid"`
	Tipo         string  `json:"tipo"        validate:"required,oneof=compra venta entrada salida"`
	Cantidad     int     `json:"cantidad"    validate:"required,min=1"`
	Motivo       string  `json:"motivo"      validate:"required,min=3"`
	ReferenciaID *string `json:"referencia_id" validate:"omitempty,uuid"`
}

type MovimientoFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	Tipo       string `form:"tipo"        validate:"omitempty,oneof=compra venta entrada salida"`
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovimientoResponse struct {
	ID            string  `json:"id"`
	ProductoID    string  `json:"producto_id"`
	Producto      string  `json:"producto,omitempty"`
	Tipo          string  `json:"tipo"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stock_anterior"`
	StockNuevo    int     `json:"stock_nuevo"`
	Motivo        string  `json:"motivo"`
	ReferenciaID  *string `json:"referencia_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

type MovimientoListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

type AlertaStockResponse struct {
	ProductoID  string `json:"producto_id"`
	Nombre      string `json:"nombre"`
	StockActual int    `json:"stock_actual"`
	StockMinimo int    `json:"stock_minimo"`
}

// DriftStock is one ledger-vs-cache discrepancy found by the reconciliation.
type DriftStock struct {
	ProductoID  string `json:"producto_id"`
	Nombre      string `json:"nombre"`
	StockCache  int    `json:"stock_cache"`
	StockLedger int    `json:"stock_ledger"`
	Diferencia  int    `json:"diferencia"`
}

type ReconciliacionResponse struct {
	ProductosRevisados int          `json:"productos_revisados"`
	Drift              []DriftStock `json:"drift"`
	Corregido          bool         `json:"corregido"`
}
