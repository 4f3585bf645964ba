package dto

import "github.com/shopspring/decimal"

// RangoFilter bounds a report to an inclusive date range.
type RangoFilter struct {
	Desde string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
}

// ReporteMeta makes the fetch cap explicit on every report: when Truncado is
// true the source query hit Limite documents and totals under-count.
type ReporteMeta struct {
	Limite   int  `json:"limite"`
	Truncado bool `json:"truncado"`
}

// ─── Ingresos ───────────────────────────────────────────────────────────────

type IngresoMensual struct {
	Mes      string          `json:"mes"` // YYYY-MM
	Citas    decimal.Decimal `json:"citas"`
	Pedidos  decimal.Decimal `json:"pedidos"`
	Total    decimal.Decimal `json:"total"`
	Cantidad int             `json:"cantidad"`
}

type ReporteIngresosResponse struct {
	Meses []IngresoMensual `json:"meses"`
	Total decimal.Decimal  `json:"total"`
	Meta  ReporteMeta      `json:"meta"`
}

// ─── Gastos ─────────────────────────────────────────────────────────────────

type GastoMensual struct {
	Mes   string          `json:"mes"`
	Total decimal.Decimal `json:"total"`
}

type GastoPorCategoria struct {
	Categoria string          `json:"categoria"`
	Total     decimal.Decimal `json:"total"`
	Cantidad  int             `json:"cantidad"`
}

type ReporteGastosResponse struct {
	Meses      []GastoMensual      `json:"meses"`
	Categorias []GastoPorCategoria `json:"categorias"`
	Total      decimal.Decimal     `json:"total"`
	Meta       ReporteMeta         `json:"meta"`
}

// ─── Top clientes ───────────────────────────────────────────────────────────

// TopCliente groups by telefono, falling back to nombre when the phone is
// absent — records sin telefono con el mismo nombre se fusionan (edge case
// conocido de calidad de datos).
type TopCliente struct {
	Clave    string          `json:"clave"`
	Nombre   string          `json:"nombre"`
	Telefono string          `json:"telefono,omitempty"`
	Total    decimal.Decimal `json:"total"`
	Citas    int             `json:"citas"`
}

type ReporteTopClientesResponse struct {
	Clientes []TopCliente `json:"clientes"`
	Meta     ReporteMeta  `json:"meta"`
}

// ─── Desempeño de empleados ────────────────────────────────────────────────

type DesempenoEmpleado struct {
	EmpleadoID      string          `json:"empleado_id"`
	Nombre          string          `json:"nombre"`
	Presentes       int             `json:"presentes"`
	Ausentes        int             `json:"ausentes"`
	Tardes          int             `json:"tardes"`
	Permisos        int             `json:"permisos"`
	CitasCompletadas int            `json:"citas_completadas"`
	IngresoGenerado decimal.Decimal `json:"ingreso_generado"`
}

type ReporteDesempenoResponse struct {
	Empleados []DesempenoEmpleado `json:"empleados"`
	Meta      ReporteMeta         `json:"meta"`
}
