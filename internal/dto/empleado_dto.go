package dto

import "github.com/shopspring/decimal"

// ─── Empleados ──────────────────────────────────────────────────────────────

type CrearEmpleadoRequest struct {
	Nombre       string          `json:"nombre" validate:"required"`
	Cargo        string          `json:"cargo"  validate:"required"`
	Telefono     string          `json:"telefono"`
	Email        string          `json:"email" validate:"omitempty,email"`
	SalarioBase  decimal.Decimal `json:"salario_base" validate:"min=0"`
	FechaIngreso string          `json:"fecha_ingreso" validate:"omitempty,datetime=2006-01-02"`
	FotoID       *string         `json:"foto_id"`
}

type ActualizarEmpleadoRequest struct {
	Nombre      *string          `json:"nombre"`
	Cargo       *string          `json:"cargo"`
	Telefono    *string          `json:"telefono"`
	Email       *string          `json:"email" validate:"omitempty,email"`
	SalarioBase *decimal.Decimal `json:"salario_base"`
	FotoID      *string          `json:"foto_id"`
}

type EmpleadoResponse struct {
	ID           string          `json:"id"`
	Nombre       string          `json:"nombre"`
	Cargo        string          `json:"cargo"`
	Telefono     string          `json:"telefono,omitempty"`
	Email        string          `json:"email,omitempty"`
	SalarioBase  decimal.Decimal `json:"salario_base"`
	FechaIngreso string          `json:"fecha_ingreso,omitempty"`
	FotoURL      string          `json:"foto_url,omitempty"`
	Activo       bool            `json:"activo"`
}

// ─── Asistencia ─────────────────────────────────────────────────────────────

type RegistrarAsistenciaRequest struct {
	EmpleadoID  string  `json:"empleado_id" validate:"required,uuid"`
	Fecha       string  `json:"fecha"       validate:"required,datetime=2006-01-02"`
	Estado      string  `json:"estado"      validate:"required,oneof=presente ausente tarde permiso"`
	HoraEntrada *string `json:"hora_entrada" validate:"omitempty,datetime=15:04"`
	HoraSalida  *string `json:"hora_salida"  validate:"omitempty,datetime=15:04"`
	Notas       *string `json:"notas"`
}

type AsistenciaResponse struct {
	ID          string  `json:"id"`
	EmpleadoID  string  `json:"empleado_id"`
	Empleado    string  `json:"empleado,omitempty"`
	Fecha       string  `json:"fecha"`
	Estado      string  `json:"estado"`
	HoraEntrada *string `json:"hora_entrada,omitempty"`
	HoraSalida  *string `json:"hora_salida,omitempty"`
	Notas       *string `json:"notas,omitempty"`
}

// ─── Banco de horas ─────────────────────────────────────────────────────────

// RegistrarHorasRequest appends a signed entry to the hour bank:
// positive = horas acumuladas, negative = horas compensadas.
type RegistrarHorasRequest struct {
	EmpleadoID string          `json:"empleado_id" validate:"required,uuid"`
	Horas      decimal.Decimal `json:"horas"       validate:"required"`
	Motivo     string          `json:"motivo"      validate:"required,min=3"`
	Fecha      string          `json:"fecha"       validate:"required,datetime=2006-01-02"`
}

type BancoHorasEntrada struct {
	ID     string          `json:"id"`
	Horas  decimal.Decimal `json:"horas"`
	Motivo string          `json:"motivo"`
	Fecha  string          `json:"fecha"`
}

type BancoHorasResponse struct {
	EmpleadoID string              `json:"empleado_id"`
	Saldo      decimal.Decimal     `json:"saldo"`
	Entradas   []BancoHorasEntrada `json:"entradas"`
}
