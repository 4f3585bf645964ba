package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Empleado is a staff record used by scheduling, attendance and payroll.
type Empleado struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"index;not null"`
	Cargo        string    `gorm:"not null"`
	Telefono     string
	Email        string
	SalarioBase  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FechaIngreso time.Time
	FotoID       *string
	Activo       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Attendance states counted by the employee performance report.
const (
	AsistenciaPresente = "presente"
	AsistenciaAusente  = "ausente"
	AsistenciaTarde    = "tarde"
	AsistenciaPermiso  = "permiso"
)

// Asistencia is one attendance mark per employee per day.
type Asistencia struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpleadoID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_asistencia_empleado_fecha,unique"`
	Fecha       string     `gorm:"type:varchar(10);not null;index:idx_asistencia_empleado_fecha,unique"` // YYYY-MM-DD
	Estado      string     `gorm:"type:varchar(20);not null"`
	HoraEntrada *time.Time
	HoraSalida  *time.Time
	Notas       *string
	CreatedAt   time.Time

	Empleado *Empleado `gorm:"foreignKey:EmpleadoID"`
}

func (Asistencia) TableName() string { return "asistencias" }

// BancoHoras is the append-only compensatory-hours ledger: positive entries
// accrue hours (overtime), negative entries consume them. The employee's
// balance is always derived by summing, never cached.
type BancoHoras struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpleadoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Horas      decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	Motivo     string          `gorm:"not null"`
	Fecha      string          `gorm:"type:varchar(10);not null"` // YYYY-MM-DD
	CreadoPor  string
	CreatedAt  time.Time

	Empleado *Empleado `gorm:"foreignKey:EmpleadoID"`
}

func (BancoHoras) TableName() string { return "banco_horas" }
