package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cita states.
const (
	CitaProgramada = "programada"
	CitaCompletada = "completada"
	CitaCancelada  = "cancelada"
)

// Cita is a scheduled cleaning appointment. Cliente contact data is
// denormalized so the agenda renders without joins and survives CRM edits.
type Cita struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID       *uuid.UUID `gorm:"type:uuid;index"`
	ClienteNombre   string     `gorm:"not null"`
	ClienteTelefono string
	EmpleadoID      *uuid.UUID `gorm:"type:uuid;index"`
	FechaHora       time.Time  `gorm:"not null;index"`
	DuracionMin     int        `gorm:"not null;default:60"`
	Direccion       string
	Servicio        string          `gorm:"not null"`
	Precio          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Estado          string          `gorm:"type:varchar(20);not null;default:'programada';index"`
	Notas           *string
	CreadoPor       string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Empleado *Empleado `gorm:"foreignKey:EmpleadoID"`
}
