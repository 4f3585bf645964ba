package model

import (
	"time"

	"github.com/google/uuid"
)

// Proveedor represents a supplier with commercial data.
type Proveedor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RazonSocial string    `gorm:"not null"`
	NIT         *string   `gorm:"column:nit;uniqueIndex"`
	Telefono    *string
	Email       *string
	Direccion   *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Compras []Compra `gorm:"foreignKey:ProveedorID"`
}

func (Proveedor) TableName() string { return "proveedores" }
