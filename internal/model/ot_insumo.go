package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OTInsumo is a supply consumed in a work order (orden de trabajo).
// Creating one issues a "salida" movement, deleting one an "entrada" reversal,
// and a quantity update issues a single differential movement.
type OTInsumo struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// OTReferencia identifies the work order the supply was consumed in.
	OTReferencia  string          `gorm:"not null;index"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad      int             `gorm:"not null"`
	CostoUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notas         *string
	CreadoPor     string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (OTInsumo) TableName() string { return "ot_insumos" }
