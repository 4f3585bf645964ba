package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compra is a supplier-side stock acquisition. Registering one fans out a
// "compra" movement per line item and overwrites each product's precio_costo
// with the line's unit cost (last-write-wins, no weighted average).
type Compra struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// Numero: "C-<factura>" or "C-<unix-millis>" when no invoice reference.
	Numero      string    `gorm:"uniqueIndex;not null"`
	ProveedorID uuid.UUID `gorm:"type:uuid;not null;index"`
	Fecha       time.Time `gorm:"not null"`
	Factura     *string

	Items []CompraItem `gorm:"foreignKey:CompraID"`

	Subtotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Impuesto decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Pagada   bool            `gorm:"not null;default:false"`

	CreadoPor string
	CreatedAt time.Time
	UpdatedAt time.Time

	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}

type CompraItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null"`
	Nombre        string          `gorm:"not null"`
	Cantidad      int             `gorm:"not null"`
	CostoUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
