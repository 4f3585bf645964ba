package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is a point-of-sale counter sale (insumos vendidos en el local).
// Estado: "completada" | "anulada". Anulación restores stock via inverse
// movements — the row itself is never deleted.
type Venta struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroTicket int       `gorm:"uniqueIndex;not null"`
	UsuarioID    uuid.UUID `gorm:"type:uuid;not null"`

	Items []VentaItem `gorm:"foreignKey:VentaID"`
	Pagos []VentaPago `gorm:"foreignKey:VentaID"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado         string          `gorm:"type:varchar(20);not null;default:'completada'"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}

type VentaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoItem  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

type VentaPago struct {
	ID      uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Metodo  string          `gorm:"type:varchar(20);not null"` // efectivo | tarjeta | transferencia
	Monto   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// ContadorTicket is the atomic POS ticket sequence (single row, id=1).
type ContadorTicket struct {
	ID     int `gorm:"primaryKey"`
	Ultimo int `gorm:"not null"`
}

func (ContadorTicket) TableName() string { return "contadores_ticket" }
