package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a catalog/inventory item (insumos de limpieza y articulos de venta).
// StockActual is a cached value: it is mutated exclusively through the
// movimiento de stock pathway, never written directly by CRUD updates.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	Categoria   string          `gorm:"not null;default:'general'"`
	PrecioCosto decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// PrecioPromocional applies only while EnPromocion is true.
	PrecioPromocional *decimal.Decimal `gorm:"type:decimal(12,2)"`
	EnPromocion       bool             `gorm:"not null;default:false"`
	StockActual       int              `gorm:"not null;default:0"`
	StockMinimo       int              `gorm:"not null;default:5"`
	// Visible controls storefront listing; Activo is the soft-delete flag.
	Visible bool `gorm:"not null;default:true"`
	Activo  bool `gorm:"not null;default:true"`
	FotoID  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PrecioVigente returns the promotional price when the promotion is active.
func (p *Producto) PrecioVigente() decimal.Decimal {
	if p.EnPromocion && p.PrecioPromocional != nil {
		return *p.PrecioPromocional
	}
	return p.PrecioVenta
}
