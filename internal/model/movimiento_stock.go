package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement types. compra and entrada increase stock, venta and salida decrease it.
const (
	MovCompra  = "compra"
	MovVenta   = "venta"
	MovEntrada = "entrada"
	MovSalida  = "salida"
)

// MovimientoStock registra cada cambio de stock en un producto.
// Append-only: reversals create inverse entries, rows are never edited.
type MovimientoStock struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo       string    `gorm:"not null"` // "compra" | "venta" | "entrada" | "salida"
	// Cantidad is always positive; the sign of the stock delta derives from Tipo.
	Cantidad      int `gorm:"not null"`
	StockAnterior int `gorm:"not null"`
	StockNuevo    int `gorm:"not null"`
	Motivo        string
	// ReferenciaID links to the originating pedido, compra, venta u OT.
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }

// Delta returns the signed stock change of the movement.
func (m *MovimientoStock) Delta() int {
	if m.Tipo == MovCompra || m.Tipo == MovEntrada {
		return m.Cantidad
	}
	return -m.Cantidad
}

// DeltaPorTipo computes the signed stock change for a prospective movement.
func DeltaPorTipo(tipo string, cantidad int) int {
	if tipo == MovCompra || tipo == MovEntrada {
		return cantidad
	}
	return -cantidad
}

// TipoMovimientoValido reports whether tipo is one of the four ledger types.
func TipoMovimientoValido(tipo string) bool {
	switch tipo {
	case MovCompra, MovVenta, MovEntrada, MovSalida:
		return true
	}
	return false
}
