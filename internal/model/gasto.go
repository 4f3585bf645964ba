package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gasto is an operating expense entry with an optional stored receipt.
type Gasto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Categoria   string          `gorm:"not null;index"`
	Descripcion string          `gorm:"not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Fecha       time.Time       `gorm:"not null;index"`
	Proveedor   *string
	// ReciboID references a file in object storage.
	ReciboID  *string
	CreadoPor string
	CreatedAt time.Time
	UpdatedAt time.Time
}
