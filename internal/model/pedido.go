package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pedido lifecycle states. Terminal: completado, cancelado.
const (
	PedidoCreado     = "creado"
	PedidoConfirmado = "confirmado"
	PedidoPagado     = "pagado"
	PedidoEnviado    = "enviado"
	PedidoCompletado = "completado"
	PedidoCancelado  = "cancelado"
)

// Pedido is a catalog order moving through a fixed lifecycle from creation to
// completion or cancellation. Pedidos are never hard-deleted: cancellation is
// a state, not a deletion.
type Pedido struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// Numero: "PED-YYYYMMDD-NNN", sequential per calendar day (server local time).
	Numero string `gorm:"uniqueIndex;not null"`

	ClienteID       *uuid.UUID `gorm:"type:uuid;index"`
	ClienteNombre   string     `gorm:"not null"`
	ClienteTelefono string
	ClienteEmail    string

	Items []PedidoItem `gorm:"foreignKey:PedidoID"`

	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Impuesto  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Estado string `gorm:"type:varchar(20);not null;default:'creado';index"`
	// Invariant after every mutation: SaldoPendiente = Total - MontoPagado.
	// Overpayment is accepted: the saldo goes negative (store-credit modeling).
	MontoPagado    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SaldoPendiente decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	// StockDescontado guards the stock fan-out: stock is decremented once the
	// first time the pedido reaches confirmado-or-later, and restored once on
	// cancelacion/correccion. Repeated forward transitions never double-decrement.
	StockDescontado bool `gorm:"not null;default:false"`

	CreadoPor     string
	ModificadoPor string

	FechaConfirmacion *time.Time
	FechaPago         *time.Time
	FechaEnvio        *time.Time
	FechaCompletado   *time.Time
	FechaCancelacion  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EsTerminal reports whether the pedido can no longer transition.
func (p *Pedido) EsTerminal() bool {
	return p.Estado == PedidoCompletado || p.Estado == PedidoCancelado
}

// PedidoItem is one order line. Product name and price are denormalized at
// checkout time so later catalog edits do not rewrite order history.
type PedidoItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Nombre         string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// ContadorPedido is the atomic per-day sequence backing pedido numbering.
// A single upsert-returning statement allocates the next NNN, removing the
// read-count-then-format race of naive implementations.
type ContadorPedido struct {
	Fecha  string `gorm:"primaryKey;type:varchar(8)"` // YYYYMMDD
	Ultimo int    `gorm:"not null"`
}

func (ContadorPedido) TableName() string { return "contadores_pedido" }
