package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a CRM record for a household or business customer.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	Telefono  string    `gorm:"index"`
	Email     string
	Direccion string
	Notas     *string
	FotoID    *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
