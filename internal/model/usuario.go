package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario is an application account. Rol: "administrador" | "supervisor" | "operario".
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"not null;default:'operario'"`
	Activo       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
