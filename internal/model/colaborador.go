package model

import (
	"time"

	"github.com/google/uuid"
)

// Colaborador stores system users with role-based access.
// Rol: "representante" | "supervisor" | "administrador"
type Colaborador struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nome         string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	// RotaID restricts a field representative to a single route; nil = all routes
	RotaID    *uuid.UUID `gorm:"type:uuid"`
	Ativo     bool       `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Colaborador) TableName() string { return "colaboradores" }
