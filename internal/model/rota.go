package model

import (
	"time"

	"github.com/google/uuid"
)

// Rota groups clients visited in sequence by a field representative.
// Each route owns at most one billing cycle in progress at a time.
type Rota struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"uniqueIndex;not null"`
	Descricao *string
	Ativo     bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Rota) TableName() string { return "rotas" }
