package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cliente is a commercial point (bar, clube, lanchonete) that rents tables.
// DebitoAtual mirrors the resulting debt of the client's last finalized
// settlement; it is rewritten on every finalized Acerto, never incremented.
type Cliente struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RotaID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Nome     string    `gorm:"index;not null"`
	Endereco *string
	Telefone *string
	// ComissaoFicha is the amount billed per play on counter-based tables
	ComissaoFicha decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	DebitoAtual   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Ativo         bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Rota  *Rota  `gorm:"foreignKey:RotaID"`
	Mesas []Mesa `gorm:"foreignKey:ClienteID"`
}

func (Cliente) TableName() string { return "clientes" }
