package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoriaViagem is the expense category deducted before commissions in
// the cycle closing report.
const CategoriaViagem = "Viagem"

// Despesa is a route expense charged against a billing cycle. Expenses are
// immutable inputs to the cycle summary; corrections create new entries.
type Despesa struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RotaID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CicloID   uuid.UUID `gorm:"type:uuid;not null;index:idx_despesas_rota_ciclo"`
	Categoria string    `gorm:"not null"` // "Viagem" | "Manutenção" | "Combustível" | ...
	Descricao string    `gorm:"not null"`
	Valor     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time

	Rota *Rota `gorm:"foreignKey:RotaID"`
}

func (Despesa) TableName() string { return "despesas" }
