package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cycle lifecycle states.
const (
	CicloEmAndamento = "em_andamento"
	CicloFinalizado  = "finalizado"
	CicloCancelado   = "cancelado"
)

// Ciclo is a route's periodic billing window ("3º acerto 2026").
// At most one Ciclo per Rota may be em_andamento — enforced on creation.
//
// The rollup fields (ClientesAcertados, ValorTotalAcertado,
// ValorTotalDespesas, LucroLiquido) are recomputed from the full set of the
// cycle's settlements and expenses every time a settlement is saved. They
// are never incremented in place; cached counters drift.
type Ciclo struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RotaID      uuid.UUID `gorm:"type:uuid;not null;index"`
	NumeroCiclo int       `gorm:"not null"`
	Ano         int       `gorm:"not null;index"`
	Status      string    `gorm:"type:varchar(20);not null;default:'em_andamento'"`

	ClientesAcertados  int             `gorm:"not null;default:0"`
	ValorTotalAcertado decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ValorTotalDespesas decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	LucroLiquido       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Observacoes *string
	DataInicio  time.Time
	DataFim     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Rota *Rota `gorm:"foreignKey:RotaID"`
}

func (Ciclo) TableName() string { return "ciclos" }

// EmAndamento reports whether the cycle still accepts settlements.
func (c *Ciclo) EmAndamento() bool { return c.Status == CicloEmAndamento }

// Titulo is the human label shown on reports ("3º Acerto 2026").
func (c *Ciclo) Titulo() string {
	return fmt.Sprintf("%dº Acerto %d", c.NumeroCiclo, c.Ano)
}
