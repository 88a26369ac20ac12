package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mesa is a rented billiards table. ClienteID nil means the table sits in
// the depot. Billing mode: ValorFixo > 0 charges a flat monthly fee,
// otherwise plays read from the mechanical counter are billed at the
// client's per-play commission.
type Mesa struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero    string     `gorm:"uniqueIndex;not null"`
	ClienteID *uuid.UUID `gorm:"type:uuid;index"`
	ValorFixo decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	// RelogioAtual is the last finalized counter reading; the next
	// settlement seeds its initial reading from it.
	RelogioAtual int  `gorm:"not null;default:0"`
	Ativa        bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}

func (Mesa) TableName() string { return "mesas" }

// CobraValorFixo reports whether the table bills a flat fee instead of plays.
func (m *Mesa) CobraValorFixo() bool { return m.ValorFixo.IsPositive() }
