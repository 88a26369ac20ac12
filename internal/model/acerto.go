package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settlement states.
const (
	AcertoPendente   = "pendente"
	AcertoFinalizado = "finalizado"
	AcertoCancelado  = "cancelado"
)

// Sync states for the cloud replication queue.
const (
	SyncPendente     = "pendente"
	SyncSincronizado = "sincronizado"
	SyncErro         = "erro"
)

// Acerto is one billing event for one client's tables at one visit.
// A client may have at most one finalizado Acerto per Ciclo. Amending a
// settlement mutates this same row (and regenerates its Mesas set) instead
// of creating a duplicate.
//
// Invariant held by every persisted row:
//
//	DebitoAtual = DebitoAnterior + ValorTotal − Desconto − ValorRecebido
type Acerto struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	RotaID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	CicloID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_acertos_rota_ciclo"`
	ColaboradorID *uuid.UUID `gorm:"type:uuid"`

	TotalMesas      int             `gorm:"not null;default:0"`
	DebitoAnterior  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ValorTotal      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Desconto        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ValorComDesconto decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ValorRecebido   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DebitoAtual     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Status string `gorm:"type:varchar(20);not null;default:'pendente'"`

	// MetodosPagamentoJSON stores the raw label → amount map as JSON text.
	// Labels are free-form; canonical grouping happens at read time.
	MetodosPagamentoJSON *string `gorm:"column:metodos_pagamento_json"`

	Observacoes *string
	// TermosConfissaoDivida holds the prior-debt confession wording, when
	// the client signed one during the visit.
	TermosConfissaoDivida *string
	Representante         *string

	// Sync fields — used by the retry cron to re-attempt cloud replication.
	SyncStatus  string     `gorm:"type:varchar(20);not null;default:'pendente'"`
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string

	DataAcerto      time.Time
	DataFinalizacao *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Cliente *Cliente     `gorm:"foreignKey:ClienteID"`
	Mesas   []AcertoMesa `gorm:"foreignKey:AcertoID"`
}

func (Acerto) TableName() string { return "acertos" }

// AcertoMesa is one table line inside a settlement: the counter window read
// during the visit and the subtotal it produced. Lines are owned by their
// Acerto and are replaced wholesale when the settlement is amended.
type AcertoMesa struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AcertoID uuid.UUID `gorm:"type:uuid;not null;index"`
	MesaID   uuid.UUID `gorm:"type:uuid;not null;index"`

	RelogioInicial int `gorm:"not null"`
	RelogioFinal   int `gorm:"not null"`
	FichasJogadas  int `gorm:"not null;default:0"`

	ValorFixo     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	ComissaoFicha decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	ComDefeito       bool `gorm:"not null;default:false"`
	RelogioReiniciou bool `gorm:"not null;default:false"`
	// FotoRelogio is an opaque reference to the counter photo backing a
	// defective/reset reading; storage lives outside this service.
	FotoRelogio *string

	CreatedAt time.Time

	Mesa *Mesa `gorm:"foreignKey:MesaID"`
}

func (AcertoMesa) TableName() string { return "acerto_mesas" }
