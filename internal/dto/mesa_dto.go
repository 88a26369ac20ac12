package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarMesaRequest struct {
	Numero string `json:"numero" validate:"required,min=1,max=20"`
	// ClienteID nil registers the table in the depot.
	ClienteID    *string         `json:"cliente_id"     validate:"omitempty,uuid"`
	ValorFixo    decimal.Decimal `json:"valor_fixo"`
	RelogioAtual int             `json:"relogio_atual"  validate:"min=0"`
}

type AtualizarMesaRequest struct {
	ValorFixo    *decimal.Decimal `json:"valor_fixo"`
	RelogioAtual *int             `json:"relogio_atual" validate:"omitempty,min=0"`
}

// TransferirMesaRequest moves the table to another client, or back to the
// depot when cliente_id is null.
type TransferirMesaRequest struct {
	ClienteID *string `json:"cliente_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MesaResponse struct {
	ID           string          `json:"id"`
	Numero       string          `json:"numero"`
	ClienteID    *string         `json:"cliente_id,omitempty"`
	ClienteNome  *string         `json:"cliente_nome,omitempty"`
	ValorFixo    decimal.Decimal `json:"valor_fixo"`
	RelogioAtual int             `json:"relogio_atual"`
	Ativa        bool            `json:"ativa"`
}
