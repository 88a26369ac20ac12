package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarClienteRequest struct {
	RotaID        string          `json:"rota_id"        validate:"required,uuid"`
	Nome          string          `json:"nome"           validate:"required,min=2,max=150"`
	Endereco      *string         `json:"endereco"`
	Telefone      *string         `json:"telefone"`
	ComissaoFicha decimal.Decimal `json:"comissao_ficha" validate:"required"`
}

type AtualizarClienteRequest struct {
	Nome          string           `json:"nome"           validate:"omitempty,min=2,max=150"`
	Endereco      *string          `json:"endereco"`
	Telefone      *string          `json:"telefone"`
	ComissaoFicha *decimal.Decimal `json:"comissao_ficha"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID            string          `json:"id"`
	RotaID        string          `json:"rota_id"`
	Nome          string          `json:"nome"`
	Endereco      *string         `json:"endereco,omitempty"`
	Telefone      *string         `json:"telefone,omitempty"`
	ComissaoFicha decimal.Decimal `json:"comissao_ficha"`
	DebitoAtual   decimal.Decimal `json:"debito_atual"`
	TotalMesas    int             `json:"total_mesas"`
	Ativo         bool            `json:"ativo"`
}
