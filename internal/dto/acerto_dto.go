package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// MesaAcertoRequest is one table line of a settlement being saved. The
// initial counter comes pre-seeded from GET /v1/acertos/preparar but is
// editable, so it travels back in the request.
type MesaAcertoRequest struct {
	MesaID           string `json:"mesa_id"         validate:"required,uuid"`
	RelogioInicial   int    `json:"relogio_inicial" validate:"min=0"`
	RelogioFinal     int    `json:"relogio_final"   validate:"min=0"`
	ComDefeito       bool   `json:"com_defeito"`
	RelogioReiniciou bool   `json:"relogio_reiniciou"`
	// FotoRelogio: opaque reference to the counter photo; required when
	// com_defeito or relogio_reiniciou is set.
	FotoRelogio *string `json:"foto_relogio" validate:"omitempty,min=1"`
}

type SalvarAcertoRequest struct {
	ClienteID string `json:"cliente_id" validate:"required,uuid"`
	// AcertoID set = edit mode: amends the existing settlement in place.
	AcertoID *string             `json:"acerto_id" validate:"omitempty,uuid"`
	Mesas    []MesaAcertoRequest `json:"mesas"     validate:"required,min=1,dive"`
	Desconto decimal.Decimal     `json:"desconto"`
	// MetodosPagamento maps free-form payment labels to amounts; labels are
	// normalized into canonical buckets only at report time.
	MetodosPagamento      map[string]decimal.Decimal `json:"metodos_pagamento" validate:"required"`
	Observacoes           *string                    `json:"observacoes"`
	TermosConfissaoDivida *string                    `json:"termos_confissao_divida"`
	Representante         *string                    `json:"representante"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MesaAcertoResponse struct {
	MesaID           string          `json:"mesa_id"`
	MesaNumero       string          `json:"mesa_numero,omitempty"`
	RelogioInicial   int             `json:"relogio_inicial"`
	RelogioFinal     int             `json:"relogio_final"`
	FichasJogadas    int             `json:"fichas_jogadas"`
	ValorFixo        decimal.Decimal `json:"valor_fixo"`
	ComissaoFicha    decimal.Decimal `json:"comissao_ficha"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ComDefeito       bool            `json:"com_defeito"`
	RelogioReiniciou bool            `json:"relogio_reiniciou"`
	FotoRelogio      *string         `json:"foto_relogio,omitempty"`
}

type AcertoResponse struct {
	ID               string               `json:"id"`
	ClienteID        string               `json:"cliente_id"`
	ClienteNome      string               `json:"cliente_nome,omitempty"`
	RotaID           string               `json:"rota_id"`
	CicloID          string               `json:"ciclo_id"`
	TotalMesas       int                  `json:"total_mesas"`
	Mesas            []MesaAcertoResponse `json:"mesas"`
	DebitoAnterior   decimal.Decimal      `json:"debito_anterior"`
	ValorTotal       decimal.Decimal      `json:"valor_total"`
	Desconto         decimal.Decimal      `json:"desconto"`
	ValorComDesconto decimal.Decimal      `json:"valor_com_desconto"`
	ValorRecebido    decimal.Decimal      `json:"valor_recebido"`
	DebitoAtual      decimal.Decimal      `json:"debito_atual"`
	MetodosPagamento map[string]decimal.Decimal `json:"metodos_pagamento"`
	Status           string               `json:"status"`
	SyncStatus       string               `json:"sync_status"`
	Observacoes      *string              `json:"observacoes,omitempty"`
	DataAcerto       string               `json:"data_acerto"`
}

// AcertoListItem is the compact row for history listings.
type AcertoListItem struct {
	ID            string          `json:"id"`
	ClienteID     string          `json:"cliente_id"`
	CicloID       string          `json:"ciclo_id"`
	TotalMesas    int             `json:"total_mesas"`
	ValorTotal    decimal.Decimal `json:"valor_total"`
	ValorRecebido decimal.Decimal `json:"valor_recebido"`
	DebitoAtual   decimal.Decimal `json:"debito_atual"`
	Status        string          `json:"status"`
	DataAcerto    string          `json:"data_acerto"`
}

// ─── Preparation ─────────────────────────────────────────────────────────────

// MesaPreparadaResponse carries the seeded initial counter for one of the
// client's tables before the visit's readings are entered.
type MesaPreparadaResponse struct {
	MesaID         string          `json:"mesa_id"`
	Numero         string          `json:"numero"`
	ValorFixo      decimal.Decimal `json:"valor_fixo"`
	RelogioInicial int             `json:"relogio_inicial"`
}

// PreparacaoAcertoResponse is everything the representative needs on
// arrival: the open cycle, the client's carried debt and commission rate,
// and each table with its seeded initial counter.
type PreparacaoAcertoResponse struct {
	ClienteID      string                  `json:"cliente_id"`
	ClienteNome    string                  `json:"cliente_nome"`
	CicloID        string                  `json:"ciclo_id"`
	CicloTitulo    string                  `json:"ciclo_titulo"`
	DebitoAnterior decimal.Decimal         `json:"debito_anterior"`
	ComissaoFicha  decimal.Decimal         `json:"comissao_ficha"`
	Mesas          []MesaPreparadaResponse `json:"mesas"`
}
