package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type IniciarCicloRequest struct {
	RotaID      string  `json:"rota_id" validate:"required,uuid"`
	Observacoes *string `json:"observacoes"`
}

type FinalizarCicloRequest struct {
	Observacoes *string `json:"observacoes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CicloResponse struct {
	ID                 string          `json:"id"`
	RotaID             string          `json:"rota_id"`
	NumeroCiclo        int             `json:"numero_ciclo"`
	Ano                int             `json:"ano"`
	Titulo             string          `json:"titulo"`
	Status             string          `json:"status"`
	ClientesAcertados  int             `json:"clientes_acertados"`
	ValorTotalAcertado decimal.Decimal `json:"valor_total_acertado"`
	ValorTotalDespesas decimal.Decimal `json:"valor_total_despesas"`
	LucroLiquido       decimal.Decimal `json:"lucro_liquido"`
	DataInicio         string          `json:"data_inicio"`
	DataFim            *string         `json:"data_fim,omitempty"`
}

// ResumoCicloResponse is the cycle closing report: the per-bucket payment
// totals and the fixed deduction chain down to the cash figure the driver
// hands over.
type ResumoCicloResponse struct {
	CicloID          string          `json:"ciclo_id"`
	Titulo           string          `json:"titulo"`
	TotalAcertos     int             `json:"total_acertos"`
	TotalRecebido    decimal.Decimal `json:"total_recebido"`
	DespesasViagem   decimal.Decimal `json:"despesas_viagem"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ComissaoMotorista decimal.Decimal `json:"comissao_motorista"`
	ComissaoManager  decimal.Decimal `json:"comissao_manager"`
	TotaisPorMetodo  map[string]decimal.Decimal `json:"totais_por_metodo"`
	TotalDespesas    decimal.Decimal `json:"total_despesas"`
	TotalGeral       decimal.Decimal `json:"total_geral"`
}
