package dto

import "github.com/shopspring/decimal"

type RegistrarDespesaRequest struct {
	RotaID    string          `json:"rota_id"   validate:"required,uuid"`
	Categoria string          `json:"categoria" validate:"required,min=2,max=50"`
	Descricao string          `json:"descricao" validate:"required,min=2,max=255"`
	Valor     decimal.Decimal `json:"valor"     validate:"required"`
}

type DespesaResponse struct {
	ID        string          `json:"id"`
	RotaID    string          `json:"rota_id"`
	CicloID   string          `json:"ciclo_id"`
	Categoria string          `json:"categoria"`
	Descricao string          `json:"descricao"`
	Valor     decimal.Decimal `json:"valor"`
	CreatedAt string          `json:"created_at"`
}
