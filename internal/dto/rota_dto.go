package dto

type CriarRotaRequest struct {
	Nome      string  `json:"nome"      validate:"required,min=2,max=100"`
	Descricao *string `json:"descricao"`
}

type AtualizarRotaRequest struct {
	Nome      string  `json:"nome"      validate:"omitempty,min=2,max=100"`
	Descricao *string `json:"descricao"`
}

type RotaResponse struct {
	ID            string  `json:"id"`
	Nome          string  `json:"nome"`
	Descricao     *string `json:"descricao,omitempty"`
	TotalClientes int     `json:"total_clientes"`
	Ativo         bool    `json:"ativo"`
}
