package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SyncPayload is the settlement snapshot replicated to the cloud API after
// finalization. Monetary fields travel as strings to avoid float drift.
type SyncPayload struct {
	AcertoID         string          `json:"acerto_id"`
	ClienteID        string          `json:"cliente_id"`
	RotaID           string          `json:"rota_id"`
	CicloID          string          `json:"ciclo_id"`
	TotalMesas       int             `json:"total_mesas"`
	DebitoAnterior   string          `json:"debito_anterior"`
	ValorTotal       string          `json:"valor_total"`
	Desconto         string          `json:"desconto"`
	ValorRecebido    string          `json:"valor_recebido"`
	DebitoAtual      string          `json:"debito_atual"`
	MetodosPagamento json.RawMessage `json:"metodos_pagamento,omitempty"`
	DataAcerto       string          `json:"data_acerto"`
}

// SyncResponse is returned by the cloud API.
type SyncResponse struct {
	Status   string `json:"status"` // "ok" | "rejeitado"
	Mensagem string `json:"mensagem,omitempty"`
}

// SyncClient replicates finalized settlements to the cloud API over HTTP.
// Failures are retried by the worker and the retry cron; the local database
// remains the source of truth either way.
type SyncClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewSyncClient(baseURL, token string) *SyncClient {
	return &SyncClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// EnviarAcerto sends a POST to the cloud API and returns its verdict.
func (c *SyncClient) EnviarAcerto(ctx context.Context, payload SyncPayload) (*SyncResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("sync: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/acertos", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sync: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sync: api unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("sync: api returned %d", resp.StatusCode)
	}

	var result SyncResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("sync: decode response: %w", err)
	}
	return &result, nil
}
