package service

// pagamentos.go — normalization and aggregation of free-form payment
// method labels into the four canonical buckets used by cycle reports.

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Canonical payment method buckets. These exact strings are persisted in
// reports and must not change.
const (
	MetodoPix      = "PIX"
	MetodoCartao   = "Cartão"
	MetodoCheque   = "Cheque"
	MetodoDinheiro = "Dinheiro"
)

// NormalizarMetodoPagamento maps any payment label onto exactly one
// canonical bucket. Matching is case-insensitive substring first
// ("Cartão Débito" and "Cartão Crédito" both collapse into "Cartão"),
// then a first-letter heuristic, with "Dinheiro" as the final fallback.
// The mapping is total and idempotent: canonical names map to themselves.
func NormalizarMetodoPagamento(metodo string) string {
	m := strings.ToUpper(strings.TrimSpace(metodo))
	switch {
	case strings.Contains(m, "PIX"):
		return MetodoPix
	case strings.Contains(m, "CART"):
		return MetodoCartao
	case strings.Contains(m, "CHEQUE"):
		return MetodoCheque
	case strings.Contains(m, "DINHEIRO"), strings.Contains(m, "ESPECIE"), strings.Contains(m, "ESPÉCIE"):
		return MetodoDinheiro
	}
	// Unrecognized label: nearest bucket by first letters.
	switch {
	case strings.HasPrefix(m, "CH"):
		return MetodoCheque
	case strings.HasPrefix(m, "P"):
		return MetodoPix
	case strings.HasPrefix(m, "C"):
		return MetodoCartao
	default:
		return MetodoDinheiro
	}
}

// AgregarPagamentos folds one label → amount map into the per-bucket
// running totals. Safe to call repeatedly across any number of
// settlements; pass the same totals map to accumulate.
func AgregarPagamentos(totais map[string]decimal.Decimal, metodos map[string]decimal.Decimal) {
	for metodo, valor := range metodos {
		bucket := NormalizarMetodoPagamento(metodo)
		totais[bucket] = totais[bucket].Add(valor)
	}
}

// NovosTotaisPorMetodo returns a bucket map with every canonical method
// zeroed, so report consumers never hit missing keys.
func NovosTotaisPorMetodo() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		MetodoPix:      decimal.Zero,
		MetodoCartao:   decimal.Zero,
		MetodoCheque:   decimal.Zero,
		MetodoDinheiro: decimal.Zero,
	}
}

// DecodificarMetodosPagamento parses the JSON payment map persisted on a
// settlement. A nil or empty column yields an empty map, not an error.
func DecodificarMetodosPagamento(raw *string) (map[string]decimal.Decimal, error) {
	if raw == nil || *raw == "" {
		return map[string]decimal.Decimal{}, nil
	}
	var metodos map[string]decimal.Decimal
	if err := json.Unmarshal([]byte(*raw), &metodos); err != nil {
		return nil, err
	}
	return metodos, nil
}

// CodificarMetodosPagamento serializes the label → amount map for the
// metodos_pagamento_json column.
func CodificarMetodosPagamento(metodos map[string]decimal.Decimal) (string, error) {
	data, err := json.Marshal(metodos)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
