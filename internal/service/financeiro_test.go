package service_test

import (
	"testing"

	"gestaomesas/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalcularSubtotalMesa_ValorFixo(t *testing.T) {
	// A flat-fee table bills its fixed amount and reports zero plays,
	// whatever the counter readings say.
	fichas, subtotal := service.CalcularSubtotalMesa(service.MesaCalculo{
		RelogioInicial: 100,
		RelogioFinal:   180,
		ValorFixo:      decimal.NewFromInt(50),
	}, decimal.NewFromFloat(0.75))

	assert.Equal(t, 0, fichas)
	assert.Equal(t, "50", subtotal.String())
}

func TestCalcularSubtotalMesa_PorFichas(t *testing.T) {
	fichas, subtotal := service.CalcularSubtotalMesa(service.MesaCalculo{
		RelogioInicial: 100,
		RelogioFinal:   180,
	}, decimal.NewFromFloat(0.75))

	assert.Equal(t, 80, fichas)
	assert.Equal(t, "60", subtotal.String())
}

func TestCalcularFichasJogadas_NuncaNegativo(t *testing.T) {
	fichas := service.CalcularFichasJogadas(service.MesaCalculo{
		RelogioInicial:   500,
		RelogioFinal:     20,
		RelogioReiniciou: true,
	})
	assert.Equal(t, 0, fichas)
}

func TestCalcularValorTotalMesas(t *testing.T) {
	mesas := []service.MesaCalculo{
		{RelogioInicial: 100, RelogioFinal: 180}, // 80 fichas × 0.75 = 60
		{ValorFixo: decimal.NewFromInt(50)},      // flat 50
		{RelogioInicial: 30, RelogioFinal: 30},   // 0
	}
	total := service.CalcularValorTotalMesas(mesas, decimal.NewFromFloat(0.75))
	assert.Equal(t, "110", total.String())
}

func TestCalcularValorComDesconto_PisoZero(t *testing.T) {
	v := service.CalcularValorComDesconto(decimal.NewFromInt(40), decimal.NewFromInt(60))
	assert.True(t, v.IsZero())

	v = service.CalcularValorComDesconto(decimal.NewFromInt(60), decimal.NewFromInt(40))
	assert.Equal(t, "20", v.String())
}

func TestCalcularDebitoAtual(t *testing.T) {
	// anterior=20, total=60, desconto=5, recebido=50 → 25
	d := service.CalcularDebitoAtual(
		decimal.NewFromInt(20),
		decimal.NewFromInt(60),
		decimal.NewFromInt(5),
		decimal.NewFromInt(50),
	)
	assert.Equal(t, "25", d.String())
}

func TestCalcularDebitoAtual_CreditoNegativo(t *testing.T) {
	// Overpayment goes negative — the ledger never clamps.
	d := service.CalcularDebitoAtual(
		decimal.Zero,
		decimal.NewFromInt(60),
		decimal.Zero,
		decimal.NewFromInt(100),
	)
	assert.Equal(t, "-40", d.String())
}

func TestCalcularValorRecebido(t *testing.T) {
	total := service.CalcularValorRecebido(map[string]decimal.Decimal{
		"PIX":      decimal.NewFromInt(70),
		"Dinheiro": decimal.NewFromInt(30),
	})
	assert.Equal(t, "100", total.String())

	assert.True(t, service.CalcularValorRecebido(nil).IsZero())
}
