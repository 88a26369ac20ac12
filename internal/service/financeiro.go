package service

// financeiro.go — pure settlement arithmetic. No I/O, no state; every
// function here is safe to call from any goroutine and cheap enough to be
// recomputed instead of cached.

import (
	"github.com/shopspring/decimal"
)

// MesaCalculo carries the per-table inputs for one settlement line.
type MesaCalculo struct {
	RelogioInicial   int
	RelogioFinal     int
	ValorFixo        decimal.Decimal
	ComDefeito       bool
	RelogioReiniciou bool
}

// CalcularFichasJogadas returns the plays billed for a counter window:
// max(0, final − inicial). Defect and reset flags do not change the
// formula — they only relax the final ≥ inicial validation.
func CalcularFichasJogadas(m MesaCalculo) int {
	fichas := m.RelogioFinal - m.RelogioInicial
	if fichas < 0 {
		return 0
	}
	return fichas
}

// CalcularSubtotalMesa converts one table's readings into its billed
// subtotal. Flat-fee tables bill ValorFixo and report zero plays.
func CalcularSubtotalMesa(m MesaCalculo, comissaoFicha decimal.Decimal) (fichas int, subtotal decimal.Decimal) {
	if m.ValorFixo.IsPositive() {
		return 0, m.ValorFixo
	}
	fichas = CalcularFichasJogadas(m)
	return fichas, comissaoFicha.Mul(decimal.NewFromInt(int64(fichas)))
}

// CalcularValorTotalMesas sums the subtotals of every table in the visit.
func CalcularValorTotalMesas(mesas []MesaCalculo, comissaoFicha decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, m := range mesas {
		_, subtotal := CalcularSubtotalMesa(m, comissaoFicha)
		total = total.Add(subtotal)
	}
	return total
}

// CalcularValorComDesconto applies the discount, floored at zero.
func CalcularValorComDesconto(valorTotal, desconto decimal.Decimal) decimal.Decimal {
	v := valorTotal.Sub(desconto)
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// CalcularDebitoAtual carries the client ledger forward:
//
//	débito anterior + valor total − desconto − valor recebido
//
// A negative result means the client overpaid and holds credit; the ledger
// never clamps — presentation layers may.
func CalcularDebitoAtual(debitoAnterior, valorTotal, desconto, valorRecebido decimal.Decimal) decimal.Decimal {
	return debitoAnterior.Add(valorTotal).Sub(desconto).Sub(valorRecebido)
}

// CalcularValorRecebido totals the payment map independently of any
// method normalization, so the two paths can be cross-checked.
func CalcularValorRecebido(metodosPagamento map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, valor := range metodosPagamento {
		total = total.Add(valor)
	}
	return total
}
