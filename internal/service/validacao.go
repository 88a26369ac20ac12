package service

// validacao.go — business validation for settlements. All validators are
// pure predicates over caller-supplied snapshots: they never query the
// database themselves, which keeps them deterministic and unit-testable.

import (
	"errors"
	"fmt"

	"gestaomesas/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sentinel errors — callers branch on these with errors.Is.
var (
	// ErrSemCicloAtivo: the client's route has no cycle em_andamento.
	ErrSemCicloAtivo = errors.New("não há ciclo em andamento para esta rota")

	// ErrAcertoDuplicado: a finalized settlement already exists for this
	// (cliente, ciclo) and the caller is not amending it.
	ErrAcertoDuplicado = errors.New("cliente já possui acerto finalizado neste ciclo")

	// ErrSequenciaRelogio: final counter below initial without a defect or
	// reset flag to explain it.
	ErrSequenciaRelogio = errors.New("relógio final menor que o inicial")

	// ErrEvidenciaObrigatoria: defect/reset flag set without a counter photo.
	ErrEvidenciaObrigatoria = errors.New("mesa com defeito ou relógio reiniciado exige foto do relógio")

	// ErrDescontoMaiorQueTotal: discount exceeds the billed total.
	ErrDescontoMaiorQueTotal = errors.New("desconto não pode ser maior que o valor total")

	// ErrAcertoNaoEncontrado: edit mode target does not exist.
	ErrAcertoNaoEncontrado = errors.New("acerto não encontrado")

	// ErrCicloNaoEncontrado: cycle id does not resolve.
	ErrCicloNaoEncontrado = errors.New("ciclo não encontrado")

	// ErrClienteNaoEncontrado: client id does not resolve or is inactive.
	ErrClienteNaoEncontrado = errors.New("cliente não encontrado")

	// ErrMesaNaoEncontrada: a settlement line references an unknown table.
	ErrMesaNaoEncontrada = errors.New("mesa não encontrada")

	// ErrMesaDuplicada: the same table appears more than once in a
	// settlement. One row per table; a duplicate would bill it twice.
	ErrMesaDuplicada = errors.New("mesa repetida no acerto")

	// ErrCicloComAcertos: a cycle with settlements cannot be cancelled.
	ErrCicloComAcertos = errors.New("ciclo possui acertos e não pode ser cancelado")

	// ErrCicloComAcertosPendentes: a cycle cannot be finalized while any
	// of its settlements is still pendente.
	ErrCicloComAcertosPendentes = errors.New("ciclo possui acertos pendentes e não pode ser finalizado")

	// ErrCicloJaEncerrado: operation requires a cycle em andamento.
	ErrCicloJaEncerrado = errors.New("ciclo já encerrado")

	// ErrCicloEmAndamentoExistente: the route already has an open cycle.
	ErrCicloEmAndamentoExistente = errors.New("rota já possui ciclo em andamento")

	// ErrPersistencia wraps storage failures so callers can retry the save
	// without recomputing — all computation here is idempotent.
	ErrPersistencia = errors.New("falha de persistência")
)

// ValidacaoError attaches line context to a sentinel error.
type ValidacaoError struct {
	Err     error
	Detalhe string
}

func (e *ValidacaoError) Error() string {
	if e.Detalhe != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Detalhe)
	}
	return e.Err.Error()
}

func (e *ValidacaoError) Unwrap() error { return e.Err }

// ValidarLinhaMesa checks one table line before it enters a settlement.
// final ≥ inicial is required unless the table is flagged defective or its
// counter reset; either flag demands photo evidence of the final reading.
func ValidarLinhaMesa(relogioInicial, relogioFinal int, comDefeito, relogioReiniciou, temFoto bool) error {
	if (comDefeito || relogioReiniciou) && !temFoto {
		return &ValidacaoError{Err: ErrEvidenciaObrigatoria}
	}
	if relogioFinal < relogioInicial && !comDefeito && !relogioReiniciou {
		return &ValidacaoError{
			Err:     ErrSequenciaRelogio,
			Detalhe: fmt.Sprintf("inicial=%d final=%d", relogioInicial, relogioFinal),
		}
	}
	return nil
}

// ValidarDesconto rejects a discount greater than the billed total.
// Negative discounts are rejected too, never silently clamped.
func ValidarDesconto(valorTotal, desconto decimal.Decimal) error {
	if desconto.IsNegative() {
		return &ValidacaoError{Err: ErrDescontoMaiorQueTotal, Detalhe: "desconto negativo"}
	}
	if desconto.GreaterThan(valorTotal) {
		return &ValidacaoError{
			Err:     ErrDescontoMaiorQueTotal,
			Detalhe: fmt.Sprintf("desconto=%s total=%s", desconto, valorTotal),
		}
	}
	return nil
}

// ValidarUnicidade enforces at most one finalized settlement per
// (cliente, ciclo). The caller supplies the already-fetched snapshot;
// edit mode bypasses the check because it amends that same settlement.
func ValidarUnicidade(clienteID, cicloID uuid.UUID, existente *model.Acerto, modoEdicao bool) error {
	if modoEdicao {
		return nil
	}
	if existente != nil && existente.Status == model.AcertoFinalizado {
		return &ValidacaoError{
			Err:     ErrAcertoDuplicado,
			Detalhe: fmt.Sprintf("cliente=%s ciclo=%s acerto=%s", clienteID, cicloID, existente.ID),
		}
	}
	return nil
}
