package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gestaomesas/internal/dto"
	"gestaomesas/internal/model"
	"gestaomesas/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fixed commission rates applied at cycle closure. Note the intentional
// asymmetry: the driver takes 3% of the subtotal after travel expenses,
// the manager takes 2% of the gross received amount.
var (
	taxaComissaoMotorista = decimal.NewFromFloat(0.03)
	taxaComissaoManager   = decimal.NewFromFloat(0.02)
)

type CicloService interface {
	Iniciar(ctx context.Context, req dto.IniciarCicloRequest) (*dto.CicloResponse, error)
	Finalizar(ctx context.Context, id uuid.UUID, req dto.FinalizarCicloRequest) (*dto.CicloResponse, error)
	Cancelar(ctx context.Context, id uuid.UUID) error
	BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.CicloResponse, error)
	CicloAtivo(ctx context.Context, rotaID uuid.UUID) (*dto.CicloResponse, error)
	ListPorRota(ctx context.Context, rotaID uuid.UUID) ([]dto.CicloResponse, error)
	// Resumo builds the cycle closing report from the full set of the
	// cycle's settlements and expenses. Never persisted; always recomputed.
	Resumo(ctx context.Context, id uuid.UUID) (*dto.ResumoCicloResponse, error)
	// AtualizarValoresCiclo rewrites the cycle's rollup fields from scratch.
	// Called after every settlement save; incremental updates drift.
	AtualizarValoresCiclo(ctx context.Context, id uuid.UUID) error
}

type cicloService struct {
	repo        repository.CicloRepository
	acertoRepo  repository.AcertoRepository
	despesaRepo repository.DespesaRepository
}

func NewCicloService(
	repo repository.CicloRepository,
	acertoRepo repository.AcertoRepository,
	despesaRepo repository.DespesaRepository,
) CicloService {
	return &cicloService{repo: repo, acertoRepo: acertoRepo, despesaRepo: despesaRepo}
}

// Iniciar opens the route's next billing cycle. Numbering restarts at 1
// each calendar year and continues from the route's latest cycle otherwise.
func (s *cicloService) Iniciar(ctx context.Context, req dto.IniciarCicloRequest) (*dto.CicloResponse, error) {
	rotaID, err := uuid.Parse(req.RotaID)
	if err != nil {
		return nil, fmt.Errorf("rota_id inválido: %w", err)
	}

	ativo, err := s.repo.FindAtivoPorRota(ctx, rotaID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	if ativo != nil {
		return nil, &ValidacaoError{
			Err:     ErrCicloEmAndamentoExistente,
			Detalhe: fmt.Sprintf("rota=%s ciclo=%s", rotaID, ativo.ID),
		}
	}

	ano := time.Now().Year()
	numero := 1
	ultimo, err := s.repo.UltimoPorRota(ctx, rotaID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	if ultimo != nil && ultimo.Ano == ano {
		numero = ultimo.NumeroCiclo + 1
	}

	ciclo := &model.Ciclo{
		RotaID:      rotaID,
		NumeroCiclo: numero,
		Ano:         ano,
		Status:      model.CicloEmAndamento,
		Observacoes: req.Observacoes,
		DataInicio:  time.Now(),
	}
	if err := s.repo.Create(ctx, ciclo); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	return cicloToResponse(ciclo), nil
}

func (s *cicloService) Finalizar(ctx context.Context, id uuid.UUID, req dto.FinalizarCicloRequest) (*dto.CicloResponse, error) {
	ciclo, err := s.repo.FindByID(ctx, id)
	if err != nil || ciclo == nil {
		return nil, ErrCicloNaoEncontrado
	}
	if !ciclo.EmAndamento() {
		return nil, ErrCicloJaEncerrado
	}

	// A cycle closes only when every settlement reached a terminal status.
	acertos, err := s.acertoRepo.ListPorCiclo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	pendentes := 0
	for i := range acertos {
		if acertos[i].Status == model.AcertoPendente {
			pendentes++
		}
	}
	if pendentes > 0 {
		return nil, &ValidacaoError{
			Err:     ErrCicloComAcertosPendentes,
			Detalhe: fmt.Sprintf("ciclo=%s pendentes=%d", id, pendentes),
		}
	}

	// Freeze the rollup before closing so the stored figures match the
	// final set of settlements.
	if err := s.AtualizarValoresCiclo(ctx, id); err != nil {
		return nil, err
	}
	ciclo, err = s.repo.FindByID(ctx, id)
	if err != nil || ciclo == nil {
		return nil, ErrCicloNaoEncontrado
	}

	now := time.Now()
	ciclo.Status = model.CicloFinalizado
	ciclo.DataFim = &now
	if req.Observacoes != nil {
		ciclo.Observacoes = req.Observacoes
	}
	if err := s.repo.Update(ctx, ciclo); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	return cicloToResponse(ciclo), nil
}

// Cancelar discards an empty cycle. A cycle that already collected
// settlements must be finalized instead.
func (s *cicloService) Cancelar(ctx context.Context, id uuid.UUID) error {
	ciclo, err := s.repo.FindByID(ctx, id)
	if err != nil || ciclo == nil {
		return ErrCicloNaoEncontrado
	}
	if !ciclo.EmAndamento() {
		return ErrCicloJaEncerrado
	}
	acertos, err := s.acertoRepo.ListPorCiclo(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	if len(acertos) > 0 {
		return &ValidacaoError{
			Err:     ErrCicloComAcertos,
			Detalhe: fmt.Sprintf("ciclo=%s acertos=%d", id, len(acertos)),
		}
	}
	now := time.Now()
	ciclo.Status = model.CicloCancelado
	ciclo.DataFim = &now
	if err := s.repo.Update(ctx, ciclo); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	return nil
}

func (s *cicloService) BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.CicloResponse, error) {
	ciclo, err := s.repo.FindByID(ctx, id)
	if err != nil || ciclo == nil {
		return nil, ErrCicloNaoEncontrado
	}
	return cicloToResponse(ciclo), nil
}

func (s *cicloService) CicloAtivo(ctx context.Context, rotaID uuid.UUID) (*dto.CicloResponse, error) {
	ciclo, err := s.repo.FindAtivoPorRota(ctx, rotaID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	if ciclo == nil {
		return nil, ErrSemCicloAtivo
	}
	return cicloToResponse(ciclo), nil
}

func (s *cicloService) ListPorRota(ctx context.Context, rotaID uuid.UUID) ([]dto.CicloResponse, error) {
	ciclos, err := s.repo.ListPorRota(ctx, rotaID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	out := make([]dto.CicloResponse, 0, len(ciclos))
	for i := range ciclos {
		out = append(out, *cicloToResponse(&ciclos[i]))
	}
	return out, nil
}

// Resumo reproduces the closing report deduction chain:
//
//	totalRecebido   = Σ acerto.valorRecebido
//	despesasViagem  = Σ despesa.valor where categoria == "Viagem"
//	subtotal        = totalRecebido − despesasViagem
//	comissaoMotorista = subtotal × 3%
//	comissaoManager   = totalRecebido × 2%
//	totalGeral      = subtotal − comissões − PIX − Cartão − despesas − Cheque
//
// The order of deductions and the 3%/2% rates are fixed business rules.
func (s *cicloService) Resumo(ctx context.Context, id uuid.UUID) (*dto.ResumoCicloResponse, error) {
	ciclo, err := s.repo.FindByID(ctx, id)
	if err != nil || ciclo == nil {
		return nil, ErrCicloNaoEncontrado
	}

	acertos, err := s.acertoRepo.ListPorCiclo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	despesas, err := s.despesaRepo.ListPorRotaECiclo(ctx, ciclo.RotaID, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}

	totalRecebido := decimal.Zero
	totais := NovosTotaisPorMetodo()
	totalAcertos := 0
	for i := range acertos {
		a := &acertos[i]
		if a.Status != model.AcertoFinalizado {
			continue
		}
		totalAcertos++
		totalRecebido = totalRecebido.Add(a.ValorRecebido)
		metodos, err := DecodificarMetodosPagamento(a.MetodosPagamentoJSON)
		if err != nil {
			return nil, fmt.Errorf("acerto %s: pagamentos inválidos: %w", a.ID, err)
		}
		AgregarPagamentos(totais, metodos)
	}

	despesasViagem := decimal.Zero
	totalDespesas := decimal.Zero
	for _, d := range despesas {
		totalDespesas = totalDespesas.Add(d.Valor)
		// Categoria is operator-entered free text; "viagem" still counts.
		if strings.EqualFold(d.Categoria, model.CategoriaViagem) {
			despesasViagem = despesasViagem.Add(d.Valor)
		}
	}

	subtotal := totalRecebido.Sub(despesasViagem)
	comissaoMotorista := subtotal.Mul(taxaComissaoMotorista)
	comissaoManager := totalRecebido.Mul(taxaComissaoManager)

	totalGeral := subtotal.
		Sub(comissaoMotorista).
		Sub(comissaoManager).
		Sub(totais[MetodoPix]).
		Sub(totais[MetodoCartao]).
		Sub(totalDespesas).
		Sub(totais[MetodoCheque])

	return &dto.ResumoCicloResponse{
		CicloID:           ciclo.ID.String(),
		Titulo:            ciclo.Titulo(),
		TotalAcertos:      totalAcertos,
		TotalRecebido:     totalRecebido,
		DespesasViagem:    despesasViagem,
		Subtotal:          subtotal,
		ComissaoMotorista: comissaoMotorista,
		ComissaoManager:   comissaoManager,
		TotaisPorMetodo:   totais,
		TotalDespesas:     totalDespesas,
		TotalGeral:        totalGeral,
	}, nil
}

func (s *cicloService) AtualizarValoresCiclo(ctx context.Context, id uuid.UUID) error {
	ciclo, err := s.repo.FindByID(ctx, id)
	if err != nil || ciclo == nil {
		return ErrCicloNaoEncontrado
	}

	acertos, err := s.acertoRepo.ListPorCiclo(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	despesas, err := s.despesaRepo.ListPorCiclo(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistencia, err)
	}

	clientes := make(map[uuid.UUID]struct{})
	acertado := decimal.Zero
	for i := range acertos {
		a := &acertos[i]
		if a.Status != model.AcertoFinalizado {
			continue
		}
		clientes[a.ClienteID] = struct{}{}
		acertado = acertado.Add(a.ValorRecebido)
	}
	gastos := decimal.Zero
	for _, d := range despesas {
		gastos = gastos.Add(d.Valor)
	}

	ciclo.ClientesAcertados = len(clientes)
	ciclo.ValorTotalAcertado = acertado
	ciclo.ValorTotalDespesas = gastos
	ciclo.LucroLiquido = acertado.Sub(gastos)
	if err := s.repo.Update(ctx, ciclo); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	return nil
}

func cicloToResponse(c *model.Ciclo) *dto.CicloResponse {
	resp := &dto.CicloResponse{
		ID:                 c.ID.String(),
		RotaID:             c.RotaID.String(),
		NumeroCiclo:        c.NumeroCiclo,
		Ano:                c.Ano,
		Titulo:             c.Titulo(),
		Status:             c.Status,
		ClientesAcertados:  c.ClientesAcertados,
		ValorTotalAcertado: c.ValorTotalAcertado,
		ValorTotalDespesas: c.ValorTotalDespesas,
		LucroLiquido:       c.LucroLiquido,
		DataInicio:         c.DataInicio.Format(time.RFC3339),
	}
	if c.DataFim != nil {
		fim := c.DataFim.Format(time.RFC3339)
		resp.DataFim = &fim
	}
	return resp
}
