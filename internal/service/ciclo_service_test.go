package service_test

import (
	"context"
	"testing"
	"time"

	"gestaomesas/internal/dto"
	"gestaomesas/internal/model"
	"gestaomesas/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCicloSvc() (service.CicloService, *stubCicloRepo, *stubAcertoRepo, *stubDespesaRepo) {
	cicloRepo := newStubCicloRepo()
	acertoRepo := newStubAcertoRepo()
	despesaRepo := &stubDespesaRepo{}
	svc := service.NewCicloService(cicloRepo, acertoRepo, despesaRepo)
	return svc, cicloRepo, acertoRepo, despesaRepo
}

func seedAcertoFinalizado(t *testing.T, repo *stubAcertoRepo, cicloID, clienteID uuid.UUID, recebido decimal.Decimal, pagamentos map[string]decimal.Decimal) *model.Acerto {
	t.Helper()
	raw, err := service.CodificarMetodosPagamento(pagamentos)
	require.NoError(t, err)
	a := &model.Acerto{
		ClienteID:            clienteID,
		RotaID:               uuid.New(),
		CicloID:              cicloID,
		ValorRecebido:        recebido,
		Status:               model.AcertoFinalizado,
		MetodosPagamentoJSON: &raw,
		DataAcerto:           time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), nil, a))
	return a
}

func TestIniciarCiclo_PrimeiroDaRota(t *testing.T) {
	svc, _, _, _ := buildCicloSvc()
	rotaID := uuid.New()

	resp, err := svc.Iniciar(context.Background(), dto.IniciarCicloRequest{RotaID: rotaID.String()})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.NumeroCiclo)
	assert.Equal(t, time.Now().Year(), resp.Ano)
	assert.Equal(t, model.CicloEmAndamento, resp.Status)
}

func TestIniciarCiclo_RotaJaTemCicloAberto(t *testing.T) {
	svc, _, _, _ := buildCicloSvc()
	rotaID := uuid.New()

	_, err := svc.Iniciar(context.Background(), dto.IniciarCicloRequest{RotaID: rotaID.String()})
	require.NoError(t, err)

	_, err = svc.Iniciar(context.Background(), dto.IniciarCicloRequest{RotaID: rotaID.String()})
	assert.ErrorIs(t, err, service.ErrCicloEmAndamentoExistente)
}

func TestIniciarCiclo_NumeracaoContinuaNoAno(t *testing.T) {
	svc, _, _, _ := buildCicloSvc()
	rotaID := uuid.New()

	primeiro, err := svc.Iniciar(context.Background(), dto.IniciarCicloRequest{RotaID: rotaID.String()})
	require.NoError(t, err)
	_, err = svc.Finalizar(context.Background(), uuid.MustParse(primeiro.ID), dto.FinalizarCicloRequest{})
	require.NoError(t, err)

	segundo, err := svc.Iniciar(context.Background(), dto.IniciarCicloRequest{RotaID: rotaID.String()})
	require.NoError(t, err)
	assert.Equal(t, 2, segundo.NumeroCiclo)
}

func TestIniciarCiclo_NumeracaoReiniciaPorAno(t *testing.T) {
	svc, cicloRepo, _, _ := buildCicloSvc()
	rotaID := uuid.New()

	// Route closed its 7th cycle last year; this year's first must be nº 1.
	fim := time.Now()
	require.NoError(t, cicloRepo.Create(context.Background(), &model.Ciclo{
		RotaID:      rotaID,
		NumeroCiclo: 7,
		Ano:         time.Now().Year() - 1,
		Status:      model.CicloFinalizado,
		DataFim:     &fim,
	}))

	resp, err := svc.Iniciar(context.Background(), dto.IniciarCicloRequest{RotaID: rotaID.String()})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.NumeroCiclo)
}

func TestCancelarCiclo(t *testing.T) {
	svc, cicloRepo, acertoRepo, _ := buildCicloSvc()
	rotaID := uuid.New()

	resp, err := svc.Iniciar(context.Background(), dto.IniciarCicloRequest{RotaID: rotaID.String()})
	require.NoError(t, err)
	cicloID := uuid.MustParse(resp.ID)

	// A cycle holding settlements cannot be cancelled.
	seedAcertoFinalizado(t, acertoRepo, cicloID, uuid.New(), decimal.NewFromInt(100), nil)
	err = svc.Cancelar(context.Background(), cicloID)
	assert.ErrorIs(t, err, service.ErrCicloComAcertos)

	// An empty one can.
	vazio, err := svc.Iniciar(context.Background(), dto.IniciarCicloRequest{RotaID: uuid.NewString()})
	require.NoError(t, err)
	vazioID := uuid.MustParse(vazio.ID)
	require.NoError(t, svc.Cancelar(context.Background(), vazioID))

	cancelado, _ := cicloRepo.FindByID(context.Background(), vazioID)
	assert.Equal(t, model.CicloCancelado, cancelado.Status)
	assert.NotNil(t, cancelado.DataFim)
}

func TestFinalizarCiclo_CongelaRollup(t *testing.T) {
	svc, cicloRepo, acertoRepo, despesaRepo := buildCicloSvc()
	rotaID := uuid.New()

	resp, err := svc.Iniciar(context.Background(), dto.IniciarCicloRequest{RotaID: rotaID.String()})
	require.NoError(t, err)
	cicloID := uuid.MustParse(resp.ID)

	seedAcertoFinalizado(t, acertoRepo, cicloID, uuid.New(), decimal.NewFromInt(600), nil)
	seedAcertoFinalizado(t, acertoRepo, cicloID, uuid.New(), decimal.NewFromInt(400), nil)
	require.NoError(t, despesaRepo.Create(context.Background(), &model.Despesa{
		RotaID: rotaID, CicloID: cicloID, Categoria: "Combustível", Descricao: "diesel", Valor: decimal.NewFromInt(150),
	}))

	final, err := svc.Finalizar(context.Background(), cicloID, dto.FinalizarCicloRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.CicloFinalizado, final.Status)
	assert.Equal(t, 2, final.ClientesAcertados)
	assert.Equal(t, "1000", final.ValorTotalAcertado.String())
	assert.Equal(t, "150", final.ValorTotalDespesas.String())
	assert.Equal(t, "850", final.LucroLiquido.String())
	assert.NotNil(t, final.DataFim)

	// Closing twice is rejected.
	_, err = svc.Finalizar(context.Background(), cicloID, dto.FinalizarCicloRequest{})
	assert.ErrorIs(t, err, service.ErrCicloJaEncerrado)

	armazenado, _ := cicloRepo.FindByID(context.Background(), cicloID)
	assert.Equal(t, model.CicloFinalizado, armazenado.Status)
}

func TestFinalizarCiclo_AcertoPendenteBloqueia(t *testing.T) {
	svc, cicloRepo, acertoRepo, _ := buildCicloSvc()
	rotaID := uuid.New()

	resp, err := svc.Iniciar(context.Background(), dto.IniciarCicloRequest{RotaID: rotaID.String()})
	require.NoError(t, err)
	cicloID := uuid.MustParse(resp.ID)

	seedAcertoFinalizado(t, acertoRepo, cicloID, uuid.New(), decimal.NewFromInt(500), nil)
	pendente := &model.Acerto{
		ClienteID:  uuid.New(),
		RotaID:     rotaID,
		CicloID:    cicloID,
		Status:     model.AcertoPendente,
		DataAcerto: time.Now(),
	}
	require.NoError(t, acertoRepo.Create(context.Background(), nil, pendente))

	_, err = svc.Finalizar(context.Background(), cicloID, dto.FinalizarCicloRequest{})
	assert.ErrorIs(t, err, service.ErrCicloComAcertosPendentes)

	aberto, _ := cicloRepo.FindByID(context.Background(), cicloID)
	assert.Equal(t, model.CicloEmAndamento, aberto.Status)

	// Once the pending settlement resolves, the cycle closes normally.
	pendente.Status = model.AcertoFinalizado
	final, err := svc.Finalizar(context.Background(), cicloID, dto.FinalizarCicloRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.CicloFinalizado, final.Status)
}

func TestResumoCiclo_CadeiaDeDeducoes(t *testing.T) {
	svc, _, acertoRepo, despesaRepo := buildCicloSvc()
	rotaID := uuid.New()

	resp, err := svc.Iniciar(context.Background(), dto.IniciarCicloRequest{RotaID: rotaID.String()})
	require.NoError(t, err)
	cicloID := uuid.MustParse(resp.ID)

	// totalRecebido=1000 em dinheiro, despesa de viagem=100:
	//   subtotal 900, motorista 27 (3% do subtotal), manager 20 (2% do bruto),
	//   totalGeral 900 − 27 − 20 − 100 = 753.
	seedAcertoFinalizado(t, acertoRepo, cicloID, uuid.New(), decimal.NewFromInt(1000),
		map[string]decimal.Decimal{"Dinheiro": decimal.NewFromInt(1000)})
	require.NoError(t, despesaRepo.Create(context.Background(), &model.Despesa{
		RotaID: rotaID, CicloID: cicloID, Categoria: model.CategoriaViagem, Descricao: "pedágio", Valor: decimal.NewFromInt(100),
	}))

	resumo, err := svc.Resumo(context.Background(), cicloID)
	require.NoError(t, err)
	assert.Equal(t, 1, resumo.TotalAcertos)
	assert.Equal(t, "1000", resumo.TotalRecebido.String())
	assert.Equal(t, "100", resumo.DespesasViagem.String())
	assert.Equal(t, "900", resumo.Subtotal.String())
	assert.Equal(t, "27", resumo.ComissaoMotorista.String())
	assert.Equal(t, "20", resumo.ComissaoManager.String())
	assert.Equal(t, "753", resumo.TotalGeral.String())
	assert.Equal(t, "1000", resumo.TotaisPorMetodo[service.MetodoDinheiro].String())
}

func TestResumoCiclo_CategoriaViagemSemDistincaoDeCaixa(t *testing.T) {
	svc, _, acertoRepo, despesaRepo := buildCicloSvc()
	rotaID := uuid.New()

	resp, err := svc.Iniciar(context.Background(), dto.IniciarCicloRequest{RotaID: rotaID.String()})
	require.NoError(t, err)
	cicloID := uuid.MustParse(resp.ID)

	// Categoria is typed by the operator; "viagem" and "VIAGEM" are still
	// travel and must land in the pre-commission deduction.
	seedAcertoFinalizado(t, acertoRepo, cicloID, uuid.New(), decimal.NewFromInt(1000),
		map[string]decimal.Decimal{"Dinheiro": decimal.NewFromInt(1000)})
	require.NoError(t, despesaRepo.Create(context.Background(), &model.Despesa{
		RotaID: rotaID, CicloID: cicloID, Categoria: "viagem", Descricao: "pedágio", Valor: decimal.NewFromInt(60),
	}))
	require.NoError(t, despesaRepo.Create(context.Background(), &model.Despesa{
		RotaID: rotaID, CicloID: cicloID, Categoria: "VIAGEM", Descricao: "balsa", Valor: decimal.NewFromInt(40),
	}))

	resumo, err := svc.Resumo(context.Background(), cicloID)
	require.NoError(t, err)
	assert.Equal(t, "100", resumo.DespesasViagem.String())
	assert.Equal(t, "900", resumo.Subtotal.String())
}

func TestResumoCiclo_DescontaValoresNaoDinheiro(t *testing.T) {
	svc, _, acertoRepo, _ := buildCicloSvc()
	rotaID := uuid.New()

	resp, err := svc.Iniciar(context.Background(), dto.IniciarCicloRequest{RotaID: rotaID.String()})
	require.NoError(t, err)
	cicloID := uuid.MustParse(resp.ID)

	// PIX and card amounts never reach the driver's cash, so they leave the
	// total: 100 − 3 − 2 − 70 − 30 = −5.
	seedAcertoFinalizado(t, acertoRepo, cicloID, uuid.New(), decimal.NewFromInt(100),
		map[string]decimal.Decimal{
			"PIX":           decimal.NewFromInt(70),
			"Cartão Débito": decimal.NewFromInt(30),
		})

	resumo, err := svc.Resumo(context.Background(), cicloID)
	require.NoError(t, err)
	assert.Equal(t, "70", resumo.TotaisPorMetodo[service.MetodoPix].String())
	assert.Equal(t, "30", resumo.TotaisPorMetodo[service.MetodoCartao].String())
	assert.Equal(t, "-5", resumo.TotalGeral.String())
}

func TestAtualizarValoresCiclo_RecalculaDoZero(t *testing.T) {
	svc, cicloRepo, acertoRepo, _ := buildCicloSvc()
	rotaID := uuid.New()

	resp, err := svc.Iniciar(context.Background(), dto.IniciarCicloRequest{RotaID: rotaID.String()})
	require.NoError(t, err)
	cicloID := uuid.MustParse(resp.ID)

	clienteA := uuid.New()
	seedAcertoFinalizado(t, acertoRepo, cicloID, clienteA, decimal.NewFromInt(300), nil)
	require.NoError(t, svc.AtualizarValoresCiclo(context.Background(), cicloID))

	ciclo, _ := cicloRepo.FindByID(context.Background(), cicloID)
	assert.Equal(t, 1, ciclo.ClientesAcertados)
	assert.Equal(t, "300", ciclo.ValorTotalAcertado.String())

	// A second settlement lands and the rollup is rebuilt, not incremented.
	seedAcertoFinalizado(t, acertoRepo, cicloID, uuid.New(), decimal.NewFromInt(200), nil)
	require.NoError(t, svc.AtualizarValoresCiclo(context.Background(), cicloID))

	ciclo, _ = cicloRepo.FindByID(context.Background(), cicloID)
	assert.Equal(t, 2, ciclo.ClientesAcertados)
	assert.Equal(t, "500", ciclo.ValorTotalAcertado.String())
	assert.Equal(t, "500", ciclo.LucroLiquido.String())
}
