package service_test

import (
	"context"
	"testing"
	"time"

	"gestaomesas/internal/dto"
	"gestaomesas/internal/model"
	"gestaomesas/internal/service"
	"gestaomesas/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type acertoFixture struct {
	svc         service.AcertoService
	acertoRepo  *stubAcertoRepo
	clienteRepo *stubClienteRepo
	cicloRepo   *stubCicloRepo
	mesaRepo    *stubMesaRepo

	rotaID  uuid.UUID
	ciclo   *model.Ciclo
	cliente *model.Cliente
}

// newAcertoFixture seeds one route with an open cycle and one client
// carrying R$ 20 of debt at R$ 0.75 per play.
func newAcertoFixture(t *testing.T) *acertoFixture {
	t.Helper()
	acertoRepo := newStubAcertoRepo()
	clienteRepo := newStubClienteRepo()
	cicloRepo := newStubCicloRepo()
	mesaRepo := newStubMesaRepo()
	despesaRepo := &stubDespesaRepo{}

	cicloSvc := service.NewCicloService(cicloRepo, acertoRepo, despesaRepo)
	svc := service.NewAcertoService(acertoRepo, clienteRepo, cicloRepo, mesaRepo, cicloSvc, nil)

	rotaID := uuid.New()
	ciclo := &model.Ciclo{
		RotaID:      rotaID,
		NumeroCiclo: 3,
		Ano:         time.Now().Year(),
		Status:      model.CicloEmAndamento,
		DataInicio:  time.Now(),
	}
	require.NoError(t, cicloRepo.Create(context.Background(), ciclo))

	cliente := &model.Cliente{
		RotaID:        rotaID,
		Nome:          "Bar do Zé",
		ComissaoFicha: decimal.NewFromFloat(0.75),
		DebitoAtual:   decimal.NewFromInt(20),
		Ativo:         true,
	}
	require.NoError(t, clienteRepo.Create(context.Background(), cliente))

	return &acertoFixture{
		svc:         svc,
		acertoRepo:  acertoRepo,
		clienteRepo: clienteRepo,
		cicloRepo:   cicloRepo,
		mesaRepo:    mesaRepo,
		rotaID:      rotaID,
		ciclo:       ciclo,
		cliente:     cliente,
	}
}

func (f *acertoFixture) seedMesa(t *testing.T, numero string, relogio int, valorFixo decimal.Decimal) *model.Mesa {
	t.Helper()
	m := &model.Mesa{
		Numero:       numero,
		ClienteID:    &f.cliente.ID,
		ValorFixo:    valorFixo,
		RelogioAtual: relogio,
		Ativa:        true,
	}
	require.NoError(t, f.mesaRepo.Create(context.Background(), m))
	return m
}

func TestPrepararAcerto(t *testing.T) {
	f := newAcertoFixture(t)
	mesa := f.seedMesa(t, "M-001", 100, decimal.Zero)
	fixa := f.seedMesa(t, "M-002", 0, decimal.NewFromInt(50))

	prep, err := f.svc.Preparar(context.Background(), f.cliente.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ciclo.ID.String(), prep.CicloID)
	assert.Equal(t, "20", prep.DebitoAnterior.String())
	assert.Equal(t, "0.75", prep.ComissaoFicha.String())
	require.Len(t, prep.Mesas, 2)
	assert.Equal(t, mesa.ID.String(), prep.Mesas[0].MesaID)
	assert.Equal(t, 100, prep.Mesas[0].RelogioInicial)
	assert.Equal(t, fixa.ID.String(), prep.Mesas[1].MesaID)
	assert.Equal(t, "50", prep.Mesas[1].ValorFixo.String())
}

func TestPrepararAcerto_SemCicloAtivo(t *testing.T) {
	f := newAcertoFixture(t)
	f.ciclo.Status = model.CicloFinalizado

	_, err := f.svc.Preparar(context.Background(), f.cliente.ID)
	assert.ErrorIs(t, err, service.ErrSemCicloAtivo)
}

func TestSalvarAcerto_Criacao(t *testing.T) {
	f := newAcertoFixture(t)
	mesa := f.seedMesa(t, "M-001", 100, decimal.Zero)
	colaboradorID := uuid.New()

	// 80 fichas × 0.75 = 60; débito: 20 + 60 − 5 − 50 = 25.
	resp, err := f.svc.Salvar(context.Background(), &colaboradorID, dto.SalvarAcertoRequest{
		ClienteID: f.cliente.ID.String(),
		Mesas: []dto.MesaAcertoRequest{
			{MesaID: mesa.ID.String(), RelogioInicial: 100, RelogioFinal: 180},
		},
		Desconto:         decimal.NewFromInt(5),
		MetodosPagamento: map[string]decimal.Decimal{"Dinheiro": decimal.NewFromInt(50)},
	})
	require.NoError(t, err)

	assert.Equal(t, model.AcertoFinalizado, resp.Status)
	assert.Equal(t, model.SyncPendente, resp.SyncStatus)
	assert.Equal(t, "20", resp.DebitoAnterior.String())
	assert.Equal(t, "60", resp.ValorTotal.String())
	assert.Equal(t, "55", resp.ValorComDesconto.String())
	assert.Equal(t, "50", resp.ValorRecebido.String())
	assert.Equal(t, "25", resp.DebitoAtual.String())
	require.Len(t, resp.Mesas, 1)
	assert.Equal(t, 80, resp.Mesas[0].FichasJogadas)
	assert.Equal(t, "60", resp.Mesas[0].Subtotal.String())

	// The client's debt mirror and the table counter advanced in the save.
	assert.Equal(t, "25", f.cliente.DebitoAtual.String())
	assert.Equal(t, 180, mesa.RelogioAtual)

	// Cycle rollup rebuilt from the settlement set.
	ciclo, _ := f.cicloRepo.FindByID(context.Background(), f.ciclo.ID)
	assert.Equal(t, 1, ciclo.ClientesAcertados)
	assert.Equal(t, "50", ciclo.ValorTotalAcertado.String())
}

func TestSalvarAcerto_MesaFixaNaoAvancaRelogio(t *testing.T) {
	f := newAcertoFixture(t)
	fixa := f.seedMesa(t, "M-010", 340, decimal.NewFromInt(50))

	resp, err := f.svc.Salvar(context.Background(), nil, dto.SalvarAcertoRequest{
		ClienteID: f.cliente.ID.String(),
		Mesas: []dto.MesaAcertoRequest{
			{MesaID: fixa.ID.String(), RelogioInicial: 340, RelogioFinal: 360},
		},
		MetodosPagamento: map[string]decimal.Decimal{"Dinheiro": decimal.NewFromInt(50)},
	})
	require.NoError(t, err)

	// Flat fee billed, zero plays, counter untouched.
	assert.Equal(t, "50", resp.ValorTotal.String())
	assert.Equal(t, 0, resp.Mesas[0].FichasJogadas)
	assert.Equal(t, 340, fixa.RelogioAtual)
}

func TestSalvarAcerto_MesaRepetidaRejeitada(t *testing.T) {
	f := newAcertoFixture(t)
	mesa := f.seedMesa(t, "M-001", 100, decimal.Zero)

	// The same table twice would bill 120 instead of 60 and advance the
	// counter twice. Must be rejected before anything is written.
	_, err := f.svc.Salvar(context.Background(), nil, dto.SalvarAcertoRequest{
		ClienteID: f.cliente.ID.String(),
		Mesas: []dto.MesaAcertoRequest{
			{MesaID: mesa.ID.String(), RelogioInicial: 100, RelogioFinal: 180},
			{MesaID: mesa.ID.String(), RelogioInicial: 100, RelogioFinal: 180},
		},
		MetodosPagamento: map[string]decimal.Decimal{"Dinheiro": decimal.NewFromInt(120)},
	})
	assert.ErrorIs(t, err, service.ErrMesaDuplicada)

	var verr *service.ValidacaoError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, mesa.ID.String(), verr.Detalhe)

	// Nothing persisted, counter untouched.
	acertos, _ := f.acertoRepo.ListPorCiclo(context.Background(), f.ciclo.ID)
	assert.Empty(t, acertos)
	assert.Equal(t, 100, mesa.RelogioAtual)
}

func TestSalvarAcerto_FalhaNoEnfileiramentoAgendaRetry(t *testing.T) {
	f := newAcertoFixture(t)
	mesa := f.seedMesa(t, "M-001", 100, decimal.Zero)

	// Dispatcher pointed at a dead Redis: the save must still succeed and
	// the settlement must carry a next_retry_at for the cron to find it.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	cicloSvc := service.NewCicloService(f.cicloRepo, f.acertoRepo, &stubDespesaRepo{})
	svc := service.NewAcertoService(f.acertoRepo, f.clienteRepo, f.cicloRepo, f.mesaRepo, cicloSvc, worker.NewDispatcher(rdb))

	resp, err := svc.Salvar(context.Background(), nil, dto.SalvarAcertoRequest{
		ClienteID: f.cliente.ID.String(),
		Mesas: []dto.MesaAcertoRequest{
			{MesaID: mesa.ID.String(), RelogioInicial: 100, RelogioFinal: 180},
		},
		MetodosPagamento: map[string]decimal.Decimal{"Dinheiro": decimal.NewFromInt(60)},
	})
	require.NoError(t, err)

	salvo, err := f.acertoRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	require.NotNil(t, salvo)
	assert.Equal(t, model.SyncPendente, salvo.SyncStatus)
	require.NotNil(t, salvo.NextRetryAt)
	assert.WithinDuration(t, time.Now().Add(time.Minute), *salvo.NextRetryAt, 10*time.Second)
}

func TestSalvarAcerto_DuplicadoNoCiclo(t *testing.T) {
	f := newAcertoFixture(t)
	mesa := f.seedMesa(t, "M-001", 100, decimal.Zero)

	req := dto.SalvarAcertoRequest{
		ClienteID: f.cliente.ID.String(),
		Mesas: []dto.MesaAcertoRequest{
			{MesaID: mesa.ID.String(), RelogioInicial: 100, RelogioFinal: 180},
		},
		MetodosPagamento: map[string]decimal.Decimal{"Dinheiro": decimal.NewFromInt(60)},
	}
	_, err := f.svc.Salvar(context.Background(), nil, req)
	require.NoError(t, err)

	_, err = f.svc.Salvar(context.Background(), nil, req)
	assert.ErrorIs(t, err, service.ErrAcertoDuplicado)
}

func TestSalvarAcerto_EdicaoReusaDebitoAnterior(t *testing.T) {
	f := newAcertoFixture(t)
	mesa := f.seedMesa(t, "M-001", 100, decimal.Zero)

	criado, err := f.svc.Salvar(context.Background(), nil, dto.SalvarAcertoRequest{
		ClienteID: f.cliente.ID.String(),
		Mesas: []dto.MesaAcertoRequest{
			{MesaID: mesa.ID.String(), RelogioInicial: 100, RelogioFinal: 180},
		},
		Desconto:         decimal.NewFromInt(5),
		MetodosPagamento: map[string]decimal.Decimal{"Dinheiro": decimal.NewFromInt(50)},
	})
	require.NoError(t, err)
	assert.Equal(t, "25", f.cliente.DebitoAtual.String())

	// The representative mistyped the final counter; amend to 100→200.
	// The stored debt snapshot (20) is reused, not the client's current 25:
	// 20 + 75 − 0 − 75 = 20.
	editado, err := f.svc.Salvar(context.Background(), nil, dto.SalvarAcertoRequest{
		ClienteID: f.cliente.ID.String(),
		AcertoID:  &criado.ID,
		Mesas: []dto.MesaAcertoRequest{
			{MesaID: mesa.ID.String(), RelogioInicial: 100, RelogioFinal: 200},
		},
		MetodosPagamento: map[string]decimal.Decimal{"Dinheiro": decimal.NewFromInt(75)},
	})
	require.NoError(t, err)

	assert.Equal(t, criado.ID, editado.ID)
	assert.Equal(t, "20", editado.DebitoAnterior.String())
	assert.Equal(t, "75", editado.ValorTotal.String())
	assert.Equal(t, "20", editado.DebitoAtual.String())
	assert.Equal(t, "20", f.cliente.DebitoAtual.String())
	assert.Equal(t, 200, mesa.RelogioAtual)

	// Lines were replaced wholesale, not appended.
	linhas, err := f.acertoRepo.ListMesas(context.Background(), uuid.MustParse(criado.ID))
	require.NoError(t, err)
	require.Len(t, linhas, 1)
	assert.Equal(t, 200, linhas[0].RelogioFinal)
}

func TestSalvarAcerto_SemCicloAtivo(t *testing.T) {
	f := newAcertoFixture(t)
	mesa := f.seedMesa(t, "M-001", 100, decimal.Zero)
	f.ciclo.Status = model.CicloFinalizado

	_, err := f.svc.Salvar(context.Background(), nil, dto.SalvarAcertoRequest{
		ClienteID: f.cliente.ID.String(),
		Mesas: []dto.MesaAcertoRequest{
			{MesaID: mesa.ID.String(), RelogioInicial: 100, RelogioFinal: 180},
		},
		MetodosPagamento: map[string]decimal.Decimal{},
	})
	assert.ErrorIs(t, err, service.ErrSemCicloAtivo)
}

func TestSalvarAcerto_DescontoMaiorQueTotal(t *testing.T) {
	f := newAcertoFixture(t)
	mesa := f.seedMesa(t, "M-001", 100, decimal.Zero)

	_, err := f.svc.Salvar(context.Background(), nil, dto.SalvarAcertoRequest{
		ClienteID: f.cliente.ID.String(),
		Mesas: []dto.MesaAcertoRequest{
			{MesaID: mesa.ID.String(), RelogioInicial: 100, RelogioFinal: 180},
		},
		Desconto:         decimal.NewFromInt(61),
		MetodosPagamento: map[string]decimal.Decimal{},
	})
	assert.ErrorIs(t, err, service.ErrDescontoMaiorQueTotal)
}

func TestSalvarAcerto_DefeitoExigeFoto(t *testing.T) {
	f := newAcertoFixture(t)
	mesa := f.seedMesa(t, "M-001", 500, decimal.Zero)

	req := dto.SalvarAcertoRequest{
		ClienteID: f.cliente.ID.String(),
		Mesas: []dto.MesaAcertoRequest{
			{MesaID: mesa.ID.String(), RelogioInicial: 500, RelogioFinal: 20, RelogioReiniciou: true},
		},
		MetodosPagamento: map[string]decimal.Decimal{},
	}
	_, err := f.svc.Salvar(context.Background(), nil, req)
	assert.ErrorIs(t, err, service.ErrEvidenciaObrigatoria)

	foto := "s3://relogios/m001.jpg"
	req.Mesas[0].FotoRelogio = &foto
	resp, err := f.svc.Salvar(context.Background(), nil, req)
	require.NoError(t, err)
	// Reset counter bills max(0, 20−500) = 0 plays.
	assert.Equal(t, 0, resp.Mesas[0].FichasJogadas)
	assert.True(t, resp.ValorTotal.IsZero())
}

func TestPrepararAcerto_SemeiaDoUltimoAcerto(t *testing.T) {
	f := newAcertoFixture(t)
	mesa := f.seedMesa(t, "M-001", 100, decimal.Zero)

	_, err := f.svc.Salvar(context.Background(), nil, dto.SalvarAcertoRequest{
		ClienteID: f.cliente.ID.String(),
		Mesas: []dto.MesaAcertoRequest{
			{MesaID: mesa.ID.String(), RelogioInicial: 100, RelogioFinal: 180},
		},
		MetodosPagamento: map[string]decimal.Decimal{"Dinheiro": decimal.NewFromInt(60)},
	})
	require.NoError(t, err)

	prep, err := f.svc.Preparar(context.Background(), f.cliente.ID)
	require.NoError(t, err)
	require.Len(t, prep.Mesas, 1)
	assert.Equal(t, 180, prep.Mesas[0].RelogioInicial)
}
