package service

import (
	"context"
	"fmt"
	"time"

	"gestaomesas/internal/dto"
	"gestaomesas/internal/model"
	"gestaomesas/internal/repository"
	"gestaomesas/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AcertoService interface {
	// Preparar assembles everything the representative needs on arrival:
	// the open cycle, carried debt, and each table's seeded initial counter.
	Preparar(ctx context.Context, clienteID uuid.UUID) (*dto.PreparacaoAcertoResponse, error)
	// Salvar finalizes a settlement. Create mode when req.AcertoID is nil,
	// edit mode otherwise.
	Salvar(ctx context.Context, colaboradorID *uuid.UUID, req dto.SalvarAcertoRequest) (*dto.AcertoResponse, error)
	BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.AcertoResponse, error)
	HistoricoPorCliente(ctx context.Context, clienteID uuid.UUID, limit int) ([]dto.AcertoListItem, error)
	ListPorCiclo(ctx context.Context, cicloID uuid.UUID) ([]dto.AcertoListItem, error)
}

type acertoService struct {
	repo        repository.AcertoRepository
	clienteRepo repository.ClienteRepository
	cicloRepo   repository.CicloRepository
	mesaRepo    repository.MesaRepository
	ciclos      CicloService
	dispatcher  *worker.Dispatcher
}

func NewAcertoService(
	repo repository.AcertoRepository,
	clienteRepo repository.ClienteRepository,
	cicloRepo repository.CicloRepository,
	mesaRepo repository.MesaRepository,
	ciclos CicloService,
	dispatcher *worker.Dispatcher,
) AcertoService {
	return &acertoService{
		repo:        repo,
		clienteRepo: clienteRepo,
		cicloRepo:   cicloRepo,
		mesaRepo:    mesaRepo,
		ciclos:      ciclos,
		dispatcher:  dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *acertoService) Preparar(ctx context.Context, clienteID uuid.UUID) (*dto.PreparacaoAcertoResponse, error) {
	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil || cliente == nil {
		return nil, ErrClienteNaoEncontrado
	}
	ciclo, err := s.cicloRepo.FindAtivoPorRota(ctx, cliente.RotaID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	if ciclo == nil {
		return nil, ErrSemCicloAtivo
	}

	mesas, err := s.mesaRepo.ListPorCliente(ctx, clienteID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}

	preparadas := make([]dto.MesaPreparadaResponse, 0, len(mesas))
	for i := range mesas {
		m := &mesas[i]
		inicial, err := s.relogioInicial(ctx, m)
		if err != nil {
			return nil, err
		}
		preparadas = append(preparadas, dto.MesaPreparadaResponse{
			MesaID:         m.ID.String(),
			Numero:         m.Numero,
			ValorFixo:      m.ValorFixo,
			RelogioInicial: inicial,
		})
	}

	return &dto.PreparacaoAcertoResponse{
		ClienteID:      cliente.ID.String(),
		ClienteNome:    cliente.Nome,
		CicloID:        ciclo.ID.String(),
		CicloTitulo:    ciclo.Titulo(),
		DebitoAnterior: cliente.DebitoAtual,
		ComissaoFicha:  cliente.ComissaoFicha,
		Mesas:          preparadas,
	}, nil
}

// relogioInicial seeds a table's initial counter from its last finalized
// settlement line, falling back to the counter registered on the table.
func (s *acertoService) relogioInicial(ctx context.Context, m *model.Mesa) (int, error) {
	linha, err := s.repo.UltimaLinhaFinalizadaPorMesa(ctx, m.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	if linha != nil {
		return linha.RelogioFinal, nil
	}
	return m.RelogioAtual, nil
}

// ── Salvar ───────────────────────────────────────────────────────────────────
// Full settlement save:
//  1. Resolve client, open cycle, and mode (create vs edit)
//  2. Validate every table line and the discount; compute all amounts
//  3. BEGIN TX: upsert acerto, regenerate lines, rewrite the client's debt
//     mirror, advance each counter-billed table's relógio
//  4. COMMIT
//  5. Recompute the cycle rollup from the full settlement set
//  6. (async) enqueue the cloud sync job

func (s *acertoService) Salvar(ctx context.Context, colaboradorID *uuid.UUID, req dto.SalvarAcertoRequest) (*dto.AcertoResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id inválido: %w", err)
	}
	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil || cliente == nil {
		return nil, ErrClienteNaoEncontrado
	}

	ciclo, err := s.cicloRepo.FindAtivoPorRota(ctx, cliente.RotaID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	if ciclo == nil {
		return nil, ErrSemCicloAtivo
	}

	// Resolve mode. Edit reuses the stored debt snapshot so recomputation
	// does not double-apply the previous settlement's effect.
	modoEdicao := req.AcertoID != nil
	var acerto *model.Acerto
	var debitoAnterior decimal.Decimal
	if modoEdicao {
		acertoID, err := uuid.Parse(*req.AcertoID)
		if err != nil {
			return nil, fmt.Errorf("acerto_id inválido: %w", err)
		}
		acerto, err = s.repo.FindByID(ctx, acertoID)
		if err != nil || acerto == nil {
			return nil, ErrAcertoNaoEncontrado
		}
		debitoAnterior = acerto.DebitoAnterior
	} else {
		existente, err := s.repo.FindFinalizadoPorClienteECiclo(ctx, clienteID, ciclo.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
		}
		if err := ValidarUnicidade(clienteID, ciclo.ID, existente, false); err != nil {
			return nil, err
		}
		debitoAnterior = cliente.DebitoAtual
	}

	// Resolve tables and compute lines (pre-flight, outside TX).
	type linhaResolvida struct {
		mesa  *model.Mesa
		linha model.AcertoMesa
	}
	resolvidas := make([]linhaResolvida, 0, len(req.Mesas))
	vistas := make(map[uuid.UUID]struct{}, len(req.Mesas))
	valorTotal := decimal.Zero
	for _, lm := range req.Mesas {
		mesaID, err := uuid.Parse(lm.MesaID)
		if err != nil {
			return nil, fmt.Errorf("mesa_id inválido: %w", err)
		}
		// One line per table. A repeated mesa_id would double-bill the
		// subtotal and advance the counter twice.
		if _, dup := vistas[mesaID]; dup {
			return nil, &ValidacaoError{Err: ErrMesaDuplicada, Detalhe: lm.MesaID}
		}
		vistas[mesaID] = struct{}{}
		mesa, err := s.mesaRepo.FindByID(ctx, mesaID)
		if err != nil || mesa == nil {
			return nil, &ValidacaoError{Err: ErrMesaNaoEncontrada, Detalhe: lm.MesaID}
		}

		temFoto := lm.FotoRelogio != nil && *lm.FotoRelogio != ""
		if err := ValidarLinhaMesa(lm.RelogioInicial, lm.RelogioFinal, lm.ComDefeito, lm.RelogioReiniciou, temFoto); err != nil {
			return nil, err
		}

		calc := MesaCalculo{
			RelogioInicial:   lm.RelogioInicial,
			RelogioFinal:     lm.RelogioFinal,
			ValorFixo:        mesa.ValorFixo,
			ComDefeito:       lm.ComDefeito,
			RelogioReiniciou: lm.RelogioReiniciou,
		}
		fichas, subtotal := CalcularSubtotalMesa(calc, cliente.ComissaoFicha)
		valorTotal = valorTotal.Add(subtotal)

		resolvidas = append(resolvidas, linhaResolvida{
			mesa: mesa,
			linha: model.AcertoMesa{
				MesaID:           mesaID,
				RelogioInicial:   lm.RelogioInicial,
				RelogioFinal:     lm.RelogioFinal,
				FichasJogadas:    fichas,
				ValorFixo:        mesa.ValorFixo,
				ComissaoFicha:    cliente.ComissaoFicha,
				Subtotal:         subtotal,
				ComDefeito:       lm.ComDefeito,
				RelogioReiniciou: lm.RelogioReiniciou,
				FotoRelogio:      lm.FotoRelogio,
			},
		})
	}

	if err := ValidarDesconto(valorTotal, req.Desconto); err != nil {
		return nil, err
	}

	valorComDesconto := CalcularValorComDesconto(valorTotal, req.Desconto)
	valorRecebido := CalcularValorRecebido(req.MetodosPagamento)
	debitoAtual := CalcularDebitoAtual(debitoAnterior, valorTotal, req.Desconto, valorRecebido)

	pagamentosJSON, err := CodificarMetodosPagamento(req.MetodosPagamento)
	if err != nil {
		return nil, fmt.Errorf("metodos_pagamento inválidos: %w", err)
	}

	now := time.Now()
	if !modoEdicao {
		acerto = &model.Acerto{
			ClienteID:  clienteID,
			RotaID:     cliente.RotaID,
			CicloID:    ciclo.ID,
			DataAcerto: now,
		}
	}
	acerto.ColaboradorID = colaboradorID
	acerto.TotalMesas = len(resolvidas)
	acerto.DebitoAnterior = debitoAnterior
	acerto.ValorTotal = valorTotal
	acerto.Desconto = req.Desconto
	acerto.ValorComDesconto = valorComDesconto
	acerto.ValorRecebido = valorRecebido
	acerto.DebitoAtual = debitoAtual
	acerto.Status = model.AcertoFinalizado
	acerto.MetodosPagamentoJSON = &pagamentosJSON
	acerto.Observacoes = req.Observacoes
	acerto.TermosConfissaoDivida = req.TermosConfissaoDivida
	acerto.Representante = req.Representante
	acerto.SyncStatus = model.SyncPendente
	acerto.DataFinalizacao = &now

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if modoEdicao {
			acerto.Mesas = nil
			if err := s.repo.Update(ctx, tx, acerto); err != nil {
				return err
			}
			linhas := make([]model.AcertoMesa, 0, len(resolvidas))
			for _, r := range resolvidas {
				l := r.linha
				l.AcertoID = acerto.ID
				linhas = append(linhas, l)
			}
			if err := s.repo.ReplaceMesas(ctx, tx, acerto.ID, linhas); err != nil {
				return err
			}
			acerto.Mesas = linhas
		} else {
			for _, r := range resolvidas {
				acerto.Mesas = append(acerto.Mesas, r.linha)
			}
			if err := s.repo.Create(ctx, tx, acerto); err != nil {
				return err
			}
		}

		if err := s.clienteRepo.UpdateDebitoTx(tx, clienteID, debitoAtual); err != nil {
			return err
		}

		// Advance each counter-billed table so the next settlement seeds
		// from this visit's final reading. Flat-fee tables keep theirs.
		for _, r := range resolvidas {
			if r.mesa.CobraValorFixo() {
				continue
			}
			if err := s.mesaRepo.UpdateRelogioTx(tx, r.mesa.ID, r.linha.RelogioFinal); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, txErr)
	}

	// Rollup is recomputed from the full set, never incremented.
	if err := s.ciclos.AtualizarValoresCiclo(ctx, ciclo.ID); err != nil {
		return nil, err
	}

	// Async cloud sync. When the enqueue itself fails (Redis down), the
	// row must carry a next_retry_at or the cron will never see it.
	if s.dispatcher != nil {
		payload := worker.SyncJobPayload{AcertoID: acerto.ID.String()}
		if err := s.dispatcher.EnqueueSync(ctx, payload); err != nil {
			log.Error().Err(err).Str("acerto_id", acerto.ID.String()).
				Msg("falha ao enfileirar sync; agendado para o retry cron")
			retryAt := time.Now().Add(time.Minute)
			if upErr := s.repo.UpdateSyncStatus(ctx, acerto.ID, model.SyncPendente, 0, &retryAt, nil); upErr != nil {
				log.Error().Err(upErr).Str("acerto_id", acerto.ID.String()).
					Msg("falha ao agendar retry de sync")
			}
		}
	}

	resp := acertoToResponse(acerto)
	resp.ClienteNome = cliente.Nome
	for i, r := range resolvidas {
		resp.Mesas[i].MesaNumero = r.mesa.Numero
	}
	return resp, nil
}

func (s *acertoService) BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.AcertoResponse, error) {
	acerto, err := s.repo.FindByID(ctx, id)
	if err != nil || acerto == nil {
		return nil, ErrAcertoNaoEncontrado
	}
	return acertoToResponse(acerto), nil
}

func (s *acertoService) HistoricoPorCliente(ctx context.Context, clienteID uuid.UUID, limit int) ([]dto.AcertoListItem, error) {
	if limit < 1 {
		limit = 50
	}
	acertos, err := s.repo.ListPorCliente(ctx, clienteID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	return acertosToListItems(acertos), nil
}

func (s *acertoService) ListPorCiclo(ctx context.Context, cicloID uuid.UUID) ([]dto.AcertoListItem, error) {
	acertos, err := s.repo.ListPorCiclo(ctx, cicloID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	return acertosToListItems(acertos), nil
}

func acertosToListItems(acertos []model.Acerto) []dto.AcertoListItem {
	items := make([]dto.AcertoListItem, 0, len(acertos))
	for i := range acertos {
		a := &acertos[i]
		items = append(items, dto.AcertoListItem{
			ID:            a.ID.String(),
			ClienteID:     a.ClienteID.String(),
			CicloID:       a.CicloID.String(),
			TotalMesas:    a.TotalMesas,
			ValorTotal:    a.ValorTotal,
			ValorRecebido: a.ValorRecebido,
			DebitoAtual:   a.DebitoAtual,
			Status:        a.Status,
			DataAcerto:    a.DataAcerto.Format(time.RFC3339),
		})
	}
	return items
}

func acertoToResponse(a *model.Acerto) *dto.AcertoResponse {
	mesas := make([]dto.MesaAcertoResponse, 0, len(a.Mesas))
	for i := range a.Mesas {
		l := &a.Mesas[i]
		numero := ""
		if l.Mesa != nil {
			numero = l.Mesa.Numero
		}
		mesas = append(mesas, dto.MesaAcertoResponse{
			MesaID:           l.MesaID.String(),
			MesaNumero:       numero,
			RelogioInicial:   l.RelogioInicial,
			RelogioFinal:     l.RelogioFinal,
			FichasJogadas:    l.FichasJogadas,
			ValorFixo:        l.ValorFixo,
			ComissaoFicha:    l.ComissaoFicha,
			Subtotal:         l.Subtotal,
			ComDefeito:       l.ComDefeito,
			RelogioReiniciou: l.RelogioReiniciou,
			FotoRelogio:      l.FotoRelogio,
		})
	}

	metodos, err := DecodificarMetodosPagamento(a.MetodosPagamentoJSON)
	if err != nil {
		metodos = map[string]decimal.Decimal{}
	}

	nome := ""
	if a.Cliente != nil {
		nome = a.Cliente.Nome
	}
	return &dto.AcertoResponse{
		ID:               a.ID.String(),
		ClienteID:        a.ClienteID.String(),
		ClienteNome:      nome,
		RotaID:           a.RotaID.String(),
		CicloID:          a.CicloID.String(),
		TotalMesas:       a.TotalMesas,
		Mesas:            mesas,
		DebitoAnterior:   a.DebitoAnterior,
		ValorTotal:       a.ValorTotal,
		Desconto:         a.Desconto,
		ValorComDesconto: a.ValorComDesconto,
		ValorRecebido:    a.ValorRecebido,
		DebitoAtual:      a.DebitoAtual,
		MetodosPagamento: metodos,
		Status:           a.Status,
		SyncStatus:       a.SyncStatus,
		Observacoes:      a.Observacoes,
		DataAcerto:       a.DataAcerto.Format(time.RFC3339),
	}
}
