package service

import (
	"context"
	"fmt"
	"time"

	"gestaomesas/internal/dto"
	"gestaomesas/internal/model"
	"gestaomesas/internal/repository"

	"github.com/google/uuid"
)

type DespesaService interface {
	// Registrar records an expense against the route's open cycle and
	// refreshes the cycle rollup.
	Registrar(ctx context.Context, req dto.RegistrarDespesaRequest) (*dto.DespesaResponse, error)
	ListPorCiclo(ctx context.Context, cicloID uuid.UUID) ([]dto.DespesaResponse, error)
}

type despesaService struct {
	repo      repository.DespesaRepository
	cicloRepo repository.CicloRepository
	ciclos    CicloService
}

func NewDespesaService(
	repo repository.DespesaRepository,
	cicloRepo repository.CicloRepository,
	ciclos CicloService,
) DespesaService {
	return &despesaService{repo: repo, cicloRepo: cicloRepo, ciclos: ciclos}
}

func (s *despesaService) Registrar(ctx context.Context, req dto.RegistrarDespesaRequest) (*dto.DespesaResponse, error) {
	rotaID, err := uuid.Parse(req.RotaID)
	if err != nil {
		return nil, fmt.Errorf("rota_id inválido: %w", err)
	}
	ciclo, err := s.cicloRepo.FindAtivoPorRota(ctx, rotaID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	if ciclo == nil {
		return nil, ErrSemCicloAtivo
	}

	despesa := &model.Despesa{
		RotaID:    rotaID,
		CicloID:   ciclo.ID,
		Categoria: req.Categoria,
		Descricao: req.Descricao,
		Valor:     req.Valor,
	}
	if err := s.repo.Create(ctx, despesa); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}

	if err := s.ciclos.AtualizarValoresCiclo(ctx, ciclo.ID); err != nil {
		return nil, err
	}
	return despesaToResponse(despesa), nil
}

func (s *despesaService) ListPorCiclo(ctx context.Context, cicloID uuid.UUID) ([]dto.DespesaResponse, error) {
	despesas, err := s.repo.ListPorCiclo(ctx, cicloID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	out := make([]dto.DespesaResponse, 0, len(despesas))
	for i := range despesas {
		out = append(out, *despesaToResponse(&despesas[i]))
	}
	return out, nil
}

func despesaToResponse(d *model.Despesa) *dto.DespesaResponse {
	return &dto.DespesaResponse{
		ID:        d.ID.String(),
		RotaID:    d.RotaID.String(),
		CicloID:   d.CicloID.String(),
		Categoria: d.Categoria,
		Descricao: d.Descricao,
		Valor:     d.Valor,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
}
