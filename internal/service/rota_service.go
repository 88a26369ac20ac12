package service

import (
	"context"
	"errors"
	"fmt"

	"gestaomesas/internal/dto"
	"gestaomesas/internal/model"
	"gestaomesas/internal/repository"

	"github.com/google/uuid"
)

var ErrRotaNaoEncontrada = errors.New("rota não encontrada")

type RotaService interface {
	Criar(ctx context.Context, req dto.CriarRotaRequest) (*dto.RotaResponse, error)
	BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.RotaResponse, error)
	Listar(ctx context.Context, incluirInativas bool) ([]dto.RotaResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarRotaRequest) (*dto.RotaResponse, error)
}

type rotaService struct {
	repo        repository.RotaRepository
	clienteRepo repository.ClienteRepository
}

func NewRotaService(repo repository.RotaRepository, clienteRepo repository.ClienteRepository) RotaService {
	return &rotaService{repo: repo, clienteRepo: clienteRepo}
}

func (s *rotaService) Criar(ctx context.Context, req dto.CriarRotaRequest) (*dto.RotaResponse, error) {
	rota := &model.Rota{
		Nome:      req.Nome,
		Descricao: req.Descricao,
		Ativo:     true,
	}
	if err := s.repo.Create(ctx, rota); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	return rotaToResponse(rota, 0), nil
}

func (s *rotaService) BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.RotaResponse, error) {
	rota, err := s.repo.FindByID(ctx, id)
	if err != nil || rota == nil {
		return nil, ErrRotaNaoEncontrada
	}
	clientes, err := s.clienteRepo.ListPorRota(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	return rotaToResponse(rota, len(clientes)), nil
}

func (s *rotaService) Listar(ctx context.Context, incluirInativas bool) ([]dto.RotaResponse, error) {
	rotas, err := s.repo.ListAll(ctx, incluirInativas)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	out := make([]dto.RotaResponse, 0, len(rotas))
	for i := range rotas {
		clientes, err := s.clienteRepo.ListPorRota(ctx, rotas[i].ID, false)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
		}
		out = append(out, *rotaToResponse(&rotas[i], len(clientes)))
	}
	return out, nil
}

func (s *rotaService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarRotaRequest) (*dto.RotaResponse, error) {
	rota, err := s.repo.FindByID(ctx, id)
	if err != nil || rota == nil {
		return nil, ErrRotaNaoEncontrada
	}
	if req.Nome != "" {
		rota.Nome = req.Nome
	}
	if req.Descricao != nil {
		rota.Descricao = req.Descricao
	}
	if err := s.repo.Update(ctx, rota); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	return rotaToResponse(rota, 0), nil
}

func rotaToResponse(r *model.Rota, totalClientes int) *dto.RotaResponse {
	return &dto.RotaResponse{
		ID:            r.ID.String(),
		Nome:          r.Nome,
		Descricao:     r.Descricao,
		TotalClientes: totalClientes,
		Ativo:         r.Ativo,
	}
}
