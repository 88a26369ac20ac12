package service

import (
	"context"
	"fmt"

	"gestaomesas/internal/dto"
	"gestaomesas/internal/model"
	"gestaomesas/internal/repository"

	"github.com/google/uuid"
)

type ClienteService interface {
	Criar(ctx context.Context, req dto.CriarClienteRequest) (*dto.ClienteResponse, error)
	BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	ListPorRota(ctx context.Context, rotaID uuid.UUID, incluirInativos bool) ([]dto.ClienteResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarClienteRequest) (*dto.ClienteResponse, error)
	// Desativar soft-deletes: settlements keep referencing the client, so
	// rows are never removed.
	Desativar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Criar(ctx context.Context, req dto.CriarClienteRequest) (*dto.ClienteResponse, error) {
	rotaID, err := uuid.Parse(req.RotaID)
	if err != nil {
		return nil, fmt.Errorf("rota_id inválido: %w", err)
	}
	cliente := &model.Cliente{
		RotaID:        rotaID,
		Nome:          req.Nome,
		Endereco:      req.Endereco,
		Telefone:      req.Telefone,
		ComissaoFicha: req.ComissaoFicha,
		Ativo:         true,
	}
	if err := s.repo.Create(ctx, cliente); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	return clienteToResponse(cliente), nil
}

func (s *clienteService) BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil || cliente == nil {
		return nil, ErrClienteNaoEncontrado
	}
	return clienteToResponse(cliente), nil
}

func (s *clienteService) ListPorRota(ctx context.Context, rotaID uuid.UUID, incluirInativos bool) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.ListPorRota(ctx, rotaID, incluirInativos)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	out := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		out = append(out, *clienteToResponse(&clientes[i]))
	}
	return out, nil
}

func (s *clienteService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarClienteRequest) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil || cliente == nil {
		return nil, ErrClienteNaoEncontrado
	}
	if req.Nome != "" {
		cliente.Nome = req.Nome
	}
	if req.Endereco != nil {
		cliente.Endereco = req.Endereco
	}
	if req.Telefone != nil {
		cliente.Telefone = req.Telefone
	}
	if req.ComissaoFicha != nil {
		cliente.ComissaoFicha = *req.ComissaoFicha
	}
	if err := s.repo.Update(ctx, cliente); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	return clienteToResponse(cliente), nil
}

func (s *clienteService) Desativar(ctx context.Context, id uuid.UUID) error {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil || cliente == nil {
		return ErrClienteNaoEncontrado
	}
	return s.repo.Desativar(ctx, id)
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:            c.ID.String(),
		RotaID:        c.RotaID.String(),
		Nome:          c.Nome,
		Endereco:      c.Endereco,
		Telefone:      c.Telefone,
		ComissaoFicha: c.ComissaoFicha,
		DebitoAtual:   c.DebitoAtual,
		TotalMesas:    len(c.Mesas),
		Ativo:         c.Ativo,
	}
}
