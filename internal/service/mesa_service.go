package service

import (
	"context"
	"fmt"

	"gestaomesas/internal/dto"
	"gestaomesas/internal/model"
	"gestaomesas/internal/repository"

	"github.com/google/uuid"
)

type MesaService interface {
	Criar(ctx context.Context, req dto.CriarMesaRequest) (*dto.MesaResponse, error)
	BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.MesaResponse, error)
	ListPorCliente(ctx context.Context, clienteID uuid.UUID) ([]dto.MesaResponse, error)
	ListDeposito(ctx context.Context) ([]dto.MesaResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarMesaRequest) (*dto.MesaResponse, error)
	// Transferir moves the table to another client, or to the depot when
	// the request carries no cliente_id. Counter state travels with it.
	Transferir(ctx context.Context, id uuid.UUID, req dto.TransferirMesaRequest) (*dto.MesaResponse, error)
}

type mesaService struct {
	repo        repository.MesaRepository
	clienteRepo repository.ClienteRepository
}

func NewMesaService(repo repository.MesaRepository, clienteRepo repository.ClienteRepository) MesaService {
	return &mesaService{repo: repo, clienteRepo: clienteRepo}
}

func (s *mesaService) Criar(ctx context.Context, req dto.CriarMesaRequest) (*dto.MesaResponse, error) {
	clienteID, err := parseUUIDPtr(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id inválido: %w", err)
	}
	if clienteID != nil {
		cliente, err := s.clienteRepo.FindByID(ctx, *clienteID)
		if err != nil || cliente == nil {
			return nil, ErrClienteNaoEncontrado
		}
	}
	mesa := &model.Mesa{
		Numero:       req.Numero,
		ClienteID:    clienteID,
		ValorFixo:    req.ValorFixo,
		RelogioAtual: req.RelogioAtual,
		Ativa:        true,
	}
	if err := s.repo.Create(ctx, mesa); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	return mesaToResponse(mesa), nil
}

func (s *mesaService) BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.MesaResponse, error) {
	mesa, err := s.repo.FindByID(ctx, id)
	if err != nil || mesa == nil {
		return nil, ErrMesaNaoEncontrada
	}
	return mesaToResponse(mesa), nil
}

func (s *mesaService) ListPorCliente(ctx context.Context, clienteID uuid.UUID) ([]dto.MesaResponse, error) {
	mesas, err := s.repo.ListPorCliente(ctx, clienteID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	return mesasToResponses(mesas), nil
}

func (s *mesaService) ListDeposito(ctx context.Context) ([]dto.MesaResponse, error) {
	mesas, err := s.repo.ListDeposito(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	return mesasToResponses(mesas), nil
}

func (s *mesaService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarMesaRequest) (*dto.MesaResponse, error) {
	mesa, err := s.repo.FindByID(ctx, id)
	if err != nil || mesa == nil {
		return nil, ErrMesaNaoEncontrada
	}
	if req.ValorFixo != nil {
		mesa.ValorFixo = *req.ValorFixo
	}
	if req.RelogioAtual != nil {
		mesa.RelogioAtual = *req.RelogioAtual
	}
	if err := s.repo.Update(ctx, mesa); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	return mesaToResponse(mesa), nil
}

func (s *mesaService) Transferir(ctx context.Context, id uuid.UUID, req dto.TransferirMesaRequest) (*dto.MesaResponse, error) {
	mesa, err := s.repo.FindByID(ctx, id)
	if err != nil || mesa == nil {
		return nil, ErrMesaNaoEncontrada
	}
	clienteID, err := parseUUIDPtr(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id inválido: %w", err)
	}
	if clienteID != nil {
		cliente, err := s.clienteRepo.FindByID(ctx, *clienteID)
		if err != nil || cliente == nil {
			return nil, ErrClienteNaoEncontrado
		}
	}
	if err := s.repo.TransferirParaCliente(ctx, id, clienteID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	mesa.ClienteID = clienteID
	return mesaToResponse(mesa), nil
}

func mesasToResponses(mesas []model.Mesa) []dto.MesaResponse {
	out := make([]dto.MesaResponse, 0, len(mesas))
	for i := range mesas {
		out = append(out, *mesaToResponse(&mesas[i]))
	}
	return out
}

func mesaToResponse(m *model.Mesa) *dto.MesaResponse {
	resp := &dto.MesaResponse{
		ID:           m.ID.String(),
		Numero:       m.Numero,
		ValorFixo:    m.ValorFixo,
		RelogioAtual: m.RelogioAtual,
		Ativa:        m.Ativa,
	}
	if m.ClienteID != nil {
		id := m.ClienteID.String()
		resp.ClienteID = &id
	}
	if m.Cliente != nil {
		resp.ClienteNome = &m.Cliente.Nome
	}
	return resp
}
