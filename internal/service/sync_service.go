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
)

type SyncService interface {
	// Status returns the sync state of one settlement (GET /v1/sync/:acerto_id).
	Status(ctx context.Context, acertoID uuid.UUID) (*dto.SyncStatusResponse, error)
	// Reenviar resets a failed settlement and enqueues it again
	// (POST /v1/sync/:acerto_id/reenviar). Supervisor action.
	Reenviar(ctx context.Context, acertoID uuid.UUID) error
}

type syncService struct {
	repo       repository.AcertoRepository
	dispatcher *worker.Dispatcher
}

func NewSyncService(repo repository.AcertoRepository, dispatcher *worker.Dispatcher) SyncService {
	return &syncService{repo: repo, dispatcher: dispatcher}
}

func (s *syncService) Status(ctx context.Context, acertoID uuid.UUID) (*dto.SyncStatusResponse, error) {
	acerto, err := s.repo.FindByID(ctx, acertoID)
	if err != nil || acerto == nil {
		return nil, ErrAcertoNaoEncontrado
	}
	resp := &dto.SyncStatusResponse{
		AcertoID:   acerto.ID.String(),
		SyncStatus: acerto.SyncStatus,
		RetryCount: acerto.RetryCount,
		LastError:  acerto.LastError,
	}
	if acerto.NextRetryAt != nil {
		t := acerto.NextRetryAt.Format(time.RFC3339)
		resp.NextRetryAt = &t
	}
	return resp, nil
}

func (s *syncService) Reenviar(ctx context.Context, acertoID uuid.UUID) error {
	acerto, err := s.repo.FindByID(ctx, acertoID)
	if err != nil || acerto == nil {
		return ErrAcertoNaoEncontrado
	}
	if acerto.SyncStatus == model.SyncSincronizado {
		return fmt.Errorf("acerto %s já sincronizado", acertoID)
	}
	if err := s.repo.UpdateSyncStatus(ctx, acertoID, model.SyncPendente, 0, nil, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	if s.dispatcher == nil {
		return nil
	}
	if err := s.dispatcher.EnqueueSync(ctx, worker.SyncJobPayload{AcertoID: acertoID.String()}); err != nil {
		// Leave the row visible to the retry cron before reporting.
		retryAt := time.Now().Add(time.Minute)
		_ = s.repo.UpdateSyncStatus(ctx, acertoID, model.SyncPendente, 0, &retryAt, nil)
		return err
	}
	return nil
}
