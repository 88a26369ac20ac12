package worker

// retry_cron.go
// Background goroutine that periodically re-attempts cloud replication for
// acertos stuck in sync_status='pendente' with a next_retry_at in the past.
// Uses the Circuit Breaker to avoid hammering a downed sync API.

import (
	"context"
	"fmt"
	"time"

	"gestaomesas/internal/infra"
	"gestaomesas/internal/model"
	"gestaomesas/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	AcertoRepo repository.AcertoRepository
	SyncClient *infra.SyncClient
	CB         *infra.CircuitBreaker
	RDB        *redis.Client
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries acertos due for retry, and re-attempts the sync through the CB.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If CB is open, skip entirely — don't hammer a downed API
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	now := time.Now()
	acertos, err := cfg.AcertoRepo.ListPendingSync(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending syncs")
		return
	}

	if len(acertos) == 0 {
		return
	}

	log.Info().Int("count", len(acertos)).Msg("retry_cron: processing pending acertos")

	for i := range acertos {
		acerto := &acertos[i]

		// Check CB state before each call — it may have tripped mid-batch
		if cfg.CB.State() == infra.CBOpen {
			log.Debug().Msg("retry_cron: circuit breaker opened mid-batch, stopping")
			return
		}

		var syncResp *infra.SyncResponse
		cbErr := cfg.CB.Execute(func() error {
			resp, err := cfg.SyncClient.EnviarAcerto(ctx, buildSyncPayload(acerto))
			if err != nil {
				return err
			}
			syncResp = resp
			return nil
		})

		if cbErr != nil {
			retryCount := acerto.RetryCount + 1
			errMsg := cbErr.Error()

			if retryCount >= MaxSyncRetries {
				_ = cfg.AcertoRepo.UpdateSyncStatus(ctx, acerto.ID, model.SyncErro, retryCount, nil, &errMsg)
				log.Error().
					Str("acerto_id", acerto.ID.String()).
					Int("retries", retryCount).
					Msg("retry_cron: max retries exceeded, moving to erro/DLQ")

				// Send to DLQ for manual inspection
				payload := fmt.Sprintf(`{"acerto_id":"%s"}`, acerto.ID)
				SendToDLQ(ctx, cfg.RDB, QueueSync, "sync", []byte(payload),
					fmt.Sprintf("max retries (%d) exceeded: %s", MaxSyncRetries, errMsg),
					retryCount)
			} else {
				nextRetry := time.Now().Add(computeRetryBackoff(retryCount))
				_ = cfg.AcertoRepo.UpdateSyncStatus(ctx, acerto.ID, model.SyncPendente, retryCount, &nextRetry, &errMsg)
				log.Warn().
					Str("acerto_id", acerto.ID.String()).
					Int("retry_count", retryCount).
					Time("next_retry_at", nextRetry).
					Msg("retry_cron: sync retry failed, scheduled next attempt")
			}
			continue
		}

		// Success path
		if syncResp != nil && syncResp.Status != "ok" {
			msg := syncResp.Mensagem
			_ = cfg.AcertoRepo.UpdateSyncStatus(ctx, acerto.ID, model.SyncErro, acerto.RetryCount, nil, &msg)
			log.Warn().
				Str("acerto_id", acerto.ID.String()).
				Str("mensagem", msg).
				Msg("retry_cron: rejected by sync api on retry")
			continue
		}

		_ = cfg.AcertoRepo.UpdateSyncStatus(ctx, acerto.ID, model.SyncSincronizado, acerto.RetryCount, nil, nil)
		log.Info().
			Str("acerto_id", acerto.ID.String()).
			Int("total_retries", acerto.RetryCount).
			Msg("retry_cron: acerto synchronized after retry")
	}
}
