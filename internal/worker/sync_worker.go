package worker

// sync_worker.go
// Processes settlement replication jobs from QueueSync. Sends the finalized
// settlement to the cloud sync API through the circuit breaker and records
// the outcome on the acerto's sync fields. Immediate failures get a short
// in-process retry; anything beyond that is left to the retry cron.

import (
	"context"
	"encoding/json"
	"time"

	"gestaomesas/internal/infra"
	"gestaomesas/internal/model"
	"gestaomesas/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxSyncRetries is the total attempt budget across worker and cron before
// a settlement lands in the DLQ.
const MaxSyncRetries = 5

type SyncWorker struct {
	client     *infra.SyncClient
	cb         *infra.CircuitBreaker
	acertoRepo repository.AcertoRepository
}

func NewSyncWorker(client *infra.SyncClient, cb *infra.CircuitBreaker, acertoRepo repository.AcertoRepository) *SyncWorker {
	return &SyncWorker{client: client, cb: cb, acertoRepo: acertoRepo}
}

// Process handles a single sync job:
//  1. Parse SyncJobPayload from the job envelope
//  2. Fetch the Acerto from DB; skip if already synchronized
//  3. POST to the sync API with a short in-process retry (3 attempts)
//  4. Record the outcome (sincronizado / scheduled retry / erro)
func (w *SyncWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload SyncJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("sync_worker: invalid payload")
		return
	}

	acertoID, err := uuid.Parse(payload.AcertoID)
	if err != nil {
		log.Error().Str("acerto_id", payload.AcertoID).Msg("sync_worker: invalid acerto_id")
		return
	}

	acerto, err := w.acertoRepo.FindByID(ctx, acertoID)
	if err != nil || acerto == nil {
		log.Error().Err(err).Str("acerto_id", payload.AcertoID).Msg("sync_worker: acerto not found")
		return
	}
	if acerto.SyncStatus == model.SyncSincronizado {
		return
	}

	var syncResp *infra.SyncResponse
	sendErr := withRetry(ctx, 3, func(attempt int) error {
		return w.cb.Execute(func() error {
			resp, err := w.client.EnviarAcerto(ctx, buildSyncPayload(acerto))
			if err != nil {
				log.Warn().
					Err(err).
					Int("attempt", attempt+1).
					Str("acerto_id", payload.AcertoID).
					Msg("sync_worker: attempt failed, retrying")
				return err
			}
			syncResp = resp
			return nil
		})
	})

	if sendErr != nil {
		// Schedule the cron to pick it up later. RetryCount accumulates
		// across cron passes, not in-process attempts.
		retryCount := acerto.RetryCount + 1
		errMsg := sendErr.Error()
		if retryCount >= MaxSyncRetries {
			_ = w.acertoRepo.UpdateSyncStatus(ctx, acertoID, model.SyncErro, retryCount, nil, &errMsg)
			log.Error().
				Str("acerto_id", payload.AcertoID).
				Int("retries", retryCount).
				Msg("sync_worker: max retries exceeded")
			return
		}
		nextRetry := time.Now().Add(computeRetryBackoff(retryCount))
		_ = w.acertoRepo.UpdateSyncStatus(ctx, acertoID, model.SyncPendente, retryCount, &nextRetry, &errMsg)
		log.Warn().
			Str("acerto_id", payload.AcertoID).
			Int("retry_count", retryCount).
			Time("next_retry_at", nextRetry).
			Msg("sync_worker: failed, scheduled for retry cron")
		return
	}

	if syncResp != nil && syncResp.Status != "ok" {
		// The API refused the settlement; retrying won't change its mind.
		msg := syncResp.Mensagem
		_ = w.acertoRepo.UpdateSyncStatus(ctx, acertoID, model.SyncErro, acerto.RetryCount, nil, &msg)
		log.Warn().
			Str("acerto_id", payload.AcertoID).
			Str("mensagem", msg).
			Msg("sync_worker: rejected by sync api")
		return
	}

	_ = w.acertoRepo.UpdateSyncStatus(ctx, acertoID, model.SyncSincronizado, acerto.RetryCount, nil, nil)
	log.Info().Str("acerto_id", payload.AcertoID).Msg("sync_worker: acerto synchronized")
}

// buildSyncPayload flattens the acerto into the wire snapshot. Monetary
// fields travel as decimal strings.
func buildSyncPayload(a *model.Acerto) infra.SyncPayload {
	p := infra.SyncPayload{
		AcertoID:       a.ID.String(),
		ClienteID:      a.ClienteID.String(),
		RotaID:         a.RotaID.String(),
		CicloID:        a.CicloID.String(),
		TotalMesas:     a.TotalMesas,
		DebitoAnterior: a.DebitoAnterior.String(),
		ValorTotal:     a.ValorTotal.String(),
		Desconto:       a.Desconto.String(),
		ValorRecebido:  a.ValorRecebido.String(),
		DebitoAtual:    a.DebitoAtual.String(),
		DataAcerto:     a.DataAcerto.UTC().Format(time.RFC3339),
	}
	if a.MetodosPagamentoJSON != nil {
		p.MetodosPagamento = json.RawMessage(*a.MetodosPagamentoJSON)
	}
	return p
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// computeRetryBackoff returns the cron backoff for the Nth retry:
// 1m, 2m, 4m, 8m … capped at 30m.
func computeRetryBackoff(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	backoff := time.Duration(1<<uint(retryCount-1)) * time.Minute
	if backoff > 30*time.Minute {
		backoff = 30 * time.Minute
	}
	return backoff
}
