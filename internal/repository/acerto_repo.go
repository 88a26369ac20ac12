package repository

import (
	"context"
	"errors"
	"time"

	"gestaomesas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AcertoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, a *model.Acerto) error
	Update(ctx context.Context, tx *gorm.DB, a *model.Acerto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Acerto, error)
	// FindFinalizadoPorClienteECiclo returns nil (no error) when the client
	// has no finalized settlement in the cycle.
	FindFinalizadoPorClienteECiclo(ctx context.Context, clienteID, cicloID uuid.UUID) (*model.Acerto, error)
	// UltimaLinhaFinalizadaPorMesa returns the table line of the table's most
	// recent finalized settlement, nil when the table was never settled.
	UltimaLinhaFinalizadaPorMesa(ctx context.Context, mesaID uuid.UUID) (*model.AcertoMesa, error)
	ListPorCiclo(ctx context.Context, cicloID uuid.UUID) ([]model.Acerto, error)
	ListPorCliente(ctx context.Context, clienteID uuid.UUID, limit int) ([]model.Acerto, error)
	ReplaceMesas(ctx context.Context, tx *gorm.DB, acertoID uuid.UUID, mesas []model.AcertoMesa) error
	ListMesas(ctx context.Context, acertoID uuid.UUID) ([]model.AcertoMesa, error)
	// ListPendingSync feeds the retry cron: settlements whose cloud
	// replication failed and whose backoff window has elapsed.
	ListPendingSync(ctx context.Context, before time.Time, limit int) ([]model.Acerto, error)
	UpdateSyncStatus(ctx context.Context, id uuid.UUID, status string, retryCount int, nextRetryAt *time.Time, lastError *string) error
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type acertoRepo struct{ db *gorm.DB }

func NewAcertoRepository(db *gorm.DB) AcertoRepository { return &acertoRepo{db: db} }

func (r *acertoRepo) DB() *gorm.DB { return r.db }

func (r *acertoRepo) Create(ctx context.Context, tx *gorm.DB, a *model.Acerto) error {
	return tx.WithContext(ctx).Create(a).Error
}

func (r *acertoRepo) Update(ctx context.Context, tx *gorm.DB, a *model.Acerto) error {
	return tx.WithContext(ctx).Save(a).Error
}

func (r *acertoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Acerto, error) {
	var a model.Acerto
	err := r.db.WithContext(ctx).Preload("Mesas").First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *acertoRepo) FindFinalizadoPorClienteECiclo(ctx context.Context, clienteID, cicloID uuid.UUID) (*model.Acerto, error) {
	var a model.Acerto
	err := r.db.WithContext(ctx).
		Where("cliente_id = ? AND ciclo_id = ? AND status = ?", clienteID, cicloID, model.AcertoFinalizado).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *acertoRepo) UltimaLinhaFinalizadaPorMesa(ctx context.Context, mesaID uuid.UUID) (*model.AcertoMesa, error) {
	var linha model.AcertoMesa
	err := r.db.WithContext(ctx).
		Joins("JOIN acertos ON acertos.id = acerto_mesas.acerto_id").
		Where("acerto_mesas.mesa_id = ? AND acertos.status = ?", mesaID, model.AcertoFinalizado).
		Order("acertos.data_acerto DESC").
		First(&linha).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &linha, nil
}

func (r *acertoRepo) ListPorCiclo(ctx context.Context, cicloID uuid.UUID) ([]model.Acerto, error) {
	var acertos []model.Acerto
	err := r.db.WithContext(ctx).
		Where("ciclo_id = ? AND status <> ?", cicloID, model.AcertoCancelado).
		Order("data_acerto ASC").
		Find(&acertos).Error
	return acertos, err
}

func (r *acertoRepo) ListPorCliente(ctx context.Context, clienteID uuid.UUID, limit int) ([]model.Acerto, error) {
	var acertos []model.Acerto
	q := r.db.WithContext(ctx).
		Where("cliente_id = ?", clienteID).
		Order("data_acerto DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&acertos).Error
	return acertos, err
}

// ReplaceMesas deletes and re-inserts the settlement's full line set. Used
// by edit mode; must run inside the caller's transaction.
func (r *acertoRepo) ReplaceMesas(ctx context.Context, tx *gorm.DB, acertoID uuid.UUID, mesas []model.AcertoMesa) error {
	if err := tx.WithContext(ctx).Where("acerto_id = ?", acertoID).Delete(&model.AcertoMesa{}).Error; err != nil {
		return err
	}
	if len(mesas) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&mesas).Error
}

func (r *acertoRepo) ListMesas(ctx context.Context, acertoID uuid.UUID) ([]model.AcertoMesa, error) {
	var mesas []model.AcertoMesa
	err := r.db.WithContext(ctx).Where("acerto_id = ?", acertoID).Find(&mesas).Error
	return mesas, err
}

func (r *acertoRepo) ListPendingSync(ctx context.Context, before time.Time, limit int) ([]model.Acerto, error) {
	var acertos []model.Acerto
	err := r.db.WithContext(ctx).
		Where("sync_status = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", model.SyncPendente, before).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&acertos).Error
	return acertos, err
}

func (r *acertoRepo) UpdateSyncStatus(ctx context.Context, id uuid.UUID, status string, retryCount int, nextRetryAt *time.Time, lastError *string) error {
	return r.db.WithContext(ctx).Model(&model.Acerto{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"sync_status":   status,
			"retry_count":   retryCount,
			"next_retry_at": nextRetryAt,
			"last_error":    lastError,
		}).Error
}
