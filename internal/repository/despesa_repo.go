package repository

import (
	"context"

	"gestaomesas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DespesaRepository interface {
	Create(ctx context.Context, d *model.Despesa) error
	ListPorCiclo(ctx context.Context, cicloID uuid.UUID) ([]model.Despesa, error)
	ListPorRotaECiclo(ctx context.Context, rotaID, cicloID uuid.UUID) ([]model.Despesa, error)
}

type despesaRepo struct{ db *gorm.DB }

func NewDespesaRepository(db *gorm.DB) DespesaRepository { return &despesaRepo{db: db} }

func (r *despesaRepo) Create(ctx context.Context, d *model.Despesa) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *despesaRepo) ListPorCiclo(ctx context.Context, cicloID uuid.UUID) ([]model.Despesa, error) {
	var despesas []model.Despesa
	err := r.db.WithContext(ctx).
		Where("ciclo_id = ?", cicloID).
		Order("created_at ASC").
		Find(&despesas).Error
	return despesas, err
}

func (r *despesaRepo) ListPorRotaECiclo(ctx context.Context, rotaID, cicloID uuid.UUID) ([]model.Despesa, error) {
	var despesas []model.Despesa
	err := r.db.WithContext(ctx).
		Where("rota_id = ? AND ciclo_id = ?", rotaID, cicloID).
		Order("created_at ASC").
		Find(&despesas).Error
	return despesas, err
}
