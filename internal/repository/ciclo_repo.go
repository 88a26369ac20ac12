package repository

import (
	"context"
	"errors"

	"gestaomesas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CicloRepository interface {
	Create(ctx context.Context, c *model.Ciclo) error
	Update(ctx context.Context, c *model.Ciclo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ciclo, error)
	// FindAtivoPorRota returns nil (no error) when the route has no cycle
	// em_andamento.
	FindAtivoPorRota(ctx context.Context, rotaID uuid.UUID) (*model.Ciclo, error)
	// UltimoPorRota returns the highest (ano, numero_ciclo) cycle of the
	// route, nil when the route never cycled.
	UltimoPorRota(ctx context.Context, rotaID uuid.UUID) (*model.Ciclo, error)
	ListPorRota(ctx context.Context, rotaID uuid.UUID) ([]model.Ciclo, error)
}

type cicloRepo struct{ db *gorm.DB }

func NewCicloRepository(db *gorm.DB) CicloRepository { return &cicloRepo{db: db} }

func (r *cicloRepo) Create(ctx context.Context, c *model.Ciclo) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cicloRepo) Update(ctx context.Context, c *model.Ciclo) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *cicloRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Ciclo, error) {
	var c model.Ciclo
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cicloRepo) FindAtivoPorRota(ctx context.Context, rotaID uuid.UUID) (*model.Ciclo, error) {
	var c model.Ciclo
	err := r.db.WithContext(ctx).
		Where("rota_id = ? AND status = ?", rotaID, model.CicloEmAndamento).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cicloRepo) UltimoPorRota(ctx context.Context, rotaID uuid.UUID) (*model.Ciclo, error) {
	var c model.Ciclo
	err := r.db.WithContext(ctx).
		Where("rota_id = ?", rotaID).
		Order("ano DESC, numero_ciclo DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cicloRepo) ListPorRota(ctx context.Context, rotaID uuid.UUID) ([]model.Ciclo, error) {
	var ciclos []model.Ciclo
	err := r.db.WithContext(ctx).
		Where("rota_id = ?", rotaID).
		Order("ano DESC, numero_ciclo DESC").
		Find(&ciclos).Error
	return ciclos, err
}
