package repository

import (
	"context"

	"gestaomesas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RotaRepository interface {
	Create(ctx context.Context, r *model.Rota) error
	Update(ctx context.Context, r *model.Rota) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Rota, error)
	ListAll(ctx context.Context, incluirInativas bool) ([]model.Rota, error)
}

type rotaRepo struct{ db *gorm.DB }

func NewRotaRepository(db *gorm.DB) RotaRepository { return &rotaRepo{db: db} }

func (r *rotaRepo) Create(ctx context.Context, rota *model.Rota) error {
	return r.db.WithContext(ctx).Create(rota).Error
}

func (r *rotaRepo) Update(ctx context.Context, rota *model.Rota) error {
	return r.db.WithContext(ctx).Save(rota).Error
}

func (r *rotaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Rota, error) {
	var rota model.Rota
	if err := r.db.WithContext(ctx).First(&rota, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rota, nil
}

func (r *rotaRepo) ListAll(ctx context.Context, incluirInativas bool) ([]model.Rota, error) {
	var rotas []model.Rota
	q := r.db.WithContext(ctx)
	if !incluirInativas {
		q = q.Where("ativo = true")
	}
	err := q.Order("nome ASC").Find(&rotas).Error
	return rotas, err
}
