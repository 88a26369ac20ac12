package repository

import (
	"context"
	"errors"

	"gestaomesas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ColaboradorRepository interface {
	Create(ctx context.Context, c *model.Colaborador) error
	Update(ctx context.Context, c *model.Colaborador) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Colaborador, error)
	FindByUsername(ctx context.Context, username string) (*model.Colaborador, error)
	ListAtivos(ctx context.Context) ([]model.Colaborador, error)
	ListAll(ctx context.Context) ([]model.Colaborador, error)
	Desativar(ctx context.Context, id uuid.UUID) error
	Reativar(ctx context.Context, id uuid.UUID) error
}

type colaboradorRepo struct{ db *gorm.DB }

func NewColaboradorRepository(db *gorm.DB) ColaboradorRepository { return &colaboradorRepo{db: db} }

func (r *colaboradorRepo) Create(ctx context.Context, c *model.Colaborador) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *colaboradorRepo) Update(ctx context.Context, c *model.Colaborador) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *colaboradorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Colaborador, error) {
	var c model.Colaborador
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *colaboradorRepo) FindByUsername(ctx context.Context, username string) (*model.Colaborador, error) {
	var c model.Colaborador
	err := r.db.WithContext(ctx).First(&c, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *colaboradorRepo) ListAtivos(ctx context.Context) ([]model.Colaborador, error) {
	var cs []model.Colaborador
	err := r.db.WithContext(ctx).Where("ativo = true").Order("nome ASC").Find(&cs).Error
	return cs, err
}

func (r *colaboradorRepo) ListAll(ctx context.Context) ([]model.Colaborador, error) {
	var cs []model.Colaborador
	err := r.db.WithContext(ctx).Order("nome ASC").Find(&cs).Error
	return cs, err
}

func (r *colaboradorRepo) Desativar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Colaborador{}).
		Where("id = ?", id).Update("ativo", false).Error
}

func (r *colaboradorRepo) Reativar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Colaborador{}).
		Where("id = ?", id).Update("ativo", true).Error
}
