package repository

import (
	"context"

	"gestaomesas/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	Update(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	ListPorRota(ctx context.Context, rotaID uuid.UUID, incluirInativos bool) ([]model.Cliente, error)
	// UpdateDebitoTx rewrites the client's debt mirror inside the
	// settlement-save transaction.
	UpdateDebitoTx(tx *gorm.DB, id uuid.UUID, debito decimal.Decimal) error
	Desativar(ctx context.Context, id uuid.UUID) error
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	if err := r.db.WithContext(ctx).Preload("Mesas").First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) ListPorRota(ctx context.Context, rotaID uuid.UUID, incluirInativos bool) ([]model.Cliente, error) {
	var clientes []model.Cliente
	q := r.db.WithContext(ctx).Where("rota_id = ?", rotaID)
	if !incluirInativos {
		q = q.Where("ativo = true")
	}
	err := q.Order("nome ASC").Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) UpdateDebitoTx(tx *gorm.DB, id uuid.UUID, debito decimal.Decimal) error {
	return tx.Model(&model.Cliente{}).Where("id = ?", id).Update("debito_atual", debito).Error
}

func (r *clienteRepo) Desativar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).Update("ativo", false).Error
}
