package repository

import (
	"context"

	"gestaomesas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MesaRepository interface {
	Create(ctx context.Context, m *model.Mesa) error
	Update(ctx context.Context, m *model.Mesa) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Mesa, error)
	ListPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Mesa, error)
	ListDeposito(ctx context.Context) ([]model.Mesa, error)
	// UpdateRelogioTx advances the table's counter inside the
	// settlement-save transaction so the next settlement seeds from it.
	UpdateRelogioTx(tx *gorm.DB, id uuid.UUID, relogio int) error
	// TransferirParaCliente moves a table between depot and client.
	TransferirParaCliente(ctx context.Context, id uuid.UUID, clienteID *uuid.UUID) error
}

type mesaRepo struct{ db *gorm.DB }

func NewMesaRepository(db *gorm.DB) MesaRepository { return &mesaRepo{db: db} }

func (r *mesaRepo) Create(ctx context.Context, m *model.Mesa) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *mesaRepo) Update(ctx context.Context, m *model.Mesa) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *mesaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Mesa, error) {
	var m model.Mesa
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mesaRepo) ListPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Mesa, error) {
	var mesas []model.Mesa
	err := r.db.WithContext(ctx).
		Where("cliente_id = ? AND ativa = true", clienteID).
		Order("numero ASC").
		Find(&mesas).Error
	return mesas, err
}

func (r *mesaRepo) ListDeposito(ctx context.Context) ([]model.Mesa, error) {
	var mesas []model.Mesa
	err := r.db.WithContext(ctx).
		Where("cliente_id IS NULL AND ativa = true").
		Order("numero ASC").
		Find(&mesas).Error
	return mesas, err
}

func (r *mesaRepo) UpdateRelogioTx(tx *gorm.DB, id uuid.UUID, relogio int) error {
	return tx.Model(&model.Mesa{}).Where("id = ?", id).Update("relogio_atual", relogio).Error
}

func (r *mesaRepo) TransferirParaCliente(ctx context.Context, id uuid.UUID, clienteID *uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Mesa{}).Where("id = ?", id).Update("cliente_id", clienteID).Error
}
