package service_test

// In-memory repository stubs shared by the service tests. They honor the
// nil-tx contract of the real repositories, so services exercise their
// transaction blocks with a nil *gorm.DB.

import (
	"context"
	"errors"
	"time"

	"gestaomesas/internal/model"
	"gestaomesas/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Acertos ──────────────────────────────────────────────────────────────────

type stubAcertoRepo struct {
	acertos map[uuid.UUID]*model.Acerto
	ordem   []uuid.UUID
}

func newStubAcertoRepo() *stubAcertoRepo {
	return &stubAcertoRepo{acertos: make(map[uuid.UUID]*model.Acerto)}
}

func (r *stubAcertoRepo) Create(_ context.Context, _ *gorm.DB, a *model.Acerto) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	for i := range a.Mesas {
		if a.Mesas[i].ID == uuid.Nil {
			a.Mesas[i].ID = uuid.New()
		}
		a.Mesas[i].AcertoID = a.ID
	}
	r.acertos[a.ID] = a
	r.ordem = append(r.ordem, a.ID)
	return nil
}

func (r *stubAcertoRepo) Update(_ context.Context, _ *gorm.DB, a *model.Acerto) error {
	if _, ok := r.acertos[a.ID]; !ok {
		return errors.New("acerto inexistente")
	}
	r.acertos[a.ID] = a
	return nil
}

func (r *stubAcertoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Acerto, error) {
	a, ok := r.acertos[id]
	if !ok {
		return nil, nil
	}
	return a, nil
}

func (r *stubAcertoRepo) FindFinalizadoPorClienteECiclo(_ context.Context, clienteID, cicloID uuid.UUID) (*model.Acerto, error) {
	for _, id := range r.ordem {
		a := r.acertos[id]
		if a.ClienteID == clienteID && a.CicloID == cicloID && a.Status == model.AcertoFinalizado {
			return a, nil
		}
	}
	return nil, nil
}

func (r *stubAcertoRepo) UltimaLinhaFinalizadaPorMesa(_ context.Context, mesaID uuid.UUID) (*model.AcertoMesa, error) {
	var ultima *model.AcertoMesa
	for _, id := range r.ordem {
		a := r.acertos[id]
		if a.Status != model.AcertoFinalizado {
			continue
		}
		for i := range a.Mesas {
			if a.Mesas[i].MesaID == mesaID {
				ultima = &a.Mesas[i]
			}
		}
	}
	return ultima, nil
}

func (r *stubAcertoRepo) ListPorCiclo(_ context.Context, cicloID uuid.UUID) ([]model.Acerto, error) {
	var out []model.Acerto
	for _, id := range r.ordem {
		a := r.acertos[id]
		if a.CicloID == cicloID && a.Status != model.AcertoCancelado {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAcertoRepo) ListPorCliente(_ context.Context, clienteID uuid.UUID, limit int) ([]model.Acerto, error) {
	var out []model.Acerto
	for i := len(r.ordem) - 1; i >= 0 && len(out) < limit; i-- {
		a := r.acertos[r.ordem[i]]
		if a.ClienteID == clienteID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAcertoRepo) ReplaceMesas(_ context.Context, _ *gorm.DB, acertoID uuid.UUID, mesas []model.AcertoMesa) error {
	a, ok := r.acertos[acertoID]
	if !ok {
		return errors.New("acerto inexistente")
	}
	for i := range mesas {
		if mesas[i].ID == uuid.Nil {
			mesas[i].ID = uuid.New()
		}
		mesas[i].AcertoID = acertoID
	}
	a.Mesas = mesas
	return nil
}

func (r *stubAcertoRepo) ListMesas(_ context.Context, acertoID uuid.UUID) ([]model.AcertoMesa, error) {
	a, ok := r.acertos[acertoID]
	if !ok {
		return nil, nil
	}
	return a.Mesas, nil
}

func (r *stubAcertoRepo) ListPendingSync(_ context.Context, before time.Time, limit int) ([]model.Acerto, error) {
	var out []model.Acerto
	for _, id := range r.ordem {
		a := r.acertos[id]
		if len(out) == limit {
			break
		}
		if a.SyncStatus != model.SyncPendente {
			continue
		}
		if a.NextRetryAt != nil && a.NextRetryAt.After(before) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubAcertoRepo) UpdateSyncStatus(_ context.Context, id uuid.UUID, status string, retryCount int, nextRetryAt *time.Time, lastError *string) error {
	a, ok := r.acertos[id]
	if !ok {
		return errors.New("acerto inexistente")
	}
	a.SyncStatus = status
	a.RetryCount = retryCount
	a.NextRetryAt = nextRetryAt
	a.LastError = lastError
	return nil
}

func (r *stubAcertoRepo) DB() *gorm.DB { return nil }

var _ repository.AcertoRepository = (*stubAcertoRepo)(nil)

// ── Ciclos ───────────────────────────────────────────────────────────────────

type stubCicloRepo struct {
	ciclos map[uuid.UUID]*model.Ciclo
	ordem  []uuid.UUID
}

func newStubCicloRepo() *stubCicloRepo {
	return &stubCicloRepo{ciclos: make(map[uuid.UUID]*model.Ciclo)}
}

func (r *stubCicloRepo) Create(_ context.Context, c *model.Ciclo) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.ciclos[c.ID] = c
	r.ordem = append(r.ordem, c.ID)
	return nil
}

func (r *stubCicloRepo) Update(_ context.Context, c *model.Ciclo) error {
	if _, ok := r.ciclos[c.ID]; !ok {
		return errors.New("ciclo inexistente")
	}
	r.ciclos[c.ID] = c
	return nil
}

func (r *stubCicloRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Ciclo, error) {
	c, ok := r.ciclos[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *stubCicloRepo) FindAtivoPorRota(_ context.Context, rotaID uuid.UUID) (*model.Ciclo, error) {
	for _, id := range r.ordem {
		c := r.ciclos[id]
		if c.RotaID == rotaID && c.Status == model.CicloEmAndamento {
			return c, nil
		}
	}
	return nil, nil
}

func (r *stubCicloRepo) UltimoPorRota(_ context.Context, rotaID uuid.UUID) (*model.Ciclo, error) {
	var ultimo *model.Ciclo
	for _, id := range r.ordem {
		c := r.ciclos[id]
		if c.RotaID != rotaID {
			continue
		}
		if ultimo == nil || c.Ano > ultimo.Ano || (c.Ano == ultimo.Ano && c.NumeroCiclo > ultimo.NumeroCiclo) {
			ultimo = c
		}
	}
	return ultimo, nil
}

func (r *stubCicloRepo) ListPorRota(_ context.Context, rotaID uuid.UUID) ([]model.Ciclo, error) {
	var out []model.Ciclo
	for _, id := range r.ordem {
		if c := r.ciclos[id]; c.RotaID == rotaID {
			out = append(out, *c)
		}
	}
	return out, nil
}

var _ repository.CicloRepository = (*stubCicloRepo)(nil)

// ── Clientes ─────────────────────────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *stubClienteRepo) ListPorRota(_ context.Context, rotaID uuid.UUID, incluirInativos bool) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		if c.RotaID == rotaID && (incluirInativos || c.Ativo) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubClienteRepo) UpdateDebitoTx(_ *gorm.DB, id uuid.UUID, debito decimal.Decimal) error {
	c, ok := r.clientes[id]
	if !ok {
		return errors.New("cliente inexistente")
	}
	c.DebitoAtual = debito
	return nil
}

func (r *stubClienteRepo) Desativar(_ context.Context, id uuid.UUID) error {
	c, ok := r.clientes[id]
	if !ok {
		return errors.New("cliente inexistente")
	}
	c.Ativo = false
	return nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// ── Mesas ────────────────────────────────────────────────────────────────────

type stubMesaRepo struct {
	mesas map[uuid.UUID]*model.Mesa
	ordem []uuid.UUID
}

func newStubMesaRepo() *stubMesaRepo {
	return &stubMesaRepo{mesas: make(map[uuid.UUID]*model.Mesa)}
}

func (r *stubMesaRepo) Create(_ context.Context, m *model.Mesa) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.mesas[m.ID] = m
	r.ordem = append(r.ordem, m.ID)
	return nil
}

func (r *stubMesaRepo) Update(_ context.Context, m *model.Mesa) error {
	r.mesas[m.ID] = m
	return nil
}

func (r *stubMesaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Mesa, error) {
	m, ok := r.mesas[id]
	if !ok {
		return nil, nil
	}
	return m, nil
}

func (r *stubMesaRepo) ListPorCliente(_ context.Context, clienteID uuid.UUID) ([]model.Mesa, error) {
	var out []model.Mesa
	for _, id := range r.ordem {
		m := r.mesas[id]
		if m.ClienteID != nil && *m.ClienteID == clienteID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMesaRepo) ListDeposito(_ context.Context) ([]model.Mesa, error) {
	var out []model.Mesa
	for _, id := range r.ordem {
		if m := r.mesas[id]; m.ClienteID == nil {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMesaRepo) UpdateRelogioTx(_ *gorm.DB, id uuid.UUID, relogio int) error {
	m, ok := r.mesas[id]
	if !ok {
		return errors.New("mesa inexistente")
	}
	m.RelogioAtual = relogio
	return nil
}

func (r *stubMesaRepo) TransferirParaCliente(_ context.Context, id uuid.UUID, clienteID *uuid.UUID) error {
	m, ok := r.mesas[id]
	if !ok {
		return errors.New("mesa inexistente")
	}
	m.ClienteID = clienteID
	return nil
}

var _ repository.MesaRepository = (*stubMesaRepo)(nil)

// ── Despesas ─────────────────────────────────────────────────────────────────

type stubDespesaRepo struct {
	despesas []model.Despesa
}

func (r *stubDespesaRepo) Create(_ context.Context, d *model.Despesa) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.despesas = append(r.despesas, *d)
	return nil
}

func (r *stubDespesaRepo) ListPorCiclo(_ context.Context, cicloID uuid.UUID) ([]model.Despesa, error) {
	var out []model.Despesa
	for _, d := range r.despesas {
		if d.CicloID == cicloID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *stubDespesaRepo) ListPorRotaECiclo(_ context.Context, rotaID, cicloID uuid.UUID) ([]model.Despesa, error) {
	var out []model.Despesa
	for _, d := range r.despesas {
		if d.RotaID == rotaID && d.CicloID == cicloID {
			out = append(out, d)
		}
	}
	return out, nil
}

var _ repository.DespesaRepository = (*stubDespesaRepo)(nil)
