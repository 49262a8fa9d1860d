package kardex

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con inyección de fallos para los caminos de compensación
// ──────────────────────────────────────────────────────────────────────────────

type fakeMovementStore struct {
	mu   sync.Mutex
	rows map[string]*entity.Movement

	createErr func(*entity.Movement) error
	updateErr func(*entity.Movement) error
	deleteErr func(id string) error
}

var _ repository.MovementRepository = (*fakeMovementStore)(nil)

func newFakeMovementStore() *fakeMovementStore {
	return &fakeMovementStore{rows: map[string]*entity.Movement{}}
}

func (s *fakeMovementStore) Create(_ context.Context, m *entity.Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		if err := s.createErr(m); err != nil {
			return err
		}
	}
	cp := *m
	s.rows[m.ID] = &cp
	return nil
}

func (s *fakeMovementStore) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *fakeMovementStore) Update(_ context.Context, m *entity.Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		if err := s.updateErr(m); err != nil {
			return err
		}
	}
	if _, ok := s.rows[m.ID]; !ok {
		return domain.ErrMovementNotFound
	}
	cp := *m
	s.rows[m.ID] = &cp
	return nil
}

func (s *fakeMovementStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		if err := s.deleteErr(id); err != nil {
			return err
		}
	}
	delete(s.rows, id)
	return nil
}

func (s *fakeMovementStore) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entity.Movement{}
	for _, m := range s.rows {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.Kind != "" && m.Kind != f.Kind {
			continue
		}
		if f.Reason != "" && m.Reason != f.Reason {
			continue
		}
		if f.From != nil && m.OccurredOn.Before(*f.From) {
			continue
		}
		if f.To != nil && m.OccurredOn.After(*f.To) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredOn.Equal(out[j].OccurredOn) {
			return out[i].OccurredOn.After(out[j].OccurredOn)
		}
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []*entity.Movement{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// activeDelta suma el efecto neto de los movimientos ACTIVE de un producto.
func (s *fakeMovementStore) activeDelta(productID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := decimal.Zero
	for _, m := range s.rows {
		if m.ProductID == productID && m.Status == entity.MovementStatusActive {
			sum = sum.Add(m.StockDelta())
		}
	}
	return sum
}

type fakeProductStore struct {
	mu   sync.Mutex
	rows map[string]*entity.Product

	updateStockErr func(productID string) error
}

var _ repository.ProductRepository = (*fakeProductStore)(nil)

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{rows: map[string]*entity.Product{}}
}

func (s *fakeProductStore) put(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.rows[p.ID] = &cp
}

func (s *fakeProductStore) stock(id string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[id].StockQuantity
}

func (s *fakeProductStore) GetByID(_ context.Context, id string) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *fakeProductStore) UpdateStock(_ context.Context, productID string, quantity decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateStockErr != nil {
		if err := s.updateStockErr(productID); err != nil {
			return err
		}
	}
	p, ok := s.rows[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.StockQuantity = quantity
	return nil
}

func (s *fakeProductStore) GetRefsByIDs(_ context.Context, ids []string) (map[string]entity.ProductRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	refs := map[string]entity.ProductRef{}
	for _, id := range ids {
		if p, ok := s.rows[id]; ok {
			refs[id] = entity.ProductRef{ID: p.ID, SKU: p.SKU, Name: p.Name}
		}
	}
	return refs, nil
}

type fakeUserStore struct {
	names map[string]string
}

var _ repository.UserRepository = (*fakeUserStore)(nil)

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	name, ok := s.names[id]
	if !ok {
		return nil, nil
	}
	return &entity.User{ID: id, Name: name}, nil
}

func (s *fakeUserStore) GetNamesByIDs(_ context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	for _, id := range ids {
		if name, ok := s.names[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de construcción
// ──────────────────────────────────────────────────────────────────────────────

func newTestEngine() (*LedgerUseCase, *fakeMovementStore, *fakeProductStore) {
	movements := newFakeMovementStore()
	products := newFakeProductStore()
	users := &fakeUserStore{names: map[string]string{
		"u-laura": "Laura Gómez",
		"u-pedro": "Pedro Rincón",
	}}
	uc := NewLedgerUseCase(movements, products, users, logger.Nop())
	return uc, movements, products
}

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func activeProduct(id string, stock int64) *entity.Product {
	return &entity.Product{
		ID:            id,
		SKU:           "SKU-" + id,
		Name:          "Producto " + id,
		Status:        entity.ProductStatusActive,
		StockQuantity: d(stock),
		UpdatedAt:     time.Now(),
	}
}

func inactiveProduct(id string, stock int64) *entity.Product {
	p := activeProduct(id, stock)
	p.Status = entity.ProductStatusInactive
	return p
}

func strPtr(s string) *string { return &s }

func decPtr(n int64) *decimal.Decimal { q := d(n); return &q }

func datePtr(y int, m time.Month, dd int) *time.Time {
	t := time.Date(y, m, dd, 0, 0, 0, 0, time.Local)
	return &t
}
