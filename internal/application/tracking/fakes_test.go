package tracking_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Trazabilidad-api/internal/domain"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/repository"
)

// store BD en memoria compartida por los repos fake. calls cuenta cualquier acceso.
type store struct {
	mu          sync.Mutex
	departments map[string]*entity.Department
	orders      map[string]*entity.Order
	history     []*entity.OrderHistory
	calls       int
	failHistory error
	// beforeCreate simula otra transacción que inserta entre la lectura y el alta
	beforeCreate func()
}

func newStore(depts ...*entity.Department) *store {
	s := &store{departments: map[string]*entity.Department{}, orders: map[string]*entity.Order{}}
	for _, d := range depts {
		s.departments[d.ID] = d
	}
	return s
}

func (s *store) hit() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

// ── departments ───────────────────────────────────────────────────────────────

type fakeDepartments struct{ s *store }

func (f fakeDepartments) Create(_ context.Context, d *entity.Department) error {
	f.s.hit()
	f.s.departments[d.ID] = d
	return nil
}

func (f fakeDepartments) GetByID(_ context.Context, id string) (*entity.Department, error) {
	f.s.hit()
	d, ok := f.s.departments[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f fakeDepartments) List(_ context.Context) ([]*entity.Department, error) {
	f.s.hit()
	var out []*entity.Department
	for _, d := range f.s.departments {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f fakeDepartments) MaxPosition(_ context.Context) (int, error) {
	f.s.hit()
	maxPos := 0
	for _, d := range f.s.departments {
		if d.Position > maxPos {
			maxPos = d.Position
		}
	}
	return maxPos, nil
}

func (f fakeDepartments) Delete(_ context.Context, id string) error {
	f.s.hit()
	delete(f.s.departments, id)
	return nil
}

// ── orders ────────────────────────────────────────────────────────────────────

type fakeOrders struct{ s *store }

var _ repository.OrderRepository = fakeOrders{}

func (f fakeOrders) withNames(o *entity.Order) *entity.Order {
	cp := *o
	if d, ok := f.s.departments[o.StartingDepartmentID]; ok {
		cp.StartingDepartmentName = d.Name
	}
	if d, ok := f.s.departments[o.CurrentDepartmentID]; ok {
		cp.CurrentDepartmentName = d.Name
	}
	return &cp
}

func (f fakeOrders) CreateIfAbsent(_ context.Context, o *entity.Order) (bool, error) {
	f.s.hit()
	if f.s.beforeCreate != nil {
		f.s.beforeCreate()
	}
	for _, existing := range f.s.orders {
		if existing.Code == o.Code {
			return false, nil
		}
	}
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	cp := *o
	f.s.orders[o.ID] = &cp
	return true, nil
}

func (f fakeOrders) GetByID(_ context.Context, id string) (*entity.Order, error) {
	f.s.hit()
	o, ok := f.s.orders[id]
	if !ok {
		return nil, nil
	}
	return f.withNames(o), nil
}

func (f fakeOrders) GetByCode(_ context.Context, code entity.TrackingCode) (*entity.Order, error) {
	f.s.hit()
	for _, o := range f.s.orders {
		if o.Code == code {
			return f.withNames(o), nil
		}
	}
	return nil, nil
}

func (f fakeOrders) GetByCodeForUpdate(ctx context.Context, code entity.TrackingCode) (*entity.Order, error) {
	return f.GetByCode(ctx, code)
}

func (f fakeOrders) Search(_ context.Context, term string) ([]*entity.Order, error) {
	f.s.hit()
	var out []*entity.Order
	for _, o := range f.s.orders {
		if o.Code.Value == term {
			out = append(out, f.withNames(o))
		}
	}
	return out, nil
}

func (f fakeOrders) List(_ context.Context) ([]*entity.Order, error) {
	f.s.hit()
	var out []*entity.Order
	for _, o := range f.s.orders {
		out = append(out, f.withNames(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f fakeOrders) UpdateCurrentDepartment(_ context.Context, id, deptID string, updatedAt time.Time) error {
	f.s.hit()
	o, ok := f.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.CurrentDepartmentID = deptID
	o.UpdatedAt = updatedAt
	return nil
}

func (f fakeOrders) UpdateData(_ context.Context, id string, scarti int, note string, updatedAt time.Time) error {
	f.s.hit()
	o, ok := f.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Scarti = scarti
	o.Note = note
	o.UpdatedAt = updatedAt
	return nil
}

func (f fakeOrders) CountByCurrentDepartment(_ context.Context, deptID string) (int, error) {
	f.s.hit()
	n := 0
	for _, o := range f.s.orders {
		if o.CurrentDepartmentID == deptID {
			n++
		}
	}
	return n, nil
}

// ── history ───────────────────────────────────────────────────────────────────

type fakeHistory struct{ s *store }

func (f fakeHistory) Create(_ context.Context, h *entity.OrderHistory) error {
	f.s.hit()
	if f.s.failHistory != nil {
		return f.s.failHistory
	}
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	cp := *h
	f.s.history = append(f.s.history, &cp)
	return nil
}

func (f fakeHistory) ListByOrder(_ context.Context, orderID string) ([]*entity.OrderHistory, error) {
	f.s.hit()
	var out []*entity.OrderHistory
	for i := len(f.s.history) - 1; i >= 0; i-- {
		if f.s.history[i].OrderID == orderID {
			out = append(out, f.s.history[i])
		}
	}
	return out, nil
}

func (f fakeHistory) ListRecent(_ context.Context, limit int) ([]*entity.OrderHistory, error) {
	f.s.hit()
	var out []*entity.OrderHistory
	for i := len(f.s.history) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.s.history[i])
	}
	return out, nil
}

// ── tx ────────────────────────────────────────────────────────────────────────

// fakeTx copia el estado antes de fn y lo restaura si fn falla (rollback).
type fakeTx struct{ s *store }

func (t fakeTx) Run(_ context.Context, fn func(repository.OrderRepository, repository.OrderHistoryRepository) error) error {
	orders := map[string]entity.Order{}
	for id, o := range t.s.orders {
		orders[id] = *o
	}
	history := append([]*entity.OrderHistory(nil), t.s.history...)

	if err := fn(fakeOrders{t.s}, fakeHistory{t.s}); err != nil {
		t.s.orders = map[string]*entity.Order{}
		for id, o := range orders {
			cp := o
			t.s.orders[id] = &cp
		}
		t.s.history = history
		return err
	}
	return nil
}

// ── card generator ────────────────────────────────────────────────────────────

type fakeCards struct {
	order   *entity.Order
	history []*entity.OrderHistory
}

func (f *fakeCards) GenerateOrderCard(_ context.Context, o *entity.Order, h []*entity.OrderHistory) ([]byte, error) {
	f.order, f.history = o, h
	return []byte("%PDF-fake"), nil
}
