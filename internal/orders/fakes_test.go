package orders

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ariefcatur/go-warung-pos/internal/activity"
	"github.com/ariefcatur/go-warung-pos/internal/cart"
	"github.com/ariefcatur/go-warung-pos/internal/schedule"
	"github.com/rs/zerolog"
)

type memOrders struct {
	mu        sync.Mutex
	seq       int
	byID      map[string]Order
	createErr error
	now       time.Time
	// onCreate runs before the insert, outside the lock.
	onCreate func()
}

func newMemOrders(now time.Time) *memOrders {
	return &memOrders{byID: map[string]Order{}, now: now}
}

func (m *memOrders) Create(_ context.Context, o *Order) error {
	if m.onCreate != nil {
		m.onCreate()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	o.ID = fmt.Sprintf("order-%04d-xyz", m.seq)
	o.CreatedAt = m.now
	cp := *o
	cp.Items = append([]cart.Item(nil), o.Items...)
	m.byID[o.ID] = cp
	return nil
}

func (m *memOrders) Get(_ context.Context, id string) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (m *memOrders) List(_ context.Context) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Order, 0, len(m.byID))
	for _, o := range m.byID {
		out = append(out, o)
	}
	return out, nil
}

func (m *memOrders) update(id string, fn func(*Order)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	fn(&o)
	m.byID[id] = o
	return nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id string, s Status) error {
	return m.update(id, func(o *Order) { o.Status = s })
}

func (m *memOrders) SetPaid(_ context.Context, id string, paid bool) error {
	return m.update(id, func(o *Order) { o.IsPaid = paid })
}

func (m *memOrders) SetPaymentStatus(_ context.Context, id string, ps PaymentStatus) error {
	return m.update(id, func(o *Order) { o.PaymentStatus = ps })
}

func (m *memOrders) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

// memStock mimics the conditional SQL update: unlimited stays, others floor at zero.
type memStock struct {
	mu     sync.Mutex
	stock  map[string]int
	failOn map[string]bool
}

func (m *memStock) DecrementStock(_ context.Context, id string, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn[id] {
		return errors.New("connection reset")
	}
	cur, ok := m.stock[id]
	if !ok || cur == -1 {
		return nil
	}
	m.stock[id] = max(0, cur-qty)
	return nil
}

type memSchedules struct{ entries []schedule.Entry }

func (m *memSchedules) List(context.Context) ([]schedule.Entry, error) { return m.entries, nil }

type memCarts struct {
	mu    sync.Mutex
	carts map[string]*cart.Cart
}

func (m *memCarts) Load(_ context.Context, session string) (*cart.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[session]
	if !ok {
		return &cart.Cart{}, nil
	}
	cp := &cart.Cart{Items: c.Snapshot()}
	return cp, nil
}

func (m *memCarts) Save(_ context.Context, session string, c *cart.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[session] = &cart.Cart{Items: c.Snapshot()}
	return nil
}

func (m *memCarts) Update(_ context.Context, session string, fn func(c *cart.Cart) error) (*cart.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &cart.Cart{}
	if cur, ok := m.carts[session]; ok {
		c.Items = cur.Snapshot()
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	m.carts[session] = &cart.Cart{Items: c.Snapshot()}
	return c, nil
}

func (m *memCarts) Clear(_ context.Context, session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, session)
	return nil
}

type memActivity struct {
	mu      sync.Mutex
	entries []activity.Entry
}

func (m *memActivity) Append(_ context.Context, e activity.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

type published struct {
	Topic, Type, Key string
	Payload          any
}

type memEvents struct {
	mu   sync.Mutex
	sent []published
}

func (m *memEvents) Publish(_ context.Context, topic, eventType, key string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, published{topic, eventType, key, payload})
}

type memIdem struct {
	mu   sync.Mutex
	keys map[string]string
}

const idemPending = "pending"

func (m *memIdem) Reserve(_ context.Context, key string) (bool, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.keys[key]
	if !ok {
		m.keys[key] = idemPending
		return true, "", nil
	}
	if v == idemPending {
		return false, "", nil
	}
	return false, v, nil
}

func (m *memIdem) Complete(_ context.Context, key, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = orderID
	return nil
}

func (m *memIdem) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

type memKitchen struct {
	mu          sync.Mutex
	invalidated int
}

func (m *memKitchen) Invalidate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated++
	return nil
}

func (m *memKitchen) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invalidated
}

type fixture struct {
	svc       *Service
	orders    *memOrders
	stock     *memStock
	schedules *memSchedules
	carts     *memCarts
	activity  *memActivity
	events    *memEvents
	idem      *memIdem
	kitchen   *memKitchen
}

var jakarta = time.FixedZone("WIB", 7*60*60)

// fixedNow is 2024-12-20 10:00 WIB.
var fixedNow = time.Date(2024, 12, 20, 10, 0, 0, 0, jakarta)

func newFixture() *fixture {
	f := &fixture{
		orders:    newMemOrders(fixedNow),
		stock:     &memStock{stock: map[string]int{}, failOn: map[string]bool{}},
		schedules: &memSchedules{},
		carts:     &memCarts{carts: map[string]*cart.Cart{}},
		activity:  &memActivity{},
		events:    &memEvents{},
		idem:      &memIdem{keys: map[string]string{}},
		kitchen:   &memKitchen{},
	}
	f.svc = &Service{
		Orders:       f.orders,
		Stock:        f.stock,
		Schedules:    f.schedules,
		Carts:        f.carts,
		Activity:     f.activity,
		Events:       f.events,
		Idempotency:  f.idem,
		Kitchen:      f.kitchen,
		Location:     jakarta,
		PublicUserID: "public",
		AdminPhone:   "6281200000000",
		Now:          func() time.Time { return fixedNow },
		Log:          zerolog.New(io.Discard),
	}
	return f
}
