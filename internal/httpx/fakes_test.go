package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/ariefcatur/go-warung-pos/internal/activity"
	"github.com/ariefcatur/go-warung-pos/internal/cart"
	"github.com/ariefcatur/go-warung-pos/internal/live"
	"github.com/ariefcatur/go-warung-pos/internal/menu"
	"github.com/ariefcatur/go-warung-pos/internal/orders"
	"github.com/ariefcatur/go-warung-pos/internal/redisx"
	"github.com/ariefcatur/go-warung-pos/internal/schedule"
	"github.com/ariefcatur/go-warung-pos/internal/users"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*3600)

// fixedNow is a Friday.
var fixedNow = time.Date(2024, 12, 20, 10, 0, 0, 0, wib)

type memMenu struct {
	mu   sync.Mutex
	seq  int
	byID map[string]menu.Product
}

func (m *memMenu) List(context.Context) ([]menu.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]menu.Product, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memMenu) Get(_ context.Context, id string) (menu.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return menu.Product{}, menu.ErrNotFound
	}
	return p, nil
}

func (m *memMenu) Create(_ context.Context, p menu.Product) (menu.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		m.seq++
		p.ID = fmt.Sprintf("prod-%d", m.seq)
	}
	m.byID[p.ID] = p
	return p, nil
}

func (m *memMenu) Update(_ context.Context, p menu.Product) (menu.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[p.ID]; !ok {
		return menu.Product{}, menu.ErrNotFound
	}
	m.byID[p.ID] = p
	return p, nil
}

func (m *memMenu) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return menu.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memMenu) DecrementStock(_ context.Context, id string, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok || !p.HasFiniteStock() {
		return nil
	}
	p.Stock = max(0, p.Stock-qty)
	m.byID[id] = p
	return nil
}

type memSchedules struct {
	mu      sync.Mutex
	seq     int
	entries []schedule.Entry
}

func (m *memSchedules) List(context.Context) ([]schedule.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]schedule.Entry(nil), m.entries...), nil
}

func (m *memSchedules) Create(_ context.Context, e schedule.Entry) (schedule.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	e.ID = fmt.Sprintf("sched-%d", m.seq)
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *memSchedules) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return schedule.ErrNotFound
}

type memCarts struct {
	mu    sync.Mutex
	carts map[string][]cart.Item
}

func (m *memCarts) Load(_ context.Context, session string) (*cart.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &cart.Cart{Items: append([]cart.Item(nil), m.carts[session]...)}, nil
}

func (m *memCarts) Save(_ context.Context, session string, c *cart.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[session] = c.Snapshot()
	return nil
}

func (m *memCarts) Update(_ context.Context, session string, fn func(c *cart.Cart) error) (*cart.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &cart.Cart{Items: append([]cart.Item(nil), m.carts[session]...)}
	if err := fn(c); err != nil {
		return nil, err
	}
	m.carts[session] = c.Snapshot()
	return c, nil
}

func (m *memCarts) Clear(_ context.Context, session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, session)
	return nil
}

type memIdem struct {
	mu   sync.Mutex
	keys map[string]string
}

func (m *memIdem) Reserve(_ context.Context, key string) (bool, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.keys[key]
	switch {
	case !ok:
		m.keys[key] = redisx.IdemPending
		return true, "", nil
	case v == redisx.IdemPending:
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

type memOrders struct {
	mu   sync.Mutex
	seq  int
	byID map[string]orders.Order
}

func (m *memOrders) Create(_ context.Context, o *orders.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	o.ID = fmt.Sprintf("order-%04d-abc", m.seq)
	o.CreatedAt = fixedNow
	m.byID[o.ID] = *o
	return nil
}

func (m *memOrders) seed(o orders.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[o.ID] = o
}

func (m *memOrders) Get(_ context.Context, id string) (orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	return o, nil
}

func (m *memOrders) List(context.Context) ([]orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]orders.Order, 0, len(m.byID))
	for _, o := range m.byID {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memOrders) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]orders.Order, error) {
	all, _ := m.List(ctx)
	out := []orders.Order{}
	for _, o := range all {
		if !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) update(id string, fn func(*orders.Order)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return orders.ErrNotFound
	}
	fn(&o)
	m.byID[id] = o
	return nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id string, s orders.Status) error {
	return m.update(id, func(o *orders.Order) { o.Status = s })
}

func (m *memOrders) SetPaid(_ context.Context, id string, paid bool) error {
	return m.update(id, func(o *orders.Order) { o.IsPaid = paid })
}

func (m *memOrders) SetPaymentStatus(_ context.Context, id string, ps orders.PaymentStatus) error {
	return m.update(id, func(o *orders.Order) { o.PaymentStatus = ps })
}

func (m *memOrders) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return orders.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memUsers struct {
	mu   sync.Mutex
	byID map[string]users.User
}

func (m *memUsers) Get(_ context.Context, id string) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) List(context.Context) ([]users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []users.User{}
	for _, u := range m.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) SetRole(_ context.Context, id, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return users.ErrNotFound
	}
	u.Role = role
	m.byID[id] = u
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

func (m *memActivity) List(_ context.Context, limit int) ([]activity.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []activity.Entry{}
	for i := len(m.entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *memActivity) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.entries {
		out = append(out, e.Action)
	}
	return out
}

type memEvents struct {
	mu     sync.Mutex
	topics []string
}

func (m *memEvents) Publish(_ context.Context, topic, _, _ string, _ any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topics = append(m.topics, topic)
}

func (m *memEvents) published() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.topics...)
}

type chanFeed struct{ ch chan live.Notice }

func (f chanFeed) Subscribe(context.Context) (<-chan live.Notice, error) { return f.ch, nil }

const (
	adminID     = "u-admin"
	staffID     = "u-staff"
	testSession = "sess-1"
)

type fixture struct {
	t         *testing.T
	router    *chi.Mux
	api       *API
	menu      *memMenu
	schedules *memSchedules
	carts     *memCarts
	orders    *memOrders
	users     *memUsers
	activity  *memActivity
	events    *memEvents
}

func intPtr(v int) *int { return &v }

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		t: t,
		menu: &memMenu{byID: map[string]menu.Product{
			"nasi": {ID: "nasi", Name: "Nasi Goreng", Category: "Makanan", Price: 15000, Stock: 10, IsAvailable: true,
				Variants: []menu.Variant{{Name: "Jumbo", Price: intPtr(20000)}, {Name: "Pedas"}}},
			"soto":  {ID: "soto", Name: "Soto Ayam", Category: "Makanan", Price: 18000, Stock: menu.UnlimitedStock, IsAvailable: true, AvailableDays: []int{1}},
			"esteh": {ID: "esteh", Name: "Es Teh", Category: "Minuman", Price: 5000, Stock: 2, IsAvailable: false},
		}},
		schedules: &memSchedules{entries: []schedule.Entry{
			{ID: "natal", StartDate: "2024-12-25", EndDate: "2024-12-26", Reason: "Libur Natal"},
		}},
		carts:  &memCarts{carts: map[string][]cart.Item{}},
		orders: &memOrders{byID: map[string]orders.Order{}},
		users: &memUsers{byID: map[string]users.User{
			adminID: {ID: adminID, Name: "Sari", Role: users.RoleAdmin},
			staffID: {ID: staffID, Name: "Joko", Role: users.RoleStaff},
		}},
		activity: &memActivity{},
		events:   &memEvents{},
	}
	svc := &orders.Service{
		Orders:       f.orders,
		Stock:        f.menu,
		Schedules:    f.schedules,
		Carts:        f.carts,
		Activity:     f.activity,
		Events:       f.events,
		Location:     wib,
		PublicUserID: "public",
		AdminPhone:   "6281234567890",
		Now:          func() time.Time { return fixedNow },
		Log:          zerolog.Nop(),
	}
	f.api = &API{
		Menu:              f.menu,
		Schedules:         f.schedules,
		Carts:             f.carts,
		Orders:            svc,
		Reports:           f.orders,
		Users:             f.users,
		Activity:          f.activity,
		Events:            f.events,
		Location:          wib,
		PaymentQRPath:     "/static/qris.png",
		AdminPhone:        "6281234567890",
		LowStockThreshold: 5,
		Log:               zerolog.Nop(),
	}
	f.router = NewRouter(f.api)
	return f
}

// do sends body as JSON under the test cart session; userID is set when non-empty.
func (f *fixture) do(method, path, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerCartSession, testSession)
	if userID != "" {
		req.Header.Set(headerUserID, userID)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func completedOrder(id, name string, created time.Time, items ...cart.Item) orders.Order {
	return orders.Order{
		ID:           id,
		CustomerName: name,
		Items:        items,
		Total:        orders.SumItems(items),
		CreatedAt:    created,
		Status:       orders.StatusCompleted,
	}
}
