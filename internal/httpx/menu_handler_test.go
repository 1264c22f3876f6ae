package httpx

import (
	"net/http"
	"testing"

	"github.com/ariefcatur/go-warung-pos/internal/activity"
	"github.com/ariefcatur/go-warung-pos/internal/events"
	"github.com/ariefcatur/go-warung-pos/internal/menu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productNames(ps []menu.Product) []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestGetMenu(t *testing.T) {
	f := newFixture(t)

	t.Run("defaults to today and hides unavailable products", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/menu", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		res := decodeBody[menuResponse](t, rec)
		assert.Equal(t, "2024-12-20", res.Date)
		assert.Nil(t, res.Closed)
		assert.Equal(t, []string{"Nasi Goreng"}, productNames(res.Products))
		assert.Equal(t, menu.SuggestedCategories, res.Categories)
	})

	t.Run("weekday restricted products show on their day", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/menu?date=2024-12-23", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		res := decodeBody[menuResponse](t, rec)
		assert.Equal(t, []string{"Nasi Goreng", "Soto Ayam"}, productNames(res.Products))
	})

	t.Run("closed date carries the schedule", func(t *testing.T) {
		res := decodeBody[menuResponse](t, f.do(http.MethodGet, "/menu?date=2024-12-26", "", nil))
		require.NotNil(t, res.Closed)
		assert.Equal(t, "Libur Natal", res.Closed.Reason)
	})

	t.Run("bad date", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/menu?date=26-12-2024", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCheckClosed(t *testing.T) {
	f := newFixture(t)

	res := decodeBody[closedResponse](t, f.do(http.MethodGet, "/schedules/closed?date=2024-12-25", "", nil))
	assert.True(t, res.Closed)
	require.NotNil(t, res.Schedule)
	assert.Equal(t, "natal", res.Schedule.ID)

	res = decodeBody[closedResponse](t, f.do(http.MethodGet, "/schedules/closed?date=2024-12-27", "", nil))
	assert.False(t, res.Closed)
	assert.Nil(t, res.Schedule)

	res = decodeBody[closedResponse](t, f.do(http.MethodGet, "/schedules/closed", "", nil))
	assert.Equal(t, "2024-12-20", res.Date)
	assert.False(t, res.Closed)
}

func TestProductAdmin(t *testing.T) {
	f := newFixture(t)

	t.Run("staff may not manage products", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/admin/products", staffID, map[string]any{"name": "Tahu"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("create applies defaults", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/admin/products", adminID, map[string]any{"name": "Tahu Isi", "price": 3000})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		p := decodeBody[menu.Product](t, rec)
		assert.NotEmpty(t, p.ID)
		assert.True(t, p.IsAvailable)
		assert.Equal(t, menu.UnlimitedStock, p.Stock)
	})

	t.Run("create validates", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/admin/products", adminID, map[string]any{"name": " ", "price": 3000})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update keeps omitted stock", func(t *testing.T) {
		rec := f.do(http.MethodPut, "/admin/products/nasi", adminID, map[string]any{
			"name": "Nasi Goreng Spesial", "category": "Makanan", "price": 17000, "isAvailable": false,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		p := decodeBody[menu.Product](t, rec)
		assert.Equal(t, 10, p.Stock)
		assert.False(t, p.IsAvailable)
		assert.Equal(t, 17000, p.Price)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/admin/products/soto", adminID, nil).Code)
		assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/admin/products/soto", adminID, nil).Code)
	})

	assert.Equal(t, []string{activity.ActionProduct, activity.ActionProduct, activity.ActionProduct}, f.activity.actions())
	assert.Equal(t, []string{events.TopicProductChanged, events.TopicProductChanged, events.TopicProductChanged}, f.events.published())
}

func TestScheduleAdmin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/admin/schedules", adminID, map[string]any{
		"startDate": "2025-01-02", "endDate": "2025-01-01", "reason": "Renovasi",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/admin/schedules", adminID, map[string]any{
		"startDate": "2025-01-01", "endDate": "2025-01-02", "reason": "Tahun Baru",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	res := decodeBody[closedResponse](t, f.do(http.MethodGet, "/schedules/closed?date=2025-01-02", "", nil))
	assert.True(t, res.Closed)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/admin/schedules/natal", adminID, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/admin/schedules/natal", adminID, nil).Code)
	assert.Equal(t, []string{events.TopicScheduleChanged, events.TopicScheduleChanged}, f.events.published())
}
