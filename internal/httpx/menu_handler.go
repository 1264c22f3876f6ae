package httpx

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ariefcatur/go-warung-pos/internal/activity"
	"github.com/ariefcatur/go-warung-pos/internal/events"
	"github.com/ariefcatur/go-warung-pos/internal/menu"
	"github.com/ariefcatur/go-warung-pos/internal/schedule"
	"github.com/go-chi/chi/v5"
)

type menuResponse struct {
	Date       string          `json:"date"`
	Closed     *schedule.Entry `json:"closed,omitempty"`
	Categories []string        `json:"categories"`
	Products   []menu.Product  `json:"products"`
}

// GET /menu?date=YYYY-MM-DD lists what can be ordered for that date.
func (a *API) getMenu(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = a.today()
	}
	day, err := time.ParseInLocation(schedule.DateLayout, date, a.Location)
	if err != nil {
		a.fail(w, r, schedule.ErrInvalidDate)
		return
	}
	products, err := a.Menu.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	entries, err := a.Schedules.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menuResponse{
		Date:       date,
		Closed:     schedule.CheckIsClosed(entries, date),
		Categories: menu.SuggestedCategories,
		Products:   menu.FilterForDate(products, day),
	})
}

func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.Menu.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

type productInput struct {
	Name          string         `json:"name"`
	Category      string         `json:"category"`
	Price         int            `json:"price"`
	Stock         *int           `json:"stock"`
	Variants      []menu.Variant `json:"variants"`
	AvailableDays []int          `json:"availableDays"`
	IsAvailable   *bool          `json:"isAvailable"`
	ImageURL      string         `json:"imageUrl"`
}

// apply copies the input onto p. Stock and availability keep p's values when omitted.
func (in productInput) apply(p menu.Product) menu.Product {
	p.Name = in.Name
	p.Category = in.Category
	p.Price = in.Price
	p.Variants = in.Variants
	p.AvailableDays = in.AvailableDays
	p.ImageURL = in.ImageURL
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
	return p
}

func (a *API) createProduct(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if !decode(w, r, &in) {
		return
	}
	p := in.apply(menu.Product{Stock: menu.UnlimitedStock, IsAvailable: true})
	if err := menu.Validate(p); err != nil {
		a.fail(w, r, err)
		return
	}
	p, err := a.Menu.Create(r.Context(), p)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.productChanged(r, p, events.ChangeCreated, "Tambah menu "+p.Name)
	writeJSON(w, http.StatusCreated, p)
}

func (a *API) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if !decode(w, r, &in) {
		return
	}
	cur, err := a.Menu.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	p := in.apply(cur)
	if err := menu.Validate(p); err != nil {
		a.fail(w, r, err)
		return
	}
	p, err = a.Menu.Update(r.Context(), p)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.productChanged(r, p, events.ChangeUpdated, "Ubah menu "+p.Name)
	writeJSON(w, http.StatusOK, p)
}

func (a *API) deleteProduct(w http.ResponseWriter, r *http.Request) {
	p, err := a.Menu.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Menu.Delete(r.Context(), p.ID); err != nil {
		a.fail(w, r, err)
		return
	}
	a.productChanged(r, p, events.ChangeDeleted, "Hapus menu "+p.Name)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) productChanged(r *http.Request, p menu.Product, change, desc string) {
	a.logActivity(r.Context(), activity.ActionProduct, desc)
	a.Events.Publish(r.Context(), events.TopicProductChanged, events.EventProductChanged, p.ID,
		events.ProductChangedPayload{ProductID: p.ID, Change: change})
}

type closedResponse struct {
	Date     string          `json:"date"`
	Closed   bool            `json:"closed"`
	Schedule *schedule.Entry `json:"schedule,omitempty"`
}

// GET /schedules/closed?date= answers whether the store takes orders that day.
func (a *API) checkClosed(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = a.today()
	}
	if _, err := time.Parse(schedule.DateLayout, date); err != nil {
		a.fail(w, r, schedule.ErrInvalidDate)
		return
	}
	entries, err := a.Schedules.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	e := schedule.CheckIsClosed(entries, date)
	writeJSON(w, http.StatusOK, closedResponse{Date: date, Closed: e != nil, Schedule: e})
}

func (a *API) listSchedules(w http.ResponseWriter, r *http.Request) {
	entries, err := a.Schedules.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (a *API) createSchedule(w http.ResponseWriter, r *http.Request) {
	var e schedule.Entry
	if !decode(w, r, &e) {
		return
	}
	if err := schedule.Validate(e); err != nil {
		a.fail(w, r, err)
		return
	}
	e, err := a.Schedules.Create(r.Context(), e)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.scheduleChanged(r, e.ID, events.ChangeCreated,
		fmt.Sprintf("Tutup toko %s s/d %s: %s", e.StartDate, e.EndDate, e.Reason))
	writeJSON(w, http.StatusCreated, e)
}

func (a *API) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Schedules.Delete(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	a.scheduleChanged(r, id, events.ChangeDeleted, "Hapus jadwal tutup "+id)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) scheduleChanged(r *http.Request, id, change, desc string) {
	a.logActivity(r.Context(), activity.ActionSchedule, desc)
	a.Events.Publish(r.Context(), events.TopicScheduleChanged, events.EventScheduleChanged, id,
		events.ScheduleChangedPayload{ScheduleID: id, Change: change})
}
