package httpx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/go-warung-pos/internal/menu"
	"github.com/ariefcatur/go-warung-pos/internal/orders"
	"github.com/ariefcatur/go-warung-pos/internal/report"
	"github.com/ariefcatur/go-warung-pos/internal/schedule"
	"golang.org/x/sync/errgroup"
)

// GET /admin/kitchen?date= ; rows are served from cache until the worker bumps the version.
func (a *API) getKitchen(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = a.today()
	}
	if a.Kitchen != nil {
		if rows, ok := a.Kitchen.Get(r.Context(), date); ok {
			writeJSON(w, http.StatusOK, rows)
			return
		}
	}
	list, err := a.Orders.List(r.Context(), "all")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	rows := report.KitchenSummary(list, date, a.Location).Rows()
	if a.Kitchen != nil {
		a.Kitchen.Put(r.Context(), date, rows)
	}
	writeJSON(w, http.StatusOK, rows)
}

// revenueQuery reads start, end, granularity and q. The range defaults to the current month so far.
func (a *API) revenueQuery(r *http.Request) (report.RevenueQuery, error) {
	qs := r.URL.Query()
	today := a.today()
	start, end := qs.Get("start"), qs.Get("end")
	if start == "" {
		start = today[:len("2006-01")] + "-01"
	}
	if end == "" {
		end = today
	}
	s, e, err := report.ParseRange(start, end, a.Location)
	if err != nil {
		return report.RevenueQuery{}, err
	}
	return report.RevenueQuery{
		Start:       s,
		End:         e,
		Granularity: report.Granularity(qs.Get("granularity")),
		Search:      qs.Get("q"),
	}, nil
}

func (a *API) buildRevenue(r *http.Request) (report.Revenue, error) {
	q, err := a.revenueQuery(r)
	if err != nil {
		return report.Revenue{}, err
	}
	from, to := q.Window()
	list, err := a.Reports.ListCreatedBetween(r.Context(), from, to)
	if err != nil {
		return report.Revenue{}, err
	}
	return report.BuildRevenue(list, q, a.Location), nil
}

func (a *API) getRevenue(w http.ResponseWriter, r *http.Request) {
	rep, err := a.buildRevenue(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (a *API) exportRevenue(w http.ResponseWriter, r *http.Request) {
	rep, err := a.buildRevenue(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="laporan-`+rep.Start+`_`+rep.End+`.xlsx"`)
	if err := report.WriteXLSX(w, rep, a.Location); err != nil {
		a.log(r).Error().Err(err).Msg("write revenue xlsx")
	}
}

func (a *API) threshold(r *http.Request) int {
	if v, err := strconv.Atoi(r.URL.Query().Get("threshold")); err == nil && v >= 0 {
		return v
	}
	return a.LowStockThreshold
}

func (a *API) getLowStock(w http.ResponseWriter, r *http.Request) {
	products, err := a.Menu.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.LowStock(products, a.threshold(r)))
}

type dashboard struct {
	Date     string              `json:"date"`
	Revenue  report.Revenue      `json:"revenue"`
	Kitchen  []report.KitchenRow `json:"kitchen"`
	LowStock []menu.Product      `json:"lowStock"`
}

// GET /admin/dashboard combines today's revenue, kitchen queue and stock alerts.
func (a *API) getDashboard(w http.ResponseWriter, r *http.Request) {
	today := a.today()
	day, _ := time.ParseInLocation(schedule.DateLayout, today, a.Location)

	var (
		products []menu.Product
		all      []orders.Order
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		products, err = a.Menu.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		all, err = a.Orders.List(ctx, "all")
		return err
	})
	if err := g.Wait(); err != nil {
		a.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboard{
		Date:     today,
		Revenue:  report.BuildRevenue(all, report.RevenueQuery{Start: day, End: day, Granularity: report.Daily}, a.Location),
		Kitchen:  report.KitchenSummary(all, today, a.Location).Rows(),
		LowStock: report.LowStock(products, a.threshold(r)),
	})
}
