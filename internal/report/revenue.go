package report

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/ariefcatur/go-warung-pos/internal/orders"
	"github.com/ariefcatur/go-warung-pos/internal/schedule"
)

type Granularity string

const (
	Daily   Granularity = "daily"
	Monthly Granularity = "monthly"
)

// maxDailyDays is the longest range still shown day by day.
const maxDailyDays = 31

const bestSellerLimit = 5

var (
	ErrInvalidRange = errors.New("end date must not be before start date")
	ErrInvalidDate  = errors.New("dates must be YYYY-MM-DD")
)

type RevenueQuery struct {
	Start       time.Time // local midnight
	End         time.Time // local midnight, inclusive
	Granularity Granularity
	Search      string // narrows Transactions only
}

type Bucket struct {
	Key    string `json:"key"` // 2006-01-02 or 2006-01
	Total  int    `json:"total"`
	Orders int    `json:"orders"`
}

type BestSeller struct {
	Name     string `json:"name"`
	Variant  string `json:"variant,omitempty"`
	Quantity int    `json:"quantity"`
	Revenue  int    `json:"revenue"`
}

type Revenue struct {
	Start        string         `json:"start"`
	End          string         `json:"end"`
	Granularity  Granularity    `json:"granularity"`
	Buckets      []Bucket       `json:"buckets"`
	Total        int            `json:"total"`
	OrderCount   int            `json:"orderCount"`
	BestSellers  []BestSeller   `json:"bestSellers"`
	Transactions []orders.Order `json:"transactions"`
}

// ParseRange reads an inclusive local date range.
func ParseRange(start, end string, loc *time.Location) (time.Time, time.Time, error) {
	s, errS := time.ParseInLocation(schedule.DateLayout, start, loc)
	e, errE := time.ParseInLocation(schedule.DateLayout, end, loc)
	if errS != nil || errE != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	if e.Before(s) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return s, e, nil
}

// Window is the half-open creation-time window [start, end+1day) to load orders with.
func (q RevenueQuery) Window() (time.Time, time.Time) {
	return q.Start, q.End.AddDate(0, 0, 1)
}

// EffectiveGranularity escalates daily to monthly for ranges longer than 31 days.
func (q RevenueQuery) EffectiveGranularity() Granularity {
	if q.Granularity == Monthly {
		return Monthly
	}
	days := int(q.End.Sub(q.Start).Hours()/24+0.5) + 1
	if days > maxDailyDays {
		return Monthly
	}
	return Daily
}

func bucketKey(t time.Time, g Granularity) string {
	if g == Monthly {
		return t.Format("2006-01")
	}
	return t.Format(schedule.DateLayout)
}

// BuildRevenue buckets completed orders by the local calendar day they were created.
// Every day or month in the range gets a bucket, empty or not.
func BuildRevenue(list []orders.Order, q RevenueQuery, loc *time.Location) Revenue {
	g := q.EffectiveGranularity()
	rep := Revenue{
		Start:        q.Start.Format(schedule.DateLayout),
		End:          q.End.Format(schedule.DateLayout),
		Granularity:  g,
		Buckets:      []Bucket{},
		BestSellers:  []BestSeller{},
		Transactions: []orders.Order{},
	}

	index := map[string]int{}
	for d := q.Start; !d.After(q.End); d = d.AddDate(0, 0, 1) {
		key := bucketKey(d, g)
		if _, ok := index[key]; !ok {
			index[key] = len(rep.Buckets)
			rep.Buckets = append(rep.Buckets, Bucket{Key: key})
		}
	}

	sellers := map[string]*BestSeller{}
	search := strings.ToLower(strings.TrimSpace(q.Search))
	for _, o := range list {
		if o.Status.Normalize() != orders.StatusCompleted {
			continue
		}
		day := o.LocalDate(loc)
		if day.Before(q.Start) || day.After(q.End) {
			continue
		}
		b := &rep.Buckets[index[bucketKey(day, g)]]
		b.Total += o.Total
		b.Orders++
		rep.Total += o.Total
		rep.OrderCount++

		for _, it := range o.Items {
			key := KitchenKey(it.Name, it.Variant)
			bs, ok := sellers[key]
			if !ok {
				bs = &BestSeller{Name: it.Name, Variant: it.Variant}
				sellers[key] = bs
			}
			bs.Quantity += it.Quantity
			bs.Revenue += it.Subtotal()
		}

		if matches(o, search) {
			rep.Transactions = append(rep.Transactions, o)
		}
	}

	sort.SliceStable(rep.Transactions, func(i, j int) bool {
		return rep.Transactions[i].CreatedAt.After(rep.Transactions[j].CreatedAt)
	})
	for _, bs := range sellers {
		rep.BestSellers = append(rep.BestSellers, *bs)
	}
	sort.Slice(rep.BestSellers, func(i, j int) bool {
		a, b := rep.BestSellers[i], rep.BestSellers[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return KitchenKey(a.Name, a.Variant) < KitchenKey(b.Name, b.Variant)
	})
	if len(rep.BestSellers) > bestSellerLimit {
		rep.BestSellers = rep.BestSellers[:bestSellerLimit]
	}
	return rep
}

// matches is the free-text filter over customer, item and variant names.
func matches(o orders.Order, search string) bool {
	if search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(o.CustomerName), search) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.Name), search) ||
			strings.Contains(strings.ToLower(it.Variant), search) {
			return true
		}
	}
	return false
}
