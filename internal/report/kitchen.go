package report

import (
	"sort"
	"time"

	"github.com/ariefcatur/go-warung-pos/internal/orders"
)

type KitchenLine struct {
	Name          string   `json:"name"`
	Variant       string   `json:"variant,omitempty"`
	TotalQuantity int      `json:"totalQuantity"`
	Notes         []string `json:"notes"` // distinct, in first-seen order
}

// Kitchen maps "{name}" or "{name} ({variant})" to what still has to be cooked.
type Kitchen map[string]*KitchenLine

func KitchenKey(name, variant string) string {
	if variant == "" {
		return name
	}
	return name + " (" + variant + ")"
}

// KitchenSummary aggregates line items of pending and processing orders.
// date filters on the order's target date; "" or "all" takes every date.
func KitchenSummary(list []orders.Order, date string, loc *time.Location) Kitchen {
	out := Kitchen{}
	for _, o := range orders.FilterByTargetDate(list, date, loc) {
		if !o.Status.Active() {
			continue
		}
		for _, it := range o.Items {
			key := KitchenKey(it.Name, it.Variant)
			line, ok := out[key]
			if !ok {
				line = &KitchenLine{Name: it.Name, Variant: it.Variant, Notes: []string{}}
				out[key] = line
			}
			line.TotalQuantity += it.Quantity
			if it.Note != "" && !contains(line.Notes, it.Note) {
				line.Notes = append(line.Notes, it.Note)
			}
		}
	}
	return out
}

type KitchenRow struct {
	Key string `json:"key"`
	KitchenLine
}

// Rows flattens the summary sorted by key for stable display.
func (k Kitchen) Rows() []KitchenRow {
	rows := make([]KitchenRow, 0, len(k))
	for key, line := range k {
		rows = append(rows, KitchenRow{Key: key, KitchenLine: *line})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
