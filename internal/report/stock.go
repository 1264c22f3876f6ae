package report

import (
	"sort"

	"github.com/ariefcatur/go-warung-pos/internal/menu"
)

// LowStock lists counted products at or below threshold, emptiest first.
func LowStock(products []menu.Product, threshold int) []menu.Product {
	out := []menu.Product{}
	for _, p := range products {
		if p.HasFiniteStock() && p.Stock <= threshold {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		return out[i].Name < out[j].Name
	})
	return out
}
