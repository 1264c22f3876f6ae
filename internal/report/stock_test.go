package report

import (
	"testing"

	"github.com/ariefcatur/go-warung-pos/internal/menu"
	"github.com/stretchr/testify/assert"
)

func TestLowStock(t *testing.T) {
	products := []menu.Product{
		{Name: "Unlimited", Stock: menu.UnlimitedStock},
		{Name: "Plenty", Stock: 40},
		{Name: "Ayam", Stock: 3},
		{Name: "Bebek", Stock: 0},
		{Name: "Cumi", Stock: 5},
	}
	got := LowStock(products, 5)
	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Bebek", "Ayam", "Cumi"}, names)
	assert.Empty(t, LowStock(nil, 5))
}
