package cart

import (
	"errors"

	"github.com/ariefcatur/go-warung-pos/internal/menu"
)

var ErrItemNotFound = errors.New("cart item not found")

// Item is a line in the cart and, once checked out, in the order snapshot.
type Item struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Category  string `json:"category,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Variant   string `json:"variant,omitempty"`
	Price     int    `json:"price"` // resolved unit price
	Note      string `json:"note,omitempty"`
	Quantity  int    `json:"quantity"`
}

func (it Item) Subtotal() int { return it.Price * it.Quantity }

// ItemPatch carries the fields UpdateDetails overwrites; nil fields are kept.
type ItemPatch struct {
	Variant *string `json:"variant,omitempty"`
	Price   *int    `json:"price,omitempty"`
	Note    *string `json:"note,omitempty"`
}

type Cart struct {
	Items []Item `json:"items"`
}

// Add merges into an existing line with the same product and variant,
// otherwise appends a new line with quantity 1.
func (c *Cart) Add(p menu.Product, variant, note string, unitPrice int) {
	for i := range c.Items {
		it := &c.Items[i]
		if it.ProductID == p.ID && it.Variant == variant {
			it.Quantity++
			if note != "" {
				it.Note = note
			}
			return
		}
	}
	c.Items = append(c.Items, Item{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		ImageURL:  p.ImageURL,
		Variant:   variant,
		Price:     unitPrice,
		Note:      note,
		Quantity:  1,
	})
}

// UpdateQuantity never lets a line drop below 1; use Remove for that.
func (c *Cart) UpdateQuantity(index, delta int) error {
	if !c.inRange(index) {
		return ErrItemNotFound
	}
	c.Items[index].Quantity = max(1, c.Items[index].Quantity+delta)
	return nil
}

func (c *Cart) Remove(index int) error {
	if !c.inRange(index) {
		return ErrItemNotFound
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	return nil
}

func (c *Cart) UpdateDetails(index int, patch ItemPatch) error {
	if !c.inRange(index) {
		return ErrItemNotFound
	}
	it := &c.Items[index]
	if patch.Variant != nil {
		it.Variant = *patch.Variant
	}
	if patch.Price != nil {
		it.Price = *patch.Price
	}
	if patch.Note != nil {
		it.Note = *patch.Note
	}
	return nil
}

func (c *Cart) Clear() { c.Items = nil }

func (c *Cart) Empty() bool { return len(c.Items) == 0 }

func (c *Cart) Total() int {
	total := 0
	for _, it := range c.Items {
		total += it.Subtotal()
	}
	return total
}

// Snapshot copies the lines so later cart edits cannot reach an order.
func (c *Cart) Snapshot() []Item {
	out := make([]Item, len(c.Items))
	copy(out, c.Items)
	return out
}

func (c *Cart) inRange(i int) bool { return i >= 0 && i < len(c.Items) }
