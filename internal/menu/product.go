package menu

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// UnlimitedStock marks a product whose stock is never counted down.
const UnlimitedStock = -1

// SuggestedCategories feeds the category picker on the admin form; any text is accepted.
var SuggestedCategories = []string{"Makanan", "Minuman", "Snack", "Paket"}

var (
	ErrNotFound       = errors.New("product not found")
	ErrUnknownVariant = errors.New("unknown variant")
)

type Variant struct {
	Name  string `json:"name"`
	Price *int   `json:"price,omitempty"` // overrides the base price when set
}

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Price         int       `json:"price"`
	Stock         int       `json:"stock"`
	Variants      []Variant `json:"variants"`
	AvailableDays []int     `json:"availableDays"`
	IsAvailable   bool      `json:"isAvailable"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (p Product) HasFiniteStock() bool { return p.Stock != UnlimitedStock }

// AvailableOn reports whether the product may be ordered on the given weekday.
// An empty day list means every day.
func (p Product) AvailableOn(day time.Weekday) bool {
	if !p.IsAvailable {
		return false
	}
	if len(p.AvailableDays) == 0 {
		return true
	}
	for _, d := range p.AvailableDays {
		if d == int(day) {
			return true
		}
	}
	return false
}

// UnitPrice resolves the price of one unit for the chosen variant.
// An empty variant name selects the base price.
func (p Product) UnitPrice(variant string) (int, error) {
	if variant == "" {
		return p.Price, nil
	}
	for _, v := range p.Variants {
		if v.Name != variant {
			continue
		}
		if v.Price != nil {
			return *v.Price, nil
		}
		return p.Price, nil
	}
	return 0, fmt.Errorf("%w: %q on %s", ErrUnknownVariant, variant, p.Name)
}

// FilterForDate returns the products orderable on the weekday of date, keeping order.
func FilterForDate(products []Product, date time.Time) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.AvailableOn(date.Weekday()) {
			out = append(out, p)
		}
	}
	return out
}

type validationError struct {
	message string
}

func (e validationError) Error() string { return e.message }

// IsValidation tells handlers the error came from user input.
func IsValidation(err error) bool {
	var v validationError
	return errors.As(err, &v)
}

func Validate(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return validationError{"name is required"}
	}
	if p.Price < 0 {
		return validationError{"price must not be negative"}
	}
	if p.Stock < UnlimitedStock {
		return validationError{"stock must be -1 (unlimited) or a count"}
	}
	for _, d := range p.AvailableDays {
		if d < 0 || d > 6 {
			return validationError{fmt.Sprintf("available day %d out of range 0..6", d)}
		}
	}
	seen := make(map[string]bool, len(p.Variants))
	for _, v := range p.Variants {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			return validationError{"variant name is required"}
		}
		if seen[name] {
			return validationError{fmt.Sprintf("duplicate variant %q", name)}
		}
		seen[name] = true
		if v.Price != nil && *v.Price < 0 {
			return validationError{fmt.Sprintf("variant %q price must not be negative", name)}
		}
	}
	return nil
}
