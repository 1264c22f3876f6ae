package orders

import (
	"time"

	"github.com/ariefcatur/go-warung-pos/internal/cart"
	"github.com/ariefcatur/go-warung-pos/internal/schedule"
)

type Order struct {
	ID            string        `json:"id"`
	CustomerName  string        `json:"customerName"`
	Items         []cart.Item   `json:"items"`
	Total         int           `json:"total"`
	CreatedAt     time.Time     `json:"createdAt"`
	OrderDate     string        `json:"orderDate,omitempty"` // empty on legacy records
	Status        Status        `json:"status"`
	IsPaid        bool          `json:"isPaid"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`
	UserID        string        `json:"userId"`
	Note          string        `json:"note,omitempty"`
}

// TargetDate is the service date, falling back to the local creation date for legacy orders.
func (o Order) TargetDate(loc *time.Location) string {
	if o.OrderDate != "" {
		return o.OrderDate
	}
	return o.CreatedAt.In(loc).Format(schedule.DateLayout)
}

// LocalDate is the calendar day the order was placed; revenue is bucketed on it.
func (o Order) LocalDate(loc *time.Location) time.Time {
	t := o.CreatedAt.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func SumItems(items []cart.Item) int {
	total := 0
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}

// FilterByTargetDate keeps orders for date; "" and "all" keep everything.
func FilterByTargetDate(list []Order, date string, loc *time.Location) []Order {
	if date == "" || date == "all" {
		return list
	}
	out := make([]Order, 0, len(list))
	for _, o := range list {
		if o.TargetDate(loc) == date {
			out = append(out, o)
		}
	}
	return out
}
