package report

import (
	"time"

	"github.com/ariefcatur/go-warung-pos/internal/cart"
	"github.com/ariefcatur/go-warung-pos/internal/orders"
)

var wib = time.FixedZone("WIB", 7*60*60)

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, wib)
}

func day(y int, m time.Month, d int) time.Time { return at(y, m, d, 0) }

func order(id string, status orders.Status, created time.Time, total int, items ...cart.Item) orders.Order {
	return orders.Order{ID: id, Status: status, CreatedAt: created, Total: total, Items: items, CustomerName: "Pelanggan " + id}
}

func line(name, variant, note string, qty, price int) cart.Item {
	return cart.Item{ProductID: name, Name: name, Variant: variant, Note: note, Quantity: qty, Price: price}
}
