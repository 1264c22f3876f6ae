package orders

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// FormatRupiah renders 25000 as "Rp25.000".
func FormatRupiah(amount int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.Itoa(amount)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-Rp" + b.String()
	}
	return "Rp" + b.String()
}

// ShortID is the receipt number shown to customers.
func ShortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

// WhatsAppLink builds the wa.me deep link a customer uses to confirm a QR payment.
func WhatsAppLink(phone string, o Order) string {
	text := fmt.Sprintf("Halo admin, saya sudah bayar pesanan #%s a.n. %s sebesar %s.",
		ShortID(o.ID), o.CustomerName, FormatRupiah(o.Total))
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(text)
}
