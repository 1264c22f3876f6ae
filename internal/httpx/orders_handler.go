package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-warung-pos/internal/orders"
	"github.com/ariefcatur/go-warung-pos/internal/users"
	"github.com/go-chi/chi/v5"
)

type checkoutInput struct {
	CustomerName string `json:"customerName"`
	OrderDate    string `json:"orderDate"`
	Note         string `json:"note"`
}

type checkoutResponse struct {
	Order         orders.Order `json:"order"`
	StockWarnings []string     `json:"stockWarnings,omitempty"`
	PaymentLink   string       `json:"paymentLink"`
}

func (a *API) checkout(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	var in checkoutInput
	if !decode(w, r, &in) {
		return
	}
	res, err := a.Orders.Checkout(r.Context(), orders.CheckoutRequest{
		Session:        sess,
		CustomerName:   in.CustomerName,
		OrderDate:      in.OrderDate,
		Note:           in.Note,
		IdempotencyKey: r.Header.Get(headerIdempotency),
		Actor:          users.FromContext(r.Context()),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	code := http.StatusCreated
	if res.Replayed {
		code = http.StatusOK
	}
	for _, warn := range res.StockWarnings {
		a.log(r).Warn().Str("order_id", res.Order.ID).Str("detail", warn).Msg("stock not decremented")
	}
	writeJSON(w, code, checkoutResponse{
		Order:         res.Order,
		StockWarnings: res.StockWarnings,
		PaymentLink:   orders.WhatsAppLink(a.AdminPhone, res.Order),
	})
}

func (a *API) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := a.Orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type claimResponse struct {
	Order       orders.Order `json:"order"`
	PaymentLink string       `json:"paymentLink"`
}

func (a *API) claimPayment(w http.ResponseWriter, r *http.Request) {
	o, link, err := a.Orders.ClaimPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, claimResponse{Order: o, PaymentLink: link})
}

type paymentInfo struct {
	QRPath     string `json:"qrPath"`
	AdminPhone string `json:"adminPhone"`
}

func (a *API) getPaymentInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, paymentInfo{QRPath: a.PaymentQRPath, AdminPhone: a.AdminPhone})
}

// GET /admin/orders?date= ; default is today, "all" lists everything.
func (a *API) listOrders(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = a.today()
	}
	list, err := a.Orders.List(r.Context(), date)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}

type statusInput struct {
	Status string `json:"status"`
}

func (a *API) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var in statusInput
	if !decode(w, r, &in) {
		return
	}
	o, err := a.Orders.UpdateStatus(r.Context(), users.FromContext(r.Context()), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type paymentToggleInput struct {
	IsPaid bool `json:"isPaid"` // as the caller currently sees it
}

func (a *API) togglePayment(w http.ResponseWriter, r *http.Request) {
	var in paymentToggleInput
	if !decode(w, r, &in) {
		return
	}
	o, err := a.Orders.TogglePaymentStatus(r.Context(), users.FromContext(r.Context()), chi.URLParam(r, "id"), in.IsPaid)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (a *API) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := a.Orders.Delete(r.Context(), users.FromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
