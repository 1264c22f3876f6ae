package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(a *API) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(a.Log), middleware.Recoverer)
	r.Use(a.Authenticate)

	// the event stream is long-lived, keep it out of the request timeout
	r.Get("/live", a.streamLive)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		a.registerPublic(r)
		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireStaff)
			a.registerStaff(r)
			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)
				a.registerAdmin(r)
			})
		})
	})
	return r
}

func (a *API) registerPublic(r chi.Router) {
	r.Get("/menu", a.getMenu)
	r.Get("/schedules/closed", a.checkClosed)
	r.Get("/payment-info", a.getPaymentInfo)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", a.getCart)
		r.Delete("/", a.clearCart)
		r.Post("/items", a.addCartItem)
		r.Patch("/items/{index}", a.updateCartItem)
		r.Patch("/items/{index}/quantity", a.changeCartQuantity)
		r.Delete("/items/{index}", a.removeCartItem)
	})
	r.Post("/checkout", a.checkout)
	r.Get("/orders/{id}", a.getOrder)
	r.Post("/orders/{id}/payment-claim", a.claimPayment)
}

// registerStaff is order handling and reporting, open to every signed-in user.
func (a *API) registerStaff(r chi.Router) {
	r.Get("/orders", a.listOrders)
	r.Patch("/orders/{id}/status", a.updateOrderStatus)
	r.Post("/orders/{id}/payment-toggle", a.togglePayment)
	r.Delete("/orders/{id}", a.deleteOrder)
	r.Get("/kitchen", a.getKitchen)
	r.Get("/dashboard", a.getDashboard)
	r.Get("/reports/revenue", a.getRevenue)
	r.Get("/reports/revenue.xlsx", a.exportRevenue)
	r.Get("/reports/low-stock", a.getLowStock)
}

func (a *API) registerAdmin(r chi.Router) {
	r.Get("/products", a.listProducts)
	r.Post("/products", a.createProduct)
	r.Put("/products/{id}", a.updateProduct)
	r.Delete("/products/{id}", a.deleteProduct)

	r.Get("/schedules", a.listSchedules)
	r.Post("/schedules", a.createSchedule)
	r.Delete("/schedules/{id}", a.deleteSchedule)

	r.Get("/users", a.listUsers)
	r.Patch("/users/{id}/role", a.setUserRole)
	r.Get("/activity", a.listActivity)
}
