package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-warung-pos/internal/cart"
	"github.com/ariefcatur/go-warung-pos/internal/menu"
	"github.com/ariefcatur/go-warung-pos/internal/orders"
	"github.com/ariefcatur/go-warung-pos/internal/report"
	"github.com/ariefcatur/go-warung-pos/internal/schedule"
	"github.com/ariefcatur/go-warung-pos/internal/users"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMsg(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// statusFor maps domain errors onto HTTP codes. Anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case menu.IsValidation(err), orders.IsValidation(err),
		errors.Is(err, orders.ErrEmptyCart),
		errors.Is(err, menu.ErrUnknownVariant),
		errors.Is(err, schedule.ErrInvalidRange), errors.Is(err, schedule.ErrInvalidDate),
		errors.Is(err, report.ErrInvalidRange), errors.Is(err, report.ErrInvalidDate),
		errors.Is(err, users.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, orders.ErrNotFound), errors.Is(err, menu.ErrNotFound),
		errors.Is(err, schedule.ErrNotFound), errors.Is(err, users.ErrNotFound),
		errors.Is(err, cart.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, orders.ErrStoreClosed), errors.Is(err, orders.ErrInvalidTransition),
		errors.Is(err, orders.ErrCheckoutInProgress), errors.Is(err, cart.ErrBusy):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code < http.StatusInternalServerError {
		writeMsg(w, code, err.Error())
		return
	}
	a.Log.Error().Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	writeMsg(w, code, "internal error, please try again")
}

// log is a convenience for handlers that only need a request-scoped logger.
func (a *API) log(r *http.Request) *zerolog.Logger {
	l := a.Log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
	return &l
}
