package httpx

import (
	"errors"
	"net/http"
	"time"

	"github.com/ariefcatur/go-warung-pos/internal/users"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const (
	headerUserID      = "X-User-Id"
	headerCartSession = "X-Cart-Session"
	headerIdempotency = "Idempotency-Key"
)

// RequestLogger logs one line per request once the response is written.
func RequestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("user_header", r.Header.Get(headerUserID)).
				Msg("request completed")
		})
	}
}

// Authenticate resolves the caller from the identity header set by the auth gateway.
// No header means a public caller.
func (a *API) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerUserID)
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		u, err := a.Users.Get(r.Context(), id)
		if errors.Is(err, users.ErrNotFound) {
			writeMsg(w, http.StatusUnauthorized, "unknown user")
			return
		}
		if err != nil {
			a.fail(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(users.WithUser(r.Context(), u)))
	})
}

func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if users.FromContext(r.Context()) == nil {
			writeMsg(w, http.StatusUnauthorized, "sign in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := users.FromContext(r.Context())
		if u == nil {
			writeMsg(w, http.StatusUnauthorized, "sign in required")
			return
		}
		if !u.IsAdmin() {
			writeMsg(w, http.StatusForbidden, "admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}
