package httpx

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-warung-pos/internal/activity"
	"github.com/ariefcatur/go-warung-pos/internal/users"
	"github.com/go-chi/chi/v5"
)

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := a.Users.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if list == nil {
		list = []users.User{}
	}
	writeJSON(w, http.StatusOK, list)
}

type roleInput struct {
	Role string `json:"role"`
}

func (a *API) setUserRole(w http.ResponseWriter, r *http.Request) {
	var in roleInput
	if !decode(w, r, &in) {
		return
	}
	if !users.ValidRole(in.Role) {
		a.fail(w, r, users.ErrInvalidRole)
		return
	}
	id := chi.URLParam(r, "id")
	if actor := users.FromContext(r.Context()); actor != nil && actor.ID == id && in.Role != users.RoleAdmin {
		writeMsg(w, http.StatusConflict, "cannot demote yourself")
		return
	}
	u, err := a.Users.Get(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Users.SetRole(r.Context(), id, in.Role); err != nil {
		a.fail(w, r, err)
		return
	}
	a.logActivity(r.Context(), activity.ActionUserRole, fmt.Sprintf("Ubah role %s: %s -> %s", u.Name, u.Role, in.Role))
	u.Role = in.Role
	writeJSON(w, http.StatusOK, u)
}

func (a *API) listActivity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := a.Activity.List(r.Context(), limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if list == nil {
		list = []activity.Entry{}
	}
	writeJSON(w, http.StatusOK, list)
}
