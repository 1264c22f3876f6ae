package users

import (
	"context"
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrInvalidRole = errors.New("role must be admin or staff")
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsAdmin is the only authorization distinction the application makes.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

func ValidRole(role string) bool { return role == RoleAdmin || role == RoleStaff }

type ctxKey struct{}

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns nil for public callers.
func FromContext(ctx context.Context) *User {
	u, _ := ctx.Value(ctxKey{}).(*User)
	return u
}
