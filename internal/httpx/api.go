package httpx

import (
	"context"
	"time"

	"github.com/ariefcatur/go-warung-pos/internal/activity"
	"github.com/ariefcatur/go-warung-pos/internal/cart"
	"github.com/ariefcatur/go-warung-pos/internal/events"
	"github.com/ariefcatur/go-warung-pos/internal/live"
	"github.com/ariefcatur/go-warung-pos/internal/menu"
	"github.com/ariefcatur/go-warung-pos/internal/orders"
	"github.com/ariefcatur/go-warung-pos/internal/report"
	"github.com/ariefcatur/go-warung-pos/internal/schedule"
	"github.com/ariefcatur/go-warung-pos/internal/users"
	"github.com/rs/zerolog"
)

// Narrow store interfaces; the pgx repos satisfy them, tests use in-memory ones.

type MenuStore interface {
	List(ctx context.Context) ([]menu.Product, error)
	Get(ctx context.Context, id string) (menu.Product, error)
	Create(ctx context.Context, p menu.Product) (menu.Product, error)
	Update(ctx context.Context, p menu.Product) (menu.Product, error)
	Delete(ctx context.Context, id string) error
}

type ScheduleStore interface {
	List(ctx context.Context) ([]schedule.Entry, error)
	Create(ctx context.Context, e schedule.Entry) (schedule.Entry, error)
	Delete(ctx context.Context, id string) error
}

type OrderWindow interface {
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]orders.Order, error)
}

type UserStore interface {
	Get(ctx context.Context, id string) (*users.User, error)
	List(ctx context.Context) ([]users.User, error)
	SetRole(ctx context.Context, id, role string) error
}

type ActivityStore interface {
	activity.Appender
	List(ctx context.Context, limit int) ([]activity.Entry, error)
}

type LiveFeed interface {
	Subscribe(ctx context.Context) (<-chan live.Notice, error)
}

type API struct {
	Menu      MenuStore
	Schedules ScheduleStore
	Carts     cart.Store
	Orders    *orders.Service
	Reports   OrderWindow
	Users     UserStore
	Activity  ActivityStore
	Events    events.Publisher
	Kitchen   report.KitchenCache // optional
	Live      LiveFeed            // optional

	Location          *time.Location
	PaymentQRPath     string
	AdminPhone        string
	LowStockThreshold int

	Log zerolog.Logger
}

// logActivity records an admin action; failures are logged only.
func (a *API) logActivity(ctx context.Context, action, desc string) {
	actor := users.FromContext(ctx)
	if actor == nil {
		return
	}
	err := a.Activity.Append(ctx, activity.Entry{UserID: actor.ID, UserName: actor.Name, Action: action, Description: desc})
	if err != nil {
		a.Log.Error().Err(err).Str("action", action).Msg("append activity log")
	}
}

func (a *API) today() string { return a.Orders.Today() }
