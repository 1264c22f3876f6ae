package orders

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ariefcatur/go-warung-pos/internal/activity"
	"github.com/ariefcatur/go-warung-pos/internal/cart"
	"github.com/ariefcatur/go-warung-pos/internal/events"
	"github.com/ariefcatur/go-warung-pos/internal/schedule"
	"github.com/ariefcatur/go-warung-pos/internal/users"
	"golang.org/x/sync/errgroup"
)

const stockWriters = 4

type CheckoutRequest struct {
	Session        string
	CustomerName   string
	OrderDate      string // YYYY-MM-DD, empty means today
	Note           string
	IdempotencyKey string
	Actor          *users.User // nil for public self-service
}

type CheckoutResult struct {
	Order Order
	// StockWarnings lists products whose stock could not be decremented.
	// The order stands regardless; stock has to be corrected by hand.
	StockWarnings []string
	Replayed      bool
}

// Checkout turns the session cart into a pending order, counts stock down and clears the cart.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (res CheckoutResult, err error) {
	if req.IdempotencyKey != "" && s.Idempotency != nil {
		prev, reserved, rerr := s.reserve(ctx, req.IdempotencyKey)
		if rerr != nil {
			return CheckoutResult{}, rerr
		}
		if !reserved {
			return prev, nil
		}
		defer func() {
			if err != nil {
				s.release(req.IdempotencyKey)
			}
		}()
	}

	c, err := s.Carts.Load(ctx, req.Session)
	if err != nil {
		return CheckoutResult{}, err
	}
	if c.Empty() {
		return CheckoutResult{}, ErrEmptyCart
	}
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return CheckoutResult{}, newValidationError("customer name is required")
	}

	date, err := s.resolveOrderDate(req.OrderDate)
	if err != nil {
		return CheckoutResult{}, err
	}
	entries, err := s.Schedules.List(ctx)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("load store schedule: %w", err)
	}
	if closed := schedule.CheckIsClosed(entries, date); closed != nil {
		return CheckoutResult{}, fmt.Errorf("%w: %s (%s s/d %s)", ErrStoreClosed, closed.Reason, closed.StartDate, closed.EndDate)
	}

	items := c.Snapshot()
	o := Order{
		CustomerName: name,
		Items:        items,
		Total:        SumItems(items),
		OrderDate:    date,
		Status:       StatusPending,
		UserID:       s.PublicUserID,
		Note:         strings.TrimSpace(req.Note),
	}
	if req.Actor != nil {
		o.UserID = req.Actor.ID
	}
	if err := s.Orders.Create(ctx, &o); err != nil {
		return CheckoutResult{}, fmt.Errorf("create order: %w", err)
	}

	res = CheckoutResult{Order: o, StockWarnings: s.decrementStock(ctx, items)}
	s.invalidateKitchen(ctx)

	if err := s.Carts.Clear(ctx, req.Session); err != nil {
		s.Log.Error().Err(err).Str("order_id", o.ID).Msg("clear cart after checkout")
	}
	if req.IdempotencyKey != "" && s.Idempotency != nil {
		if err := s.Idempotency.Complete(ctx, req.IdempotencyKey, o.ID); err != nil {
			s.Log.Warn().Err(err).Str("order_id", o.ID).Msg("complete idempotency key")
		}
	}

	s.logActivity(ctx, req.Actor, activity.ActionTransaction,
		fmt.Sprintf("Transaksi %s a.n. %s", FormatRupiah(o.Total), o.CustomerName))
	s.Events.Publish(ctx, events.TopicOrderCreated, events.EventOrderCreated, o.ID, events.OrderCreatedPayload{
		OrderID:      o.ID,
		UserID:       o.UserID,
		CustomerName: o.CustomerName,
		OrderDate:    o.OrderDate,
		Items:        toItemQty(items),
		Total:        o.Total,
	})
	return res, nil
}

// reserve claims key before any work. reserved=false comes with the earlier
// result to replay. When Redis is down the checkout runs unguarded.
func (s *Service) reserve(ctx context.Context, key string) (CheckoutResult, bool, error) {
	reserved, id, err := s.Idempotency.Reserve(ctx, key)
	if err != nil {
		s.Log.Warn().Err(err).Msg("idempotency reserve")
		return CheckoutResult{}, true, nil
	}
	if reserved {
		return CheckoutResult{}, true, nil
	}
	if id == "" {
		return CheckoutResult{}, false, ErrCheckoutInProgress
	}
	o, err := s.Orders.Get(ctx, id)
	if err != nil {
		return CheckoutResult{}, false, fmt.Errorf("replay checkout %s: %w", id, err)
	}
	return CheckoutResult{Order: o, Replayed: true}, false, nil
}

// release frees a key whose checkout failed so the client can try again.
// It outlives the request context so a cancelled request still frees its key.
func (s *Service) release(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Idempotency.Release(ctx, key); err != nil {
		s.Log.Warn().Err(err).Msg("idempotency release")
	}
}

func (s *Service) resolveOrderDate(date string) (string, error) {
	today := s.Today()
	date = strings.TrimSpace(date)
	if date == "" {
		return today, nil
	}
	if _, err := time.Parse(schedule.DateLayout, date); err != nil {
		return "", newValidationError("order date must be YYYY-MM-DD")
	}
	if date < today {
		return "", newValidationError("order date is in the past")
	}
	return date, nil
}

// decrementStock issues one conditional update per product, in parallel.
// Failures do not undo the order; they come back as warnings.
func (s *Service) decrementStock(ctx context.Context, items []cart.Item) []string {
	qty := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		if _, seen := qty[it.ProductID]; !seen {
			order = append(order, it.ProductID)
		}
		qty[it.ProductID] += it.Quantity
	}

	var (
		mu       sync.Mutex
		warnings []string
		g        errgroup.Group
	)
	g.SetLimit(stockWriters)
	for _, id := range order {
		id, n := id, qty[id]
		g.Go(func() error {
			if err := s.Stock.DecrementStock(ctx, id, n); err != nil {
				s.Log.Error().Err(err).Str("product_id", id).Int("qty", n).Msg("decrement stock")
				mu.Lock()
				warnings = append(warnings, id)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return warnings
}

func toItemQty(items []cart.Item) []events.ItemQty {
	out := make([]events.ItemQty, 0, len(items))
	for _, it := range items {
		out = append(out, events.ItemQty{ProductID: it.ProductID, Variant: it.Variant, Qty: it.Quantity})
	}
	return out
}
