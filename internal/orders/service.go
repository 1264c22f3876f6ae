package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/ariefcatur/go-warung-pos/internal/activity"
	"github.com/ariefcatur/go-warung-pos/internal/cart"
	"github.com/ariefcatur/go-warung-pos/internal/events"
	"github.com/ariefcatur/go-warung-pos/internal/schedule"
	"github.com/ariefcatur/go-warung-pos/internal/users"
	"github.com/rs/zerolog"
)

// Store is the order persistence the service needs. *Repo satisfies it.
type Store interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, s Status) error
	SetPaid(ctx context.Context, id string, paid bool) error
	SetPaymentStatus(ctx context.Context, id string, ps PaymentStatus) error
	Delete(ctx context.Context, id string) error
}

// StockStore is satisfied by *menu.Repo.
type StockStore interface {
	DecrementStock(ctx context.Context, productID string, qty int) error
}

// ScheduleSource is satisfied by *schedule.Repo.
type ScheduleSource interface {
	List(ctx context.Context) ([]schedule.Entry, error)
}

// KitchenInvalidator drops cached kitchen summaries. *report.RedisKitchenCache satisfies it.
type KitchenInvalidator interface {
	Invalidate(ctx context.Context) error
}

type Service struct {
	Orders       Store
	Stock        StockStore
	Schedules    ScheduleSource
	Carts        cart.Store
	Activity     activity.Appender
	Events       events.Publisher
	Idempotency  Idempotency        // optional
	Kitchen      KitchenInvalidator // optional
	Location     *time.Location
	PublicUserID string
	AdminPhone   string
	Now          func() time.Time
	Log          zerolog.Logger
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Today is the current local calendar date.
func (s *Service) Today() string {
	return s.now().In(s.Location).Format(schedule.DateLayout)
}

func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.Orders.Get(ctx, id)
}

// List returns orders for a target date; "" or "all" returns every order.
func (s *Service) List(ctx context.Context, date string) ([]Order, error) {
	all, err := s.Orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return FilterByTargetDate(all, date, s.Location), nil
}

// UpdateStatus moves an order along pending -> processing -> completed, or pending -> cancelled.
// Setting the status it already has (under any alias) changes nothing.
func (s *Service) UpdateStatus(ctx context.Context, actor *users.User, id, target string) (Order, error) {
	to, ok := ParseStatus(target)
	if !ok {
		return Order{}, newValidationError(fmt.Sprintf("unknown status %q", target))
	}
	o, err := s.Orders.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	from := o.Status.Normalize()
	if from == to {
		return o, nil
	}
	if !CanTransition(from, to) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if err := s.Orders.UpdateStatus(ctx, id, to); err != nil {
		return Order{}, fmt.Errorf("update status: %w", err)
	}
	o.Status = to
	s.invalidateKitchen(ctx)

	s.logActivity(ctx, actor, activity.ActionOrderStatus,
		fmt.Sprintf("Pesanan #%s (%s): %s -> %s", ShortID(o.ID), o.CustomerName, from, to))
	s.Events.Publish(ctx, events.TopicOrderStatusChanged, events.EventOrderStatusChanged, o.ID,
		events.OrderStatusChangedPayload{OrderID: o.ID, From: string(from), To: string(to)})
	return o, nil
}

// TogglePaymentStatus writes !currentIsPaid as the caller saw it; concurrent toggles are last-write-wins.
func (s *Service) TogglePaymentStatus(ctx context.Context, actor *users.User, id string, currentIsPaid bool) (Order, error) {
	o, err := s.Orders.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	paid := !currentIsPaid
	if err := s.Orders.SetPaid(ctx, id, paid); err != nil {
		return Order{}, fmt.Errorf("set paid: %w", err)
	}
	o.IsPaid = paid

	label := "belum lunas"
	if paid {
		label = "lunas"
	}
	s.logActivity(ctx, actor, activity.ActionOrderPayment,
		fmt.Sprintf("Pesanan #%s (%s) ditandai %s", ShortID(o.ID), o.CustomerName, label))
	s.publishPayment(ctx, o)
	return o, nil
}

// ClaimPayment records the customer's "I paid" signal and returns the chat link to confirm it.
func (s *Service) ClaimPayment(ctx context.Context, id string) (Order, string, error) {
	o, err := s.Orders.Get(ctx, id)
	if err != nil {
		return Order{}, "", err
	}
	if o.PaymentStatus != PaymentVerificationPending {
		if err := s.Orders.SetPaymentStatus(ctx, id, PaymentVerificationPending); err != nil {
			return Order{}, "", fmt.Errorf("set payment status: %w", err)
		}
		o.PaymentStatus = PaymentVerificationPending
		s.publishPayment(ctx, o)
	}
	return o, WhatsAppLink(s.AdminPhone, o), nil
}

func (s *Service) Delete(ctx context.Context, actor *users.User, id string) error {
	o, err := s.Orders.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Orders.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	s.invalidateKitchen(ctx)
	s.logActivity(ctx, actor, activity.ActionOrderDelete,
		fmt.Sprintf("Hapus pesanan #%s (%s) %s", ShortID(o.ID), o.CustomerName, FormatRupiah(o.Total)))
	s.Events.Publish(ctx, events.TopicOrderDeleted, events.EventOrderDeleted, o.ID,
		events.OrderDeletedPayload{OrderID: o.ID})
	return nil
}

func (s *Service) publishPayment(ctx context.Context, o Order) {
	s.Events.Publish(ctx, events.TopicOrderPaymentChanged, events.EventOrderPaymentChanged, o.ID,
		events.OrderPaymentChangedPayload{OrderID: o.ID, IsPaid: o.IsPaid, PaymentStatus: string(o.PaymentStatus)})
}

// invalidateKitchen runs right after a write that changes kitchen totals so the
// next read is fresh without waiting on the worker. Failures fall back to the cache TTL.
func (s *Service) invalidateKitchen(ctx context.Context) {
	if s.Kitchen == nil {
		return
	}
	if err := s.Kitchen.Invalidate(ctx); err != nil {
		s.Log.Warn().Err(err).Msg("invalidate kitchen cache")
	}
}

// logActivity only records staff actions. A failed write is logged, never returned.
func (s *Service) logActivity(ctx context.Context, actor *users.User, action, desc string) {
	if actor == nil {
		return
	}
	err := s.Activity.Append(ctx, activity.Entry{
		UserID:      actor.ID,
		UserName:    actor.Name,
		Action:      action,
		Description: desc,
	})
	if err != nil {
		s.Log.Error().Err(err).Str("action", action).Str("user_id", actor.ID).Msg("append activity log")
	}
}
