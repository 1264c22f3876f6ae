package activity

import (
	"context"
	"time"
)

// Action tags used across the app. The column is free text, these are just the ones we emit.
const (
	ActionTransaction  = "transaction"
	ActionOrderStatus  = "order_status"
	ActionOrderPayment = "order_payment"
	ActionOrderDelete  = "order_delete"
	ActionProduct      = "product"
	ActionSchedule     = "schedule"
	ActionUserRole     = "user_role"
)

type Entry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Appender interface {
	Append(ctx context.Context, e Entry) error
}
