package events

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated        = "OrderCreated"
	EventOrderStatusChanged  = "OrderStatusChanged"
	EventOrderPaymentChanged = "OrderPaymentChanged"
	EventOrderDeleted        = "OrderDeleted"
	EventProductChanged      = "ProductChanged"
	EventScheduleChanged     = "ScheduleChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"` // e.g. "warung-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order, product or schedule id
	Payload       json.RawMessage `json:"payload"`
}

type ItemQty struct {
	ProductID string `json:"product_id"`
	Variant   string `json:"variant,omitempty"`
	Qty       int    `json:"qty"`
}

type OrderCreatedPayload struct {
	OrderID      string    `json:"order_id"`
	UserID       string    `json:"user_id"`
	CustomerName string    `json:"customer_name"`
	OrderDate    string    `json:"order_date"`
	Items        []ItemQty `json:"items"`
	Total        int       `json:"total"`
}

type OrderStatusChangedPayload struct {
	OrderID string `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type OrderPaymentChangedPayload struct {
	OrderID       string `json:"order_id"`
	IsPaid        bool   `json:"is_paid"`
	PaymentStatus string `json:"payment_status,omitempty"`
}

type OrderDeletedPayload struct {
	OrderID string `json:"order_id"`
}

// Change values for product and schedule events.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

type ProductChangedPayload struct {
	ProductID string `json:"product_id"`
	Change    string `json:"change"`
}

type ScheduleChangedPayload struct {
	ScheduleID string `json:"schedule_id"`
	Change     string `json:"change"`
}
