package orders

import "strings"

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// aliases maps every spelling found in stored documents to its canonical status.
// "success" comes from an older self-service path that marked orders done on creation.
var aliases = map[string]Status{
	"pending":    StatusPending,
	"baru":       StatusPending,
	"processing": StatusProcessing,
	"proses":     StatusProcessing,
	"completed":  StatusCompleted,
	"selesai":    StatusCompleted,
	"success":    StatusCompleted,
	"cancelled":  StatusCancelled,
	"canceled":   StatusCancelled,
	"batal":      StatusCancelled,
}

// ParseStatus normalizes an alias; ok is false for unknown values.
func ParseStatus(s string) (Status, bool) {
	st, ok := aliases[strings.ToLower(strings.TrimSpace(s))]
	return st, ok
}

// Normalize returns the canonical form, or the input unchanged when unknown.
func (s Status) Normalize() Status {
	if st, ok := ParseStatus(string(s)); ok {
		return st
	}
	return s
}

// Active statuses are the ones the kitchen still has to work on.
func (s Status) Active() bool {
	n := s.Normalize()
	return n == StatusPending || n == StatusProcessing
}

func (s Status) Terminal() bool {
	n := s.Normalize()
	return n == StatusCompleted || n == StatusCancelled
}

var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusProcessing: true, StatusCancelled: true},
	StatusProcessing: {StatusCompleted: true},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition compares normalized statuses. Staying put is always allowed.
func CanTransition(from, to Status) bool {
	f, t := from.Normalize(), to.Normalize()
	if f == t {
		return true
	}
	return validNext[f][t]
}

type PaymentStatus string

const (
	PaymentNone                PaymentStatus = ""
	PaymentVerificationPending PaymentStatus = "verification_pending"
)
