package schedule

import (
	"errors"
	"sort"
	"time"
)

// DateLayout is the ISO calendar date used for every date-only field.
const DateLayout = "2006-01-02"

var (
	ErrNotFound     = errors.New("schedule not found")
	ErrInvalidRange = errors.New("end date must not be before start date")
	ErrInvalidDate  = errors.New("date must be YYYY-MM-DD")
)

// Entry is a closed date range, both ends inclusive.
type Entry struct {
	ID        string    `json:"id"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

// Contains compares ISO strings directly; they sort in calendar order.
func (e Entry) Contains(date string) bool {
	return e.StartDate <= date && date <= e.EndDate
}

// CheckIsClosed returns the earliest-starting entry covering date, or nil.
func CheckIsClosed(entries []Entry, date string) *Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartDate < sorted[j].StartDate })
	for i := range sorted {
		if sorted[i].Contains(date) {
			return &sorted[i]
		}
	}
	return nil
}

func Validate(e Entry) error {
	for _, d := range []string{e.StartDate, e.EndDate} {
		if _, err := time.Parse(DateLayout, d); err != nil {
			return ErrInvalidDate
		}
	}
	if e.EndDate < e.StartDate {
		return ErrInvalidRange
	}
	return nil
}
