package calendar

import (
	"fmt"
	"sort"
	"time"
)

const DateLayout = "2006-01-02"

type Event struct {
	Summary string
	Start   EventStart
}

// EventStart carries either an all-day Date ("2006-01-02") or an RFC3339 DateTime, as delivered by the provider.
type EventStart struct {
	Date     string
	DateTime string
}

// Day returns the calendar date the event starts on, at midnight UTC.
// The time-of-day of a DateTime is dropped; its date is taken in the offset the provider wrote it in.
func (s EventStart) Day() (time.Time, error) {
	if s.DateTime != "" {
		t, err := time.Parse(time.RFC3339, s.DateTime)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid event start date-time %q: %w", s.DateTime, err)
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	if s.Date != "" {
		t, err := time.ParseInLocation(DateLayout, s.Date, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid event start date %q: %w", s.Date, err)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("event start has neither date nor date-time")
}

// sortKey is the instant used to order events; all-day events sort at midnight UTC of their date.
func (s EventStart) sortKey() time.Time {
	if s.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, s.DateTime); err == nil {
			return t
		}
	}
	day, _ := s.Day()
	return day
}

func (e Event) String() string {
	if e.Start.DateTime != "" {
		return fmt.Sprintf("%s (%s)", e.Summary, e.Start.DateTime)
	}
	return fmt.Sprintf("%s (%s)", e.Summary, e.Start.Date)
}

// SortByStart orders events by start, keeping the provider order for equal starts.
func SortByStart(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.sortKey().Before(events[j].Start.sortKey())
	})
}
