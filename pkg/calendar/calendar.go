package calendar

import (
	"context"
	"fmt"
	"time"
)

var ErrFetch = fmt.Errorf("unable to fetch calendar events")

// Fetcher reads the events of a single calendar. Events are returned ordered by their start.
type Fetcher interface {
	GetEvents(ctx context.Context, from time.Time, to time.Time) ([]Event, error)
}
