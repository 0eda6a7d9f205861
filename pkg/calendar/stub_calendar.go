package calendar

import (
	"context"
	"errors"
	"sync"
	"time"
)

type StubCalendar struct {
	mu     sync.RWMutex
	events []Event
	err    error
	calls  int
}

func NewStubCalendar() *StubCalendar {
	return &StubCalendar{}
}

func (c *StubCalendar) GetEvents(_ context.Context, from time.Time, to time.Time) ([]Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++

	if c.err != nil {
		return nil, c.err
	}

	var events []Event
	for _, event := range c.events {
		start := event.Start.sortKey()
		if !start.Before(from) && start.Before(to) {
			events = append(events, event)
		}
	}

	SortByStart(events)
	return events, nil
}

// Helper methods for test setup

func (c *StubCalendar) AddEvents(events ...Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, events...)
}

func (c *StubCalendar) SetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *StubCalendar) Calls() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.calls
}

func (c *StubCalendar) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
	c.err = nil
	c.calls = 0
}

var ErrStubCalendar = errors.New("stub calendar error")
