package ics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alexalex89/viessmann-circular-pump-calendar/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

// Calendar reads duty events from an iCalendar feed published at a URL.
type Calendar struct {
	url    string
	client *http.Client
}

func NewCalendar(url string, timeout time.Duration) *Calendar {
	return &Calendar{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *Calendar) GetEvents(ctx context.Context, from time.Time, to time.Time) ([]calendar.Event, error) {
	body, err := c.fetch(ctx)
	if err != nil {
		err := fmt.Errorf("%w: %v", calendar.ErrFetch, err)
		log.Error(err)
		return nil, err
	}

	events, err := parseEvents(body, from, to)
	if err != nil {
		err := fmt.Errorf("%w: unable to parse ICS feed: %v", calendar.ErrFetch, err)
		log.Error(err)
		return nil, err
	}
	log.Debugf("ICS feed returned %d events between %s and %s", len(events), from, to)
	return events, nil
}

func (c *Calendar) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/calendar")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ICS feed returned non-OK status: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
