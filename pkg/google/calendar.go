package google

import (
	"context"
	"fmt"
	"time"

	"github.com/alexalex89/viessmann-circular-pump-calendar/pkg/calendar"
	log "github.com/sirupsen/logrus"
	gcal "google.golang.org/api/calendar/v3"
)

type Calendar struct {
	service    *gcal.Service
	calendarId string
}

func newGoogleCalendar(service *gcal.Service, calendarId string) *Calendar {
	return &Calendar{
		service:    service,
		calendarId: calendarId,
	}
}

// GetEvents lists the single (expanded) events starting in [from, to), ordered by start time.
func (c *Calendar) GetEvents(ctx context.Context, from time.Time, to time.Time) ([]calendar.Event, error) {
	log.Debugf("Listing events of calendar %s from %s to %s", c.calendarId, from, to)

	var events []calendar.Event
	err := c.service.Events.List(c.calendarId).
		TimeMin(from.UTC().Format(time.RFC3339)).
		TimeMax(to.UTC().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Pages(ctx, func(page *gcal.Events) error {
			events = append(events, googleEventsToEvents(page.Items)...)
			return nil
		})

	if err != nil {
		err := fmt.Errorf("%w: unable to retrieve events from Google Calendar: %v", calendar.ErrFetch, err)
		log.Error(err)
		return nil, err
	}

	return events, nil
}

func googleEventsToEvents(googleEvents []*gcal.Event) []calendar.Event {
	events := make([]calendar.Event, 0, len(googleEvents))
	for _, item := range googleEvents {
		if item.Start == nil {
			log.Warnf("found calendar event without start - ignoring: %s", item.Summary)
			continue
		}
		events = append(events, calendar.Event{
			Summary: item.Summary,
			Start: calendar.EventStart{
				Date:     item.Start.Date,
				DateTime: item.Start.DateTime,
			},
		})
	}
	return events
}
