package pumpsync

import (
	"context"
	"time"

	"github.com/alexalex89/viessmann-circular-pump-calendar/internal/utils"
	"github.com/alexalex89/viessmann-circular-pump-calendar/pkg/calendar"
	"github.com/alexalex89/viessmann-circular-pump-calendar/pkg/schedule"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Calculator interface {
	Compute(ctx context.Context, events []calendar.Event, windowStart, windowEnd time.Time) (schedule.WeeklySchedule, error)
}

type Publisher interface {
	Publish(ctx context.Context, weekly schedule.WeeklySchedule) error
}

// Service runs one fetch, compute and publish cycle per call to Run.
type Service struct {
	fetcher    calendar.Fetcher
	calculator Calculator
	publisher  Publisher
	clock      utils.Clock
}

func NewService(fetcher calendar.Fetcher, calculator Calculator, publisher Publisher, clock utils.Clock) *Service {
	return &Service{
		fetcher:    fetcher,
		calculator: calculator,
		publisher:  publisher,
		clock:      clock,
	}
}

// Run schedules the seven days starting at today's UTC midnight. A week without events is left untouched.
func (s *Service) Run(ctx context.Context) error {
	logger := log.WithField("run", uuid.NewString())

	windowStart := utils.StartOfDayUTC(s.clock.Now())
	windowEnd := windowStart.AddDate(0, 0, schedule.DaysPerWeek)
	logger.Debugf("Reading events from %s to %s", windowStart, windowEnd)

	events, err := s.fetcher.GetEvents(ctx, windowStart, windowEnd)
	if err != nil {
		logger.Errorf("An error occurred: %v", err)
		return err
	}
	if len(events) == 0 {
		logger.Info("No upcoming events found.")
		return nil
	}
	logger.Debugf("Found %d events", len(events))

	weekly, err := s.calculator.Compute(ctx, events, windowStart, windowEnd)
	if err != nil {
		logger.Errorf("unable to compute schedule: %v", err)
		return err
	}

	if err := s.publisher.Publish(ctx, weekly); err != nil {
		logger.Errorf("unable to publish schedule: %v", err)
		return err
	}
	logger.Info("Done")
	return nil
}
