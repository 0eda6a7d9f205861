package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexalex89/viessmann-circular-pump-calendar/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

const DaysPerWeek = 7

var ErrMissingReferenceEntry = fmt.Errorf("day schedule has no entry with position 0")
var ErrReferenceTooEarly = fmt.Errorf("reference entry starts before 01:00")
var ErrInvalidWindow = fmt.Errorf("schedule window must span exactly 7 days")
var ErrDuplicateReferenceEntry = fmt.Errorf("day schedule has more than one entry with position 0")

// OverrideSource resolves an override key (a Category name or a Weekday abbreviation) to time entries.
// found is false when no override exists for the key.
type OverrideSource interface {
	Lookup(ctx context.Context, key string) (entries []TimeEntry, found bool, err error)
}

// DutyLabels are the substrings that mark an event summary as an early, late or night duty.
type DutyLabels struct {
	Early string
	Late  string
	Night string
}

type Calculator struct {
	overrides OverrideSource
	labels    DutyLabels
}

func NewCalculator(overrides OverrideSource, labels DutyLabels) *Calculator {
	return &Calculator{
		overrides: overrides,
		labels:    labels,
	}
}

// Compute derives the circulation pump and hot water schedules for every day in [windowStart, windowEnd).
func (c *Calculator) Compute(ctx context.Context, events []calendar.Event, windowStart time.Time, windowEnd time.Time) (WeeklySchedule, error) {
	days := walkDays(windowStart, windowEnd)
	if len(days) != DaysPerWeek {
		err := fmt.Errorf("%w: got %d days from %s to %s", ErrInvalidWindow, len(days),
			windowStart.Format(time.RFC3339), windowEnd.Format(time.RFC3339))
		log.Error(err)
		return WeeklySchedule{}, err
	}

	templates, err := c.loadTemplates(ctx)
	if err != nil {
		return WeeklySchedule{}, err
	}

	duties, err := c.classifyDuties(events)
	if err != nil {
		return WeeklySchedule{}, err
	}

	result := WeeklySchedule{
		CirculationPump: make(DaySchedule, DaysPerWeek),
		HotWater:        make(DaySchedule, DaysPerWeek),
	}
	for _, date := range days {
		day := WeekdayOf(date)

		pump, found, err := c.overrides.Lookup(ctx, string(day))
		if err != nil {
			log.Errorf("unable to read override for %s: %v", day, err)
			return WeeklySchedule{}, err
		}
		if found {
			log.Infof("Found override for %s.", day)
		} else {
			category := categoryFor(duties[date.Format(calendar.DateLayout)], day)
			log.Debugf("%s (%s) uses %s", day, date.Format(calendar.DateLayout), category)
			pump = append([]TimeEntry(nil), templates[category]...)
		}

		hotWater, err := hotWaterFor(pump)
		if err != nil {
			err = fmt.Errorf("%s: %w", day, err)
			log.Error(err)
			return WeeklySchedule{}, err
		}

		result.CirculationPump[day] = pump
		result.HotWater[day] = []TimeEntry{hotWater}

		log.Infof("[HOT WATER] %s: %s", day, formatEntries(result.HotWater[day]))
		log.Infof("[CIRCULATION PUMP] %s: %s", day, formatEntries(pump))
	}

	return result, nil
}

// loadTemplates starts from the built-in templates and replaces every category that has an override.
func (c *Calculator) loadTemplates(ctx context.Context) (map[Category][]TimeEntry, error) {
	templates := DefaultTemplates()
	for _, category := range Categories {
		entries, found, err := c.overrides.Lookup(ctx, string(category))
		if err != nil {
			log.Errorf("unable to read override for %s: %v", category, err)
			return nil, err
		}
		if found {
			log.Infof("Found override for %s.", category)
			templates[category] = entries
		}
	}
	return templates, nil
}

// classifyDuties maps each duty date ("2006-01-02") to the highest priority duty found on it: early, then late, then night.
func (c *Calculator) classifyDuties(events []calendar.Event) (map[string]duty, error) {
	early := map[string]bool{}
	late := map[string]bool{}
	night := map[string]bool{}

	for _, event := range events {
		matchesEarly := containsLabel(event.Summary, c.labels.Early)
		matchesLate := containsLabel(event.Summary, c.labels.Late)
		matchesNight := containsLabel(event.Summary, c.labels.Night)
		if !matchesEarly && !matchesLate && !matchesNight {
			continue
		}

		day, err := event.Start.Day()
		if err != nil {
			log.Errorf("unable to classify event %s: %v", event, err)
			return nil, err
		}
		date := day.Format(calendar.DateLayout)
		if matchesEarly {
			early[date] = true
		}
		if matchesLate {
			late[date] = true
		}
		if matchesNight {
			night[date] = true
		}
	}

	duties := make(map[string]duty)
	for date := range night {
		duties[date] = nightDuty
	}
	for date := range late {
		duties[date] = lateDuty
	}
	for date := range early {
		duties[date] = earlyDuty
	}
	return duties, nil
}

func containsLabel(summary string, label string) bool {
	return label != "" && strings.Contains(summary, label)
}

// hotWaterFor heats water from one hour before the pump's reference interval until HotWaterEnd.
func hotWaterFor(pump []TimeEntry) (TimeEntry, error) {
	reference, err := referenceEntry(pump)
	if err != nil {
		return TimeEntry{}, err
	}
	hour, _, err := ParseClock(reference.Start)
	if err != nil {
		return TimeEntry{}, err
	}
	if hour < 1 {
		return TimeEntry{}, fmt.Errorf("%w: %s", ErrReferenceTooEarly, reference.Start)
	}
	return TimeEntry{
		Start:    fmt.Sprintf("%02d:%s", hour-1, reference.Start[3:]),
		Position: 0,
		End:      HotWaterEnd,
		Mode:     ModeTop,
	}, nil
}

// referenceEntry returns the single entry with position 0.
func referenceEntry(entries []TimeEntry) (TimeEntry, error) {
	var found []TimeEntry
	for _, e := range entries {
		if e.Position == 0 {
			found = append(found, e)
		}
	}
	switch len(found) {
	case 0:
		return TimeEntry{}, ErrMissingReferenceEntry
	case 1:
		return found[0], nil
	default:
		return TimeEntry{}, fmt.Errorf("%w: %s", ErrDuplicateReferenceEntry, formatEntries(found))
	}
}

// walkDays lists every midnight UTC from windowStart's date up to, not including, windowEnd.
func walkDays(windowStart time.Time, windowEnd time.Time) []time.Time {
	start := windowStart.UTC()
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	var days []time.Time
	for day.Before(windowEnd) {
		days = append(days, day)
		day = day.AddDate(0, 0, 1)
	}
	return days
}
