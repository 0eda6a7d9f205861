package ics

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/alexalex89/viessmann-circular-pump-calendar/pkg/calendar"
	ical "github.com/arran4/golang-ical"
	log "github.com/sirupsen/logrus"
	"github.com/teambition/rrule-go"
)

const recurrenceIdProperty ical.ComponentProperty = "RECURRENCE-ID"

// parseEvents expands the feed's VEVENTs into single events starting in [from, to).
// All-day events count by their date, timed events by their instant.
func parseEvents(body []byte, from time.Time, to time.Time) ([]calendar.Event, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	exceptions := collectExceptions(cal.Events())

	var events []calendar.Event
	for _, ve := range cal.Events() {
		if status := ve.GetProperty(ical.ComponentPropertyStatus); status != nil && strings.EqualFold(status.Value, "CANCELLED") {
			continue
		}
		summary := ""
		if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
			summary = p.Value
		}

		allDay := isAllDay(ve)
		var start time.Time
		if allDay {
			start, err = ve.GetAllDayStartAt()
		} else {
			start, err = ve.GetStartAt()
		}
		if err != nil {
			log.Warnf("ignoring ICS event %q with unreadable start: %v", summary, err)
			continue
		}

		var replaced recurrenceIds
		if ve.GetProperty(recurrenceIdProperty) == nil {
			replaced = exceptions[uidOf(ve)]
		}
		for _, occurrence := range occurrences(ve, start, from, to) {
			if replaced.matches(occurrence, allDay) {
				continue
			}
			event := calendar.Event{Summary: summary}
			if allDay {
				day := time.Date(occurrence.Year(), occurrence.Month(), occurrence.Day(), 0, 0, 0, 0, time.UTC)
				if day.Before(from) || !day.Before(to) {
					continue
				}
				event.Start.Date = day.Format(calendar.DateLayout)
			} else {
				if occurrence.Before(from) || !occurrence.Before(to) {
					continue
				}
				event.Start.DateTime = occurrence.Format(time.RFC3339)
			}
			events = append(events, event)
		}
	}

	calendar.SortByStart(events)
	return events, nil
}

// occurrences returns the event's start times around [from, to); the caller trims to the exact window.
func occurrences(ve *ical.VEvent, start time.Time, from time.Time, to time.Time) []time.Time {
	rruleProp := ve.GetProperty(ical.ComponentPropertyRrule)
	if rruleProp == nil || rruleProp.Value == "" {
		return []time.Time{start}
	}

	r, err := rrule.StrToRRule(rruleProp.Value)
	if err != nil {
		log.Warnf("ignoring unparseable RRULE %q: %v", rruleProp.Value, err)
		return []time.Time{start}
	}
	r.DTStart(start)

	var set rrule.Set
	set.RRule(r)
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, value := range strings.Split(p.Value, ",") {
			if exdate, err := parseICSTime(strings.TrimSpace(value), start.Location()); err == nil {
				set.ExDate(exdate)
			}
		}
	}

	return set.Between(from.AddDate(0, 0, -1), to.AddDate(0, 0, 1), true)
}

// recurrenceIds holds the RECURRENCE-ID values of the exception VEVENTs of one UID.
// An exception replaces, or when cancelled removes, the master occurrence it names.
type recurrenceIds []recurrenceId

type recurrenceId struct {
	value string
	tzid  string
}

func collectExceptions(events []*ical.VEvent) map[string]recurrenceIds {
	exceptions := map[string]recurrenceIds{}
	for _, ve := range events {
		rid := ve.GetProperty(recurrenceIdProperty)
		if rid == nil || rid.Value == "" {
			continue
		}
		id := recurrenceId{value: strings.TrimSpace(rid.Value)}
		if tzs, ok := rid.ICalParameters["TZID"]; ok && len(tzs) > 0 {
			id.tzid = tzs[0]
		}
		uid := uidOf(ve)
		exceptions[uid] = append(exceptions[uid], id)
	}
	return exceptions
}

// matches reports whether an exception names the master occurrence. All-day occurrences
// compare by date, timed ones by instant; a floating RECURRENCE-ID uses the occurrence's zone.
func (ids recurrenceIds) matches(occurrence time.Time, allDay bool) bool {
	for _, id := range ids {
		if allDay || !strings.Contains(id.value, "T") {
			if len(id.value) >= 8 && id.value[:8] == occurrence.Format("20060102") {
				return true
			}
			continue
		}
		location := occurrence.Location()
		if id.tzid != "" {
			if loc, err := time.LoadLocation(id.tzid); err == nil {
				location = loc
			}
		}
		if t, err := parseICSTime(id.value, location); err == nil && t.Equal(occurrence) {
			return true
		}
	}
	return false
}

func uidOf(ve *ical.VEvent) string {
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		return p.Value
	}
	return ""
}

func isAllDay(ve *ical.VEvent) bool {
	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return false
	}
	if values, ok := dtStart.ICalParameters["VALUE"]; ok && len(values) > 0 && strings.EqualFold(values[0], "DATE") {
		return true
	}
	return !strings.Contains(dtStart.Value, "T")
}

// parseICSTime reads the basic DATE / DATE-TIME forms used by EXDATE.
func parseICSTime(value string, location *time.Location) (time.Time, error) {
	switch {
	case strings.HasSuffix(value, "Z"):
		return time.Parse("20060102T150405Z", value)
	case strings.Contains(value, "T"):
		return time.ParseInLocation("20060102T150405", value, location)
	default:
		return time.ParseInLocation("20060102", value, location)
	}
}
