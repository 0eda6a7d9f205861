package schedule

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedOverride = fmt.Errorf("malformed schedule override")

const (
	ModeCycles5x10 = "5/10-cycles"
	ModeCycles5x25 = "5/25-cycles"
	// ModeTop is the only mode the controller accepts for hot water.
	ModeTop = "top"

	HotWaterEnd = "22:00"
)

// TimeEntry is one on/off interval of a day. The entry with Position 0 is the day's reference interval.
type TimeEntry struct {
	Start    string `json:"start"`
	Position int    `json:"position"`
	End      string `json:"end"`
	Mode     string `json:"mode"`
}

func (e TimeEntry) String() string {
	return e.Start + "-" + e.End
}

// Validate checks that both ends of the interval are 24-hour "HH:MM" times.
func (e TimeEntry) Validate() error {
	if _, _, err := ParseClock(e.Start); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if _, _, err := ParseClock(e.End); err != nil {
		return fmt.Errorf("end: %w", err)
	}
	return nil
}

// ParseClock splits a 24-hour "HH:MM" time into hour and minute.
func ParseClock(value string) (hour int, minute int, err error) {
	if len(value) != 5 || value[2] != ':' {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	hour, err = strconv.Atoi(value[:2])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err = strconv.Atoi(value[3:])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour, minute, nil
}

// ParseEntries decodes a JSON array of time entries, the format used by override files.
func ParseEntries(data []byte) ([]TimeEntry, error) {
	var entries []TimeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOverride, err)
	}
	references := 0
	for i, entry := range entries {
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedOverride, i, err)
		}
		if entry.Position == 0 {
			references++
		}
	}
	if references > 1 {
		return nil, fmt.Errorf("%w: %d entries with position 0", ErrMalformedOverride, references)
	}
	return entries, nil
}

func formatEntries(entries []TimeEntry) string {
	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		parts = append(parts, entry.String())
	}
	return strings.Join(parts, " | ")
}

// DaySchedule maps weekday abbreviations to the intervals of that day.
type DaySchedule map[Weekday][]TimeEntry

// Encode returns the compact JSON form sent to the controller.
func (d DaySchedule) Encode() (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type WeeklySchedule struct {
	CirculationPump DaySchedule
	HotWater        DaySchedule
}
