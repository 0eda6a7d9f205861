package schedule

import "time"

// Category names a schedule template. The name doubles as the override key.
type Category string

const (
	EarlyDutyWeekday Category = "early_duty_times_weekday"
	EarlyDutyWeekend Category = "early_duty_times_weekend"
	LateDutyWeekday  Category = "late_duty_times_weekday"
	LateDutyWeekend  Category = "late_duty_times_weekend"
	NightDutyWeekday Category = "night_duty_times_weekday"
	NightDutyWeekend Category = "night_duty_times_weekend"
	Weekdays         Category = "weekday_times"
	Weekends         Category = "weekend_times"
)

var Categories = []Category{
	EarlyDutyWeekday,
	EarlyDutyWeekend,
	LateDutyWeekday,
	LateDutyWeekend,
	NightDutyWeekday,
	NightDutyWeekend,
	Weekdays,
	Weekends,
}

type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

var weekdays = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

func WeekdayOf(t time.Time) Weekday {
	return weekdays[t.Weekday()]
}

func (w Weekday) IsWeekend() bool {
	return w == Saturday || w == Sunday
}

type duty int

const (
	noDuty duty = iota
	earlyDuty
	lateDuty
	nightDuty
)

func categoryFor(d duty, day Weekday) Category {
	weekend := day.IsWeekend()
	switch d {
	case earlyDuty:
		if weekend {
			return EarlyDutyWeekend
		}
		return EarlyDutyWeekday
	case lateDuty:
		if weekend {
			return LateDutyWeekend
		}
		return LateDutyWeekday
	case nightDuty:
		if weekend {
			return NightDutyWeekend
		}
		return NightDutyWeekday
	}
	if weekend {
		return Weekends
	}
	return Weekdays
}

func entry(start, end string, position int, mode string) TimeEntry {
	return TimeEntry{Start: start, Position: position, End: end, Mode: mode}
}

// DefaultTemplates returns a fresh copy of the built-in templates.
func DefaultTemplates() map[Category][]TimeEntry {
	return map[Category][]TimeEntry{
		EarlyDutyWeekday: {
			entry("04:00", "06:30", 0, ModeCycles5x10),
			entry("11:45", "19:30", 1, ModeCycles5x25),
		},
		EarlyDutyWeekend: {
			entry("04:00", "05:10", 0, ModeCycles5x10),
			entry("08:00", "09:30", 1, ModeCycles5x25),
			entry("11:40", "19:30", 2, ModeCycles5x25),
		},
		LateDutyWeekday: {
			entry("05:50", "06:30", 0, ModeCycles5x10),
			entry("09:00", "12:30", 1, ModeCycles5x25),
			entry("17:30", "19:30", 2, ModeCycles5x25),
		},
		LateDutyWeekend: {
			entry("08:00", "12:30", 0, ModeCycles5x25),
			entry("17:30", "19:30", 1, ModeCycles5x25),
		},
		NightDutyWeekday: {
			entry("05:50", "06:30", 0, ModeCycles5x10),
			entry("11:40", "19:30", 1, ModeCycles5x25),
		},
		NightDutyWeekend: {
			entry("08:00", "09:30", 0, ModeCycles5x10),
			entry("11:40", "19:30", 1, ModeCycles5x25),
		},
		Weekdays: {
			entry("05:50", "06:30", 0, ModeCycles5x10),
			entry("09:00", "13:00", 1, ModeCycles5x25),
			entry("17:30", "19:30", 2, ModeCycles5x10),
		},
		Weekends: {
			entry("08:00", "19:30", 0, ModeCycles5x25),
		},
	}
}
