package dataprocessing

import "time"

// TimeFeatures are the columns derived from a parsed occurrence
// timestamp.
type TimeFeatures struct {
	Hour      int
	DayOfWeek time.Weekday
	Month     int
	Year      int
}

// DeriveTimeFeatures computes the derived time columns from a timestamp.
// It is a pure function: same input, same output, no side effects.
func DeriveTimeFeatures(t time.Time) TimeFeatures {
	return TimeFeatures{
		Hour:      t.Hour(),
		DayOfWeek: t.Weekday(),
		Month:     int(t.Month()),
		Year:      t.Year(),
	}
}

// WeekdayIndex maps a weekday to a Monday-first index in [0,6], the row
// order of the hour/day heatmap.
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// WeekdayLabels lists day names in Monday-first order, matching
// WeekdayIndex.
var WeekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
