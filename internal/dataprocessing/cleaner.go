package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"crimelens/internal/config"
	apperrors "crimelens/internal/errors"
)

// dateLayouts are the accepted DATE OCC formats, tried in order. The LAPD
// export uses the first; the rest cover common re-exports of the same
// data.
var dateLayouts = []string{
	"01/02/2006 03:04:05 PM",
	"1/2/2006 03:04:05 PM",
	"01/02/2006 03:04 PM",
	"1/2/2006 3:04 PM",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parsed years outside this window are treated as out-of-range sentinel
// dates rather than real occurrences.
const minPlausibleYear = 1900

// Cleaner converts raw rows into analysis-ready Incidents. Row-level
// problems are isolated and tallied; the cleaner itself never fails a run
// once the schema check in the loader has passed.
type Cleaner struct {
	logger  *slog.Logger
	minAge  int
	maxAge  int
	vocabs  *Vocabularies
	maxYear int
}

// NewCleaner creates a cleaner with the given policy. A nil vocabularies
// argument selects the default LAPD code books.
func NewCleaner(logger *slog.Logger, cfg config.CleaningConfig, vocabs *Vocabularies) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if vocabs == nil {
		vocabs = DefaultVocabularies()
	}
	return &Cleaner{
		logger:  logger,
		minAge:  cfg.MinAge,
		maxAge:  cfg.MaxAge,
		vocabs:  vocabs,
		maxYear: time.Now().Year() + 1,
	}
}

// Clean produces the cleaned table from raw rows. Each dropped row is
// counted under exactly one reason; retained rows may still be excluded
// from individual aggregates (unknown age, unknown location) without
// leaving the table.
func (c *Cleaner) Clean(ctx context.Context, table *RawTable) (*CleanResult, error) {
	if table == nil {
		return nil, apperrors.NewValidationError("clean called with no raw table")
	}

	result := &CleanResult{
		Incidents: make([]Incident, 0, len(table.Rows)),
		TotalRaw:  len(table.Rows),
		Dropped:   make(map[DropReason]int),
	}

	c.logger.InfoContext(ctx, "cleaning raw incident rows",
		slog.Int("raw_rows", len(table.Rows)))

	for i, row := range table.Rows {
		incident, reason := c.cleanRow(table, row)
		if reason != "" {
			result.Dropped[reason]++
			c.logger.DebugContext(ctx, "dropped row",
				slog.Int("row", i+1),
				slog.String("reason", string(reason)))
			continue
		}
		if !incident.AgeKnown {
			result.UnknownAge++
		}
		if !incident.LocationKnown {
			result.UnknownLocation++
		}
		result.Incidents = append(result.Incidents, incident)
	}

	c.logger.InfoContext(ctx, "cleaning complete",
		slog.Int("cleaned_rows", len(result.Incidents)),
		slog.Int("dropped_rows", result.DroppedTotal()),
		slog.Int("unknown_age", result.UnknownAge),
		slog.Int("unknown_location", result.UnknownLocation))

	return result, nil
}

// cleanRow converts one raw row. An empty reason means the row was kept.
func (c *Cleaner) cleanRow(table *RawTable, row []string) (Incident, DropReason) {
	dateRaw := table.Field(row, ColDateOccurred)
	if dateRaw == "" {
		return Incident{}, DropMissingRequiredField
	}

	occurredAt, err := c.parseTimestamp(dateRaw, table.Field(row, ColTimeOccurred))
	if err != nil {
		return Incident{}, DropUnparseableTimestamp
	}
	if occurredAt.Year() < minPlausibleYear || occurredAt.Year() > c.maxYear {
		return Incident{}, DropOutOfRangeValue
	}

	features := DeriveTimeFeatures(occurredAt)

	incident := Incident{
		OccurredAt: occurredAt,
		Hour:       features.Hour,
		DayOfWeek:  features.DayOfWeek,
		Month:      features.Month,
		Year:       features.Year,

		CrimeType:     c.vocabs.CrimeType.Normalize(table.Field(row, ColCrimeType)),
		VictimSex:     c.vocabs.Sex.Normalize(table.Field(row, ColVictimSex)),
		VictimDescent: c.vocabs.Descent.Normalize(table.Field(row, ColVictimDescent)),
		Weapon:        c.vocabs.Weapon.Normalize(table.Field(row, ColWeapon)),
		Premise:       c.vocabs.Premise.Normalize(table.Field(row, ColPremise)),
		AreaName:      c.vocabs.Area.Normalize(table.Field(row, ColAreaName)),
	}

	incident.VictimAge, incident.AgeKnown = c.imputeOrExcludeAge(table.Field(row, ColVictimAge))
	incident.Latitude, incident.Longitude, incident.LocationKnown =
		parseLocation(table.Field(row, ColLatitude), table.Field(row, ColLongitude))

	return incident, ""
}

// parseTimestamp parses the occurrence date, then overlays the military
// HHMM time when one is present and valid. A wrong timestamp would corrupt
// every time-based aggregate silently, so failures exclude the row instead
// of imputing.
func (c *Cleaner) parseTimestamp(dateRaw, timeRaw string) (time.Time, error) {
	var parsed time.Time
	var err error
	for _, layout := range dateLayouts {
		parsed, err = time.Parse(layout, dateRaw)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable occurrence date %q: %w", dateRaw, err)
	}

	if hour, minute, ok := parseMilitaryTime(timeRaw); ok {
		parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), hour, minute, 0, 0, parsed.Location())
	}

	return parsed, nil
}

// parseMilitaryTime parses a zero-padded HHMM string such as "0015" or
// "2130". Invalid values fall back to the date's own time component.
func parseMilitaryTime(raw string) (hour, minute int, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, 0, false
	}
	// Leading zeros may have been stripped by a spreadsheet round trip.
	for len(raw) < 4 {
		raw = "0" + raw
	}
	if len(raw) != 4 {
		return 0, 0, false
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, 0, false
	}
	hour, minute = value/100, value%100
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// imputeOrExcludeAge applies the plausible-age policy: values that do not
// parse or fall outside [minAge, maxAge] are treated as missing. The LAPD
// export uses 0 and negative ages as unknown markers.
func (c *Cleaner) imputeOrExcludeAge(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	age, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	if age < c.minAge || age > c.maxAge {
		return 0, false
	}
	return age, true
}

// parseLocation parses coordinates and detects the (0,0) unknown-location
// sentinel. Unknown locations stay in the table but are excluded from
// every spatial output.
func parseLocation(latRaw, lonRaw string) (lat, lon float64, known bool) {
	if latRaw == "" || lonRaw == "" {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(latRaw, 64)
	lon, errLon := strconv.ParseFloat(lonRaw, 64)
	if errLat != nil || errLon != nil {
		return 0, 0, false
	}
	if lat == 0 && lon == 0 {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}
