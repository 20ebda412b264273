package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crimelens/internal/config"
)

// testPolicy is the default cleaning policy used across cleaner tests.
var testPolicy = config.CleaningConfig{MinAge: 1, MaxAge: 110}

// newTestTable builds a RawTable directly, bypassing the CSV loader.
func newTestTable(header []string, rows [][]string) *RawTable {
	table := &RawTable{Header: header, Rows: rows, columns: make(map[string]int, len(header))}
	for i, name := range header {
		table.columns[foldColumn(name)] = i
	}
	return table
}

// fullHeader is the complete documented column set.
var fullHeader = []string{
	ColDateOccurred, ColTimeOccurred, ColCrimeType, ColVictimAge,
	ColVictimSex, ColVictimDescent, ColWeapon, ColPremise,
	ColAreaName, ColLatitude, ColLongitude,
}

// row builds a full-width raw row with the given overrides.
func row(overrides map[string]string) []string {
	values := map[string]string{
		ColDateOccurred: "01/15/2021 12:00:00 AM",
		ColTimeOccurred: "1345",
		ColCrimeType:    "BATTERY - SIMPLE ASSAULT",
		ColVictimAge:    "30",
		ColVictimSex:    "F",
		ColVictimDescent: "H",
		ColWeapon:       "STRONG-ARM",
		ColPremise:      "STREET",
		ColAreaName:     "Central",
		ColLatitude:     "34.0522",
		ColLongitude:    "-118.2437",
	}
	for k, v := range overrides {
		values[k] = v
	}
	out := make([]string, len(fullHeader))
	for i, col := range fullHeader {
		out[i] = values[col]
	}
	return out
}

func TestCleanParsesTimestampAndDerivesFeatures(t *testing.T) {
	cleaner := NewCleaner(nil, testPolicy, nil)
	table := newTestTable(fullHeader, [][]string{
		row(map[string]string{ColDateOccurred: "01/15/2021 11:45 PM", ColTimeOccurred: ""}),
	})

	result, err := cleaner.Clean(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, result.Incidents, 1)

	inc := result.Incidents[0]
	assert.Equal(t, 23, inc.Hour)
	assert.Equal(t, 1, inc.Month)
	assert.Equal(t, 2021, inc.Year)
	assert.Equal(t, time.Friday, inc.DayOfWeek)
}

func TestCleanDropsInvalidCalendarDate(t *testing.T) {
	cleaner := NewCleaner(nil, testPolicy, nil)
	table := newTestTable(fullHeader, [][]string{
		row(map[string]string{ColDateOccurred: "01/15/2021 11:45 PM", ColTimeOccurred: ""}),
		row(map[string]string{ColDateOccurred: "02/30/2021 10:00 AM", ColTimeOccurred: ""}),
	})

	result, err := cleaner.Clean(context.Background(), table)
	require.NoError(t, err)

	assert.Len(t, result.Incidents, 1)
	assert.Equal(t, 1, result.Dropped[DropUnparseableTimestamp])
	assert.Equal(t, 2, result.TotalRaw)
}

func TestCleanMilitaryTimeOverridesDate(t *testing.T) {
	tests := []struct {
		name     string
		timeOcc  string
		wantHour int
		wantMin  int
	}{
		{name: "after midnight", timeOcc: "0015", wantHour: 0, wantMin: 15},
		{name: "evening", timeOcc: "2130", wantHour: 21, wantMin: 30},
		{name: "stripped leading zeros", timeOcc: "15", wantHour: 0, wantMin: 15},
		{name: "invalid hour falls back to date", timeOcc: "2730", wantHour: 0, wantMin: 0},
		{name: "non-numeric falls back to date", timeOcc: "noon", wantHour: 0, wantMin: 0},
	}

	cleaner := NewCleaner(nil, testPolicy, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := newTestTable(fullHeader, [][]string{
				row(map[string]string{ColTimeOccurred: tt.timeOcc}),
			})
			result, err := cleaner.Clean(context.Background(), table)
			require.NoError(t, err)
			require.Len(t, result.Incidents, 1)
			assert.Equal(t, tt.wantHour, result.Incidents[0].Hour)
			assert.Equal(t, tt.wantMin, result.Incidents[0].OccurredAt.Minute())
		})
	}
}

func TestCleanAgePolicy(t *testing.T) {
	cleaner := NewCleaner(nil, testPolicy, nil)
	table := newTestTable(fullHeader, [][]string{
		row(map[string]string{ColVictimAge: "-5"}),
		row(map[string]string{ColVictimAge: "22"}),
		row(map[string]string{ColVictimAge: "150"}),
		row(map[string]string{ColVictimAge: "34"}),
	})

	result, err := cleaner.Clean(context.Background(), table)
	require.NoError(t, err)

	// All four rows retained for non-age aggregates.
	require.Len(t, result.Incidents, 4)
	assert.Equal(t, 0, result.DroppedTotal())

	valid := 0
	for _, inc := range result.Incidents {
		if inc.AgeKnown {
			valid++
		}
	}
	assert.Equal(t, 2, valid)
	assert.Equal(t, 2, result.UnknownAge)
}

func TestCleanAgeZeroIsUnknownMarker(t *testing.T) {
	cleaner := NewCleaner(nil, testPolicy, nil)
	table := newTestTable(fullHeader, [][]string{
		row(map[string]string{ColVictimAge: "0"}),
	})

	result, err := cleaner.Clean(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, result.Incidents, 1)
	assert.False(t, result.Incidents[0].AgeKnown)
}

func TestCleanLocationSentinel(t *testing.T) {
	tests := []struct {
		name      string
		lat, lon  string
		wantKnown bool
	}{
		{name: "real coordinates", lat: "34.0522", lon: "-118.2437", wantKnown: true},
		{name: "zero sentinel", lat: "0", lon: "0", wantKnown: false},
		{name: "empty", lat: "", lon: "", wantKnown: false},
		{name: "unparseable", lat: "n/a", lon: "-118.2", wantKnown: false},
		{name: "out of range", lat: "134.0", lon: "-118.2", wantKnown: false},
	}

	cleaner := NewCleaner(nil, testPolicy, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := newTestTable(fullHeader, [][]string{
				row(map[string]string{ColLatitude: tt.lat, ColLongitude: tt.lon}),
			})
			result, err := cleaner.Clean(context.Background(), table)
			require.NoError(t, err)
			require.Len(t, result.Incidents, 1)
			assert.Equal(t, tt.wantKnown, result.Incidents[0].LocationKnown)
		})
	}
}

func TestCleanMissingDateIsRequiredFieldDrop(t *testing.T) {
	cleaner := NewCleaner(nil, testPolicy, nil)
	table := newTestTable(fullHeader, [][]string{
		row(map[string]string{ColDateOccurred: ""}),
	})

	result, err := cleaner.Clean(context.Background(), table)
	require.NoError(t, err)
	assert.Empty(t, result.Incidents)
	assert.Equal(t, 1, result.Dropped[DropMissingRequiredField])
}

func TestCleanImplausibleYearIsOutOfRangeDrop(t *testing.T) {
	cleaner := NewCleaner(nil, testPolicy, nil)
	table := newTestTable(fullHeader, [][]string{
		row(map[string]string{ColDateOccurred: "01/15/1850"}),
	})

	result, err := cleaner.Clean(context.Background(), table)
	require.NoError(t, err)
	assert.Empty(t, result.Incidents)
	assert.Equal(t, 1, result.Dropped[DropOutOfRangeValue])
}

func TestCleanNormalizesCategories(t *testing.T) {
	cleaner := NewCleaner(nil, testPolicy, nil)
	table := newTestTable(fullHeader, [][]string{
		row(map[string]string{
			ColCrimeType: "  battery -  simple assault ",
			ColVictimSex: " f ",
			ColVictimDescent: "h",
			ColWeapon:    "",
			ColAreaName:  "central",
		}),
	})

	result, err := cleaner.Clean(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, result.Incidents, 1)

	inc := result.Incidents[0]
	assert.Equal(t, "BATTERY - SIMPLE ASSAULT", inc.CrimeType)
	assert.Equal(t, "Female", inc.VictimSex)
	assert.Equal(t, "Hispanic/Latin/Mexican", inc.VictimDescent)
	assert.Equal(t, WeaponNoneRecorded, inc.Weapon)
	assert.Equal(t, "CENTRAL", inc.AreaName)
}

func TestCleanRowProblemsNeverAbortRun(t *testing.T) {
	cleaner := NewCleaner(nil, testPolicy, nil)
	table := newTestTable(fullHeader, [][]string{
		row(map[string]string{ColDateOccurred: "garbage"}),
		row(nil),
		row(map[string]string{ColVictimAge: "not-a-number"}),
	})

	result, err := cleaner.Clean(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalRaw)
	assert.Len(t, result.Incidents, 2)
	assert.Equal(t, 1, result.Dropped[DropUnparseableTimestamp])
}

func TestCleanLeapDayParses(t *testing.T) {
	cleaner := NewCleaner(nil, testPolicy, nil)
	table := newTestTable(fullHeader, [][]string{
		row(map[string]string{ColDateOccurred: "02/29/2020 12:00:00 AM", ColTimeOccurred: "0800"}),
		row(map[string]string{ColDateOccurred: "02/29/2021 12:00:00 AM", ColTimeOccurred: "0800"}),
	})

	result, err := cleaner.Clean(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, result.Incidents, 1)
	assert.Equal(t, 2020, result.Incidents[0].Year)
	assert.Equal(t, time.Saturday, result.Incidents[0].DayOfWeek)
	assert.Equal(t, 1, result.Dropped[DropUnparseableTimestamp])
}
