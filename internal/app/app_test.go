package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crimelens/internal/config"
	apperrors "crimelens/internal/errors"
)

const testHeader = "DATE OCC,TIME OCC,Crm Cd Desc,Vict Age,Vict Sex,Vict Descent,Weapon Desc,Premis Desc,AREA NAME,LAT,LON\n"

const testRows = testHeader +
	"01/04/2021 12:00:00 AM,1345,BATTERY - SIMPLE ASSAULT,30,F,H,STRONG-ARM,STREET,Central,34.05,-118.24\n" +
	"01/04/2021 12:00:00 AM,2330,VEHICLE - STOLEN,,M,W,,STREET,Hollywood,0,0\n" +
	"02/10/2021 12:00:00 AM,0215,VEHICLE - STOLEN,45,M,B,,DRIVEWAY,Hollywood,34.10,-118.33\n" +
	"02/30/2021 12:00:00 AM,1000,THEFT,22,F,W,,STREET,Central,34.05,-118.24\n"

func newTestApp(t *testing.T, csvContent string) (*App, *config.Paths) {
	t.Helper()

	dir := t.TempDir()
	inputPath := filepath.Join(dir, "crimes.csv")
	require.NoError(t, os.WriteFile(inputPath, []byte(csvContent), 0644))

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Input.File = inputPath
	cfg.Input.OutputDir = filepath.Join(dir, "results")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := New(cfg, logger)
	a.out = io.Discard
	return a, config.NewPaths(cfg.Input.OutputDir)
}

func TestRunEndToEnd(t *testing.T) {
	a, paths := newTestApp(t, testRows)

	summary, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.RawRows)
	assert.Equal(t, 3, summary.CleanedRows)
	assert.Equal(t, 1, summary.DroppedRows["unparseable_timestamp"])
	assert.Equal(t, 1, summary.UnknownAge)
	assert.Equal(t, 1, summary.UnknownLocation)
	// Night rows: 23:30 and 02:15, both in Hollywood.
	assert.Equal(t, "HOLLYWOOD", summary.PeakNightArea)
	assert.NotEmpty(t, summary.RunID)

	wantTables := []string{
		config.CleanedCSV, config.CrimeTypesCSV, config.DemographicsCSV,
		config.MonthlyTrendCSV, config.HeatmapCSV, config.HourlyCSV,
		config.NightAreasCSV, config.AgeGroupsCSV, config.WeaponsCSV,
		config.ResultsSummaryCSV, config.SummaryWorkbook,
	}
	for _, name := range wantTables {
		assert.FileExists(t, paths.GetTablePath(name), name)
	}
	wantCharts := []string{
		config.HourlyChartPNG, config.CrimeTypeChartPNG, config.NightAreaChartPNG,
		config.AgeGroupChartPNG, config.WeaponChartPNG, config.TrendChartPNG,
		config.HeatmapChartPNG,
	}
	for _, name := range wantCharts {
		assert.FileExists(t, paths.GetChartPath(name), name)
	}
	assert.FileExists(t, paths.GetRunSummaryPath())
}

func TestRunSummaryJSON(t *testing.T) {
	a, paths := newTestApp(t, testRows)

	_, err := a.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(paths.GetRunSummaryPath())
	require.NoError(t, err)

	var summary RunSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, 3, summary.CleanedRows)
	assert.NotEmpty(t, summary.Artifacts)
}

func TestRunMonthlyTrendHasNoGaps(t *testing.T) {
	a, paths := newTestApp(t, testHeader+
		"11/03/2020 12:00:00 AM,0900,THEFT,30,F,W,,STREET,Central,34.05,-118.24\n"+
		"02/11/2021 12:00:00 AM,0900,THEFT,30,F,W,,STREET,Central,34.05,-118.24\n")

	_, err := a.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(paths.GetTablePath(config.MonthlyTrendCSV))
	require.NoError(t, err)
	assert.Equal(t, "Month,Count\n2020-11,1\n2020-12,0\n2021-01,0\n2021-02,1\n", string(data[3:]))
}

func TestRunDeterministicSummaries(t *testing.T) {
	a, paths := newTestApp(t, testRows)

	_, err := a.Run(context.Background())
	require.NoError(t, err)

	read := func(name string) []byte {
		data, err := os.ReadFile(paths.GetTablePath(name))
		require.NoError(t, err)
		return data
	}

	first := map[string][]byte{}
	for _, name := range []string{config.CrimeTypesCSV, config.MonthlyTrendCSV, config.HeatmapCSV, config.CleanedCSV} {
		first[name] = read(name)
	}

	_, err = a.Run(context.Background())
	require.NoError(t, err)

	for name, want := range first {
		assert.Equal(t, want, read(name), name)
	}
}

func TestRunSchemaErrorWritesNothing(t *testing.T) {
	a, paths := newTestApp(t, "Some Column,Another\n1,2\n")

	_, err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchema))

	// Fatal errors abort before any artifact is produced.
	_, statErr := os.Stat(paths.OutputDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunMissingInputFile(t *testing.T) {
	a, _ := newTestApp(t, testRows)
	a.cfg.Input.File = filepath.Join(t.TempDir(), "absent.csv")

	_, err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

func TestRunEmptyDataRows(t *testing.T) {
	a, paths := newTestApp(t, testHeader)

	summary, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.CleanedRows)

	// Heatmap keeps its fixed 7x24 shape even with no incidents.
	data, err := os.ReadFile(paths.GetTablePath(config.HeatmapCSV))
	require.NoError(t, err)
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	assert.Equal(t, 8, lines) // header plus seven day rows
}
