package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths is the single source of truth for every file path the run writes.
// All artifacts live under the output directory so a run can be archived
// or diffed as one unit.
type Paths struct {
	OutputDir string
	TablesDir string
	ChartsDir string
	LogsDir   string
}

// Well-known artifact file names. Stable across runs so that identical
// input produces identical paths.
const (
	CleanedCSV        = "cleaned_incidents.csv"
	CrimeTypesCSV     = "crime_types.csv"
	DemographicsCSV   = "victim_demographics.csv"
	MonthlyTrendCSV   = "monthly_trend.csv"
	HeatmapCSV        = "hour_day_heatmap.csv"
	HourlyCSV         = "hourly_distribution.csv"
	NightAreasCSV     = "night_crime_areas.csv"
	AgeGroupsCSV      = "victim_age_groups.csv"
	WeaponsCSV        = "weapon_usage.csv"
	ResultsSummaryCSV = "final_results_summary.csv"
	SummaryWorkbook   = "summaries.xlsx"
	RunSummaryJSON    = "run_summary.json"

	HourlyChartPNG    = "peak_crime_hour.png"
	CrimeTypeChartPNG = "top_crime_types.png"
	NightAreaChartPNG = "peak_night_crime_location.png"
	AgeGroupChartPNG  = "victim_age_distribution.png"
	WeaponChartPNG    = "weapon_usage.png"
	TrendChartPNG     = "monthly_trend.png"
	HeatmapChartPNG   = "hour_day_heatmap.png"
)

// NewPaths builds the path layout rooted at outputDir.
func NewPaths(outputDir string) *Paths {
	return &Paths{
		OutputDir: outputDir,
		TablesDir: filepath.Join(outputDir, "tables"),
		ChartsDir: filepath.Join(outputDir, "charts"),
		LogsDir:   filepath.Join(outputDir, "logs"),
	}
}

// EnsureDirectories creates the output directory tree.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.OutputDir, p.TablesDir, p.ChartsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetTablePath returns the full path for a tabular artifact.
func (p *Paths) GetTablePath(filename string) string {
	return filepath.Join(p.TablesDir, filename)
}

// GetChartPath returns the full path for a chart image.
func (p *Paths) GetChartPath(filename string) string {
	return filepath.Join(p.ChartsDir, filename)
}

// GetLogPath returns the full path for a log file.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetRunSummaryPath returns the path of the machine-readable run summary.
func (p *Paths) GetRunSummaryPath() string {
	return filepath.Join(p.OutputDir, RunSummaryJSON)
}
