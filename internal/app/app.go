package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"

	"crimelens/internal/config"
	"crimelens/internal/dataprocessing"
	apperrors "crimelens/internal/errors"
	"crimelens/internal/exporter"
	"crimelens/internal/infrastructure"
)

// App wires the pipeline together: Loader → Cleaner → Aggregator →
// Reporter, strictly one way. One Run call is one complete report.
type App struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger

	// Console destination for the final results table.
	out io.Writer
}

// New creates the application container.
func New(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		cfg:    cfg,
		paths:  config.NewPaths(cfg.Input.OutputDir),
		logger: logger,
		out:    os.Stdout,
	}
}

// RunSummary is the machine-readable record of one pipeline run.
type RunSummary struct {
	RunID     string `json:"run_id"`
	InputFile string `json:"input_file"`

	RawRows     int            `json:"raw_rows"`
	CleanedRows int            `json:"cleaned_rows"`
	DroppedRows map[string]int `json:"dropped_rows"`

	UnknownAge      int `json:"unknown_age"`
	UnknownLocation int `json:"unknown_location"`

	PeakHour      int    `json:"peak_hour"`
	PeakNightArea string `json:"peak_night_area"`

	Artifacts []string `json:"artifacts"`
}

// Run executes the full pipeline. Fatal errors (schema, I/O, config)
// abort before any artifact is written; row-level problems are tallied in
// the returned summary instead.
func (a *App) Run(ctx context.Context) (*RunSummary, error) {
	runID := uuid.New().String()
	ctx = infrastructure.WithRunID(ctx, runID)

	a.logger.InfoContext(ctx, "starting crime report run",
		slog.String("input", a.cfg.Input.File),
		slog.String("output_dir", a.cfg.Input.OutputDir))

	table, err := dataprocessing.LoadCSV(a.cfg.Input.File, a.logger)
	if err != nil {
		return nil, err
	}

	cleaner := dataprocessing.NewCleaner(a.logger, a.cfg.Cleaning, nil)
	result, err := cleaner.Clean(ctx, table)
	if err != nil {
		return nil, err
	}

	agg := dataprocessing.NewAggregator(a.logger, result.Incidents)
	topCrimes := agg.TopCrimeTypes(a.cfg.Analysis.TopCrimeTypes)
	demographics := agg.Demographics()
	trend := agg.MonthlyTrend()
	heatmap := agg.HourDayHeatmap()
	hourly := agg.HourlyDistribution()
	nightAreas := agg.NightCrimeByArea(a.cfg.Analysis.NightHours)
	ageGroups := agg.AgeGroupDistribution()
	weapons := agg.WeaponUsage()

	topNightAreas := nightAreas
	if a.cfg.Analysis.TopNightAreas < len(topNightAreas) {
		topNightAreas = topNightAreas[:a.cfg.Analysis.TopNightAreas]
	}

	summary := &RunSummary{
		RunID:           runID,
		InputFile:       a.cfg.Input.File,
		RawRows:         result.TotalRaw,
		CleanedRows:     len(result.Incidents),
		DroppedRows:     dropCounts(result),
		UnknownAge:      result.UnknownAge,
		UnknownLocation: result.UnknownLocation,
		PeakHour:        agg.PeakHour(),
		PeakNightArea:   dataprocessing.CategoryUnknown,
	}
	if len(nightAreas) > 0 {
		summary.PeakNightArea = nightAreas[0].Label
	}

	// Cleaning is complete; only now may output be produced.
	if err := a.paths.EnsureDirectories(); err != nil {
		return nil, apperrors.NewStorageError("cannot create output directories", err)
	}

	csvWriter := exporter.NewCSVWriter(a.paths, a.logger)

	steps := []struct {
		artifact string
		write    func() error
	}{
		{config.CleanedCSV, func() error {
			return csvWriter.WriteCleaned(ctx, result.Incidents)
		}},
		{config.CrimeTypesCSV, func() error {
			return csvWriter.WriteCategoryCounts(ctx, config.CrimeTypesCSV, "CrimeType", topCrimes)
		}},
		{config.DemographicsCSV, func() error {
			return csvWriter.WriteDemographics(ctx, demographics)
		}},
		{config.MonthlyTrendCSV, func() error {
			return csvWriter.WriteMonthlyTrend(ctx, trend)
		}},
		{config.HeatmapCSV, func() error {
			return csvWriter.WriteHeatmap(ctx, heatmap)
		}},
		{config.HourlyCSV, func() error {
			return csvWriter.WriteHourlyDistribution(ctx, hourly)
		}},
		{config.NightAreasCSV, func() error {
			return csvWriter.WriteCategoryCounts(ctx, config.NightAreasCSV, "AreaName", topNightAreas)
		}},
		{config.AgeGroupsCSV, func() error {
			return csvWriter.WriteCategoryCounts(ctx, config.AgeGroupsCSV, "AgeGroup", ageGroups)
		}},
		{config.WeaponsCSV, func() error {
			return csvWriter.WriteCategoryCounts(ctx, config.WeaponsCSV, "Weapon", weapons)
		}},
		{config.ResultsSummaryCSV, func() error {
			return a.writeResultsSummary(ctx, csvWriter, summary)
		}},
	}
	for _, step := range steps {
		if err := step.write(); err != nil {
			return nil, err
		}
		summary.Artifacts = append(summary.Artifacts, a.paths.GetTablePath(step.artifact))
	}

	if err := a.writeWorkbook(ctx, topCrimes, demographics, trend, heatmap, topNightAreas, ageGroups, weapons); err != nil {
		return nil, err
	}
	summary.Artifacts = append(summary.Artifacts, a.paths.GetTablePath(config.SummaryWorkbook))

	if err := a.renderCharts(ctx, hourly, topCrimes, topNightAreas, ageGroups, weapons, trend, heatmap); err != nil {
		return nil, err
	}
	for _, chart := range []string{
		config.HourlyChartPNG, config.CrimeTypeChartPNG, config.NightAreaChartPNG,
		config.AgeGroupChartPNG, config.WeaponChartPNG, config.TrendChartPNG,
		config.HeatmapChartPNG,
	} {
		summary.Artifacts = append(summary.Artifacts, a.paths.GetChartPath(chart))
	}

	if err := a.writeRunSummary(ctx, summary); err != nil {
		return nil, err
	}

	a.printResults(summary, ageGroups)

	a.logger.InfoContext(ctx, "run complete",
		slog.Int("cleaned_rows", summary.CleanedRows),
		slog.Int("dropped_rows", summary.RawRows-summary.CleanedRows),
		slog.Int("artifacts", len(summary.Artifacts)))

	return summary, nil
}

// dropCounts flattens the typed drop tally for the JSON summary.
func dropCounts(result *dataprocessing.CleanResult) map[string]int {
	counts := make(map[string]int, len(result.Dropped))
	for reason, n := range result.Dropped {
		counts[string(reason)] = n
	}
	return counts
}

// writeResultsSummary mirrors the final-results table of the published
// analysis: headline metrics in a two-column CSV.
func (a *App) writeResultsSummary(ctx context.Context, w *exporter.CSVWriter, summary *RunSummary) error {
	records := [][]string{
		{"Peak Crime Hour", strconv.Itoa(summary.PeakHour)},
		{"Peak Night Crime Location", summary.PeakNightArea},
		{"Total Crimes Analyzed", strconv.Itoa(summary.CleanedRows)},
		{"Rows Dropped", strconv.Itoa(summary.RawRows - summary.CleanedRows)},
	}
	return w.WriteTable(ctx, config.ResultsSummaryCSV, []string{"Metric", "Value"}, records)
}

// writeWorkbook assembles the Excel workbook with one sheet per summary.
func (a *App) writeWorkbook(ctx context.Context,
	topCrimes []dataprocessing.CategoryCount,
	demographics []dataprocessing.DemographicGroup,
	trend []dataprocessing.MonthCount,
	heatmap *dataprocessing.Heatmap,
	nightAreas []dataprocessing.CategoryCount,
	ageGroups []dataprocessing.CategoryCount,
	weapons []dataprocessing.CategoryCount,
) error {
	countRows := func(counts []dataprocessing.CategoryCount) [][]string {
		rows := make([][]string, 0, len(counts))
		for _, c := range counts {
			rows = append(rows, []string{c.Label, strconv.Itoa(c.Count)})
		}
		return rows
	}

	demographicRows := make([][]string, 0, len(demographics))
	for _, g := range demographics {
		demographicRows = append(demographicRows, []string{
			g.AgeGroup, g.Sex, g.Descent, strconv.Itoa(g.Count), fmt.Sprintf("%.2f", g.Percent),
		})
	}

	trendRows := make([][]string, 0, len(trend))
	for _, m := range trend {
		trendRows = append(trendRows, []string{fmt.Sprintf("%04d-%02d", m.Year, m.Month), strconv.Itoa(m.Count)})
	}

	heatmapHeaders := make([]string, 0, 25)
	heatmapHeaders = append(heatmapHeaders, "Day")
	for hour := 0; hour < 24; hour++ {
		heatmapHeaders = append(heatmapHeaders, strconv.Itoa(hour))
	}
	heatmapRows := make([][]string, 0, 7)
	for day, counts := range heatmap.Counts {
		row := make([]string, 0, 25)
		row = append(row, dataprocessing.WeekdayLabels[day])
		for _, n := range counts {
			row = append(row, strconv.Itoa(n))
		}
		heatmapRows = append(heatmapRows, row)
	}

	sheets := []exporter.Sheet{
		{Name: "Crime Types", Headers: []string{"CrimeType", "Count"}, Rows: countRows(topCrimes)},
		{Name: "Demographics", Headers: []string{"AgeGroup", "Sex", "Descent", "Count", "Percent"}, Rows: demographicRows},
		{Name: "Monthly Trend", Headers: []string{"Month", "Count"}, Rows: trendRows},
		{Name: "Heatmap", Headers: heatmapHeaders, Rows: heatmapRows},
		{Name: "Night Areas", Headers: []string{"AreaName", "Count"}, Rows: countRows(nightAreas)},
		{Name: "Age Groups", Headers: []string{"AgeGroup", "Count"}, Rows: countRows(ageGroups)},
		{Name: "Weapons", Headers: []string{"Weapon", "Count"}, Rows: countRows(weapons)},
	}

	return exporter.NewWorkbookWriter(a.paths, a.logger).Write(ctx, sheets)
}

// renderCharts produces one image per summary.
func (a *App) renderCharts(ctx context.Context,
	hourly [24]int,
	topCrimes []dataprocessing.CategoryCount,
	nightAreas []dataprocessing.CategoryCount,
	ageGroups []dataprocessing.CategoryCount,
	weapons []dataprocessing.CategoryCount,
	trend []dataprocessing.MonthCount,
	heatmap *dataprocessing.Heatmap,
) error {
	renderer := exporter.NewChartRenderer(a.cfg.Charts, a.paths, a.logger)

	if err := renderer.RenderHourlyBar(ctx, hourly); err != nil {
		return err
	}
	if err := renderer.RenderCategoryBar(ctx, topCrimes,
		"Top Crime Types", "Number of Crimes", config.CrimeTypeChartPNG); err != nil {
		return err
	}
	if err := renderer.RenderHorizontalBar(ctx, nightAreas,
		"Areas with Most Night Crimes", "Number of Night Crimes", config.NightAreaChartPNG); err != nil {
		return err
	}
	if err := renderer.RenderCategoryBar(ctx, ageGroups,
		"Number of Crimes by Victim Age Group", "Number of Crimes", config.AgeGroupChartPNG); err != nil {
		return err
	}
	topWeapons := weapons
	if a.cfg.Analysis.TopCrimeTypes < len(topWeapons) {
		topWeapons = topWeapons[:a.cfg.Analysis.TopCrimeTypes]
	}
	if err := renderer.RenderHorizontalBar(ctx, topWeapons,
		"Most Recorded Weapons", "Number of Crimes", config.WeaponChartPNG); err != nil {
		return err
	}
	if err := renderer.RenderTrendLine(ctx, trend); err != nil {
		return err
	}
	return renderer.RenderHeatmap(ctx, heatmap)
}

// writeRunSummary persists the machine-readable run record.
func (a *App) writeRunSummary(ctx context.Context, summary *RunSummary) error {
	path := a.paths.GetRunSummaryPath()
	a.logger.InfoContext(ctx, "writing run summary", slog.String("path", path))

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create run summary %s", path), err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return apperrors.NewStorageError("failed to encode run summary", err)
	}
	return nil
}

// printResults prints the operator-facing final results table.
func (a *App) printResults(summary *RunSummary, ageGroups []dataprocessing.CategoryCount) {
	table := tablewriter.NewWriter(a.out)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Peak Crime Hour", fmt.Sprintf("%d:00", summary.PeakHour)})
	table.Append([]string{"Peak Night Crime Location", summary.PeakNightArea})
	table.Append([]string{"Total Crimes Analyzed", strconv.Itoa(summary.CleanedRows)})
	table.Append([]string{"Rows Dropped", strconv.Itoa(summary.RawRows - summary.CleanedRows)})
	for _, g := range ageGroups {
		table.Append([]string{fmt.Sprintf("Victims Aged %s", g.Label), strconv.Itoa(g.Count)})
	}
	table.Render()
}
