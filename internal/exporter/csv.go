package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"crimelens/internal/config"
	"crimelens/internal/dataprocessing"
	apperrors "crimelens/internal/errors"
)

// CSVWriter writes the cleaned table and the summary tables. Output files
// carry a UTF-8 BOM so spreadsheet tools recognize the encoding.
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger}
}

// WriteTable writes one tabular artifact into the tables directory.
func (w *CSVWriter) WriteTable(ctx context.Context, filename string, headers []string, records [][]string) error {
	fullPath := w.paths.GetTablePath(filename)

	w.logger.InfoContext(ctx, "writing table",
		slog.String("path", fullPath),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create directory for %s", filename), err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create %s", fullPath), err)
	}
	defer file.Close()

	// UTF-8 BOM for Excel compatibility.
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write BOM to %s", fullPath), err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write header row of %s", filename), err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write record %d of %s", i, filename), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to flush %s", filename), err)
	}
	return nil
}

// CleanedHeaders are the columns of the cleaned incident file: the
// conceptual input fields plus the derived time features.
var CleanedHeaders = []string{
	"OccurredAt", "Hour", "DayOfWeek", "Month", "Year",
	"CrimeType", "VictimAge", "VictimSex", "VictimDescent",
	"Weapon", "Premise", "AreaName", "Latitude", "Longitude",
}

// WriteCleaned writes the cleaned incident table. Missing victim ages and
// unknown locations serialize as empty cells, never as zeroes.
func (w *CSVWriter) WriteCleaned(ctx context.Context, incidents []dataprocessing.Incident) error {
	records := make([][]string, 0, len(incidents))
	for _, inc := range incidents {
		age := ""
		if inc.AgeKnown {
			age = strconv.Itoa(inc.VictimAge)
		}
		lat, lon := "", ""
		if inc.LocationKnown {
			lat = strconv.FormatFloat(inc.Latitude, 'f', 4, 64)
			lon = strconv.FormatFloat(inc.Longitude, 'f', 4, 64)
		}
		records = append(records, []string{
			inc.OccurredAt.Format("2006-01-02 15:04"),
			strconv.Itoa(inc.Hour),
			dataprocessing.WeekdayLabels[dataprocessing.WeekdayIndex(inc.DayOfWeek)],
			strconv.Itoa(inc.Month),
			strconv.Itoa(inc.Year),
			inc.CrimeType,
			age,
			inc.VictimSex,
			inc.VictimDescent,
			inc.Weapon,
			inc.Premise,
			inc.AreaName,
			lat,
			lon,
		})
	}
	return w.WriteTable(ctx, config.CleanedCSV, CleanedHeaders, records)
}

// WriteCategoryCounts writes a label/count summary such as the crime-type
// or night-area tables.
func (w *CSVWriter) WriteCategoryCounts(ctx context.Context, filename, labelHeader string, counts []dataprocessing.CategoryCount) error {
	records := make([][]string, 0, len(counts))
	for _, c := range counts {
		records = append(records, []string{c.Label, strconv.Itoa(c.Count)})
	}
	return w.WriteTable(ctx, filename, []string{labelHeader, "Count"}, records)
}

// WriteDemographics writes the victim demographics summary.
func (w *CSVWriter) WriteDemographics(ctx context.Context, groups []dataprocessing.DemographicGroup) error {
	records := make([][]string, 0, len(groups))
	for _, g := range groups {
		records = append(records, []string{
			g.AgeGroup, g.Sex, g.Descent,
			strconv.Itoa(g.Count),
			fmt.Sprintf("%.2f", g.Percent),
		})
	}
	headers := []string{"AgeGroup", "Sex", "Descent", "Count", "Percent"}
	return w.WriteTable(ctx, config.DemographicsCSV, headers, records)
}

// WriteMonthlyTrend writes the gap-free monthly trend series.
func (w *CSVWriter) WriteMonthlyTrend(ctx context.Context, trend []dataprocessing.MonthCount) error {
	records := make([][]string, 0, len(trend))
	for _, m := range trend {
		records = append(records, []string{
			fmt.Sprintf("%04d-%02d", m.Year, m.Month),
			strconv.Itoa(m.Count),
		})
	}
	return w.WriteTable(ctx, config.MonthlyTrendCSV, []string{"Month", "Count"}, records)
}

// WriteHeatmap writes the hour/day matrix: one row per weekday in
// Monday-first order, one column per hour.
func (w *CSVWriter) WriteHeatmap(ctx context.Context, heatmap *dataprocessing.Heatmap) error {
	headers := make([]string, 0, 25)
	headers = append(headers, "Day")
	for hour := 0; hour < 24; hour++ {
		headers = append(headers, strconv.Itoa(hour))
	}

	records := make([][]string, 0, 7)
	for day, counts := range heatmap.Counts {
		record := make([]string, 0, 25)
		record = append(record, dataprocessing.WeekdayLabels[day])
		for _, n := range counts {
			record = append(record, strconv.Itoa(n))
		}
		records = append(records, record)
	}
	return w.WriteTable(ctx, config.HeatmapCSV, headers, records)
}

// WriteHourlyDistribution writes the per-hour incident counts.
func (w *CSVWriter) WriteHourlyDistribution(ctx context.Context, hours [24]int) error {
	records := make([][]string, 0, 24)
	for hour, n := range hours {
		records = append(records, []string{strconv.Itoa(hour), strconv.Itoa(n)})
	}
	return w.WriteTable(ctx, config.HourlyCSV, []string{"Hour", "Count"}, records)
}
