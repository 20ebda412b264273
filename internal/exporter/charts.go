package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"crimelens/internal/config"
	"crimelens/internal/dataprocessing"
	apperrors "crimelens/internal/errors"
)

// ChartRenderer renders summary tables as static PNG images.
type ChartRenderer struct {
	paths  *config.Paths
	logger *slog.Logger
	width  vg.Length
	height vg.Length
}

// NewChartRenderer creates a renderer with the configured image size.
func NewChartRenderer(cfg config.ChartsConfig, paths *config.Paths, logger *slog.Logger) *ChartRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartRenderer{
		paths:  paths,
		logger: logger,
		width:  vg.Length(cfg.Width) * vg.Inch,
		height: vg.Length(cfg.Height) * vg.Inch,
	}
}

// save writes a finished plot to the charts directory.
func (r *ChartRenderer) save(ctx context.Context, p *plot.Plot, filename string) error {
	path := r.paths.GetChartPath(filename)
	r.logger.InfoContext(ctx, "rendering chart", slog.String("path", path))
	if err := p.Save(r.width, r.height, path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to render chart %s", path), err)
	}
	return nil
}

// RenderHourlyBar renders the crime-frequency-by-hour bar chart.
func (r *ChartRenderer) RenderHourlyBar(ctx context.Context, hours [24]int) error {
	p := plot.New()
	p.Title.Text = "Crime Frequency by Hour of Day"
	p.X.Label.Text = "Hour of Day"
	p.Y.Label.Text = "Number of Crimes"

	values := make(plotter.Values, 24)
	labels := make([]string, 24)
	for h, n := range hours {
		values[h] = float64(n)
		labels[h] = strconv.Itoa(h)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return apperrors.NewStorageError("failed to build hourly bar chart", err)
	}
	p.Add(bars)
	p.NominalX(labels...)

	return r.save(ctx, p, config.HourlyChartPNG)
}

// RenderCategoryBar renders a vertical bar chart of labeled counts.
func (r *ChartRenderer) RenderCategoryBar(ctx context.Context, counts []dataprocessing.CategoryCount, title, yLabel, filename string) error {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel

	values := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, c := range counts {
		values[i] = float64(c.Count)
		labels[i] = c.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to build bar chart %s", filename), err)
	}
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = -0.6
	p.X.Tick.Label.XAlign = -0.9

	return r.save(ctx, p, filename)
}

// RenderHorizontalBar renders counts as horizontal bars, largest on top.
func (r *ChartRenderer) RenderHorizontalBar(ctx context.Context, counts []dataprocessing.CategoryCount, title, xLabel, filename string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel

	// Reverse so the largest count renders at the top of the axis.
	values := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, c := range counts {
		j := len(counts) - 1 - i
		values[j] = float64(c.Count)
		labels[j] = c.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to build horizontal bar chart %s", filename), err)
	}
	bars.Horizontal = true
	p.Add(bars)
	p.NominalY(labels...)

	return r.save(ctx, p, filename)
}

// RenderTrendLine renders the monthly trend as a line chart.
func (r *ChartRenderer) RenderTrendLine(ctx context.Context, trend []dataprocessing.MonthCount) error {
	p := plot.New()
	p.Title.Text = "Monthly Crime Trend"
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Number of Crimes"
	p.Y.Min = 0

	points := make(plotter.XYs, len(trend))
	ticks := make([]plot.Tick, 0, len(trend))
	for i, m := range trend {
		points[i].X = float64(i)
		points[i].Y = float64(m.Count)

		// Label January and the series endpoints; minor ticks elsewhere
		// keep long series readable.
		tick := plot.Tick{Value: float64(i)}
		if m.Month == 1 || i == 0 || i == len(trend)-1 {
			tick.Label = fmt.Sprintf("%04d-%02d", m.Year, m.Month)
		}
		ticks = append(ticks, tick)
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)

	line, err := plotter.NewLine(points)
	if err != nil {
		return apperrors.NewStorageError("failed to build trend line chart", err)
	}
	p.Add(line, plotter.NewGrid())

	return r.save(ctx, p, config.TrendChartPNG)
}

// heatmapGrid adapts the hour/day matrix to the plotter grid interface.
type heatmapGrid struct {
	heatmap *dataprocessing.Heatmap
}

func (g heatmapGrid) Dims() (c, r int)   { return 24, 7 }
func (g heatmapGrid) X(c int) float64    { return float64(c) }
func (g heatmapGrid) Y(r int) float64    { return float64(r) }
func (g heatmapGrid) Z(c, r int) float64 { return float64(g.heatmap.Counts[r][c]) }

// RenderHeatmap renders the hour-by-day incident matrix.
func (r *ChartRenderer) RenderHeatmap(ctx context.Context, heatmap *dataprocessing.Heatmap) error {
	p := plot.New()
	p.Title.Text = "Incidents by Hour and Day of Week"
	p.X.Label.Text = "Hour of Day"

	h := plotter.NewHeatMap(heatmapGrid{heatmap: heatmap}, palette.Heat(16, 1))
	if heatmap.Max() == 0 {
		// Keep the color scale well-formed on an empty input.
		h.Max = 1
	}
	p.Add(h)

	hourTicks := make([]plot.Tick, 24)
	for i := range hourTicks {
		hourTicks[i] = plot.Tick{Value: float64(i), Label: strconv.Itoa(i)}
	}
	dayTicks := make([]plot.Tick, 7)
	for i, label := range dataprocessing.WeekdayLabels {
		dayTicks[i] = plot.Tick{Value: float64(i), Label: label}
	}
	p.X.Tick.Marker = plot.ConstantTicks(hourTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(dayTicks)

	return r.save(ctx, p, config.HeatmapChartPNG)
}
