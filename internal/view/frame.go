// Package view decides what a frame shows for a snapshot and view mode. It has
// no terminal dependency; internal/terminal lays a Frame out into widgets.
package view

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kjstillabower/weather-tui/internal/models"
	"github.com/kjstillabower/weather-tui/internal/series"
)

// Placeholder texts shown instead of data.
const (
	NoDataText     = "No weather data available"
	NoCurrentText  = "No current conditions available"
	NoForecastText = "No forecast data available"
)

var fieldLabels = map[models.Field]string{
	models.FieldTemperature:         "Temperature",
	models.FieldApparentTemperature: "Feels like",
	models.FieldRelativeHumidity:    "Humidity",
	models.FieldWindSpeed:           "Wind speed",
	models.FieldTemperatureMax:      "Daily high",
	models.FieldTemperatureMin:      "Daily low",
	models.FieldPrecipitationSum:    "Precipitation",
	models.FieldWindSpeedMax:        "Max wind speed",
}

// Options parameterise Build.
type Options struct {
	Mode          Mode
	ChartField    models.Field
	CurrentFields []models.Field // display order for the summary; others follow sorted
	Margin        float64
	TickStep      float64
	FallbackUnit  string // tick suffix when the response carries no unit
	QuitKey       string
}

// Frame is everything one draw needs. Exactly one of Text and Chart is meaningful:
// Chart is nil for text frames and placeholders.
type Frame struct {
	Mode        Mode
	Title       string
	Text        string
	Placeholder bool
	Chart       *Chart
}

// Chart is a single daily series with its padded axis.
type Chart struct {
	Field  models.Field
	Points []series.Point
	Range  series.Range
	Ticks  []series.Tick
	Unit   string
}

// Build derives the frame for snap. It is pure, so the render loop can build once
// and redraw the same frame every iteration.
func Build(snap models.Snapshot, opts Options) Frame {
	f := Frame{
		Mode:  opts.Mode,
		Title: title(snap.Coordinate, opts),
	}
	if !snap.HasData() {
		return placeholder(f, NoDataText)
	}

	switch opts.Mode {
	case ModeChart:
		return buildChart(f, *snap.Result, opts)
	case ModeRaw:
		f.Text = rawText(*snap.Result)
		return f
	default:
		return buildSummary(f, *snap.Result, opts)
	}
}

func placeholder(f Frame, text string) Frame {
	f.Text = text
	f.Placeholder = true
	f.Chart = nil
	return f
}

func title(c models.Coordinate, opts Options) string {
	t := fmt.Sprintf("Weather Info (%.4f, %.4f)", c.Latitude, c.Longitude)
	if opts.Mode == ModeChart && opts.ChartField != "" {
		t += " " + label(opts.ChartField)
	}
	if opts.QuitKey != "" {
		t += fmt.Sprintf(" - press %s to quit", opts.QuitKey)
	}
	return t
}

func buildSummary(f Frame, result models.ForecastResult, opts Options) Frame {
	if result.Current == nil || len(result.Current.Values) == 0 {
		return placeholder(f, NoCurrentText)
	}

	var lines []string
	for _, field := range summaryOrder(result.Current.Values, opts.CurrentFields) {
		m := result.Current.Values[field]
		lines = append(lines, fmt.Sprintf("%s: %s", label(field), formatMeasurement(m)))
	}
	if !result.Current.Time.IsZero() {
		lines = append(lines, "", "Observed "+result.Current.Time.Format("2006-01-02 15:04"))
	}
	f.Text = strings.Join(lines, "\n")
	return f
}

func summaryOrder(values map[models.Field]models.Measurement, preferred []models.Field) []models.Field {
	seen := make(map[models.Field]bool, len(values))
	order := make([]models.Field, 0, len(values))
	for _, field := range preferred {
		if _, ok := values[field]; ok && !seen[field] {
			order = append(order, field)
			seen[field] = true
		}
	}
	var rest []models.Field
	for field := range values {
		if !seen[field] {
			rest = append(rest, field)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(order, rest...)
}

func label(field models.Field) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return string(field)
}

// formatMeasurement prints one decimal; degree and percent units attach without a space.
func formatMeasurement(m models.Measurement) string {
	switch {
	case m.Unit == "":
		return fmt.Sprintf("%.1f", m.Value)
	case strings.HasPrefix(m.Unit, "°") || m.Unit == "%":
		return fmt.Sprintf("%.1f%s", m.Value, m.Unit)
	default:
		return fmt.Sprintf("%.1f %s", m.Value, m.Unit)
	}
}

func rawText(result models.ForecastResult) string {
	if len(result.Raw) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, result.Raw, "", "  "); err == nil {
			return buf.String()
		}
		return string(result.Raw)
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", result)
	}
	return string(data)
}

func buildChart(f Frame, result models.ForecastResult, opts Options) Frame {
	if result.Daily == nil {
		return placeholder(f, NoForecastText)
	}
	points := series.Extract(result, opts.ChartField)
	if len(points) == 0 {
		return placeholder(f, NoForecastText)
	}

	margin := opts.Margin
	if margin < 0 {
		margin = series.DefaultMargin
	}
	step := opts.TickStep
	if step <= 0 {
		step = series.DefaultTickStep
	}

	rng, err := series.AxisRange(points, margin)
	if err != nil {
		rng = series.DefaultRange
	}
	// A flat series with no margin has nothing to scale against.
	if rng.Span() <= 0 {
		rng.Min -= series.DefaultMargin
		rng.Max += series.DefaultMargin
	}
	unit := series.Unit(result, opts.ChartField)
	if unit == "" {
		unit = opts.FallbackUnit
	}

	f.Chart = &Chart{
		Field:  opts.ChartField,
		Points: points,
		Range:  rng,
		Ticks:  series.Ticks(rng, step, unit),
		Unit:   unit,
	}
	return f
}
