// Package series turns a forecast into chartable points, axis bounds and tick labels.
package series

import "github.com/kjstillabower/weather-tui/internal/models"

// LabelLayout formats a daily entry's date as month/day.
const LabelLayout = "01/02"

// Point is one labelled chart value.
type Point struct {
	Label string
	Value float64
}

// Extract returns one point per daily entry of result, in source order.
//
// A day that lacks field contributes 0.0 rather than being skipped, so
// len(Extract(r, f)) == len(r.Daily) always holds and each point lines up with
// its date. Callers charting sparse fields should expect zeros at those positions.
//
// The result is empty, never nil, when result has no daily entries.
func Extract(result models.ForecastResult, field models.Field) []Point {
	points := make([]Point, 0, len(result.Daily))
	for _, entry := range result.Daily {
		var v float64
		if m, ok := entry.Values[field]; ok {
			v = m.Value
		}
		points = append(points, Point{
			Label: entry.Date.Format(LabelLayout),
			Value: v,
		})
	}
	return points
}

// Unit returns the unit reported for field by the first daily entry that carries it.
func Unit(result models.ForecastResult, field models.Field) string {
	for _, entry := range result.Daily {
		if m, ok := entry.Values[field]; ok && m.Unit != "" {
			return m.Unit
		}
	}
	return ""
}
