package series

import (
	"errors"
	"math"
	"strconv"
)

const (
	// DefaultMargin pads both ends of the axis so points never touch the frame.
	DefaultMargin = 5.0
	// DefaultTickStep is the spacing between y-axis labels.
	DefaultTickStep = 5.0

	maxTicks = 1000
)

// DefaultRange is used for empty series, which have no extrema.
var DefaultRange = Range{Min: 0, Max: 100}

// ErrEmptySeries is returned by AxisRange for a series with no points.
var ErrEmptySeries = errors.New("empty series has no range")

// Range is an inclusive pair of axis bounds.
type Range struct {
	Min float64
	Max float64
}

// Span returns Max - Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Tick is a y-axis label position.
type Tick struct {
	Value float64
	Label string
}

// AxisRange returns the extrema of points widened by margin on both ends.
// Empty input returns ErrEmptySeries; use DefaultRange in that case.
func AxisRange(points []Point, margin float64) (Range, error) {
	if len(points) == 0 {
		return Range{}, ErrEmptySeries
	}
	lo, hi := points[0].Value, points[0].Value
	for _, p := range points[1:] {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	return Range{Min: lo - margin, Max: hi + margin}, nil
}

// Ticks returns labels at every multiple of step inside r, ascending, each
// suffixed with unit. The count depends on the width of r. A non-positive step
// or an inverted range yields no ticks.
func Ticks(r Range, step float64, unit string) []Tick {
	if step <= 0 || r.Max < r.Min || math.IsInf(r.Span(), 0) || math.IsNaN(r.Span()) {
		return nil
	}
	decimals := stepDecimals(step)
	first := math.Ceil(r.Min/step) * step

	var ticks []Tick
	// Index-based so error does not accumulate across steps.
	for i := 0; i < maxTicks; i++ {
		v := first + float64(i)*step
		if v > r.Max+step*1e-9 {
			break
		}
		if v == 0 {
			v = 0 // drop negative zero
		}
		ticks = append(ticks, Tick{
			Value: v,
			Label: strconv.FormatFloat(v, 'f', decimals, 64) + unit,
		})
	}
	return ticks
}

// stepDecimals returns how many decimal places are needed to print multiples of step, at most 3.
func stepDecimals(step float64) int {
	for d := 0; d < 3; d++ {
		scaled := step * math.Pow10(d)
		if math.Abs(scaled-math.Round(scaled)) < 1e-9 {
			return d
		}
	}
	return 3
}
