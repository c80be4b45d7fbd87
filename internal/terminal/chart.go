package terminal

import (
	"image"
	"math"
	"unicode/utf8"

	ui "github.com/gizak/termui/v3"

	"github.com/kjstillabower/weather-tui/internal/view"
)

// chartWidget draws a single line series with y tick labels on the left and
// date labels underneath. Unlike widgets.Plot it honours a non-zero axis minimum.
type chartWidget struct {
	ui.Block
	chart     *view.Chart
	LineColor ui.Color
	AxesColor ui.Color
}

func newChartWidget(c *view.Chart) *chartWidget {
	return &chartWidget{
		Block:     *ui.NewBlock(),
		chart:     c,
		LineColor: ui.ColorCyan,
		AxesColor: ui.ColorWhite,
	}
}

func (w *chartWidget) Draw(buf *ui.Buffer) {
	w.Block.Draw(buf)

	g, ok := newChartGeometry(w.Inner, w.chart)
	if !ok {
		return
	}
	axes := ui.NewStyle(w.AxesColor)

	for _, tick := range w.chart.Ticks {
		buf.SetString(tick.Label, axes, image.Pt(w.Inner.Min.X, g.tickRow(tick.Value)))
	}
	for i, x := range g.labelColumns() {
		buf.SetString(w.chart.Points[i].Label, axes, image.Pt(x, g.plot.Max.Y))
	}

	canvas := ui.NewCanvas()
	canvas.Rectangle = g.plot
	if len(w.chart.Points) == 1 {
		canvas.SetPoint(g.dot(0), w.LineColor)
	}
	for i := 1; i < len(w.chart.Points); i++ {
		canvas.SetLine(g.dot(i-1), g.dot(i), w.LineColor)
	}
	canvas.Draw(buf)
}

// chartGeometry maps chart values onto screen cells and braille dots. The plot
// area sits right of the tick column and above the one-row date axis.
type chartGeometry struct {
	chart *view.Chart
	plot  image.Rectangle
}

func newChartGeometry(inner image.Rectangle, c *view.Chart) (chartGeometry, bool) {
	if c == nil || len(c.Points) == 0 || c.Range.Span() <= 0 {
		return chartGeometry{}, false
	}
	tickWidth := 0
	for _, t := range c.Ticks {
		if n := utf8.RuneCountInString(t.Label); n > tickWidth {
			tickWidth = n
		}
	}
	plot := image.Rect(inner.Min.X+tickWidth+1, inner.Min.Y, inner.Max.X, inner.Max.Y-1)
	if plot.Dx() < 1 || plot.Dy() < 1 {
		return chartGeometry{}, false
	}
	return chartGeometry{chart: c, plot: plot}, true
}

// fraction is the position of v within the range, 0 at Min and 1 at Max.
func (g chartGeometry) fraction(v float64) float64 {
	f := (v - g.chart.Range.Min) / g.chart.Range.Span()
	return math.Max(0, math.Min(1, f))
}

// dot returns the braille-space position of point i (2 dots per cell across, 4 down).
func (g chartGeometry) dot(i int) image.Point {
	widthDots := g.plot.Dx()*2 - 1
	heightDots := g.plot.Dy()*4 - 1

	x := 0
	if n := len(g.chart.Points); n > 1 {
		x = int(math.Round(float64(i) * float64(widthDots) / float64(n-1)))
	}
	y := int(math.Round((1 - g.fraction(g.chart.Points[i].Value)) * float64(heightDots)))
	return image.Pt(g.plot.Min.X*2+x, g.plot.Min.Y*4+y)
}

// tickRow returns the screen row for a tick value.
func (g chartGeometry) tickRow(v float64) int {
	heightDots := g.plot.Dy()*4 - 1
	y := int(math.Round((1 - g.fraction(v)) * float64(heightDots)))
	return g.plot.Min.Y + y/4
}

// labelColumns returns the start column of each date label keyed by point index,
// centred under its point. Labels that would overlap the previous one are left out.
func (g chartGeometry) labelColumns() map[int]int {
	cols := make(map[int]int, len(g.chart.Points))
	nextFree := g.plot.Min.X
	for i, p := range g.chart.Points {
		width := utf8.RuneCountInString(p.Label)
		x := g.dot(i).X/2 - width/2
		if x < g.plot.Min.X {
			x = g.plot.Min.X
		}
		if x+width > g.plot.Max.X {
			x = g.plot.Max.X - width
		}
		if x < nextFree {
			continue
		}
		cols[i] = x
		nextFree = x + width + 1
	}
	return cols
}
