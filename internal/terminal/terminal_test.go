package terminal

import (
	"image"
	"sort"
	"strings"
	"testing"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/kjstillabower/weather-tui/internal/render"
	"github.com/kjstillabower/weather-tui/internal/series"
	"github.com/kjstillabower/weather-tui/internal/view"
)

func scenarioChart() *view.Chart {
	points := []series.Point{{Label: "08/02", Value: 82.76}, {Label: "08/03", Value: 75.2}}
	rng := series.Range{Min: 70.2, Max: 87.76}
	return &view.Chart{
		Field:  "temperature_2m_max",
		Points: points,
		Range:  rng,
		Ticks:  series.Ticks(rng, 5, "°F"),
		Unit:   "°F",
	}
}

func rowText(buf *ui.Buffer, y int) string {
	var b strings.Builder
	for x := buf.Min.X; x < buf.Max.X; x++ {
		r := buf.GetCell(image.Pt(x, y)).Rune
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
	}
	return b.String()
}

func TestLayout_TextFrame(t *testing.T) {
	items := Layout(view.Frame{Title: "Weather Info", Text: "Temperature: 77.5°F"}, 80, 24)
	if len(items) != 1 {
		t.Fatalf("Layout() returned %d items, want 1", len(items))
	}
	p, ok := items[0].(*widgets.Paragraph)
	if !ok {
		t.Fatalf("Layout() item is %T, want *widgets.Paragraph", items[0])
	}
	if p.Text != "Temperature: 77.5°F" || p.Title != "Weather Info" {
		t.Errorf("paragraph = %q / %q", p.Title, p.Text)
	}
	if p.GetRect() != image.Rect(0, 0, 80, 24) {
		t.Errorf("paragraph rect = %v, want full screen", p.GetRect())
	}
}

func TestLayout_PlaceholderIsHighlighted(t *testing.T) {
	items := Layout(view.Frame{Text: view.NoDataText, Placeholder: true}, 40, 10)
	p := items[0].(*widgets.Paragraph)
	if p.TextStyle.Fg != ui.ColorYellow {
		t.Errorf("placeholder Fg = %v, want yellow", p.TextStyle.Fg)
	}
}

func TestLayout_ChartFrame(t *testing.T) {
	items := Layout(view.Frame{Title: "chart", Chart: scenarioChart()}, 60, 20)
	if len(items) != 1 {
		t.Fatalf("Layout() returned %d items, want 1", len(items))
	}
	c, ok := items[0].(*chartWidget)
	if !ok {
		t.Fatalf("Layout() item is %T, want *chartWidget", items[0])
	}
	if c.Title != "chart" {
		t.Errorf("chart title = %q, want chart", c.Title)
	}
}

func TestLayout_ZeroSize(t *testing.T) {
	if items := Layout(view.Frame{Text: "x"}, 0, 10); items != nil {
		t.Errorf("Layout() = %v, want nil for zero width", items)
	}
}

func TestChartGeometry_TickRowsFollowValues(t *testing.T) {
	c := scenarioChart()
	g, ok := newChartGeometry(image.Rect(1, 1, 39, 11), c)
	if !ok {
		t.Fatal("newChartGeometry() ok = false")
	}
	if g.tickRow(c.Range.Max) != g.plot.Min.Y {
		t.Errorf("tickRow(max) = %d, want top row %d", g.tickRow(c.Range.Max), g.plot.Min.Y)
	}
	if g.tickRow(c.Range.Min) != g.plot.Max.Y-1 {
		t.Errorf("tickRow(min) = %d, want bottom row %d", g.tickRow(c.Range.Min), g.plot.Max.Y-1)
	}
	prev := g.plot.Max.Y
	for _, tick := range c.Ticks {
		row := g.tickRow(tick.Value)
		if row >= prev {
			t.Errorf("tick %s at row %d, want above previous row %d", tick.Label, row, prev)
		}
		prev = row
	}
}

func TestChartGeometry_DotsSpanPlot(t *testing.T) {
	g, _ := newChartGeometry(image.Rect(1, 1, 39, 11), scenarioChart())
	first, last := g.dot(0), g.dot(1)
	if first.X/2 != g.plot.Min.X || last.X/2 != g.plot.Max.X-1 {
		t.Errorf("dot columns = %d..%d, want %d..%d", first.X/2, last.X/2, g.plot.Min.X, g.plot.Max.X-1)
	}
	// 82.76 is higher than 75.2, so its dot is nearer the top.
	if first.Y >= last.Y {
		t.Errorf("dot(0).Y = %d, dot(1).Y = %d; want first above second", first.Y, last.Y)
	}
	for _, d := range []image.Point{first, last} {
		cell := image.Pt(d.X/2, d.Y/4)
		if !cell.In(g.plot) {
			t.Errorf("dot %v maps to cell %v outside plot %v", d, cell, g.plot)
		}
	}
}

func TestChartGeometry_TooSmall(t *testing.T) {
	if _, ok := newChartGeometry(image.Rect(0, 0, 4, 1), scenarioChart()); ok {
		t.Error("newChartGeometry() ok = true for a 4x1 area, want false")
	}
	empty := scenarioChart()
	empty.Points = nil
	if _, ok := newChartGeometry(image.Rect(0, 0, 80, 24), empty); ok {
		t.Error("newChartGeometry() ok = true for no points, want false")
	}
}

func TestChartGeometry_LabelsDoNotOverlap(t *testing.T) {
	c := scenarioChart()
	c.Points = nil
	for i := 0; i < 16; i++ {
		c.Points = append(c.Points, series.Point{Label: "08/1" + string(rune('0'+i%10)), Value: 75 + float64(i%3)})
	}
	g, ok := newChartGeometry(image.Rect(1, 1, 39, 11), c)
	if !ok {
		t.Fatal("newChartGeometry() ok = false")
	}

	cols := g.labelColumns()
	if len(cols) == 0 || len(cols) >= len(c.Points) {
		t.Fatalf("labelColumns() placed %d of %d labels, want some but not all", len(cols), len(c.Points))
	}
	idx := make([]int, 0, len(cols))
	for i := range cols {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	for k := 1; k < len(idx); k++ {
		prevEnd := cols[idx[k-1]] + len(c.Points[idx[k-1]].Label)
		if cols[idx[k]] <= prevEnd {
			t.Errorf("label %d at %d overlaps label ending at %d", idx[k], cols[idx[k]], prevEnd)
		}
	}
	for _, x := range cols {
		if x < g.plot.Min.X || x+5 > g.plot.Max.X {
			t.Errorf("label column %d outside plot %v", x, g.plot)
		}
	}
}

func TestChartWidget_DrawsTicksAndDates(t *testing.T) {
	c := scenarioChart()
	w := newChartWidget(c)
	w.Title = "Daily high"
	w.SetRect(0, 0, 40, 12)
	buf := ui.NewBuffer(w.GetRect())

	w.Draw(buf)

	g, _ := newChartGeometry(w.Inner, c)
	for _, tick := range c.Ticks {
		row := rowText(buf, g.tickRow(tick.Value))
		if !strings.Contains(row, tick.Label) {
			t.Errorf("row %d = %q, want tick label %q", g.tickRow(tick.Value), row, tick.Label)
		}
	}
	dates := rowText(buf, g.plot.Max.Y)
	for _, p := range c.Points {
		if !strings.Contains(dates, p.Label) {
			t.Errorf("date row = %q, want %q", dates, p.Label)
		}
	}
	if !strings.Contains(rowText(buf, 0), "Daily high") {
		t.Errorf("title row = %q, want title", rowText(buf, 0))
	}
}

func TestToEvent(t *testing.T) {
	got := toEvent(ui.Event{Type: ui.KeyboardEvent, ID: "q"})
	if got.Kind != render.EventKeyPress || got.Key != "q" {
		t.Errorf("toEvent(keyboard q) = %+v", got)
	}
	got = toEvent(ui.Event{Type: ui.ResizeEvent, ID: "<Resize>"})
	if got.Kind != render.EventOther {
		t.Errorf("toEvent(resize) = %+v, want EventOther", got)
	}
}

func TestTerminal_Poll(t *testing.T) {
	events := make(chan ui.Event, 1)
	term := &Terminal{events: events}

	if _, ok := term.Poll(5 * time.Millisecond); ok {
		t.Error("Poll() ok = true with no event, want timeout")
	}

	events <- ui.Event{Type: ui.KeyboardEvent, ID: "q"}
	ev, ok := term.Poll(time.Second)
	if !ok || ev.Key != "q" || ev.Kind != render.EventKeyPress {
		t.Errorf("Poll() = %+v, %v; want key q", ev, ok)
	}

	close(events)
	if _, ok := term.Poll(5 * time.Millisecond); ok {
		t.Error("Poll() ok = true on closed channel")
	}
	start := time.Now()
	if _, ok := term.Poll(20 * time.Millisecond); ok {
		t.Error("Poll() ok = true after close")
	}
	if time.Since(start) < 15*time.Millisecond {
		t.Error("Poll() after close returned before its timeout")
	}
}
