package terminal

import (
	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/kjstillabower/weather-tui/internal/view"
)

// Layout converts a frame into widgets filling a width x height screen.
func Layout(f view.Frame, width, height int) []ui.Drawable {
	if width <= 0 || height <= 0 {
		return nil
	}
	if f.Chart != nil {
		c := newChartWidget(f.Chart)
		c.Title = f.Title
		c.SetRect(0, 0, width, height)
		return []ui.Drawable{c}
	}

	p := widgets.NewParagraph()
	p.Title = f.Title
	p.Text = f.Text
	if f.Placeholder {
		p.TextStyle = ui.NewStyle(ui.ColorYellow)
	}
	p.SetRect(0, 0, width, height)
	return []ui.Drawable{p}
}
