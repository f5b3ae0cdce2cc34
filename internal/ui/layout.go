package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/energy-planner/internal/budget"
	"github.com/nhle/energy-planner/internal/theme"
)

// chromeRows is the header row plus the bottom bar.
const chromeRows = 2

// Frame splits the terminal into a header row, the active view and a
// bottom bar.
type Frame struct {
	Width  int
	Height int
}

// NewFrame returns a frame for a terminal of the given size.
func NewFrame(width, height int) Frame {
	return Frame{Width: width, Height: height}
}

// BodySize is the space left for the active view.
func (f Frame) BodySize() (width, height int) {
	return f.Width, max(f.Height-chromeRows, 0)
}

// EnergyGauge is the header's view of today's energy.
type EnergyGauge struct {
	Set     bool
	Spent   int
	Ceiling int
	Planned int
}

// Gauge builds the header gauge from a day summary.
func Gauge(s budget.DaySummary, set bool) EnergyGauge {
	return EnergyGauge{Set: set, Spent: s.Spent, Ceiling: s.Ceiling, Planned: s.Planned}
}

func (g EnergyGauge) String() string {
	if !g.Set {
		return "⚡ energy not set (e)"
	}
	s := fmt.Sprintf("⚡ %d/%d spent · %d planned", g.Spent, g.Ceiling, g.Planned)
	if g.Planned > g.Ceiling {
		s += " !"
	}
	return s
}

// Header renders title on the left and the gauge on the right. Once energy
// is set the gauge takes the usage color of the spent share.
func (f Frame) Header(title string, g EnergyGauge) string {
	gaugeStyle := theme.HeaderStyle
	if g.Set {
		pct := budget.Percent(g.Spent, g.Ceiling)
		gaugeStyle = gaugeStyle.Foreground(theme.UsageStyle(pct).GetForeground())
	}
	return spread(theme.HeaderStyle, f.Width,
		theme.HeaderStyle.Render(title),
		gaugeStyle.Render(g.String()))
}

// Footer renders the key hints, or errMsg in the error style while one is
// pending.
func (f Frame) Footer(hints, errMsg string) string {
	if errMsg != "" {
		return spread(theme.ErrorBarStyle, f.Width, theme.ErrorBarStyle.Render("✗ "+errMsg), "")
	}
	return spread(theme.StatusBarStyle, f.Width, theme.StatusBarStyle.Render(hints), "")
}

// Compose stacks the header, body and footer.
func (f Frame) Compose(header, body, footer string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// spread fills the gap between left and right with style's background so
// the bar spans the full width.
func spread(style lipgloss.Style, width int, left, right string) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")
	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}
