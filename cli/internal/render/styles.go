package render

import "github.com/charmbracelet/lipgloss"

// Palette matches the dashboard: green for work, red for fun.
var (
	colorGreen  = lipgloss.Color("#5cb85c")
	colorYellow = lipgloss.Color("#f0ad4e")
	colorRed    = lipgloss.Color("#d9534f")
	colorBlue   = lipgloss.Color("#5bc0de")
	colorDim    = lipgloss.Color("#888888")
	colorHeader = lipgloss.Color("#007bff")
)

// styles holds every style the printer uses. The plain set renders text
// unchanged and is used when output is not a terminal.
type styles struct {
	header lipgloss.Style
	dim    lipgloss.Style
	bold   lipgloss.Style
	top    lipgloss.Style
	good   lipgloss.Style
	warn   lipgloss.Style
	bad    lipgloss.Style
	info   lipgloss.Style
}

func colorStyles() styles {
	return styles{
		header: lipgloss.NewStyle().Foreground(colorHeader).Bold(true),
		dim:    lipgloss.NewStyle().Foreground(colorDim),
		bold:   lipgloss.NewStyle().Bold(true),
		top:    lipgloss.NewStyle().Foreground(colorYellow),
		good:   lipgloss.NewStyle().Foreground(colorGreen),
		warn:   lipgloss.NewStyle().Foreground(colorYellow),
		bad:    lipgloss.NewStyle().Foreground(colorRed),
		info:   lipgloss.NewStyle().Foreground(colorBlue),
	}
}

func plainStyles() styles {
	p := lipgloss.NewStyle()
	return styles{header: p, dim: p, bold: p, top: p, good: p, warn: p, bad: p, info: p}
}

// mood picks the style for a mood name.
func (s styles) mood(name string) lipgloss.Style {
	switch name {
	case "energized":
		return s.good
	case "distracted":
		return s.bad
	case "steady":
		return s.warn
	case "idle":
		return s.dim
	default:
		return s.info
	}
}
