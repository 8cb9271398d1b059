// Package render prints a TabTamer report to a terminal.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/tabtamer/tabtamer/pkg/types"
)

// Printer writes reports to w.
type Printer struct {
	w io.Writer
	s styles
}

// New returns a Printer. color enables ANSI styling; pass false when w is
// not a terminal.
func New(w io.Writer, color bool) *Printer {
	s := plainStyles()
	if color {
		s = colorStyles()
	}
	return &Printer{w: w, s: s}
}

// Report prints the summary block, the ranked table and, when present, the
// advisor text.
func (p *Printer) Report(r types.Report) error {
	var b strings.Builder

	b.WriteString(p.heading("Tab Usage Summary"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s %s\n", p.s.bold.Render("Focus score:"), p.score(r.FocusScore))
	fmt.Fprintf(&b, "%s %s  %s\n", p.s.bold.Render("Mood:"),
		p.s.mood(r.Mood).Render("● "+strings.ToUpper(sanitize(r.Mood, false))),
		p.s.dim.Render(sanitize(r.MoodAdvice, false)))
	fmt.Fprintf(&b, "%s %s work, %s fun, %s total\n", p.s.bold.Render("Time:"),
		p.s.good.Render(humanize.Comma(int64(r.WorkTime))),
		p.s.bad.Render(humanize.Comma(int64(r.FunTime))),
		humanize.Comma(int64(r.TotalTime)))
	if r.Memory != nil {
		fmt.Fprintf(&b, "%s %s used out of %s\n", p.s.bold.Render("Memory:"),
			sanitize(r.Memory.UsedText, false), sanitize(r.Memory.TotalText, false))
	}
	b.WriteString("\n")

	if len(r.Top) == 0 && len(r.Overflow) == 0 {
		b.WriteString(p.s.dim.Render("No tabs observed yet."))
		b.WriteString("\n")
	} else {
		b.WriteString(p.table(r))
	}

	if r.Advice != "" {
		b.WriteString("\n")
		b.WriteString(p.heading("Advice"))
		b.WriteString("\n")
		b.WriteString(sanitize(r.Advice, true))
		b.WriteString("\n")
	}

	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p *Printer) heading(text string) string {
	upper := strings.ToUpper(text)
	return p.s.header.Render(upper) + "\n" + p.s.dim.Render(strings.Repeat("─", lipgloss.Width(upper)))
}

func (p *Printer) score(v int) string {
	text := fmt.Sprintf("%d/100", v)
	switch {
	case v >= 70:
		return p.s.good.Render(text)
	case v >= 40:
		return p.s.warn.Render(text)
	default:
		return p.s.bad.Render(text)
	}
}

// table renders the ranked list as aligned columns. Top-N rows are
// highlighted.
func (p *Printer) table(r types.Report) string {
	headers := []string{"Rank", "Tab Title", "Observations"}
	var rows [][]string
	var highlight []bool
	for _, set := range []struct {
		usage []types.TabUsage
		top   bool
	}{{r.Top, true}, {r.Overflow, false}} {
		for _, u := range set.usage {
			title := sanitize(u.Title, false)
			if title == "" {
				title = "(untitled)"
			}
			rows = append(rows, []string{strconv.Itoa(u.Rank), title, humanize.Comma(int64(u.Count))})
			highlight = append(highlight, set.top)
		}
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	const colGap = 2
	line := func(cells []string, style lipgloss.Style) string {
		var b strings.Builder
		for i, c := range cells {
			b.WriteString(style.Render(c))
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(c)+colGap))
			}
		}
		return b.String() + "\n"
	}

	var b strings.Builder
	b.WriteString(line(headers, p.s.header))
	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("─", w)
	}
	b.WriteString(line(seps, p.s.dim))
	for i, row := range rows {
		style := lipgloss.NewStyle()
		if highlight[i] {
			style = p.s.top
		}
		b.WriteString(line(row, style))
	}
	return b.String()
}

// sanitize removes escape sequences and control characters from text that
// came from web pages or a remote API. keepNewlines preserves line breaks
// for multi-line text.
func sanitize(s string, keepNewlines bool) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' && keepNewlines {
			return r
		}
		if r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
