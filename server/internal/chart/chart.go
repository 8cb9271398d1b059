// Package chart renders the top-tabs bar chart shown on the dashboard.
package chart

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/tabtamer/tabtamer/server/internal/report"
)

const (
	Title  = "Top 10 Tabs Usage"
	XLabel = "Minutes Spent"

	// maxLabelRunes shortens axis labels; the table shows full titles.
	maxLabelRunes = 40
)

var barColor = color.RGBA{R: 0x5c, G: 0xb8, B: 0x5c, A: 0xff}

// Renderer draws horizontal bar charts at a fixed size.
type Renderer struct {
	width, height vg.Length
}

// New creates a Renderer for charts of the given size in inches.
func New(widthIn, heightIn float64) *Renderer {
	return &Renderer{
		width:  vg.Length(widthIn) * vg.Inch,
		height: vg.Length(heightIn) * vg.Inch,
	}
}

// PNG renders entries as a horizontal bar chart. The first entry ends up at
// the top of the chart, so entries are drawn in reverse order.
func (r *Renderer) PNG(entries []report.Entry) ([]byte, error) {
	p := plot.New()
	p.Title.Text = Title
	p.X.Label.Text = XLabel
	p.X.Min = 0

	if len(entries) > 0 {
		values := make(plotter.Values, len(entries))
		labels := make([]string, len(entries))
		for i, e := range entries {
			j := len(entries) - 1 - i
			values[j] = float64(e.Count)
			labels[j] = shorten(e.Title)
		}

		bars, err := plotter.NewBarChart(values, vg.Points(14))
		if err != nil {
			return nil, fmt.Errorf("chart: build bars: %w", err)
		}
		bars.Horizontal = true
		bars.Color = barColor
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.NominalY(labels...)
	}

	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return nil, fmt.Errorf("chart: create png writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("chart: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Base64 renders entries and returns the PNG as standard base64, ready for
// a data: URI.
func (r *Renderer) Base64(entries []report.Entry) (string, error) {
	png, err := r.PNG(entries)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

func shorten(title string) string {
	if title == "" {
		return "(untitled)"
	}
	rs := []rune(title)
	if len(rs) <= maxLabelRunes {
		return title
	}
	return string(rs[:maxLabelRunes-1]) + "…"
}
