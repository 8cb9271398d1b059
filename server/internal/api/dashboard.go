package api

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
)

const (
	noAdvice = "🤖 No AI coach configured."
	noMemory = "unavailable"
)

type dashboardRow struct {
	Rank      int
	Title     string
	Count     int
	Highlight bool
}

type dashboardData struct {
	Memory     string
	FocusScore int
	MoodAdvice string
	Advice     string
	ChartURI   template.URL
	Rows       []dashboardRow
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>TabTamer Dashboard</title>
  <style>
    body { font-family: 'Segoe UI', sans-serif; padding: 30px; background: #121212; color: #f1f1f1; }
    h2, h3 { color: #ffcc80; margin-bottom: 10px; }
    .header-title { font-size: 1.6em; font-weight: bold; color: #ff7043; margin-bottom: 12px; }
    .ai-box, .mood-box { background: #1e1e1e; padding: 20px; margin-bottom: 25px; white-space: pre-wrap; font-size: 1.1em; line-height: 1.8; box-shadow: 0 4px 12px rgba(0,0,0,0.3); }
    .ai-box { border-left: 5px solid #ff9800; }
    .mood-box { border-left: 5px solid #64ffda; }
    table { width: 100%; border-collapse: collapse; margin-top: 20px; background: #1f1f1f; box-shadow: 0 2px 8px rgba(0,0,0,0.2); margin-bottom: 40px; }
    th, td { border: 1px solid #333; padding: 12px 16px; text-align: left; }
    th { background-color: #424242; color: #fff; font-size: 1em; }
    tr.top { background-color: #2e7d32; color: #fff; }
    img { border-radius: 8px; margin-top: 15px; box-shadow: 0 2px 6px rgba(0,0,0,0.4); }
    .meta-info p { margin: 5px 0; }
  </style>
</head>
<body>
  <h2>📊 Real-Time Tab Usage Summary</h2>

  <div class="meta-info">
    <p><strong>🖥️ System Memory:</strong> {{.Memory}}</p>
    <p><strong>🧮 Focus Score:</strong> {{.FocusScore}}/100</p>
    <p><em>Focus Score = time spent on productive vs distracting tabs. Higher = better.</em></p>
  </div>

  <div class="mood-box"><strong>🧘 Mood Check:</strong> {{.MoodAdvice}}</div>

  <div class="ai-box">
    <div class="header-title">🤖 AI Scaling (a.k.a Judging You)</div>
    {{.Advice}}
  </div>

  <h3>📈 Top 10 Tabs (Histogram)</h3>
  {{if .ChartURI}}<img src="{{.ChartURI}}" alt="Top Tabs Histogram" width="100%"/>{{else}}<p><em>Chart unavailable.</em></p>{{end}}

  <h3>📋 All Tabs (Top 10 highlighted)</h3>
  <table>
    <tr><th>#</th><th>Tab Title</th><th>Observations</th></tr>
    {{- range .Rows}}
    <tr{{if .Highlight}} class="top"{{end}}><td>{{.Rank}}</td><td>{{.Title}}</td><td>{{.Count}}</td></tr>
    {{- end}}
  </table>
</body>
</html>
`))

// dashboard returns GET /realtime-summary: the full HTML report, including
// the chart and AI advice.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	v := h.build(r.Context(), true, true)

	data := dashboardData{
		Memory:     noMemory,
		FocusScore: v.core.FocusScore,
		MoodAdvice: v.core.Mood.Advice(),
		Advice:     v.advice,
	}
	if v.memOK {
		data.Memory = v.mem.String()
	}
	if data.Advice == "" {
		data.Advice = noAdvice
	}
	if v.chart != "" {
		data.ChartURI = template.URL("data:image/png;base64," + v.chart) //nolint:gosec // base64 PNG from our renderer
	}
	for _, row := range v.wire.Top {
		data.Rows = append(data.Rows, dashboardRow{Rank: row.Rank, Title: row.Title, Count: row.Count, Highlight: true})
	}
	for _, row := range v.wire.Overflow {
		data.Rows = append(data.Rows, dashboardRow{Rank: row.Rank, Title: row.Title, Count: row.Count})
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		slog.Error("api: render dashboard", "report_id", v.id, "err", err)
		jsonErr(w, http.StatusInternalServerError, "render failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck
}
