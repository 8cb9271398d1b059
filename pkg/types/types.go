package types

// Tab is one observed browser tab. A record without a title decodes to the
// empty title, which is tracked like any other.
type Tab struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Tabs []Tab `json:"tabs"`
}

// AnalyzeResponse acknowledges an ingest batch.
type AnalyzeResponse struct {
	Status   string `json:"status"`
	Accepted int    `json:"accepted"`
}

// TabUsage is one ranked title with its observation count.
type TabUsage struct {
	Rank  int    `json:"rank"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// Memory is the host memory line shown next to a report.
type Memory struct {
	Used      uint64 `json:"used_bytes"`
	Total     uint64 `json:"total_bytes"`
	UsedText  string `json:"used"`
	TotalText string `json:"total"`
}

// Report is the payload of GET /api/v1/report and of WebSocket pushes.
type Report struct {
	ReportID    string     `json:"report_id"`
	GeneratedAt string     `json:"generated_at"` // RFC3339
	Top         []TabUsage `json:"top"`
	Overflow    []TabUsage `json:"overflow"`
	WorkTime    int        `json:"work_time"`
	FunTime     int        `json:"fun_time"`
	TotalTime   int        `json:"total_time"`
	FocusScore  int        `json:"focus_score"`
	Mood        string     `json:"mood"`
	MoodAdvice  string     `json:"mood_advice"`
	Memory      *Memory    `json:"memory,omitempty"`
	Advice      string     `json:"advice,omitempty"`
	ChartPNG    string     `json:"chart_png,omitempty"` // base64
}
