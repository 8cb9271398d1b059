package api

import (
	"time"

	"github.com/tabtamer/tabtamer/pkg/types"
	"github.com/tabtamer/tabtamer/server/internal/report"
)

// ResetResponse is the payload for POST /api/v1/reset.
type ResetResponse struct {
	Status        string `json:"status"`
	TitlesDropped int    `json:"titles_dropped"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// toUsage numbers entries starting at first.
func toUsage(entries []report.Entry, first int) []types.TabUsage {
	out := make([]types.TabUsage, len(entries))
	for i, e := range entries {
		out[i] = types.TabUsage{Rank: first + i, Title: e.Title, Count: e.Count}
	}
	return out
}

// toWire maps a derived report to its JSON representation.
func toWire(id string, r report.Report, at time.Time) types.Report {
	return types.Report{
		ReportID:    id,
		GeneratedAt: at.UTC().Format(time.RFC3339),
		Top:         toUsage(r.Top, 1),
		Overflow:    toUsage(r.Overflow, len(r.Top)+1),
		WorkTime:    r.WorkTime,
		FunTime:     r.FunTime,
		TotalTime:   r.TotalTime,
		FocusScore:  r.FocusScore,
		Mood:        string(r.Mood),
		MoodAdvice:  r.Mood.Advice(),
	}
}
