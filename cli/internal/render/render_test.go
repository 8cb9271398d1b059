package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tabtamer/tabtamer/pkg/types"
)

func sampleReport() types.Report {
	return types.Report{
		Top: []types.TabUsage{
			{Rank: 1, Title: "GitHub - pull requests", Count: 1200},
			{Rank: 2, Title: "", Count: 3},
		},
		Overflow:   []types.TabUsage{{Rank: 11, Title: "Reddit", Count: 1}},
		WorkTime:   1200,
		FunTime:    1,
		TotalTime:  1204,
		FocusScore: 99,
		Mood:       "energized",
		MoodAdvice: "🔥 You're crushing it! Keep that momentum going!",
		Memory:     &types.Memory{UsedText: "3.0 GiB", TotalText: "8.0 GiB"},
		Advice:     "Close Reddit.",
	}
}

func render(t *testing.T, r types.Report) string {
	t.Helper()
	var buf bytes.Buffer
	if err := New(&buf, false).Report(r); err != nil {
		t.Fatalf("Report: %v", err)
	}
	return buf.String()
}

func TestReport_Plain(t *testing.T) {
	out := render(t, sampleReport())

	for _, want := range []string{
		"TAB USAGE SUMMARY",
		"Focus score: 99/100",
		"Mood: ● ENERGIZED",
		"crushing it",
		"Time: 1,200 work, 1 fun, 1,204 total",
		"Memory: 3.0 GiB used out of 8.0 GiB",
		"Rank  Tab Title",
		"(untitled)",
		"Reddit",
		"ADVICE",
		"Close Reddit.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("plain output contains ANSI escapes")
	}
}

func TestReport_RowsInRankOrder(t *testing.T) {
	out := render(t, sampleReport())
	gh := strings.Index(out, "GitHub")
	un := strings.Index(out, "(untitled)")
	rd := strings.Index(out, "Reddit")
	if !(gh < un && un < rd) {
		t.Errorf("rows out of order: github=%d untitled=%d reddit=%d", gh, un, rd)
	}
}

func TestReport_ColumnsAligned(t *testing.T) {
	out := render(t, sampleReport())
	col := -1
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "GitHub") && !strings.Contains(line, "Reddit") {
			continue
		}
		i := strings.Index(line, "1,200")
		if i < 0 {
			i = strings.LastIndex(line, "1")
		}
		if col == -1 {
			col = i
		} else if i != col {
			t.Errorf("count column misaligned: %d vs %d\n%s", i, col, out)
		}
	}
}

func TestReport_Empty(t *testing.T) {
	out := render(t, types.Report{Mood: "idle", MoodAdvice: "😴 No activity yet."})
	if !strings.Contains(out, "No tabs observed yet.") {
		t.Errorf("empty report missing placeholder:\n%s", out)
	}
	if strings.Contains(out, "ADVICE") || strings.Contains(out, "Memory:") {
		t.Errorf("empty report shows optional sections:\n%s", out)
	}
	if !strings.Contains(out, "Focus score: 0/100") {
		t.Errorf("missing zero score:\n%s", out)
	}
}

func TestMoodStyle_AllNamesHandled(t *testing.T) {
	s := colorStyles()
	for _, m := range []string{"energized", "distracted", "steady", "idle", "neutral", ""} {
		// Each mood must render its text intact regardless of profile.
		if got := s.mood(m).Render("x"); !strings.Contains(got, "x") {
			t.Errorf("mood %q: rendered %q", m, got)
		}
	}
}

func TestReport_StripsControlSequences(t *testing.T) {
	r := sampleReport()
	r.Top[0].Title = "Evil\x1b]0;pwned\x07\x1b[2J\x1b[31mTitle\rX\x08"
	r.Advice = "line one\x1b[1A\nline\x1b[?25ltwo"

	out := render(t, r)
	if strings.ContainsAny(out, "\x1b\x07\r\x08") {
		t.Errorf("output still contains control characters: %q", out)
	}
	if !strings.Contains(out, "EvilTitleX") {
		t.Errorf("title text lost:\n%s", out)
	}
	if !strings.Contains(out, "line one\nlinetwo") {
		t.Errorf("advice newline not preserved:\n%s", out)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in           string
		keepNewlines bool
		want         string
	}{
		{"plain", false, "plain"},
		{"\x1b[31mred\x1b[0m", false, "red"},
		{"a\nb", false, "ab"},
		{"a\nb", true, "a\nb"},
		{"a\tb", false, "a b"},
		{"bell\x07", false, "bell"},
		{"emoji 🔥 stays", false, "emoji 🔥 stays"},
	}
	for _, tc := range tests {
		if got := sanitize(tc.in, tc.keepNewlines); got != tc.want {
			t.Errorf("sanitize(%q, %v): got %q, want %q", tc.in, tc.keepNewlines, got, tc.want)
		}
	}
}
