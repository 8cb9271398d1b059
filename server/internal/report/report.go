package report

import (
	"sort"
	"strings"

	"github.com/tabtamer/tabtamer/server/internal/ledger"
)

// TopN is the size of the highlighted prefix of the ranking.
const TopN = 10

// Keyword sets used to classify titles. Matching is a case-sensitive
// substring test and work keywords win over fun keywords.
var (
	WorkKeywords = []string{"Drive", "Docs", "Colab", "Resume", "Leetcode"}
	FunKeywords  = []string{"YouTube", "Netflix", "Reddit", "Instagram"}
)

// Entry is one ranked title.
type Entry struct {
	Title string
	Count int
}

// Report is the derived summary of one snapshot.
type Report struct {
	Ranked   []Entry
	Top      []Entry
	Overflow []Entry

	WorkTime   int
	FunTime    int
	TotalTime  int
	FocusScore int
	Mood       Mood
}

// Build derives a Report from snap.
func Build(snap ledger.Snapshot) Report {
	ranked := Rank(snap)
	top, overflow := Partition(ranked)
	work, fun := ClassifyTime(ranked)
	score := FocusScore(work, fun)
	return Report{
		Ranked:     ranked,
		Top:        top,
		Overflow:   overflow,
		WorkTime:   work,
		FunTime:    fun,
		TotalTime:  work + fun,
		FocusScore: score,
		Mood:       MoodFor(score, work+fun),
	}
}

// Rank orders the snapshot by count, highest first. Ties keep the
// snapshot's first-seen order.
func Rank(snap ledger.Snapshot) []Entry {
	out := make([]Entry, len(snap.Entries))
	for i, e := range snap.Entries {
		out[i] = Entry{Title: e.Title, Count: e.Count}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Partition splits ranked into the first TopN entries and the rest.
// Both results are fresh slices.
func Partition(ranked []Entry) (top, overflow []Entry) {
	n := TopN
	if len(ranked) < n {
		n = len(ranked)
	}
	top = append(make([]Entry, 0, n), ranked[:n]...)
	overflow = append(make([]Entry, 0, len(ranked)-n), ranked[n:]...)
	return top, overflow
}

// ClassifyTime sums counts of work titles and fun titles. A title matching
// both keyword sets counts as work only; one matching neither is ignored.
func ClassifyTime(ranked []Entry) (work, fun int) {
	for _, e := range ranked {
		switch {
		case containsAny(e.Title, WorkKeywords):
			work += e.Count
		case containsAny(e.Title, FunKeywords):
			fun += e.Count
		}
	}
	return work, fun
}

// FocusScore returns the truncated percentage of classified time spent on
// work. It is 0 when nothing was classified.
func FocusScore(work, fun int) int {
	total := work + fun
	if total <= 0 {
		return 0
	}
	return 100 * work / total
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
