// Package report derives the usage summary from a ledger snapshot.
//
// Build runs the full pipeline: Rank (stable, count descending) → Partition
// (top 10 / overflow) → ClassifyTime (work vs fun keywords over the full
// ranking) → FocusScore (integer percentage of work time) → MoodFor.
//
// Every function here is pure; callers hand in a snapshot and get a fresh
// Report back. Mood rules are ordered and overlap, so the first match wins:
//
//	score ≥ 80 and total < 45  → energized
//	score < 40 and total > 60  → distracted
//	50 ≤ score ≤ 70            → steady
//	score == 0                 → idle
//	otherwise                  → neutral
package report
