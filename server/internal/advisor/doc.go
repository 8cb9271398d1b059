// Package advisor asks Gemini for coaching text about the current report.
//
// Advise never fails: a disabled advisor, a missing API key, a transport
// error, a non-2xx reply or a reply without candidate text all map to
// Placeholder. Generate exposes the underlying error for callers that care.
package advisor
