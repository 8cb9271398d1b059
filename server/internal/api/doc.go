// Package api implements the HTTP surface of tabtamer-server.
//
// New(ledger, opts) returns an http.Handler that serves:
//
//	GET  /                   plain-text banner
//	POST /analyze            ingest {"tabs":[{"title":..}]}; gzip bodies accepted
//	GET  /realtime-summary   HTML dashboard (memory, score, mood, AI text, chart, table)
//	GET  /api/v1/report      report JSON; ?advice=1 and ?chart=1 add the slow parts
//	GET  /api/v1/tabs        full ranking
//	POST /api/v1/reset       clear the ledger
//	GET  /metrics            Prometheus text exposition
//
// POST routes go through Options.WriteGuard when set. Wrong methods get 405,
// errors are JSON {"error": msg}. Collaborators (chart, advisor, memory) are
// optional; a missing or failing one degrades its section of the output and
// never fails the request.
package api
