// Package auth provides the API key middleware that guards the server's
// write routes (tab ingest and ledger reset).
//
// APIKey(mode, header, key) returns a middleware that:
//   - passes every request through when mode != "apikey"
//   - rejects every request when mode is "apikey" but the key is empty
//   - otherwise rejects requests whose header value is missing or wrong
//
// Rejections are 401 with a JSON error body.
//
// Read-only routes (dashboard, report, metrics, WebSocket) are never wrapped.
package auth
