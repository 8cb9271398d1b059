// Package shipper sends batches of open tabs to tabtamer-server.
//
// Shipper.Ship() is non-blocking: batches are placed in an in-memory
// channel (default capacity 100). When the buffer is full the oldest batch
// is evicted so the freshest view of the browser is always kept.
//
// Shipper.Run() drains the buffer in order. A batch is retried only when
// the failure proves the server never applied it: a refused or failed dial,
// or a 429, 502, 503 or 504 answer. Retries use truncated exponential
// backoff (1s to 60s, ±25% jitter) while new batches keep queueing behind.
// Permanent errors (400, 401, 403) discard the batch, and so do ambiguous
// failures such as a timeout after the body was sent. /analyze adds to
// counters and is not idempotent, so a batch is never sent twice.
package shipper
