// Package ledger holds the process-wide tab usage counts. Every ingested tab
// record adds one observation to its title; snapshots are consistent copies
// ordered by the time each title was first seen.
package ledger
