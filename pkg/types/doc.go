// Package types defines the wire types shared by the agent, the server and
// the tabreport CLI. They are the JSON shapes of the ingest and report
// endpoints.
package types
