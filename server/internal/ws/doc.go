// Package ws implements the WebSocket hub for tabtamer-server.
//
// Hub manages a set of connected clients and pushes the current usage report
// to all of them on a configurable interval (default 5s).
//
// New(ledger, interval) creates a Hub.
// Hub.Run(ctx) starts the broadcast ticker and blocks until ctx is cancelled,
// then closes all active connections. Connections arriving after that are
// closed immediately with 1001 (going away).
// Hub.ServeHTTP upgrades an HTTP connection to WebSocket, sends the current
// report immediately on connect, then streams updates on each tick.
//
// Message format sent to clients:
//
//	{
//	  "event": "report",
//	  "data":  { /* same schema as GET /api/v1/report, without advice/chart */ }
//	}
//
// The upgrader accepts all origins. The endpoint is mounted at /ws/stream.
package ws
