// Package source lists the browser tabs that are currently open.
//
// New(src) returns a Source for the configured type. The only type today is
// devtools: an HTTP GET against Chrome's remote-debugging target list
// (chrome --remote-debugging-port=9222 serves it at /json/list). Targets
// whose type is not "page" (service workers, extensions, iframes) are
// skipped.
//
// The HTTP client is built once per source and carries the configured auth
// (apikey, bearer, basic) and TLS settings on every request.
package source
