// Package client is a small Go client for the TabTamer server's HTTP API.
//
// The agent uses it to ship tab batches; the tabreport CLI uses it to fetch
// reports. Request bodies can be gzip-compressed; the server accepts both.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/tabtamer/tabtamer/pkg/types"
)

const defaultTimeout = 10 * time.Second

// ErrUnauthorized is returned when the server rejects the API key.
var ErrUnauthorized = errors.New("client: unauthorized")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("client: unexpected status %d: %s", e.Code, e.Body)
}

// Unwrap lets errors.Is match ErrUnauthorized on 401 responses.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// IsPermanent reports whether retrying the same request cannot succeed.
// Bad requests and auth failures are permanent; everything else, including
// transport errors, is treated as transient.
func IsPermanent(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return false
}

// NotDelivered reports whether err proves the server never applied the
// request: the connection could not be established, or the server answered
// 429, 502, 503 or 504. Timeouts and resets after the request was sent are
// ambiguous and report false.
func NotDelivered(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusTooManyRequests, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	var op *net.OpError
	if errors.As(err, &op) && op.Op == "dial" {
		return true
	}
	var dns *net.DNSError
	return errors.As(err, &dns)
}

// Options configures a Client.
type Options struct {
	// Header and Key are sent on every request when Key is non-empty.
	Header string
	Key    string

	// Compress gzips request bodies.
	Compress bool

	// HTTPClient overrides the default client (10s timeout).
	HTTPClient *http.Client
}

// Client talks to one TabTamer server.
type Client struct {
	base string
	opts Options
	http *http.Client
}

// New returns a Client for the server at baseURL, e.g. "http://localhost:5000".
func New(baseURL string, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	if opts.Header == "" {
		opts.Header = "x-api-key"
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), opts: opts, http: hc}
}

// Analyze posts one batch of open tabs to /analyze.
func (c *Client) Analyze(ctx context.Context, tabs []types.Tab) error {
	if tabs == nil {
		tabs = []types.Tab{}
	}
	raw, err := json.Marshal(types.AnalyzeRequest{Tabs: tabs})
	if err != nil {
		return fmt.Errorf("client: encode request: %w", err)
	}

	body := raw
	if c.opts.Compress {
		if body, err = gzipBytes(raw); err != nil {
			return fmt.Errorf("client: compress request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/analyze", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.opts.Compress {
		req.Header.Set("Content-Encoding", "gzip")
	}

	var out types.AnalyzeResponse
	return c.do(req, &out)
}

// Report fetches the current report. withAdvice and withChart ask the server
// to include the advisor text and the chart image.
func (c *Client) Report(ctx context.Context, withAdvice, withChart bool) (types.Report, error) {
	url := c.base + "/api/v1/report"
	var q []string
	if withAdvice {
		q = append(q, "advice=1")
	}
	if withChart {
		q = append(q, "chart=1")
	}
	if len(q) > 0 {
		url += "?" + strings.Join(q, "&")
	}

	var out types.Report
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return out, fmt.Errorf("client: build request: %w", err)
	}
	err = c.do(req, &out)
	return out, err
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	if c.opts.Key != "" {
		req.Header.Set(c.opts.Header, c.opts.Key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

func gzipBytes(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
