package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tabtamer/tabtamer/pkg/backoff"
	"github.com/tabtamer/tabtamer/server/internal/config"
	"github.com/tabtamer/tabtamer/server/internal/report"
)

// Placeholder is returned by Advise whenever no advice could be generated.
const Placeholder = "⚠️ The AI coach is unavailable right now. Your tabs are safe from judgement, for now."

const (
	// maxErrorBody caps how much of an error reply is kept for logging.
	maxErrorBody = 512

	retryInitial = 500 * time.Millisecond
	retryMax     = 8 * time.Second
)

// Client calls the Gemini REST API. It is safe for concurrent use and its
// settings can be swapped at runtime with Update.
type Client struct {
	mu   sync.RWMutex
	cfg  config.AdvisorConfig
	http *http.Client

	// Delay bounds between attempts.
	retryInitial, retryMax time.Duration
}

// New creates a Client from the advisor configuration.
func New(cfg config.AdvisorConfig) *Client {
	return &Client{
		cfg:          cfg,
		http:         &http.Client{},
		retryInitial: retryInitial,
		retryMax:     retryMax,
	}
}

// Update replaces the client's settings; in-flight calls keep the old ones.
func (c *Client) Update(cfg config.AdvisorConfig) {
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
}

func (c *Client) settings() config.AdvisorConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

// Advise returns coaching text for r, or Placeholder on any failure.
func (c *Client) Advise(ctx context.Context, r report.Report) string {
	text, err := c.Generate(ctx, BuildPrompt(r))
	if err != nil {
		if errors.Is(err, ErrDisabled) || errors.Is(err, ErrNoAPIKey) {
			slog.Debug("advisor: skipped", "reason", err)
		} else {
			slog.Warn("advisor: generation failed, using placeholder", "err", err)
		}
		return Placeholder
	}
	return text
}

// Generate sends prompt to the configured model and returns the first
// candidate's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	cfg := c.settings()
	if !cfg.Enabled {
		return "", ErrDisabled
	}
	key := cfg.APIKey()
	if key == "" {
		return "", ErrNoAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("advisor: marshal request: %w", err)
	}
	url := strings.TrimRight(cfg.Endpoint, "/") + "/v1/models/" + cfg.Model + ":generateContent"

	bo := backoff.New(c.retryInitial, c.retryMax)
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := bo.Next()
			var se *statusError
			if errors.As(lastErr, &se) && se.RetryAfter > wait {
				wait = se.RetryAfter
			}
			slog.Debug("advisor: attempt failed", "attempt", attempt, "err", lastErr, "retry_in", wait)
			if backoff.Sleep(ctx, wait) != nil {
				break
			}
		}

		text, err := c.post(ctx, url, key, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}
	return "", lastErr
}

func (c *Client) post(ctx context.Context, url, key string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("advisor: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", key)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("advisor: http post: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("advisor: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		return "", &statusError{
			Code:       resp.StatusCode,
			Body:       string(raw),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	}
	return parseResponse(raw)
}

func parseResponse(raw []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrUnexpectedResponse, resp.Error.Message)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrUnexpectedResponse
	}
	text := resp.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty text", ErrUnexpectedResponse)
	}
	return text, nil
}
