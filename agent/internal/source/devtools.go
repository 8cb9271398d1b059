package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tabtamer/tabtamer/agent/internal/config"
	"github.com/tabtamer/tabtamer/pkg/types"
)

// target is one entry of the DevTools /json/list response. Only the fields
// the agent reads are decoded.
type target struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type devtools struct {
	src    config.Source
	client *http.Client
}

// Poll fetches the target list and returns one Tab per open page.
// An empty browser yields an empty, non-nil slice.
func (d *devtools) Poll(ctx context.Context) ([]types.Tab, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.src.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("devtools: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("devtools: http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("devtools: unexpected status %d", resp.StatusCode)
	}

	var targets []target
	if err := json.NewDecoder(resp.Body).Decode(&targets); err != nil {
		return nil, fmt.Errorf("devtools: decode target list: %w", err)
	}
	return toTabs(targets, d.src.IncludeURLs), nil
}

func toTabs(targets []target, includeURLs bool) []types.Tab {
	tabs := make([]types.Tab, 0, len(targets))
	for _, t := range targets {
		if t.Type != "page" {
			continue
		}
		tab := types.Tab{Title: t.Title}
		if includeURLs {
			tab.URL = t.URL
		}
		tabs = append(tabs, tab)
	}
	return tabs
}
