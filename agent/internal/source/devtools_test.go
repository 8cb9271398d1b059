package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tabtamer/tabtamer/agent/internal/config"
)

const targetList = `[
  {"id":"A1","type":"page","title":"Inbox - Gmail","url":"https://mail.google.com/"},
  {"id":"B2","type":"service_worker","title":"Service Worker","url":"https://x/sw.js"},
  {"id":"C3","type":"page","title":"YouTube","url":"https://www.youtube.com/"},
  {"id":"D4","type":"background_page","title":"Some Extension","url":"chrome-extension://abc/bg.html"},
  {"id":"E5","type":"page","title":"","url":"about:blank"}
]`

func serveTargets(t *testing.T, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newSource(t *testing.T, src config.Source) Source {
	t.Helper()
	if src.Type == "" {
		src.Type = "devtools"
	}
	s, err := New(src)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestDevtools_Poll_PagesOnly(t *testing.T) {
	srv := serveTargets(t, targetList, nil)
	s := newSource(t, config.Source{Endpoint: srv.URL + "/json/list"})

	tabs, err := s.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	want := []string{"Inbox - Gmail", "YouTube", ""}
	if len(tabs) != len(want) {
		t.Fatalf("tabs: got %d, want %d (%+v)", len(tabs), len(want), tabs)
	}
	for i, w := range want {
		if tabs[i].Title != w {
			t.Errorf("tabs[%d].Title: got %q, want %q", i, tabs[i].Title, w)
		}
		if tabs[i].URL != "" {
			t.Errorf("tabs[%d].URL: got %q, want empty (include_urls off)", i, tabs[i].URL)
		}
	}
}

func TestDevtools_Poll_IncludeURLs(t *testing.T) {
	srv := serveTargets(t, targetList, nil)
	s := newSource(t, config.Source{Endpoint: srv.URL, IncludeURLs: true})

	tabs, err := s.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if tabs[0].URL != "https://mail.google.com/" {
		t.Errorf("URL: got %q", tabs[0].URL)
	}
}

func TestDevtools_Poll_EmptyBrowser(t *testing.T) {
	srv := serveTargets(t, `[]`, nil)
	tabs, err := newSource(t, config.Source{Endpoint: srv.URL}).Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if tabs == nil || len(tabs) != 0 {
		t.Errorf("tabs: got %#v, want empty non-nil", tabs)
	}
}

func TestDevtools_Poll_Errors(t *testing.T) {
	t.Run("bad json", func(t *testing.T) {
		srv := serveTargets(t, `{not json`, nil)
		_, err := newSource(t, config.Source{Endpoint: srv.URL}).Poll(context.Background())
		if err == nil || !strings.Contains(err.Error(), "decode") {
			t.Errorf("got %v, want decode error", err)
		}
	})

	t.Run("non-200", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()
		_, err := newSource(t, config.Source{Endpoint: srv.URL}).Poll(context.Background())
		if err == nil || !strings.Contains(err.Error(), "502") {
			t.Errorf("got %v, want status error", err)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		if _, err := newSource(t, config.Source{Endpoint: url}).Poll(context.Background()); err == nil {
			t.Error("expected error from closed server")
		}
	})
}

func TestDevtools_Auth(t *testing.T) {
	t.Setenv("SRC_KEY", "k")
	t.Setenv("SRC_TOKEN", "tok")
	t.Setenv("SRC_PASS", "pw")

	tests := []struct {
		name  string
		auth  config.AuthConfig
		check func(t *testing.T, r *http.Request)
	}{
		{
			name: "apikey default header",
			auth: config.AuthConfig{Mode: "apikey", KeyEnv: "SRC_KEY"},
			check: func(t *testing.T, r *http.Request) {
				if got := r.Header.Get("x-api-key"); got != "k" {
					t.Errorf("x-api-key: got %q", got)
				}
			},
		},
		{
			name: "apikey custom header",
			auth: config.AuthConfig{Mode: "apikey", Header: "X-Proxy-Key", KeyEnv: "SRC_KEY"},
			check: func(t *testing.T, r *http.Request) {
				if got := r.Header.Get("X-Proxy-Key"); got != "k" {
					t.Errorf("X-Proxy-Key: got %q", got)
				}
			},
		},
		{
			name: "bearer",
			auth: config.AuthConfig{Mode: "bearer", TokenEnv: "SRC_TOKEN"},
			check: func(t *testing.T, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer tok" {
					t.Errorf("Authorization: got %q", got)
				}
			},
		},
		{
			name: "basic",
			auth: config.AuthConfig{Mode: "basic", Username: "me", PasswordEnv: "SRC_PASS"},
			check: func(t *testing.T, r *http.Request) {
				u, p, ok := r.BasicAuth()
				if !ok || u != "me" || p != "pw" {
					t.Errorf("basic auth: got %q/%q ok=%v", u, p, ok)
				}
			},
		},
		{
			name: "none",
			auth: config.AuthConfig{Mode: "none"},
			check: func(t *testing.T, r *http.Request) {
				if r.Header.Get("Authorization") != "" {
					t.Error("unexpected Authorization header")
				}
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := serveTargets(t, `[]`, func(r *http.Request) { tc.check(t, r) })
			s := newSource(t, config.Source{Endpoint: srv.URL, Auth: tc.auth})
			if _, err := s.Poll(context.Background()); err != nil {
				t.Fatalf("Poll: %v", err)
			}
		})
	}
}

func TestNew_UnsupportedType(t *testing.T) {
	if _, err := New(config.Source{Type: "firefox"}); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}
