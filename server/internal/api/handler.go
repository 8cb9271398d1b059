package api

import (
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

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/tabtamer/tabtamer/pkg/types"
	"github.com/tabtamer/tabtamer/server/internal/ledger"
	"github.com/tabtamer/tabtamer/server/internal/report"
	"github.com/tabtamer/tabtamer/server/internal/sysmem"
)

// maxIngestBytes caps the decompressed size of one ingest body.
const maxIngestBytes = 4 << 20

// Banner is the body of GET /.
const Banner = "🎉 TabTamer backend is running!"

// Charter renders the top entries as a base64 PNG.
type Charter interface {
	Base64(entries []report.Entry) (string, error)
}

// Advisor produces coaching text for a report. It must not fail; failures
// are reported as placeholder text.
type Advisor interface {
	Advise(ctx context.Context, r report.Report) string
}

// MemoryReader supplies host memory usage.
type MemoryReader interface {
	Read(ctx context.Context) (sysmem.Stats, error)
}

// Options wires optional collaborators into the Handler.
type Options struct {
	Chart   Charter
	Advisor Advisor
	Memory  MemoryReader

	// WriteGuard wraps the POST routes, typically with auth.APIKey.
	WriteGuard func(http.Handler) http.Handler
}

// Handler serves the dashboard and all API routes from one ledger.
type Handler struct {
	ledger *ledger.Ledger
	opts   Options
	mux    *http.ServeMux
	now    func() time.Time
}

// New creates a Handler wired to the given ledger and registers all routes.
func New(lg *ledger.Ledger, opts Options) http.Handler {
	h := &Handler{ledger: lg, opts: opts, mux: http.NewServeMux(), now: time.Now}

	guard := opts.WriteGuard
	if guard == nil {
		guard = func(next http.Handler) http.Handler { return next }
	}

	h.mux.HandleFunc("/", h.home)
	h.mux.Handle("/analyze", guard(http.HandlerFunc(h.analyze)))
	h.mux.HandleFunc("/realtime-summary", h.dashboard)
	h.mux.HandleFunc("/api/v1/report", h.report)
	h.mux.HandleFunc("/api/v1/tabs", h.tabs)
	h.mux.Handle("/api/v1/reset", guard(http.HandlerFunc(h.reset)))
	h.mux.HandleFunc("/metrics", h.metrics)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// BuildReport snapshots lg and returns the core report fields in wire form.
// It does not call any collaborator.
func BuildReport(lg *ledger.Ledger) types.Report {
	return toWire(uuid.NewString(), report.Build(lg.Snapshot()), time.Now())
}

// --- route handlers ---------------------------------------------------------

// home returns GET /: a plain-text liveness banner.
func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		jsonErr(w, http.StatusNotFound, "not found")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, Banner) //nolint:errcheck
}

// analyze handles POST /analyze: one ingest batch.
func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body io.Reader = r.Body
	if strings.EqualFold(r.Header.Get("Content-Encoding"), "gzip") {
		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			jsonErr(w, http.StatusBadRequest, "invalid gzip body")
			return
		}
		defer zr.Close()
		body = zr
	}

	var req types.AnalyzeRequest
	dec := json.NewDecoder(io.LimitReader(body, maxIngestBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		jsonErr(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	n := h.ledger.Ingest(req.Tabs)
	slog.Debug("api: tabs ingested", "accepted", n, "titles", h.ledger.Len())
	jsonResp(w, http.StatusOK, types.AnalyzeResponse{Status: "ok", Accepted: n})
}

// report returns GET /api/v1/report: the current report as JSON.
func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	v := h.build(r.Context(), q.Get("advice") == "1", q.Get("chart") == "1")
	out := v.wire
	out.Advice = v.advice
	out.ChartPNG = v.chart
	if v.memOK {
		out.Memory = v.mem.Wire()
	}
	jsonResp(w, http.StatusOK, out)
}

// tabs returns GET /api/v1/tabs: the full ranking.
func (h *Handler) tabs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ranked := report.Rank(h.ledger.Snapshot())
	jsonResp(w, http.StatusOK, toUsage(ranked, 1))
}

// reset handles POST /api/v1/reset: clears every count.
func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	n := h.ledger.Reset()
	slog.Info("api: ledger reset", "titles_dropped", n)
	jsonResp(w, http.StatusOK, ResetResponse{Status: "ok", TitlesDropped: n})
}

// --- report assembly --------------------------------------------------------

// view is one report plus whatever the collaborators contributed.
type view struct {
	id     string
	core   report.Report
	wire   types.Report
	advice string
	chart  string // base64 PNG, empty if not rendered
	mem    sysmem.Stats
	memOK  bool
}

// build snapshots the ledger, derives the report and runs the requested
// collaborators concurrently. Collaborator failures are logged and leave
// their part empty.
func (h *Handler) build(ctx context.Context, withAdvice, withChart bool) view {
	id := uuid.NewString()
	core := report.Build(h.ledger.Snapshot())
	v := view{id: id, core: core, wire: toWire(id, core, h.now())}

	var wg sync.WaitGroup
	if withAdvice && h.opts.Advisor != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.advice = h.opts.Advisor.Advise(ctx, core)
		}()
	}
	if withChart && h.opts.Chart != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := h.opts.Chart.Base64(core.Top)
			if err != nil {
				slog.Error("api: chart render failed", "report_id", id, "err", err)
				return
			}
			v.chart = img
		}()
	}
	if h.opts.Memory != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := h.opts.Memory.Read(ctx)
			if err != nil {
				slog.Warn("api: memory stats unavailable", "report_id", id, "err", err)
				return
			}
			v.mem, v.memOK = m, true
		}()
	}
	wg.Wait()

	slog.Debug("api: report built",
		"report_id", id,
		"titles", len(core.Ranked),
		"focus_score", core.FocusScore,
		"mood", core.Mood,
	)
	return v
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
