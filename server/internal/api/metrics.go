package api

import (
	"bytes"
	"log/slog"
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/tabtamer/tabtamer/server/internal/ledger"
	"github.com/tabtamer/tabtamer/server/internal/report"
)

// Exported metric names.
const (
	metricObservations = "tabtamer_tab_observations_total"
	metricTitles       = "tabtamer_tracked_titles"
	metricBatches      = "tabtamer_ingest_batches_total"
	metricWorkTime     = "tabtamer_work_time"
	metricFunTime      = "tabtamer_fun_time"
	metricFocusScore   = "tabtamer_focus_score"
)

// metrics returns GET /metrics: the ledger in Prometheus text format.
func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var buf bytes.Buffer
	for _, mf := range metricFamilies(h.ledger.Snapshot(), h.ledger.Batches()) {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			slog.Error("api: encode metrics", "family", mf.GetName(), "err", err)
			jsonErr(w, http.StatusInternalServerError, "encode metrics failed")
			return
		}
	}
	w.Header().Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck
}

// metricFamilies converts a snapshot into Prometheus metric families.
func metricFamilies(snap ledger.Snapshot, batches int64) []*dto.MetricFamily {
	r := report.Build(snap)

	obs := &dto.MetricFamily{
		Name: proto.String(metricObservations),
		Help: proto.String("Tab observations ingested per title."),
		Type: dto.MetricType_COUNTER.Enum(),
	}
	for _, e := range snap.Entries {
		obs.Metric = append(obs.Metric, &dto.Metric{
			Label:   []*dto.LabelPair{{Name: proto.String("title"), Value: proto.String(e.Title)}},
			Counter: &dto.Counter{Value: proto.Float64(float64(e.Count))},
		})
	}

	families := []*dto.MetricFamily{
		gauge(metricTitles, "Distinct tab titles in the ledger.", float64(len(snap.Entries))),
		{
			Name:   proto.String(metricBatches),
			Help:   proto.String("Non-empty ingest batches since the last reset."),
			Type:   dto.MetricType_COUNTER.Enum(),
			Metric: []*dto.Metric{{Counter: &dto.Counter{Value: proto.Float64(float64(batches))}}},
		},
		gauge(metricWorkTime, "Observations of work tabs.", float64(r.WorkTime)),
		gauge(metricFunTime, "Observations of fun tabs.", float64(r.FunTime)),
		gauge(metricFocusScore, "Work share of classified observations, 0-100.", float64(r.FocusScore)),
	}
	// A family with no samples is invalid in the text format.
	if len(obs.Metric) > 0 {
		families = append([]*dto.MetricFamily{obs}, families...)
	}
	return families
}

func gauge(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{Gauge: &dto.Gauge{Value: proto.Float64(v)}}},
	}
}
