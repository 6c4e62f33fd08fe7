package observability

import (
	"errors"
	"sync"
	"time"

	"github.com/danmuck/handlectl/internal/search"
	"github.com/prometheus/client_golang/prometheus"
)

// Search modes used as the "mode" label.
const (
	ModeAll   = "all"
	ModeGUID  = "guid"
	ModeName  = "name"
	ModeIndex = "index"
)

var (
	registerOnce sync.Once
	registry     = prometheus.NewRegistry()

	searches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "handlectl",
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Total catalog searches by mode and outcome.",
		},
		[]string{"mode", "result"},
	)
	searchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "handlectl",
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Catalog search duration in seconds, snapshot included.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"mode"},
	)
	snapshotHandles = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "handlectl",
			Subsystem: "snapshot",
			Name:      "handles",
			Help:      "Handle count of the most recent snapshot.",
		},
	)
	snapshotPartial = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "handlectl",
			Subsystem: "snapshot",
			Name:      "partial_entries_total",
			Help:      "Handles whose protocol query failed during enumeration.",
		},
	)
	snapshotFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "handlectl",
			Subsystem: "snapshot",
			Name:      "failures_total",
			Help:      "Snapshots that could not be taken.",
		},
	)
	templateCommits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "handlectl",
			Subsystem: "template",
			Name:      "commits_total",
			Help:      "GUID template commit attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		registry.MustRegister(searches, searchDuration, snapshotHandles, snapshotPartial, snapshotFailures, templateCommits)
	})
}

// Registry exposes the tool's metric set.
func Registry() *prometheus.Registry {
	RegisterMetrics()
	return registry
}

// ResultLabel maps a search error to its "result" label value.
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return "match"
	case errors.Is(err, search.ErrUnknownName):
		return "unknown_name"
	case errors.Is(err, search.ErrNoMatches):
		return "no_match"
	case errors.Is(err, search.ErrOutOfRange):
		return "out_of_range"
	default:
		return "error"
	}
}

func RecordSearch(mode string, err error, duration time.Duration) {
	RegisterMetrics()
	searches.WithLabelValues(mode, ResultLabel(err)).Inc()
	searchDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

func RecordSnapshot(handles, partial int) {
	RegisterMetrics()
	snapshotHandles.Set(float64(handles))
	snapshotPartial.Add(float64(partial))
}

func RecordSnapshotFailure() {
	RegisterMetrics()
	snapshotFailures.Inc()
}

func RecordTemplateCommit(accepted bool) {
	RegisterMetrics()
	outcome := "accepted"
	if !accepted {
		outcome = "invalid"
	}
	templateCommits.WithLabelValues(outcome).Inc()
}

// WriteTextfile writes the metric set in the node_exporter textfile
// format. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, Registry())
}
