package ingest

import "github.com/prometheus/client_golang/prometheus"

var (
	linesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatstats",
		Subsystem: "ingest",
		Name:      "lines_total",
		Help:      "Total number of complete log lines consumed.",
	}, []string{"stream"})
	parseErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatstats",
		Subsystem: "ingest",
		Name:      "parse_errors_total",
		Help:      "Total number of log lines skipped because they could not be decoded.",
	}, []string{"stream"})
	eventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatstats",
		Subsystem: "ingest",
		Name:      "events_total",
		Help:      "Total number of normalized events applied, by kind.",
	}, []string{"stream", "kind"}) // "message" or "reply"
	commitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatstats",
		Subsystem: "ingest",
		Name:      "commits_total",
		Help:      "Total number of committed batches.",
	}, []string{"stream"})
	abortsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatstats",
		Subsystem: "ingest",
		Name:      "aborts_total",
		Help:      "Total number of replay runs rolled back to their last commit.",
	}, []string{"stream"})
	checkpointOffset = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "chatstats",
		Subsystem: "ingest",
		Name:      "checkpoint_offset_bytes",
		Help:      "Last committed byte offset per stream.",
	}, []string{"stream"})
	runDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chatstats",
		Subsystem: "ingest",
		Name:      "run_duration_seconds",
		Help:      "Duration of replay runs in seconds.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"stream"})
)

func init() {
	prometheus.MustRegister(
		linesTotal,
		parseErrorsTotal,
		eventsTotal,
		commitsTotal,
		abortsTotal,
		checkpointOffset,
		runDuration,
	)
}
