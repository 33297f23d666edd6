package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the splitter's collectors only, so exported batch metrics are
// not mixed with process metrics.
var Registry = prometheus.NewRegistry()

var (
	ExamplesSplitTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "fiapx_split_examples_total",
		Help: "Total number of examples assigned to each subset",
	}, []string{"subset"})

	FilesCopiedTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "fiapx_split_files_copied_total",
		Help: "Total number of files copied into the output tree, by kind",
	}, []string{"kind"})

	BytesCopiedTotal = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "fiapx_split_bytes_copied_total",
		Help: "Total number of bytes copied into the output tree",
	})

	StageDuration = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fiapx_split_stage_duration_seconds",
		Help:    "Duration of each dataset split stage",
		Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
	}, []string{"stage"})

	RunsTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "fiapx_split_runs_total",
		Help: "Total number of split runs, by result",
	}, []string{"result"})

	LastSuccessTimestamp = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
		Name: "fiapx_split_last_success_timestamp_seconds",
		Help: "Unix time of the last successful split run",
	})
)
