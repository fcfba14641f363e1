package logger

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	logLines     *prometheus.CounterVec //nolint:gochecknoglobals
	logLinesOnce sync.Once              //nolint:gochecknoglobals
)

// PrometheusHook counts log lines per level as localblog_log_lines_total.
type PrometheusHook struct {
	lines *prometheus.CounterVec
}

// Run implements zerolog.Hook. Access log lines carry no level and are not counted.
func (h PrometheusHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.NoLevel || h.lines == nil {
		return
	}

	h.lines.WithLabelValues(level.String()).Inc()
}

// NewPrometheusHook registers the counter once per process. The service label is
// fixed by the first call.
func NewPrometheusHook(service string) PrometheusHook {
	logLinesOnce.Do(func() {
		logLines = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   "localblog",
				Name:        "log_lines_total",
				Help:        "Number of log lines written, by level.",
				ConstLabels: prometheus.Labels{"service": service},
			},
			[]string{"level"},
		)
	})

	return PrometheusHook{lines: logLines}
}
