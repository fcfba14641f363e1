package pipeline

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationsTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "blog_generations_total",
			Help: "Number of blog generation runs, by mode and result.",
		},
		[]string{"mode", "result"},
	)

	generationDuration = promauto.NewHistogramVec( //nolint:gochecknoglobals
		prometheus.HistogramOpts{
			Name:    "blog_generation_duration_seconds",
			Help:    "Duration of blog generation runs including the provider call.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		},
		[]string{"mode"},
	)
)

// resultLabel maps an outcome to a low cardinality metric label.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrIncompleteClient):
		return "incomplete_client"
	case errors.Is(err, ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, ErrGenerationFailed):
		return "generation_failed"
	case errors.Is(err, ErrPersistenceFailed):
		return "persistence_failed"
	default:
		return "error"
	}
}
