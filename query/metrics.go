package query

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/o0olele/svon-go/math32"
)

var tracer = otel.Tracer("svon.query")

// Metrics for path searches.
var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "svon",
		Name:      "searches_total",
		Help:      "Total number of path searches by result.",
	}, []string{"result"})

	searchIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "svon",
		Name:      "search_iterations",
		Help:      "Expanded links per path search.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	})

	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "svon",
		Name:      "search_duration_seconds",
		Help:      "Duration of path searches.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	})

	pathPoints = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "svon",
		Name:      "path_points",
		Help:      "Waypoints per found path.",
		Buckets:   prometheus.LinearBuckets(2, 4, 10),
	})
)

const (
	resultFound    = "found"
	resultNotFound = "not_found"
	resultInvalid  = "invalid"
	resultAborted  = "aborted"
)

// startFindPathSpan creates a span for one façade search.
func startFindPathSpan(ctx context.Context, start, end math32.Vector3) (context.Context, trace.Span) {
	return tracer.Start(ctx, "query.FindPath",
		trace.WithAttributes(
			attribute.String("query.start", start.String()),
			attribute.String("query.end", end.String()),
		),
	)
}

// setFindPathSpanResult sets the result attributes on a search span.
func setFindPathSpanResult(span trace.Span, res Result, points int, err error) {
	span.SetAttributes(
		attribute.Bool("query.found", res.Found),
		attribute.Int("query.iterations", res.Iterations),
		attribute.Int("query.points", points),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// recordSearchMetrics records one search outcome.
func recordSearchMetrics(result string, res Result, duration time.Duration, points int) {
	searchesTotal.WithLabelValues(result).Inc()
	if result == resultInvalid {
		return
	}
	searchIterations.Observe(float64(res.Iterations))
	searchDuration.Observe(duration.Seconds())
	if res.Found {
		pathPoints.Observe(float64(points))
	}
}
