package metrics

import (
	"context"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

type newRelicContextKey struct{}

// NewRelicContextKey associates a *newrelic.Application with a context so
// metric recording helpers can find it.
var NewRelicContextKey newRelicContextKey

// NewContext returns a context carrying the provided New Relic application.
func NewContext(ctx context.Context, app *newrelic.Application) context.Context {
	return context.WithValue(ctx, NewRelicContextKey, app)
}

// RecordCount records a count metric
func RecordCount(ctx context.Context, metricName string, count uint64) {
	nr, ok := ctx.Value(NewRelicContextKey).(*newrelic.Application)
	if ok {
		nr.RecordCustomMetric(metricName, float64(count))
	}
}

// RecordDuration records a duration metric
func RecordDuration(ctx context.Context, metricName string, duration time.Duration) {
	nr, ok := ctx.Value(NewRelicContextKey).(*newrelic.Application)
	if ok {
		nr.RecordCustomMetric(metricName, float64(duration/time.Millisecond))
	}
}

// RecordEvent records a new event with a name and set of key-value pairs
func RecordEvent(ctx context.Context, eventName string, kvPairs map[string]interface{}) {
	nr, ok := ctx.Value(NewRelicContextKey).(*newrelic.Application)
	if ok {
		nr.RecordCustomEvent(eventName, kvPairs)
	}
}
