//go:build loadtest

package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
)

const loadRunIDBaggageKey = "load_run_id"

// appendLoadtestLabels tags session metrics with the load-run identifier the
// harness carries in the request baggage, so per-run series can be separated
// in the metrics backend.
func appendLoadtestLabels(ctx context.Context, attrs []attribute.KeyValue) []attribute.KeyValue {
	if runID := baggage.FromContext(ctx).Member(loadRunIDBaggageKey).Value(); runID != "" {
		attrs = append(attrs, attribute.String("run_id", runID))
	}
	return attrs
}
