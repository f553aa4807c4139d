package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const sessionMeterName = "alarm.session"

type SessionMetrics struct {
	sessionsActivated    metric.Int64Counter
	sessionsResolved     metric.Int64Counter
	duplicateActivations metric.Int64Counter
	resolutionFailures   metric.Int64Counter
	ringDuration         metric.Float64Histogram
}

func NewSessionMetrics() (*SessionMetrics, error) {
	meter := otel.Meter(sessionMeterName)

	sessionsActivated, err := meter.Int64Counter(
		"alarm_sessions_activated_total",
		metric.WithDescription("Total number of activated alarm sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, err
	}

	sessionsResolved, err := meter.Int64Counter(
		"alarm_sessions_resolved_total",
		metric.WithDescription("Total number of resolved alarm sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, err
	}

	duplicateActivations, err := meter.Int64Counter(
		"alarm_duplicate_activations_total",
		metric.WithDescription("Trigger requests rejected by the single-session guard"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	resolutionFailures, err := meter.Int64Counter(
		"alarm_resolution_failures_total",
		metric.WithDescription("Resolution attempts rolled back after a collaborator failure"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	ringDuration, err := meter.Float64Histogram(
		"alarm_ring_duration_seconds",
		metric.WithDescription("Time between session activation and resolution"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			1, 2, 5, 10, 15, 20, 25, 30, 45, 60,
		),
	)
	if err != nil {
		return nil, err
	}

	return &SessionMetrics{
		sessionsActivated:    sessionsActivated,
		sessionsResolved:     sessionsResolved,
		duplicateActivations: duplicateActivations,
		resolutionFailures:   resolutionFailures,
		ringDuration:         ringDuration,
	}, nil
}

func (m *SessionMetrics) RecordActivation(ctx context.Context) {
	attrs := appendLoadtestLabels(ctx, nil)
	m.sessionsActivated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *SessionMetrics) RecordDuplicateActivation(ctx context.Context) {
	attrs := appendLoadtestLabels(ctx, nil)
	m.duplicateActivations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *SessionMetrics) RecordResolution(ctx context.Context, outcome string, ringDuration time.Duration) {
	attrs := appendLoadtestLabels(ctx, []attribute.KeyValue{
		attribute.String("outcome", outcome),
	})
	m.sessionsResolved.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.ringDuration.Record(ctx, ringDuration.Seconds(), metric.WithAttributes(attrs...))
}

func (m *SessionMetrics) RecordResolutionFailure(ctx context.Context, outcome string) {
	attrs := appendLoadtestLabels(ctx, []attribute.KeyValue{
		attribute.String("outcome", outcome),
	})
	m.resolutionFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
}
