package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const sessionTracerName = "github.com/KasumiMercury/primind-alarm-session/internal/service/session"

func SessionTracer() trace.Tracer {
	return otel.Tracer(sessionTracerName)
}

func StartActivationSpan(ctx context.Context, remindID, timeSlotID string) (context.Context, trace.Span) {
	return SessionTracer().Start(ctx, "alarm.activation",
		trace.WithAttributes(
			attribute.String("remind_id", remindID),
			attribute.String("time_slot_id", timeSlotID),
		),
	)
}

func StartResolutionSpan(ctx context.Context, outcome, sessionID string) (context.Context, trace.Span) {
	return SessionTracer().Start(ctx, "alarm.resolution."+outcome,
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
		),
	)
}

func RecordActivationResult(span trace.Span, sessionID string, duplicate bool, err error) {
	span.SetAttributes(
		attribute.String("session_id", sessionID),
		attribute.Bool("duplicate", duplicate),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

func RecordResolutionResult(span trace.Span, snoozeMinutes int, err error) {
	span.SetAttributes(
		attribute.Int("snooze_minutes", snoozeMinutes),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
