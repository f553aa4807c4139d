package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Environment selects log formatting and exporter behavior.
type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// Module tags every log record with the emitting service module.
type Module string

// ServiceInfo identifies the running service in logs and telemetry.
type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID stores the request identifier for downstream log records and
// outgoing service calls.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the stored request identifier, or "".
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ValidateAndExtractRequestID returns the given identifier when it is a valid
// UUID, otherwise a freshly generated one. Incoming headers are untrusted.
func ValidateAndExtractRequestID(requestID string) string {
	if _, err := uuid.Parse(requestID); err == nil {
		return requestID
	}
	return uuid.NewString()
}

// ParseLevel maps the LOG_LEVEL environment value to a slog level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Handler decorates a slog handler with the service module, the request
// identifier from the context, and GCP trace correlation attributes when
// built for gcloud.
type Handler struct {
	inner        slog.Handler
	module       Module
	gcpProjectID string
}

func NewHandler(inner slog.Handler, module Module, gcpProjectID string) *Handler {
	return &Handler{
		inner:        inner,
		module:       module,
		gcpProjectID: gcpProjectID,
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if h.module != "" {
		record.AddAttrs(slog.String("module", string(h.module)))
	}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		record.AddAttrs(slog.String("request_id", requestID))
	}
	if attrs := gcpTraceAttrs(ctx, h.gcpProjectID); len(attrs) > 0 {
		record.AddAttrs(attrs...)
	}
	return h.inner.Handle(ctx, record)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		inner:        h.inner.WithAttrs(attrs),
		module:       h.module,
		gcpProjectID: h.gcpProjectID,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		inner:        h.inner.WithGroup(name),
		module:       h.module,
		gcpProjectID: h.gcpProjectID,
	}
}

// NewLogger builds the service logger writing JSON to stdout.
func NewLogger(module Module, gcpProjectID string) *slog.Logger {
	inner := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: ParseLevel(os.Getenv("LOG_LEVEL")),
	})
	return slog.New(NewHandler(inner, module, gcpProjectID))
}
