//go:build !gcloud

package logging

import (
	"context"
	"log/slog"
)

// gcpTraceAttrs is a no-op outside gcloud builds; trace correlation fields
// only mean something to Cloud Logging.
func gcpTraceAttrs(_ context.Context, _ string) []slog.Attr {
	return nil
}
