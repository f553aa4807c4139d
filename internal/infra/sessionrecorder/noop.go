package sessionrecorder

import (
	"context"

	"github.com/KasumiMercury/primind-alarm-session/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.SessionResultRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordResolution(_ context.Context, _ *domain.SessionResultRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
