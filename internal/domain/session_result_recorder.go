package domain

import (
	"context"
	"time"
)

type SessionResultRecord struct {
	SessionID     string
	RemindID      string
	UserID        string
	TimeSlotID    string
	Outcome       string
	SnoozeMinutes int
	RingDuration  time.Duration
	ResolvedAt    time.Time
}

type SessionResultRecorder interface {
	RecordResolution(ctx context.Context, record *SessionResultRecord) error
	Flush(ctx context.Context) error
	Close() error
}
