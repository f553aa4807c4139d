//go:build gcloud

package sessionrecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-alarm-session/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt    time.Time `bigquery:"recorded_at"`
	ResolvedAt    time.Time `bigquery:"resolved_at"`
	SessionID     string    `bigquery:"session_id"`
	RemindID      string    `bigquery:"remind_id"`
	UserID        string    `bigquery:"user_id"`
	TimeSlotID    string    `bigquery:"time_slot_id"`
	Outcome       string    `bigquery:"outcome"`
	SnoozeMinutes int64     `bigquery:"snooze_minutes"`
	RingSeconds   float64   `bigquery:"ring_seconds"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.SessionResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "session result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, session result recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, session result recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	table := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable)
	inserter := table.Inserter()

	slog.InfoContext(ctx, "session result recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) RecordResolution(ctx context.Context, record *domain.SessionResultRecord) error {
	if record == nil {
		return nil
	}

	bqRecord := &bigQueryRecord{
		RecordedAt:    time.Now(),
		ResolvedAt:    record.ResolvedAt,
		SessionID:     record.SessionID,
		RemindID:      record.RemindID,
		UserID:        record.UserID,
		TimeSlotID:    record.TimeSlotID,
		Outcome:       record.Outcome,
		SnoozeMinutes: int64(record.SnoozeMinutes),
		RingSeconds:   record.RingDuration.Seconds(),
	}

	if err := r.inserter.Put(ctx, []*bigQueryRecord{bqRecord}); err != nil {
		slog.WarnContext(ctx, "failed to insert alarm resolution to BigQuery",
			slog.String("error", err.Error()),
			slog.String("session_id", record.SessionID),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Flush(ctx context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
