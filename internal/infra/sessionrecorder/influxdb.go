//go:build !gcloud

package sessionrecorder

import (
	"context"
	"log/slog"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/KasumiMercury/primind-alarm-session/internal/domain"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.SessionResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "session result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, session result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "session result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func (r *influxDBRecorder) RecordResolution(ctx context.Context, record *domain.SessionResultRecord) error {
	if record == nil {
		return nil
	}

	point := influxdb2.NewPoint(
		"alarm_resolution",
		map[string]string{
			"outcome":      record.Outcome,
			"time_slot_id": record.TimeSlotID,
		},
		map[string]any{
			"session_id":     record.SessionID,
			"remind_id":      record.RemindID,
			"user_id":        record.UserID,
			"snooze_minutes": record.SnoozeMinutes,
			"ring_seconds":   record.RingDuration.Seconds(),
		},
		record.ResolvedAt,
	)

	if err := r.writeAPI.WritePoint(ctx, point); err != nil {
		slog.WarnContext(ctx, "failed to write alarm resolution to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("session_id", record.SessionID),
			slog.String("outcome", record.Outcome),
		)
	}

	return nil
}

func (r *influxDBRecorder) Flush(ctx context.Context) error {
	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
