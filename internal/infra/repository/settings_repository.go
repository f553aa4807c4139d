package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-alarm-session/internal/domain"
)

const (
	snoozeSettingsKeyPrefix  = "alarm:snooze:"
	resolvedSessionKeyPrefix = "alarm:resolved:"

	// Resolved markers only need to outlive task queue redelivery.
	resolvedSessionTTL = 2 * time.Hour
)

type snoozeSettingsRecord struct {
	UseCustom     bool `json:"use_custom"`
	CustomMinutes int  `json:"custom_minutes"`
}

type resolutionRecord struct {
	RemindID   string    `json:"remind_id"`
	TimeSlotID string    `json:"time_slot_id,omitempty"`
	Outcome    string    `json:"outcome"`
	ResolvedAt time.Time `json:"resolved_at"`
}

type settingsRepository struct {
	client *redis.Client
}

func NewSettingsRepository(client *redis.Client) domain.SettingsRepository {
	return &settingsRepository{
		client: client,
	}
}

func (r *settingsRepository) GetSnoozeSettings(ctx context.Context, userID string) (*domain.SnoozeSettings, error) {
	key := snoozeSettingsKeyPrefix + userID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// No stored settings means the fixed default applies.
			return &domain.SnoozeSettings{}, nil
		}
		return nil, err
	}

	var record snoozeSettingsRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidSettingsData
	}

	return &domain.SnoozeSettings{
		UseCustom:     record.UseCustom,
		CustomMinutes: record.CustomMinutes,
	}, nil
}

func (r *settingsRepository) SaveSnoozeSettings(ctx context.Context, userID string, settings *domain.SnoozeSettings) error {
	if settings == nil {
		return ErrInvalidSettingsData
	}

	key := snoozeSettingsKeyPrefix + userID

	data, err := json.Marshal(snoozeSettingsRecord{
		UseCustom:     settings.UseCustom,
		CustomMinutes: settings.CustomMinutes,
	})
	if err != nil {
		return ErrInvalidSettingsData
	}

	return r.client.Set(ctx, key, data, 0).Err()
}

func (r *settingsRepository) MarkSessionResolved(ctx context.Context, remindID, timeSlotID string, outcome domain.Outcome) error {
	key := resolvedSessionKey(remindID, timeSlotID)

	data, err := json.Marshal(resolutionRecord{
		RemindID:   remindID,
		TimeSlotID: timeSlotID,
		Outcome:    outcome.String(),
		ResolvedAt: time.Now().UTC(),
	})
	if err != nil {
		return ErrInvalidResolutionData
	}

	return r.client.Set(ctx, key, data, resolvedSessionTTL).Err()
}

func (r *settingsRepository) IsSessionResolved(ctx context.Context, remindID, timeSlotID string) (bool, error) {
	exists, err := r.client.Exists(ctx, resolvedSessionKey(remindID, timeSlotID)).Result()
	if err != nil {
		return false, err
	}

	return exists > 0, nil
}

func resolvedSessionKey(remindID, timeSlotID string) string {
	if timeSlotID == "" {
		return resolvedSessionKeyPrefix + remindID
	}
	return resolvedSessionKeyPrefix + remindID + ":" + timeSlotID
}
