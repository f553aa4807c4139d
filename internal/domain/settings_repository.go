package domain

import "context"

//go:generate mockgen -source=settings_repository.go -destination=settings_repository_mock.go -package=domain

type SettingsRepository interface {
	GetSnoozeSettings(ctx context.Context, userID string) (*SnoozeSettings, error)
	SaveSnoozeSettings(ctx context.Context, userID string, settings *SnoozeSettings) error
	MarkSessionResolved(ctx context.Context, remindID, timeSlotID string, outcome Outcome) error
	IsSessionResolved(ctx context.Context, remindID, timeSlotID string) (bool, error)
}
