package handler

import (
	"time"

	"github.com/KasumiMercury/primind-alarm-session/internal/domain"
)

// TriggerRequest is the payload the dispatcher posts when an alarm fires.
type TriggerRequest struct {
	RemindID            string            `json:"remind_id" binding:"required"`
	UserID              string            `json:"user_id" binding:"required"`
	Title               string            `json:"title" binding:"required"`
	Description         string            `json:"description"`
	Time                time.Time         `json:"time"`
	TaskID              string            `json:"task_id"`
	TimeSlotID          string            `json:"time_slot_id"`
	TimeSlots           []TimeSlotPayload `json:"time_slots"`
	DeviceTokens        []string          `json:"device_tokens"`
	NotificationEnabled bool              `json:"notification_enabled"`
}

type TimeSlotPayload struct {
	ID          string `json:"id" binding:"required"`
	TimeOfDay   string `json:"time_of_day"`
	Description string `json:"description"`
}

func (r *TriggerRequest) toReminder() domain.Reminder {
	slots := make([]domain.TimeSlot, 0, len(r.TimeSlots))
	for _, s := range r.TimeSlots {
		slots = append(slots, domain.TimeSlot{
			ID:          s.ID,
			TimeOfDay:   s.TimeOfDay,
			Description: s.Description,
		})
	}

	return domain.Reminder{
		ID:                  r.RemindID,
		UserID:              r.UserID,
		Title:               r.Title,
		Description:         r.Description,
		Time:                r.Time,
		TimeSlots:           slots,
		TaskID:              r.TaskID,
		DeviceTokens:        r.DeviceTokens,
		NotificationEnabled: r.NotificationEnabled,
	}
}

// SnoozeRequest carries an optional explicit duration. Zero means "use the
// duration chosen on the session".
type SnoozeRequest struct {
	Minutes int `json:"minutes"`
}

type AdjustSnoozeRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type AdjustSnoozeResponse struct {
	SnoozeMinutes int `json:"snooze_minutes"`
}

type SnoozeSettingsRequest struct {
	UserID        string `json:"user_id" binding:"required"`
	UseCustom     bool   `json:"use_custom"`
	CustomMinutes int    `json:"custom_minutes"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
