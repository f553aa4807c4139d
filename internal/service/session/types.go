package session

import (
	"context"
	"time"

	"github.com/KasumiMercury/primind-alarm-session/internal/domain"
)

// ActivateInput carries a trigger request from the task queue into the
// manager.
type ActivateInput struct {
	Reminder   domain.Reminder
	TimeSlotID string
}

// View is the read-only snapshot handed to handlers and hooks. RemindTime is
// the reminder's own scheduled instant; clients fall back to it when the
// session runs without slot context.
type View struct {
	SessionID          string    `json:"session_id"`
	RemindID           string    `json:"remind_id"`
	UserID             string    `json:"user_id"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	RemindTime         time.Time `json:"remind_time"`
	State              string    `json:"state"`
	TimeSlotID         string    `json:"time_slot_id,omitempty"`
	SlotTimeOfDay      string    `json:"slot_time_of_day,omitempty"`
	SlotDescription    string    `json:"slot_description,omitempty"`
	CountdownRemaining int       `json:"countdown_remaining"`
	SnoozeMinutes      int       `json:"snooze_minutes"`
	StartedAt          time.Time `json:"started_at"`
	DisplayTime        time.Time `json:"display_time"`
}

// Hooks are the optional completion callbacks supplied by the caller. At
// most one of them fires per session, exactly once, on successful
// resolution.
type Hooks struct {
	OnDismissed func(ctx context.Context, view View)
	OnSnoozed   func(ctx context.Context, view View, minutes int)
}

// Config carries the session timing constants.
type Config struct {
	CountdownSeconds     int
	DefaultSnoozeMinutes int
	AutoSnoozeMinutes    int
}

func viewOf(s *domain.AlarmSession) View {
	v := View{
		SessionID:          s.ID,
		RemindID:           s.Reminder.ID,
		UserID:             s.Reminder.UserID,
		Title:              s.Reminder.Title,
		Description:        s.Reminder.Description,
		RemindTime:         s.Reminder.Time,
		State:              s.State.String(),
		CountdownRemaining: s.CountdownRemaining,
		SnoozeMinutes:      s.SnoozeMinutes,
		StartedAt:          s.StartedAt,
		DisplayTime:        s.DisplayTime,
	}

	if s.ActiveSlot != nil {
		v.TimeSlotID = s.ActiveSlot.ID
		v.SlotTimeOfDay = s.ActiveSlot.TimeOfDay
		v.SlotDescription = s.ActiveSlot.Description
	}

	return v
}
