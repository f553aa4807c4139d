package domain

import (
	"errors"
	"testing"
	"time"
)

func testReminder() Reminder {
	return Reminder{
		ID:     "remind-1",
		UserID: "user-1",
		Title:  "take medication",
		Time:   time.Now().Add(-time.Minute),
		TimeSlots: []TimeSlot{
			{ID: "a", TimeOfDay: "08:00"},
			{ID: "b", TimeOfDay: "20:00", Description: "evening dose"},
		},
	}
}

func TestNewAlarmSession_SlotResolution(t *testing.T) {
	tests := []struct {
		name       string
		slotID     string
		wantSlotID string
		wantTime   string
	}{
		{name: "no slot id", slotID: "", wantSlotID: ""},
		{name: "matching slot", slotID: "b", wantSlotID: "b", wantTime: "20:00"},
		{name: "unknown slot id", slotID: "missing", wantSlotID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAlarmSession("session-1", testReminder(), tt.slotID, 30, DefaultSnoozeMinutes)

			if s.State != StateRunning {
				t.Errorf("State: got %s, want %s", s.State, StateRunning)
			}
			if got := s.ActiveSlotID(); got != tt.wantSlotID {
				t.Errorf("ActiveSlotID: got %q, want %q", got, tt.wantSlotID)
			}
			if tt.wantTime != "" && s.ActiveSlot.TimeOfDay != tt.wantTime {
				t.Errorf("ActiveSlot.TimeOfDay: got %q, want %q", s.ActiveSlot.TimeOfDay, tt.wantTime)
			}
		})
	}
}

func TestBeginResolution_MutualExclusion(t *testing.T) {
	s := NewAlarmSession("session-1", testReminder(), "", 30, DefaultSnoozeMinutes)

	if err := s.BeginResolution(StateDismissing); err != nil {
		t.Fatalf("first BeginResolution: unexpected error: %v", err)
	}
	if err := s.BeginResolution(StateSnoozing); !errors.Is(err, ErrAlreadyResolving) {
		t.Errorf("second BeginResolution: got %v, want ErrAlreadyResolving", err)
	}
	if err := s.BeginResolution(StateAutoSnoozing); !errors.Is(err, ErrAlreadyResolving) {
		t.Errorf("auto-snooze after dismiss: got %v, want ErrAlreadyResolving", err)
	}

	if err := s.MarkResolved(); err != nil {
		t.Fatalf("MarkResolved: unexpected error: %v", err)
	}
	if err := s.BeginResolution(StateDismissing); !errors.Is(err, ErrAlreadyResolving) {
		t.Errorf("BeginResolution after resolved: got %v, want ErrAlreadyResolving", err)
	}
}

func TestBeginResolution_RejectsNonResolvingState(t *testing.T) {
	s := NewAlarmSession("session-1", testReminder(), "", 30, DefaultSnoozeMinutes)

	if err := s.BeginResolution(StateRunning); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("got %v, want ErrInvalidTransition", err)
	}
}

func TestRollbackResolution_AllowsRetry(t *testing.T) {
	s := NewAlarmSession("session-1", testReminder(), "", 30, DefaultSnoozeMinutes)

	if err := s.BeginResolution(StateSnoozing); err != nil {
		t.Fatalf("BeginResolution: %v", err)
	}
	s.RollbackResolution()

	if s.State != StateRunning {
		t.Fatalf("State after rollback: got %s, want %s", s.State, StateRunning)
	}
	if err := s.BeginResolution(StateSnoozing); err != nil {
		t.Errorf("retry after rollback: unexpected error: %v", err)
	}
}

func TestTickCountdown_ExpiresExactlyOnce(t *testing.T) {
	s := NewAlarmSession("session-1", testReminder(), "", 30, DefaultSnoozeMinutes)

	expiries := 0
	for i := 0; i < 40; i++ {
		if s.TickCountdown() {
			expiries++
		}
	}

	if expiries != 1 {
		t.Errorf("expiries: got %d, want 1", expiries)
	}
	if s.CountdownRemaining != 0 {
		t.Errorf("CountdownRemaining: got %d, want 0", s.CountdownRemaining)
	}
	if !s.CountdownExpired {
		t.Error("CountdownExpired: got false, want true")
	}
}

func TestTickCountdown_StopsWhileResolving(t *testing.T) {
	s := NewAlarmSession("session-1", testReminder(), "", 30, DefaultSnoozeMinutes)

	for i := 0; i < 10; i++ {
		s.TickCountdown()
	}
	if err := s.BeginResolution(StateSnoozing); err != nil {
		t.Fatalf("BeginResolution: %v", err)
	}

	if s.TickCountdown() {
		t.Error("tick during resolution must not expire the countdown")
	}
	if s.CountdownRemaining != 20 {
		t.Errorf("CountdownRemaining: got %d, want 20", s.CountdownRemaining)
	}
}

func TestAdjustSnoozeMinutes_Floor(t *testing.T) {
	s := NewAlarmSession("session-1", testReminder(), "", 30, 3)

	for i := 0; i < 10; i++ {
		s.AdjustSnoozeMinutes(-1)
	}
	if s.SnoozeMinutes != MinSnoozeMinutes {
		t.Errorf("SnoozeMinutes after repeated decrement: got %d, want %d", s.SnoozeMinutes, MinSnoozeMinutes)
	}

	for i := 0; i < 500; i++ {
		s.AdjustSnoozeMinutes(1)
	}
	if s.SnoozeMinutes != MinSnoozeMinutes+500 {
		t.Errorf("SnoozeMinutes after repeated increment: got %d, want %d", s.SnoozeMinutes, MinSnoozeMinutes+500)
	}
}

func TestApplyLoadedSnoozeMinutes_DoesNotOverwriteUserChoice(t *testing.T) {
	s := NewAlarmSession("session-1", testReminder(), "", 30, DefaultSnoozeMinutes)

	s.AdjustSnoozeMinutes(1)
	s.ApplyLoadedSnoozeMinutes(25)

	if s.SnoozeMinutes != DefaultSnoozeMinutes+1 {
		t.Errorf("SnoozeMinutes: got %d, want %d", s.SnoozeMinutes, DefaultSnoozeMinutes+1)
	}
}

func TestSnoozeSettings_InitialMinutes(t *testing.T) {
	tests := []struct {
		name     string
		settings *SnoozeSettings
		want     int
	}{
		{name: "nil settings", settings: nil, want: DefaultSnoozeMinutes},
		{name: "custom disabled", settings: &SnoozeSettings{UseCustom: false, CustomMinutes: 25}, want: DefaultSnoozeMinutes},
		{name: "custom enabled", settings: &SnoozeSettings{UseCustom: true, CustomMinutes: 25}, want: 25},
		{name: "custom below floor", settings: &SnoozeSettings{UseCustom: true, CustomMinutes: 0}, want: DefaultSnoozeMinutes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.settings.InitialMinutes(); got != tt.want {
				t.Errorf("InitialMinutes: got %d, want %d", got, tt.want)
			}
		})
	}
}
