package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-alarm-session/internal/domain"
	"github.com/KasumiMercury/primind-alarm-session/internal/infra/sound"
	"github.com/KasumiMercury/primind-alarm-session/internal/infra/taskqueue"
)

type manualTicker struct {
	ch chan time.Time
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               {}

type fixture struct {
	manager  *Manager
	registry *ActivationRegistry
	settings *domain.MockSettingsRepository
	queue    *taskqueue.MockTaskQueue
	sound    *sound.MockController
}

func newFixture(t *testing.T, ctrl *gomock.Controller, hooks Hooks) *fixture {
	t.Helper()

	f := &fixture{
		registry: NewActivationRegistry(),
		settings: domain.NewMockSettingsRepository(ctrl),
		queue:    taskqueue.NewMockTaskQueue(ctrl),
		sound:    sound.NewMockController(ctrl),
	}
	f.manager = NewManager(f.registry, f.settings, f.queue, f.sound, nil, nil, hooks, Config{
		CountdownSeconds:     30,
		DefaultSnoozeMinutes: 10,
		AutoSnoozeMinutes:    10,
	})
	// Tickers never fire on their own; tests drive ticks directly.
	f.manager.newTicker = func(time.Duration) Ticker {
		return &manualTicker{ch: make(chan time.Time)}
	}

	// Stop the run goroutine of any session left unresolved.
	t.Cleanup(func() {
		f.manager.mu.Lock()
		if f.manager.current != nil {
			f.manager.current.stop()
			f.manager.current = nil
		}
		f.manager.mu.Unlock()
	})

	return f
}

func testReminder() domain.Reminder {
	return domain.Reminder{
		ID:           "remind-1",
		UserID:       "user-1",
		Title:        "Take medication",
		Time:         time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC),
		TaskID:       "task-1",
		DeviceTokens: []string{"token-a"},
		TimeSlots: []domain.TimeSlot{
			{ID: "slot-morning", TimeOfDay: "08:00", Description: "morning dose"},
			{ID: "slot-evening", TimeOfDay: "20:00", Description: "evening dose"},
		},
	}
}

func (f *fixture) activate(t *testing.T, reminder domain.Reminder, slotID string, settings *domain.SnoozeSettings) View {
	t.Helper()

	f.settings.EXPECT().IsSessionResolved(gomock.Any(), reminder.ID, slotID).Return(false, nil)
	f.settings.EXPECT().GetSnoozeSettings(gomock.Any(), reminder.UserID).Return(settings, nil)

	view, err := f.manager.Activate(context.Background(), ActivateInput{
		Reminder:   reminder,
		TimeSlotID: slotID,
	})
	if err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	return view
}

// tick drives the countdown handler the way the run goroutine would.
func (f *fixture) tick(ctx context.Context, times int) {
	f.manager.mu.Lock()
	active := f.manager.current
	f.manager.mu.Unlock()
	if active == nil {
		return
	}
	for i := 0; i < times; i++ {
		f.manager.tickCountdown(ctx, active)
	}
}

func TestActivateResolvesTimeSlot(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, Hooks{})

	view := f.activate(t, testReminder(), "slot-evening", &domain.SnoozeSettings{})

	if view.TimeSlotID != "slot-evening" {
		t.Errorf("TimeSlotID = %q, want %q", view.TimeSlotID, "slot-evening")
	}
	if view.SlotTimeOfDay != "20:00" {
		t.Errorf("SlotTimeOfDay = %q, want %q", view.SlotTimeOfDay, "20:00")
	}
	if view.CountdownRemaining != 30 {
		t.Errorf("CountdownRemaining = %d, want 30", view.CountdownRemaining)
	}
	if view.SnoozeMinutes != 10 {
		t.Errorf("SnoozeMinutes = %d, want default 10", view.SnoozeMinutes)
	}
}

func TestActivateUsesCustomSnoozeSettings(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, Hooks{})

	view := f.activate(t, testReminder(), "", &domain.SnoozeSettings{UseCustom: true, CustomMinutes: 25})

	if view.SnoozeMinutes != 25 {
		t.Errorf("SnoozeMinutes = %d, want custom 25", view.SnoozeMinutes)
	}
}

func TestActivateUnknownSlotRunsWithoutSlotContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, Hooks{})
	reminder := testReminder()

	view := f.activate(t, reminder, "slot-unknown", &domain.SnoozeSettings{})

	if view.TimeSlotID != "" {
		t.Errorf("TimeSlotID = %q, want empty", view.TimeSlotID)
	}
	if view.State != domain.StateRunning.String() {
		t.Errorf("State = %q, want running", view.State)
	}
	// Without slot context the client falls back to the reminder's own time.
	if !view.RemindTime.Equal(reminder.Time) {
		t.Errorf("RemindTime = %v, want %v", view.RemindTime, reminder.Time)
	}
}

func TestActivateSettingsFailureKeepsDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, Hooks{})
	reminder := testReminder()

	f.settings.EXPECT().IsSessionResolved(gomock.Any(), reminder.ID, "").Return(false, nil)
	f.settings.EXPECT().GetSnoozeSettings(gomock.Any(), reminder.UserID).
		Return(nil, errors.New("redis down"))

	view, err := f.manager.Activate(context.Background(), ActivateInput{Reminder: reminder})
	if err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if view.SnoozeMinutes != 10 {
		t.Errorf("SnoozeMinutes = %d, want default 10", view.SnoozeMinutes)
	}
}

func TestActivateRejectsDuplicateWithoutSideEffects(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, Hooks{})

	first := f.activate(t, testReminder(), "slot-morning", &domain.SnoozeSettings{})

	second := testReminder()
	second.ID = "remind-2"
	f.settings.EXPECT().IsSessionResolved(gomock.Any(), second.ID, "").Return(false, nil)

	if _, err := f.manager.Activate(context.Background(), ActivateInput{Reminder: second}); !errors.Is(err, domain.ErrSessionActive) {
		t.Fatalf("Activate() error = %v, want ErrSessionActive", err)
	}

	view, ok := f.manager.ActiveSession()
	if !ok {
		t.Fatal("expected the first session to survive the duplicate trigger")
	}
	if view.SessionID != first.SessionID {
		t.Errorf("active session = %q, want %q", view.SessionID, first.SessionID)
	}
	if view.CountdownRemaining != 30 {
		t.Errorf("CountdownRemaining = %d, duplicate trigger must not touch the countdown", view.CountdownRemaining)
	}
}

func TestActivateRejectsAlreadyResolvedFiring(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, Hooks{})
	reminder := testReminder()

	f.settings.EXPECT().IsSessionResolved(gomock.Any(), reminder.ID, "slot-morning").Return(true, nil)

	_, err := f.manager.Activate(context.Background(), ActivateInput{
		Reminder:   reminder,
		TimeSlotID: "slot-morning",
	})
	if !errors.Is(err, domain.ErrSessionResolved) {
		t.Fatalf("Activate() error = %v, want ErrSessionResolved", err)
	}
	if _, ok := f.manager.ActiveSession(); ok {
		t.Error("no session should be active after a rejected trigger")
	}
}

func TestDismissStopsSoundAndCancelsTask(t *testing.T) {
	ctrl := gomock.NewController(t)

	var dismissed []View
	hooks := Hooks{
		OnDismissed: func(_ context.Context, view View) {
			dismissed = append(dismissed, view)
		},
	}
	f := newFixture(t, ctrl, hooks)
	reminder := testReminder()
	view := f.activate(t, reminder, "slot-morning", &domain.SnoozeSettings{})

	gomock.InOrder(
		f.sound.EXPECT().Stop(gomock.Any(), reminder.UserID, reminder.DeviceTokens).Return(nil),
		f.queue.EXPECT().CancelAlarm(gomock.Any(), reminder.ID, "slot-morning").Return(nil),
		f.settings.EXPECT().MarkSessionResolved(gomock.Any(), reminder.ID, "slot-morning", domain.OutcomeDismissed).Return(nil),
	)

	if err := f.manager.Dismiss(context.Background(), view.SessionID); err != nil {
		t.Fatalf("Dismiss() error = %v", err)
	}

	if _, ok := f.manager.ActiveSession(); ok {
		t.Error("session should be gone after dismissal")
	}
	if _, held := f.registry.ActiveID(); held {
		t.Error("activation guard should be released after dismissal")
	}
	if len(dismissed) != 1 {
		t.Fatalf("OnDismissed fired %d times, want exactly once", len(dismissed))
	}
	if dismissed[0].SessionID != view.SessionID {
		t.Errorf("hook session = %q, want %q", dismissed[0].SessionID, view.SessionID)
	}

	// A second dismiss finds nothing to resolve.
	if err := f.manager.Dismiss(context.Background(), view.SessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("second Dismiss() error = %v, want ErrSessionNotFound", err)
	}
}

func TestSnoozeSchedulesWithSessionMinutes(t *testing.T) {
	ctrl := gomock.NewController(t)

	var snoozedMinutes []int
	hooks := Hooks{
		OnSnoozed: func(_ context.Context, _ View, minutes int) {
			snoozedMinutes = append(snoozedMinutes, minutes)
		},
	}
	f := newFixture(t, ctrl, hooks)
	reminder := testReminder()
	view := f.activate(t, reminder, "", &domain.SnoozeSettings{UseCustom: true, CustomMinutes: 15})

	f.sound.EXPECT().Stop(gomock.Any(), reminder.UserID, reminder.DeviceTokens).Return(nil)
	f.queue.EXPECT().ScheduleAlarm(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, task *taskqueue.AlarmTask) (*taskqueue.TaskResponse, error) {
			if task.RemindID != reminder.ID {
				t.Errorf("task RemindID = %q, want %q", task.RemindID, reminder.ID)
			}
			delay := time.Until(task.ScheduleAt)
			if delay < 14*time.Minute || delay > 16*time.Minute {
				t.Errorf("schedule delay = %v, want about 15m", delay)
			}
			return &taskqueue.TaskResponse{Name: task.RemindID}, nil
		})
	f.settings.EXPECT().MarkSessionResolved(gomock.Any(), reminder.ID, "", domain.OutcomeSnoozed).Return(nil)

	if err := f.manager.Snooze(context.Background(), view.SessionID, 0); err != nil {
		t.Fatalf("Snooze() error = %v", err)
	}

	if len(snoozedMinutes) != 1 || snoozedMinutes[0] != 15 {
		t.Errorf("OnSnoozed minutes = %v, want [15]", snoozedMinutes)
	}
	if _, ok := f.manager.ActiveSession(); ok {
		t.Error("session should be gone after snooze")
	}
}

func TestSnoozeFailureRollsBackAndAllowsRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, Hooks{})
	reminder := testReminder()
	view := f.activate(t, reminder, "", &domain.SnoozeSettings{})

	f.sound.EXPECT().Stop(gomock.Any(), reminder.UserID, reminder.DeviceTokens).Return(nil).Times(2)
	gomock.InOrder(
		f.queue.EXPECT().ScheduleAlarm(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("queue unavailable")),
		f.queue.EXPECT().ScheduleAlarm(gomock.Any(), gomock.Any()).
			Return(&taskqueue.TaskResponse{Name: reminder.ID}, nil),
	)
	f.settings.EXPECT().MarkSessionResolved(gomock.Any(), reminder.ID, "", domain.OutcomeSnoozed).Return(nil)

	if err := f.manager.Snooze(context.Background(), view.SessionID, 5); err == nil {
		t.Fatal("expected first Snooze() to fail")
	}

	// The failed attempt rolled back; the session is still open.
	got, ok := f.manager.ActiveSession()
	if !ok {
		t.Fatal("session should survive a failed snooze")
	}
	if got.State != domain.StateRunning.String() {
		t.Errorf("State = %q, want running after rollback", got.State)
	}

	if err := f.manager.Snooze(context.Background(), view.SessionID, 5); err != nil {
		t.Fatalf("retry Snooze() error = %v", err)
	}
}

func TestDismissSoundFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, Hooks{})
	reminder := testReminder()
	view := f.activate(t, reminder, "", &domain.SnoozeSettings{})

	f.sound.EXPECT().Stop(gomock.Any(), reminder.UserID, reminder.DeviceTokens).
		Return(errors.New("push relay unreachable"))

	if err := f.manager.Dismiss(context.Background(), view.SessionID); err == nil {
		t.Fatal("expected Dismiss() to fail when the sound stop fails")
	}

	got, ok := f.manager.ActiveSession()
	if !ok {
		t.Fatal("session should survive a failed dismissal")
	}
	if got.State != domain.StateRunning.String() {
		t.Errorf("State = %q, want running after rollback", got.State)
	}
}

func TestDismissThenSnoozeResolvesOnlyOnce(t *testing.T) {
	ctrl := gomock.NewController(t)

	var dismissed, snoozed int
	hooks := Hooks{
		OnDismissed: func(_ context.Context, _ View) { dismissed++ },
		OnSnoozed:   func(_ context.Context, _ View, _ int) { snoozed++ },
	}
	f := newFixture(t, ctrl, hooks)
	reminder := testReminder()
	view := f.activate(t, reminder, "slot-morning", &domain.SnoozeSettings{})

	gomock.InOrder(
		f.sound.EXPECT().Stop(gomock.Any(), reminder.UserID, reminder.DeviceTokens).Return(nil),
		f.queue.EXPECT().CancelAlarm(gomock.Any(), reminder.ID, "slot-morning").Return(nil),
		f.settings.EXPECT().MarkSessionResolved(gomock.Any(), reminder.ID, "slot-morning", domain.OutcomeDismissed).Return(nil),
	)

	if err := f.manager.Dismiss(context.Background(), view.SessionID); err != nil {
		t.Fatalf("Dismiss() error = %v", err)
	}

	// A snooze racing the dismissal loses; the session is already gone.
	if err := f.manager.Snooze(context.Background(), view.SessionID, 5); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("Snooze() after dismissal error = %v, want ErrSessionNotFound", err)
	}

	if dismissed != 1 {
		t.Errorf("OnDismissed fired %d times, want exactly once", dismissed)
	}
	if snoozed != 0 {
		t.Errorf("OnSnoozed fired %d times, want none", snoozed)
	}
}

func TestCountdownExpiryAutoSnoozesExactlyOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, Hooks{})
	reminder := testReminder()
	f.activate(t, reminder, "slot-morning", &domain.SnoozeSettings{})
	ctx := context.Background()

	f.sound.EXPECT().Stop(gomock.Any(), reminder.UserID, reminder.DeviceTokens).Return(nil).Times(1)
	f.queue.EXPECT().ScheduleAlarm(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, task *taskqueue.AlarmTask) (*taskqueue.TaskResponse, error) {
			delay := time.Until(task.ScheduleAt)
			if delay < 9*time.Minute || delay > 11*time.Minute {
				t.Errorf("auto-snooze delay = %v, want about 10m", delay)
			}
			if task.TimeSlotID != "slot-morning" {
				t.Errorf("auto-snooze task TimeSlotID = %q, want the active slot preserved", task.TimeSlotID)
			}
			return &taskqueue.TaskResponse{Name: task.RemindID}, nil
		}).Times(1)
	f.settings.EXPECT().MarkSessionResolved(gomock.Any(), reminder.ID, "slot-morning", domain.OutcomeAutoSnoozed).Return(nil).Times(1)

	f.tick(ctx, 29)
	if view, ok := f.manager.ActiveSession(); !ok || view.CountdownRemaining != 1 {
		t.Fatalf("after 29 ticks: session ok=%v remaining=%d, want open with 1", ok, view.CountdownRemaining)
	}

	// The 30th tick fires auto-snooze; later ticks find no session.
	f.tick(ctx, 11)

	if _, ok := f.manager.ActiveSession(); ok {
		t.Error("session should be resolved after countdown expiry")
	}
	if _, held := f.registry.ActiveID(); held {
		t.Error("activation guard should be released after auto-snooze")
	}
}

func TestAutoSnoozeFailureLeavesSessionInteractive(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, Hooks{})
	reminder := testReminder()
	view := f.activate(t, reminder, "", &domain.SnoozeSettings{})
	ctx := context.Background()

	// Auto-snooze path: sound stops, scheduling fails.
	gomock.InOrder(
		f.sound.EXPECT().Stop(gomock.Any(), reminder.UserID, reminder.DeviceTokens).Return(nil),
		f.queue.EXPECT().ScheduleAlarm(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("queue unavailable")),
	)

	f.tick(ctx, 45)

	got, ok := f.manager.ActiveSession()
	if !ok {
		t.Fatal("session should stay open after a failed auto-snooze")
	}
	if got.State != domain.StateRunning.String() {
		t.Errorf("State = %q, want running", got.State)
	}
	if got.CountdownRemaining != 0 {
		t.Errorf("CountdownRemaining = %d, want 0", got.CountdownRemaining)
	}

	// The countdown never restarts, so no second auto-snooze attempt fires.
	f.tick(ctx, 60)

	// Manual resolution still works.
	gomock.InOrder(
		f.sound.EXPECT().Stop(gomock.Any(), reminder.UserID, reminder.DeviceTokens).Return(nil),
		f.queue.EXPECT().CancelAlarm(gomock.Any(), reminder.ID, "").Return(nil),
		f.settings.EXPECT().MarkSessionResolved(gomock.Any(), reminder.ID, "", domain.OutcomeDismissed).Return(nil),
	)
	if err := f.manager.Dismiss(ctx, view.SessionID); err != nil {
		t.Fatalf("Dismiss() after failed auto-snooze error = %v", err)
	}
}

func TestAdjustSnoozeMinutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, Hooks{})
	view := f.activate(t, testReminder(), "", &domain.SnoozeSettings{})
	ctx := context.Background()

	minutes, err := f.manager.AdjustSnoozeMinutes(ctx, view.SessionID, 5)
	if err != nil {
		t.Fatalf("AdjustSnoozeMinutes() error = %v", err)
	}
	if minutes != 15 {
		t.Errorf("minutes = %d, want 15", minutes)
	}

	// No ceiling; the floor is one minute.
	minutes, err = f.manager.AdjustSnoozeMinutes(ctx, view.SessionID, -100)
	if err != nil {
		t.Fatalf("AdjustSnoozeMinutes() error = %v", err)
	}
	if minutes != domain.MinSnoozeMinutes {
		t.Errorf("minutes = %d, want floor %d", minutes, domain.MinSnoozeMinutes)
	}

	if _, err := f.manager.AdjustSnoozeMinutes(ctx, "nope", 1); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("unknown session error = %v, want ErrSessionNotFound", err)
	}
}

func TestCloseTearsDownWithoutResolving(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, Hooks{})
	reminder := testReminder()
	f.activate(t, reminder, "", &domain.SnoozeSettings{})

	f.sound.EXPECT().Stop(gomock.Any(), reminder.UserID, reminder.DeviceTokens).Return(nil)

	if err := f.manager.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, ok := f.manager.ActiveSession(); ok {
		t.Error("no session should remain after Close")
	}
	if _, held := f.registry.ActiveID(); held {
		t.Error("activation guard should be released by Close")
	}

	// Close with nothing active is a no-op.
	if err := f.manager.Close(context.Background()); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}
