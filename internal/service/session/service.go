package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-alarm-session/internal/domain"
	"github.com/KasumiMercury/primind-alarm-session/internal/infra/sound"
	"github.com/KasumiMercury/primind-alarm-session/internal/infra/taskqueue"
	"github.com/KasumiMercury/primind-alarm-session/internal/observability/metrics"
	"github.com/KasumiMercury/primind-alarm-session/internal/observability/tracing"
)

const (
	countdownInterval = time.Second
	displayInterval   = time.Second
)

// activeSession pairs the domain session with the goroutine plumbing that
// drives it. done is closed exactly once, when the session leaves the
// manager for any reason.
type activeSession struct {
	*domain.AlarmSession
	done     chan struct{}
	stopOnce sync.Once
}

func (a *activeSession) stop() {
	a.stopOnce.Do(func() {
		close(a.done)
	})
}

// Manager owns the single active alarm session. All state transitions are
// serialized through its mutex; the ticker goroutine re-enters through the
// same lock, so ticks and user resolutions never interleave mid-transition.
type Manager struct {
	registry       *ActivationRegistry
	settings       domain.SettingsRepository
	queue          taskqueue.TaskQueue
	sound          sound.Controller
	recorder       domain.SessionResultRecorder
	sessionMetrics *metrics.SessionMetrics
	hooks          Hooks
	newTicker      TickerFactory
	cfg            Config

	mu      sync.Mutex
	current *activeSession
}

func NewManager(
	registry *ActivationRegistry,
	settings domain.SettingsRepository,
	queue taskqueue.TaskQueue,
	soundCtrl sound.Controller,
	recorder domain.SessionResultRecorder,
	sessionMetrics *metrics.SessionMetrics,
	hooks Hooks,
	cfg Config,
) *Manager {
	if cfg.CountdownSeconds <= 0 {
		cfg.CountdownSeconds = 30
	}
	if cfg.DefaultSnoozeMinutes < domain.MinSnoozeMinutes {
		cfg.DefaultSnoozeMinutes = domain.DefaultSnoozeMinutes
	}
	if cfg.AutoSnoozeMinutes < domain.MinSnoozeMinutes {
		cfg.AutoSnoozeMinutes = domain.DefaultSnoozeMinutes
	}

	return &Manager{
		registry:       registry,
		settings:       settings,
		queue:          queue,
		sound:          soundCtrl,
		recorder:       recorder,
		sessionMetrics: sessionMetrics,
		hooks:          hooks,
		newTicker:      newRealTicker,
		cfg:            cfg,
	}
}

// Activate starts a session for a triggered reminder. A second trigger while
// a session is active returns ErrSessionActive without any side effects; a
// trigger for a firing that was already resolved returns ErrSessionResolved.
func (m *Manager) Activate(ctx context.Context, input ActivateInput) (View, error) {
	ctx, span := tracing.StartActivationSpan(ctx, input.Reminder.ID, input.TimeSlotID)
	defer span.End()

	resolved, err := m.settings.IsSessionResolved(ctx, input.Reminder.ID, input.TimeSlotID)
	if err != nil {
		slog.WarnContext(ctx, "failed to check resolved marker, continuing with activation",
			slog.String("remind_id", input.Reminder.ID),
			slog.String("error", err.Error()),
		)
	} else if resolved {
		tracing.RecordActivationResult(span, "", false, domain.ErrSessionResolved)
		return View{}, domain.ErrSessionResolved
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		if m.sessionMetrics != nil {
			m.sessionMetrics.RecordDuplicateActivation(ctx)
		}
		slog.InfoContext(ctx, "trigger rejected, another session is active",
			slog.String("remind_id", input.Reminder.ID),
			slog.String("active_session_id", m.current.ID),
		)
		tracing.RecordActivationResult(span, m.current.ID, true, nil)
		return View{}, domain.ErrSessionActive
	}

	sessionID := uuid.NewString()
	if !m.registry.TryActivate(sessionID) {
		if m.sessionMetrics != nil {
			m.sessionMetrics.RecordDuplicateActivation(ctx)
		}
		tracing.RecordActivationResult(span, "", true, nil)
		return View{}, domain.ErrSessionActive
	}

	sess := domain.NewAlarmSession(
		sessionID,
		input.Reminder,
		input.TimeSlotID,
		m.cfg.CountdownSeconds,
		m.cfg.DefaultSnoozeMinutes,
	)

	settings, err := m.settings.GetSnoozeSettings(ctx, input.Reminder.UserID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load snooze settings, keeping default",
			slog.String("session_id", sessionID),
			slog.String("user_id", input.Reminder.UserID),
			slog.String("error", err.Error()),
		)
	} else {
		sess.ApplyLoadedSnoozeMinutes(settings.InitialMinutes())
	}

	if input.TimeSlotID != "" && sess.ActiveSlot == nil {
		slog.WarnContext(ctx, "time slot not found on reminder, session runs without slot context",
			slog.String("remind_id", input.Reminder.ID),
			slog.String("time_slot_id", input.TimeSlotID),
		)
	}

	active := &activeSession{
		AlarmSession: sess,
		done:         make(chan struct{}),
	}
	m.current = active

	if m.sessionMetrics != nil {
		m.sessionMetrics.RecordActivation(ctx)
	}

	slog.InfoContext(ctx, "alarm session activated",
		slog.String("session_id", sessionID),
		slog.String("remind_id", input.Reminder.ID),
		slog.String("time_slot_id", sess.ActiveSlotID()),
		slog.Int("countdown_seconds", sess.CountdownRemaining),
	)

	go m.run(context.WithoutCancel(ctx), active)

	tracing.RecordActivationResult(span, sessionID, false, nil)
	return viewOf(sess), nil
}

func (m *Manager) run(ctx context.Context, active *activeSession) {
	countdown := m.newTicker(countdownInterval)
	defer countdown.Stop()
	display := m.newTicker(displayInterval)
	defer display.Stop()

	for {
		select {
		case <-active.done:
			return
		case <-countdown.C():
			m.tickCountdown(ctx, active)
		case <-display.C():
			m.refreshDisplay(active)
		}
	}
}

// tickCountdown advances the auto-snooze countdown by one second. The
// liveness check guards against a tick that raced with resolution teardown.
func (m *Manager) tickCountdown(ctx context.Context, active *activeSession) {
	m.mu.Lock()

	if m.current != active {
		m.mu.Unlock()
		return
	}

	expired := active.TickCountdown()
	if !expired {
		m.mu.Unlock()
		return
	}

	slog.InfoContext(ctx, "countdown expired, auto-snoozing",
		slog.String("session_id", active.ID),
	)
	m.autoSnoozeLocked(ctx, active)
	m.mu.Unlock()
}

func (m *Manager) refreshDisplay(active *activeSession) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != active {
		return
	}
	active.DisplayTime = time.Now().UTC()
}

// Dismiss resolves the active session as dismissed. A collaborator failure
// rolls the session back to Running so the user can retry.
func (m *Manager) Dismiss(ctx context.Context, sessionID string) error {
	ctx, span := tracing.StartResolutionSpan(ctx, domain.OutcomeDismissed.String(), sessionID)
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	active, err := m.lookupLocked(sessionID)
	if err != nil {
		tracing.RecordResolutionResult(span, 0, err)
		return err
	}

	if err := active.BeginResolution(domain.StateDismissing); err != nil {
		tracing.RecordResolutionResult(span, 0, err)
		return err
	}

	if err := m.sound.Stop(ctx, active.Reminder.UserID, active.Reminder.DeviceTokens); err != nil {
		m.rollbackLocked(ctx, active, domain.OutcomeDismissed, err)
		wrapped := fmt.Errorf("stop alarm sound: %w", err)
		tracing.RecordResolutionResult(span, 0, wrapped)
		return wrapped
	}

	if err := m.cancelAlarmTask(ctx, active); err != nil {
		m.rollbackLocked(ctx, active, domain.OutcomeDismissed, err)
		wrapped := fmt.Errorf("cancel pending alarm task: %w", err)
		tracing.RecordResolutionResult(span, 0, wrapped)
		return wrapped
	}

	view := viewOf(active.AlarmSession)
	m.finalizeLocked(ctx, active, domain.OutcomeDismissed, 0)

	if m.hooks.OnDismissed != nil {
		m.hooks.OnDismissed(ctx, view)
	}

	tracing.RecordResolutionResult(span, 0, nil)
	return nil
}

// Snooze resolves the active session as snoozed and schedules the alarm to
// fire again. minutes <= 0 means "use the session's current snooze
// duration"; an explicit value below the floor is clamped.
func (m *Manager) Snooze(ctx context.Context, sessionID string, minutes int) error {
	ctx, span := tracing.StartResolutionSpan(ctx, domain.OutcomeSnoozed.String(), sessionID)
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	active, err := m.lookupLocked(sessionID)
	if err != nil {
		tracing.RecordResolutionResult(span, minutes, err)
		return err
	}

	if minutes <= 0 {
		minutes = active.SnoozeMinutes
	}
	if minutes < domain.MinSnoozeMinutes {
		minutes = domain.MinSnoozeMinutes
	}

	if err := active.BeginResolution(domain.StateSnoozing); err != nil {
		tracing.RecordResolutionResult(span, minutes, err)
		return err
	}

	if err := m.sound.Stop(ctx, active.Reminder.UserID, active.Reminder.DeviceTokens); err != nil {
		m.rollbackLocked(ctx, active, domain.OutcomeSnoozed, err)
		wrapped := fmt.Errorf("stop alarm sound: %w", err)
		tracing.RecordResolutionResult(span, minutes, wrapped)
		return wrapped
	}

	if err := m.scheduleSnoozeLocked(ctx, active, minutes); err != nil {
		m.rollbackLocked(ctx, active, domain.OutcomeSnoozed, err)
		wrapped := fmt.Errorf("schedule snoozed alarm: %w", err)
		tracing.RecordResolutionResult(span, minutes, wrapped)
		return wrapped
	}

	view := viewOf(active.AlarmSession)
	m.finalizeLocked(ctx, active, domain.OutcomeSnoozed, minutes)

	if m.hooks.OnSnoozed != nil {
		m.hooks.OnSnoozed(ctx, view, minutes)
	}

	tracing.RecordResolutionResult(span, minutes, nil)
	return nil
}

// autoSnoozeLocked handles countdown expiry. Unlike user-driven resolution,
// a collaborator failure here is logged and swallowed: the session rolls
// back to Running and stays interactive, but the countdown does not restart.
func (m *Manager) autoSnoozeLocked(ctx context.Context, active *activeSession) {
	if err := active.BeginResolution(domain.StateAutoSnoozing); err != nil {
		// A user resolution won the race; the expiry is moot.
		return
	}

	if err := m.sound.Stop(ctx, active.Reminder.UserID, active.Reminder.DeviceTokens); err != nil {
		// Keep going: a dangling tone is recoverable, a lost reschedule is
		// not. Teardown stops the sound again anyway.
		slog.WarnContext(ctx, "failed to stop sound during auto-snooze",
			slog.String("session_id", active.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := m.scheduleSnoozeLocked(ctx, active, m.cfg.AutoSnoozeMinutes); err != nil {
		active.RollbackResolution()
		if m.sessionMetrics != nil {
			m.sessionMetrics.RecordResolutionFailure(ctx, domain.OutcomeAutoSnoozed.String())
		}
		slog.ErrorContext(ctx, "auto-snooze scheduling failed, session stays open for manual resolution",
			slog.String("session_id", active.ID),
			slog.String("remind_id", active.Reminder.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	m.finalizeLocked(ctx, active, domain.OutcomeAutoSnoozed, m.cfg.AutoSnoozeMinutes)
}

func (m *Manager) cancelAlarmTask(ctx context.Context, active *activeSession) error {
	if m.queue == nil {
		slog.WarnContext(ctx, "task queue disabled, skipping alarm task cancellation",
			slog.String("session_id", active.ID),
		)
		return nil
	}
	return m.queue.CancelAlarm(ctx, active.Reminder.ID, active.ActiveSlotID())
}

func (m *Manager) scheduleSnoozeLocked(ctx context.Context, active *activeSession, minutes int) error {
	if m.queue == nil {
		slog.WarnContext(ctx, "task queue disabled, snoozed alarm will not re-fire",
			slog.String("session_id", active.ID),
			slog.Int("snooze_minutes", minutes),
		)
		return nil
	}

	task := &taskqueue.AlarmTask{
		RemindID:     active.Reminder.ID,
		UserID:       active.Reminder.UserID,
		TaskID:       active.Reminder.TaskID,
		TimeSlotID:   active.ActiveSlotID(),
		Title:        active.Reminder.Title,
		DeviceTokens: active.Reminder.DeviceTokens,
		ScheduleAt:   time.Now().UTC().Add(time.Duration(minutes) * time.Minute),
	}

	resp, err := m.queue.ScheduleAlarm(ctx, task)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "snoozed alarm scheduled",
		slog.String("session_id", active.ID),
		slog.String("task_name", resp.Name),
		slog.Int("snooze_minutes", minutes),
		slog.Time("schedule_at", task.ScheduleAt),
	)
	return nil
}

// rollbackLocked undoes a failed resolution attempt. The session returns to
// Running and remains resolvable; the countdown, if already expired, stays
// expired.
func (m *Manager) rollbackLocked(ctx context.Context, active *activeSession, outcome domain.Outcome, cause error) {
	active.RollbackResolution()
	if m.sessionMetrics != nil {
		m.sessionMetrics.RecordResolutionFailure(ctx, outcome.String())
	}
	slog.WarnContext(ctx, "resolution attempt rolled back",
		slog.String("session_id", active.ID),
		slog.String("outcome", outcome.String()),
		slog.String("error", cause.Error()),
	)
}

// finalizeLocked closes out a committed resolution: the session is marked
// resolved, the guard is released, the tickers stop, and the resolved marker
// and result record are written. Failures past this point are logged only;
// the resolution itself already succeeded.
func (m *Manager) finalizeLocked(ctx context.Context, active *activeSession, outcome domain.Outcome, snoozeMinutes int) {
	if err := active.MarkResolved(); err != nil {
		slog.ErrorContext(ctx, "failed to mark session resolved",
			slog.String("session_id", active.ID),
			slog.String("error", err.Error()),
		)
	}

	ringDuration := time.Since(active.StartedAt)

	m.current = nil
	m.registry.Release(active.ID)
	active.stop()

	if err := m.settings.MarkSessionResolved(ctx, active.Reminder.ID, active.ActiveSlotID(), outcome); err != nil {
		slog.WarnContext(ctx, "failed to persist resolved marker",
			slog.String("session_id", active.ID),
			slog.String("remind_id", active.Reminder.ID),
			slog.String("error", err.Error()),
		)
	}

	if m.recorder != nil {
		record := &domain.SessionResultRecord{
			SessionID:     active.ID,
			RemindID:      active.Reminder.ID,
			UserID:        active.Reminder.UserID,
			TimeSlotID:    active.ActiveSlotID(),
			Outcome:       outcome.String(),
			SnoozeMinutes: snoozeMinutes,
			RingDuration:  ringDuration,
			ResolvedAt:    time.Now().UTC(),
		}
		if err := m.recorder.RecordResolution(ctx, record); err != nil {
			slog.WarnContext(ctx, "failed to record session result",
				slog.String("session_id", active.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if m.sessionMetrics != nil {
		m.sessionMetrics.RecordResolution(ctx, outcome.String(), ringDuration)
	}

	slog.InfoContext(ctx, "alarm session resolved",
		slog.String("session_id", active.ID),
		slog.String("remind_id", active.Reminder.ID),
		slog.String("outcome", outcome.String()),
		slog.Duration("ring_duration", ringDuration),
	)
}

// AdjustSnoozeMinutes moves the active session's snooze duration by delta
// minutes and returns the new value.
func (m *Manager) AdjustSnoozeMinutes(ctx context.Context, sessionID string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	active, err := m.lookupLocked(sessionID)
	if err != nil {
		return 0, err
	}
	if active.State.IsResolving() {
		return 0, domain.ErrAlreadyResolving
	}

	minutes := active.AdjustSnoozeMinutes(delta)
	slog.DebugContext(ctx, "snooze duration adjusted",
		slog.String("session_id", sessionID),
		slog.Int("delta", delta),
		slog.Int("snooze_minutes", minutes),
	)
	return minutes, nil
}

// ActiveSession returns a snapshot of the current session, if any.
func (m *Manager) ActiveSession() (View, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return View{}, false
	}
	return viewOf(m.current.AlarmSession), true
}

func (m *Manager) lookupLocked(sessionID string) (*activeSession, error) {
	if m.current == nil {
		return nil, domain.ErrSessionNotFound
	}
	if m.current.ID != sessionID {
		return nil, domain.ErrSessionNotFound
	}
	return m.current, nil
}

// Close tears down whatever session is still active at shutdown. The sound
// is stopped best-effort, both tickers stop, and the guard is released. The
// session is not resolved; a restart may re-trigger it.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	active := m.current
	m.current = nil
	m.mu.Unlock()

	if active == nil {
		return nil
	}

	active.stop()
	m.registry.Release(active.ID)

	if err := m.sound.Stop(ctx, active.Reminder.UserID, active.Reminder.DeviceTokens); err != nil {
		slog.WarnContext(ctx, "failed to stop sound during shutdown",
			slog.String("session_id", active.ID),
			slog.String("error", err.Error()),
		)
	}

	slog.InfoContext(ctx, "alarm session torn down without resolution",
		slog.String("session_id", active.ID),
		slog.String("remind_id", active.Reminder.ID),
	)
	return nil
}
