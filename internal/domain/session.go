package domain

import (
	"time"
)

// ResolutionState tracks the lifecycle of an alarm session. A session is
// created Running; exactly one of the resolving states commits it, and every
// resolving state ends in Resolved. Idle is only reached when the activation
// guard rejects a duplicate trigger.
type ResolutionState string

const (
	StateIdle         ResolutionState = "idle"
	StateRunning      ResolutionState = "running"
	StateDismissing   ResolutionState = "dismissing"
	StateSnoozing     ResolutionState = "snoozing"
	StateAutoSnoozing ResolutionState = "auto_snoozing"
	StateResolved     ResolutionState = "resolved"
)

func (s ResolutionState) String() string {
	return string(s)
}

// IsResolving reports whether a resolution path has been committed.
func (s ResolutionState) IsResolving() bool {
	return s == StateDismissing || s == StateSnoozing || s == StateAutoSnoozing
}

// Outcome names the resolution path that closed a session.
type Outcome string

const (
	OutcomeDismissed   Outcome = "dismissed"
	OutcomeSnoozed     Outcome = "snoozed"
	OutcomeAutoSnoozed Outcome = "auto_snoozed"
)

func (o Outcome) String() string {
	return string(o)
}

// MinSnoozeMinutes is the floor for the user-adjustable snooze duration.
// There is no ceiling.
const MinSnoozeMinutes = 1

// ActiveTimeSlot is the slot snapshot resolved at session start. It is never
// mutated afterwards.
type ActiveTimeSlot struct {
	ID          string
	TimeOfDay   string
	Description string
}

// AlarmSession is the runtime state for one firing of a reminder. All
// mutation goes through the methods below; the session manager serializes
// access.
type AlarmSession struct {
	ID                 string
	Reminder           Reminder
	ActiveSlot         *ActiveTimeSlot
	State              ResolutionState
	CountdownRemaining int
	SnoozeMinutes      int
	SnoozeAdjusted     bool
	CountdownExpired   bool
	StartedAt          time.Time
	DisplayTime        time.Time
}

// NewAlarmSession builds a Running session for a triggered reminder. The slot
// identifier, when present, is resolved against the reminder's slot list; an
// unknown identifier leaves the session without slot context.
func NewAlarmSession(id string, reminder Reminder, slotID string, countdownSeconds, snoozeMinutes int) *AlarmSession {
	s := &AlarmSession{
		ID:                 id,
		Reminder:           reminder,
		State:              StateRunning,
		CountdownRemaining: countdownSeconds,
		SnoozeMinutes:      snoozeMinutes,
		StartedAt:          time.Now().UTC(),
		DisplayTime:        time.Now().UTC(),
	}

	if slot, ok := reminder.FindTimeSlot(slotID); ok {
		s.ActiveSlot = &ActiveTimeSlot{
			ID:          slot.ID,
			TimeOfDay:   slot.TimeOfDay,
			Description: slot.Description,
		}
	}

	return s
}

// ActiveSlotID returns the resolved slot identifier, or "" when the session
// runs without slot context.
func (s *AlarmSession) ActiveSlotID() string {
	if s.ActiveSlot == nil {
		return ""
	}
	return s.ActiveSlot.ID
}

// BeginResolution commits the session to a single resolution path. Only a
// Running session accepts the transition; concurrent dismiss/snooze attempts
// and late countdown expiries are rejected here.
func (s *AlarmSession) BeginResolution(next ResolutionState) error {
	if !next.IsResolving() {
		return ErrInvalidTransition
	}
	if s.State.IsResolving() || s.State == StateResolved {
		return ErrAlreadyResolving
	}
	if s.State != StateRunning {
		return ErrInvalidTransition
	}

	s.State = next
	return nil
}

// RollbackResolution returns a failed resolution attempt to Running so the
// user can retry. The countdown-expired marker is preserved; an expired
// countdown never restarts.
func (s *AlarmSession) RollbackResolution() {
	if s.State.IsResolving() {
		s.State = StateRunning
	}
}

// MarkResolved finishes a committed resolution path.
func (s *AlarmSession) MarkResolved() error {
	if !s.State.IsResolving() {
		return ErrInvalidTransition
	}
	s.State = StateResolved
	return nil
}

// TickCountdown decrements the auto-snooze countdown by one second. It
// reports true when the countdown has just reached zero; the caller then
// triggers auto-snooze exactly once.
func (s *AlarmSession) TickCountdown() bool {
	if s.State != StateRunning || s.CountdownExpired {
		return false
	}

	if s.CountdownRemaining > 0 {
		s.CountdownRemaining--
	}

	if s.CountdownRemaining == 0 {
		s.CountdownExpired = true
		return true
	}
	return false
}

// AdjustSnoozeMinutes moves the chosen snooze duration by delta minutes,
// clamped at the floor. Marks the session user-adjusted so a late settings
// load cannot overwrite the choice.
func (s *AlarmSession) AdjustSnoozeMinutes(delta int) int {
	next := s.SnoozeMinutes + delta
	if next < MinSnoozeMinutes {
		next = MinSnoozeMinutes
	}
	s.SnoozeMinutes = next
	s.SnoozeAdjusted = true
	return s.SnoozeMinutes
}

// ApplyLoadedSnoozeMinutes sets the initial snooze duration from persisted
// settings. A value the user already adjusted wins over the loaded one.
func (s *AlarmSession) ApplyLoadedSnoozeMinutes(minutes int) {
	if s.SnoozeAdjusted || minutes < MinSnoozeMinutes {
		return
	}
	s.SnoozeMinutes = minutes
}
