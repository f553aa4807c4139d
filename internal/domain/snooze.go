package domain

// DefaultSnoozeMinutes is used when the user has no custom snooze duration
// configured. Auto-snooze always uses this fixed duration.
const DefaultSnoozeMinutes = 10

// SnoozeSettings is the per-user snooze configuration read at session start.
type SnoozeSettings struct {
	UseCustom     bool
	CustomMinutes int
}

// InitialMinutes returns the snooze duration a fresh session starts with.
func (s *SnoozeSettings) InitialMinutes() int {
	if s != nil && s.UseCustom && s.CustomMinutes >= MinSnoozeMinutes {
		return s.CustomMinutes
	}
	return DefaultSnoozeMinutes
}
