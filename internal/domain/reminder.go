package domain

import "time"

// Reminder is the read-only snapshot of a user reminder delivered with a
// trigger request. The session never mutates it.
type Reminder struct {
	ID                  string
	UserID              string
	Title               string
	Description         string
	Time                time.Time
	TimeSlots           []TimeSlot
	TaskID              string
	DeviceTokens        []string
	NotificationEnabled bool
}

// TimeSlot is one of several independent times-of-day at which a
// multi-time reminder fires.
type TimeSlot struct {
	ID          string
	TimeOfDay   string
	Description string
}

// FindTimeSlot resolves a slot identifier against the reminder's slot list.
// An empty identifier never matches.
func (r *Reminder) FindTimeSlot(slotID string) (*TimeSlot, bool) {
	if slotID == "" {
		return nil, false
	}
	for i := range r.TimeSlots {
		if r.TimeSlots[i].ID == slotID {
			return &r.TimeSlots[i], true
		}
	}
	return nil, false
}

// HasTimeSlots reports whether the reminder fires at multiple times per day.
func (r *Reminder) HasTimeSlots() bool {
	return len(r.TimeSlots) > 0
}
