package config

import (
	"os"
	"strconv"
)

const (
	countdownSecondsEnv     = "ALARM_COUNTDOWN_SECONDS"
	defaultSnoozeMinutesEnv = "DEFAULT_SNOOZE_MINUTES"
	autoSnoozeMinutesEnv    = "AUTO_SNOOZE_MINUTES"

	defaultCountdownSeconds = 30
	defaultSnoozeMinutes    = 10
	defaultAutoSnoozeMins   = 10
)

type SessionConfig struct {
	CountdownSeconds     int
	DefaultSnoozeMinutes int
	AutoSnoozeMinutes    int
}

func LoadSessionConfig() (*SessionConfig, error) {
	countdown := defaultCountdownSeconds
	if v := os.Getenv(countdownSecondsEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, ErrInvalidCountdownSeconds
		}
		countdown = parsed
	}

	snooze := defaultSnoozeMinutes
	if v := os.Getenv(defaultSnoozeMinutesEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, ErrInvalidSnoozeMinutes
		}
		snooze = parsed
	}

	autoSnooze := defaultAutoSnoozeMins
	if v := os.Getenv(autoSnoozeMinutesEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, ErrInvalidSnoozeMinutes
		}
		autoSnooze = parsed
	}

	return &SessionConfig{
		CountdownSeconds:     countdown,
		DefaultSnoozeMinutes: snooze,
		AutoSnoozeMinutes:    autoSnooze,
	}, nil
}
