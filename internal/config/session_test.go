package config

import (
	"errors"
	"testing"
)

func TestLoadSessionConfigDefaults(t *testing.T) {
	cfg, err := LoadSessionConfig()
	if err != nil {
		t.Fatalf("LoadSessionConfig() error = %v", err)
	}

	if cfg.CountdownSeconds != 30 {
		t.Errorf("CountdownSeconds = %d, want 30", cfg.CountdownSeconds)
	}
	if cfg.DefaultSnoozeMinutes != 10 {
		t.Errorf("DefaultSnoozeMinutes = %d, want 10", cfg.DefaultSnoozeMinutes)
	}
	if cfg.AutoSnoozeMinutes != 10 {
		t.Errorf("AutoSnoozeMinutes = %d, want 10", cfg.AutoSnoozeMinutes)
	}
}

func TestLoadSessionConfigOverrides(t *testing.T) {
	t.Setenv("ALARM_COUNTDOWN_SECONDS", "45")
	t.Setenv("DEFAULT_SNOOZE_MINUTES", "5")
	t.Setenv("AUTO_SNOOZE_MINUTES", "15")

	cfg, err := LoadSessionConfig()
	if err != nil {
		t.Fatalf("LoadSessionConfig() error = %v", err)
	}

	if cfg.CountdownSeconds != 45 {
		t.Errorf("CountdownSeconds = %d, want 45", cfg.CountdownSeconds)
	}
	if cfg.DefaultSnoozeMinutes != 5 {
		t.Errorf("DefaultSnoozeMinutes = %d, want 5", cfg.DefaultSnoozeMinutes)
	}
	if cfg.AutoSnoozeMinutes != 15 {
		t.Errorf("AutoSnoozeMinutes = %d, want 15", cfg.AutoSnoozeMinutes)
	}
}

func TestLoadSessionConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		value   string
		wantErr error
	}{
		{"zero countdown", "ALARM_COUNTDOWN_SECONDS", "0", ErrInvalidCountdownSeconds},
		{"non-numeric countdown", "ALARM_COUNTDOWN_SECONDS", "abc", ErrInvalidCountdownSeconds},
		{"snooze below floor", "DEFAULT_SNOOZE_MINUTES", "0", ErrInvalidSnoozeMinutes},
		{"auto-snooze below floor", "AUTO_SNOOZE_MINUTES", "-1", ErrInvalidSnoozeMinutes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)

			if _, err := LoadSessionConfig(); !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadSessionConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
