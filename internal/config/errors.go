package config

import "errors"

var (
	ErrRedisAddrMissing        = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB          = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidCountdownSeconds = errors.New("ALARM_COUNTDOWN_SECONDS must be a positive integer")
	ErrInvalidSnoozeMinutes    = errors.New("snooze minutes must be an integer of at least 1")
)
