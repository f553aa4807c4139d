package repository

import "errors"

var (
	ErrInvalidSettingsData   = errors.New("invalid snooze settings data")
	ErrInvalidResolutionData = errors.New("invalid resolution data")
)
