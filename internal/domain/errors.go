package domain

import "errors"

var (
	ErrSessionActive     = errors.New("another alarm session is already active")
	ErrSessionNotFound   = errors.New("alarm session not found")
	ErrSessionResolved   = errors.New("alarm session already resolved")
	ErrAlreadyResolving  = errors.New("resolution already in progress")
	ErrInvalidTransition = errors.New("invalid resolution state transition")
	ErrSettingsNotFound  = errors.New("snooze settings not found")
)
