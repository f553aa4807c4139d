package config

import "errors"

func ValidateForRun(cfg *Config) error {
	if cfg.PushRelayURL == "" {
		return errors.New("PUSH_RELAY_URL environment variable is required")
	}
	return cfg.Redis.Validate()
}
