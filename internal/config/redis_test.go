package config

import (
	"errors"
	"testing"
)

func TestLoadRedisConfigDefaults(t *testing.T) {
	cfg, err := LoadRedisConfig()
	if err != nil {
		t.Fatalf("LoadRedisConfig() error = %v", err)
	}

	if cfg.Addr != "localhost:6379" {
		t.Errorf("Addr = %q, want localhost:6379", cfg.Addr)
	}
	if cfg.DB != 0 {
		t.Errorf("DB = %d, want 0", cfg.DB)
	}
	if cfg.TLS {
		t.Error("TLS = true, want false")
	}
}

func TestLoadRedisConfigRejectsBadDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	if _, err := LoadRedisConfig(); !errors.Is(err, ErrInvalidRedisDB) {
		t.Errorf("LoadRedisConfig() error = %v, want %v", err, ErrInvalidRedisDB)
	}
}

func TestRedisConfigOptions(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_TLS", "true")

	cfg, err := LoadRedisConfig()
	if err != nil {
		t.Fatalf("LoadRedisConfig() error = %v", err)
	}

	opts := cfg.Options()
	if opts.Addr != "redis.internal:6380" {
		t.Errorf("Addr = %q, want redis.internal:6380", opts.Addr)
	}
	if opts.Password != "secret" {
		t.Errorf("Password = %q, want secret", opts.Password)
	}
	if opts.DB != 2 {
		t.Errorf("DB = %d, want 2", opts.DB)
	}
	if opts.TLSConfig == nil {
		t.Error("TLSConfig = nil, want configured when REDIS_TLS=true")
	}
}

func TestRedisConfigOptionsWithoutTLS(t *testing.T) {
	cfg := &RedisConfig{Addr: "localhost:6379"}

	if opts := cfg.Options(); opts.TLSConfig != nil {
		t.Error("TLSConfig set without REDIS_TLS")
	}
}

func TestRedisConfigValidate(t *testing.T) {
	var nilCfg *RedisConfig
	if err := nilCfg.Validate(); !errors.Is(err, ErrRedisAddrMissing) {
		t.Errorf("nil config Validate() error = %v, want %v", err, ErrRedisAddrMissing)
	}
	if err := (&RedisConfig{}).Validate(); !errors.Is(err, ErrRedisAddrMissing) {
		t.Errorf("empty addr Validate() error = %v, want %v", err, ErrRedisAddrMissing)
	}
	if err := (&RedisConfig{Addr: "localhost:6379"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}
