package config

import (
	"testing"
	"time"
)

func TestLoadPartitionConfigDefaults(t *testing.T) {
	cfg := LoadPartitionConfig()
	if cfg.MonthsAhead != 3 {
		t.Errorf("MonthsAhead = %d, want 3", cfg.MonthsAhead)
	}
	if cfg.RetentionMonths != 6 {
		t.Errorf("RetentionMonths = %d, want 6", cfg.RetentionMonths)
	}
	if cfg.SweepInterval != 12*time.Hour {
		t.Errorf("SweepInterval = %s, want 12h", cfg.SweepInterval)
	}
}

func TestLoadPartitionConfigFromEnv(t *testing.T) {
	t.Setenv("PARTITION_MONTHS_AHEAD", "5")
	t.Setenv("PARTITION_RETENTION_MONTHS", "12")
	t.Setenv("PARTITION_SWEEP_INTERVAL", "1h")

	cfg := LoadPartitionConfig()
	if cfg.MonthsAhead != 5 || cfg.RetentionMonths != 12 || cfg.SweepInterval != time.Hour {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 {
		t.Errorf("Capacity = %d, want clamp to 1", cfg.Capacity)
	}
	if cfg.RefillTokens != 1 {
		t.Errorf("RefillTokens = %d, want clamp to 1", cfg.RefillTokens)
	}
	if cfg.TTL < 5*cfg.RefillInterval {
		t.Errorf("TTL = %s, want at least 5x refill interval", cfg.TTL)
	}
}
