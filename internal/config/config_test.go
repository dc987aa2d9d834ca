package config_test

import (
	"testing"
	"time"

	"github.com/fardannozami/streak-limpo/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.CacheBackend != config.CacheBackendDiskv {
		t.Errorf("CacheBackend: expected diskv, got %s", cfg.CacheBackend)
	}
	if cfg.SQLitePath != "./data/streak.db" {
		t.Errorf("SQLitePath: expected default, got %s", cfg.SQLitePath)
	}
	if cfg.MirrorTimeout() != 10*time.Second {
		t.Errorf("MirrorTimeout: expected 10s, got %v", cfg.MirrorTimeout())
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("TIMEZONE", "America/Sao_Paulo")
	t.Setenv("SHOW_TYPING", "true")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.RedisAddr() != "cache:6380" {
		t.Errorf("RedisAddr: expected cache:6380, got %s", cfg.RedisAddr())
	}
	if cfg.Timezone != "America/Sao_Paulo" {
		t.Errorf("Timezone: got %s", cfg.Timezone)
	}
	if !cfg.ShowTyping {
		t.Error("ShowTyping should be true")
	}
}

func TestValidate_RejectsUnknownBackend(t *testing.T) {
	cfg := &config.Config{CacheBackend: "memcached", MirrorTimeoutMs: 1}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown cache backend")
	}
}

func TestValidate_MetricsPort(t *testing.T) {
	cfg := &config.Config{CacheBackend: "diskv", MirrorTimeoutMs: 1, MetricsEnabled: true, MetricsPort: 70000}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out of range metrics port")
	}
}
