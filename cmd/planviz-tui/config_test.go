package main

import (
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig([]string{"-plan", "plan.json"})
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Store != defaultStore {
		t.Errorf("Expected default store %s, got %s", defaultStore, cfg.Store)
	}
	if cfg.InstanceID != defaultInstance {
		t.Errorf("Expected default instance, got %s", cfg.InstanceID)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("Unexpected redis addr: %s", cfg.RedisAddr)
	}
}

func TestLoadConfig_StoreValidation(t *testing.T) {
	for _, kind := range []string{"sqlite", "file", "redis", "none"} {
		if _, err := LoadConfig([]string{"-plan", "p.json", "-store", kind}); err != nil {
			t.Errorf("Store %q should be accepted: %v", kind, err)
		}
	}
	if _, err := LoadConfig([]string{"-plan", "p.json", "-store", "postgres"}); err == nil {
		t.Error("Expected an error for unknown store backend")
	}
}

func TestLoadConfig_EnvStore(t *testing.T) {
	t.Setenv("PLANVIZ_STORE", "redis")
	t.Setenv("PLANVIZ_REDIS_ADDR", "redis.internal:6380")
	t.Setenv("PLANVIZ_INSTANCE", "team-a")

	cfg, err := LoadConfig([]string{"-plan", "p.json"})
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Store != "redis" {
		t.Errorf("Env store not honored, got %s", cfg.Store)
	}
	if cfg.RedisAddr != "redis.internal:6380" {
		t.Errorf("Env redis addr not honored, got %s", cfg.RedisAddr)
	}
	if cfg.InstanceID != "team-a" {
		t.Errorf("Env instance not honored, got %s", cfg.InstanceID)
	}
}

func TestLoadConfig_MissingPlan(t *testing.T) {
	if _, err := LoadConfig(nil); err == nil {
		t.Error("Expected an error without a plan path")
	}
}
