package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "STORE_DRIVER", "FARE_BASE_RATE_PER_KM", "JWT_TTL", "REDIS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Store.Driver != "postgres" {
		t.Errorf("Store.Driver = %q, want postgres", cfg.Store.Driver)
	}
	if cfg.Fare.BaseRatePerKm != 50 {
		t.Errorf("Fare.BaseRatePerKm = %v, want 50", cfg.Fare.BaseRatePerKm)
	}
	if cfg.Auth.JWTTTL != 24*time.Hour {
		t.Errorf("Auth.JWTTTL = %v, want 24h", cfg.Auth.JWTTTL)
	}
	if !cfg.Redis.Enabled {
		t.Errorf("Redis.Enabled = false, want true")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("FARE_BASE_RATE_PER_KM", "42.5")
	t.Setenv("SIMULATION_MAX_WAIT", "250ms")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()
	if cfg.Store.Driver != "memory" {
		t.Errorf("Store.Driver = %q, want memory", cfg.Store.Driver)
	}
	if cfg.Fare.BaseRatePerKm != 42.5 {
		t.Errorf("Fare.BaseRatePerKm = %v, want 42.5", cfg.Fare.BaseRatePerKm)
	}
	if cfg.Simulation.MaxWait != 250*time.Millisecond {
		t.Errorf("Simulation.MaxWait = %v, want 250ms", cfg.Simulation.MaxWait)
	}
	if cfg.Redis.Enabled || cfg.Redis.DB != 3 {
		t.Errorf("Redis = %+v, want disabled on db 3", cfg.Redis)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "three")
	t.Setenv("FARE_BASE_RATE_PER_KM", "cheap")
	t.Setenv("SERVER_READ_TIMEOUT", "soon")

	cfg := Load()
	if cfg.Redis.DB != 0 || cfg.Fare.BaseRatePerKm != 50 || cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("expected defaults for unparsable values, got %+v %+v %+v", cfg.Redis, cfg.Fare, cfg.Server)
	}
}
