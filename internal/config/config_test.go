package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Upload.MaxFileSize != 16777216 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 16777216)
	}
	if cfg.Upload.TTL != time.Hour {
		t.Errorf("Upload.TTL = %s, want 1h", cfg.Upload.TTL)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("Store.Driver = %q, want memory", cfg.Store.Driver)
	}
	if cfg.Rate.RequestsPerMinute != 100 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 100)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("UPLOAD_MAX_FILE_SIZE", "1024")
	t.Setenv("UPLOAD_TTL", "30m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Upload.MaxFileSize != 1024 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 1024)
	}
	if cfg.Upload.TTL != 30*time.Minute {
		t.Errorf("Upload.TTL = %s, want 30m", cfg.Upload.TTL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AlternateEnvVar(t *testing.T) {
	t.Setenv("PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070 from PORT", cfg.Server.Port)
	}
}

func TestLoad_PrimaryEnvVarWinsOverAlternate(t *testing.T) {
	t.Setenv("SERVER_PORT", "9091")
	t.Setenv("PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9091 {
		t.Errorf("Server.Port = %d, want 9091 from SERVER_PORT", cfg.Server.Port)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "99999")

	if _, err := Load(); err == nil {
		t.Error("Load() = nil error, want validation failure for out-of-range port")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("UPLOAD_TTL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Error("Load() = nil error, want parse failure for bad duration")
	}
}

func TestLoad_InvalidStoreDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")

	if _, err := Load(); err == nil {
		t.Error("Load() = nil error, want validation failure for unknown driver")
	}
}

func TestLoad_RedisDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Driver != "redis" {
		t.Errorf("Store.Driver = %q, want redis", cfg.Store.Driver)
	}
}

func TestConfig_StringMasksRedisURL(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	s := cfg.String()
	if strings.Contains(s, "6379") {
		t.Errorf("String() leaked the redis URL: %s", s)
	}
	if !strings.Contains(s, "[MASKED]") {
		t.Errorf("String() missing mask marker: %s", s)
	}
}

func TestAddr(t *testing.T) {
	c := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if c.Addr() != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8080", c.Addr())
	}

	c.Host = ""
	if c.Addr() != ":8080" {
		t.Errorf("Addr() = %q, want :8080", c.Addr())
	}
}
