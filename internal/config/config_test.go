package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Cache.Backend != CacheMemory {
		t.Errorf("default cache backend = %s, want memory", cfg.Cache.Backend)
	}
	if cfg.Store.Backend != StoreMemory {
		t.Errorf("default store backend = %s, want memory", cfg.Store.Backend)
	}
	if cfg.Server.ReadTimeout.Duration != 10*time.Second {
		t.Errorf("default read timeout = %v", cfg.Server.ReadTimeout.Duration)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr = %s", cfg.Addr())
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[server]
host = "127.0.0.1"
port = 9090
read_timeout = "5s"

[cache]
backend = "redis"
redis_addr = "localhost:6379"

[store]
backend = "memory"

[search]
budget_ms = 2000
max_per_group = 5
coalesce_ms = 100
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9090 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("read timeout = %v, want 5s", cfg.Server.ReadTimeout.Duration)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Search.Budget() != 2*time.Second {
		t.Errorf("budget = %v, want 2s", cfg.Search.Budget())
	}
	if cfg.Search.MaxPerGroup != 5 {
		t.Errorf("max per group = %d, want 5", cfg.Search.MaxPerGroup)
	}
	if cfg.Search.CoalesceWindow() != 100*time.Millisecond {
		t.Errorf("coalesce window = %v, want 100ms", cfg.Search.CoalesceWindow())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9090
`)
	t.Setenv("PATHSCOUT_PORT", "7070")
	t.Setenv("PATHSCOUT_HOST", "10.0.0.1")
	t.Setenv("PATHSCOUT_STORE_BACKEND", "mongo")
	t.Setenv("PATHSCOUT_MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("env should override file port, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "10.0.0.1" {
		t.Errorf("env should override host, got %s", cfg.Server.Host)
	}
	if cfg.Store.Backend != StoreMongo || cfg.Store.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("store = %+v", cfg.Store)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"port out of range", "[server]\nport = 99999\n"},
		{"unknown cache backend", "[cache]\nbackend = \"memcached\"\n"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n"},
		{"unknown store backend", "[store]\nbackend = \"postgres\"\n"},
		{"mongo without uri", "[store]\nbackend = \"mongo\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("missing config file should be an error")
	}
}
