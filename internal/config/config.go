// Package config loads server configuration from a TOML file with
// environment-variable overrides.
//
// File layout:
//
//	[server]
//	host = "0.0.0.0"
//	port = 8080
//
//	[cache]
//	backend = "memory"   # memory | file | redis | none
//
//	[store]
//	backend = "memory"   # memory | mongo
//
//	[search]
//	budget_ms = 5000
//	coalesce_ms = 250    # 0 disables request coalescing
//
// Environment variables override file values (PATHSCOUT_PORT,
// PATHSCOUT_REDIS_ADDR, PATHSCOUT_MONGO_URI, ...), so containerized
// deployments can run without a config file at all.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Cache backend names.
const (
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Store backend names.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config aggregates application configuration values.
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Search SearchConfig `toml:"search"`
}

// ServerConfig governs HTTP server behaviour.
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ReadTimeout     duration `toml:"read_timeout"`
	WriteTimeout    duration `toml:"write_timeout"`
	IdleTimeout     duration `toml:"idle_timeout"`
	ShutdownTimeout duration `toml:"shutdown_timeout"`
}

// CacheConfig selects and configures the route cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"` // file backend
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// StoreConfig selects and configures the dataset store backend.
type StoreConfig struct {
	Backend         string `toml:"backend"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// SearchConfig overrides engine search defaults.
type SearchConfig struct {
	BudgetMS    int `toml:"budget_ms"`
	MaxPerGroup int `toml:"max_per_group"`
	CoalesceMS  int `toml:"coalesce_ms"`
}

// Budget returns the search budget as a duration; zero means the engine
// default.
func (s SearchConfig) Budget() time.Duration {
	return time.Duration(s.BudgetMS) * time.Millisecond
}

// CoalesceWindow returns the per-dataset request-coalescing cooldown applied
// by the server's query handling; zero leaves coalescing off.
func (s SearchConfig) CoalesceWindow() time.Duration {
	return time.Duration(s.CoalesceMS) * time.Millisecond
}

// duration is a TOML-friendly wrapper accepting "10s"-style strings.
type duration struct {
	time.Duration
}

// UnmarshalText implements toml decoding for duration strings.
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default configuration values.
const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 8080
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Load reads configuration from path (optional) and applies environment
// overrides and defaults. An empty path loads defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:            defaultHost,
			Port:            defaultPort,
			ReadTimeout:     duration{defaultReadTimeout},
			WriteTimeout:    duration{defaultWriteTimeout},
			IdleTimeout:     duration{defaultIdleTimeout},
			ShutdownTimeout: duration{defaultShutdownTimeout},
		},
		Cache: CacheConfig{Backend: CacheMemory},
		Store: StoreConfig{Backend: StoreMemory},
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv layers PATHSCOUT_* environment variables over the file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PATHSCOUT_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PATHSCOUT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PATHSCOUT_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("PATHSCOUT_REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("PATHSCOUT_REDIS_PASSWORD"); v != "" {
		cfg.Cache.RedisPassword = v
	}
	if v := os.Getenv("PATHSCOUT_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("PATHSCOUT_MONGO_URI"); v != "" {
		cfg.Store.MongoURI = v
	}
	if v := os.Getenv("PATHSCOUT_MONGO_DATABASE"); v != "" {
		cfg.Store.MongoDatabase = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Server.Port)
	}
	switch c.Cache.Backend {
	case CacheMemory, CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache backend %q requires redis_addr", CacheRedis)
		}
	default:
		return fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case StoreMemory:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("store backend %q requires mongo_uri", StoreMongo)
		}
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
