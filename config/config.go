// Package config loads texcache settings from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the texcache CLI.
type Config struct {
	Cache       CacheConfig       `yaml:"cache"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Decode      DecodeConfig      `yaml:"decode"`
	SourceCache SourceCacheConfig `yaml:"source_cache"`
	Log         LogConfig         `yaml:"log"`
}

type CacheConfig struct {
	Namespace      string `yaml:"namespace"`
	MaxSourceBytes int64  `yaml:"max_source_bytes"`
}

// FetchConfig controls remote origins.
type FetchConfig struct {
	UserAgent    string   `yaml:"user_agent"`
	Timeout      Duration `yaml:"timeout"`
	MaxRedirects int      `yaml:"max_redirects"`
}

type DecodeConfig struct {
	DefaultDelay Duration `yaml:"default_delay"`
}

// SourceCacheConfig selects where fetched bytes of remote origins are kept.
type SourceCacheConfig struct {
	Provider       string          `yaml:"provider"` // none, bigcache, ristretto, redis
	Codec          string          `yaml:"codec"`    // cbor, msgpack, json, proto
	TTL            Duration        `yaml:"ttl"`
	MaxRecordBytes int             `yaml:"max_record_bytes"` // 0 = unlimited
	Redis          RedisConfig     `yaml:"redis"`
	BigCache       BigCacheConfig  `yaml:"bigcache"`
	Ristretto      RistrettoConfig `yaml:"ristretto"`
}

type RedisConfig struct {
	Addr     string   `yaml:"addr"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
	GenTTL   Duration `yaml:"gen_ttl"` // 0 = generations never expire
}

type BigCacheConfig struct {
	Shards    int `yaml:"shards"`
	HardMaxMB int `yaml:"hard_max_mb"`
}

type RistrettoConfig struct {
	MaxCostMB   int64 `yaml:"max_cost_mb"`
	NumCounters int64 `yaml:"num_counters"`
}

type LogConfig struct {
	Level   string `yaml:"level"`   // debug, info, warn, error
	Backend string `yaml:"backend"` // tint, zap, logrus
}

var (
	providers = []string{"none", "bigcache", "ristretto", "redis"}
	codecs    = []string{"cbor", "msgpack", "json", "proto"}
	levels    = []string{"debug", "info", "warn", "error"}
	backends  = []string{"tint", "zap", "logrus"}
)

// Duration wraps time.Duration for YAML strings like "15s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Defaults mirror the library defaults.
func Defaults() Config {
	return Config{
		Cache: CacheConfig{
			Namespace:      "texcache",
			MaxSourceBytes: 32 << 20,
		},
		Fetch: FetchConfig{
			UserAgent:    "texcache/1.0",
			Timeout:      Duration{15 * time.Second},
			MaxRedirects: 5,
		},
		Decode: DecodeConfig{
			DefaultDelay: Duration{100 * time.Millisecond},
		},
		SourceCache: SourceCacheConfig{
			Provider: "none",
			Codec:    "cbor",
			TTL:      Duration{24 * time.Hour},
			Redis:    RedisConfig{Addr: "localhost:6379"},
			BigCache: BigCacheConfig{HardMaxMB: 256},
			Ristretto: RistrettoConfig{
				MaxCostMB:   256,
				NumCounters: 100_000,
			},
		},
		Log: LogConfig{
			Level:   "info",
			Backend: "tint",
		},
	}
}

// Load reads the config file from the user config dir.
// A missing file is not an error; defaults are used.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads config from path, layered over Defaults.
func LoadFrom(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Defaults(), fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Cache.Namespace == "" {
		return fmt.Errorf("cache.namespace must not be empty")
	}
	if c.Cache.MaxSourceBytes < 0 {
		return fmt.Errorf("cache.max_source_bytes must not be negative, got %d", c.Cache.MaxSourceBytes)
	}
	if c.Fetch.Timeout.Duration < 0 {
		return fmt.Errorf("fetch.timeout must not be negative, got %s", c.Fetch.Timeout)
	}
	if c.Fetch.MaxRedirects < 0 || c.Fetch.MaxRedirects > 20 {
		return fmt.Errorf("fetch.max_redirects must be between 0 and 20, got %d", c.Fetch.MaxRedirects)
	}
	if d := c.Decode.DefaultDelay.Duration; d < 10*time.Millisecond || d > 10*time.Second {
		return fmt.Errorf("decode.default_delay must be between 10ms and 10s, got %s", d)
	}

	sc := c.SourceCache
	if !slices.Contains(providers, sc.Provider) {
		return fmt.Errorf("source_cache.provider must be one of %v, got %q", providers, sc.Provider)
	}
	if !slices.Contains(codecs, sc.Codec) {
		return fmt.Errorf("source_cache.codec must be one of %v, got %q", codecs, sc.Codec)
	}
	if sc.Provider != "none" && sc.TTL.Duration <= 0 {
		return fmt.Errorf("source_cache.ttl must be positive, got %s", sc.TTL)
	}
	if sc.Provider == "redis" && sc.Redis.Addr == "" {
		return fmt.Errorf("source_cache.redis.addr is required for the redis provider")
	}
	if sc.Provider == "ristretto" && (sc.Ristretto.MaxCostMB <= 0 || sc.Ristretto.NumCounters <= 0) {
		return fmt.Errorf("source_cache.ristretto needs positive max_cost_mb and num_counters")
	}

	if !slices.Contains(levels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of %v, got %q", levels, c.Log.Level)
	}
	if !slices.Contains(backends, c.Log.Backend) {
		return fmt.Errorf("log.backend must be one of %v, got %q", backends, c.Log.Backend)
	}
	return nil
}

// Path is $XDG_CONFIG_HOME/texcache/config.yml, falling back to ~/.config.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "texcache", "config.yml")
}
