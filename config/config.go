/*
Package config loads the configuration of the sapling service from defaults,
an optional YAML file, an optional .env file and SAPLING_* environment
variables, in increasing order of precedence.
*/
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v2"
)

const (
	// StoreMemory keeps uploaded tables in the process memory
	StoreMemory = "memory"
	// StoreRedis keeps uploaded tables in a redis DB
	StoreRedis = "redis"

	envPrefix = "SAPLING_"
)

/*
Config holds the service settings:
 * Addr is the address the HTTP server listens on.
 * LogLevel is one of debug, info, warn or error.
 * Workers is the number of trees that can be grown at the same time.
 * DefaultMaxDepth is the depth budget of requests that set none and
   MaxDepthLimit caps the one requests set.
 * MaxUploadBytes limits the size of uploaded files.
 * BuildTimeout limits how long a request waits for a worker.
 * Store is StoreMemory or StoreRedis, the latter using RedisAddr,
   RedisPrefix and RedisTTL.
*/
type Config struct {
	Addr            string        `yaml:"addr"`
	LogLevel        string        `yaml:"log_level"`
	Workers         int           `yaml:"workers"`
	DefaultMaxDepth int           `yaml:"default_max_depth"`
	MaxDepthLimit   int           `yaml:"max_depth_limit"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
	BuildTimeout    time.Duration `yaml:"build_timeout"`
	Store           string        `yaml:"store"`
	RedisAddr       string        `yaml:"redis_addr"`
	RedisPrefix     string        `yaml:"redis_prefix"`
	RedisTTL        time.Duration `yaml:"redis_ttl"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Addr:            ":8080",
		LogLevel:        "info",
		Workers:         4,
		DefaultMaxDepth: 10,
		MaxDepthLimit:   30,
		MaxUploadBytes:  32 << 20,
		BuildTimeout:    time.Minute,
		Store:           StoreMemory,
		RedisAddr:       "localhost:6379",
		RedisPrefix:     "sapling:tables",
		RedisTTL:        time.Hour,
	}
}

/*
Load takes the path to a YAML file ("" for none) and the paths to .env files
and returns the resulting configuration or an error. When no .env file is
given, ".env" is loaded if it exists. Values in .env files do not override
variables already set in the environment.
*/
func Load(path string, envFiles ...string) (*Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %v", path, err)
		}
		err = yaml.UnmarshalStrict(data, c)
		if err != nil {
			return nil, fmt.Errorf("parsing config file %s: %v", path, err)
		}
	}
	if len(envFiles) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			envFiles = []string{".env"}
		}
	}
	if len(envFiles) > 0 {
		err := godotenv.Load(envFiles...)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env files: %v", err)
		}
	}
	err := c.applyEnv(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	return c, c.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	integer := func(name string, dst *int) error {
		v, ok := lookup(envPrefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parsing %s%s: %v", envPrefix, name, err)
		}
		*dst = n
		return nil
	}
	duration := func(name string, dst *time.Duration) error {
		v, ok := lookup(envPrefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parsing %s%s: %v", envPrefix, name, err)
		}
		*dst = d
		return nil
	}
	str("ADDR", &c.Addr)
	if v, ok := lookup("LOG_LEVEL"); ok && strings.TrimSpace(v) != "" {
		c.LogLevel = strings.TrimSpace(v)
	}
	str("LOG_LEVEL", &c.LogLevel)
	str("STORE", &c.Store)
	str("REDIS_ADDR", &c.RedisAddr)
	str("REDIS_PREFIX", &c.RedisPrefix)
	for name, dst := range map[string]*int{
		"WORKERS":           &c.Workers,
		"DEFAULT_MAX_DEPTH": &c.DefaultMaxDepth,
		"MAX_DEPTH_LIMIT":   &c.MaxDepthLimit,
	} {
		if err := integer(name, dst); err != nil {
			return err
		}
	}
	maxUpload := int(c.MaxUploadBytes)
	if err := integer("MAX_UPLOAD_BYTES", &maxUpload); err != nil {
		return err
	}
	c.MaxUploadBytes = int64(maxUpload)
	if err := duration("BUILD_TIMEOUT", &c.BuildTimeout); err != nil {
		return err
	}
	return duration("REDIS_TTL", &c.RedisTTL)
}

// Validate returns an error if the configuration cannot be used.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid workers %d: must be at least 1", c.Workers)
	}
	if c.MaxDepthLimit < 1 {
		return fmt.Errorf("invalid max depth limit %d: must be at least 1", c.MaxDepthLimit)
	}
	if c.DefaultMaxDepth < 0 || c.DefaultMaxDepth > c.MaxDepthLimit {
		return fmt.Errorf("invalid default max depth %d: must be between 0 and %d", c.DefaultMaxDepth, c.MaxDepthLimit)
	}
	if c.MaxUploadBytes < 1 {
		return fmt.Errorf("invalid max upload bytes %d", c.MaxUploadBytes)
	}
	if c.BuildTimeout <= 0 {
		return fmt.Errorf("invalid build timeout %v", c.BuildTimeout)
	}
	switch c.Store {
	case StoreMemory:
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis store requires a redis address")
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	return nil
}

// ParseLevel takes a level name (debug, info, warn or error) and returns the
// corresponding slog.Level or an error.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// Logger returns a text slog.Logger writing onto w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := ParseLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
