package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/questabletractor/internal/database"
)

// Config holds process-wide configuration for the quest engine.
type Config struct {
	Bridge  BridgeConfig  `yaml:"bridge"`
	Store   StoreConfig   `yaml:"store"`
	Hints   HintsConfig   `yaml:"hints"`
	Poll    PollConfig    `yaml:"poll"`
	Fishing FishingConfig `yaml:"fishing"`
}

// BridgeConfig holds the websocket bridge settings.
type BridgeConfig struct {
	// ListenAddress is the address the bridge listens on.
	ListenAddress string `yaml:"listen_address"`

	// AllowedOrigins is a list of origins allowed to connect.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum inbound message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`

	// TokenHash is the bcrypt hash of the token a game mod presents in its
	// hello message. Empty disables the check.
	TokenHash string `yaml:"token_hash"`

	// ReadTimeoutSeconds closes a connection that sends nothing for this long.
	// 0 means no timeout.
	ReadTimeoutSeconds int `yaml:"read_timeout_seconds"`

	// MaxConnections caps simultaneous game connections (0 = unlimited).
	MaxConnections int `yaml:"max_connections"`

	// RateLimit locks out addresses that keep presenting a bad token.
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig holds hello token failure lockout settings.
type RateLimitConfig struct {
	MaxAttempts       int `yaml:"max_attempts"`
	LockoutSeconds    int `yaml:"lockout_seconds"`
	MaxLockoutSeconds int `yaml:"max_lockout_seconds"`
}

// StoreConfig selects where owner mod data is saved.
type StoreConfig struct {
	Driver     string         `yaml:"driver"` // sqlite or postgres
	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	User                   string `yaml:"user"`
	Password               string `yaml:"password"`
	Database               string `yaml:"database"`
	SSLMode                string `yaml:"sslmode"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// HintsConfig controls the weekly "a villager mentions this" topic.
type HintsConfig struct {
	// DayOfWeek is the weekday name hints are dropped on.
	DayOfWeek string `yaml:"day_of_week"`

	// MinTotalDays suppresses hints during the first days of a save.
	MinTotalDays int `yaml:"min_total_days"`

	// TopicDays is how long a hint conversation topic lasts.
	TopicDays int `yaml:"topic_days"`
}

// PollConfig controls the host's held-item check.
type PollConfig struct {
	IntervalMS int `yaml:"interval_ms"`
}

// FishingConfig tunes the waterer fishing rolls.
type FishingConfig struct {
	BaseChance    float64 `yaml:"base_chance"`
	DaysDivisor   float64 `yaml:"days_divisor"`
	HarpoonChance float64 `yaml:"harpoon_chance"`
}

// DefaultConfig returns a Config with the stock game tuning.
func DefaultConfig() *Config {
	return &Config{
		Bridge: BridgeConfig{
			ListenAddress:      "127.0.0.1:4080",
			AllowedOrigins:     []string{}, // Same-origin only by default
			MaxMessageSize:     64 * 1024,
			ReadTimeoutSeconds: 0,
			MaxConnections:     1,
			RateLimit: RateLimitConfig{
				MaxAttempts:       5,
				LockoutSeconds:    30,
				MaxLockoutSeconds: 300,
			},
		},
		Store: StoreConfig{
			Driver:     "sqlite",
			SQLitePath: "data/tractorquests.db",
			Postgres: PostgresConfig{
				Host:                   "localhost",
				Port:                   5432,
				User:                   "tractorquests",
				Database:               "tractorquests",
				SSLMode:                "disable",
				MaxOpenConns:           10,
				MaxIdleConns:           2,
				ConnMaxLifetimeMinutes: 30,
			},
		},
		Hints: HintsConfig{
			DayOfWeek:    "Sunday",
			MinTotalDays: 7,
			TopicDays:    4,
		},
		Poll: PollConfig{
			IntervalMS: 1000,
		},
		Fishing: FishingConfig{
			BaseChance:    0.01,
			DaysDivisor:   200,
			HarpoonChance: 0.3,
		},
	}
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, returns the default config. If it can't be
// parsed, returns the default config and the parse error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	if err := config.Validate(); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported store driver %q", c.Store.Driver)
	}
	if _, ok := ParseWeekday(c.Hints.DayOfWeek); !ok {
		return fmt.Errorf("unknown hints day_of_week %q", c.Hints.DayOfWeek)
	}
	if c.Fishing.DaysDivisor <= 0 {
		return fmt.Errorf("fishing days_divisor must be positive")
	}
	if c.Poll.IntervalMS <= 0 {
		return fmt.Errorf("poll interval_ms must be positive")
	}
	return nil
}

// Database converts the store settings for database.OpenWithConfig.
func (s *StoreConfig) Database() database.Config {
	return database.Config{
		Driver:     s.Driver,
		SQLitePath: s.SQLitePath,
		Postgres: database.PostgresConfig{
			Host:            s.Postgres.Host,
			Port:            s.Postgres.Port,
			User:            s.Postgres.User,
			Password:        s.Postgres.Password,
			Database:        s.Postgres.Database,
			SSLMode:         s.Postgres.SSLMode,
			MaxOpenConns:    s.Postgres.MaxOpenConns,
			MaxIdleConns:    s.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(s.Postgres.ConnMaxLifetimeMinutes) * time.Minute,
		},
	}
}

// PollInterval returns the held-item poll interval as a duration.
func (c *PollConfig) PollInterval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// ReadTimeout returns the idle timeout for a bridge connection, or 0.
func (c *BridgeConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// ParseWeekday maps a weekday name (case-insensitive) to time.Weekday.
func ParseWeekday(name string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, true
		}
	}
	return time.Sunday, false
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *BridgeConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // game mods connect without an Origin header
	}

	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
