// Package config defines the top-level configuration for the pairs-trading
// bot and provides validation helpers.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by PAIRBOT_* environment
// variables.
type Config struct {
	Venue    VenueConfig    `toml:"venue"`
	Trading  TradingConfig  `toml:"trading"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	Notify   NotifyConfig   `toml:"notify"`
	Replay   ReplayConfig   `toml:"replay"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// VenueConfig holds the order-venue websocket endpoint and credentials.
type VenueConfig struct {
	URL string `toml:"url"`
	Key string `toml:"key"`
}

// TradingConfig holds the decision-core tunables. The defaults reflect the
// venue contract: 100-cent tick, 50-lot orders, a position limit of 100.
type TradingConfig struct {
	TickSize              int64   `toml:"tick_size"`
	LotSize               int64   `toml:"lot_size"`
	PositionLimit         int64   `toml:"position_limit"`
	LookbackWindow        int     `toml:"lookback_window"`
	OrderDistanceFromBest int     `toml:"order_distance_from_best"`
	TradeMemory           int     `toml:"trade_memory"`
	WallFraction          float64 `toml:"wall_fraction"`
}

// PostgresConfig holds the execution-journal database parameters.
type PostgresConfig struct {
	Enabled       bool   `toml:"enabled"`
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds the book-mirror cache parameters.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// NotifyConfig holds operator notification channels.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// ReplayConfig holds the recorded-event-log source for replay mode.
type ReplayConfig struct {
	Path string `toml:"path"`
}

var validModes = map[string]bool{
	"trade":  true,
	"replay": true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Defaults returns the built-in configuration that Load layers the TOML
// file and environment overrides on top of.
func Defaults() Config {
	return Config{
		Venue: VenueConfig{
			URL: "ws://localhost:8100/exec",
		},
		Trading: TradingConfig{
			TickSize:              100,
			LotSize:               50,
			PositionLimit:         100,
			LookbackWindow:        5,
			OrderDistanceFromBest: 3,
			TradeMemory:           40,
			WallFraction:          0.9,
		},
		Postgres: PostgresConfig{
			Enabled:       false,
			Host:          "localhost",
			Port:          5432,
			Database:      "pairbot",
			User:          "pairbot",
			SSLMode:       "disable",
			PoolMaxConns:  4,
			PoolMinConns:  1,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			PoolSize:   10,
			MaxRetries: 3,
		},
		Mode:     "trade",
		LogLevel: "info",
	}
}

// Validate checks the configuration for internal consistency. It collects
// every problem it finds and reports them together.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: trade, replay)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if strings.ToLower(c.Mode) == "trade" && c.Venue.URL == "" {
		errs = append(errs, "venue: url must not be empty for trade mode")
	}
	if strings.ToLower(c.Mode) == "replay" && c.Replay.Path == "" {
		errs = append(errs, "replay: path must not be empty for replay mode")
	}

	if c.Trading.TickSize <= 0 {
		errs = append(errs, "trading: tick_size must be positive")
	}
	if c.Trading.LotSize <= 1 {
		errs = append(errs, "trading: lot_size must be greater than 1")
	}
	if c.Trading.PositionLimit <= 0 {
		errs = append(errs, "trading: position_limit must be positive")
	}
	if c.Trading.LookbackWindow <= 0 {
		errs = append(errs, "trading: lookback_window must be positive")
	}
	if c.Trading.OrderDistanceFromBest < 1 || c.Trading.OrderDistanceFromBest > 5 {
		errs = append(errs, fmt.Sprintf("trading: order_distance_from_best must be in [1, 5], got %d", c.Trading.OrderDistanceFromBest))
	}
	if c.Trading.TradeMemory <= 0 {
		errs = append(errs, "trading: trade_memory must be positive")
	}
	if c.Trading.WallFraction <= 0 || c.Trading.WallFraction >= 1 {
		errs = append(errs, fmt.Sprintf("trading: wall_fraction must be in (0, 1), got %g", c.Trading.WallFraction))
	}

	if c.Postgres.Enabled && strings.TrimSpace(c.Postgres.DSN) == "" {
		if c.Postgres.Host == "" {
			errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			errs = append(errs, fmt.Sprintf("postgres: port must be in (0, 65535], got %d", c.Postgres.Port))
		}
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty when enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
