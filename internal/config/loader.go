package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies PAIRBOT_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated;
// the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known PAIRBOT_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject credentials at deploy time without touching the
// TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Venue ──
	setStr(&cfg.Venue.URL, "PAIRBOT_VENUE_URL")
	setStr(&cfg.Venue.Key, "PAIRBOT_VENUE_KEY")

	// ── Trading ──
	setInt64(&cfg.Trading.TickSize, "PAIRBOT_TRADING_TICK_SIZE")
	setInt64(&cfg.Trading.LotSize, "PAIRBOT_TRADING_LOT_SIZE")
	setInt64(&cfg.Trading.PositionLimit, "PAIRBOT_TRADING_POSITION_LIMIT")
	setInt(&cfg.Trading.LookbackWindow, "PAIRBOT_TRADING_LOOKBACK_WINDOW")
	setInt(&cfg.Trading.OrderDistanceFromBest, "PAIRBOT_TRADING_ORDER_DISTANCE_FROM_BEST")
	setInt(&cfg.Trading.TradeMemory, "PAIRBOT_TRADING_TRADE_MEMORY")
	setFloat64(&cfg.Trading.WallFraction, "PAIRBOT_TRADING_WALL_FRACTION")

	// ── Postgres ──
	setBool(&cfg.Postgres.Enabled, "PAIRBOT_POSTGRES_ENABLED")
	setStr(&cfg.Postgres.DSN, "PAIRBOT_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "PAIRBOT_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "PAIRBOT_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "PAIRBOT_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "PAIRBOT_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "PAIRBOT_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "PAIRBOT_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "PAIRBOT_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "PAIRBOT_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "PAIRBOT_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "PAIRBOT_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "PAIRBOT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "PAIRBOT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "PAIRBOT_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "PAIRBOT_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "PAIRBOT_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "PAIRBOT_REDIS_TLS_ENABLED")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "PAIRBOT_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "PAIRBOT_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "PAIRBOT_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "PAIRBOT_NOTIFY_EVENTS")

	// ── Replay ──
	setStr(&cfg.Replay.Path, "PAIRBOT_REPLAY_PATH")

	// ── Top-level ──
	setStr(&cfg.Mode, "PAIRBOT_MODE")
	setStr(&cfg.LogLevel, "PAIRBOT_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
