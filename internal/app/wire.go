package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/pairbot/internal/cache/redis"
	"github.com/alanyoungcy/pairbot/internal/config"
	"github.com/alanyoungcy/pairbot/internal/domain"
	"github.com/alanyoungcy/pairbot/internal/notify"
	"github.com/alanyoungcy/pairbot/internal/store/postgres"
)

// Dependencies groups the optional infrastructure the trading core can run
// with. Any field may be nil; the consumers treat nil as "feature off".
type Dependencies struct {
	Journal  domain.Journal
	Mirror   domain.BookMirror
	Notifier *notify.Notifier
}

// Wire builds the dependency graph from the configuration. It returns the
// dependencies together with a cleanup function that closes every resource
// that was opened, in reverse order.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default().With(slog.String("component", "wire"))

	deps := &Dependencies{}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Postgres.Enabled {
		pg, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pg.Close)

		if cfg.Postgres.RunMigrations {
			if err := pg.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: migrations: %w", err)
			}
		}

		deps.Journal = postgres.NewJournal(pg.Pool())
		logger.InfoContext(ctx, "journal enabled",
			slog.String("host", cfg.Postgres.Host),
			slog.String("database", cfg.Postgres.Database),
		)
	}

	if cfg.Redis.Enabled {
		rdb, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() {
			if err := rdb.Close(); err != nil {
				logger.Warn("closing redis", slog.String("error", err.Error()))
			}
		})

		deps.Mirror = redis.NewBookMirror(rdb)
		logger.InfoContext(ctx, "book mirror enabled",
			slog.String("addr", cfg.Redis.Addr),
		)
	}

	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	if len(senders) > 0 {
		deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, slog.Default())
		logger.InfoContext(ctx, "notifications enabled",
			slog.Int("senders", len(senders)),
		)
	}

	return deps, cleanup, nil
}
