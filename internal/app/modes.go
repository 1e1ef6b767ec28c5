package app

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/pairbot/internal/domain"
	"github.com/alanyoungcy/pairbot/internal/feed"
	"github.com/alanyoungcy/pairbot/internal/trader"
	"github.com/alanyoungcy/pairbot/internal/venue"
)

const eventBuffer = 64

// TradeMode connects to the order venue and runs the decision core against
// the live event stream until the context is cancelled.
func (a *App) TradeMode(ctx context.Context, deps *Dependencies) error {
	session := uuid.NewString()
	a.logger.InfoContext(ctx, "entering trade mode",
		slog.String("session_id", session),
		slog.String("venue_url", a.cfg.Venue.URL),
	)

	client := venue.NewClient(a.cfg.Venue.URL, a.cfg.Venue.Key, a.logger)
	defer client.Close()

	t := trader.New(a.traderConfig(), client, deps.Journal, deps.Notifier, session, a.logger)
	events := make(chan domain.Event, eventBuffer)
	pump := feed.NewEventPump(events, t, deps.Mirror, a.logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		return client.Run(ctx, events)
	})
	g.Go(func() error {
		return pump.Run(ctx)
	})

	err := g.Wait()
	a.logger.InfoContext(ctx, "trade mode finished",
		slog.Int64("final_position", t.Position()),
	)
	return err
}

// ReplayMode feeds a recorded event log through the decision core with a
// sender that records commands in the log instead of hitting a venue. It
// is used to inspect what the strategy would have done against a captured
// session.
func (a *App) ReplayMode(ctx context.Context, deps *Dependencies) error {
	session := uuid.NewString()
	a.logger.InfoContext(ctx, "entering replay mode",
		slog.String("session_id", session),
		slog.String("path", a.cfg.Replay.Path),
	)

	sender := &replaySender{logger: a.logger.With(slog.String("component", "replay_sender"))}
	t := trader.New(a.traderConfig(), sender, deps.Journal, deps.Notifier, session, a.logger)
	events := make(chan domain.Event, eventBuffer)
	pump := feed.NewEventPump(events, t, deps.Mirror, a.logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return feed.ReplayFile(ctx, a.cfg.Replay.Path, events, a.logger)
	})
	g.Go(func() error {
		return pump.Run(ctx)
	})

	err := g.Wait()
	a.logger.InfoContext(ctx, "replay finished",
		slog.Int64("final_position", t.Position()),
		slog.Int64("inserts", sender.inserts),
		slog.Int64("cancels", sender.cancels),
		slog.Int64("hedges", sender.hedges),
	)
	return err
}

func (a *App) traderConfig() trader.Config {
	tc := a.cfg.Trading
	return trader.Config{
		Tick:          tc.TickSize,
		Lot:           tc.LotSize,
		PositionLimit: tc.PositionLimit,
		WallFraction:  tc.WallFraction,
		Window:        tc.LookbackWindow,
		Distance:      tc.OrderDistanceFromBest,
		TradeMemory:   tc.TradeMemory,
	}
}

// replaySender logs order commands instead of sending them.
type replaySender struct {
	logger  *slog.Logger
	inserts int64
	cancels int64
	hedges  int64
}

func (s *replaySender) SendInsertOrder(ctx context.Context, id int64, side domain.Side, price, volume int64, lifespan domain.Lifespan) error {
	s.inserts++
	s.logger.InfoContext(ctx, "would insert order",
		slog.Int64("order_id", id),
		slog.String("side", string(side)),
		slog.Int64("price", price),
		slog.Int64("volume", volume),
		slog.String("lifespan", string(lifespan)),
	)
	return nil
}

func (s *replaySender) SendCancelOrder(ctx context.Context, id int64) error {
	s.cancels++
	s.logger.InfoContext(ctx, "would cancel order",
		slog.Int64("order_id", id),
	)
	return nil
}

func (s *replaySender) SendHedgeOrder(ctx context.Context, id int64, side domain.Side, price, volume int64) error {
	s.hedges++
	s.logger.InfoContext(ctx, "would hedge",
		slog.Int64("order_id", id),
		slog.String("side", string(side)),
		slog.Int64("price", price),
		slog.Int64("volume", volume),
	)
	return nil
}
