// Package trader implements the pairs-trading decision core: it consumes
// venue events, maintains market and position state, reconciles desired
// quotes against outstanding orders per lane, and hedges fills in the
// companion instrument.
//
// All state is mutated from a single goroutine (Run). Order commands are
// submitted before any journaling, notification, or logging for the same
// event: order placement is time-critical, bookkeeping is not.
package trader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/pairbot/internal/domain"
	"github.com/alanyoungcy/pairbot/internal/market"
	"github.com/alanyoungcy/pairbot/internal/notify"
	"github.com/alanyoungcy/pairbot/internal/strategy"
)

// Config carries the tunables of the decision core. Zero values fall back
// to the defaults from the venue contract (100-cent tick, 50 lot, 100
// position limit).
type Config struct {
	Tick              int64
	Lot               int64
	PositionLimit     int64
	MinBidNearestTick int64
	MaxAskNearestTick int64
	WallFraction      float64
	Window            int
	Distance          int
	TradeMemory       int
}

func (c Config) withDefaults() Config {
	if c.Tick == 0 {
		c.Tick = 100
	}
	if c.Lot == 0 {
		c.Lot = 50
	}
	if c.PositionLimit == 0 {
		c.PositionLimit = 100
	}
	if c.MinBidNearestTick == 0 {
		c.MinBidNearestTick = c.Tick
	}
	if c.MaxAskNearestTick == 0 {
		c.MaxAskNearestTick = (1<<31 - 1) / c.Tick * c.Tick
	}
	if c.WallFraction == 0 {
		c.WallFraction = strategy.DefaultWallFraction
	}
	return c
}

// Trader is the decision core. It is not safe for concurrent use: all
// events must flow through Run (or HandleEvent from a single goroutine).
type Trader struct {
	cfg      Config
	sender   domain.OrderSender
	journal  domain.Journal   // nil disables journaling
	notifier *notify.Notifier // nil disables notifications
	logger   *slog.Logger
	session  string

	mkt    *market.State
	signal *strategy.SpreadSignal
	sizing strategy.Sizing

	nextID   int64
	position int64
	bidID    int64
	askID    int64
	bids     map[int64]struct{}
	asks     map[int64]struct{}
	lanes    [laneCount]OrderRecord
}

// New creates a Trader wired to the given venue sender. journal and
// notifier may be nil.
func New(cfg Config, sender domain.OrderSender, journal domain.Journal, notifier *notify.Notifier, session string, logger *slog.Logger) *Trader {
	cfg = cfg.withDefaults()
	return &Trader{
		cfg:      cfg,
		sender:   sender,
		journal:  journal,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "trader")),
		session:  session,
		mkt:      market.NewState(cfg.TradeMemory),
		signal:   strategy.NewSpreadSignal(cfg.Window, cfg.Distance, cfg.Tick),
		sizing:   strategy.NewSizing(cfg.Lot, cfg.PositionLimit),
		bids:     make(map[int64]struct{}),
		asks:     make(map[int64]struct{}),
	}
}

// Position returns the current signed net position.
func (t *Trader) Position() int64 { return t.position }

// Market exposes the trader-owned market state, for the event pump's
// mirroring only.
func (t *Trader) Market() *market.State { return t.mkt }

// Status summarizes the core for the observability mirror.
func (t *Trader) Status() domain.EngineStatus {
	st := t.signal.Stats()
	return domain.EngineStatus{
		Position:    t.position,
		LiveBids:    len(t.bids),
		LiveAsks:    len(t.asks),
		SpreadCount: st.Count,
		SpreadMean:  st.Mean,
		SpreadStd:   st.Std,
		UpdatedAt:   time.Now().UTC(),
	}
}

// Run drains the event mailbox until ctx is cancelled or the channel
// closes. This is the single-writer loop: nothing else may mutate the
// trader while it runs.
func (t *Trader) Run(ctx context.Context, events <-chan domain.Event) error {
	t.logger.Info("trader started", slog.String("session", t.session))
	defer t.logger.Info("trader stopped")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			t.HandleEvent(ctx, ev)
		}
	}
}

// HandleEvent dispatches one venue event. The switch is exhaustive over the
// sealed event set; market state is always updated before decision logic.
func (t *Trader) HandleEvent(ctx context.Context, ev domain.Event) {
	switch e := ev.(type) {
	case domain.BookUpdate:
		t.onBookUpdate(ctx, e)
	case domain.TradeTicks:
		t.onTradeTicks(ctx, e)
	case domain.OrderFilled:
		t.onOrderFilled(ctx, e)
	case domain.OrderStatus:
		t.onOrderStatus(ctx, e)
	case domain.HedgeFilled:
		t.onHedgeFilled(ctx, e)
	case domain.VenueError:
		t.onVenueError(ctx, e)
	default:
		t.logger.Warn("unhandled event kind", slog.String("kind", ev.Kind()))
	}
}

// onBookUpdate caches the book and, when the ETF triggered the cycle, runs
// one full decision pass: sizing from position, then the wall lane, and
// only if the wall produced nothing, the spread lane.
func (t *Trader) onBookUpdate(ctx context.Context, ev domain.BookUpdate) {
	t.mkt.ApplyBookUpdate(ev)

	if ev.Instrument == domain.InstrumentETF {
		bidSize, askSize := t.sizing.Sizes(t.position)
		ask, bid := strategy.WallQuotes(t.mkt.Book(domain.InstrumentETF), t.cfg.Tick, t.cfg.WallFraction)
		if ask != 0 || bid != 0 {
			t.reconcile(ctx, LaneWall, ask, bid, askSize, bidSize)
		} else {
			ask, bid = t.signal.Evaluate(ev.Instrument, t.mkt)
			t.reconcile(ctx, LaneSpread, ask, bid, askSize, bidSize)
		}
	}

	t.logger.Debug("book update",
		slog.String("instrument", ev.Instrument.String()),
		slog.Int64("seq", ev.Seq),
	)
}

func (t *Trader) onTradeTicks(ctx context.Context, ev domain.TradeTicks) {
	t.mkt.ApplyTrade(ev)
	t.logger.Debug("trade ticks",
		slog.String("instrument", ev.Instrument.String()),
		slog.Int64("seq", ev.Seq),
	)
	_ = ctx
}

// onOrderFilled adjusts the position and fires the offsetting hedge in the
// companion instrument: an aggressive sell at the venue minimum for a
// filled bid, an aggressive buy at the venue maximum for a filled ask.
// Hedges reuse the global id counter and are fire-and-forget.
func (t *Trader) onOrderFilled(ctx context.Context, ev domain.OrderFilled) {
	var hedged bool
	if _, ok := t.bids[ev.OrderID]; ok {
		t.position += ev.Volume
		id := t.allocID()
		if err := t.sender.SendHedgeOrder(ctx, id, domain.SideSell, t.cfg.MinBidNearestTick, ev.Volume); err != nil {
			t.logger.Warn("hedge send failed", slog.Int64("order_id", id), slog.String("error", err.Error()))
		}
		t.appendCommand(ctx, id, "hedge", domain.SideSell, t.cfg.MinBidNearestTick, ev.Volume, "")
		hedged = true
	} else if _, ok := t.asks[ev.OrderID]; ok {
		t.position -= ev.Volume
		id := t.allocID()
		if err := t.sender.SendHedgeOrder(ctx, id, domain.SideBuy, t.cfg.MaxAskNearestTick, ev.Volume); err != nil {
			t.logger.Warn("hedge send failed", slog.Int64("order_id", id), slog.String("error", err.Error()))
		}
		t.appendCommand(ctx, id, "hedge", domain.SideBuy, t.cfg.MaxAskNearestTick, ev.Volume, "")
		hedged = true
	}

	if hedged {
		t.appendFill(ctx, domain.FillRecord{
			SessionID: t.session,
			OrderID:   ev.OrderID,
			Price:     ev.Price,
			Volume:    ev.Volume,
			Position:  t.position,
			FilledAt:  time.Now().UTC(),
		})
		if t.notifier != nil {
			_ = t.notifier.Notify(ctx, "fill", "order filled",
				fmt.Sprintf("order %d filled %d @ %d, position %d", ev.OrderID, ev.Volume, ev.Price, t.position))
		}
	}

	t.logger.Info("order filled",
		slog.Int64("order_id", ev.OrderID),
		slog.Int64("price", ev.Price),
		slog.Int64("volume", ev.Volume),
		slog.Int64("position", t.position),
	)
}

// onOrderStatus closes out tracked ids once nothing remains to trade. The
// id is removed from both live sets unconditionally: it can only be in
// one, but the double discard is cheap and idempotent.
func (t *Trader) onOrderStatus(ctx context.Context, ev domain.OrderStatus) {
	if ev.RemainingVolume == 0 {
		if ev.OrderID == t.bidID {
			t.bidID = 0
		} else if ev.OrderID == t.askID {
			t.askID = 0
		}
		delete(t.bids, ev.OrderID)
		delete(t.asks, ev.OrderID)
	}

	t.appendStatus(ctx, domain.StatusRecord{
		SessionID:       t.session,
		OrderID:         ev.OrderID,
		FillVolume:      ev.FillVolume,
		RemainingVolume: ev.RemainingVolume,
		Fees:            ev.Fees,
		SeenAt:          time.Now().UTC(),
	})
	t.logger.Debug("order status",
		slog.Int64("order_id", ev.OrderID),
		slog.Int64("fill_volume", ev.FillVolume),
		slog.Int64("remaining", ev.RemainingVolume),
		slog.Int64("fees", ev.Fees),
	)
}

func (t *Trader) onHedgeFilled(ctx context.Context, ev domain.HedgeFilled) {
	t.appendFill(ctx, domain.FillRecord{
		SessionID: t.session,
		OrderID:   ev.OrderID,
		Hedge:     true,
		Price:     ev.AvgPrice,
		Volume:    ev.Volume,
		Position:  t.position,
		FilledAt:  time.Now().UTC(),
	})
	t.logger.Info("hedge filled",
		slog.Int64("order_id", ev.OrderID),
		slog.Int64("avg_price", ev.AvgPrice),
		slog.Int64("volume", ev.Volume),
	)
}

// onVenueError forces the same cleanup path as a terminal status update for
// any error tied to an order we still track: the lifecycle manager can then
// safely re-quote. Errors are never fatal.
func (t *Trader) onVenueError(ctx context.Context, ev domain.VenueError) {
	if ev.OrderID != 0 {
		_, isBid := t.bids[ev.OrderID]
		_, isAsk := t.asks[ev.OrderID]
		if isBid || isAsk {
			t.onOrderStatus(ctx, domain.OrderStatus{OrderID: ev.OrderID})
		}
	}
	if t.notifier != nil {
		_ = t.notifier.Notify(ctx, "error", "venue error",
			fmt.Sprintf("order %d: %s", ev.OrderID, ev.Message))
	}
	t.logger.Warn("venue error",
		slog.Int64("order_id", ev.OrderID),
		slog.String("message", string(ev.Message)),
	)
}

// reconcile brings one lane's outstanding orders in line with the target
// prices: cancel-before-replace on a reprice, then submit whichever sides
// are unquoted, sized by the inventory policy and gated by the position
// limit. A target of zero leaves any live order alone and places nothing.
// Invariant: at most one live bid and one live ask per lane.
func (t *Trader) reconcile(ctx context.Context, lane Lane, targetAsk, targetBid, askSize, bidSize int64) {
	rec := &t.lanes[lane]

	if rec.BidID != 0 && targetBid != rec.BidPrice && targetBid != 0 {
		if err := t.sender.SendCancelOrder(ctx, rec.BidID); err != nil {
			t.logger.Warn("cancel send failed", slog.Int64("order_id", rec.BidID), slog.String("error", err.Error()))
		}
		t.appendCommand(ctx, rec.BidID, "cancel", domain.SideBuy, rec.BidPrice, 0, lane.String())
		rec.BidID = 0
	}
	if rec.AskID != 0 && targetAsk != rec.AskPrice && targetAsk != 0 {
		if err := t.sender.SendCancelOrder(ctx, rec.AskID); err != nil {
			t.logger.Warn("cancel send failed", slog.Int64("order_id", rec.AskID), slog.String("error", err.Error()))
		}
		t.appendCommand(ctx, rec.AskID, "cancel", domain.SideSell, rec.AskPrice, 0, lane.String())
		rec.AskID = 0
	}

	if rec.BidID == 0 && targetBid != 0 && t.position < t.cfg.PositionLimit {
		id := t.allocID()
		rec.BidID, rec.BidPrice = id, targetBid
		if err := t.sender.SendInsertOrder(ctx, id, domain.SideBuy, targetBid, bidSize, domain.LifespanGoodForDay); err != nil {
			t.logger.Warn("insert send failed", slog.Int64("order_id", id), slog.String("error", err.Error()))
		}
		t.bids[id] = struct{}{}
		t.bidID = id
		t.appendCommand(ctx, id, "insert", domain.SideBuy, targetBid, bidSize, lane.String())
	}
	if rec.AskID == 0 && targetAsk != 0 && t.position > -t.cfg.PositionLimit {
		id := t.allocID()
		rec.AskID, rec.AskPrice = id, targetAsk
		if err := t.sender.SendInsertOrder(ctx, id, domain.SideSell, targetAsk, askSize, domain.LifespanGoodForDay); err != nil {
			t.logger.Warn("insert send failed", slog.Int64("order_id", id), slog.String("error", err.Error()))
		}
		t.asks[id] = struct{}{}
		t.askID = id
		t.appendCommand(ctx, id, "insert", domain.SideSell, targetAsk, askSize, lane.String())
	}
}

// allocID returns the next client order id. Ids are unique for the process
// lifetime and never reused.
func (t *Trader) allocID() int64 {
	t.nextID++
	return t.nextID
}

func (t *Trader) appendCommand(ctx context.Context, id int64, command string, side domain.Side, price, volume int64, lane string) {
	if t.journal == nil {
		return
	}
	err := t.journal.AppendCommand(ctx, domain.CommandRecord{
		SessionID: t.session,
		OrderID:   id,
		Command:   command,
		Side:      side,
		Price:     price,
		Volume:    volume,
		Lane:      lane,
		SentAt:    time.Now().UTC(),
	})
	if err != nil {
		t.logger.Warn("journal command failed", slog.String("error", err.Error()))
	}
}

func (t *Trader) appendFill(ctx context.Context, rec domain.FillRecord) {
	if t.journal == nil {
		return
	}
	if err := t.journal.AppendFill(ctx, rec); err != nil {
		t.logger.Warn("journal fill failed", slog.String("error", err.Error()))
	}
}

func (t *Trader) appendStatus(ctx context.Context, rec domain.StatusRecord) {
	if t.journal == nil {
		return
	}
	if err := t.journal.AppendStatus(ctx, rec); err != nil {
		t.logger.Warn("journal status failed", slog.String("error", err.Error()))
	}
}
