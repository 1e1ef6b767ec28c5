// Package feed bridges the venue event stream to the decision core and the
// observability mirror.
package feed

import (
	"context"
	"log/slog"

	"github.com/alanyoungcy/pairbot/internal/domain"
	"github.com/alanyoungcy/pairbot/internal/trader"
)

// EventPump drains venue events and hands each one to the trader. The pump
// goroutine is the single writer of all trader state; events are processed
// strictly in arrival order, one decision cycle to completion before the
// next event.
//
// When a mirror is configured, the pump copies market state out to it after
// the trader has fully acted on the event, so mirroring can never delay an
// order command for the event that produced it.
type EventPump struct {
	events <-chan domain.Event
	trader *trader.Trader
	mirror domain.BookMirror // nil disables mirroring
	logger *slog.Logger
}

// NewEventPump creates an EventPump. mirror may be nil.
func NewEventPump(events <-chan domain.Event, t *trader.Trader, mirror domain.BookMirror, logger *slog.Logger) *EventPump {
	return &EventPump{
		events: events,
		trader: t,
		mirror: mirror,
		logger: logger.With(slog.String("component", "event_pump")),
	}
}

// Run pumps events until ctx is cancelled or the event channel closes.
func (p *EventPump) Run(ctx context.Context) error {
	p.logger.Info("event pump started")
	defer p.logger.Info("event pump stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-p.events:
			if !ok {
				return nil
			}
			p.trader.HandleEvent(ctx, ev)
			p.mirrorEvent(ctx, ev)
		}
	}
}

// mirrorEvent pushes the post-event market view to the mirror. Errors are
// logged and swallowed: the mirror is observability, not state of record.
func (p *EventPump) mirrorEvent(ctx context.Context, ev domain.Event) {
	if p.mirror == nil {
		return
	}

	switch e := ev.(type) {
	case domain.BookUpdate:
		if err := p.mirror.SetBook(ctx, e.Instrument, p.trader.Market().Book(e.Instrument)); err != nil {
			p.logger.Debug("mirror book failed", slog.String("error", err.Error()))
		}
		if err := p.mirror.SetPredicted(ctx, e.Instrument, p.trader.Market().Predicted(e.Instrument)); err != nil {
			p.logger.Debug("mirror predicted failed", slog.String("error", err.Error()))
		}
		if err := p.mirror.SetStatus(ctx, p.trader.Status()); err != nil {
			p.logger.Debug("mirror status failed", slog.String("error", err.Error()))
		}
	case domain.TradeTicks:
		if err := p.mirror.SetPredicted(ctx, e.Instrument, p.trader.Market().Predicted(e.Instrument)); err != nil {
			p.logger.Debug("mirror predicted failed", slog.String("error", err.Error()))
		}
	case domain.OrderFilled, domain.OrderStatus, domain.VenueError:
		if err := p.mirror.SetStatus(ctx, p.trader.Status()); err != nil {
			p.logger.Debug("mirror status failed", slog.String("error", err.Error()))
		}
	}
}
