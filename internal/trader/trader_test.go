package trader_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/pairbot/internal/domain"
	"github.com/alanyoungcy/pairbot/internal/trader"
)

type sentCommand struct {
	kind   string // "insert", "cancel", "hedge"
	id     int64
	side   domain.Side
	price  int64
	volume int64
}

// captureSender records every order command in submission order.
type captureSender struct {
	commands []sentCommand
}

func (s *captureSender) SendInsertOrder(_ context.Context, id int64, side domain.Side, price, volume int64, _ domain.Lifespan) error {
	s.commands = append(s.commands, sentCommand{kind: "insert", id: id, side: side, price: price, volume: volume})
	return nil
}

func (s *captureSender) SendCancelOrder(_ context.Context, id int64) error {
	s.commands = append(s.commands, sentCommand{kind: "cancel", id: id})
	return nil
}

func (s *captureSender) SendHedgeOrder(_ context.Context, id int64, side domain.Side, price, volume int64) error {
	s.commands = append(s.commands, sentCommand{kind: "hedge", id: id, side: side, price: price, volume: volume})
	return nil
}

func (s *captureSender) ofKind(kind string) []sentCommand {
	var out []sentCommand
	for _, c := range s.commands {
		if c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func newTrader(t *testing.T) (*trader.Trader, *captureSender) {
	t.Helper()
	sender := &captureSender{}
	tr := trader.New(trader.Config{}, sender, nil, nil, "test-session", slog.New(slog.NewTextHandler(io.Discard, nil)))
	return tr, sender
}

// etfWallBook produces an ETF book update with a dominant level at the top
// of both sides, which routes the decision through the wall lane.
func etfWallBook(bestBid int64) domain.BookUpdate {
	const tick = 100
	return domain.BookUpdate{
		Instrument: domain.InstrumentETF,
		AskPrices:  domain.Levels{bestBid + tick, bestBid + 2*tick, bestBid + 3*tick, bestBid + 4*tick, bestBid + 5*tick},
		AskVolumes: domain.Levels{95, 1, 1, 1, 1},
		BidPrices:  domain.Levels{bestBid, bestBid - tick, bestBid - 2*tick, bestBid - 3*tick, bestBid - 4*tick},
		BidVolumes: domain.Levels{95, 1, 1, 1, 1},
	}
}

func TestWallLaneQuotesBothSides(t *testing.T) {
	tr, sender := newTrader(t)
	ctx := context.Background()

	tr.HandleEvent(ctx, etfWallBook(9900))

	inserts := sender.ofKind("insert")
	require.Len(t, inserts, 2)
	require.Empty(t, sender.ofKind("cancel"))

	// Bid is placed before ask, one tick inside each wall, flat-position
	// sizing on both sides.
	assert.Equal(t, domain.SideBuy, inserts[0].side)
	assert.Equal(t, int64(10000), inserts[0].price)
	assert.Equal(t, int64(25), inserts[0].volume)

	assert.Equal(t, domain.SideSell, inserts[1].side)
	assert.Equal(t, int64(9900), inserts[1].price)
	assert.Equal(t, int64(25), inserts[1].volume)

	st := tr.Status()
	assert.Equal(t, 1, st.LiveBids)
	assert.Equal(t, 1, st.LiveAsks)
}

func TestUnchangedTargetsAreLeftAlone(t *testing.T) {
	tr, sender := newTrader(t)
	ctx := context.Background()

	tr.HandleEvent(ctx, etfWallBook(9900))
	n := len(sender.commands)

	// The same book again must not touch the live orders.
	tr.HandleEvent(ctx, etfWallBook(9900))
	assert.Len(t, sender.commands, n)
}

func TestRepriceCancelsBeforeReplacing(t *testing.T) {
	tr, sender := newTrader(t)
	ctx := context.Background()

	tr.HandleEvent(ctx, etfWallBook(9900))
	sender.commands = nil

	tr.HandleEvent(ctx, etfWallBook(10100))

	require.Len(t, sender.commands, 4)
	// Per side the cancel always precedes the replacing insert.
	assert.Equal(t, "cancel", sender.commands[0].kind)
	assert.Equal(t, "cancel", sender.commands[1].kind)
	assert.Equal(t, "insert", sender.commands[2].kind)
	assert.Equal(t, "insert", sender.commands[3].kind)

	// Ids are never reused.
	assert.NotEqual(t, sender.commands[0].id, sender.commands[2].id)
	assert.NotEqual(t, sender.commands[1].id, sender.commands[3].id)

	st := tr.Status()
	assert.Equal(t, 2, st.LiveBids, "cancelled bid stays tracked until its terminal status arrives")
	assert.Equal(t, 2, st.LiveAsks)
}

func TestBidFillHedgesAtVenueMinimum(t *testing.T) {
	tr, sender := newTrader(t)
	ctx := context.Background()

	tr.HandleEvent(ctx, etfWallBook(9900))
	inserts := sender.ofKind("insert")
	require.Len(t, inserts, 2)
	bidID := inserts[0].id

	sender.commands = nil
	tr.HandleEvent(ctx, domain.OrderFilled{OrderID: bidID, Price: 10000, Volume: 30})

	assert.Equal(t, int64(30), tr.Position())

	hedges := sender.ofKind("hedge")
	require.Len(t, hedges, 1)
	assert.Equal(t, domain.SideSell, hedges[0].side)
	assert.Equal(t, int64(100), hedges[0].price, "hedge sells at the venue minimum")
	assert.Equal(t, int64(30), hedges[0].volume)
}

func TestAskFillHedgesAtVenueMaximum(t *testing.T) {
	tr, sender := newTrader(t)
	ctx := context.Background()

	tr.HandleEvent(ctx, etfWallBook(9900))
	inserts := sender.ofKind("insert")
	require.Len(t, inserts, 2)
	askID := inserts[1].id

	sender.commands = nil
	tr.HandleEvent(ctx, domain.OrderFilled{OrderID: askID, Price: 9900, Volume: 25})

	assert.Equal(t, int64(-25), tr.Position())

	hedges := sender.ofKind("hedge")
	require.Len(t, hedges, 1)
	assert.Equal(t, domain.SideBuy, hedges[0].side)
	assert.Equal(t, int64((1<<31-1)/100*100), hedges[0].price, "hedge buys at the venue maximum")
	assert.Equal(t, int64(25), hedges[0].volume)
}

func TestUnknownFillIsIgnored(t *testing.T) {
	tr, sender := newTrader(t)
	ctx := context.Background()

	tr.HandleEvent(ctx, domain.OrderFilled{OrderID: 999, Price: 10000, Volume: 50})

	assert.Zero(t, tr.Position())
	assert.Empty(t, sender.commands)
}

func TestTerminalStatusClearsTracking(t *testing.T) {
	tr, sender := newTrader(t)
	ctx := context.Background()

	tr.HandleEvent(ctx, etfWallBook(9900))
	inserts := sender.ofKind("insert")
	require.Len(t, inserts, 2)

	tr.HandleEvent(ctx, domain.OrderStatus{OrderID: inserts[0].id, FillVolume: 25, RemainingVolume: 0})

	st := tr.Status()
	assert.Equal(t, 0, st.LiveBids)
	assert.Equal(t, 1, st.LiveAsks)

	// Partial progress keeps the order live.
	tr.HandleEvent(ctx, domain.OrderStatus{OrderID: inserts[1].id, FillVolume: 10, RemainingVolume: 15})
	assert.Equal(t, 1, tr.Status().LiveAsks)
}

func TestVenueErrorCleansUpTrackedOrder(t *testing.T) {
	tr, sender := newTrader(t)
	ctx := context.Background()

	tr.HandleEvent(ctx, etfWallBook(9900))
	inserts := sender.ofKind("insert")
	require.Len(t, inserts, 2)

	tr.HandleEvent(ctx, domain.VenueError{OrderID: inserts[0].id, Message: []byte("order rejected")})
	assert.Equal(t, 0, tr.Status().LiveBids)

	// Errors for unknown or orderless failures change nothing.
	tr.HandleEvent(ctx, domain.VenueError{OrderID: 0, Message: []byte("throttled")})
	assert.Equal(t, 1, tr.Status().LiveAsks)
}

func TestPositionLimitSuppressesBids(t *testing.T) {
	tr, sender := newTrader(t)
	ctx := context.Background()

	tr.HandleEvent(ctx, etfWallBook(9900))
	inserts := sender.ofKind("insert")
	require.Len(t, inserts, 2)
	bidID := inserts[0].id

	// Two fills walk the position to the limit.
	tr.HandleEvent(ctx, domain.OrderFilled{OrderID: bidID, Price: 10000, Volume: 50})
	tr.HandleEvent(ctx, domain.OrderFilled{OrderID: bidID, Price: 10000, Volume: 50})
	require.Equal(t, int64(100), tr.Position())

	// A reprice frees both slots, but only the ask may be replaced while
	// the position sits at the limit.
	sender.commands = nil
	tr.HandleEvent(ctx, etfWallBook(10100))

	for _, c := range sender.ofKind("insert") {
		assert.Equal(t, domain.SideSell, c.side, "no new bids at the long position limit")
	}
	require.Len(t, sender.ofKind("insert"), 1)
}

func TestShortLimitSuppressesAsks(t *testing.T) {
	tr, sender := newTrader(t)
	ctx := context.Background()

	tr.HandleEvent(ctx, etfWallBook(9900))
	inserts := sender.ofKind("insert")
	require.Len(t, inserts, 2)
	askID := inserts[1].id

	tr.HandleEvent(ctx, domain.OrderFilled{OrderID: askID, Price: 9900, Volume: 50})
	tr.HandleEvent(ctx, domain.OrderFilled{OrderID: askID, Price: 9900, Volume: 50})
	require.Equal(t, int64(-100), tr.Position())

	sender.commands = nil
	tr.HandleEvent(ctx, etfWallBook(10100))

	for _, c := range sender.ofKind("insert") {
		assert.Equal(t, domain.SideBuy, c.side, "no new asks at the short position limit")
	}
	require.Len(t, sender.ofKind("insert"), 1)
}

func TestFutureBookNeverTriggersQuoting(t *testing.T) {
	tr, sender := newTrader(t)
	ctx := context.Background()

	ev := etfWallBook(9900)
	ev.Instrument = domain.InstrumentFuture
	tr.HandleEvent(ctx, ev)

	assert.Empty(t, sender.commands)
}
