package market_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/pairbot/internal/domain"
	"github.com/alanyoungcy/pairbot/internal/market"
)

func bookUpdate(instr domain.Instrument, seq int64) domain.BookUpdate {
	return domain.BookUpdate{
		Instrument: instr,
		Seq:        seq,
		AskPrices:  domain.Levels{10000, 10100, 10200, 10300, 10400},
		AskVolumes: domain.Levels{10, 10, 10, 10, 10},
		BidPrices:  domain.Levels{9900, 9800, 9700, 9600, 9500},
		BidVolumes: domain.Levels{10, 10, 10, 10, 10},
	}
}

func TestApplyBookUpdateSeedsPredicted(t *testing.T) {
	s := market.NewState(0)

	ev := bookUpdate(domain.InstrumentETF, 7)
	s.ApplyBookUpdate(ev)

	book := s.Book(domain.InstrumentETF)
	assert.Equal(t, int64(7), book.Seq)
	assert.Equal(t, ev.AskPrices, book.AskPrices)
	assert.Equal(t, ev.BidVolumes, book.BidVolumes)

	pred := s.Predicted(domain.InstrumentETF)
	require.True(t, pred.Seeded)
	assert.Equal(t, int64(10000), pred.AskPrice)
	assert.Equal(t, int64(9900), pred.BidPrice)

	// The other instrument is untouched.
	assert.False(t, s.Predicted(domain.InstrumentFuture).Seeded)
}

func TestApplyBookUpdateLastMessageWins(t *testing.T) {
	s := market.NewState(0)
	s.ApplyBookUpdate(bookUpdate(domain.InstrumentFuture, 9))

	// A lower sequence number still overwrites: no reordering buffer.
	stale := bookUpdate(domain.InstrumentFuture, 3)
	stale.AskPrices[0] = 11111
	s.ApplyBookUpdate(stale)

	assert.Equal(t, int64(3), s.Book(domain.InstrumentFuture).Seq)
	assert.Equal(t, int64(11111), s.Predicted(domain.InstrumentFuture).AskPrice)
}

func TestApplyTradeMovesPredicted(t *testing.T) {
	s := market.NewState(0)
	s.ApplyBookUpdate(bookUpdate(domain.InstrumentETF, 1))

	s.ApplyTrade(domain.TradeTicks{
		Instrument: domain.InstrumentETF,
		Seq:        2,
		AskPrices:  domain.Levels{10100, 10200, 0, 0, 0},
		AskVolumes: domain.Levels{5, 3, 0, 0, 0},
		BidPrices:  domain.Levels{9800, 9700, 0, 0, 0},
		BidVolumes: domain.Levels{4, 2, 0, 0, 0},
	})

	pred := s.Predicted(domain.InstrumentETF)
	// Highest traded ask, lowest traded bid.
	assert.Equal(t, int64(10200), pred.AskPrice)
	assert.Equal(t, int64(9700), pred.BidPrice)
}

func TestApplyTradeOneSided(t *testing.T) {
	s := market.NewState(0)
	s.ApplyBookUpdate(bookUpdate(domain.InstrumentFuture, 1))

	// Only the ask side traded; the predicted bid must not move.
	s.ApplyTrade(domain.TradeTicks{
		Instrument: domain.InstrumentFuture,
		Seq:        2,
		AskPrices:  domain.Levels{10300, 0, 0, 0, 0},
		AskVolumes: domain.Levels{7, 0, 0, 0, 0},
	})

	pred := s.Predicted(domain.InstrumentFuture)
	assert.Equal(t, int64(10300), pred.AskPrice)
	assert.Equal(t, int64(9900), pred.BidPrice)
}

func TestRecordTradeVWAP(t *testing.T) {
	s := market.NewState(0)
	s.ApplyTrade(domain.TradeTicks{
		Instrument: domain.InstrumentETF,
		AskPrices:  domain.Levels{10000, 0, 0, 0, 0},
		AskVolumes: domain.Levels{3, 0, 0, 0, 0},
		BidPrices:  domain.Levels{9900, 0, 0, 0, 0},
		BidVolumes: domain.Levels{1, 0, 0, 0, 0},
	})

	h := s.History(domain.InstrumentETF)
	require.Len(t, h, 1)
	assert.Equal(t, int64(4), h[0].Volume)
	assert.InDelta(t, (10000.0*3+9900.0*1)/4, h[0].VWAP, 1e-9)
}

func TestRecordTradeSkipsZeroVolume(t *testing.T) {
	s := market.NewState(0)
	s.ApplyTrade(domain.TradeTicks{
		Instrument: domain.InstrumentETF,
		AskPrices:  domain.Levels{10000, 10100, 0, 0, 0},
	})
	assert.Empty(t, s.History(domain.InstrumentETF))
}

func TestTradeHistoryEviction(t *testing.T) {
	const memory = 40
	s := market.NewState(memory)

	for i := 0; i < memory+10; i++ {
		s.ApplyTrade(domain.TradeTicks{
			Instrument: domain.InstrumentFuture,
			AskPrices:  domain.Levels{int64(10000 + i), 0, 0, 0, 0},
			AskVolumes: domain.Levels{1, 0, 0, 0, 0},
		})
	}

	h := s.History(domain.InstrumentFuture)
	require.Len(t, h, memory)
	// Oldest entries evicted first.
	assert.InDelta(t, 10010.0, h[0].VWAP, 1e-9)
	assert.InDelta(t, 10049.0, h[memory-1].VWAP, 1e-9)
}

func TestWeightedBestBlend(t *testing.T) {
	s := market.NewState(0)
	ev := bookUpdate(domain.InstrumentETF, 1)
	ev.AskVolumes[0] = 30
	ev.BidVolumes[0] = 10
	s.ApplyBookUpdate(ev)

	want := (10000.0*30 + 9900.0*10) / (30 + 10 + 0.1)
	assert.InDelta(t, want, s.WeightedBest(domain.InstrumentETF), 1e-9)
}

func TestWeightedBestFallsBackToMidpoint(t *testing.T) {
	s := market.NewState(0)
	ev := bookUpdate(domain.InstrumentETF, 1)
	ev.AskVolumes = domain.Levels{}
	ev.BidVolumes = domain.Levels{}
	s.ApplyBookUpdate(ev)

	// With no resting volume the blend degenerates below the bid; the
	// midpoint takes over.
	assert.InDelta(t, 9950.0, s.WeightedBest(domain.InstrumentETF), 1e-9)
}
