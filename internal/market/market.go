// Package market holds the decision engine's view of the two instruments:
// the latest observed order books, the trade-driven predicted books, and a
// bounded ledger of recent volume-weighted trade prices. State is owned by
// the trader and mutated from a single goroutine; there are no locks here.
package market

import (
	"github.com/alanyoungcy/pairbot/internal/domain"
)

// DefaultTradeMemory is how many trade-tick entries are retained per
// instrument before the oldest is evicted.
const DefaultTradeMemory = 40

// State is the explicit market-state struct passed by reference into each
// component. No ambient globals.
type State struct {
	books     [2]domain.BookSnapshot
	predicted [2]domain.PredictedBook
	history   [2][]domain.TradeEntry
	memory    int
}

// NewState creates an empty market state retaining up to tradeMemory trade
// entries per instrument. A non-positive tradeMemory falls back to the
// default of 40.
func NewState(tradeMemory int) *State {
	if tradeMemory <= 0 {
		tradeMemory = DefaultTradeMemory
	}
	return &State{memory: tradeMemory}
}

// Book returns the latest observed book snapshot for the instrument.
func (s *State) Book(instr domain.Instrument) domain.BookSnapshot {
	return s.books[instr]
}

// Predicted returns the current predicted book for the instrument.
func (s *State) Predicted(instr domain.Instrument) domain.PredictedBook {
	return s.predicted[instr]
}

// History returns the retained trade entries for the instrument, oldest
// first. The returned slice must not be mutated.
func (s *State) History(instr domain.Instrument) []domain.TradeEntry {
	return s.history[instr]
}

// ApplyBookUpdate overwrites both the real and the predicted snapshot for
// the instrument unconditionally. Out-of-order or duplicate sequence
// numbers are accepted as-is: last message wins, no reordering buffer. The
// predicted book is re-seeded from every real update and then diverges only
// via trade prints until the next one.
func (s *State) ApplyBookUpdate(ev domain.BookUpdate) {
	s.books[ev.Instrument] = domain.BookSnapshot{
		Seq:        ev.Seq,
		AskPrices:  ev.AskPrices,
		AskVolumes: ev.AskVolumes,
		BidPrices:  ev.BidPrices,
		BidVolumes: ev.BidVolumes,
	}
	s.predicted[ev.Instrument] = domain.PredictedBook{
		Seeded:   true,
		Seq:      ev.Seq,
		AskPrice: ev.AskPrices[0],
		BidPrice: ev.BidPrices[0],
	}
}

// ApplyTrade folds a trade-tick message into the predicted book and the
// trade history ledger. Trade prints reveal at least one side's executed
// price; since post-trade cancellations are invisible this stays an
// intentionally approximate estimate.
func (s *State) ApplyTrade(ev domain.TradeTicks) {
	pred := &s.predicted[ev.Instrument]
	if ev.AskPrices.Sum() > 0 {
		best, _ := ev.AskPrices.Max()
		pred.AskPrice = best
	}
	if minPositive(ev.BidPrices) > 0 {
		pred.BidPrice = minPositive(ev.BidPrices)
	}

	s.recordTrade(ev)
}

// recordTrade appends the volume-weighted average price across both sides
// of the tick to the instrument's ledger, evicting the oldest entry beyond
// the memory bound. An all-zero-volume tick is skipped: the venue contract
// says it should not happen, but guarding is cheaper than dividing by zero.
func (s *State) recordTrade(ev domain.TradeTicks) {
	total := ev.AskVolumes.Sum() + ev.BidVolumes.Sum()
	if total == 0 {
		return
	}
	var weighted float64
	for i := 0; i < domain.BookDepth; i++ {
		weighted += float64(ev.AskPrices[i]) * float64(ev.AskVolumes[i])
		weighted += float64(ev.BidPrices[i]) * float64(ev.BidVolumes[i])
	}
	entry := domain.TradeEntry{VWAP: weighted / float64(total), Volume: total}

	h := append(s.history[ev.Instrument], entry)
	if len(h) > s.memory {
		h = h[len(h)-s.memory:]
	}
	s.history[ev.Instrument] = h
}

// WeightedBest blends the best ask and bid by their resting volumes. When
// the blend falls outside [bid, ask] it is replaced with the simple
// midpoint. The small epsilon in the denominator keeps an empty top level
// from dividing by zero.
func (s *State) WeightedBest(instr domain.Instrument) float64 {
	b := s.books[instr]
	ask, bid := float64(b.AskPrices[0]), float64(b.BidPrices[0])
	askVol, bidVol := float64(b.AskVolumes[0]), float64(b.BidVolumes[0])
	vwap := (ask*askVol + bid*bidVol) / (askVol + bidVol + 0.1)
	if vwap > ask || vwap < bid {
		vwap = (ask + bid) / 2
	}
	return vwap
}

func minPositive(l domain.Levels) int64 {
	var best int64
	for _, v := range l {
		if v > 0 && (best == 0 || v < best) {
			best = v
		}
	}
	return best
}
