// Package strategy computes target bid/ask prices for the two trading
// lanes: the spread-following lane driven by the rolling ETF-future spread
// statistics, and the price-wall lane driven by book imbalance. A target
// price of zero always means "do not quote that side this cycle".
package strategy

import (
	"github.com/alanyoungcy/pairbot/internal/domain"
	"github.com/alanyoungcy/pairbot/internal/market"
	"github.com/alanyoungcy/pairbot/internal/stats"
)

const (
	// DefaultWindow is how many reference-price samples the spread signal
	// looks back over.
	DefaultWindow = 5
	// DefaultDistance is the 1-based book level quoted by the fallback
	// book-following branch.
	DefaultDistance = 3
)

// SpreadSignal generates quotes from the ETF-future spread. It keeps
// rolling windows of volume-weighted reference prices for both legs and an
// online mean/sigma estimator of their difference; quoting turns aggressive
// once the spread leaves the mean +/- 2 sigma band.
type SpreadSignal struct {
	window    int
	distance  int
	tick      int64
	etfRec    []float64
	futureRec []float64
	count     int64
	spread    float64
	stats     stats.SpreadStats
}

// NewSpreadSignal creates a SpreadSignal. Non-positive window or distance
// fall back to the defaults.
func NewSpreadSignal(window, distance int, tick int64) *SpreadSignal {
	if window <= 0 {
		window = DefaultWindow
	}
	if distance <= 0 {
		distance = DefaultDistance
	}
	return &SpreadSignal{
		window:    window,
		distance:  distance,
		tick:      tick,
		etfRec:    make([]float64, window),
		futureRec: make([]float64, window),
	}
}

// Stats returns a copy of the current spread statistics.
func (sg *SpreadSignal) Stats() stats.SpreadStats { return sg.stats }

// Evaluate advances the rolling windows from the cached books and returns
// the target ask/bid for this cycle. trigger names the instrument whose
// book update started the cycle; it selects the spread-lag alignment (the
// future leg is sampled one tick behind when the future triggered, to line
// up asynchronous arrivals). If the predicted ETF book has not been seeded
// yet the cycle is skipped entirely and both targets are zero.
func (sg *SpreadSignal) Evaluate(trigger domain.Instrument, mkt *market.State) (ask, bid int64) {
	pred := mkt.Predicted(domain.InstrumentETF)
	if !pred.Seeded {
		return 0, 0
	}
	sg.record(trigger, mkt)

	etf := mkt.Book(domain.InstrumentETF)
	fut := mkt.Book(domain.InstrumentFuture)
	ready := sg.count >= int64(2*sg.window)

	switch {
	case ready && sg.spread > sg.stats.Upper():
		// ETF overpriced: lean short the ETF, aggressive on both legs.
		if etf.BidPrices[0] != 0 {
			ask = etf.BidPrices[0] + sg.tick
		}
		if fut.BidPrices[0] != 0 {
			bid = fut.BidPrices[0] + sg.tick
		}
	case ready && sg.spread < sg.stats.Lower():
		// ETF underpriced: lean long the ETF.
		if fut.AskPrices[0] != 0 {
			ask = fut.AskPrices[0] - sg.tick
		}
		if etf.AskPrices[0] != 0 {
			bid = etf.AskPrices[0] - sg.tick
		}
	default:
		// No usable signal yet: follow the future book at the configured
		// depth, clamped against the predicted ETF best so we never cross
		// our own estimate of the ETF top of book.
		if fut.BidPrices[0] != 0 {
			bid = fut.BidPrices[sg.distance-1]
			if pred.BidPrice < bid {
				bid = pred.BidPrice
			}
		}
		if fut.AskPrices[0] != 0 {
			ask = fut.AskPrices[sg.distance-1]
			if pred.AskPrice > ask {
				ask = pred.AskPrice
			}
		}
	}
	return ask, bid
}

// record appends the latest volume-weighted reference prices for both legs
// and, once enough samples accumulated to be past the noisy start-up, feeds
// the aligned spread into the online estimator.
func (sg *SpreadSignal) record(trigger domain.Instrument, mkt *market.State) {
	sg.etfRec = append(sg.etfRec[1:], mkt.WeightedBest(domain.InstrumentETF))
	sg.futureRec = append(sg.futureRec[1:], mkt.WeightedBest(domain.InstrumentFuture))
	sg.count++

	if sg.count < 4 {
		return
	}
	last := len(sg.etfRec) - 1
	if trigger == domain.InstrumentFuture {
		sg.spread = sg.etfRec[last] - sg.futureRec[last-1]
	} else {
		sg.spread = sg.etfRec[last] - sg.futureRec[last]
	}
	sg.stats.Observe(sg.spread)
}
