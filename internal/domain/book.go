package domain

// Levels is a fixed-depth array of prices or volumes, best level first.
// A zero entry means "no level". Value semantics: snapshots are copied on
// every update so the real and predicted books never alias.
type Levels [BookDepth]int64

// Sum returns the total across all levels.
func (l Levels) Sum() int64 {
	var s int64
	for _, v := range l {
		s += v
	}
	return s
}

// Max returns the largest level value and its index. An all-zero array
// yields (0, 0).
func (l Levels) Max() (int64, int) {
	best, idx := l[0], 0
	for i, v := range l {
		if v > best {
			best, idx = v, i
		}
	}
	return best, idx
}

// BookSnapshot is the latest observed order book for one instrument.
// Sequence numbers are stored but never used to reorder: the feed contract
// is last-write-wins and gaps are tolerated.
type BookSnapshot struct {
	Seq        int64
	AskPrices  Levels
	AskVolumes Levels
	BidPrices  Levels
	BidVolumes Levels
}

// PredictedBook is the synthetic single-level best-price estimate rebuilt
// from trade prints between real book updates. It is a best-effort guess:
// cancellations are invisible, so it may lag or be wrong, and it is only
// ever used as a fallback price reference.
type PredictedBook struct {
	Seeded   bool // false until the first real book update for the instrument
	Seq      int64
	AskPrice int64
	BidPrice int64
}

// TradeEntry is one volume-weighted trade-tick observation.
type TradeEntry struct {
	VWAP   float64
	Volume int64
}
