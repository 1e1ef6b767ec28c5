package domain

// BookDepth is the number of price levels carried by every book and trade
// message from the venue. Levels beyond the available liquidity are
// zero-padded.
const BookDepth = 5

// Instrument identifies one of the two legs of the traded pair.
type Instrument int

const (
	InstrumentFuture Instrument = iota
	InstrumentETF
	instrumentCount
)

// Valid reports whether the instrument is one of the known pair legs.
func (i Instrument) Valid() bool {
	return i >= InstrumentFuture && i < instrumentCount
}

func (i Instrument) String() string {
	switch i {
	case InstrumentFuture:
		return "future"
	case InstrumentETF:
		return "etf"
	default:
		return "unknown"
	}
}

// Paired returns the companion instrument used for hedging.
func (i Instrument) Paired() Instrument {
	if i == InstrumentETF {
		return InstrumentFuture
	}
	return InstrumentETF
}

// Side indicates whether an order buys or sells.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Lifespan is the time-in-force policy for an order. Only day orders are
// supported by the venue contract.
type Lifespan string

const (
	LifespanGoodForDay Lifespan = "GFD"
)
