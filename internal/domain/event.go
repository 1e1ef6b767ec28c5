package domain

// Event is the sealed set of inbound venue callbacks. The trader handles
// every kind with an exhaustive type switch, and each kind updates market
// state before any decision logic runs: the venue delivers events strictly
// in emission order and the core never reorders or buffers them.
type Event interface {
	Kind() string
	sealedEvent()
}

// BookUpdate reports the five best levels of one instrument's order book.
type BookUpdate struct {
	Instrument Instrument
	Seq        int64
	AskPrices  Levels
	AskVolumes Levels
	BidPrices  Levels
	BidVolumes Levels
}

// TradeTicks reports aggregated traded volume at up to five price levels
// per side since the previous tick message.
type TradeTicks struct {
	Instrument Instrument
	Seq        int64
	AskPrices  Levels
	AskVolumes Levels
	BidPrices  Levels
	BidVolumes Levels
}

// OrderFilled reports a (possibly partial) fill on one of our orders. The
// price may be better than the order's limit. Repeats for the same id are
// normal.
type OrderFilled struct {
	OrderID int64
	Price   int64
	Volume  int64
}

// OrderStatus reports lifecycle progress for one of our orders. A remaining
// volume of zero means the order is closed, whether filled or cancelled.
// Fees are signed; negative means a maker rebate.
type OrderStatus struct {
	OrderID         int64
	FillVolume      int64
	RemainingVolume int64
	Fees            int64
}

// HedgeFilled reports the average price and volume of a completed hedge
// order. Hedges are fire-and-forget, so this is bookkeeping only.
type HedgeFilled struct {
	OrderID  int64
	AvgPrice int64
	Volume   int64
}

// VenueError is an error surfaced by the venue. OrderID is zero when the
// error is not tied to a specific order.
type VenueError struct {
	OrderID int64
	Message []byte
}

func (BookUpdate) Kind() string  { return "book_update" }
func (TradeTicks) Kind() string  { return "trade_ticks" }
func (OrderFilled) Kind() string { return "order_filled" }
func (OrderStatus) Kind() string { return "order_status" }
func (HedgeFilled) Kind() string { return "hedge_filled" }
func (VenueError) Kind() string  { return "error" }

func (BookUpdate) sealedEvent()  {}
func (TradeTicks) sealedEvent()  {}
func (OrderFilled) sealedEvent() {}
func (OrderStatus) sealedEvent() {}
func (HedgeFilled) sealedEvent() {}
func (VenueError) sealedEvent()  {}
