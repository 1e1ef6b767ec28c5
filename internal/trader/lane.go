package trader

// Lane identifies one independently tracked pair of (bid, ask) order slots.
// The wall lane preempts the spread lane whenever wall detection produces a
// quote; the two lanes never share order ids.
type Lane int

const (
	LaneWall Lane = iota
	LaneSpread
	laneCount
)

func (l Lane) String() string {
	switch l {
	case LaneWall:
		return "wall"
	case LaneSpread:
		return "spread"
	default:
		return "unknown"
	}
}

// OrderRecord tracks the live orders of one lane. An id of zero means "no
// live order" on that side.
type OrderRecord struct {
	BidID    int64
	BidPrice int64
	AskID    int64
	AskPrice int64
}
