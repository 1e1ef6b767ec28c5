package strategy

import "math"

// Sizing maps the current net position through a bounded saturating
// function to asymmetric bid/ask sizes: as the position grows long the bid
// size shrinks and the ask size grows, and vice versa for short. The
// steepness is tuned so a position at the limit leaves roughly one lot on
// the heavy side.
type Sizing struct {
	lot       int64
	limit     int64
	steepness float64
}

// NewSizing creates a Sizing policy for the given lot size and position
// limit. The steepness constant solves sigmoid(-1) ~= (lot-1)/lot.
func NewSizing(lot, limit int64) Sizing {
	return Sizing{
		lot:       lot,
		limit:     limit,
		steepness: math.Ceil(math.Log(float64(lot-1)) / -0.9),
	}
}

// Sizes returns the bid and ask order sizes for the given net position.
func (s Sizing) Sizes(position int64) (bidSize, askSize int64) {
	f := s.sigmoid(float64(position) / float64(s.limit))
	return int64(f * float64(s.lot)), int64((1 - f) * float64(s.lot))
}

func (s Sizing) sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-s.steepness*x))
}
