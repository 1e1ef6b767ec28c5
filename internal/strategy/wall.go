package strategy

import "github.com/alanyoungcy/pairbot/internal/domain"

// DefaultWallFraction is the share of total resting volume one level must
// exceed to count as a price wall.
const DefaultWallFraction = 0.9

// DetectWall reports whether one level dominates the side: true iff the
// maximum quantity exceeds fraction of the summed quantities. An empty side
// is never a wall.
func DetectWall(quantities domain.Levels, fraction float64) bool {
	sum := quantities.Sum()
	if sum == 0 {
		return false
	}
	max, _ := quantities.Max()
	return float64(max) > fraction*float64(sum)
}

// WallQuotes returns the target ask/bid prices for the price-wall lane. A
// quote is produced only when BOTH sides of the book show a wall; each side
// is then quoted one tick inside its wall, but only if the wall sits at the
// best level, otherwise that side is suppressed (zero).
func WallQuotes(book domain.BookSnapshot, tick int64, fraction float64) (ask, bid int64) {
	if !DetectWall(book.AskVolumes, fraction) || !DetectWall(book.BidVolumes, fraction) {
		return 0, 0
	}
	if _, i := book.AskVolumes.Max(); i == 0 {
		ask = book.AskPrices[0] - tick
	}
	if _, i := book.BidVolumes.Max(); i == 0 {
		bid = book.BidPrices[0] + tick
	}
	return ask, bid
}
