package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alanyoungcy/pairbot/internal/strategy"
)

func TestSizesFlatPosition(t *testing.T) {
	sz := strategy.NewSizing(50, 100)

	bid, ask := sz.Sizes(0)
	assert.Equal(t, int64(25), bid)
	assert.Equal(t, int64(25), ask)
}

func TestSizesLeanAgainstInventory(t *testing.T) {
	sz := strategy.NewSizing(50, 100)

	// Fully long: stop adding, push hard to reduce.
	bid, ask := sz.Sizes(100)
	assert.Equal(t, int64(0), bid)
	assert.Equal(t, int64(49), ask)

	// Fully short: mirror image.
	bid, ask = sz.Sizes(-100)
	assert.Equal(t, int64(49), bid)
	assert.Equal(t, int64(0), ask)
}

func TestSizesMonotoneInPosition(t *testing.T) {
	sz := strategy.NewSizing(50, 100)

	prevBid := int64(1 << 62)
	prevAsk := int64(-1)
	for pos := int64(-100); pos <= 100; pos += 10 {
		bid, ask := sz.Sizes(pos)
		assert.LessOrEqual(t, bid, prevBid, "bid size must not grow with position (pos=%d)", pos)
		assert.GreaterOrEqual(t, ask, prevAsk, "ask size must not shrink with position (pos=%d)", pos)
		assert.LessOrEqual(t, bid+ask, int64(50))
		prevBid, prevAsk = bid, ask
	}
}
