package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alanyoungcy/pairbot/internal/domain"
)

// BookMirror implements domain.BookMirror using one hash per instrument
// plus a status hash.
//
// Key schema:
//
//	pair:book:{instrument}      - latest real snapshot fields
//	pair:predicted:{instrument} - latest predicted best prices
//	pair:status                 - position / live orders / spread statistics
type BookMirror struct {
	c *Client
}

// NewBookMirror creates a BookMirror backed by the given Client.
func NewBookMirror(c *Client) *BookMirror {
	return &BookMirror{c: c}
}

func bookKey(i domain.Instrument) string      { return "pair:book:" + i.String() }
func predictedKey(i domain.Instrument) string { return "pair:predicted:" + i.String() }

const statusKey = "pair:status"

// SetBook overwrites the mirrored real snapshot for the instrument.
func (m *BookMirror) SetBook(ctx context.Context, instrument domain.Instrument, snap domain.BookSnapshot) error {
	fields := map[string]any{
		"seq": snap.Seq,
	}
	for i := 0; i < domain.BookDepth; i++ {
		n := strconv.Itoa(i)
		fields["ask_price_"+n] = snap.AskPrices[i]
		fields["ask_volume_"+n] = snap.AskVolumes[i]
		fields["bid_price_"+n] = snap.BidPrices[i]
		fields["bid_volume_"+n] = snap.BidVolumes[i]
	}
	if err := m.c.rdb.HSet(ctx, bookKey(instrument), fields).Err(); err != nil {
		return fmt.Errorf("redis: set book %s: %w", instrument, err)
	}
	return nil
}

// SetPredicted overwrites the mirrored predicted best prices.
func (m *BookMirror) SetPredicted(ctx context.Context, instrument domain.Instrument, pred domain.PredictedBook) error {
	err := m.c.rdb.HSet(ctx, predictedKey(instrument), map[string]any{
		"seeded":    pred.Seeded,
		"seq":       pred.Seq,
		"ask_price": pred.AskPrice,
		"bid_price": pred.BidPrice,
	}).Err()
	if err != nil {
		return fmt.Errorf("redis: set predicted %s: %w", instrument, err)
	}
	return nil
}

// SetStatus overwrites the engine status hash.
func (m *BookMirror) SetStatus(ctx context.Context, status domain.EngineStatus) error {
	err := m.c.rdb.HSet(ctx, statusKey, map[string]any{
		"position":     status.Position,
		"live_bids":    status.LiveBids,
		"live_asks":    status.LiveAsks,
		"spread_count": status.SpreadCount,
		"spread_mean":  strconv.FormatFloat(status.SpreadMean, 'f', -1, 64),
		"spread_std":   strconv.FormatFloat(status.SpreadStd, 'f', -1, 64),
		"updated_at":   status.UpdatedAt.UnixNano(),
	}).Err()
	if err != nil {
		return fmt.Errorf("redis: set status: %w", err)
	}
	return nil
}
