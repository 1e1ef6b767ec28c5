package venue

import (
	"encoding/json"
	"fmt"

	"github.com/alanyoungcy/pairbot/internal/domain"
)

// frame is the wire shape of every venue message, inbound and outbound. A
// "type" discriminator selects which fields are meaningful; unused fields
// are omitted.
type frame struct {
	Type            string        `json:"type"`
	Instrument      int           `json:"instrument,omitempty"`
	Seq             int64         `json:"seq,omitempty"`
	AskPrices       domain.Levels `json:"ask_prices,omitempty"`
	AskVolumes      domain.Levels `json:"ask_volumes,omitempty"`
	BidPrices       domain.Levels `json:"bid_prices,omitempty"`
	BidVolumes      domain.Levels `json:"bid_volumes,omitempty"`
	OrderID         int64         `json:"order_id,omitempty"`
	Side            string        `json:"side,omitempty"`
	Price           int64         `json:"price,omitempty"`
	Volume          int64         `json:"volume,omitempty"`
	AvgPrice        int64         `json:"avg_price,omitempty"`
	FillVolume      int64         `json:"fill_volume,omitempty"`
	RemainingVolume int64         `json:"remaining_volume,omitempty"`
	Fees            int64         `json:"fees,omitempty"`
	Lifespan        string        `json:"lifespan,omitempty"`
	Message         string        `json:"message,omitempty"`
	Key             string        `json:"key,omitempty"`
}

// DecodeEvent parses one inbound frame into its domain event.
func DecodeEvent(data []byte) (domain.Event, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("venue: decode frame: %w", err)
	}

	switch f.Type {
	case "book_update":
		instr := domain.Instrument(f.Instrument)
		if !instr.Valid() {
			return nil, fmt.Errorf("venue: book_update: %w", domain.ErrBadInstrument)
		}
		return domain.BookUpdate{
			Instrument: instr,
			Seq:        f.Seq,
			AskPrices:  f.AskPrices,
			AskVolumes: f.AskVolumes,
			BidPrices:  f.BidPrices,
			BidVolumes: f.BidVolumes,
		}, nil
	case "trade_ticks":
		instr := domain.Instrument(f.Instrument)
		if !instr.Valid() {
			return nil, fmt.Errorf("venue: trade_ticks: %w", domain.ErrBadInstrument)
		}
		return domain.TradeTicks{
			Instrument: instr,
			Seq:        f.Seq,
			AskPrices:  f.AskPrices,
			AskVolumes: f.AskVolumes,
			BidPrices:  f.BidPrices,
			BidVolumes: f.BidVolumes,
		}, nil
	case "order_filled":
		return domain.OrderFilled{OrderID: f.OrderID, Price: f.Price, Volume: f.Volume}, nil
	case "order_status":
		return domain.OrderStatus{
			OrderID:         f.OrderID,
			FillVolume:      f.FillVolume,
			RemainingVolume: f.RemainingVolume,
			Fees:            f.Fees,
		}, nil
	case "hedge_filled":
		return domain.HedgeFilled{OrderID: f.OrderID, AvgPrice: f.AvgPrice, Volume: f.Volume}, nil
	case "error":
		return domain.VenueError{OrderID: f.OrderID, Message: []byte(f.Message)}, nil
	default:
		return nil, fmt.Errorf("venue: %q: %w", f.Type, domain.ErrUnknownFrame)
	}
}

func insertFrame(id int64, side domain.Side, price, volume int64, lifespan domain.Lifespan) frame {
	return frame{
		Type:     "insert_order",
		OrderID:  id,
		Side:     string(side),
		Price:    price,
		Volume:   volume,
		Lifespan: string(lifespan),
	}
}

func cancelFrame(id int64) frame {
	return frame{Type: "cancel_order", OrderID: id}
}

func hedgeFrame(id int64, side domain.Side, price, volume int64) frame {
	return frame{
		Type:    "hedge_order",
		OrderID: id,
		Side:    string(side),
		Price:   price,
		Volume:  volume,
	}
}

func loginFrame(key string) frame {
	return frame{Type: "login", Key: key}
}
