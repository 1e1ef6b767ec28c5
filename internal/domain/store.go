package domain

import (
	"context"
	"time"
)

// CommandRecord is one outbound order command appended to the execution
// journal.
type CommandRecord struct {
	SessionID string
	OrderID   int64
	Command   string // "insert", "cancel", "hedge"
	Side      Side
	Price     int64
	Volume    int64
	Lane      string
	SentAt    time.Time
}

// FillRecord is one inbound fill or hedge fill appended to the execution
// journal.
type FillRecord struct {
	SessionID string
	OrderID   int64
	Hedge     bool
	Price     int64
	Volume    int64
	Position  int64 // net position after applying the fill
	FilledAt  time.Time
}

// StatusRecord is one order status update appended to the execution journal.
type StatusRecord struct {
	SessionID       string
	OrderID         int64
	FillVolume      int64
	RemainingVolume int64
	Fees            int64
	SeenAt          time.Time
}

// Journal is an append-only record of trading activity kept for offline
// analysis. Journal writes are best-effort: they must never block or fail
// the decision path, so callers log errors and move on.
type Journal interface {
	AppendCommand(ctx context.Context, rec CommandRecord) error
	AppendFill(ctx context.Context, rec FillRecord) error
	AppendStatus(ctx context.Context, rec StatusRecord) error
}

// EngineStatus is a point-in-time summary of the decision core, published to
// the book mirror for dashboards.
type EngineStatus struct {
	Position    int64
	LiveBids    int
	LiveAsks    int
	SpreadCount int64
	SpreadMean  float64
	SpreadStd   float64
	UpdatedAt   time.Time
}

// BookMirror mirrors the latest market state into an external cache for
// observability. The decision path never reads it back.
type BookMirror interface {
	SetBook(ctx context.Context, instrument Instrument, snap BookSnapshot) error
	SetPredicted(ctx context.Context, instrument Instrument, pred PredictedBook) error
	SetStatus(ctx context.Context, status EngineStatus) error
}
