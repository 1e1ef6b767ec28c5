package domain

import "context"

// OrderSender is the outbound half of the venue contract. All three calls
// are asynchronous fire-and-forget: the core marks an order live the moment
// it is submitted and only clears it on an explicit zero-remaining status
// or error. A returned error means the command could not be handed to the
// transport at all, never that the venue rejected it.
type OrderSender interface {
	SendInsertOrder(ctx context.Context, id int64, side Side, price, volume int64, lifespan Lifespan) error
	SendCancelOrder(ctx context.Context, id int64) error
	SendHedgeOrder(ctx context.Context, id int64, side Side, price, volume int64) error
}
