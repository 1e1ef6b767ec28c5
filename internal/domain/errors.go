package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrNoQuote       = errors.New("no quote available")
	ErrZeroVolume    = errors.New("zero aggregate trade volume")
	ErrBadInstrument = errors.New("unknown instrument")
	ErrWSDisconnect  = errors.New("websocket disconnected")
	ErrVenueClosed   = errors.New("venue connection closed")
	ErrContextDone   = errors.New("context cancelled")
	ErrUnknownFrame  = errors.New("unknown frame type")
)
