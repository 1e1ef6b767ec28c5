// Package venue implements the order-venue collaborator contract over a
// websocket JSON frame protocol: inbound book/trade/fill/status/error
// callbacks and outbound insert/cancel/hedge commands.
package venue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alanyoungcy/pairbot/internal/domain"
)

const (
	dialTimeout      = 10 * time.Second
	reconnectBackoff = 2 * time.Second
	writeTimeout     = 5 * time.Second
)

// Client connects to the venue websocket, decodes inbound frames into
// domain events, and implements domain.OrderSender for the outbound
// commands. It reconnects with backoff on disconnect.
//
// Event delivery preserves the venue's emission order: a single read loop
// pushes into the out channel, no buffering or reordering happens here.
type Client struct {
	url    string
	key    string
	logger *slog.Logger

	mu   sync.Mutex
	conn *websocket.Conn

	closeOnce sync.Once
	done      chan struct{}
}

// NewClient creates a Client for the given websocket URL. key is sent in a
// login frame after every (re)connect; empty means no authentication.
func NewClient(url, key string, logger *slog.Logger) *Client {
	return &Client{
		url:    url,
		key:    key,
		logger: logger.With(slog.String("component", "venue_client")),
		done:   make(chan struct{}),
	}
}

// Run connects and pumps decoded events into out until ctx is cancelled or
// Close is called. Undecodable frames are logged and skipped; a broken
// connection triggers a reconnect with backoff.
func (c *Client) Run(ctx context.Context, out chan<- domain.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		default:
		}

		if err := c.runConnection(ctx, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("venue disconnected, reconnecting",
				slog.String("error", err.Error()),
			)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case <-time.After(reconnectBackoff):
		}
	}
}

func (c *Client) runConnection(ctx context.Context, out chan<- domain.Event) error {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.url, nil)
	cancel()
	if err != nil {
		return fmt.Errorf("venue: dial %s: %w", c.url, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		_ = conn.Close()
	}()

	if c.key != "" {
		if err := c.writeFrame(loginFrame(c.key)); err != nil {
			return err
		}
	}
	c.logger.Info("venue connected", slog.String("url", c.url))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("venue: read: %w", domain.ErrWSDisconnect)
		}
		ev, err := DecodeEvent(data)
		if err != nil {
			c.logger.Debug("skipping frame",
				slog.String("error", err.Error()),
				slog.Int("payload_len", len(data)),
			)
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close stops Run after the current connection attempt.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// SendInsertOrder submits a new limit order. Fire-and-forget: a nil return
// only means the frame reached the transport.
func (c *Client) SendInsertOrder(_ context.Context, id int64, side domain.Side, price, volume int64, lifespan domain.Lifespan) error {
	return c.writeFrame(insertFrame(id, side, price, volume, lifespan))
}

// SendCancelOrder requests cancellation of a live order.
func (c *Client) SendCancelOrder(_ context.Context, id int64) error {
	return c.writeFrame(cancelFrame(id))
}

// SendHedgeOrder submits a hedge order in the companion instrument.
func (c *Client) SendHedgeOrder(_ context.Context, id int64, side domain.Side, price, volume int64) error {
	return c.writeFrame(hedgeFrame(id, side, price, volume))
}

func (c *Client) writeFrame(f frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return domain.ErrVenueClosed
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(f); err != nil {
		return fmt.Errorf("venue: write %s: %w", f.Type, err)
	}
	return nil
}
