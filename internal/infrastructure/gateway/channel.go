package gateway

import (
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sabaidee/pos-api/internal/domain/enum"
)

// StatusPaymentCompleted is the only notification status recognized as a
// successful settlement.
const StatusPaymentCompleted = "PAYMENT_COMPLETED"

// ChannelHandlers receives callbacks from a confirmation channel. Callbacks
// run on the channel's read goroutine; handlers must not block.
type ChannelHandlers struct {
	// OnStateChange fires on every connection-state transition. detail is a
	// secondary diagnostic string, only set alongside ChannelStateError.
	OnStateChange func(state enum.ChannelState, message, detail string)
	// OnPaymentCompleted fires at most once, after the channel has
	// unsubscribed itself.
	OnPaymentCompleted func()
}

// Channel is a single-use realtime connection to the gateway's notification
// service. Open may be called once; after Close the channel is dead and a new
// one must be created to reconnect.
type Channel interface {
	Open(credential string) error
	Close()
	State() enum.ChannelState
}

// ChannelFactory creates confirmation channels. The payment service holds a
// factory rather than a channel so each session (and each retry) gets a fresh
// connection.
type ChannelFactory func(handlers ChannelHandlers) Channel

// notifyEvent is a message from the notification service. Events arrive keyed
// by the subscribed credential ("join::<credential>").
type notifyEvent struct {
	Event string `json:"event"`
	Data  struct {
		Status string `json:"status"`
	} `json:"data"`
}

type subscribeFrame struct {
	Event string `json:"event"`
}

// wsChannel implements Channel over a websocket.
type wsChannel struct {
	url      string
	handlers ChannelHandlers

	mu         sync.Mutex
	conn       *websocket.Conn
	state      enum.ChannelState
	localClose bool
	completed  bool
}

// NewWSChannelFactory returns a factory producing websocket channels against
// the given notification URL.
func NewWSChannelFactory(url string) ChannelFactory {
	return func(handlers ChannelHandlers) Channel {
		return &wsChannel{
			url:      url,
			handlers: handlers,
			state:    enum.ChannelStateIdle,
		}
	}
}

func (c *wsChannel) State() enum.ChannelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *wsChannel) setState(state enum.ChannelState, message, detail string) {
	c.mu.Lock()
	if c.localClose && state == enum.ChannelStateError {
		// A locally initiated teardown is not an error.
		c.mu.Unlock()
		return
	}
	c.state = state
	c.mu.Unlock()

	if c.handlers.OnStateChange != nil {
		c.handlers.OnStateChange(state, message, detail)
	}
}

// Open dials the notification service and subscribes to the credential's
// event. It returns after the subscription is sent; completion notifications
// arrive via the handlers. Opening a channel that was already closed is a
// no-op so a Close racing the dial can never leave a live connection behind.
func (c *wsChannel) Open(credential string) error {
	c.mu.Lock()
	if c.localClose {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	c.setState(enum.ChannelStateConnecting, "", "")

	dialer := &websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		msg, detail := categorize(err)
		log.Warn().Err(err).Str("url", c.url).Msg("confirmation channel dial failed")
		c.setState(enum.ChannelStateError, msg, detail)
		return err
	}

	c.mu.Lock()
	if c.localClose {
		// Close was called while the dial was in flight; drop the connection
		// instead of letting it outlive the session.
		c.mu.Unlock()
		conn.Close()
		return nil
	}
	c.conn = conn
	c.mu.Unlock()

	sub := subscribeFrame{Event: "join::" + credential}
	if err := conn.WriteJSON(sub); err != nil {
		msg, detail := categorize(err)
		log.Warn().Err(err).Msg("confirmation channel subscribe failed")
		conn.Close()
		c.setState(enum.ChannelStateError, msg, detail)
		return err
	}

	c.setState(enum.ChannelStateConnected, "", "")
	log.Info().Msg("confirmation channel connected")

	go c.readLoop(conn, credential)
	return nil
}

func (c *wsChannel) readLoop(conn *websocket.Conn, credential string) {
	for {
		var event notifyEvent
		if err := conn.ReadJSON(&event); err != nil {
			c.mu.Lock()
			local := c.localClose
			done := c.completed
			c.mu.Unlock()
			if local || done {
				return
			}
			msg, detail := categorize(err)
			log.Warn().Err(err).Msg("confirmation channel dropped")
			c.setState(enum.ChannelStateError, msg, detail)
			return
		}

		if event.Event != "" && event.Event != "join::"+credential {
			continue
		}
		if event.Data.Status != StatusPaymentCompleted {
			continue
		}

		// Unsubscribe before signalling so a duplicate delivery can never
		// fire the callback twice.
		c.mu.Lock()
		if c.completed {
			c.mu.Unlock()
			return
		}
		c.completed = true
		c.mu.Unlock()

		_ = conn.WriteJSON(subscribeFrame{Event: "leave::" + credential})
		conn.Close()

		log.Info().Msg("payment completed notification received")
		if c.handlers.OnPaymentCompleted != nil {
			c.handlers.OnPaymentCompleted()
		}
		return
	}
}

// Close tears the channel down. Idempotent; a read error caused by the local
// close is suppressed.
func (c *wsChannel) Close() {
	c.mu.Lock()
	if c.localClose {
		c.mu.Unlock()
		return
	}
	c.localClose = true
	conn := c.conn
	c.state = enum.ChannelStateIdle
	c.mu.Unlock()

	if conn != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}
}

// categorize maps low-level transport errors to a short cashier-facing
// message, keeping the raw error text as secondary detail.
func categorize(err error) (message, detail string) {
	detail = err.Error()
	lower := strings.ToLower(detail)

	switch {
	case strings.Contains(lower, "bad handshake"),
		strings.Contains(lower, "403"),
		strings.Contains(lower, "blocked"):
		return "realtime connection blocked by the gateway", detail
	case strings.Contains(lower, "no such host"),
		strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "timeout"),
		strings.Contains(lower, "network is unreachable"),
		strings.Contains(lower, "cors"):
		return "network failure reaching the notification service", detail
	default:
		return "realtime connection failed", detail
	}
}
