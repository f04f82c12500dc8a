// Package transport owns the websocket connection to the daemon: it opens
// the connection, tracks its state, decodes inbound frames into (type,
// payload) pairs, and drives fixed-delay reconnection when the connection
// drops unexpectedly.
package transport

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	pkgerrors "github.com/deckhaven/arenalink/pkg/errors"
	"github.com/deckhaven/arenalink/pkg/logging"
)

// writeWait is the time allowed to write a close frame to the peer.
const writeWait = 10 * time.Second

// FrameHandler receives each successfully decoded inbound envelope,
// synchronously, one frame per callback, in arrival order.
type FrameHandler func(eventType string, data any)

// StateHandler receives the boolean connected/not-connected simplification
// of every state transition.
type StateHandler func(connected bool)

// Conn manages a single logical connection to the daemon's event stream.
// The underlying websocket is created on Connect and replaced wholesale on
// each reconnect attempt; it is never mutated in place.
type Conn struct {
	mu          sync.Mutex
	writeMu     sync.Mutex
	cfg         Config
	dialer      *websocket.Dialer
	ws          *websocket.Conn
	state       State
	attempts    int
	intentional bool
	retry       *time.Timer

	onFrame FrameHandler
	onState StateHandler
	logger  *zerolog.Logger
}

// Option configures a Conn.
type Option func(*Conn)

// WithFrameHandler sets the callback for decoded inbound frames.
func WithFrameHandler(h FrameHandler) Option {
	return func(c *Conn) {
		c.onFrame = h
	}
}

// WithStateHandler sets the callback for connection-state transitions.
func WithStateHandler(h StateHandler) Option {
	return func(c *Conn) {
		c.onState = h
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Conn) {
		c.logger = logger
	}
}

// WithDialer sets a custom websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Conn) {
		c.dialer = d
	}
}

// New creates a connection manager. No connection is opened until Connect.
func New(cfg Config, opts ...Option) *Conn {
	c := &Conn{
		cfg:    cfg,
		dialer: websocket.DefaultDialer,
		state:  StateDisconnected,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configure merges a partial update into the current config with
// last-write-wins semantics. Takes effect on the next dial.
func (c *Conn) Configure(p Partial) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = c.cfg.Merge(p)
}

// Config returns a snapshot of the current configuration.
func (c *Conn) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Connect opens the connection. If already connected it returns immediately
// with no error. It blocks until the connection's open handshake completes
// or fails; a pre-open failure is returned as a HandshakeError. On success
// the reconnect attempt counter resets to zero and state observers are
// notified with true.
func (c *Conn) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateConnected {
		c.mu.Unlock()
		return nil
	}
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
	c.intentional = false
	c.state = StateConnecting
	url := c.cfg.URL
	c.mu.Unlock()

	ws, resp, err := c.dialer.DialContext(ctx, url, nil) //nolint:bodyclose // gorilla owns resp.Body on success
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	c.mu.Lock()
	if err != nil {
		c.state = StateDisconnected
		c.mu.Unlock()
		c.logger.Warn().Err(err).Str("url", url).Msg("Connection attempt failed")
		return pkgerrors.WrapHandshake(url, err)
	}
	if c.intentional {
		// Disconnect raced the in-flight dial; honor it.
		c.state = StateDisconnected
		c.mu.Unlock()
		_ = ws.Close()
		return pkgerrors.ErrCanceled
	}
	c.ws = ws
	c.state = StateConnected
	c.attempts = 0
	c.mu.Unlock()

	c.logger.Info().Str("url", url).Msg("Connected to daemon event stream")
	c.notifyState(true)

	go c.readLoop(ws)
	return nil
}

// Disconnect closes the connection intentionally: any pending reconnect
// timer is cancelled, the peer gets a normal-closure frame, reconnection is
// suppressed, and state observers are notified with false.
func (c *Conn) Disconnect() {
	c.mu.Lock()
	c.intentional = true
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
	ws := c.ws
	c.ws = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	if ws != nil {
		deadline := time.Now().Add(writeWait)
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = ws.Close()
	}

	c.logger.Info().Msg("Disconnected from daemon event stream")
	c.notifyState(false)
}

// IsConnected reports whether the underlying connection is currently open.
// This is a live query of the manager's state, not a cached flag.
func (c *Conn) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws != nil && c.state == StateConnected
}

// State returns the current lifecycle state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Send writes a JSON message to the daemon. Returns ErrNotConnected when no
// connection is open.
func (c *Conn) Send(v any) error {
	c.mu.Lock()
	ws := c.ws
	c.mu.Unlock()

	if ws == nil {
		return pkgerrors.ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return ws.WriteJSON(v)
}

// Ping sends the daemon protocol's application-level ping message.
func (c *Conn) Ping() error {
	return c.Send(map[string]any{"type": "ping"})
}

// readLoop pumps frames from one websocket until it fails. Each frame is
// decoded and dispatched synchronously before the next read, so frames from
// a single connection are processed strictly in arrival order.
func (c *Conn) readLoop(ws *websocket.Conn) {
	for {
		_, message, err := ws.ReadMessage()
		if err != nil {
			c.handleClose(ws, err)
			return
		}
		c.handleFrame(message)
	}
}

// handleFrame parses one inbound frame as a {type, data} envelope. Parse
// failures are logged and the frame is dropped; they are never surfaced to
// a caller and never dispatched.
func (c *Conn) handleFrame(message []byte) {
	var envelope struct {
		Type string `json:"type"`
		Data any    `json:"data"`
	}
	if err := json.Unmarshal(message, &envelope); err != nil {
		frameErr := &pkgerrors.FrameError{Message: "decoding envelope", Err: err}
		c.logger.Warn().Err(frameErr).Msg("Dropping inbound frame")
		return
	}
	if envelope.Type == "" {
		c.logger.Warn().Err(&pkgerrors.FrameError{Message: "missing type field"}).
			Msg("Dropping inbound frame")
		return
	}

	if c.onFrame != nil {
		c.onFrame(envelope.Type, envelope.Data)
	}
}

// handleClose reacts to a read failure on ws. An intentional disconnect has
// already cleaned up and notified; an unexpected close notifies observers
// and schedules a fixed-delay reconnect unless attempts are exhausted.
func (c *Conn) handleClose(ws *websocket.Conn, err error) {
	c.mu.Lock()
	if c.ws != ws {
		// A newer connection superseded this one; nothing to do.
		c.mu.Unlock()
		return
	}
	c.ws = nil
	if c.intentional {
		c.state = StateDisconnected
		c.mu.Unlock()
		return
	}

	if c.attempts >= c.cfg.MaxReconnectAttempts {
		c.state = StateDisconnected
		maxAttempts := c.cfg.MaxReconnectAttempts
		c.mu.Unlock()
		c.logger.Warn().Err(err).
			Int("attempts", maxAttempts).
			Msg("Connection lost and reconnect attempts exhausted")
		c.notifyState(false)
		return
	}

	c.attempts++
	attempt := c.attempts
	c.state = StateReconnecting
	delay := c.cfg.ReconnectInterval
	c.mu.Unlock()

	c.logger.Warn().Err(err).
		Int("attempt", attempt).
		Dur("delay", delay).
		Msg("Connection lost unexpectedly, reconnect scheduled")

	// Observers must see the down transition before the timer can fire: a
	// short interval would otherwise let the redial's up notification land
	// first and be deduped away along with this one.
	c.notifyState(false)

	c.mu.Lock()
	if !c.intentional && c.state == StateReconnecting {
		c.retry = time.AfterFunc(delay, c.redial)
	}
	c.mu.Unlock()
}

// redial runs one scheduled reconnect attempt. A failed attempt schedules
// the next one after the same fixed interval until attempts are exhausted.
func (c *Conn) redial() {
	c.mu.Lock()
	if c.intentional {
		c.state = StateDisconnected
		c.mu.Unlock()
		return
	}
	url := c.cfg.URL
	interval := c.cfg.ReconnectInterval
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), interval+writeWait)
	ws, resp, err := c.dialer.DialContext(ctx, url, nil) //nolint:bodyclose // gorilla owns resp.Body on success
	cancel()
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	c.mu.Lock()
	if c.intentional {
		c.state = StateDisconnected
		c.mu.Unlock()
		if ws != nil {
			_ = ws.Close()
		}
		return
	}

	if err != nil {
		if c.attempts >= c.cfg.MaxReconnectAttempts {
			c.state = StateDisconnected
			attempts := c.attempts
			c.mu.Unlock()
			c.logger.Warn().Err(err).
				Int("attempts", attempts).
				Msg("Reconnect failed and attempts exhausted")
			return
		}
		c.attempts++
		attempt := c.attempts
		c.retry = time.AfterFunc(c.cfg.ReconnectInterval, c.redial)
		c.mu.Unlock()
		c.logger.Warn().Err(err).
			Int("attempt", attempt).
			Msg("Reconnect attempt failed, next attempt scheduled")
		return
	}

	c.ws = ws
	c.state = StateConnected
	c.attempts = 0
	c.retry = nil
	c.mu.Unlock()

	c.logger.Info().Str("url", url).Msg("Reconnected to daemon event stream")
	c.notifyState(true)

	go c.readLoop(ws)
}

// notifyState forwards a transition to the state handler, if any.
func (c *Conn) notifyState(connected bool) {
	if c.onState != nil {
		c.onState(connected)
	}
}
