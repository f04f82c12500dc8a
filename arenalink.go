// Package arenalink bridges a desktop deck tracker to its companion daemon.
// It owns the event registry, the websocket transport, the compatibility
// shim for embedded-runtime callers, and the daemon REST handler table,
// and exposes them behind a single hub.
package arenalink

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/deckhaven/arenalink/pkg/compat"
	"github.com/deckhaven/arenalink/pkg/daemon"
	"github.com/deckhaven/arenalink/pkg/events"
	"github.com/deckhaven/arenalink/pkg/transport"
)

// Bridge is the hub connecting the tracker frontend to the daemon. All
// methods are safe for concurrent use.
type Bridge interface {
	// Connect opens the websocket connection to the daemon. Already
	// connected is not an error.
	Connect(ctx context.Context) error

	// Disconnect closes the connection intentionally, suppressing any
	// reconnection.
	Disconnect()

	// IsConnected reports whether the websocket is currently open.
	IsConnected() bool

	// ConfigureTransport merges a partial transport config update.
	ConfigureTransport(p transport.Partial)

	// TransportConfig returns a snapshot of the transport configuration.
	TransportConfig() transport.Config

	// Subscribe registers a listener for an event type. The wildcard type
	// "*" receives every event as an events.Envelope. The returned closure
	// removes the listener and is safe to call more than once.
	Subscribe(eventType string, fn events.Listener) events.UnsubscribeFunc

	// SubscribeOnce registers a listener removed after its first delivery.
	SubscribeOnce(eventType string, fn events.Listener) events.UnsubscribeFunc

	// UnsubscribeAll removes every listener for the given event types.
	UnsubscribeAll(eventTypes ...string)

	// CountListeners returns the number of listeners for an event type.
	CountListeners(eventType string) int

	// RegisteredTypes lists event types with at least one exact listener.
	RegisteredTypes() []string

	// EmitLocally dispatches an event to local listeners without touching
	// the wire.
	EmitLocally(eventType string, data any)

	// OnConnectionChange registers a connection observer, invoking it
	// immediately with the current state.
	OnConnectionChange(fn events.ConnectionObserver) events.UnsubscribeFunc

	// ConfigureHandlers installs the remote method table used by Call.
	ConfigureHandlers(table compat.Table)

	// Call invokes a named remote method from the handler table.
	Call(ctx context.Context, method string, args ...any) (any, error)

	// Runtime returns the embedded-runtime compatibility facade.
	Runtime() *compat.Runtime

	// Daemon returns the daemon REST client.
	Daemon() *daemon.Client

	// Reset clears listeners, observers, and the handler table. Intended
	// for test isolation.
	Reset()
}

// bridge is the concrete hub. Constructed once via New and shared.
type bridge struct {
	registry   *events.Registry
	dispatcher *events.Dispatcher
	conn       *transport.Conn
	invoker    *compat.Invoker
	daemon     *daemon.Client
	logger     *zerolog.Logger

	runtimeOnce sync.Once
	runtime     *compat.Runtime
}

// New creates the hub, wiring the transport's frame stream into the
// dispatcher and its state transitions into the registry's observers.
func New(opts ...Option) Bridge {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	b := &bridge{
		registry: events.NewRegistry(),
		logger:   o.logger,
	}
	b.dispatcher = events.NewDispatcher(b.registry, o.logger)
	b.invoker = compat.NewInvoker(o.logger)
	b.daemon = daemon.New(o.daemonConfig, daemon.WithLogger(o.logger))

	connOpts := []transport.Option{
		transport.WithFrameHandler(b.dispatcher.Dispatch),
		transport.WithStateHandler(b.registry.NotifyConnection),
		transport.WithLogger(o.logger),
	}
	if o.dialer != nil {
		connOpts = append(connOpts, transport.WithDialer(o.dialer))
	}
	b.conn = transport.New(o.transportConfig, connOpts...)

	if o.handlerTable != nil {
		b.invoker.Configure(o.handlerTable)
	} else {
		b.invoker.Configure(daemon.HandlerTable(b.daemon))
	}

	return b
}

func (b *bridge) Connect(ctx context.Context) error {
	return b.conn.Connect(ctx)
}

func (b *bridge) Disconnect() {
	b.conn.Disconnect()
}

func (b *bridge) IsConnected() bool {
	return b.conn.IsConnected()
}

func (b *bridge) ConfigureTransport(p transport.Partial) {
	b.conn.Configure(p)
}

func (b *bridge) TransportConfig() transport.Config {
	return b.conn.Config()
}

func (b *bridge) Subscribe(eventType string, fn events.Listener) events.UnsubscribeFunc {
	return b.registry.Subscribe(eventType, fn)
}

func (b *bridge) SubscribeOnce(eventType string, fn events.Listener) events.UnsubscribeFunc {
	return b.registry.SubscribeOnce(eventType, fn)
}

func (b *bridge) UnsubscribeAll(eventTypes ...string) {
	b.registry.UnsubscribeAll(eventTypes...)
}

func (b *bridge) CountListeners(eventType string) int {
	return b.registry.CountListeners(eventType)
}

func (b *bridge) RegisteredTypes() []string {
	return b.registry.RegisteredTypes()
}

func (b *bridge) EmitLocally(eventType string, data any) {
	b.dispatcher.Dispatch(eventType, data)
}

func (b *bridge) OnConnectionChange(fn events.ConnectionObserver) events.UnsubscribeFunc {
	return b.registry.OnConnectionChange(fn)
}

func (b *bridge) ConfigureHandlers(table compat.Table) {
	b.invoker.Configure(table)
}

func (b *bridge) Call(ctx context.Context, method string, args ...any) (any, error) {
	return b.invoker.Call(ctx, method, args...)
}

func (b *bridge) Runtime() *compat.Runtime {
	b.runtimeOnce.Do(func() {
		b.runtime = compat.NewRuntime(b.registry, b.dispatcher, b.logger)
	})
	return b.runtime
}

func (b *bridge) Daemon() *daemon.Client {
	return b.daemon
}

func (b *bridge) Reset() {
	b.registry.Clear()
	b.invoker.Reset()
}

var _ Bridge = (*bridge)(nil)
