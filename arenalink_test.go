package arenalink

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckhaven/arenalink/pkg/compat"
	pkgerrors "github.com/deckhaven/arenalink/pkg/errors"
	"github.com/deckhaven/arenalink/pkg/events"
	"github.com/deckhaven/arenalink/pkg/logging"
	"github.com/deckhaven/arenalink/pkg/transport"
)

// eventServer is a minimal daemon event stream for hub tests. Frames
// written to send are forwarded to the first accepted client.
type eventServer struct {
	*httptest.Server
	send chan any
}

func newEventServer(t *testing.T) *eventServer {
	t.Helper()
	upgrader := websocket.Upgrader{}
	es := &eventServer{send: make(chan any, 16)}
	es.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := ws.ReadMessage(); err != nil {
					return
				}
			}
		}()
		for {
			select {
			case frame := <-es.send:
				if err := ws.WriteJSON(frame); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}))
	t.Cleanup(es.Close)
	return es
}

func (es *eventServer) wsURL() string {
	return "ws" + strings.TrimPrefix(es.URL, "http")
}

func newTestBridge(t *testing.T, es *eventServer) Bridge {
	t.Helper()
	cfg := transport.DefaultConfig()
	cfg.URL = es.wsURL()
	b := New(
		WithTransportConfig(cfg),
		WithLogger(logging.NewNopLogger()),
	)
	t.Cleanup(b.Disconnect)
	return b
}

func TestBridge_ConnectAndDispatch(t *testing.T) {
	es := newEventServer(t)
	b := newTestBridge(t, es)

	received := make(chan any, 1)
	b.Subscribe("daemon:card-update", func(data any) {
		received <- data
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, b.Connect(ctx))
	assert.True(t, b.IsConnected())

	es.send <- map[string]any{
		"type": "daemon:card-update",
		"data": map[string]any{"cardId": float64(70001), "count": float64(4)},
	}

	select {
	case data := <-received:
		payload, ok := data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(70001), payload["cardId"])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatched event")
	}
}

func TestBridge_WildcardReceivesEnvelope(t *testing.T) {
	es := newEventServer(t)
	b := newTestBridge(t, es)

	received := make(chan events.Envelope, 1)
	b.Subscribe(events.Wildcard, func(data any) {
		if env, ok := data.(events.Envelope); ok {
			received <- env
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, b.Connect(ctx))

	es.send <- map[string]any{"type": "daemon:status", "data": "connected"}

	select {
	case env := <-received:
		assert.Equal(t, "daemon:status", env.Type)
		assert.Equal(t, "connected", env.Data)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for wildcard delivery")
	}
}

func TestBridge_ConnectionObservers(t *testing.T) {
	es := newEventServer(t)
	b := newTestBridge(t, es)

	states := make(chan bool, 8)
	b.OnConnectionChange(func(connected bool) {
		states <- connected
	})

	// Immediate callback with the current (disconnected) state.
	select {
	case connected := <-states:
		assert.False(t, connected)
	case <-time.After(time.Second):
		t.Fatal("observer was not invoked at registration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, b.Connect(ctx))

	select {
	case connected := <-states:
		assert.True(t, connected)
	case <-time.After(2 * time.Second):
		t.Fatal("observer did not see the connect transition")
	}

	b.Disconnect()
	select {
	case connected := <-states:
		assert.False(t, connected)
	case <-time.After(2 * time.Second):
		t.Fatal("observer did not see the disconnect transition")
	}
}

func TestBridge_EmitLocallyOffline(t *testing.T) {
	b := New(WithLogger(logging.NewNopLogger()))

	var got any
	b.Subscribe("ui:refresh", func(data any) { got = data })
	b.EmitLocally("ui:refresh", 42)
	assert.Equal(t, 42, got)
	assert.False(t, b.IsConnected())
}

func TestBridge_ConfigureTransport(t *testing.T) {
	b := New(WithLogger(logging.NewNopLogger()))

	url := "ws://localhost:7777/ws"
	interval := 2 * time.Second
	b.ConfigureTransport(transport.Partial{URL: &url, ReconnectInterval: &interval})

	cfg := b.TransportConfig()
	assert.Equal(t, url, cfg.URL)
	assert.Equal(t, interval, cfg.ReconnectInterval)
	assert.Equal(t, transport.DefaultMaxReconnectAttempts, cfg.MaxReconnectAttempts)
}

func TestBridge_CallThroughHandlerTable(t *testing.T) {
	table := compat.Table{
		"Echo": func(_ context.Context, args ...any) (any, error) {
			return args[0], nil
		},
	}
	b := New(WithHandlerTable(table), WithLogger(logging.NewNopLogger()))

	result, err := b.Call(context.Background(), "Echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", result)

	_, err = b.Call(context.Background(), "Missing")
	assert.True(t, pkgerrors.IsMethodNotAvailable(err))
}

func TestBridge_DefaultTableIsDaemonBacked(t *testing.T) {
	b := New(WithLogger(logging.NewNopLogger()))
	_, err := b.Call(context.Background(), "NotARealMethod")
	assert.True(t, pkgerrors.IsMethodNotAvailable(err))
}

func TestBridge_RuntimeFacade(t *testing.T) {
	b := New(WithLogger(logging.NewNopLogger()))
	rt := b.Runtime()
	require.NotNil(t, rt)
	assert.Same(t, rt, b.Runtime())

	var got any
	rt.EventsOn("match:start", func(data any) { got = data })
	rt.EventsEmit("match:start", "boros")
	assert.Equal(t, "boros", got)

	// Emitting through the runtime reaches hub subscribers and vice versa.
	var hubGot any
	b.Subscribe("match:end", func(data any) { hubGot = data })
	rt.EventsEmit("match:end", "win")
	assert.Equal(t, "win", hubGot)
}

func TestBridge_Reset(t *testing.T) {
	b := New(WithLogger(logging.NewNopLogger()))
	b.Subscribe("a", func(any) {})
	b.ConfigureHandlers(compat.Table{"X": func(context.Context, ...any) (any, error) { return nil, nil }})

	b.Reset()
	assert.Zero(t, b.CountListeners("a"))
	assert.Empty(t, b.RegisteredTypes())

	_, err := b.Call(context.Background(), "X")
	assert.True(t, pkgerrors.IsNotInitialized(err))
}
