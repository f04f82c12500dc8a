// Package events provides the in-memory event registry and dispatcher that
// sit at the heart of the real-time delivery layer. The transport decodes
// inbound frames into (type, payload) pairs and hands them to a Dispatcher,
// which fans them out to the Registry's listeners.
package events

// Wildcard is the reserved event type that matches every event. Wildcard
// listeners are stored and iterated independently from exact-match entries
// and receive the full Envelope rather than just the payload.
const Wildcard = "*"

// Envelope is the {type, data} wire record carried by the transport.
// Wildcard listeners receive it as their payload so they can see the event
// name; exact-match listeners receive only Data.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Listener is a caller-supplied callback registered against an event type.
// Exact-match listeners receive the event payload; listeners registered
// against Wildcard receive an Envelope value instead.
//
// Listeners must not block: dispatch is synchronous with respect to the
// transport's read loop and there is no backpressure. A listener that needs
// to do slow work must defer it to its own goroutine.
type Listener func(data any)

// ConnectionObserver is notified with a boolean connected/not-connected
// simplification of the transport's state on every transition.
type ConnectionObserver func(connected bool)

// UnsubscribeFunc removes the listener it was returned for. Calling it more
// than once is a no-op after the first call.
type UnsubscribeFunc func()
