package events

import (
	"github.com/rs/zerolog"
)

// Dispatcher fans events out to the registry's listeners. Within one Dispatch
// call, exact-match listeners run before wildcard listeners, and within each
// group listeners run in subscription order. Each listener runs inside an
// isolated failure boundary: a panic is recovered and logged with the
// offending event type, and the remaining listeners still run.
type Dispatcher struct {
	registry *Registry
	logger   *zerolog.Logger
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   logger,
	}
}

// Dispatch delivers an event to all matching listeners. It is fire-and-forget
// from the caller's perspective: it has no return value, never blocks beyond
// the listeners' own synchronous work, and never propagates listener
// failures. Listeners added or removed by a listener mid-dispatch affect only
// subsequent dispatches.
func (d *Dispatcher) Dispatch(eventType string, payload any) {
	exact, wildcard := d.registry.snapshot(eventType)

	for _, e := range exact {
		d.invoke(eventType, e.fn, payload)
	}

	if len(wildcard) == 0 {
		return
	}

	env := Envelope{Type: eventType, Data: payload}
	for _, e := range wildcard {
		d.invoke(eventType, e.fn, env)
	}
}

// invoke runs a single listener inside a panic boundary.
func (d *Dispatcher) invoke(eventType string, fn Listener, payload any) {
	defer func() {
		if recovered := recover(); recovered != nil {
			d.logger.Error().
				Str("event_type", eventType).
				Interface("panic", recovered).
				Msg("Listener panicked during dispatch")
		}
	}()

	fn(payload)
}
