// Package compat provides the compatibility shim that lets code written
// against the embedded runtime's synchronous call vocabulary run unchanged
// against the event registry and the network transport. It has two
// independent facades: a Runtime exposing the embedded runtime's event and
// window primitives, and an Invoker redirecting named remote calls to a
// configurable table of REST-backed handlers.
package compat

import (
	"github.com/rs/zerolog"

	"github.com/deckhaven/arenalink/pkg/events"
)

// Screen describes a display, in the shape the embedded runtime reported it.
type Screen struct {
	IsCurrent bool `json:"isCurrent"`
	IsPrimary bool `json:"isPrimary"`
	Width     int  `json:"width"`
	Height    int  `json:"height"`
}

// Runtime mimics the embedded runtime's event API on top of the registry and
// dispatcher. EventsEmit is a purely local path: it self-dispatches without
// touching the network, so the facade stays fully usable offline.
//
// Window and screen operations have no meaning outside the embedded runtime;
// they are harmless no-ops returning sensible defaults, never errors.
type Runtime struct {
	registry   *events.Registry
	dispatcher *events.Dispatcher
	logger     *zerolog.Logger
}

// NewRuntime creates the event-API facade over an existing registry and
// dispatcher.
func NewRuntime(registry *events.Registry, dispatcher *events.Dispatcher, logger *zerolog.Logger) *Runtime {
	return &Runtime{
		registry:   registry,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// EventsOn subscribes a listener to an event type and returns an unsubscribe
// closure.
func (rt *Runtime) EventsOn(eventType string, fn events.Listener) events.UnsubscribeFunc {
	return rt.registry.Subscribe(eventType, fn)
}

// EventsOnce subscribes a listener that fires at most once.
func (rt *Runtime) EventsOnce(eventType string, fn events.Listener) events.UnsubscribeFunc {
	return rt.registry.SubscribeOnce(eventType, fn)
}

// EventsOff removes every listener for the named event types.
func (rt *Runtime) EventsOff(eventType string, additional ...string) {
	rt.registry.UnsubscribeAll(append([]string{eventType}, additional...)...)
}

// EventsEmit dispatches an event locally. With no payload the listeners
// receive nil; with one payload they receive it directly; with several they
// receive the payload slice, matching the embedded runtime's variadic emit.
func (rt *Runtime) EventsEmit(eventType string, data ...any) {
	var payload any
	switch len(data) {
	case 0:
	case 1:
		payload = data[0]
	default:
		payload = data
	}
	rt.dispatcher.Dispatch(eventType, payload)
}

// WindowSetAlwaysOnTop is a no-op outside the embedded runtime.
func (rt *Runtime) WindowSetAlwaysOnTop(onTop bool) {
	rt.logger.Debug().Bool("on_top", onTop).Msg("WindowSetAlwaysOnTop ignored outside embedded runtime")
}

// WindowSetTitle is a no-op outside the embedded runtime.
func (rt *Runtime) WindowSetTitle(title string) {
	rt.logger.Debug().Str("title", title).Msg("WindowSetTitle ignored outside embedded runtime")
}

// WindowShow is a no-op outside the embedded runtime.
func (rt *Runtime) WindowShow() {}

// WindowHide is a no-op outside the embedded runtime.
func (rt *Runtime) WindowHide() {}

// ScreenGetAll reports a single default screen, the best-effort stand-in for
// the embedded runtime's screen list.
func (rt *Runtime) ScreenGetAll() []Screen {
	return []Screen{
		{IsCurrent: true, IsPrimary: true, Width: 1920, Height: 1080},
	}
}
