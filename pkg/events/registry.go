package events

import (
	"sync"
)

// entry wraps a listener so it has an identity the unsubscribe closure can
// remove without comparing function values.
type entry struct {
	fn Listener
}

// observerEntry wraps a connection-state observer for the same reason.
type observerEntry struct {
	fn ConnectionObserver
}

// Registry maps event types to ordered listener lists. Wildcard listeners and
// connection-state observers are kept in separate lists. It is safe for
// concurrent use; all mutation is visible to the very next dispatch.
type Registry struct {
	mu        sync.RWMutex
	listeners map[string][]*entry
	wildcard  []*entry
	observers []*observerEntry
	connected bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		listeners: make(map[string][]*entry),
	}
}

// Subscribe adds a listener for the given event type and returns an
// unsubscribe closure. Subscribing never fails; any string is a legal event
// type, including the reserved Wildcard. The closure removes exactly the
// listener instance it was returned for and is a no-op after the first call.
func (r *Registry) Subscribe(eventType string, fn Listener) UnsubscribeFunc {
	e := &entry{fn: fn}

	r.mu.Lock()
	if eventType == Wildcard {
		r.wildcard = append(r.wildcard, e)
	} else {
		r.listeners[eventType] = append(r.listeners[eventType], e)
	}
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.remove(eventType, e)
		})
	}
}

// SubscribeOnce adds a listener that fires at most once. The wrapper removes
// itself before invoking the original listener, so a second event arriving
// during the first invocation can never reach it.
func (r *Registry) SubscribeOnce(eventType string, fn Listener) UnsubscribeFunc {
	// The wrapper must never observe a half-built closure: a dispatch from
	// the transport's read loop can invoke it the instant it is registered,
	// so off is fully assembled before the entry becomes visible.
	wrapper := &entry{}
	var once sync.Once
	off := func() {
		once.Do(func() {
			r.remove(eventType, wrapper)
		})
	}
	wrapper.fn = func(data any) {
		off()
		fn(data)
	}

	r.mu.Lock()
	if eventType == Wildcard {
		r.wildcard = append(r.wildcard, wrapper)
	} else {
		r.listeners[eventType] = append(r.listeners[eventType], wrapper)
	}
	r.mu.Unlock()

	return off
}

// UnsubscribeAll deletes the entire listener list for each named type,
// unconditionally. Types with no listeners are ignored.
func (r *Registry) UnsubscribeAll(eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, eventType := range eventTypes {
		if eventType == Wildcard {
			r.wildcard = nil
			continue
		}
		delete(r.listeners, eventType)
	}
}

// CountListeners returns the number of listeners registered for the given
// type. Wildcard listeners are not included in a specific type's count;
// passing Wildcard returns the wildcard count itself.
func (r *Registry) CountListeners(eventType string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if eventType == Wildcard {
		return len(r.wildcard)
	}
	return len(r.listeners[eventType])
}

// RegisteredTypes returns all event types with at least one exact-match
// listener. The wildcard list is not included.
func (r *Registry) RegisteredTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.listeners) == 0 {
		return nil
	}

	types := make([]string, 0, len(r.listeners))
	for t := range r.listeners {
		types = append(types, t)
	}
	return types
}

// OnConnectionChange registers a connection-state observer and returns an
// unsubscribe closure. The observer is invoked immediately with the current
// state, then on every transition.
func (r *Registry) OnConnectionChange(fn ConnectionObserver) UnsubscribeFunc {
	e := &observerEntry{fn: fn}

	r.mu.Lock()
	r.observers = append(r.observers, e)
	current := r.connected
	r.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			r.removeObserver(e)
		})
	}
}

// NotifyConnection records a connection-state transition and fans it out to
// all observers. Repeated notifications with an unchanged state are dropped
// so observers only ever see transitions.
func (r *Registry) NotifyConnection(connected bool) {
	r.mu.Lock()
	if r.connected == connected {
		r.mu.Unlock()
		return
	}
	r.connected = connected
	observers := make([]*observerEntry, len(r.observers))
	copy(observers, r.observers)
	r.mu.Unlock()

	for _, o := range observers {
		o.fn(connected)
	}
}

// Connected returns the last-known connection state.
func (r *Registry) Connected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connected
}

// Clear removes all listeners, wildcard listeners, and observers. The
// last-known connection state is reset to disconnected. Used for test
// isolation.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listeners = make(map[string][]*entry)
	r.wildcard = nil
	r.observers = nil
	r.connected = false
}

// snapshot returns copies of the exact-match and wildcard listener lists for
// the given type, so a listener that mutates the registry mid-dispatch cannot
// corrupt the in-progress iteration.
func (r *Registry) snapshot(eventType string) (exact, wildcard []*entry) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if list := r.listeners[eventType]; len(list) > 0 {
		exact = make([]*entry, len(list))
		copy(exact, list)
	}
	if len(r.wildcard) > 0 {
		wildcard = make([]*entry, len(r.wildcard))
		copy(wildcard, r.wildcard)
	}
	return exact, wildcard
}

// remove deletes a single listener entry, dropping the type's map entry
// entirely if it becomes empty. No tombstones: "is anyone listening" stays an
// existence check.
func (r *Registry) remove(eventType string, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if eventType == Wildcard {
		for i, candidate := range r.wildcard {
			if candidate == e {
				r.wildcard = append(r.wildcard[:i], r.wildcard[i+1:]...)
				break
			}
		}
		return
	}

	list := r.listeners[eventType]
	for i, candidate := range list {
		if candidate == e {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(r.listeners, eventType)
	} else {
		r.listeners[eventType] = list
	}
}

// removeObserver deletes a single connection-state observer.
func (r *Registry) removeObserver(e *observerEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, candidate := range r.observers {
		if candidate == e {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}
