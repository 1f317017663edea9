// Package events is the per-graph observer registry. Every graph owns its
// own Emitter; listeners subscribe by event name.
package events

import (
	"sync"

	"github.com/google/uuid"
)

// Event names.
const (
	Rendered  = "rendered"
	NoMatch   = "no match"
	NodeClick = "node:click"
	NodeOver  = "node:mouseover"
	NodeOut   = "node:mouseout"
	Reset     = "reset"
)

// Point is a pointer position in surface coordinates, passed in by the host
// with every pointer event.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Payload is what listeners receive. Node is set for node:* events; Point is
// set for pointer events; Visible is the visible node count after a render.
type Payload struct {
	Name    string
	NodeID  string
	Data    map[string]any
	Point   *Point
	Visible int
}

// Listener handles one event.
type Listener func(Payload)

// Subscription identifies a registered listener so it can be removed.
type Subscription struct {
	Event string
	ID    uuid.UUID
}

type entry struct {
	id uuid.UUID
	fn Listener
}

// Emitter dispatches events to listeners in subscription order. It is safe
// for concurrent use and never holds its lock while calling a listener, so
// listeners may subscribe or unsubscribe from inside a callback.
type Emitter struct {
	mu        sync.RWMutex
	listeners map[string][]entry
}

// NewEmitter creates an empty registry.
func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[string][]entry)}
}

// On registers fn for event.
func (e *Emitter) On(event string, fn Listener) Subscription {
	sub := Subscription{Event: event, ID: uuid.New()}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], entry{id: sub.ID, fn: fn})
	return sub
}

// Once registers fn for a single delivery of event.
func (e *Emitter) Once(event string, fn Listener) Subscription {
	var sub Subscription
	var once sync.Once
	sub = e.On(event, func(p Payload) {
		once.Do(func() {
			e.Off(sub)
			fn(p)
		})
	})
	return sub
}

// Off removes a listener. It reports whether the subscription was active.
func (e *Emitter) Off(sub Subscription) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	list := e.listeners[sub.Event]
	for i, en := range list {
		if en.id != sub.ID {
			continue
		}
		next := make([]entry, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(e.listeners, sub.Event)
		} else {
			e.listeners[sub.Event] = next
		}
		return true
	}
	return false
}

// Emit delivers p to every listener of p.Name and returns how many ran.
func (e *Emitter) Emit(p Payload) int {
	e.mu.RLock()
	list := e.listeners[p.Name]
	e.mu.RUnlock()

	for _, en := range list {
		en.fn(p)
	}
	return len(list)
}

// Count returns the number of listeners registered for event.
func (e *Emitter) Count(event string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[event])
}
