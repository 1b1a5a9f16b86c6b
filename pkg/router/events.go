package router

import (
	"fmt"
	"reflect"
	"sync"
)

// Lifecycle and transition event names.
const (
	EventRouterStart       = "$start"
	EventRouterStop        = "$stop"
	EventTransitionStart   = "$$start"
	EventTransitionCancel  = "$$cancel"
	EventTransitionSuccess = "$$success"
	EventTransitionError   = "$$error"
)

// TransitionEvent is the payload delivered to event listeners. ToState
// and FromState may be nil depending on the event: router lifecycle
// events carry no states, and a cancellation that fires before target
// resolution carries no ToState.
type TransitionEvent struct {
	ToState   *State
	FromState *State
	Err       *Error
	Options   NavigationOptions
}

// EventListener receives router events registered by name.
type EventListener func(ev TransitionEvent)

type eventEntry struct {
	seq int64
	ptr uintptr
	fn  EventListener
}

type eventBus struct {
	mu        sync.Mutex
	seq       int64
	listeners map[string][]eventEntry
}

func newEventBus() *eventBus {
	return &eventBus{listeners: make(map[string][]eventEntry)}
}

func (b *eventBus) add(name string, fn EventListener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	seq := b.seq
	b.listeners[name] = append(b.listeners[name], eventEntry{
		seq: seq,
		ptr: reflect.ValueOf(fn).Pointer(),
		fn:  fn,
	})
	return func() { b.removeSeq(name, seq) }
}

func (b *eventBus) removeSeq(name string, seq int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.listeners[name]
	for i, e := range entries {
		if e.seq == seq {
			b.listeners[name] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// removeFn removes the first listener registered with the same function
// value. Distinct closures over the same literal share a code pointer, so
// prefer the unsubscribe closure returned by add when registering the
// same literal more than once.
func (b *eventBus) removeFn(name string, fn EventListener) bool {
	ptr := reflect.ValueOf(fn).Pointer()
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.listeners[name]
	for i, e := range entries {
		if e.ptr == ptr {
			b.listeners[name] = append(entries[:i:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

// invoke notifies listeners registered for name. The listener slice is
// copied before calling out so listeners may subscribe or unsubscribe
// from within a notification.
func (b *eventBus) invoke(name string, ev TransitionEvent) {
	b.mu.Lock()
	entries := b.listeners[name]
	snapshot := make([]eventEntry, len(entries))
	copy(snapshot, entries)
	b.mu.Unlock()
	for _, e := range snapshot {
		e.fn(ev)
	}
}

// AddEventListener registers fn for the named event and returns its
// unsubscribe function.
func (r *Router) AddEventListener(name string, fn EventListener) func() {
	return r.bus.add(name, fn)
}

// RemoveEventListener removes the first listener registered with the same
// function value for the named event.
func (r *Router) RemoveEventListener(name string, fn EventListener) bool {
	return r.bus.removeFn(name, fn)
}

// InvokeEventListeners synchronously notifies listeners of the named
// event. Plugins such as history adapters use it to inject events.
func (r *Router) InvokeEventListeners(name string, ev TransitionEvent) {
	r.bus.invoke(name, ev)
}

// SubscribeState is the payload delivered to Subscribe targets on every
// successful transition.
type SubscribeState struct {
	Route         *State
	PreviousRoute *State
}

// Observer is the interface form of a Subscribe target.
type Observer interface {
	Next(SubscribeState)
}

// Subscription undoes a Subscribe.
type Subscription struct {
	unsubscribe func()
}

// Unsubscribe removes the subscriber. Safe to call more than once.
func (s Subscription) Unsubscribe() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Subscribe registers a target notified after every committed transition.
// Accepted types are func(SubscribeState) and Observer; any other type
// panics, since the mistake is always at the call site.
func (r *Router) Subscribe(target any) Subscription {
	var next func(SubscribeState)
	switch t := target.(type) {
	case func(SubscribeState):
		next = t
	case Observer:
		next = t.Next
	default:
		panic(fmt.Sprintf("router: Subscribe target must be func(SubscribeState) or Observer, got %T", target))
	}
	unsub := r.bus.add(EventTransitionSuccess, func(ev TransitionEvent) {
		next(SubscribeState{Route: ev.ToState, PreviousRoute: ev.FromState})
	})
	return Subscription{unsubscribe: unsub}
}
