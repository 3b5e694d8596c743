package events

import "github.com/kelindar/event"

// Bus broadcasts LED, profile and log events to in-process subscribers.
// Delivery is asynchronous; handlers of one subscriber run in order.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{dispatcher: event.NewDispatcher()}
}

// Publish delivers ev to the subscribers of its concrete type.
// Values of unknown types are dropped.
func (b *Bus) Publish(ev Event) {
	// kelindar/event routes on the static type, so unwrap the interface first
	switch e := ev.(type) {
	case LEDStateChangedEvent:
		event.Publish(b.dispatcher, e)
	case ProfileLoadedEvent:
		event.Publish(b.dispatcher, e)
	case ProfileAppliedEvent:
		event.Publish(b.dispatcher, e)
	case LogEntryEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler, a func taking one of the event types, and
// returns the function that removes it. Other handler types are ignored.
//
//	unsub := bus.Subscribe(func(e ProfileLoadedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(LEDStateChangedEvent):
		return On(b, h)
	case func(ProfileLoadedEvent):
		return On(b, h)
	case func(ProfileAppliedEvent):
		return On(b, h)
	case func(LogEntryEvent):
		return On(b, h)
	}
	return func() {}
}

// On registers a typed handler for events of type T.
func On[T Event](b *Bus, handler func(T)) func() {
	return event.Subscribe(b.dispatcher, handler)
}

// Forward copies events of type T into ch for select loops such as SSE
// senders. Events are dropped while ch is full so a slow client never
// stalls the bus.
func Forward[T Event](b *Bus, ch chan<- any) func() {
	return On(b, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}
