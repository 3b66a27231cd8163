package datatable

import (
	"fmt"
	"log/slog"
)

// Handler receives events dispatched by an EventBus.
type Handler func(Event)

type subscription struct {
	id      uint64
	name    EventName // empty for all events
	handler Handler
}

// EventBus is the publish point of the events of a single table.
//
// Dispatch is synchronous and calls the handlers in the order
// they were subscribed. Events are dispatched after the state
// transition they report has been committed.
// A panicking handler is recovered and logged so that
// listeners can't block table operations.
//
// EventBus is not safe for concurrent use.
type EventBus struct {
	logger *slog.Logger
	subs   []subscription
	nextID uint64
}

// NewEventBus returns an EventBus that logs handler panics to logger.
// A nil logger uses slog.Default().
func NewEventBus(logger *slog.Logger) *EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventBus{logger: logger}
}

// Subscribe registers handler for events with the passed name
// and returns a function to unsubscribe it again.
func (b *EventBus) Subscribe(name EventName, handler Handler) (unsubscribe func()) {
	if name == "" {
		panic("datatable: Subscribe with empty EventName, use SubscribeAll")
	}
	return b.subscribe(name, handler)
}

// SubscribeAll registers handler for all events.
func (b *EventBus) SubscribeAll(handler Handler) (unsubscribe func()) {
	return b.subscribe("", handler)
}

func (b *EventBus) subscribe(name EventName, handler Handler) func() {
	if handler == nil {
		panic("datatable: nil event Handler")
	}
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, name: name, handler: handler})
	return func() {
		for i, sub := range b.subs {
			if sub.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// NumSubscribers returns the number of handlers that
// would receive an event with the passed name.
func (b *EventBus) NumSubscribers(name EventName) int {
	n := 0
	for _, sub := range b.subs {
		if sub.name == "" || sub.name == name {
			n++
		}
	}
	return n
}

// Dispatch calls all handlers subscribed to the event.
func (b *EventBus) Dispatch(event Event) {
	name := event.EventName()
	// Handlers may unsubscribe while dispatching,
	// iterate over the subscriptions at the time of the call
	subs := b.subs
	for _, sub := range subs {
		if sub.name != "" && sub.name != name {
			continue
		}
		b.call(sub.handler, event)
	}
}

func (b *EventBus) call(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("Table event handler panicked",
				slog.String("event", string(event.EventName())),
				slog.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	handler(event)
}

// On subscribes a handler for the events of type E.
//
//	datatable.On(table.Events(), func(e datatable.SortChangeEvent) {
//		log.Println("sorted by", e.Column.Title, e.Direction)
//	})
func On[E Event](bus *EventBus, handler func(E)) (unsubscribe func()) {
	var zero E
	return bus.Subscribe(zero.EventName(), func(event Event) {
		if e, ok := event.(E); ok {
			handler(e)
		}
	})
}
