package eventbus

import (
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog/log"

	"collapsehead/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventOffsetChanged    = domain.EventOffsetChanged
	EventPhaseChanged     = domain.EventPhaseChanged
	EventSettled          = domain.EventSettled
	EventDirectionChanged = domain.EventDirectionChanged
	EventGeometryChanged  = domain.EventGeometryChanged
	EventInputIgnored     = domain.EventInputIgnored
	EventConfigLoaded     = domain.EventConfigLoaded
	EventConfigSaved      = domain.EventConfigSaved
)

// Re-export domain event types
type OffsetChangedEvent = domain.OffsetChangedEvent
type PhaseChangedEvent = domain.PhaseChangedEvent
type SettledEvent = domain.SettledEvent
type DirectionChangedEvent = domain.DirectionChangedEvent
type GeometryChangedEvent = domain.GeometryChangedEvent
type InputIgnoredEvent = domain.InputIgnoredEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus delivers events synchronously on the publisher's goroutine.
// Events published from inside a handler are queued and delivered after the
// current event, so every subscriber sees events in publish order.
type bus struct {
	mu          sync.Mutex
	handlers    map[EventType][]subscription
	nextID      uint64
	queue       []DomainEvent
	dispatching bool
}

// New creates a new event bus
func New() EventBus {
	return &bus{
		handlers: make(map[EventType][]subscription),
	}
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	if event == nil {
		return
	}

	b.mu.Lock()
	b.queue = append(b.queue, event)
	if b.dispatching {
		b.mu.Unlock()
		return
	}
	b.dispatching = true

	for len(b.queue) > 0 {
		next := b.queue[0]
		b.queue[0] = nil
		b.queue = b.queue[1:]

		// Copy so handlers run without the lock held
		subs := b.handlers[next.Type()]
		handlers := make([]EventHandler, len(subs))
		for i, s := range subs {
			handlers[i] = s.handler
		}
		b.mu.Unlock()

		for _, h := range handlers {
			b.call(h, next)
		}

		b.mu.Lock()
	}

	b.dispatching = false
	b.queue = nil
	b.mu.Unlock()
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			subs := b.handlers[eventType]
			for i, s := range subs {
				if s.id == id {
					kept := make([]subscription, 0, len(subs)-1)
					kept = append(kept, subs[:i]...)
					b.handlers[eventType] = append(kept, subs[i+1:]...)
					break
				}
			}
		})
	}
}

func (b *bus) call(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("event", string(event.Type())).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("event handler panic")
		}
	}()
	h(event)
}
