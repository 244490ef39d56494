// Package events is the in-process publish/subscribe hub that decouples
// widgets from application state.
//
// Dispatch is synchronous: Publish returns only after every handler has run,
// in the order the handlers were subscribed. A handler may publish again; the
// nested event is delivered immediately, depth-first. Callers are responsible
// for not building publish cycles.
package events

import (
	"sync"
)

type Name string

type Handler func(payload any)

// AllHandler receives every published event, whatever its name.
type AllHandler func(name Name, payload any)

type Bus struct {
	mu       sync.Mutex
	handlers map[Name][]Handler
	all      []AllHandler
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Name][]Handler),
	}
}

// Subscribe registers handler for name. Subscribing the same function twice
// makes it fire twice.
func (b *Bus) Subscribe(name Name, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], handler)
}

func (b *Bus) SubscribeAll(handler AllHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, handler)
}

// Publish delivers payload to every handler registered for name. Unknown
// names are ignored.
func (b *Bus) Publish(name Name, payload any) {
	b.mu.Lock()
	all := append([]AllHandler(nil), b.all...)
	handlers := append([]Handler(nil), b.handlers[name]...)
	b.mu.Unlock()

	for _, h := range all {
		h(name, payload)
	}
	for _, h := range handlers {
		h(payload)
	}
}

// Topic binds an event name to its payload type.
type Topic[T any] struct {
	name Name
}

func NewTopic[T any](name Name) Topic[T] {
	return Topic[T]{name: name}
}

func (t Topic[T]) Name() Name {
	return t.name
}

func (t Topic[T]) Publish(b *Bus, payload T) {
	b.Publish(t.name, payload)
}

// Subscribe registers fn for the topic. Payloads of any other type published
// under the same name are dropped.
func (t Topic[T]) Subscribe(b *Bus, fn func(T)) {
	b.Subscribe(t.name, func(payload any) {
		if v, ok := payload.(T); ok {
			fn(v)
		}
	})
}
