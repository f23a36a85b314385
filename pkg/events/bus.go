// Package events is a small synchronous publish/subscribe bus.
//
// Handlers run in registration order. A publish made while handlers are
// running, from any goroutine, is queued and delivered after the current
// event has reached every handler, so dispatch is never re-entrant.
package events

import (
	"log"
	"sync"
)

type Topic string

type Handler func(payload any)

type Event struct {
	Topic   Topic
	Payload any
}

type subscription struct {
	id      uint64
	handler Handler
}

type Bus struct {
	mu          sync.Mutex
	nextId      uint64
	handlers    map[Topic][]subscription
	queue       []Event
	dispatching bool
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Topic][]subscription),
		queue:    make([]Event, 0),
	}
}

// Subscribe registers handler for topic and returns a function removing it.
func (b *Bus) Subscribe(topic Topic, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextId++
	id := b.nextId
	b.handlers[topic] = append(b.handlers[topic], subscription{id: id, handler: handler})
	return func() {
		b.unsubscribe(topic, id)
	}
}

func (b *Bus) unsubscribe(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.handlers[topic]
	ret := make([]subscription, 0, len(subs))
	for _, s := range subs {
		if s.id != id {
			ret = append(ret, s)
		}
	}
	b.handlers[topic] = ret
}

// Publish delivers the event, or queues it if a dispatch is in progress.
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.Lock()
	b.queue = append(b.queue, Event{Topic: topic, Payload: payload})
	if b.dispatching {
		b.mu.Unlock()
		return
	}
	b.dispatching = true
	b.mu.Unlock()
	b.drain()
}

func (b *Bus) drain() {
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.dispatching = false
			b.mu.Unlock()
			return
		}
		event := b.queue[0]
		b.queue = b.queue[1:]
		subs := append([]subscription(nil), b.handlers[event.Topic]...)
		b.mu.Unlock()

		for _, s := range subs {
			b.deliver(event, s.handler)
		}
	}
}

func (b *Bus) deliver(event Event, handler Handler) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("event handler for %s panicked: %v", event.Topic, r)
		}
	}()
	handler(event.Payload)
}
