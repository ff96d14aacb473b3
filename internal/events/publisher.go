package events

import (
	"context"
	"sync"
)

// Publisher delivers an event under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

type noopPublisher struct{}

// NewNoopPublisher returns a Publisher that drops every event.
func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, string, any) error { return nil }
func (noopPublisher) Close() error                               { return nil }

// Published is one event captured by a Recorder.
type Published struct {
	RoutingKey string
	Event      any
}

// Recorder keeps published events in memory. It is used by tests and by the
// server when no broker URL is configured.
type Recorder struct {
	mu     sync.Mutex
	events []Published
	Err    error
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Publish(_ context.Context, routingKey string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, Published{RoutingKey: routingKey, Event: event})
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Published, len(r.events))
	copy(out, r.events)
	return out
}

// Keys returns the routing keys in publish order.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.events))
	for _, e := range r.events {
		keys = append(keys, e.RoutingKey)
	}
	return keys
}
