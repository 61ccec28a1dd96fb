// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import "sync"

// Topics published by the mutating handlers. Consumers reread full
// state on every signal, so coarse topics are enough.
const (
	TopicSessions = "sessions"
	TopicPautas   = "pautas"
)

// Hub is an in-process change-notification fan-out. Mutating handlers
// publish after commit; each stream holds a Subscription and rereads
// current state when signaled.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}
}

// Subscription delivers change signals on C. Signals carry no payload:
// a consumer must treat each one as "state changed, reread everything",
// never as a delta. Rapid mutations coalesce into one pending signal.
type Subscription struct {
	C      <-chan struct{}
	c      chan struct{}
	hub    *Hub
	topics []string
	once   sync.Once
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers for signals on any of the given topics. The
// caller must Cancel the subscription when its viewer goes away.
func (h *Hub) Subscribe(topics ...string) *Subscription {
	c := make(chan struct{}, 1)
	sub := &Subscription{C: c, c: c, hub: h, topics: topics}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, topic := range topics {
		if h.subs[topic] == nil {
			h.subs[topic] = make(map[*Subscription]struct{})
		}
		h.subs[topic][sub] = struct{}{}
	}
	return sub
}

// Publish signals every subscription on the topic. Never blocks: a
// subscriber with a signal already pending is skipped, which is where
// coalescing happens.
func (h *Hub) Publish(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[topic] {
		select {
		case sub.c <- struct{}{}:
		default:
		}
	}
}

// Cancel removes the subscription from all its topics. Safe to call
// more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()
		for _, topic := range s.topics {
			delete(s.hub.subs[topic], s)
		}
	})
}

// Subscribers returns the subscriber count for a topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[topic])
}
