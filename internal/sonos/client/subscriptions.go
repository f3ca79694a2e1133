package client

import "github.com/google/uuid"

// EventHandler receives published state-change events. Handlers run on the
// client's single dispatch goroutine; they should update local state and
// return, not block.
type EventHandler func(Event)

// subscription pairs a handler with its optional filters. A nil filter
// accepts everything.
type subscription struct {
	handler EventHandler
	kinds   map[EventType]struct{}
	objects map[string]struct{}
}

func (s *subscription) matches(ev Event) bool {
	if s.kinds != nil {
		if _, ok := s.kinds[ev.Type]; !ok {
			return false
		}
	}
	if s.objects != nil {
		if _, ok := s.objects[ev.ObjectID]; !ok {
			return false
		}
	}
	return true
}

// Subscribe registers a handler for state-change events, optionally limited
// to specific event kinds and object ids (empty slices accept all). The
// same handler may be registered multiple times with different filters.
//
// The returned function removes the subscription; calling it more than once
// is a no-op and other subscriptions are unaffected.
func (c *Client) Subscribe(handler EventHandler, kinds []EventType, objectIDs []string) func() {
	sub := &subscription{handler: handler}
	if len(kinds) > 0 {
		sub.kinds = make(map[EventType]struct{}, len(kinds))
		for _, k := range kinds {
			sub.kinds[k] = struct{}{}
		}
	}
	if len(objectIDs) > 0 {
		sub.objects = make(map[string]struct{}, len(objectIDs))
		for _, id := range objectIDs {
			sub.objects[id] = struct{}{}
		}
	}

	id := uuid.NewString()
	c.subsMu.Lock()
	c.subs[id] = sub
	c.subsMu.Unlock()

	return func() {
		c.subsMu.Lock()
		delete(c.subs, id)
		c.subsMu.Unlock()
	}
}

// signalEvent queues an event for the dispatch goroutine. The receive path
// must never stall on a slow subscriber, so a full queue drops the event.
func (c *Client) signalEvent(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.logger.Warn("event queue full, dropping event",
			"type", ev.Type, "objectId", ev.ObjectID)
	}
}

// dispatchLoop delivers queued events to matching subscriptions, one at a
// time, until stopped. Running all handlers on this single goroutine lets
// callback code mutate caller-owned state without locking.
func (c *Client) dispatchLoop(stop <-chan struct{}) {
	for {
		select {
		case ev := <-c.events:
			c.deliver(ev)
		case <-stop:
			return
		}
	}
}

// deliver invokes every matching subscription exactly once for the event.
func (c *Client) deliver(ev Event) {
	c.subsMu.Lock()
	handlers := make([]EventHandler, 0, len(c.subs))
	for _, sub := range c.subs {
		if sub.matches(ev) {
			handlers = append(handlers, sub.handler)
		}
	}
	c.subsMu.Unlock()

	for _, handler := range handlers {
		handler(ev)
	}
}
