package api

import "sync"

// handlerEntry pairs a registered handler with its removal token.
type handlerEntry[H any] struct {
	id      uint64
	handler H
}

// handlerRegistry tracks event handlers per object id (household, group or
// player). Each registration returns a token so a failed subscribe command
// can roll back exactly the handler it added, even with concurrent
// registrations for the same object.
type handlerRegistry[H any] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]handlerEntry[H]
}

func newHandlerRegistry[H any]() *handlerRegistry[H] {
	return &handlerRegistry[H]{subs: make(map[string][]handlerEntry[H])}
}

// add registers a handler for an object and returns its removal token.
func (r *handlerRegistry[H]) add(objectID string, handler H) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.subs[objectID] = append(r.subs[objectID], handlerEntry[H]{id: r.nextID, handler: handler})
	return r.nextID
}

// remove deletes the single registration identified by token. Removing an
// already-removed token is a no-op.
func (r *handlerRegistry[H]) remove(objectID string, token uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := r.subs[objectID]
	for i, e := range entries {
		if e.id == token {
			r.subs[objectID] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(r.subs[objectID]) == 0 {
		delete(r.subs, objectID)
	}
}

// drop deletes every registration for an object.
func (r *handlerRegistry[H]) drop(objectID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, objectID)
}

// handlers returns the object's handlers in registration order.
func (r *handlerRegistry[H]) handlers(objectID string) []H {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.subs[objectID]
	out := make([]H, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.handler)
	}
	return out
}
