// Package registry holds the weakly-referenced endpoint tables the
// direct-dispatch path consults: one for locally bound objects, one for
// remote-object proxies. Entries are pruned lazily, on lookup, as their
// owners are garbage collected.
package registry

import (
	"sync"
	"weak"

	"github.com/danmuck/qimsg/internal/logging"
	"github.com/danmuck/qimsg/internal/message"
	"github.com/danmuck/qimsg/internal/uid"
)

// MessageSocket is the transport-facing handle an Endpoint uses to reply or
// forward a message it has been dispatched.
type MessageSocket interface {
	Send(msg *message.Message) error
}

// Endpoint is anything the dispatch core can hand a message directly to,
// bypassing the legacy service/object router.
//
// OnMessage must not block on acquiring a registry lock: the registry
// guarantees it is never called while any registry mutex is held, so an
// Endpoint that re-enters the registry from inside OnMessage (to look up
// another object, or to unregister itself) will not deadlock.
type Endpoint interface {
	OnMessage(msg *message.Message, socket MessageSocket)
}

// RemoteProxy marks an Endpoint that represents an object living on a peer
// connection. It exists purely to let callers express intent at the
// registration call site; the registry does not special-case it further.
type RemoteProxy interface {
	Endpoint
	isRemoteProxy()
}

// BoundObject marks an Endpoint that is implemented locally.
type BoundObject interface {
	Endpoint
	isBoundObject()
}

// InterfaceRegistry is a weak-referenced table from uid.ObjectUid to T. It
// never keeps an entry's owner alive: once the last strong reference to a
// registered T is dropped, Find silently stops returning it and the entry
// is pruned on the next lookup that touches its slot.
type InterfaceRegistry[T Endpoint] struct {
	mu      sync.Mutex
	entries map[uid.ObjectUid]weak.Pointer[T]
}

// NewInterfaceRegistry returns an empty registry.
func NewInterfaceRegistry[T Endpoint]() *InterfaceRegistry[T] {
	return &InterfaceRegistry[T]{entries: make(map[uid.ObjectUid]weak.Pointer[T])}
}

// Add registers obj under u. If a live entry already exists for u pointing
// at a different object, the first registration wins: Add is a no-op and
// reports false. Re-registering the same object under its own uid reports
// true.
func (r *InterfaceRegistry[T]) Add(u uid.ObjectUid, obj *T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.entries[u]; ok {
		if existing := w.Value(); existing != nil && existing != obj {
			logging.Warnf("registry.Add: uid %s already bound, ignoring re-registration", u)
			return false
		}
	}
	r.entries[u] = weak.Make(obj)
	return true
}

// Remove drops the entry for u, if any.
func (r *InterfaceRegistry[T]) Remove(u uid.ObjectUid) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, u)
}

// Find resolves u to its live owner. It returns false both when u was never
// registered and when its owner has since been garbage collected; in the
// latter case the stale entry is pruned before Find returns. The registry
// lock is held only for the lookup/prune step: it is released before Find
// returns, so the caller is free to invoke obj.OnMessage without risking a
// re-entrant deadlock against a later Add/Remove/Find from inside that
// callback.
func (r *InterfaceRegistry[T]) Find(u uid.ObjectUid) (*T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.entries[u]
	if !ok {
		return nil, false
	}
	obj := w.Value()
	if obj == nil {
		delete(r.entries, u)
		return nil, false
	}
	return obj, true
}

// Len reports the number of live entries, pruning dead ones as it counts.
func (r *InterfaceRegistry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, w := range r.entries {
		if w.Value() == nil {
			delete(r.entries, k)
			continue
		}
		n++
	}
	return n
}
