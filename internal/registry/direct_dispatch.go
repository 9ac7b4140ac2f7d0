package registry

import (
	"github.com/danmuck/qimsg/internal/logging"
	"github.com/danmuck/qimsg/internal/message"
	"github.com/danmuck/qimsg/internal/uid"
)

// capabilitySource is the subset of StreamContext the dispatch decision
// needs. Declared here, not in internal/stream, so this package has no
// import-cycle dependency on the package that owns it.
type capabilitySource interface {
	DirectDispatchAllowed() bool
}

// CanBeDirectlyDispatched reports whether msg is eligible for the fast
// path: it must be a call, addressed to neither the distinguished Main
// object nor the distinguished Server service, with both peers having
// negotiated direct dispatch on ctx.
func CanBeDirectlyDispatched(msg *message.Message, ctx capabilitySource) bool {
	if msg.Type != message.TypeCall {
		return false
	}
	if msg.Object == message.GenericObjectMain || msg.Object == message.GenericObjectNone {
		return false
	}
	if msg.Service == message.ServiceServer {
		return false
	}
	return ctx.DirectDispatchAllowed()
}

// DirectDispatchRegistry pairs the bound-object and remote-proxy tables and
// implements the inbound dispatch algorithm over them. It holds no mutex of
// its own: each inner InterfaceRegistry guards its own map, and dispatch
// never needs both locked at once.
type DirectDispatchRegistry struct {
	bound  *InterfaceRegistry[BoundObject]
	remote *InterfaceRegistry[RemoteProxy]
}

// NewDirectDispatchRegistry returns an empty registry pair.
func NewDirectDispatchRegistry() *DirectDispatchRegistry {
	return &DirectDispatchRegistry{
		bound:  NewInterfaceRegistry[BoundObject](),
		remote: NewInterfaceRegistry[RemoteProxy](),
	}
}

func (d *DirectDispatchRegistry) RegisterBoundObject(u uid.ObjectUid, obj *BoundObject) bool {
	return d.bound.Add(u, obj)
}

func (d *DirectDispatchRegistry) RegisterRemoteProxy(u uid.ObjectUid, obj *RemoteProxy) bool {
	return d.remote.Add(u, obj)
}

func (d *DirectDispatchRegistry) UnregisterBoundObject(u uid.ObjectUid) {
	d.bound.Remove(u)
}

func (d *DirectDispatchRegistry) UnregisterRemoteProxy(u uid.ObjectUid) {
	d.remote.Remove(u)
}

func (d *DirectDispatchRegistry) FindBoundObject(u uid.ObjectUid) (*BoundObject, bool) {
	return d.bound.Find(u)
}

func (d *DirectDispatchRegistry) FindRemoteObject(u uid.ObjectUid) (*RemoteProxy, bool) {
	return d.remote.Find(u)
}

// BoundLen reports the number of live bound-object endpoints, pruning dead
// entries as it counts.
func (d *DirectDispatchRegistry) BoundLen() int {
	return d.bound.Len()
}

// RemoteLen reports the number of live remote-proxy endpoints, pruning dead
// entries as it counts.
func (d *DirectDispatchRegistry) RemoteLen() int {
	return d.remote.Len()
}

// DispatchMessage implements the direct-dispatch fast path for one inbound
// frame. It returns true iff a registered endpoint was found and invoked;
// false means the caller must fall back to the legacy service/object
// router. It never panics: any panic raised while extracting the tail uid
// or while running the resolved endpoint's OnMessage is recovered, logged,
// and converted into a false return.
func (d *DirectDispatchRegistry) DispatchMessage(msg *message.Message, socket MessageSocket) (dispatched bool) {
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("registry.DispatchMessage: recovered panic: %v", r)
			dispatched = false
		}
	}()

	if _, hasRecipient := msg.RecipientUID(); hasRecipient {
		assertf(false, "registry.DispatchMessage: recipient slot already populated")
		logging.Warnf("registry.DispatchMessage: recipient slot already populated, dropping to legacy router")
		return false
	}

	recipient, ok := msg.ExtractTailUID()
	if !ok {
		return false
	}
	if recipient.IsNull() {
		logging.Debugf("registry.DispatchMessage: null recipient uid, no direct recipient")
		return false
	}

	msg.SetRecipientUID(recipient)

	if obj, ok := d.bound.Find(recipient); ok {
		(*obj).OnMessage(msg, socket)
		return true
	}
	if obj, ok := d.remote.Find(recipient); ok {
		(*obj).OnMessage(msg, socket)
		return true
	}

	logging.Warnf("registry.DispatchMessage: no endpoint registered for uid %s, falling back to legacy router", recipient)
	return false
}
