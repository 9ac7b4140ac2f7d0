// Package stream implements StreamContext, the per-connection state that
// ties capability negotiation, the metaobject caches, and the direct
// dispatch endpoint registry together behind one mutex.
package stream

import (
	"sync"

	"github.com/danmuck/qimsg/internal/capability"
	"github.com/danmuck/qimsg/internal/metaobject"
	"github.com/danmuck/qimsg/internal/registry"
)

// Context holds all mutable per-stream state: local and remote capability
// maps, the send/receive metaobject caches, and the direct-dispatch
// endpoint registry. Every public method takes the single mutex; no method
// ever calls another public method while already holding it.
type Context struct {
	mu sync.Mutex

	local  capability.Map
	remote capability.Map

	sendCache    *metaobject.SendCache
	receiveCache *metaobject.ReceiveCache

	dispatch *registry.DirectDispatchRegistry

	directDispatchValid   bool
	directDispatchAllowed bool
}

// New returns a Context seeded with the environment-overlaid default
// capability set on the local side and an empty remote side.
func New() *Context {
	return &Context{
		local:        capability.DefaultsWithEnvOverlay(),
		remote:       capability.NewMap(),
		sendCache:    metaobject.NewSendCache(),
		receiveCache: metaobject.NewReceiveCache(),
		dispatch:     registry.NewDirectDispatchRegistry(),
	}
}

// AdvertiseCapability sets one local capability and invalidates the
// memoized direct-dispatch predicate.
func (c *Context) AdvertiseCapability(name string, value capability.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.local[name] = value
	c.directDispatchValid = false
}

// AdvertiseCapabilities merges values into the local capability map.
func (c *Context) AdvertiseCapabilities(values capability.Map) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.local.Merge(values)
	c.directDispatchValid = false
}

// UpdateRemoteCapabilities merges a peer-received capability map into the
// remote side.
func (c *Context) UpdateRemoteCapabilities(values capability.Map) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remote.Merge(values)
	c.directDispatchValid = false
}

// LocalCapability returns the raw local value for name, if present.
func (c *Context) LocalCapability(name string) (capability.Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.local.Get(name)
}

// LocalCapabilityBool returns the local bool value for name, or def.
func (c *Context) LocalCapabilityBool(name string, def bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.local.GetBool(name, def)
}

// LocalCapabilityString returns the local string value for name, or def.
func (c *Context) LocalCapabilityString(name string, def string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.local.GetString(name, def)
}

// RemoteCapability returns the raw remote value for name, if present.
func (c *Context) RemoteCapability(name string) (capability.Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remote.Get(name)
}

// RemoteCapabilityBool returns the remote bool value for name, or def.
func (c *Context) RemoteCapabilityBool(name string, def bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remote.GetBool(name, def)
}

// RemoteCapabilityString returns the remote string value for name, or def.
func (c *Context) RemoteCapabilityString(name string, def string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remote.GetString(name, def)
}

// SharedCapabilityBool ANDs the local and remote bool values for name.
func (c *Context) SharedCapabilityBool(name string, def bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return capability.SharedBool(c.local, c.remote, name, def)
}

// SharedCapabilityString takes the lexicographically lesser local/remote
// string value for name.
func (c *Context) SharedCapabilityString(name string, def string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return capability.SharedString(c.local, c.remote, name, def)
}

// DirectDispatchAllowed reports whether both peers have negotiated
// ObjectPtrUID and DirectMessageDispatch. The result is memoized and
// recomputed under the same lock on first read after any capability
// mutation.
func (c *Context) DirectDispatchAllowed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.directDispatchValid {
		c.directDispatchAllowed = capability.SharedBool(c.local, c.remote, capability.ObjectPtrUID, false) &&
			capability.SharedBool(c.local, c.remote, capability.DirectMessageDispatch, false)
		c.directDispatchValid = true
	}
	return c.directDispatchAllowed
}

// SendCacheSet records mo in the send-side metaobject cache.
func (c *Context) SendCacheSet(mo metaobject.MetaObject) (token uint32, inserted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendCache.Set(mo)
}

// ReceiveCacheSet records mo under token in the receive-side metaobject
// cache, overwriting any prior entry.
func (c *Context) ReceiveCacheSet(token uint32, mo metaobject.MetaObject) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.receiveCache.Set(token, mo)
}

// ReceiveCacheGet returns the metaobject stored under token.
func (c *Context) ReceiveCacheGet(token uint32) (metaobject.MetaObject, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.receiveCache.Get(token)
}

// DirectDispatchRegistry returns the stream's endpoint registry pair.
func (c *Context) DirectDispatchRegistry() *registry.DirectDispatchRegistry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dispatch
}

// SendCacheLen reports how many distinct metaobjects the send-side cache
// has recorded so far.
func (c *Context) SendCacheLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendCache.Len()
}

// ReceiveCacheLen reports how many tokens the receive-side cache has
// recorded so far.
func (c *Context) ReceiveCacheLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.receiveCache.Len()
}
