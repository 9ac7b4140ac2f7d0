// Package capability implements the per-stream capability map: a mapping
// from feature name to a dynamically-typed value, used to negotiate optional
// wire behaviors between peers.
package capability

import "fmt"

// Canonical capability names recognized by the direct-dispatch subsystem.
// Unrecognized names are preserved verbatim and forwarded to downstream
// queries -- the core never drops unknown keys.
const (
	ClientServerSocket    = "ClientServerSocket"
	MetaObjectCache       = "MetaObjectCache"
	MessageFlags          = "MessageFlags"
	RemoteCancelableCalls = "RemoteCancelableCalls"
	ObjectPtrUID          = "ObjectPtrUID"
	DirectMessageDispatch = "DirectMessageDispatch"
)

// Kind tags which variant a Value holds.
type Kind uint8

const (
	// KindBool marks a boolean capability value.
	KindBool Kind = iota
	// KindString marks a string capability value.
	KindString
)

// Value is the erased capability value: either a bool or a string, mirroring
// the two wire-visible kinds this protocol ever carries. Unlike an `any`,
// this keeps conversion failure a closed, checkable condition instead of a
// type assertion panic waiting to happen.
type Value struct {
	kind Kind
	b    bool
	s    string
}

// Bool wraps a boolean capability value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// String wraps a string capability value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// AsBool returns v's boolean value and whether v actually holds a bool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsString returns v's string value and whether v actually holds a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// String renders v for logging.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindString:
		return v.s
	default:
		return "<invalid capability value>"
	}
}

// Map is a mapping from capability name to Value. The zero value is usable;
// callers should prefer NewMap for a non-nil map ready for writes.
type Map map[string]Value

// NewMap returns an empty, non-nil Map.
func NewMap() Map {
	return make(Map)
}

// Clone returns a shallow copy of m. Values are immutable, so a shallow copy
// is a full copy.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Merge overwrites m's entries with src's, leaving keys absent from src
// untouched. Matches the "existing keys are overwritten, absent keys
// retained" merge rule used by both AdvertiseCapabilities and
// UpdateRemoteCapabilities.
func (m Map) Merge(src Map) {
	for k, v := range src {
		m[k] = v
	}
}

// Get returns the value stored under name and whether it was present.
func (m Map) Get(name string) (Value, bool) {
	v, ok := m[name]
	return v, ok
}

// GetBool returns the boolean stored under name, or def if name is absent or
// holds a non-bool value. Conversion failure is swallowed, never reported --
// this is the read side of the backward-compatibility contract: a peer that
// doesn't know about a capability must look exactly like a peer that set it
// to the default.
func (m Map) GetBool(name string, def bool) bool {
	v, ok := m[name]
	if !ok {
		return def
	}
	b, ok := v.AsBool()
	if !ok {
		return def
	}
	return b
}

// GetString returns the string stored under name, or def if name is absent
// or holds a non-string value.
func (m Map) GetString(name string, def string) string {
	v, ok := m[name]
	if !ok {
		return def
	}
	s, ok := v.AsString()
	if !ok {
		return def
	}
	return s
}

// SharedBool combines this map's value for name with other's under the
// "shared minimum" law: AND for booleans (false is the "lesser" value, same
// as the original's std::min over bool).
func SharedBool(local, remote Map, name string, def bool) bool {
	a := local.GetBool(name, def)
	b := remote.GetBool(name, def)
	return a && b
}

// SharedString combines this map's value for name with other's under the
// "shared minimum" law: the lexicographically lesser string.
func SharedString(local, remote Map, name string, def string) string {
	a := local.GetString(name, def)
	b := remote.GetString(name, def)
	if a <= b {
		return a
	}
	return b
}

// Defaults returns the canonical capability set a fresh StreamContext starts
// with, before any environment overlay is applied.
func Defaults() Map {
	return Map{
		ClientServerSocket:    Bool(true),
		MessageFlags:          Bool(true),
		MetaObjectCache:       Bool(false),
		RemoteCancelableCalls: Bool(true),
		ObjectPtrUID:          Bool(true),
		DirectMessageDispatch: Bool(true),
	}
}
