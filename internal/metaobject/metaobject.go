// Package metaobject implements the opaque MetaObject value and the
// per-stream send/receive caches that let a schema payload be transmitted in
// full only once per connection.
//
// MetaObject itself is treated as opaque by the rest of the dispatch core
// (it is external to this spec -- the metaobject representation belongs to
// the method-signature type system); this package only needs equality and a
// stable hash, which it gets from a BLAKE3 digest of the opaque signature
// bytes the real type system would hand it.
package metaobject

import (
	"errors"

	"github.com/zeebo/blake3"
)

// ErrNotFound is returned by ReceiveCache.Get when no MetaObject has been
// stored under the requested token. Distinct from a zero-value MetaObject so
// callers can never mistake "not found" for "found, and empty".
var ErrNotFound = errors.New("metaobject: not found in receive cache")

// MetaObject is an opaque schema payload (method/signal/property table),
// identified by the content hash of its serialized form.
type MetaObject struct {
	signature []byte
}

// New wraps an opaque serialized signature as a MetaObject.
func New(signature []byte) MetaObject {
	cp := make([]byte, len(signature))
	copy(cp, signature)
	return MetaObject{signature: cp}
}

// Hash returns a stable BLAKE3 content hash of the metaobject's signature,
// used as the send-cache key so the cache never needs to compare (and
// retain) potentially large schema payloads directly.
func (m MetaObject) Hash() [32]byte {
	return blake3.Sum256(m.signature)
}

// Equal reports whether m and other carry the same signature bytes.
func (m MetaObject) Equal(other MetaObject) bool {
	return m.Hash() == other.Hash()
}

// Signature returns a copy of the opaque signature bytes.
func (m MetaObject) Signature() []byte {
	cp := make([]byte, len(m.signature))
	copy(cp, m.signature)
	return cp
}
