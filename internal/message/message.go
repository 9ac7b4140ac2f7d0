// Package message defines the Message type as seen by the direct-dispatch
// subsystem, and its concrete wire encoding.
//
// The dispatch core treats a Message almost entirely as opaque: it reads and
// writes only the recipient-uid slot, and appends to / reads from the tail
// of the body buffer. Everything else (the full message grammar, the
// method-signature type system that interprets the body) is out of scope.
package message

import "github.com/danmuck/qimsg/internal/uid"

// Type is the message's kind, as seen by the dispatch core.
type Type uint8

const (
	// TypeCall is a method invocation. Only TypeCall messages are eligible
	// for direct dispatch today.
	TypeCall Type = iota
	// TypeReply is a response to a TypeCall message.
	TypeReply
	// TypeOther covers every other message kind (events, errors, canceled,
	// ...) that the dispatch core does not special-case.
	TypeOther
)

// Reserved object/service ids the dispatch core treats specially.
const (
	// GenericObjectMain is the distinguished "Main" object id: messages
	// addressed to it are never eligible for direct dispatch, since Main is
	// resolved by the legacy router by convention.
	GenericObjectMain uint32 = 1
	// GenericObjectNone is the null object id.
	GenericObjectNone uint32 = 0
	// ServiceServer is the distinguished "Server" service id: messages
	// addressed to it are never eligible for direct dispatch.
	ServiceServer uint32 = 0
)

// Message is the dispatch core's view of one wire message.
type Message struct {
	Type    Type
	Service uint32
	Object  uint32
	ID      uint64 // for logging only

	body []byte

	recipient    uid.ObjectUid
	hasRecipient bool
}

// New builds a Message with the given body. The recipient slot starts empty.
func New(typ Type, service, object uint32, body []byte) *Message {
	buf := make([]byte, len(body))
	copy(buf, body)
	return &Message{Type: typ, Service: service, Object: object, body: buf}
}

// Body returns the current body buffer. AppendTailUID and SetBody replace
// the buffer, so a slice retained across either call no longer reflects the
// message's body; ExtractTailUID leaves it untouched.
func (m *Message) Body() []byte {
	return m.body
}

// SetBody replaces the body buffer wholesale.
func (m *Message) SetBody(b []byte) {
	m.body = b
}

// RecipientUID returns the message's recipient slot and whether it is set.
func (m *Message) RecipientUID() (uid.ObjectUid, bool) {
	return m.recipient, m.hasRecipient
}

// SetRecipientUID populates the recipient slot.
func (m *Message) SetRecipientUID(u uid.ObjectUid) {
	m.recipient = u
	m.hasRecipient = true
}

// ClearRecipientUID empties the recipient slot. Provided for symmetry and
// for tests that need to reuse a Message across multiple dispatch attempts.
func (m *Message) ClearRecipientUID() {
	m.recipient = uid.ObjectUid{}
	m.hasRecipient = false
}

// AppendTailUID appends u's raw bytes to the end of the body buffer, as the
// wire-level carrier for a direct-dispatch recipient. The existing body is
// preserved; a fresh slice is allocated so callers holding the old Body()
// slice are unaffected.
func (m *Message) AppendTailUID(u uid.ObjectUid) {
	out := make([]byte, len(m.body)+uid.Size)
	copy(out, m.body)
	copy(out[len(m.body):], u[:])
	m.body = out
}

// ExtractTailUID reads the trailing uid.Size bytes of the body as an
// ObjectUid, without modifying the body. It reports false if the body is
// shorter than uid.Size.
func (m *Message) ExtractTailUID() (uid.ObjectUid, bool) {
	if len(m.body) < uid.Size {
		return uid.ObjectUid{}, false
	}
	return uid.FromBytes(m.body[len(m.body)-uid.Size:])
}
