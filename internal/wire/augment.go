// Package wire implements the outbound half of direct-dispatch frame
// augmentation: appending a call message's recipient uid to its body before
// handoff to the transmit path.
package wire

import (
	"github.com/danmuck/qimsg/internal/message"
	"github.com/danmuck/qimsg/internal/registry"
)

// Augment appends msg's recipient-uid slot to the tail of its body when the
// message is eligible for direct dispatch on ctx, pairing the inbound
// extraction the receiving peer's DispatchMessage performs. It reports
// whether augmentation happened. If the message is eligible but its
// recipient slot is empty, no bytes are appended and false is returned: the
// caller populated the capability negotiation but forgot to address the
// call to a specific endpoint, which is a caller bug, not a wire error.
func Augment(msg *message.Message, ctx interface{ DirectDispatchAllowed() bool }) bool {
	if !registry.CanBeDirectlyDispatched(msg, ctx) {
		return false
	}
	recipient, ok := msg.RecipientUID()
	if !ok {
		return false
	}
	msg.AppendTailUID(recipient)
	return true
}
