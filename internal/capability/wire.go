package capability

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Wire field type tags for the capability-map handshake payload. The
// layout -- a 2-byte name length, the name bytes, a 1-byte kind tag, a
// 4-byte value length, the value bytes -- is the same length-prefixed,
// typed-field shape used elsewhere in this codebase's TLV encoding, applied
// here to a name-keyed map instead of a numeric field id.
const (
	wireKindBool   uint8 = 1
	wireKindString uint8 = 2
)

var (
	ErrShortWireHeader = errors.New("capability: short wire field header")
	ErrShortWireValue  = errors.New("capability: short wire field value")
	ErrUnknownWireKind = errors.New("capability: unknown wire field kind")
)

// EncodeMap serializes m as a sequence of length-prefixed, typed fields
// suitable for the connection-setup capability handshake this spec treats
// as external: StreamContext never calls this itself.
func EncodeMap(m Map) []byte {
	out := make([]byte, 0, len(m)*16)
	for name, v := range m {
		out = append(out, encodeEntry(name, v)...)
	}
	return out
}

func encodeEntry(name string, v Value) []byte {
	var kind uint8
	var value []byte
	switch v.Kind() {
	case KindBool:
		kind = wireKindBool
		value = []byte{0}
		if b, _ := v.AsBool(); b {
			value[0] = 1
		}
	case KindString:
		kind = wireKindString
		s, _ := v.AsString()
		value = []byte(s)
	}

	buf := make([]byte, 2+len(name)+1+4+len(value))
	i := 0
	binary.BigEndian.PutUint16(buf[i:], uint16(len(name)))
	i += 2
	copy(buf[i:], name)
	i += len(name)
	buf[i] = kind
	i++
	binary.BigEndian.PutUint32(buf[i:], uint32(len(value)))
	i += 4
	copy(buf[i:], value)
	return buf
}

// DecodeMap parses the wire form EncodeMap produces back into a Map.
func DecodeMap(payload []byte) (Map, error) {
	out := NewMap()
	i := 0
	for i < len(payload) {
		if len(payload)-i < 2 {
			return nil, ErrShortWireHeader
		}
		nameLen := int(binary.BigEndian.Uint16(payload[i:]))
		i += 2
		if len(payload)-i < nameLen+1+4 {
			return nil, ErrShortWireHeader
		}
		name := string(payload[i : i+nameLen])
		i += nameLen
		kind := payload[i]
		i++
		valueLen := int(binary.BigEndian.Uint32(payload[i:]))
		i += 4
		if len(payload)-i < valueLen {
			return nil, ErrShortWireValue
		}
		value := payload[i : i+valueLen]
		i += valueLen

		switch kind {
		case wireKindBool:
			out[name] = Bool(len(value) == 1 && value[0] == 1)
		case wireKindString:
			out[name] = String(string(value))
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnknownWireKind, kind)
		}
	}
	return out, nil
}
