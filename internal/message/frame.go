package message

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// FixedHeaderLen is the byte width of the fixed wire header: big-endian
// fixed-width fields followed by a variable-length payload.
const FixedHeaderLen = 28

// Magic identifies this protocol's frames on the wire.
const Magic uint32 = 0x51494D47 // "QIMG"

const CurrentVersion uint16 = 1

var (
	ErrShortHeader     = errors.New("message: short fixed header")
	ErrInvalidMagic    = errors.New("message: invalid magic")
	ErrPayloadTooLarge = errors.New("message: payload too large")
	ErrUnsupportedType = errors.New("message: unsupported message type")
)

// Header is the fixed wire header a Message marshals to/from.
type Header struct {
	Magic      uint32
	Version    uint16
	Type       Type
	Service    uint32
	Object     uint32
	ID         uint64
	PayloadLen uint32
}

// EncodeHeader serializes h to its FixedHeaderLen-byte wire form.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, FixedHeaderLen)
	binary.BigEndian.PutUint32(buf[0:4], h.Magic)
	binary.BigEndian.PutUint16(buf[4:6], h.Version)
	buf[6] = byte(h.Type)
	binary.BigEndian.PutUint32(buf[8:12], h.Service)
	binary.BigEndian.PutUint32(buf[12:16], h.Object)
	binary.BigEndian.PutUint64(buf[16:24], h.ID)
	binary.BigEndian.PutUint32(buf[24:28], h.PayloadLen)
	return buf
}

// DecodeHeader parses a FixedHeaderLen-byte buffer into a Header.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) != FixedHeaderLen {
		return Header{}, ErrShortHeader
	}
	magic := binary.BigEndian.Uint32(b[0:4])
	if magic != Magic {
		return Header{}, ErrInvalidMagic
	}
	typ := Type(b[6])
	if typ != TypeCall && typ != TypeReply && typ != TypeOther {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedType, typ)
	}
	return Header{
		Magic:      magic,
		Version:    binary.BigEndian.Uint16(b[4:6]),
		Type:       typ,
		Service:    binary.BigEndian.Uint32(b[8:12]),
		Object:     binary.BigEndian.Uint32(b[12:16]),
		ID:         binary.BigEndian.Uint64(b[16:24]),
		PayloadLen: binary.BigEndian.Uint32(b[24:28]),
	}, nil
}

// Limits constrains decode memory use.
type Limits struct {
	MaxPayloadBytes uint32
}

// DefaultLimits returns sane limits for a demo listener.
func DefaultLimits() Limits {
	return Limits{MaxPayloadBytes: 16 * 1024 * 1024}
}

// WriteFrame encodes msg as one complete wire frame.
func WriteFrame(w io.Writer, msg *Message, limits Limits) error {
	body := msg.Body()
	if uint32(len(body)) > limits.MaxPayloadBytes {
		return ErrPayloadTooLarge
	}

	h := Header{
		Magic:      Magic,
		Version:    CurrentVersion,
		Type:       msg.Type,
		Service:    msg.Service,
		Object:     msg.Object,
		ID:         msg.ID,
		PayloadLen: uint32(len(body)),
	}

	if _, err := w.Write(EncodeHeader(h)); err != nil {
		return err
	}
	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return err
		}
	}
	return nil
}

// ReadFrame decodes one complete wire frame into a Message.
func ReadFrame(r io.Reader, limits Limits) (*Message, error) {
	fixed := make([]byte, FixedHeaderLen)
	if _, err := io.ReadFull(r, fixed); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, ErrShortHeader
		}
		return nil, err
	}

	h, err := DecodeHeader(fixed)
	if err != nil {
		return nil, err
	}
	if h.PayloadLen > limits.MaxPayloadBytes {
		return nil, ErrPayloadTooLarge
	}

	body := make([]byte, h.PayloadLen)
	if h.PayloadLen > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, err
		}
	}

	msg := New(h.Type, h.Service, h.Object, body)
	msg.ID = h.ID
	return msg, nil
}
