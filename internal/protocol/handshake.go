package protocol

import (
	"bytes"
	"errors"
	"fmt"
)

// HandshakeMarker opens the first frame of every connection.
const HandshakeMarker = "START GAME"

var ErrHandshake = errors.New("bad handshake")

// HandshakeError describes why a first frame was refused.
type HandshakeError struct {
	Msg string
}

func (e *HandshakeError) Error() string {
	if e == nil || e.Msg == "" {
		return ErrHandshake.Error()
	}
	return fmt.Sprintf("%s: %s", ErrHandshake.Error(), e.Msg)
}

func (e *HandshakeError) Unwrap() error { return ErrHandshake }

func handshakef(format string, args ...any) error {
	return &HandshakeError{Msg: fmt.Sprintf(format, args...)}
}

// EncodeHandshake builds marker || len(key) || key.
func EncodeHandshake(key []byte) ([]byte, error) {
	if len(key) == 0 || len(key) > 0xff {
		return nil, handshakef("key length %d out of range", len(key))
	}
	b := make([]byte, 0, len(HandshakeMarker)+1+len(key))
	b = append(b, HandshakeMarker...)
	b = append(b, byte(len(key)))
	b = append(b, key...)
	return b, nil
}

// ParseHandshake returns the key material carried by a first frame.
func ParseHandshake(frame []byte) ([]byte, error) {
	m := len(HandshakeMarker)
	if len(frame) < m || !bytes.Equal(frame[:m], []byte(HandshakeMarker)) {
		return nil, handshakef("missing %q marker", HandshakeMarker)
	}
	rest := frame[m:]
	if len(rest) == 0 {
		return nil, handshakef("missing key length")
	}
	n := int(rest[0])
	key := rest[1:]
	switch {
	case n == 0:
		return nil, handshakef("empty key")
	case len(key) < n:
		return nil, handshakef("key truncated: have %d of %d bytes", len(key), n)
	case len(key) > n:
		return nil, handshakef("%d trailing bytes after key", len(key)-n)
	}
	return append([]byte(nil), key...), nil
}
