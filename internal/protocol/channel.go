package protocol

import (
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"example.com/wordle-tls/internal/secure"
)

// Role is the side of the connection a Channel speaks for.
type Role int

const (
	Authority Role = iota
	Player
)

func (r Role) String() string {
	if r == Authority {
		return "authority"
	}
	return "player"
}

const (
	labelToPlayer    = "wordle/a2p"
	labelToAuthority = "wordle/p2a"
)

// Channel carries encrypted string payloads over one connection. Each
// message is bound to its direction and sequence number, so a frame that
// is reflected, reordered or replayed fails to open.
type Channel struct {
	conn net.Conn
	box  *secure.Box
	role Role
	idle time.Duration

	sent  uint64
	recvd uint64
}

func NewChannel(conn net.Conn, box *secure.Box, role Role) *Channel {
	return &Channel{conn: conn, box: box, role: role}
}

// SetIdleTimeout sets how long Receive may wait for the next message.
// Zero disables the deadline.
func (c *Channel) SetIdleTimeout(d time.Duration) { c.idle = d }

func (c *Channel) Send(msg string) error {
	sealed, err := c.box.Seal([]byte(msg), c.aad(c.sendLabel(), c.sent))
	if err != nil {
		return err
	}
	c.sent++
	if c.idle > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.idle))
	}
	if err := WriteFrame(c.conn, sealed); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

func (c *Channel) Receive() (string, error) {
	if c.idle > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.idle))
	}
	frame, err := ReadFrame(c.conn)
	if err != nil {
		return "", fmt.Errorf("receive: %w", err)
	}
	plain, err := c.box.Open(frame, c.aad(c.recvLabel(), c.recvd))
	if err != nil {
		return "", err
	}
	c.recvd++
	return string(plain), nil
}

func (c *Channel) sendLabel() string {
	if c.role == Authority {
		return labelToPlayer
	}
	return labelToAuthority
}

func (c *Channel) recvLabel() string {
	if c.role == Authority {
		return labelToAuthority
	}
	return labelToPlayer
}

func (c *Channel) aad(label string, seq uint64) []byte {
	b := make([]byte, len(label)+8)
	copy(b, label)
	binary.BigEndian.PutUint64(b[len(label):], seq)
	return b
}
