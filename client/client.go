// Package client is the one-shot sender: one connection per message, close
// to mark end of frame.
package client

import (
	"fmt"
	"net"
	"time"

	"github.com/logpile/logpile/common"
	"github.com/logpile/logpile/types"
)

// DefaultTimeout bounds dialing, the write itself is fire-and-forget.
const DefaultTimeout = 5 * time.Second

// Client sends severity-tagged messages to a logpile service.
type Client struct {
	addr    string
	timeout time.Duration
}

// New .
func New(addr string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{addr: addr, timeout: timeout}
}

// Send opens a connection, writes one `<digit>:<message>` frame and closes.
// Failure covers dial and write errors.
func (c *Client) Send(severity types.Severity, message []byte) error {
	if severity < types.Info || severity > types.Error {
		return fmt.Errorf("%w: %s not allowed on the wire", common.ErrBadSeverity, severity)
	}

	conn, err := net.DialTimeout("tcp", c.addr, c.timeout)
	if err != nil {
		return fmt.Errorf("failed to connect %s: %w", c.addr, err)
	}
	defer conn.Close()

	frame := make([]byte, 0, len(message)+2)
	frame = append(frame, severity.Digit(), common.FrameDelimiter)
	frame = append(frame, message...)

	if _, err := conn.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}
