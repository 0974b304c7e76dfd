// Package transport implements the paired-socket connection between
// parrotd and whatever process is playing the teacher (production teacher
// or parrottutor). No library in the example pack offers a message-queue
// or RPC layer that fits a single persistent duplex byte stream to one
// fixed peer, so this is built directly on net.Conn - the same footing the
// teacher's own server package uses for its listener, just without the
// chi/jwt/REST machinery that has no home in this domain.
package transport

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

// HelloFrame is the text frame the agent sends immediately after dialing,
// before the reward/character tick loop begins.
const HelloFrame = "hello"

// Conn is one open connection between the agent and the teacher.
//
// Two framing conventions share the wire: variable-length text frames
// (the handshake, and the reward signal, which can be empty) are
// newline-delimited; the teacher-character and reply frames are always
// exactly one rune and need no delimiter, since their length never varies.
type Conn struct {
	nc     net.Conn
	reader *bufio.Reader
}

// Dial connects to the teacher at addr, waiting up to timeout for the
// connection to complete.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Conn, error) {
	d := net.Dialer{Timeout: timeout}
	nc, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dialing teacher at %s: %w", addr, err)
	}
	return &Conn{nc: nc, reader: bufio.NewReader(nc)}, nil
}

// Listen opens a listener for a teacher-simulator (parrottutor) to accept
// agent connections on addr.
func Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	return ln, nil
}

// Accept wraps an already-accepted net.Conn (from a net.Listener) as a
// Conn, for the teacher-simulator side of the socket.
func Accept(nc net.Conn) *Conn {
	return &Conn{nc: nc, reader: bufio.NewReader(nc)}
}

// WriteFrame sends one newline-delimited text frame.
func (c *Conn) WriteFrame(s string) error {
	_, err := c.nc.Write([]byte(s + "\n"))
	return err
}

// ReadFrame reads one newline-delimited text frame, with the delimiter and
// any trailing carriage return stripped.
func (c *Conn) ReadFrame() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Handshake sends the agent's startup "hello" frame.
func (c *Conn) Handshake() error {
	return c.WriteFrame(HelloFrame)
}

// AwaitHandshake is the teacher-simulator side of Handshake: it blocks
// until the agent's "hello" frame arrives.
func (c *Conn) AwaitHandshake() error {
	frame, err := c.ReadFrame()
	if err != nil {
		return fmt.Errorf("awaiting handshake: %w", err)
	}
	if frame != HelloFrame {
		return fmt.Errorf("awaiting handshake: got %q, want %q", frame, HelloFrame)
	}
	return nil
}

// ReadReward reads one reward frame and maps it to '+', '-', or ' '.
func (c *Conn) ReadReward() (rune, error) {
	frame, err := c.ReadFrame()
	if err != nil {
		return 0, err
	}
	switch frame {
	case "1":
		return '+', nil
	case "-1":
		return '-', nil
	case "":
		return ' ', nil
	default:
		return 0, fmt.Errorf("malformed reward frame %q", frame)
	}
}

// WriteReward sends the reward r ('+', '-', or ' ') as its wire frame, the
// teacher-simulator's counterpart to ReadReward.
func (c *Conn) WriteReward(r rune) error {
	switch r {
	case '+':
		return c.WriteFrame("1")
	case '-':
		return c.WriteFrame("-1")
	default:
		return c.WriteFrame("")
	}
}

// ReadChar reads the next single rune the peer sent.
func (c *Conn) ReadChar() (rune, error) {
	r, _, err := c.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	return r, nil
}

// WriteChar sends one rune to the peer.
func (c *Conn) WriteChar(r rune) error {
	_, err := c.nc.Write([]byte(string(r)))
	return err
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.nc.Close()
}
