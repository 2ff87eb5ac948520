// Package ptyio connects a vtcore.Terminal to a real pseudo-terminal and
// coordinates the reader thread and the scheduled writer/resizer that
// drive it, following the single-reader/single-writer split of a classic
// terminal session.
package ptyio

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/creack/pty"
)

// Size is a terminal's row/column dimensions.
type Size struct {
	Rows int
	Cols int
}

// Connector is the Go shape of a TtyConnector: a PTY abstraction a Starter
// reads from and writes to. Read follows io.Reader semantics (it blocks
// until data, EOF, or error; io.EOF signals disconnect), unlike the raw
// 0/-1/n ioctl-style contract some PTY libraries expose.
type Connector interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Resize(size Size) error
	Connected() bool
	Close() error
	Name() string
}

// PTYConnector wraps a real PTY master obtained from github.com/creack/pty.
type PTYConnector struct {
	cmd       *exec.Cmd
	master    *os.File
	connected bool
}

// StartPTY spawns command under a new PTY sized to size and returns a
// Connector backed by it.
func StartPTY(command string, args []string, size Size) (*PTYConnector, error) {
	cmd := exec.Command(command, args...)
	master, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(size.Rows),
		Cols: uint16(size.Cols),
	})
	if err != nil {
		return nil, fmt.Errorf("ptyio: start %s: %w", command, err)
	}
	return &PTYConnector{cmd: cmd, master: master, connected: true}, nil
}

func (c *PTYConnector) Read(p []byte) (int, error) {
	n, err := c.master.Read(p)
	if err != nil {
		c.connected = false
	}
	return n, err
}

func (c *PTYConnector) Write(p []byte) (int, error) {
	n, err := c.master.Write(p)
	if err != nil {
		c.connected = false
	}
	return n, err
}

// Resize forwards the new dimensions to the PTY via TIOCSWINSZ.
func (c *PTYConnector) Resize(size Size) error {
	return pty.Setsize(c.master, &pty.Winsize{
		Rows: uint16(size.Rows),
		Cols: uint16(size.Cols),
	})
}

func (c *PTYConnector) Connected() bool {
	return c.connected
}

// Close closes the PTY master. It does not wait on the child process;
// callers that need the exit status should call c.cmd.Wait() themselves.
func (c *PTYConnector) Close() error {
	c.connected = false
	return c.master.Close()
}

func (c *PTYConnector) Name() string {
	if c.cmd == nil || c.cmd.Path == "" {
		return "ptyio"
	}
	return c.cmd.Path
}

var _ Connector = (*PTYConnector)(nil)
