package ptyio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielgatis/vtcore"
	"github.com/danielgatis/vtcore/typeahead"
)

// State is a Starter's lifecycle stage.
type State int

const (
	StateNew State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ResizeOrigin says who requested a resize: local-app-driven resizes
// (e.g. reflow from an alternate-screen redraw) and host-window resizes go
// through the same debounce, and PostResize does not act on the origin.
type ResizeOrigin int

const (
	ResizeOriginHost ResizeOrigin = iota
	ResizeOriginApplication
)

// Starter coordinates one reader thread (R) reading Connector output into a
// vtcore.Terminal, and one scheduled executor (S) serializing writes,
// resizes, and shutdown — the split documented in vtcore's concurrency
// model. All PTY output and resize notifications go through S so a process
// that regenerates its screen on SIGWINCH has a chance to settle before a
// resize lands.
type Starter struct {
	ID       string
	Logger   *slog.Logger
	Terminal *vtcore.Terminal
	Conn     Connector
	TypeAhead *typeahead.Manager
	Config   Config

	// OnDisconnect, if set, is called once from R when the connector
	// disconnects or the reader loop otherwise exits.
	OnDisconnect func(err error)

	exec ExecutorServiceManager

	mu    sync.Mutex
	state State
	stop  bool

	cancelResize func()
}

// NewStarter creates a Starter in state NEW. exec is typically a
// *GoroutineExecutor; tests can pass a synchronous stub instead.
func NewStarter(term *vtcore.Terminal, conn Connector, cfg Config, exec ExecutorServiceManager, logger *slog.Logger) *Starter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Starter{
		ID:       uuid.New().String(),
		Logger:   logger,
		Terminal: term,
		Conn:     conn,
		Config:   cfg,
		exec:     exec,
		state:    StateNew,
	}
}

// State returns the current lifecycle stage.
func (s *Starter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Starter) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Start transitions NEW -> RUNNING and launches the reader thread.
func (s *Starter) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateNew {
		s.mu.Unlock()
		return fmt.Errorf("ptyio: starter %s already started", s.ID)
	}
	s.state = StateRunning
	s.mu.Unlock()

	s.exec.RunReader(func() { s.readLoop(ctx) })
	return nil
}

// readLoop is R: it drains the connector into the terminal until stopped,
// disconnected, or the connector reports an error.
func (s *Starter) readLoop(ctx context.Context) {
	buf := make([]byte, 4096)
	var exitErr error

	for {
		s.mu.Lock()
		stopRequested := s.stop
		s.mu.Unlock()
		if stopRequested {
			break
		}

		select {
		case <-ctx.Done():
			exitErr = ctx.Err()
		default:
		}
		if exitErr != nil {
			break
		}

		n, err := s.Conn.Read(buf)
		if n > 0 {
			s.Terminal.Write(buf[:n])
		}
		if err != nil {
			if !s.Conn.Connected() {
				exitErr = err
				break
			}
			// Non-IO parse problems never reach here: the terminal
			// swallows malformed sequences itself. A read error while
			// still connected is logged and retried.
			s.Logger.Debug("ptyio: transient read error", "starter", s.ID, "err", err)
			continue
		}
	}

	s.setState(StateStopping)
	if s.OnDisconnect != nil {
		s.OnDisconnect(exitErr)
	}
	// close waits for the executor's goroutines, this reader included, so
	// it runs on its own goroutine once the reader loop has returned.
	go func() {
		s.close()
		s.setState(StateStopped)
	}()
}

// PostResize applies size to the terminal immediately (so the screen
// reflows without delay) and schedules the matching Connector.Resize after
// a debounce, replacing any pending one. alternate selects the shorter
// debounce used while a full-screen app owns the display.
func (s *Starter) PostResize(size Size, origin ResizeOrigin, alternate bool) {
	s.exec.Submit(func() {
		s.Terminal.Resize(size.Rows, size.Cols)

		s.mu.Lock()
		if s.cancelResize != nil {
			s.cancelResize()
		}
		s.mu.Unlock()

		debounce := s.Config.PrimaryResizeDebounce
		if alternate {
			debounce = s.Config.AlternateResizeDebounce
		}

		cancel := s.exec.Schedule(debounce, func() {
			if err := s.Conn.Resize(size); err != nil {
				s.Logger.Error("ptyio: resize failed", "starter", s.ID, "err", err)
			}
		})

		s.mu.Lock()
		s.cancelResize = cancel
		s.mu.Unlock()
	})
}

// SendBytes writes raw bytes to the connector via S. If userInput is true,
// each byte is also offered to the TypeAheadManager before being written,
// so a later mismatch can invalidate the resulting prediction.
func (s *Starter) SendBytes(data []byte, userInput bool) {
	s.exec.Submit(func() {
		if userInput && s.TypeAhead != nil {
			s.submitTypeAhead(data)
		}
		if _, err := s.Conn.Write(data); err != nil {
			s.Logger.Error("ptyio: write failed", "starter", s.ID, "err", err)
		}
	})
}

// SendString is SendBytes for a UTF-8 string.
func (s *Starter) SendString(str string, userInput bool) {
	s.SendBytes([]byte(str), userInput)
}

func (s *Starter) submitTypeAhead(data []byte) {
	row, col := s.Terminal.CursorPos()
	ctx := typeahead.Context{
		AutoWrap:        s.Terminal.HasMode(vtcore.ModeLineWrap),
		CursorInScroll:  true,
		AlternateScreen: s.Terminal.IsAlternateScreen(),
	}
	now := time.Now()
	for _, b := range data {
		r := rune(b)
		s.TypeAhead.Predict([]byte{b}, r, typeahead.Position{Row: row, Col: col}, ctx, now)
		col++
	}
}

// RequestStop sets a cooperative stop flag that R checks between emulator
// steps, moving the Starter toward STOPPING.
func (s *Starter) RequestStop() {
	s.mu.Lock()
	s.stop = true
	s.mu.Unlock()
	s.setState(StateStopping)
}

// close is best-effort: it closes the connector and shuts down the
// executor, logging and swallowing any error.
func (s *Starter) close() {
	s.mu.Lock()
	if s.cancelResize != nil {
		s.cancelResize()
	}
	s.mu.Unlock()

	if err := s.Conn.Close(); err != nil {
		s.Logger.Debug("ptyio: close error", "starter", s.ID, "err", err)
	}
	s.exec.Shutdown()
}
