package ptyio

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/danielgatis/vtcore"
)

// fakeConnector is an in-memory Connector so starter/debounce tests run
// without forking a real PTY process.
type fakeConnector struct {
	mu        sync.Mutex
	toRead    *bytes.Buffer
	written   bytes.Buffer
	resizes   []Size
	connected bool
	readBlock chan struct{}
}

func newFakeConnector() *fakeConnector {
	return &fakeConnector{
		toRead:    &bytes.Buffer{},
		connected: true,
		readBlock: make(chan struct{}),
	}
}

func (f *fakeConnector) Read(p []byte) (int, error) {
	f.mu.Lock()
	if f.toRead.Len() > 0 {
		n, _ := f.toRead.Read(p)
		f.mu.Unlock()
		return n, nil
	}
	f.mu.Unlock()

	<-f.readBlock
	return 0, io.EOF
}

func (f *fakeConnector) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written.Write(p)
}

func (f *fakeConnector) Resize(size Size) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resizes = append(f.resizes, size)
	return nil
}

func (f *fakeConnector) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeConnector) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connected {
		f.connected = false
		close(f.readBlock)
	}
	return nil
}

func (f *fakeConnector) Name() string { return "fake" }

func (f *fakeConnector) lastResize() (Size, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.resizes) == 0 {
		return Size{}, 0
	}
	return f.resizes[len(f.resizes)-1], len(f.resizes)
}

var _ Connector = (*fakeConnector)(nil)

// syncExecutor runs everything inline, so debounce tests control timing by
// calling Schedule's returned function directly instead of waiting on real
// timers.
type syncExecutor struct {
	mu      sync.Mutex
	pending map[int]func()
	nextID  int
}

func newSyncExecutor() *syncExecutor {
	return &syncExecutor{pending: make(map[int]func())}
}

func (e *syncExecutor) Submit(fn func()) { fn() }

func (e *syncExecutor) Schedule(d time.Duration, fn func()) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.pending[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.pending, id)
		e.mu.Unlock()
	}
}

// fire runs every still-pending scheduled task, simulating the debounce
// timer elapsing.
func (e *syncExecutor) fire() {
	e.mu.Lock()
	pending := e.pending
	e.pending = make(map[int]func())
	e.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

func (e *syncExecutor) RunReader(fn func()) { go fn() }
func (e *syncExecutor) Shutdown()            {}

var _ ExecutorServiceManager = (*syncExecutor)(nil)

func TestPostResizeDebounceReplacesPending(t *testing.T) {
	term := vtcore.New(vtcore.WithSize(24, 80))
	conn := newFakeConnector()
	exec := newSyncExecutor()
	s := NewStarter(term, conn, DefaultConfig(), exec, nil)

	s.PostResize(Size{Rows: 30, Cols: 100}, ResizeOriginHost, false)
	s.PostResize(Size{Rows: 40, Cols: 120}, ResizeOriginHost, false)

	exec.fire()

	size, count := conn.lastResize()
	if count != 1 {
		t.Fatalf("Connector.Resize called %d times, want 1", count)
	}
	if size != (Size{Rows: 40, Cols: 120}) {
		t.Errorf("resize = %+v, want {40 120}", size)
	}

	if term.Rows() != 40 || term.Cols() != 120 {
		t.Errorf("terminal size = %dx%d, want 40x120 (reflow should be immediate)", term.Rows(), term.Cols())
	}
}

func TestStarterLifecycle(t *testing.T) {
	term := vtcore.New(vtcore.WithSize(24, 80))
	conn := newFakeConnector()
	conn.toRead.WriteString("hello")
	exec := newSyncExecutor()
	s := NewStarter(term, conn, DefaultConfig(), exec, nil)

	done := make(chan struct{})
	s.OnDisconnect = func(err error) { close(done) }

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.State() != StateRunning {
		t.Errorf("State() = %v, want %v", s.State(), StateRunning)
	}

	conn.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for OnDisconnect")
	}

	// OnDisconnect fires before the reader loop closes the Starter, so
	// give it a moment to reach STOPPED.
	deadline := time.Now().Add(2 * time.Second)
	for s.State() != StateStopped && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if s.State() != StateStopped {
		t.Errorf("State() = %v, want %v", s.State(), StateStopped)
	}
}

func TestSendBytesWritesToConnector(t *testing.T) {
	term := vtcore.New(vtcore.WithSize(24, 80))
	conn := newFakeConnector()
	exec := newSyncExecutor()
	s := NewStarter(term, conn, DefaultConfig(), exec, nil)

	s.SendString("ls\r", true)

	conn.mu.Lock()
	got := conn.written.String()
	conn.mu.Unlock()

	if got != "ls\r" {
		t.Errorf("written = %q, want %q", got, "ls\r")
	}
}
