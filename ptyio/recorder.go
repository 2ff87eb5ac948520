package ptyio

import (
	"fmt"
	"os"
	"sync"

	"github.com/gofrs/flock"

	"github.com/danielgatis/vtcore"
)

// FileRecorder is an optional vtcore.RecordingProvider that appends raw PTY
// bytes to a file on disk, taking an advisory flock for the duration of
// each append so two processes sharing a session directory never
// interleave writes, mirroring the safety the retrieval pack's session/
// config tooling applies to files shared across processes.
type FileRecorder struct {
	path string
	lock *flock.Flock

	mu  sync.Mutex
	buf []byte
}

// NewFileRecorder prepares a recorder writing to path. The file is created
// on first Record call if it does not already exist.
func NewFileRecorder(path string) *FileRecorder {
	return &FileRecorder{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Record appends data to the in-memory buffer and flushes it to disk under
// an exclusive file lock.
func (r *FileRecorder) Record(data []byte) {
	r.mu.Lock()
	r.buf = append(r.buf, data...)
	r.mu.Unlock()

	if err := r.flush(data); err != nil {
		// Recording is best-effort; a failed flush never interrupts the
		// session.
		return
	}
}

func (r *FileRecorder) flush(data []byte) error {
	if err := r.lock.Lock(); err != nil {
		return fmt.Errorf("ptyio: lock recording file: %w", err)
	}
	defer r.lock.Unlock()

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("ptyio: open recording file: %w", err)
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}

// Data returns all bytes recorded since the last Clear call.
func (r *FileRecorder) Data() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]byte, len(r.buf))
	copy(out, r.buf)
	return out
}

// Clear discards the in-memory buffer. The on-disk file is left intact;
// callers that want to truncate it should remove it directly.
func (r *FileRecorder) Clear() {
	r.mu.Lock()
	r.buf = nil
	r.mu.Unlock()
}

var _ vtcore.RecordingProvider = (*FileRecorder)(nil)
