// Package typeahead predicts the local echo of a keystroke sent to a slow
// remote shell, so a UI can render the guess immediately instead of waiting
// for the round trip. Predictions are reconciled against the real output as
// it arrives; a wrong guess invalidates the whole queue and disables
// further prediction for a penalty window.
package typeahead

import (
	"sync"
	"time"
)

// Position is a zero-based screen coordinate.
type Position struct {
	Row int
	Col int
}

// Prediction is one speculative character shown ahead of the real echo.
type Prediction struct {
	// Keystroke is the raw input bytes that produced this prediction.
	Keystroke []byte
	// At is the cursor position the character is expected to appear at.
	At Position
	// Char is the predicted rune.
	Char rune
	// Created is when the prediction was submitted.
	Created time.Time
}

// Context describes the terminal state at the moment a keystroke arrives,
// used to decide whether prediction is even allowed.
type Context struct {
	AutoWrap        bool
	CursorInScroll  bool
	AlternateScreen bool
	MouseMode       bool
}

// Config tunes when predictions engage and how long they live.
type Config struct {
	// LatencyThreshold is the EWMA round-trip latency above which
	// predictions are enabled. Below it, typed characters are expected to
	// echo fast enough that guessing isn't worth the risk.
	LatencyThreshold time.Duration
	// PenaltyWindow is how long prediction stays disabled after a
	// mismatch.
	PenaltyWindow time.Duration
	// MaxAge drops a prediction that has gone unconfirmed this long.
	MaxAge time.Duration
}

// DefaultConfig matches common defaults for predictive terminal echo.
func DefaultConfig() Config {
	return Config{
		LatencyThreshold: 50 * time.Millisecond,
		PenaltyWindow:    3 * time.Second,
		MaxAge:           3 * time.Second,
	}
}

// Manager owns the prediction queue. The authoritative screen model never
// sees predictions directly; a renderer overlays Manager.Predictions() on
// top of it.
type Manager struct {
	mu     sync.Mutex
	cfg    Config
	queue  []Prediction
	ewma   time.Duration
	haveRT bool
	until  time.Time // predictions disabled until this time, zero if not penalized
}

// NewManager creates a Manager with cfg. A zero Config uses DefaultConfig.
func NewManager(cfg Config) *Manager {
	if cfg.LatencyThreshold == 0 {
		cfg.LatencyThreshold = DefaultConfig().LatencyThreshold
	}
	if cfg.PenaltyWindow == 0 {
		cfg.PenaltyWindow = DefaultConfig().PenaltyWindow
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = DefaultConfig().MaxAge
	}
	return &Manager{cfg: cfg}
}

// ObserveRoundTrip records the latency between a write and its echo,
// updating the EWMA used to decide whether prediction is worthwhile.
func (m *Manager) ObserveRoundTrip(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.haveRT {
		m.ewma = d
		m.haveRT = true
		return
	}
	// EWMA with alpha = 1/8, matching the coarse smoothing used for TCP RTT
	// estimation; good enough for a latency-above-threshold gate.
	m.ewma = m.ewma - m.ewma/8 + d/8
}

// enabledLocked reports whether prediction is currently allowed, given the
// context of the keystroke and latency/penalty state. Caller holds m.mu.
func (m *Manager) enabledLocked(ctx Context, now time.Time) bool {
	if !ctx.AutoWrap || ctx.AlternateScreen || ctx.MouseMode || !ctx.CursorInScroll {
		return false
	}
	if !m.until.IsZero() && now.Before(m.until) {
		return false
	}
	if !m.haveRT || m.ewma < m.cfg.LatencyThreshold {
		return false
	}
	return true
}

// isPredictable reports whether r is a plain printable character eligible
// for speculative echo: ASCII letters, digits, and punctuation. Anything
// requiring combining, control handling, or wide-cell placement is
// excluded.
func isPredictable(r rune) bool {
	return r >= 0x20 && r < 0x7f
}

// Predict submits a keystroke for speculative echo at the given cursor
// position. Returns the Prediction and true if it was accepted, or the
// zero value and false if prediction rules reject it.
func (m *Manager) Predict(keystroke []byte, r rune, at Position, ctx Context, now time.Time) (Prediction, bool) {
	if !isPredictable(r) {
		return Prediction{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabledLocked(ctx, now) {
		return Prediction{}, false
	}

	p := Prediction{
		Keystroke: append([]byte(nil), keystroke...),
		At:        at,
		Char:      r,
		Created:   now,
	}
	m.queue = append(m.queue, p)
	return p, true
}

// Confirm reports that real output matched a prediction at pos with
// character r, removing it from the queue.
func (m *Manager) Confirm(pos Position, r rune) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, p := range m.queue {
		if p.At == pos && p.Char == r {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Mismatch reports that real output did not match what was predicted.
// All outstanding predictions are discarded and
// prediction is suspended for the configured penalty window.
func (m *Manager) Mismatch(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queue = nil
	m.until = now.Add(m.cfg.PenaltyWindow)
}

// ExpireOld drops predictions older than cfg.MaxAge, as of now.
func (m *Manager) ExpireOld(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fresh := m.queue[:0]
	for _, p := range m.queue {
		if now.Sub(p.Created) <= m.cfg.MaxAge {
			fresh = append(fresh, p)
		}
	}
	m.queue = fresh
}

// Reset clears all outstanding predictions without penalizing, used e.g.
// on resize where Mosh-style predictors give up outright.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = nil
}

// Predictions returns a snapshot of the outstanding predictions for
// rendering as an overlay. The result is a copy; mutating it has no effect
// on Manager state.
func (m *Manager) Predictions() []Prediction {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Prediction, len(m.queue))
	copy(out, m.queue)
	return out
}
