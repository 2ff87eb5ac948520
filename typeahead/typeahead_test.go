package typeahead

import (
	"testing"
	"time"
)

func fastCtx() Context {
	return Context{
		AutoWrap:       true,
		CursorInScroll: true,
	}
}

func warmedUp(m *Manager) {
	m.ObserveRoundTrip(200 * time.Millisecond)
	m.ObserveRoundTrip(200 * time.Millisecond)
}

func TestPredictRejectsBelowLatencyThreshold(t *testing.T) {
	m := NewManager(DefaultConfig())
	now := time.Now()

	_, ok := m.Predict([]byte("a"), 'a', Position{Row: 0, Col: 0}, fastCtx(), now)
	if ok {
		t.Fatal("expected prediction to be rejected with no observed latency")
	}
}

func TestPredictAcceptsAboveLatencyThreshold(t *testing.T) {
	m := NewManager(DefaultConfig())
	warmedUp(m)
	now := time.Now()

	p, ok := m.Predict([]byte("a"), 'a', Position{Row: 0, Col: 0}, fastCtx(), now)
	if !ok {
		t.Fatal("expected prediction to be accepted")
	}
	if p.Char != 'a' {
		t.Errorf("Char = %q, want %q", p.Char, 'a')
	}
	if len(m.Predictions()) != 1 {
		t.Errorf("Predictions() len = %d, want 1", len(m.Predictions()))
	}
}

func TestPredictRejectsNonPrintable(t *testing.T) {
	m := NewManager(DefaultConfig())
	warmedUp(m)
	now := time.Now()

	_, ok := m.Predict([]byte{0x1b}, 0x1b, Position{Row: 0, Col: 0}, fastCtx(), now)
	if ok {
		t.Fatal("expected non-printable keystroke to be rejected")
	}
}

func TestPredictRejectsOnAlternateScreen(t *testing.T) {
	m := NewManager(DefaultConfig())
	warmedUp(m)
	now := time.Now()

	ctx := fastCtx()
	ctx.AlternateScreen = true

	_, ok := m.Predict([]byte("a"), 'a', Position{Row: 0, Col: 0}, ctx, now)
	if ok {
		t.Fatal("expected prediction to be rejected on alternate screen")
	}
}

func TestConfirmRemovesPrediction(t *testing.T) {
	m := NewManager(DefaultConfig())
	warmedUp(m)
	now := time.Now()

	pos := Position{Row: 2, Col: 5}
	if _, ok := m.Predict([]byte("x"), 'x', pos, fastCtx(), now); !ok {
		t.Fatal("setup: expected prediction to be accepted")
	}

	if !m.Confirm(pos, 'x') {
		t.Fatal("expected Confirm to match the prediction")
	}
	if len(m.Predictions()) != 0 {
		t.Errorf("Predictions() len = %d, want 0 after confirm", len(m.Predictions()))
	}
}

func TestConfirmMismatchLeavesQueueUntouched(t *testing.T) {
	m := NewManager(DefaultConfig())
	warmedUp(m)
	now := time.Now()

	pos := Position{Row: 2, Col: 5}
	m.Predict([]byte("x"), 'x', pos, fastCtx(), now)

	if m.Confirm(Position{Row: 9, Col: 9}, 'x') {
		t.Fatal("Confirm should not match an unrelated position")
	}
	if len(m.Predictions()) != 1 {
		t.Errorf("Predictions() len = %d, want 1", len(m.Predictions()))
	}
}

func TestMismatchClearsQueueAndPenalizes(t *testing.T) {
	m := NewManager(DefaultConfig())
	warmedUp(m)
	now := time.Now()

	m.Predict([]byte("x"), 'x', Position{Row: 0, Col: 0}, fastCtx(), now)
	m.Predict([]byte("y"), 'y', Position{Row: 0, Col: 1}, fastCtx(), now)

	m.Mismatch(now)

	if len(m.Predictions()) != 0 {
		t.Fatalf("Predictions() len = %d, want 0 after mismatch", len(m.Predictions()))
	}

	// Still within the penalty window: prediction stays disabled.
	if _, ok := m.Predict([]byte("z"), 'z', Position{Row: 0, Col: 2}, fastCtx(), now.Add(time.Second)); ok {
		t.Fatal("expected prediction to stay disabled within the penalty window")
	}

	// After the penalty window elapses, prediction resumes.
	if _, ok := m.Predict([]byte("z"), 'z', Position{Row: 0, Col: 2}, fastCtx(), now.Add(4*time.Second)); !ok {
		t.Fatal("expected prediction to resume after the penalty window")
	}
}

func TestExpireOldDropsStalePredictions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAge = 100 * time.Millisecond
	m := NewManager(cfg)
	warmedUp(m)
	now := time.Now()

	m.Predict([]byte("x"), 'x', Position{Row: 0, Col: 0}, fastCtx(), now)

	m.ExpireOld(now.Add(50 * time.Millisecond))
	if len(m.Predictions()) != 1 {
		t.Fatalf("Predictions() len = %d, want 1 before expiry", len(m.Predictions()))
	}

	m.ExpireOld(now.Add(200 * time.Millisecond))
	if len(m.Predictions()) != 0 {
		t.Fatalf("Predictions() len = %d, want 0 after expiry", len(m.Predictions()))
	}
}

func TestResetClearsWithoutPenalty(t *testing.T) {
	m := NewManager(DefaultConfig())
	warmedUp(m)
	now := time.Now()

	m.Predict([]byte("x"), 'x', Position{Row: 0, Col: 0}, fastCtx(), now)
	m.Reset()

	if len(m.Predictions()) != 0 {
		t.Fatalf("Predictions() len = %d, want 0 after reset", len(m.Predictions()))
	}

	if _, ok := m.Predict([]byte("y"), 'y', Position{Row: 0, Col: 1}, fastCtx(), now); !ok {
		t.Fatal("expected prediction to remain enabled after a plain reset")
	}
}
