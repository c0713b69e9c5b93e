package engine

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// ============================================================
// Test fakes
// ============================================================

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type countNotifier struct {
	mu     sync.Mutex
	counts map[string]int
}

func newCountNotifier() *countNotifier {
	return &countNotifier{counts: make(map[string]int)}
}

func (n *countNotifier) Notify(kind string) {
	n.mu.Lock()
	n.counts[kind]++
	n.mu.Unlock()
}

func (n *countNotifier) count(kind string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.counts[kind]
}

type memRecorder struct {
	mu    sync.Mutex
	dates map[string]string
	err   error
}

func newMemRecorder() *memRecorder {
	return &memRecorder{dates: make(map[string]string)}
}

func (r *memRecorder) AlertDate(kind string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	return r.dates[kind], nil
}

func (r *memRecorder) SetAlertDate(kind, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.dates[kind] = date
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ============================================================
// AlertGate
// ============================================================

func TestGateFiresOncePerDay(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC)}
	n := newCountNotifier()
	g := NewAlertGate(newMemRecorder(), n, clk, discardLogger())

	for i := 0; i < 500; i++ {
		g.Evaluate(470, DefaultConfig())
	}
	if got := n.count(KindPreAlert); got != 1 {
		t.Fatalf("pre-alert fired %d times, want 1", got)
	}
	if got := n.count(KindCompletion); got != 0 {
		t.Fatalf("completion fired %d times, want 0", got)
	}
}

func TestGateBelowThreshold(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	n := newCountNotifier()
	g := NewAlertGate(newMemRecorder(), n, clk, discardLogger())

	g.Evaluate(469, DefaultConfig())
	if got := n.count(KindPreAlert) + n.count(KindCompletion); got != 0 {
		t.Fatalf("fired %d times below threshold", got)
	}
}

func TestGateCompletionImpliesPreAlert(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)}
	n := newCountNotifier()
	g := NewAlertGate(newMemRecorder(), n, clk, discardLogger())

	g.Evaluate(480, DefaultConfig())
	g.Evaluate(481, DefaultConfig())
	if got := n.count(KindPreAlert); got != 1 {
		t.Fatalf("pre-alert fired %d times, want 1", got)
	}
	if got := n.count(KindCompletion); got != 1 {
		t.Fatalf("completion fired %d times, want 1", got)
	}
}

func TestGateResetsOnDateRollover(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)}
	n := newCountNotifier()
	g := NewAlertGate(newMemRecorder(), n, clk, discardLogger())

	g.Evaluate(480, DefaultConfig())
	clk.set(time.Date(2025, 3, 11, 17, 0, 0, 0, time.UTC))
	g.Evaluate(480, DefaultConfig())

	if got := n.count(KindCompletion); got != 2 {
		t.Fatalf("completion fired %d times across two days, want 2", got)
	}
}

func TestGateSurvivesRestart(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)}
	rec := newMemRecorder()

	n1 := newCountNotifier()
	g1 := NewAlertGate(rec, n1, clk, discardLogger())
	g1.Evaluate(480, DefaultConfig())

	// Fresh gate instance, same recorder: nothing should re-fire today.
	n2 := newCountNotifier()
	g2 := NewAlertGate(rec, n2, clk, discardLogger())
	g2.Evaluate(480, DefaultConfig())

	if got := n2.count(KindCompletion); got != 0 {
		t.Fatalf("completion re-fired %d times after restart", got)
	}
}

func TestGateStorageUnavailable(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)}
	rec := newMemRecorder()
	rec.err = errors.New("database is locked")
	n := newCountNotifier()
	g := NewAlertGate(rec, n, clk, discardLogger())

	// Degraded mode: once per process, not once per evaluation.
	for i := 0; i < 100; i++ {
		g.Evaluate(480, DefaultConfig())
	}
	if got := n.count(KindCompletion); got != 1 {
		t.Fatalf("completion fired %d times with broken storage, want 1", got)
	}
}
