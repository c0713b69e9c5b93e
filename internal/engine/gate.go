package engine

import (
	"log/slog"

	"github.com/tolgaer/punchwatch/internal/clock"
)

// Alert kinds. Each fires at most once per calendar day.
const (
	KindPreAlert   = "pre-alert"
	KindCompletion = "completion"
)

// Notifier performs the user-visible alert. Implementations must not block.
type Notifier interface {
	Notify(kind string)
}

// AlertRecorder persists the calendar date each alert kind last fired on.
type AlertRecorder interface {
	AlertDate(kind string) (string, error)
	SetAlertDate(kind, date string) error
}

// AlertGate is the once-per-day threshold state machine. It is idempotent
// under repeated evaluation: after a threshold is crossed, re-evaluating any
// number of times on the same day produces no further notifications. There
// is no explicit daily reset; the recorded date simply stops matching today.
type AlertGate struct {
	rec      AlertRecorder
	notifier Notifier
	clk      clock.Clock
	log      *slog.Logger

	// fired guards against re-notifying within one process even when the
	// recorder is unavailable (degraded mode: once per session instead of
	// once per day).
	fired map[string]string
}

func NewAlertGate(rec AlertRecorder, n Notifier, clk clock.Clock, log *slog.Logger) *AlertGate {
	return &AlertGate{
		rec:      rec,
		notifier: n,
		clk:      clk,
		log:      log,
		fired:    make(map[string]string),
	}
}

// Evaluate checks both thresholds against the current worked total.
func (g *AlertGate) Evaluate(totalMinutes int, cfg Config) {
	today := g.clk.Now().Format("2006-01-02")
	g.check(KindPreAlert, totalMinutes >= cfg.PreAlertMinutes(), today)
	g.check(KindCompletion, totalMinutes >= cfg.WorkMinutes, today)
}

func (g *AlertGate) check(kind string, crossed bool, today string) {
	if !crossed {
		return
	}
	if g.fired[kind] == today {
		return
	}

	date, err := g.rec.AlertDate(kind)
	if err != nil {
		g.log.Warn("alert record unavailable, falling back to in-process state", "kind", kind, "err", err)
	} else if date == today {
		g.fired[kind] = today
		return
	}

	g.notifier.Notify(kind)
	g.fired[kind] = today
	if err := g.rec.SetAlertDate(kind, today); err != nil {
		g.log.Warn("persist alert date", "kind", kind, "err", err)
	}
}
