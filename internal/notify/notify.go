// Package notify delivers the user-visible threshold alerts.
package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"

	"github.com/tolgaer/punchwatch/internal/engine"
)

// Desktop sends a desktop notification plus an optional tone for each alert
// kind. It implements engine.Notifier. Delivery runs on its own goroutine
// and failures are only logged, so the pipeline is never blocked.
type Desktop struct {
	store SoundPrefs
	log   *slog.Logger
}

// SoundPrefs reports whether the tone for an alert kind is enabled.
type SoundPrefs interface {
	SoundEnabled(kind string) bool
}

func NewDesktop(prefs SoundPrefs, log *slog.Logger) *Desktop {
	return &Desktop{store: prefs, log: log}
}

func (d *Desktop) Notify(kind string) {
	go d.deliver(kind)
}

func (d *Desktop) deliver(kind string) {
	title, body := messageFor(kind)
	if err := beeep.Notify(title, body, ""); err != nil {
		d.log.Warn("desktop notification failed", "kind", kind, "err", err)
	}
	if !d.store.SoundEnabled(kind) {
		return
	}
	switch kind {
	case engine.KindCompletion:
		// Two-tone chirp for the big one.
		d.beep(880, 200)
		d.beep(1200, 200)
	default:
		d.beep(660, 200)
	}
}

func (d *Desktop) beep(freq float64, ms int) {
	if err := beeep.Beep(freq, ms); err != nil {
		d.log.Debug("beep failed", "err", err)
	}
}

func messageFor(kind string) (title, body string) {
	switch kind {
	case engine.KindPreAlert:
		return "10 minutes remaining", "You are almost at a full workday."
	case engine.KindCompletion:
		return "8 hours completed", "Workday done. Go home!"
	default:
		return "punchwatch", kind
	}
}
