package tui

import (
	"fmt"
	"time"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewTimeline
	viewSettings
)

var viewNames = []string{"Dashboard", "Timeline", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatMinutes(mins int) string {
	if mins < 0 {
		mins = 0
	}
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

func formatClock(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("3:04 pm")
}
