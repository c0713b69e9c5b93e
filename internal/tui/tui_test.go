package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tolgaer/punchwatch/internal/engine"
	"github.com/tolgaer/punchwatch/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type stubSource struct {
	rows []engine.LogEntry
	err  error
}

func (s stubSource) Rows() ([]engine.LogEntry, error) { return s.rows, s.err }
func (s stubSource) Watch(func()) (func(), error)     { return func() {}, nil }

func testClock() fixedClock {
	return fixedClock{t: time.Date(2025, 3, 10, 14, 30, 0, 0, time.Local)}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatMinutes(t *testing.T) {
	if got := formatMinutes(510); got != "8h 30m" {
		t.Fatalf("got %q", got)
	}
	if got := formatMinutes(0); got != "0h 00m" {
		t.Fatalf("got %q", got)
	}
	if got := formatMinutes(-5); got != "0h 00m" {
		t.Fatalf("negative minutes should clamp, got %q", got)
	}
}

func TestFormatClock(t *testing.T) {
	if got := formatClock(time.Time{}); got != "—" {
		t.Fatalf("zero time should render as dash, got %q", got)
	}
	at := time.Date(2025, 3, 10, 17, 5, 0, 0, time.Local)
	if got := formatClock(at); got != "5:05 pm" {
		t.Fatalf("got %q", got)
	}
}

func TestHoursMinsConversions(t *testing.T) {
	if got := minsToHours("480"); got != "8.0" {
		t.Fatalf("got %q", got)
	}
	if got := hoursToMins("7.5"); got != "450" {
		t.Fatalf("got %q", got)
	}
	// Garbage passes through untouched.
	if got := hoursToMins("a lot"); got != "a lot" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatSettingValue(t *testing.T) {
	if got := formatSettingValue("work_minutes", "480"); got != "8.0 hours" {
		t.Fatalf("got %q", got)
	}
	if got := formatSettingValue("sound_on_complete", "0"); got != "off" {
		t.Fatalf("got %q", got)
	}
	if got := formatSettingValue("sound_on_complete", "1"); got != "on" {
		t.Fatalf("got %q", got)
	}
	if got := formatSettingValue("pre_alert_margin", "10"); got != "10 min" {
		t.Fatalf("got %q", got)
	}
}

// ============================================================
// Dashboard
// ============================================================

func TestDashboardWaitingForSummary(t *testing.T) {
	cell := engine.NewSummaryCell()
	d := newDashboardModel(cell, testClock(), engine.DefaultConfig)
	d.setSize(100, 40)

	if !strings.Contains(d.view(), "Waiting") {
		t.Fatal("empty cell should render the waiting hint")
	}
}

func TestDashboardLiveSession(t *testing.T) {
	cell := engine.NewSummaryCell()
	cell.Publish(engine.Aggregate([]engine.LogEntry{
		{Start: "9:00 am", End: "1:00 pm"},
		{Start: "2:00 pm", Open: true},
	}))

	d := newDashboardModel(cell, testClock(), engine.DefaultConfig)
	d.setSize(100, 40)
	view := d.view()

	if !strings.Contains(view, "CLOCKED IN") {
		t.Fatal("live session indicator missing")
	}
	// 240 closed + 30 live at 2:30 pm.
	if !strings.Contains(view, "4h 30m") {
		t.Fatalf("total readout missing:\n%s", view)
	}
}

func TestDashboardClockedOut(t *testing.T) {
	cell := engine.NewSummaryCell()
	cell.Publish(engine.Aggregate([]engine.LogEntry{
		{Start: "9:00 am", End: "1:00 pm"},
	}))

	d := newDashboardModel(cell, testClock(), engine.DefaultConfig)
	d.setSize(100, 40)
	if !strings.Contains(d.view(), "CLOCKED OUT") {
		t.Fatal("clocked-out indicator missing")
	}
}

// ============================================================
// Timeline
// ============================================================

func TestTimelineShowsEntries(t *testing.T) {
	m := newTimelineModel(stubSource{}, testClock())
	m.setSize(100, 40)

	m, _ = m.update(timelineDataMsg{entries: []engine.LogEntry{
		{Start: "9:00 am", End: "1:00 pm"},
		{Start: "2:00 pm", Open: true},
	}})
	view := m.view()

	if !strings.Contains(view, "9:00 am") {
		t.Fatal("entry start missing from table")
	}
	if !strings.Contains(view, "running") {
		t.Fatal("open entry should render as running")
	}
}

func TestTimelineSourceMissing(t *testing.T) {
	m := newTimelineModel(stubSource{err: engine.ErrSourceMissing}, testClock())
	m.setSize(100, 40)

	m, _ = m.update(timelineDataMsg{missing: true})
	if !strings.Contains(m.view(), "not found") {
		t.Fatal("missing-source notice absent")
	}
}

func TestTimelineRefreshCmd(t *testing.T) {
	m := newTimelineModel(stubSource{rows: []engine.LogEntry{{Start: "9:00 am", End: "10:00 am"}}}, testClock())
	msg := m.refresh()()
	data, ok := msg.(timelineDataMsg)
	if !ok {
		t.Fatalf("got %T", msg)
	}
	if len(data.entries) != 1 || data.missing {
		t.Fatalf("unexpected data: %+v", data)
	}
}

// ============================================================
// App
// ============================================================

func newTestApp(t *testing.T) App {
	t.Helper()
	s := newTestStore(t)
	cell := engine.NewSummaryCell()
	return NewApp(s, cell, stubSource{}, testClock())
}

func TestAppViewRenders(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	a = model.(App)

	view := a.View()
	if !strings.Contains(view, "punchwatch") {
		t.Fatal("header title missing")
	}
	if !strings.Contains(view, "Dashboard") {
		t.Fatal("tab row missing")
	}
}

func TestAppTabSwitching(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	a = model.(App)

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	a = model.(App)
	if a.activeView != viewTimeline {
		t.Fatalf("active view = %d, want timeline", a.activeView)
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	a = model.(App)
	if a.activeView != viewSettings {
		t.Fatalf("active view = %d, want settings", a.activeView)
	}
}

func TestAppExportPicker(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	a = model.(App)

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	a = model.(App)
	if !a.exportPicking {
		t.Fatal("export picker should be open")
	}
	if !strings.Contains(a.View(), "Export Format") {
		t.Fatal("export picker not rendered")
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(App)
	if a.exportPicking {
		t.Fatal("esc should close the picker")
	}
}

func TestAppQuit(t *testing.T) {
	a := newTestApp(t)
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("quit should produce a command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Fatalf("got %v, want quit", msg)
	}
}
