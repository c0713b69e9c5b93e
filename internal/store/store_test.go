package store

import (
	"testing"

	"github.com/tolgaer/punchwatch/internal/engine"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/punchwatch.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen should succeed and not re-migrate.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	// Running migrate again should be a no-op
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Alerts
// ============================================================

func TestAlertDateUnset(t *testing.T) {
	s := newTestStore(t)
	date, err := s.AlertDate(engine.KindCompletion)
	if err != nil {
		t.Fatal(err)
	}
	if date != "" {
		t.Fatalf("expected empty date, got %q", date)
	}
}

func TestAlertDateRoundTrip(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetAlertDate(engine.KindPreAlert, "2025-03-10"); err != nil {
		t.Fatal(err)
	}
	date, err := s.AlertDate(engine.KindPreAlert)
	if err != nil {
		t.Fatal(err)
	}
	if date != "2025-03-10" {
		t.Fatalf("got %q, want 2025-03-10", date)
	}

	// Kinds are independent.
	date, err = s.AlertDate(engine.KindCompletion)
	if err != nil {
		t.Fatal(err)
	}
	if date != "" {
		t.Fatalf("completion date should be unset, got %q", date)
	}
}

func TestSetAlertDateReplaces(t *testing.T) {
	s := newTestStore(t)
	s.SetAlertDate(engine.KindCompletion, "2025-03-10")
	if err := s.SetAlertDate(engine.KindCompletion, "2025-03-11"); err != nil {
		t.Fatal(err)
	}
	date, _ := s.AlertDate(engine.KindCompletion)
	if date != "2025-03-11" {
		t.Fatalf("got %q, want 2025-03-11", date)
	}
}

func TestAlertDateSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/punchwatch.db"

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.SetAlertDate(engine.KindCompletion, "2025-03-10")
	s.Close()

	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	date, _ := s2.AlertDate(engine.KindCompletion)
	if date != "2025-03-10" {
		t.Fatalf("got %q after reopen, want 2025-03-10", date)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsSeeded(t *testing.T) {
	s := newTestStore(t)
	v, err := s.GetSetting("work_minutes")
	if err != nil {
		t.Fatal(err)
	}
	if v != "480" {
		t.Fatalf("work_minutes = %q, want 480", v)
	}
}

func TestSetSetting(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting("work_minutes", "450"); err != nil {
		t.Fatal(err)
	}
	v, _ := s.GetSetting("work_minutes")
	if v != "450" {
		t.Fatalf("got %q, want 450", v)
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) != 5 {
		t.Fatalf("got %d settings, want 5", len(settings))
	}
}

func TestLoadConfig(t *testing.T) {
	s := newTestStore(t)
	cfg := s.LoadConfig()
	if cfg.WorkMinutes != 480 || cfg.HalfDayMinutes != 240 || cfg.PreAlertMargin != 10 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	s.SetSetting("work_minutes", "420")
	cfg = s.LoadConfig()
	if cfg.WorkMinutes != 420 {
		t.Fatalf("work minutes = %d, want 420", cfg.WorkMinutes)
	}
}

func TestLoadConfigFallsBackOnGarbage(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("work_minutes", "eight hours")
	cfg := s.LoadConfig()
	if cfg.WorkMinutes != engine.DefaultWorkMinutes {
		t.Fatalf("work minutes = %d, want default", cfg.WorkMinutes)
	}
}

func TestSoundEnabled(t *testing.T) {
	s := newTestStore(t)
	if !s.SoundEnabled(engine.KindCompletion) || !s.SoundEnabled(engine.KindPreAlert) {
		t.Fatal("sounds should default to on")
	}
	s.SetSetting("sound_on_pre_alert", "0")
	if s.SoundEnabled(engine.KindPreAlert) {
		t.Fatal("pre-alert sound should be off")
	}
	if !s.SoundEnabled(engine.KindCompletion) {
		t.Fatal("completion sound should still be on")
	}
}
