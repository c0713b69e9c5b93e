package store

import (
	"fmt"
	"strconv"

	"github.com/tolgaer/punchwatch/internal/engine"
)

type Setting struct {
	Key   string
	Value string
}

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// LoadConfig returns the engine thresholds from settings, falling back to
// defaults for anything missing or unparseable.
func (s *Store) LoadConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.WorkMinutes = s.intSetting("work_minutes", cfg.WorkMinutes)
	cfg.HalfDayMinutes = s.intSetting("half_day_minutes", cfg.HalfDayMinutes)
	cfg.PreAlertMargin = s.intSetting("pre_alert_margin", cfg.PreAlertMargin)
	return cfg
}

// SoundEnabled reports whether the sound toggle for an alert kind is on.
func (s *Store) SoundEnabled(kind string) bool {
	key := "sound_on_complete"
	if kind == engine.KindPreAlert {
		key = "sound_on_pre_alert"
	}
	return s.intSetting(key, 1) != 0
}

func (s *Store) intSetting(key string, fallback int) int {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
