package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// AlertDate returns the calendar date (YYYY-MM-DD) an alert kind last fired
// on, or "" when it never has. Implements engine.AlertRecorder.
func (s *Store) AlertDate(kind string) (string, error) {
	var date string
	err := s.db.QueryRow(`SELECT fired_date FROM alerts WHERE kind = ?`, kind).Scan(&date)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get alert date %q: %w", kind, err)
	}
	return date, nil
}

// SetAlertDate records the date an alert kind fired on, replacing any
// earlier record for that kind.
func (s *Store) SetAlertDate(kind, date string) error {
	_, err := s.db.Exec(
		`INSERT INTO alerts (kind, fired_date) VALUES (?, ?) ON CONFLICT(kind) DO UPDATE SET fired_date = excluded.fired_date`,
		kind, date,
	)
	if err != nil {
		return fmt.Errorf("set alert date %q: %w", kind, err)
	}
	return nil
}
