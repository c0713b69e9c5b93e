// Package export dumps the current day's entries and summary to disk.
package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/tolgaer/punchwatch/internal/clock"
	"github.com/tolgaer/punchwatch/internal/engine"
)

func ToCSV(entries []engine.LogEntry, totals engine.Totals, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Start", "End", "Status", "Minutes", "Duration"}); err != nil {
		return err
	}

	for _, e := range entries {
		status := "closed"
		mins := clock.MinutesBetween(e.Start, e.End)
		if e.Open {
			status = "open"
			mins = 0
		}
		row := []string{
			e.Start,
			e.End,
			status,
			fmt.Sprintf("%d", mins),
			formatMinutes(mins),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	// Trailing summary row.
	summary := []string{
		"total", "", "",
		fmt.Sprintf("%d", totals.TotalMinutes),
		formatMinutes(totals.TotalMinutes),
	}
	if err := w.Write(summary); err != nil {
		return err
	}

	return w.Error()
}

func formatMinutes(mins int) string {
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}
