package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tolgaer/punchwatch/internal/clock"
	"github.com/tolgaer/punchwatch/internal/engine"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Entries    []jsonEntry `json:"entries"`
	Summary    jsonSummary `json:"summary"`
}

type jsonEntry struct {
	Start    string `json:"start"`
	End      string `json:"end,omitempty"`
	Open     bool   `json:"open,omitempty"`
	Minutes  int    `json:"minutes"`
	Duration string `json:"duration"`
}

type jsonSummary struct {
	TotalMinutes     int    `json:"total_minutes"`
	BreakMinutes     int    `json:"break_minutes"`
	OvertimeMinutes  int    `json:"overtime_minutes"`
	RemainingMinutes int    `json:"remaining_minutes"`
	Total            string `json:"total"`
}

func ToJSON(entries []engine.LogEntry, totals engine.Totals, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
		Summary: jsonSummary{
			TotalMinutes:     totals.TotalMinutes,
			BreakMinutes:     totals.BreakMinutes,
			OvertimeMinutes:  totals.OvertimeMinutes,
			RemainingMinutes: totals.RemainingMinutes,
			Total:            formatMinutes(totals.TotalMinutes),
		},
	}

	for _, e := range entries {
		mins := clock.MinutesBetween(e.Start, e.End)
		if e.Open {
			mins = 0
		}
		out.Entries = append(out.Entries, jsonEntry{
			Start:    e.Start,
			End:      e.End,
			Open:     e.Open,
			Minutes:  mins,
			Duration: formatMinutes(mins),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
