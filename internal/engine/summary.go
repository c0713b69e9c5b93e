// Package engine derives the live workday summary from timesheet rows and
// drives the once-per-day threshold alerts.
package engine

import (
	"time"

	"github.com/tolgaer/punchwatch/internal/clock"
)

// Default thresholds, overridable through settings.
const (
	DefaultWorkMinutes    = 8 * 60
	DefaultHalfDayMinutes = 4 * 60
	DefaultPreAlertMargin = 10
)

// Config holds the workday thresholds the engine computes against.
type Config struct {
	WorkMinutes    int
	HalfDayMinutes int
	PreAlertMargin int
}

func DefaultConfig() Config {
	return Config{
		WorkMinutes:    DefaultWorkMinutes,
		HalfDayMinutes: DefaultHalfDayMinutes,
		PreAlertMargin: DefaultPreAlertMargin,
	}
}

// PreAlertMinutes is the worked-minutes threshold for the early warning.
func (c Config) PreAlertMinutes() int {
	return c.WorkMinutes - c.PreAlertMargin
}

// LogEntry is one worked interval as extracted from the timesheet, raw
// tokens and all. An empty Start or End means the token was absent. Open
// marks a session whose end has not been recorded yet.
type LogEntry struct {
	Start string
	End   string
	Open  bool
}

// Summary is the result of one aggregation pass. Closed totals are fixed at
// aggregation time; the open session, if any, is extrapolated at read time
// via Totals because wall clock keeps advancing between recomputes.
type Summary struct {
	ClosedMinutes int
	BreakMinutes  int
	FirstStart    string
	LiveStart     *clock.TimeOfDay
	Anomalies     int
}

// Live reports whether an open session is being tracked.
func (s Summary) Live() bool { return s.LiveStart != nil }

// Totals is the read-time view of a Summary against a Config.
type Totals struct {
	TotalMinutes     int
	BreakMinutes     int
	LiveMinutes      int
	OvertimeMinutes  int
	RemainingMinutes int
	HalfDayETA       time.Time
	FullDayETA       time.Time
}

// Totals folds the open session's elapsed time into the closed total and
// derives overtime, remaining time and projected completion timestamps.
func (s Summary) Totals(now time.Time, cfg Config) Totals {
	t := Totals{
		TotalMinutes: s.ClosedMinutes,
		BreakMinutes: s.BreakMinutes,
	}

	if s.LiveStart != nil {
		live := now.Hour()*60 + now.Minute() - s.LiveStart.Minutes()
		if live < 0 {
			live = 0
		}
		t.LiveMinutes = live
		t.TotalMinutes += live
	}

	if over := t.TotalMinutes - cfg.WorkMinutes; over > 0 {
		t.OvertimeMinutes = over
	}
	if left := cfg.WorkMinutes - t.TotalMinutes; left > 0 {
		t.RemainingMinutes = left
	}
	if left := cfg.HalfDayMinutes - t.TotalMinutes; left > 0 {
		t.HalfDayETA = now.Add(time.Duration(left) * time.Minute)
	}
	if t.RemainingMinutes > 0 {
		t.FullDayETA = now.Add(time.Duration(t.RemainingMinutes) * time.Minute)
	}
	return t
}

// Percent is worked time as a share of the full workday, capped at 100.
func (t Totals) Percent(cfg Config) float64 {
	if cfg.WorkMinutes <= 0 {
		return 0
	}
	p := float64(t.TotalMinutes) / float64(cfg.WorkMinutes)
	if p > 1 {
		p = 1
	}
	return p
}

// Aggregate walks the entries in source order and produces a Summary. It
// never fails: unparseable or partial rows contribute nothing but do not
// abort the walk, and zero valid entries yield an all-zero Summary.
func Aggregate(entries []LogEntry) Summary {
	var s Summary
	prevEnd := ""

	for i, e := range entries {
		if i == 0 {
			s.FirstStart = e.Start
		}
		if e.Start == "" {
			continue
		}

		if i > 0 && prevEnd != "" {
			gap, bad := clock.Interval(prevEnd, e.Start)
			s.BreakMinutes += gap
			if bad {
				s.Anomalies++
			}
		}

		if e.Open {
			// Last open entry wins; earlier ones are a data anomaly
			// and contribute nothing.
			if start, ok := clock.Parse(e.Start); ok {
				s.LiveStart = &start
			}
			continue
		}

		worked, bad := clock.Interval(e.Start, e.End)
		s.ClosedMinutes += worked
		if bad {
			s.Anomalies++
		}
		if e.End != "" {
			prevEnd = e.End
		}
	}
	return s
}
