// Package clock holds the clock-time parsing and interval math shared by the
// aggregation engine, plus the injectable wall clock used for live sessions.
package clock

import (
	"strconv"
	"strings"
	"time"
)

// maxIntervalMinutes bounds a single sitting. Anything longer after day-wrap
// correction is treated as a data glitch and contributes nothing.
const maxIntervalMinutes = 12 * 60

// TimeOfDay is a normalized 24-hour clock time.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Minutes returns the time of day as minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Parse parses a clock-time token of the form "H:MM" or "H:MM am"/"H:MM pm"
// (meridiem case-insensitive). It reports ok=false for anything malformed;
// callers must treat that as "unknown", never as midnight.
func Parse(token string) (TimeOfDay, bool) {
	parts := strings.Fields(strings.ToLower(token))
	if len(parts) == 0 {
		return TimeOfDay{}, false
	}

	hm := strings.SplitN(parts[0], ":", 2)
	if len(hm) != 2 {
		return TimeOfDay{}, false
	}
	h, err := strconv.Atoi(hm[0])
	if err != nil {
		return TimeOfDay{}, false
	}
	m, err := strconv.Atoi(hm[1])
	if err != nil {
		return TimeOfDay{}, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, false
	}

	if len(parts) > 1 {
		switch parts[1] {
		case "pm":
			if h != 12 {
				h += 12
			}
		case "am":
			if h == 12 {
				h = 0
			}
		default:
			return TimeOfDay{}, false
		}
		if h > 23 {
			return TimeOfDay{}, false
		}
	}

	return TimeOfDay{Hour: h, Minute: m}, true
}

// MinutesBetween computes the elapsed minutes from start to end. A negative
// raw difference is corrected by a day wrap (+1440) so sessions crossing
// midnight come out right. If either token fails to parse, or the corrected
// span exceeds 12 hours, it returns 0 so one bad row never corrupts a total.
func MinutesBetween(start, end string) int {
	mins, _ := Interval(start, end)
	return mins
}

// Interval is MinutesBetween plus a flag telling the caller that a span was
// discarded as implausible, so data-quality problems can be surfaced without
// failing the aggregation.
func Interval(start, end string) (mins int, anomalous bool) {
	st, ok := Parse(start)
	if !ok {
		return 0, false
	}
	en, ok := Parse(end)
	if !ok {
		return 0, false
	}

	mins = en.Minutes() - st.Minutes()
	if mins < 0 {
		mins += 24 * 60
	}
	if mins > maxIntervalMinutes {
		return 0, true
	}
	return mins, false
}

// Clock abstracts wall-clock time so live-session extrapolation is testable.
type Clock interface {
	Now() time.Time
}

// System is the real wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }
