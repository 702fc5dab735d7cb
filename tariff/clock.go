/*
clock.go - Minute-of-day arithmetic and rate window containment

PURPOSE:
  Rate schedules are authored as "HH:MM" clock strings describing recurring
  daily windows. This file parses those strings into minutes-since-midnight
  and implements the single containment rule every classifier shares,
  including windows that cross midnight.

CONTAINMENT RULE:
  Non-wrapping window (end >= start):  start <= m < end
  Wrapping window (end < start):       m >= start OR m < end

  The start boundary is inclusive and the end boundary exclusive, so
  adjacent windows like 07:00-09:00 and 09:00-17:00 never double-classify
  the 09:00 reading.

SEE ALSO:
  - schedule.go: The classifiers built on this rule
*/
package tariff

import (
	"fmt"
	"strconv"
	"strings"
)

// minutesPerDay bounds a minute-of-day offset: 0-1439.
const minutesPerDay = 24 * 60

// ParseClockTime parses a "HH:MM" 24-hour clock string into minutes since
// midnight. Schedules call this at construction time so malformed strings
// are rejected before any reading is classified.
func ParseClockTime(s string) (int, error) {
	h, m, ok := splitClock(s)
	if !ok {
		return 0, &ClockTimeError{Input: s}
	}
	return h*60 + m, nil
}

func splitClock(s string) (hour, minute int, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

// FormatClockTime renders a minute-of-day offset back to "HH:MM".
func FormatClockTime(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// windowContains reports whether minute m falls inside [start, end) with
// midnight wrap-around when end < start. A zero-length window (end == start)
// matches nothing.
func windowContains(m, start, end int) bool {
	if end < start {
		// Crosses midnight
		return m >= start || m < end
	}
	return m >= start && m < end
}
