/*
schedule.go - Weekly rate schedules and time-of-day classification

PURPOSE:
  Defines the two schedule models the engine prices against and the
  classifiers that map a minute-of-day to a rate bucket:

  Multi-rate model (the current one):
    - RatePeriod: a recurring daily window mapped to a named rate
    - DaySchedule: ordered periods plus a default rate for uncovered time
    - WeekSchedule: one DaySchedule per weekday, all seven required

  Legacy model (binary peak/off-peak):
    - PeakWindow: a recurring daily peak window (no name)
    - LegacyDay: allOffPeak short-circuit or a list of peak windows
    - LegacyWeek: one LegacyDay per weekday, all seven required

CLASSIFICATION CONTRACT:
  RateAt walks the period list IN AUTHORED ORDER and returns the first
  period containing the minute; overlapping periods are resolved by list
  position, never by priority or window length. Re-sorting the list would
  change totals for overlapping schedules.

VALIDATION:
  Clock strings and weekday completeness are rejected at construction, so
  the per-reading hot path never sees a malformed window or a missing day.

SEE ALSO:
  - clock.go: The shared containment rule
  - engine.go: The engines consuming these classifiers
*/
package tariff

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// MULTI-RATE MODEL
// =============================================================================

// RatePeriod is the authored form of a recurring daily window: "HH:MM"
// boundaries and the rate-bucket name it charges into.
type RatePeriod struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	RateType string `json:"rateType"`
}

// compiled form, boundaries in minutes since midnight.
type ratePeriod struct {
	start int
	end   int
	rate  string
}

// DaySchedule is one weekday's ordered rate periods plus the default rate
// applied to any minute not covered by a period.
type DaySchedule struct {
	periods     []ratePeriod
	defaultRate string
}

// NewDaySchedule compiles and validates one day's periods. The default rate
// must be named explicitly; callers that want the conventional "day"
// fallback pass it rather than relying on a baked-in constant.
func NewDaySchedule(periods []RatePeriod, defaultRate string) (DaySchedule, error) {
	if defaultRate == "" {
		return DaySchedule{}, ErrUnknownDefaultRate
	}
	compiled := make([]ratePeriod, 0, len(periods))
	for _, p := range periods {
		start, err := ParseClockTime(p.Start)
		if err != nil {
			return DaySchedule{}, fmt.Errorf("period start: %w", err)
		}
		end, err := ParseClockTime(p.End)
		if err != nil {
			return DaySchedule{}, fmt.Errorf("period end: %w", err)
		}
		compiled = append(compiled, ratePeriod{start: start, end: end, rate: p.RateType})
	}
	return DaySchedule{periods: compiled, defaultRate: defaultRate}, nil
}

// RateAt returns the rate-bucket name for a minute-of-day: the first period
// in authored order containing the minute, or the day's default rate.
func (d DaySchedule) RateAt(minute int) string {
	for _, p := range d.periods {
		if windowContains(minute, p.start, p.end) {
			return p.rate
		}
	}
	return d.defaultRate
}

// DefaultRate returns the bucket charged for uncovered time.
func (d DaySchedule) DefaultRate() string { return d.defaultRate }

// Periods renders the compiled windows back to their authored form.
func (d DaySchedule) Periods() []RatePeriod {
	out := make([]RatePeriod, len(d.periods))
	for i, p := range d.periods {
		out[i] = RatePeriod{
			Start:    FormatClockTime(p.start),
			End:      FormatClockTime(p.end),
			RateType: p.rate,
		}
	}
	return out
}

// RateNames returns every bucket name this day can classify into, periods
// first in authored order, default last. Duplicates are not removed.
func (d DaySchedule) RateNames() []string {
	names := make([]string, 0, len(d.periods)+1)
	for _, p := range d.periods {
		names = append(names, p.rate)
	}
	return append(names, d.defaultRate)
}

// WeekSchedule maps every weekday to its DaySchedule. Construction rejects
// incomplete weeks, so Day never fails at lookup time.
type WeekSchedule struct {
	days map[string]DaySchedule
}

// NewWeekSchedule validates that all seven weekday keys are present.
func NewWeekSchedule(days map[string]DaySchedule) (WeekSchedule, error) {
	if missing := missingWeekdays(func(k string) bool { _, ok := days[k]; return ok }); len(missing) > 0 {
		return WeekSchedule{}, &IncompleteScheduleError{Missing: missing}
	}
	copied := make(map[string]DaySchedule, 7)
	for k, v := range days {
		copied[k] = v
	}
	return WeekSchedule{days: copied}, nil
}

// UniformWeek builds a schedule applying the same day to all seven weekdays.
func UniformWeek(day DaySchedule) WeekSchedule {
	days := make(map[string]DaySchedule, 7)
	for _, k := range WeekdayKeys() {
		days[k] = day
	}
	return WeekSchedule{days: days}
}

// Day returns the schedule for a weekday key ("monday".."sunday").
func (w WeekSchedule) Day(key string) DaySchedule {
	return w.days[key]
}

// jsonDaySchedule is the stored JSON shape of one day.
type jsonDaySchedule struct {
	Periods     []RatePeriod `json:"periods"`
	DefaultRate string       `json:"defaultRate"`
}

// ParseWeekSchedule decodes a stored multi-rate schedule JSON document.
// A day that omits its default rate falls back to the supplied default
// rate key. Incomplete weeks and malformed clock strings are rejected.
func ParseWeekSchedule(raw []byte, defaultRate string) (WeekSchedule, error) {
	var doc map[string]jsonDaySchedule
	if err := json.Unmarshal(raw, &doc); err != nil {
		return WeekSchedule{}, fmt.Errorf("parse week schedule: %w", err)
	}
	days := make(map[string]DaySchedule, 7)
	for key, jd := range doc {
		dr := jd.DefaultRate
		if dr == "" {
			dr = defaultRate
		}
		day, err := NewDaySchedule(jd.Periods, dr)
		if err != nil {
			return WeekSchedule{}, fmt.Errorf("%s: %w", key, err)
		}
		days[key] = day
	}
	return NewWeekSchedule(days)
}

// =============================================================================
// LEGACY MODEL - binary peak/off-peak
// =============================================================================

// PeakWindow is the authored form of a legacy peak window.
type PeakWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type peakWindow struct {
	start int
	end   int
}

// LegacyDay is one weekday in the legacy model: either entirely off-peak or
// a list of peak windows with everything else off-peak. The stored shape
// also carries an "enabled" flag which classification ignores, matching the
// behavior the UI shipped with.
type LegacyDay struct {
	allOffPeak bool
	windows    []peakWindow
}

// NewLegacyDay compiles one legacy day.
func NewLegacyDay(allOffPeak bool, windows []PeakWindow) (LegacyDay, error) {
	compiled := make([]peakWindow, 0, len(windows))
	for _, w := range windows {
		start, err := ParseClockTime(w.Start)
		if err != nil {
			return LegacyDay{}, fmt.Errorf("peak window start: %w", err)
		}
		end, err := ParseClockTime(w.End)
		if err != nil {
			return LegacyDay{}, fmt.Errorf("peak window end: %w", err)
		}
		compiled = append(compiled, peakWindow{start: start, end: end})
	}
	return LegacyDay{allOffPeak: allOffPeak, windows: compiled}, nil
}

// AllOffPeak reports whether every minute of this day is off-peak.
func (d LegacyDay) AllOffPeak() bool { return d.allOffPeak }

// IsPeak classifies a minute-of-day. AllOffPeak short-circuits regardless
// of any configured windows.
func (d LegacyDay) IsPeak(minute int) bool {
	if d.allOffPeak {
		return false
	}
	for _, w := range d.windows {
		if windowContains(minute, w.start, w.end) {
			return true
		}
	}
	return false
}

// LegacyWeek maps every weekday to its LegacyDay; all seven required.
type LegacyWeek struct {
	days map[string]LegacyDay
}

// NewLegacyWeek validates that all seven weekday keys are present.
func NewLegacyWeek(days map[string]LegacyDay) (LegacyWeek, error) {
	if missing := missingWeekdays(func(k string) bool { _, ok := days[k]; return ok }); len(missing) > 0 {
		return LegacyWeek{}, &IncompleteScheduleError{Missing: missing}
	}
	copied := make(map[string]LegacyDay, 7)
	for k, v := range days {
		copied[k] = v
	}
	return LegacyWeek{days: copied}, nil
}

// Day returns the legacy day for a weekday key.
func (w LegacyWeek) Day(key string) LegacyDay {
	return w.days[key]
}

// jsonLegacyDay is the stored JSON shape of one legacy day.
type jsonLegacyDay struct {
	Enabled     bool         `json:"enabled"`
	AllOffPeak  bool         `json:"allOffPeak"`
	PeakPeriods []PeakWindow `json:"peakPeriods"`
}

// ParseLegacyWeek decodes a stored legacy schedule JSON document.
func ParseLegacyWeek(raw []byte) (LegacyWeek, error) {
	var doc map[string]jsonLegacyDay
	if err := json.Unmarshal(raw, &doc); err != nil {
		return LegacyWeek{}, fmt.Errorf("parse legacy schedule: %w", err)
	}
	days := make(map[string]LegacyDay, 7)
	for key, jd := range doc {
		day, err := NewLegacyDay(jd.AllOffPeak, jd.PeakPeriods)
		if err != nil {
			return LegacyWeek{}, fmt.Errorf("%s: %w", key, err)
		}
		days[key] = day
	}
	return NewLegacyWeek(days)
}

// missingWeekdays reports which of the seven keys a schedule lacks.
// Extra keys are tolerated; absent ones are not.
func missingWeekdays(has func(string) bool) []string {
	var missing []string
	for _, k := range WeekdayKeys() {
		if !has(k) {
			missing = append(missing, k)
		}
	}
	return missing
}
