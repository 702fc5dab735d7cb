/*
Package tariff provides the core energy cost-calculation engine.

PURPOSE:
  This package contains the plan-agnostic types and algorithms for pricing
  interval meter data. Whether a plan charges one flat rate, legacy
  peak/off-peak, or an arbitrary set of named rates on a weekly schedule,
  the same engine maps each half-hourly reading to a rate bucket and rolls
  the money up into monthly and yearly totals.

KEY CONCEPTS IN THIS FILE (types.go):
  - Reading: One half-hourly consumption record (start time + kWh)
  - DateKey / MonthKey: UTC calendar keys used for grouping and roll-up
  - Fuel: Electricity vs gas (the engine prices both)

DESIGN PRINCIPLES:
  1. Purity: Every calculation is a fresh function of its inputs
  2. Precision: Uses decimal.Decimal to avoid floating-point drift in money
  3. UTC keying: Date keys, weekdays and minutes-of-day are all derived in
     UTC so results do not depend on the host timezone

USAGE:
  readings := []tariff.Reading{{StartTime: t, Kwh: decimal.NewFromFloat(1.5)}}
  breakdown, err := engine.CalculateCosts(readings, nil, cfg, nil)

SEE ALSO:
  - schedule.go: Weekly rate schedules and time-of-day classification
  - engine.go: The two pricing engines behind one breakdown shape
  - rates.go: Rate maps, parsing, and the two-tier derivation heuristic
*/
package tariff

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// READING - One interval consumption record
// =============================================================================

// Reading is a single half-hourly consumption record as produced by the
// import pipeline. Kwh is expected to be non-negative but is not enforced
// here; cumulative-meter imports clamp negative deltas upstream.
type Reading struct {
	StartTime time.Time       `json:"startTime"`
	Kwh       decimal.Decimal `json:"kwh"`
}

// Fuel identifies which meter a reading set or tariff belongs to.
type Fuel string

const (
	FuelElectricity Fuel = "electricity"
	FuelGas         Fuel = "gas"
)

// =============================================================================
// CALENDAR KEYS - UTC date and month grouping keys
// =============================================================================

// DateKey is a "YYYY-MM-DD" calendar key derived from the UTC instant of a
// reading. The UTC conversion is deliberate and matches the stored data:
// a reading carrying a local offset may land on the adjacent UTC date near
// midnight.
type DateKey string

// MonthKey is a "YYYY-MM" roll-up key.
type MonthKey string

func DateKeyOf(t time.Time) DateKey {
	return DateKey(t.UTC().Format("2006-01-02"))
}

// Month returns the month key this date belongs to.
func (d DateKey) Month() MonthKey {
	if len(d) < 7 {
		return MonthKey(d)
	}
	return MonthKey(d[:7])
}

// MinuteOfDay returns minutes since UTC midnight for a reading timestamp,
// in the range 0-1439.
func MinuteOfDay(t time.Time) int {
	u := t.UTC()
	return u.Hour()*60 + u.Minute()
}

// =============================================================================
// WEEKDAYS - Schedule lookup keys
// =============================================================================

// Weekday keys as they appear in stored schedule JSON, indexed by
// time.Weekday (Sunday = 0).
var weekdayKeys = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// WeekdayKey returns the schedule key ("monday".."sunday") for the UTC
// weekday of t.
func WeekdayKey(t time.Time) string {
	return weekdayKeys[int(t.UTC().Weekday())]
}

// WeekdayKeys returns the seven schedule keys in calendar order starting
// from Monday, the order stored schedules are authored in.
func WeekdayKeys() []string {
	return []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// TotalKwh sums the consumption across a reading set.
func TotalKwh(readings []Reading) decimal.Decimal {
	total := decimal.Zero
	for _, r := range readings {
		total = total.Add(r.Kwh)
	}
	return total
}
