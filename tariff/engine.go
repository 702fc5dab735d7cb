/*
engine.go - The two pricing engines behind one breakdown shape

PURPOSE:
  Prices interval readings against a plan configuration and rolls the money
  up into the bucket-keyed CostBreakdown. Two engines share the shape:

  CalculateCosts    - multi-rate model: arbitrary named buckets on a weekly
                      schedule, or one flat rate into the "flat" bucket.
  CalculateTwoTier  - legacy model: binary peak/off-peak windows, emitted as
                      "peak"/"offPeak" buckets so callers handle one shape.

PRICING MODES:
  Mode is a tagged union, not a boolean plus optional fields: a tariff is
  either FlatPricing or ScheduledPricing (TwoTierFlat or TwoTierSchedule on
  the legacy side), so "flat mode with a populated schedule" cannot be
  represented.

ALGORITHM (both engines):
  1. Nil breakdown, nil error when there are no electricity readings.
     That is the "nothing to price" signal, not a failure.
  2. Single pass grouping each reading into per-UTC-date kWh buckets via
     the weekday schedule and minute-of-day classifier.
  3. Per electricity date, in sorted order: price each bucket, apply the
     electricity daily charge unconditionally and the gas daily charge only
     when that date has gas data, then roll into the month and year.

KNOWN LIMITATION:
  Dates carrying gas readings but no electricity readings produce no cost
  line; the iteration is driven by the electricity grouping.

SEE ALSO:
  - breakdown.go: Output shape and accumulation
  - schedule.go: The classifiers
*/
package tariff

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PRICING MODES - tagged unions
// =============================================================================

// Pricing is the multi-rate tariff mode: FlatPricing or ScheduledPricing.
type Pricing interface {
	pricingMode() string
}

// FlatPricing charges every kWh at one rate, into the "flat" bucket.
type FlatPricing struct {
	Rate decimal.Decimal
}

func (FlatPricing) pricingMode() string { return "flat" }

// ScheduledPricing charges each kWh into the bucket its weekday schedule
// classifies it into, priced from the rate map. A bucket missing from the
// map prices at zero and is reported via CostBreakdown.Unpriced.
type ScheduledPricing struct {
	Rates    *RateDefinition
	Schedule WeekSchedule
}

func (ScheduledPricing) pricingMode() string { return "scheduled" }

// TwoTierPricing is the legacy tariff mode: TwoTierFlat or TwoTierSchedule.
type TwoTierPricing interface {
	twoTierMode() string
}

// TwoTierFlat prices all consumption at one rate. The peak bucket is
// emitted as zero and the whole day's energy lands in the off-peak bucket,
// preserving the shape the legacy display code expects.
type TwoTierFlat struct {
	Rate decimal.Decimal
}

func (TwoTierFlat) twoTierMode() string { return "flat" }

// TwoTierSchedule prices peak windows at PeakRate and everything else at
// OffPeakRate.
type TwoTierSchedule struct {
	PeakRate    decimal.Decimal
	OffPeakRate decimal.Decimal
	Week        LegacyWeek
}

func (TwoTierSchedule) twoTierMode() string { return "scheduled" }

// FuelTariff bundles a multi-rate pricing mode with the fixed per-day
// connection fee, for one fuel.
type FuelTariff struct {
	Pricing     Pricing
	DailyCharge decimal.Decimal
}

// TwoTierTariff is the legacy equivalent of FuelTariff.
type TwoTierTariff struct {
	Pricing     TwoTierPricing
	DailyCharge decimal.Decimal
}

// =============================================================================
// GROUPING - per-date kWh accumulators
// =============================================================================

// dayBuckets accumulates one UTC date's kWh per rate bucket, remembering
// first-seen bucket order so pricing output is deterministic. The running
// total also backs flat-mode pricing.
type dayBuckets struct {
	order []string
	kwh   map[string]decimal.Decimal
	total decimal.Decimal
}

func newDayBuckets() *dayBuckets {
	return &dayBuckets{kwh: make(map[string]decimal.Decimal)}
}

func (d *dayBuckets) add(bucket string, kwh decimal.Decimal) {
	if _, ok := d.kwh[bucket]; !ok {
		d.order = append(d.order, bucket)
	}
	d.kwh[bucket] = d.kwh[bucket].Add(kwh)
	d.total = d.total.Add(kwh)
}

// twoTierDay accumulates one UTC date's kWh for the legacy model.
type twoTierDay struct {
	peak    decimal.Decimal
	offPeak decimal.Decimal
	total   decimal.Decimal
}

// groupMultiRate classifies readings into per-date buckets.
func groupMultiRate(readings []Reading, p Pricing) map[DateKey]*dayBuckets {
	byDate := make(map[DateKey]*dayBuckets)
	for _, r := range readings {
		key := DateKeyOf(r.StartTime)
		day, ok := byDate[key]
		if !ok {
			day = newDayBuckets()
			byDate[key] = day
		}
		switch mode := p.(type) {
		case FlatPricing:
			day.add(BucketFlat, r.Kwh)
		case ScheduledPricing:
			sched := mode.Schedule.Day(WeekdayKey(r.StartTime))
			day.add(sched.RateAt(MinuteOfDay(r.StartTime)), r.Kwh)
		}
	}
	return byDate
}

// groupTwoTier splits readings into per-date peak/off-peak kWh.
func groupTwoTier(readings []Reading, p TwoTierPricing) map[DateKey]*twoTierDay {
	byDate := make(map[DateKey]*twoTierDay)
	for _, r := range readings {
		key := DateKeyOf(r.StartTime)
		day, ok := byDate[key]
		if !ok {
			day = &twoTierDay{}
			byDate[key] = day
		}
		day.total = day.total.Add(r.Kwh)
		switch mode := p.(type) {
		case TwoTierSchedule:
			sched := mode.Week.Day(WeekdayKey(r.StartTime))
			if sched.IsPeak(MinuteOfDay(r.StartTime)) {
				day.peak = day.peak.Add(r.Kwh)
			} else {
				day.offPeak = day.offPeak.Add(r.Kwh)
			}
		default:
			day.offPeak = day.offPeak.Add(r.Kwh)
		}
	}
	return byDate
}

func sortedDates[V any](m map[DateKey]V) []DateKey {
	keys := make([]DateKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// =============================================================================
// MULTI-RATE ENGINE
// =============================================================================

// CalculateCosts prices electricity (and optionally gas) readings under the
// multi-rate model. A nil gas tariff or empty gas readings means
// electricity only. Returns (nil, nil) when there are no electricity
// readings to price.
func CalculateCosts(elec, gas []Reading, cfg FuelTariff, gasCfg *FuelTariff) (*CostBreakdown, error) {
	if err := validatePricing(cfg.Pricing); err != nil {
		return nil, err
	}
	if gasCfg != nil {
		if err := validatePricing(gasCfg.Pricing); err != nil {
			return nil, err
		}
	}
	if len(elec) == 0 {
		return nil, nil
	}

	byDate := groupMultiRate(elec, cfg.Pricing)

	var gasByDate map[DateKey]*dayBuckets
	if gasCfg != nil && len(gas) > 0 {
		gasByDate = groupMultiRate(gas, gasCfg.Pricing)
	}

	breakdown := newCostBreakdown()
	unpriced := make(map[string]struct{})

	for _, dateKey := range sortedDates(byDate) {
		mKey := dateKey.Month()
		dayTotal := cfg.DailyCharge

		dayTotal = dayTotal.Add(priceBuckets(mKey, byDate[dateKey], cfg.Pricing, unpriced, breakdown.addRate))

		gasDaily := decimal.Zero
		if gasDay, ok := gasByDate[dateKey]; ok {
			gasDaily = gasCfg.DailyCharge
			dayTotal = dayTotal.Add(gasDaily)
			dayTotal = dayTotal.Add(priceBuckets(mKey, gasDay, gasCfg.Pricing, unpriced, breakdown.addGasRate))
		}

		breakdown.addDailyCharges(mKey, cfg.DailyCharge, gasDaily)
		breakdown.addDayTotal(mKey, dayTotal)
	}

	breakdown.setUnpriced(unpriced)
	return breakdown, nil
}

// priceBuckets prices one fuel's buckets for one date and returns the day's
// energy cost. Under scheduled pricing a stray "flat" bucket is skipped and
// unknown bucket names price at zero.
func priceBuckets(
	mKey MonthKey,
	day *dayBuckets,
	p Pricing,
	unpriced map[string]struct{},
	accumulate func(MonthKey, string, decimal.Decimal),
) decimal.Decimal {
	energyCost := decimal.Zero
	switch mode := p.(type) {
	case FlatPricing:
		cost := day.kwh[BucketFlat].Mul(mode.Rate)
		accumulate(mKey, BucketFlat, cost)
		energyCost = cost
	case ScheduledPricing:
		for _, bucket := range day.order {
			if bucket == BucketFlat {
				continue
			}
			rate, ok := mode.Rates.Rate(bucket)
			if !ok {
				unpriced[bucket] = struct{}{}
				rate = decimal.Zero
			}
			cost := day.kwh[bucket].Mul(rate)
			accumulate(mKey, bucket, cost)
			energyCost = energyCost.Add(cost)
		}
	}
	return energyCost
}

// =============================================================================
// LEGACY TWO-TIER ENGINE
// =============================================================================

// CalculateTwoTier prices readings under the legacy peak/off-peak model,
// emitting "peak"/"offPeak" buckets. Flat mode keeps the historical output
// shape: the peak bucket is present and zero, the whole day's energy is
// charged into the off-peak bucket. Returns (nil, nil) when there are no
// electricity readings.
func CalculateTwoTier(elec, gas []Reading, cfg TwoTierTariff, gasCfg *TwoTierTariff) (*CostBreakdown, error) {
	if err := validateTwoTier(cfg.Pricing); err != nil {
		return nil, err
	}
	if gasCfg != nil {
		if err := validateTwoTier(gasCfg.Pricing); err != nil {
			return nil, err
		}
	}
	if len(elec) == 0 {
		return nil, nil
	}

	byDate := groupTwoTier(elec, cfg.Pricing)

	var gasByDate map[DateKey]*twoTierDay
	if gasCfg != nil && len(gas) > 0 {
		gasByDate = groupTwoTier(gas, gasCfg.Pricing)
	}

	breakdown := newCostBreakdown()

	for _, dateKey := range sortedDates(byDate) {
		mKey := dateKey.Month()
		day := byDate[dateKey]

		peakCost, offPeakCost := priceTwoTierDay(day, cfg.Pricing)
		breakdown.addRate(mKey, BucketPeak, peakCost)
		breakdown.addRate(mKey, BucketOffPeak, offPeakCost)

		gasPeakCost := decimal.Zero
		gasOffPeakCost := decimal.Zero
		gasDaily := decimal.Zero
		if gasDay, ok := gasByDate[dateKey]; ok {
			gasPeakCost, gasOffPeakCost = priceTwoTierDay(gasDay, gasCfg.Pricing)
			gasDaily = gasCfg.DailyCharge
		}
		breakdown.addGasRate(mKey, BucketPeak, gasPeakCost)
		breakdown.addGasRate(mKey, BucketOffPeak, gasOffPeakCost)

		breakdown.addDailyCharges(mKey, cfg.DailyCharge, gasDaily)

		dayTotal := peakCost.Add(offPeakCost).
			Add(gasPeakCost).Add(gasOffPeakCost).
			Add(cfg.DailyCharge).Add(gasDaily)
		breakdown.addDayTotal(mKey, dayTotal)
	}

	return breakdown, nil
}

// priceTwoTierDay prices one date's split under a legacy mode.
func priceTwoTierDay(day *twoTierDay, p TwoTierPricing) (peakCost, offPeakCost decimal.Decimal) {
	switch mode := p.(type) {
	case TwoTierFlat:
		// All kWh at the flat rate, charged into the off-peak bucket.
		return decimal.Zero, day.total.Mul(mode.Rate)
	case TwoTierSchedule:
		return day.peak.Mul(mode.PeakRate), day.offPeak.Mul(mode.OffPeakRate)
	}
	return decimal.Zero, decimal.Zero
}

// =============================================================================
// VALIDATION
// =============================================================================

func validatePricing(p Pricing) error {
	switch mode := p.(type) {
	case nil:
		return ErrNoPricing
	case ScheduledPricing:
		if mode.Schedule.days == nil {
			return ErrIncompleteSchedule
		}
	}
	return nil
}

func validateTwoTier(p TwoTierPricing) error {
	switch mode := p.(type) {
	case nil:
		return ErrNoPricing
	case TwoTierSchedule:
		if mode.Week.days == nil {
			return ErrIncompleteSchedule
		}
	}
	return nil
}
