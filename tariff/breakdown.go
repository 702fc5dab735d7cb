/*
breakdown.go - The engine's output shape

PURPOSE:
  Both pricing engines emit the same bucket-keyed breakdown: per-month cost
  subtotals keyed by rate-bucket name, daily-charge subtotals, and a yearly
  mirror aggregated across every month present in the data.

BUCKET NAMES:
  Multi-rate scheduled pricing uses the plan's own rate names. Flat pricing
  charges everything into the synthetic "flat" bucket. The legacy engine
  charges into "peak"/"offPeak" so its callers see the same shape.

INVARIANTS:
  - Yearly.Total equals the sum of all monthly totals.
  - Every dollar lands in exactly one rate bucket or one daily-charge
    component; nothing is double counted.
  - Unpriced lists each rate name that was encountered in a schedule but
    had no price in the rate map; those buckets priced at zero. Callers
    should surface this to the user rather than treat it as an error.
*/
package tariff

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Synthetic and legacy bucket names.
const (
	BucketFlat    = "flat"
	BucketPeak    = "peak"
	BucketOffPeak = "offPeak"
)

// MonthlyCost is one month's cost subtotals.
type MonthlyCost struct {
	// ByRate maps electricity rate-bucket name to cost.
	ByRate map[string]decimal.Decimal

	// ByGasRate maps gas rate-bucket name to cost.
	ByGasRate map[string]decimal.Decimal

	DailyCharge    decimal.Decimal
	GasDailyCharge decimal.Decimal
	Total          decimal.Decimal
}

func newMonthlyCost() *MonthlyCost {
	return &MonthlyCost{
		ByRate:    make(map[string]decimal.Decimal),
		ByGasRate: make(map[string]decimal.Decimal),
	}
}

// YearlyCost aggregates every month present in the data.
type YearlyCost struct {
	ByRate         map[string]decimal.Decimal
	ByGasRate      map[string]decimal.Decimal
	DailyCharge    decimal.Decimal
	GasDailyCharge decimal.Decimal
	Total          decimal.Decimal
}

// CostBreakdown is the engine's full output.
type CostBreakdown struct {
	Monthly map[MonthKey]*MonthlyCost
	Yearly  YearlyCost

	// Unpriced lists rate names referenced by a schedule but absent from
	// the rate map, sorted. Their consumption priced at zero.
	Unpriced []string
}

func newCostBreakdown() *CostBreakdown {
	return &CostBreakdown{
		Monthly: make(map[MonthKey]*MonthlyCost),
		Yearly: YearlyCost{
			ByRate:    make(map[string]decimal.Decimal),
			ByGasRate: make(map[string]decimal.Decimal),
		},
	}
}

// month returns (allocating if needed) the accumulator for a month key.
func (b *CostBreakdown) month(key MonthKey) *MonthlyCost {
	mc, ok := b.Monthly[key]
	if !ok {
		mc = newMonthlyCost()
		b.Monthly[key] = mc
	}
	return mc
}

// addRate accumulates an electricity bucket cost into a month and the year.
func (b *CostBreakdown) addRate(key MonthKey, bucket string, cost decimal.Decimal) {
	mc := b.month(key)
	mc.ByRate[bucket] = mc.ByRate[bucket].Add(cost)
	b.Yearly.ByRate[bucket] = b.Yearly.ByRate[bucket].Add(cost)
}

// addGasRate accumulates a gas bucket cost into a month and the year.
func (b *CostBreakdown) addGasRate(key MonthKey, bucket string, cost decimal.Decimal) {
	mc := b.month(key)
	mc.ByGasRate[bucket] = mc.ByGasRate[bucket].Add(cost)
	b.Yearly.ByGasRate[bucket] = b.Yearly.ByGasRate[bucket].Add(cost)
}

// addDailyCharges accumulates the per-day connection fees.
func (b *CostBreakdown) addDailyCharges(key MonthKey, elec, gas decimal.Decimal) {
	mc := b.month(key)
	mc.DailyCharge = mc.DailyCharge.Add(elec)
	mc.GasDailyCharge = mc.GasDailyCharge.Add(gas)
	b.Yearly.DailyCharge = b.Yearly.DailyCharge.Add(elec)
	b.Yearly.GasDailyCharge = b.Yearly.GasDailyCharge.Add(gas)
}

// addDayTotal accumulates one day's grand total.
func (b *CostBreakdown) addDayTotal(key MonthKey, dayTotal decimal.Decimal) {
	mc := b.month(key)
	mc.Total = mc.Total.Add(dayTotal)
	b.Yearly.Total = b.Yearly.Total.Add(dayTotal)
}

// setUnpriced records the sorted unpriced bucket names.
func (b *CostBreakdown) setUnpriced(names map[string]struct{}) {
	if len(names) == 0 {
		return
	}
	b.Unpriced = make([]string, 0, len(names))
	for name := range names {
		b.Unpriced = append(b.Unpriced, name)
	}
	sort.Strings(b.Unpriced)
}

// MonthKeys returns the months present, sorted.
func (b *CostBreakdown) MonthKeys() []MonthKey {
	keys := make([]MonthKey, 0, len(b.Monthly))
	for k := range b.Monthly {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
