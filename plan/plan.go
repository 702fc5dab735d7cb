/*
Package plan implements the retail power-plan domain on top of the tariff
engine.

PURPOSE:
  Admin CRUD screens and the persisted plan table live outside this module;
  what arrives here is their output shape: a plan row with legacy rate
  columns, nullable gas columns, and JSON strings for the flexible rate map
  and weekly schedule. This package decodes that shape into engine tariffs,
  applying the documented fallbacks, and exposes every plan variant behind
  one Plan interface so display code prices either model the same way.

FALLBACKS (matching the shipped UI behavior):
  - Unparseable or absent rate JSON falls back to the hardcoded defaults
    (electricity {day: 0.25, night: 0.15}; gas {day: 0.08, night: 0.06}).
  - A schedule day that names no default rate falls back to the configured
    default rate key (conventionally "day") - an explicit Defaults field
    here, not a magic string inside the engine.
  - An absent schedule column falls back to the standard day/night week.

SEE ALSO:
  - factory.go: Preset plan catalog and default schedules
  - summary.go: Two-tier display summary of arbitrary rate maps
*/
package plan

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/tariff-engine/tariff"
)

// =============================================================================
// PLAN INTERFACE - one shape for both schedule models
// =============================================================================

// Plan prices a pair of reading sets. Both schedule models implement it,
// so callers compare offerings without caring which engine runs.
type Plan interface {
	// PlanName returns the retailer-facing plan name.
	PlanName() string

	// Retailer returns the retailer the plan belongs to.
	Retailer() string

	// Calculate prices the readings. A nil breakdown with a nil error
	// means there was no electricity data to price.
	Calculate(elec, gas []tariff.Reading) (*tariff.CostBreakdown, error)
}

// MultiRatePlan is a plan on the flexible named-rate model.
type MultiRatePlan struct {
	RetailerName string
	Name         string
	Electricity  tariff.FuelTariff
	Gas          *tariff.FuelTariff
}

func (p MultiRatePlan) PlanName() string { return p.Name }
func (p MultiRatePlan) Retailer() string { return p.RetailerName }

func (p MultiRatePlan) Calculate(elec, gas []tariff.Reading) (*tariff.CostBreakdown, error) {
	return tariff.CalculateCosts(elec, gas, p.Electricity, p.Gas)
}

// UnpricedRates returns, sorted, every rate name the plan's schedules can
// classify into that its rate maps do not price. Such buckets charge at
// zero; callers can warn before pricing a single reading.
func (p MultiRatePlan) UnpricedRates() []string {
	unpriced := make(map[string]struct{})
	collect := func(ft tariff.FuelTariff) {
		sched, ok := ft.Pricing.(tariff.ScheduledPricing)
		if !ok {
			return
		}
		for _, key := range tariff.WeekdayKeys() {
			for _, name := range sched.Schedule.Day(key).RateNames() {
				if name == tariff.BucketFlat {
					continue
				}
				if _, priced := sched.Rates.Rate(name); !priced {
					unpriced[name] = struct{}{}
				}
			}
		}
	}
	collect(p.Electricity)
	if p.Gas != nil {
		collect(*p.Gas)
	}

	out := make([]string, 0, len(unpriced))
	for name := range unpriced {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// LegacyPlan is a plan on the legacy peak/off-peak model.
type LegacyPlan struct {
	RetailerName string
	Name         string
	Electricity  tariff.TwoTierTariff
	Gas          *tariff.TwoTierTariff
}

func (p LegacyPlan) PlanName() string { return p.Name }
func (p LegacyPlan) Retailer() string { return p.RetailerName }

func (p LegacyPlan) Calculate(elec, gas []tariff.Reading) (*tariff.CostBreakdown, error) {
	return tariff.CalculateTwoTier(elec, gas, p.Electricity, p.Gas)
}

// Compile-time checks that both models implement Plan.
var (
	_ Plan = MultiRatePlan{}
	_ Plan = LegacyPlan{}
)

// =============================================================================
// RECORD - the persisted plan row shape
// =============================================================================

// Record mirrors the persisted power-plan row delivered by the plan API.
// Numeric rate columns are nullable; the rate map and schedules arrive as
// JSON strings.
type Record struct {
	ID       int64  `json:"id"`
	Retailer string `json:"retailer"`
	Name     string `json:"name"`
	Active   bool   `json:"active"`

	IsFlatRate  bool                `json:"is_flat_rate"`
	FlatRate    decimal.NullDecimal `json:"flat_rate"`
	PeakRate    decimal.NullDecimal `json:"peak_rate"`
	OffPeakRate decimal.NullDecimal `json:"off_peak_rate"`
	DailyCharge decimal.NullDecimal `json:"daily_charge"`

	HasGas         bool                `json:"has_gas"`
	GasIsFlatRate  bool                `json:"gas_is_flat_rate"`
	GasFlatRate    decimal.NullDecimal `json:"gas_flat_rate"`
	GasPeakRate    decimal.NullDecimal `json:"gas_peak_rate"`
	GasOffPeakRate decimal.NullDecimal `json:"gas_off_peak_rate"`
	GasDailyCharge decimal.NullDecimal `json:"gas_daily_charge"`

	// Flexible-rate columns; empty on legacy-only rows.
	ElectricityRates    string `json:"electricity_rates,omitempty"`
	ElectricitySchedule string `json:"electricity_schedule,omitempty"`
	GasRates            string `json:"gas_rates,omitempty"`
	GasSchedule         string `json:"gas_schedule,omitempty"`
}

// IsMultiRate reports whether the row carries flexible-rate data.
func (r *Record) IsMultiRate() bool {
	return r.ElectricityRates != "" || r.ElectricitySchedule != ""
}

// Defaults carries the fallbacks applied while decoding a Record.
type Defaults struct {
	// DefaultRate is the bucket charged for time no period covers when a
	// stored day schedule names none. Conventionally "day".
	DefaultRate string

	// ElectricityRates and GasRates replace an absent or unparseable
	// stored rate map.
	ElectricityRates *tariff.RateDefinition
	GasRates         *tariff.RateDefinition
}

// StandardDefaults returns the fallbacks the shipped UI uses.
func StandardDefaults() Defaults {
	return Defaults{
		DefaultRate: "day",
		ElectricityRates: tariff.RatesFrom(
			tariff.RateEntry{Name: "day", Rate: decimal.NewFromFloat(0.25)},
			tariff.RateEntry{Name: "night", Rate: decimal.NewFromFloat(0.15)},
		),
		GasRates: tariff.RatesFrom(
			tariff.RateEntry{Name: "day", Rate: decimal.NewFromFloat(0.08)},
			tariff.RateEntry{Name: "night", Rate: decimal.NewFromFloat(0.06)},
		),
	}
}

// =============================================================================
// RECORD -> PLAN DECODING
// =============================================================================

// Decode converts a persisted row into a priceable Plan. Rows carrying
// flexible-rate JSON decode to a MultiRatePlan; everything else decodes to
// a LegacyPlan. Decoding fails only on structurally invalid schedules;
// missing rates degrade per the documented fallbacks.
func Decode(r *Record, defaults Defaults) (Plan, error) {
	if r.IsMultiRate() {
		return decodeMultiRate(r, defaults)
	}
	return decodeLegacy(r)
}

func decodeMultiRate(r *Record, defaults Defaults) (Plan, error) {
	elec, err := multiRateFuel(
		r.IsFlatRate, r.FlatRate,
		r.ElectricityRates, r.ElectricitySchedule,
		r.DailyCharge, defaults.ElectricityRates, defaults.DefaultRate,
	)
	if err != nil {
		return nil, fmt.Errorf("plan %q electricity: %w", r.Name, err)
	}

	p := MultiRatePlan{RetailerName: r.Retailer, Name: r.Name, Electricity: elec}
	if r.HasGas {
		gas, err := multiRateFuel(
			r.GasIsFlatRate, r.GasFlatRate,
			r.GasRates, r.GasSchedule,
			r.GasDailyCharge, defaults.GasRates, defaults.DefaultRate,
		)
		if err != nil {
			return nil, fmt.Errorf("plan %q gas: %w", r.Name, err)
		}
		p.Gas = &gas
	}
	return p, nil
}

func multiRateFuel(
	flatMode bool,
	flatRate decimal.NullDecimal,
	ratesJSON, scheduleJSON string,
	dailyCharge decimal.NullDecimal,
	fallbackRates *tariff.RateDefinition,
	defaultRate string,
) (tariff.FuelTariff, error) {
	if flatMode {
		return tariff.FuelTariff{
			Pricing:     tariff.FlatPricing{Rate: flatRate.Decimal},
			DailyCharge: dailyCharge.Decimal,
		}, nil
	}

	rates := tariff.ParseRateDefinition(ratesJSON)
	if rates == nil {
		rates = fallbackRates
	}

	var schedule tariff.WeekSchedule
	if scheduleJSON == "" {
		schedule = DefaultDayNightWeek()
	} else {
		var err error
		schedule, err = tariff.ParseWeekSchedule([]byte(scheduleJSON), defaultRate)
		if err != nil {
			return tariff.FuelTariff{}, err
		}
	}

	return tariff.FuelTariff{
		Pricing:     tariff.ScheduledPricing{Rates: rates, Schedule: schedule},
		DailyCharge: dailyCharge.Decimal,
	}, nil
}

func decodeLegacy(r *Record) (Plan, error) {
	elec, err := legacyFuel(r.IsFlatRate, r.FlatRate, r.PeakRate, r.OffPeakRate, r.ElectricitySchedule, r.DailyCharge)
	if err != nil {
		return nil, fmt.Errorf("plan %q electricity: %w", r.Name, err)
	}

	p := LegacyPlan{RetailerName: r.Retailer, Name: r.Name, Electricity: elec}
	if r.HasGas {
		gas, err := legacyFuel(r.GasIsFlatRate, r.GasFlatRate, r.GasPeakRate, r.GasOffPeakRate, r.GasSchedule, r.GasDailyCharge)
		if err != nil {
			return nil, fmt.Errorf("plan %q gas: %w", r.Name, err)
		}
		p.Gas = &gas
	}
	return p, nil
}

func legacyFuel(
	flatMode bool,
	flatRate, peakRate, offPeakRate decimal.NullDecimal,
	scheduleJSON string,
	dailyCharge decimal.NullDecimal,
) (tariff.TwoTierTariff, error) {
	if flatMode {
		return tariff.TwoTierTariff{
			Pricing:     tariff.TwoTierFlat{Rate: flatRate.Decimal},
			DailyCharge: dailyCharge.Decimal,
		}, nil
	}

	week := DefaultLegacyWeek()
	if scheduleJSON != "" {
		var err error
		week, err = tariff.ParseLegacyWeek([]byte(scheduleJSON))
		if err != nil {
			return tariff.TwoTierTariff{}, err
		}
	}

	return tariff.TwoTierTariff{
		Pricing: tariff.TwoTierSchedule{
			PeakRate:    peakRate.Decimal,
			OffPeakRate: offPeakRate.Decimal,
			Week:        week,
		},
		DailyCharge: dailyCharge.Decimal,
	}, nil
}
