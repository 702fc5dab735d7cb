/*
factory.go - Preset plan catalog and default schedules

PURPOSE:
  Builders for the sample plans the app seeds and the default schedules the
  plan editor starts from. Rate figures mirror the seeded retailer data:
  a flat plan at $0.15/kWh, a legacy time-of-use plan at $0.22/$0.12 with
  flat gas, and the richer multi-rate fixtures used across the test suite.

USAGE:
  p := plan.TimeOfUse()
  breakdown, err := p.Calculate(elecReadings, gasReadings)
*/
package plan

import (
	"github.com/shopspring/decimal"

	"github.com/warp/tariff-engine/tariff"
)

// =============================================================================
// DEFAULT SCHEDULES
// =============================================================================

// DefaultLegacyWeek is the legacy editor's starting schedule: weekday peak
// windows 07:00-11:00 and 17:00-21:00, weekends entirely off-peak.
func DefaultLegacyWeek() tariff.LegacyWeek {
	weekday, _ := tariff.NewLegacyDay(false, []tariff.PeakWindow{
		{Start: "07:00", End: "11:00"},
		{Start: "17:00", End: "21:00"},
	})
	weekend, _ := tariff.NewLegacyDay(true, nil)

	days := make(map[string]tariff.LegacyDay, 7)
	for _, key := range tariff.WeekdayKeys() {
		if key == "saturday" || key == "sunday" {
			days[key] = weekend
		} else {
			days[key] = weekday
		}
	}
	week, _ := tariff.NewLegacyWeek(days)
	return week
}

// DefaultDayNightWeek is the multi-rate fallback schedule: "day" from
// 07:00 to 21:00, "night" for everything else, all seven days.
func DefaultDayNightWeek() tariff.WeekSchedule {
	day, _ := tariff.NewDaySchedule([]tariff.RatePeriod{
		{Start: "07:00", End: "21:00", RateType: "day"},
	}, "night")
	return tariff.UniformWeek(day)
}

// =============================================================================
// PRESET PLANS
// =============================================================================

// BasicFlat is the seeded flat-rate starter plan.
func BasicFlat() Plan {
	return MultiRatePlan{
		RetailerName: "Energy Provider A",
		Name:         "Basic Plan",
		Electricity: tariff.FuelTariff{
			Pricing:     tariff.FlatPricing{Rate: decimal.NewFromFloat(0.15)},
			DailyCharge: decimal.NewFromFloat(1.0),
		},
	}
}

// TimeOfUse is the seeded legacy peak/off-peak plan with flat gas.
func TimeOfUse() Plan {
	gas := tariff.TwoTierTariff{
		Pricing:     tariff.TwoTierFlat{Rate: decimal.NewFromFloat(0.05)},
		DailyCharge: decimal.NewFromFloat(0.3),
	}
	return LegacyPlan{
		RetailerName: "Energy Provider B",
		Name:         "Time of Use",
		Electricity: tariff.TwoTierTariff{
			Pricing: tariff.TwoTierSchedule{
				PeakRate:    decimal.NewFromFloat(0.22),
				OffPeakRate: decimal.NewFromFloat(0.12),
				Week:        DefaultLegacyWeek(),
			},
			DailyCharge: decimal.NewFromFloat(0.5),
		},
		Gas: &gas,
	}
}

// ThreeTierTimeOfUse is a peak/shoulder/off-peak plan: evening peak
// 17:00-21:00, shoulder through the working day, off-peak overnight,
// weekends entirely off-peak.
func ThreeTierTimeOfUse() Plan {
	weekday, _ := tariff.NewDaySchedule([]tariff.RatePeriod{
		{Start: "07:00", End: "09:00", RateType: "shoulder"},
		{Start: "09:00", End: "17:00", RateType: "shoulder"},
		{Start: "17:00", End: "21:00", RateType: "peak"},
	}, "offPeak")
	weekend, _ := tariff.NewDaySchedule(nil, "offPeak")

	days := make(map[string]tariff.DaySchedule, 7)
	for _, key := range tariff.WeekdayKeys() {
		if key == "saturday" || key == "sunday" {
			days[key] = weekend
		} else {
			days[key] = weekday
		}
	}
	week, _ := tariff.NewWeekSchedule(days)

	return MultiRatePlan{
		RetailerName: "Energy Provider C",
		Name:         "Three Tier TOU",
		Electricity: tariff.FuelTariff{
			Pricing: tariff.ScheduledPricing{
				Rates: tariff.RatesFrom(
					tariff.RateEntry{Name: "peak", Rate: decimal.NewFromFloat(0.5)},
					tariff.RateEntry{Name: "shoulder", Rate: decimal.NewFromFloat(0.3)},
					tariff.RateEntry{Name: "offPeak", Rate: decimal.NewFromFloat(0.15)},
				),
				Schedule: week,
			},
			DailyCharge: decimal.NewFromFloat(1.5),
		},
	}
}

// EVFreeNights is a four-bucket plan with a free overnight charging window
// 02:00-05:00, showing off the open bucket set.
func EVFreeNights() Plan {
	day, _ := tariff.NewDaySchedule([]tariff.RatePeriod{
		{Start: "02:00", End: "05:00", RateType: "free"},
		{Start: "07:00", End: "17:00", RateType: "day"},
		{Start: "17:00", End: "21:00", RateType: "peak"},
	}, "night")

	return MultiRatePlan{
		RetailerName: "Energy Provider D",
		Name:         "EV Free Nights",
		Electricity: tariff.FuelTariff{
			Pricing: tariff.ScheduledPricing{
				Rates: tariff.RatesFrom(
					tariff.RateEntry{Name: "free", Rate: decimal.Zero},
					tariff.RateEntry{Name: "night", Rate: decimal.NewFromFloat(0.12)},
					tariff.RateEntry{Name: "day", Rate: decimal.NewFromFloat(0.25)},
					tariff.RateEntry{Name: "peak", Rate: decimal.NewFromFloat(0.38)},
				),
				Schedule: tariff.UniformWeek(day),
			},
			DailyCharge: decimal.NewFromFloat(1.0),
		},
	}
}

// Catalog returns every preset plan.
func Catalog() []Plan {
	return []Plan{BasicFlat(), TimeOfUse(), ThreeTierTimeOfUse(), EVFreeNights()}
}
