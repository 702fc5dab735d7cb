/*
summary.go - Two-tier display summaries of arbitrary rate maps

The non-multi-rate display path renders any plan as a simple peak/off-peak
(or flat) pair. These helpers collapse a stored rate map into that view via
the derivation heuristic, falling back to the legacy rate columns when the
row carries no usable rate JSON.
*/
package plan

import (
	"github.com/shopspring/decimal"

	"github.com/warp/tariff-engine/tariff"
)

// RateSummary is the display view of one fuel's rates.
type RateSummary struct {
	tariff.TwoTierSummary

	// FromColumns is true when the summary came from the legacy rate
	// columns rather than the rate JSON.
	FromColumns bool
}

// ElectricitySummary collapses a record's electricity rates for display.
func ElectricitySummary(r *Record) RateSummary {
	return summarize(r.ElectricityRates, r.IsFlatRate, r.FlatRate.Decimal, r.PeakRate.Decimal, r.OffPeakRate.Decimal,
		r.FlatRate.Valid || r.PeakRate.Valid || r.OffPeakRate.Valid)
}

// GasSummary collapses a record's gas rates for display. Records without
// gas summarize to no rates.
func GasSummary(r *Record) RateSummary {
	if !r.HasGas {
		return RateSummary{}
	}
	return summarize(r.GasRates, r.GasIsFlatRate, r.GasFlatRate.Decimal, r.GasPeakRate.Decimal, r.GasOffPeakRate.Decimal,
		r.GasFlatRate.Valid || r.GasPeakRate.Valid || r.GasOffPeakRate.Valid)
}

func summarize(ratesJSON string, flatMode bool, flat, peak, offPeak decimal.Decimal, hasColumns bool) RateSummary {
	if derived := tariff.DeriveTwoTierRates(tariff.ParseRateDefinition(ratesJSON)); derived.HasRates {
		return RateSummary{TwoTierSummary: derived}
	}
	if !hasColumns {
		return RateSummary{}
	}
	if flatMode {
		return RateSummary{
			TwoTierSummary: tariff.TwoTierSummary{HasRates: true, IsSingleRate: true, FlatRate: flat},
			FromColumns:    true,
		}
	}
	return RateSummary{
		TwoTierSummary: tariff.TwoTierSummary{HasRates: true, Peak: peak, OffPeak: offPeak},
		FromColumns:    true,
	}
}
