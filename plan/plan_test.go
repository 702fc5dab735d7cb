package plan

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/tariff-engine/tariff"
)

// mondayReadings is a minimal Monday (2024-01-15) consumption set hitting
// a morning peak window, midday, and late night.
func mondayReadings(t *testing.T) []tariff.Reading {
	t.Helper()
	rows := []struct {
		ts  string
		kwh float64
	}{
		{"2024-01-15T08:00:00Z", 2.0},
		{"2024-01-15T12:00:00Z", 1.0},
		{"2024-01-15T23:00:00Z", 1.0},
	}
	readings := make([]tariff.Reading, len(rows))
	for i, row := range rows {
		ts, err := time.Parse(time.RFC3339, row.ts)
		require.NoError(t, err)
		readings[i] = tariff.Reading{StartTime: ts, Kwh: decimal.NewFromFloat(row.kwh)}
	}
	return readings
}

func nullDec(f float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(f), Valid: true}
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, got.Equal(tariff.MustParseDecimal(want)),
		"got %s, want %s %v", got, want, msgAndArgs)
}

// =============================================================================
// RECORD DECODING
// =============================================================================

func TestDecode_LegacyScheduledRecord(t *testing.T) {
	// GIVEN: A plan row with only the legacy rate columns
	// WHEN: Decoded and priced over one Monday
	// THEN: It runs the two-tier engine on the standard default week
	//       (peak 07:00-11:00 and 17:00-21:00 on weekdays)

	record := &Record{
		Retailer:    "Energy Provider B",
		Name:        "Time of Use",
		PeakRate:    nullDec(0.22),
		OffPeakRate: nullDec(0.12),
		DailyCharge: nullDec(0.5),
	}

	p, err := Decode(record, StandardDefaults())
	require.NoError(t, err)
	require.IsType(t, LegacyPlan{}, p)
	assert.Equal(t, "Time of Use", p.PlanName())
	assert.Equal(t, "Energy Provider B", p.Retailer())

	b, err := p.Calculate(mondayReadings(t), nil)
	require.NoError(t, err)
	require.NotNil(t, b)

	// 2.0 kWh peak at 0.22 plus 2.0 kWh off-peak at 0.12 plus one daily
	// charge.
	assertDec(t, "0.44", b.Yearly.ByRate[tariff.BucketPeak])
	assertDec(t, "0.24", b.Yearly.ByRate[tariff.BucketOffPeak])
	assertDec(t, "1.18", b.Yearly.Total)
}

func TestDecode_LegacyFlatRecord(t *testing.T) {
	record := &Record{
		Retailer:    "Energy Provider A",
		Name:        "Basic Plan",
		IsFlatRate:  true,
		FlatRate:    nullDec(0.15),
		DailyCharge: nullDec(1.0),
	}

	p, err := Decode(record, StandardDefaults())
	require.NoError(t, err)
	require.IsType(t, LegacyPlan{}, p)

	b, err := p.Calculate(mondayReadings(t), nil)
	require.NoError(t, err)
	require.NotNil(t, b)

	// Flat mode keeps the two-tier output shape: peak present and zero,
	// 4.0 kWh in the off-peak bucket.
	peak, ok := b.Yearly.ByRate[tariff.BucketPeak]
	require.True(t, ok, "flat mode must still emit the peak bucket")
	assertDec(t, "0", peak)
	assertDec(t, "0.6", b.Yearly.ByRate[tariff.BucketOffPeak])
	assertDec(t, "1.6", b.Yearly.Total)
}

func TestDecode_MultiRateRecord(t *testing.T) {
	// GIVEN: A row carrying flexible rate and schedule JSON
	// THEN: It decodes to the multi-rate engine with the authored buckets

	scheduleJSON := `{
		"monday":    {"periods": [{"start": "07:00", "end": "09:00", "rateType": "peak"}], "defaultRate": "offPeak"},
		"tuesday":   {"periods": [], "defaultRate": "offPeak"},
		"wednesday": {"periods": [], "defaultRate": "offPeak"},
		"thursday":  {"periods": [], "defaultRate": "offPeak"},
		"friday":    {"periods": [], "defaultRate": "offPeak"},
		"saturday":  {"periods": [], "defaultRate": "offPeak"},
		"sunday":    {"periods": [], "defaultRate": "offPeak"}
	}`
	record := &Record{
		Retailer:            "Energy Provider C",
		Name:                "Flexible TOU",
		DailyCharge:         nullDec(1.0),
		ElectricityRates:    `{"peak": 0.4, "offPeak": 0.1}`,
		ElectricitySchedule: scheduleJSON,
	}
	require.True(t, record.IsMultiRate())

	p, err := Decode(record, StandardDefaults())
	require.NoError(t, err)
	require.IsType(t, MultiRatePlan{}, p)

	b, err := p.Calculate(mondayReadings(t), nil)
	require.NoError(t, err)
	require.NotNil(t, b)

	assertDec(t, "0.8", b.Yearly.ByRate["peak"])
	assertDec(t, "0.2", b.Yearly.ByRate["offPeak"])
	assertDec(t, "2.0", b.Yearly.Total)
	assert.Empty(t, b.Unpriced)
}

func TestDecode_MultiRateFallbacks(t *testing.T) {
	// Unparseable rate JSON falls back to the standard day/night rates and
	// an absent schedule falls back to the day/night week (day 07:00-21:00).
	record := &Record{
		Name:             "Broken Row",
		DailyCharge:      nullDec(1.0),
		ElectricityRates: `not json at all`,
	}
	require.True(t, record.IsMultiRate())

	p, err := Decode(record, StandardDefaults())
	require.NoError(t, err)

	b, err := p.Calculate(mondayReadings(t), nil)
	require.NoError(t, err)
	require.NotNil(t, b)

	// 08:00 and 12:00 price as day (3.0 x 0.25), 23:00 as night (0.15).
	assertDec(t, "0.75", b.Yearly.ByRate["day"])
	assertDec(t, "0.15", b.Yearly.ByRate["night"])
	assertDec(t, "1.9", b.Yearly.Total)
}

func TestDecode_MultiRateWithGas(t *testing.T) {
	record := &Record{
		Name:             "Dual Fuel",
		IsFlatRate:       true,
		FlatRate:         nullDec(0.3),
		DailyCharge:      nullDec(1.0),
		ElectricityRates: `{"flat": 0.3}`,

		HasGas:         true,
		GasIsFlatRate:  true,
		GasFlatRate:    nullDec(0.08),
		GasDailyCharge: nullDec(0.4),
	}

	p, err := Decode(record, StandardDefaults())
	require.NoError(t, err)

	gas := []tariff.Reading{{
		StartTime: mondayReadings(t)[0].StartTime,
		Kwh:       decimal.NewFromFloat(5.0),
	}}
	b, err := p.Calculate(mondayReadings(t), gas)
	require.NoError(t, err)
	require.NotNil(t, b)

	// Electricity 4.0 x 0.30 + 1.00, gas 5.0 x 0.08 + 0.40.
	assertDec(t, "0.4", b.Yearly.ByGasRate[tariff.BucketFlat])
	assertDec(t, "0.4", b.Yearly.GasDailyCharge)
	assertDec(t, "3.0", b.Yearly.Total)
}

func TestDecode_InvalidScheduleFails(t *testing.T) {
	record := &Record{
		Name:                "Half Authored",
		ElectricityRates:    `{"peak": 0.4, "offPeak": 0.1}`,
		ElectricitySchedule: `{"monday": {"periods": [], "defaultRate": "offPeak"}}`,
	}

	_, err := Decode(record, StandardDefaults())
	require.Error(t, err)
	assert.ErrorIs(t, err, tariff.ErrIncompleteSchedule)
	assert.Contains(t, err.Error(), "Half Authored")
}

func TestMultiRatePlan_UnpricedRates(t *testing.T) {
	// The monday schedule declares "shoulder" but the rate map prices only
	// peak/offPeak; the gap is reported without pricing a single reading.
	record := &Record{
		Name:                "Gappy",
		ElectricityRates:    `{"peak": 0.4, "offPeak": 0.1}`,
		ElectricitySchedule: `{
			"monday":    {"periods": [{"start": "09:00", "end": "17:00", "rateType": "shoulder"}], "defaultRate": "offPeak"},
			"tuesday":   {"periods": [], "defaultRate": "offPeak"},
			"wednesday": {"periods": [], "defaultRate": "offPeak"},
			"thursday":  {"periods": [], "defaultRate": "offPeak"},
			"friday":    {"periods": [], "defaultRate": "offPeak"},
			"saturday":  {"periods": [], "defaultRate": "offPeak"},
			"sunday":    {"periods": [], "defaultRate": "offPeak"}
		}`,
	}

	p, err := Decode(record, StandardDefaults())
	require.NoError(t, err)
	mp, ok := p.(MultiRatePlan)
	require.True(t, ok)

	assert.Equal(t, []string{"shoulder"}, mp.UnpricedRates())
}

func TestMultiRatePlan_UnpricedRates_FullyPriced(t *testing.T) {
	p, ok := ThreeTierTimeOfUse().(MultiRatePlan)
	require.True(t, ok)
	assert.Empty(t, p.UnpricedRates())

	flat, ok := BasicFlat().(MultiRatePlan)
	require.True(t, ok)
	assert.Empty(t, flat.UnpricedRates(), "flat pricing has no schedule to check")
}

func TestRecord_UnmarshalNullableColumns(t *testing.T) {
	raw := `{
		"id": 7,
		"retailer": "Energy Provider B",
		"name": "Time of Use",
		"active": true,
		"is_flat_rate": false,
		"flat_rate": null,
		"peak_rate": 0.22,
		"off_peak_rate": 0.12,
		"daily_charge": 0.5,
		"has_gas": false
	}`

	var record Record
	require.NoError(t, json.Unmarshal([]byte(raw), &record))

	assert.False(t, record.FlatRate.Valid)
	assert.True(t, record.PeakRate.Valid)
	assertDec(t, "0.22", record.PeakRate.Decimal)
	assert.False(t, record.IsMultiRate())
}

// =============================================================================
// PRESETS AND DEFAULT SCHEDULES
// =============================================================================

func TestCatalog_EveryPresetPrices(t *testing.T) {
	elec := mondayReadings(t)
	seen := map[string]bool{}

	for _, p := range Catalog() {
		require.NotEmpty(t, p.PlanName())
		require.False(t, seen[p.PlanName()], "duplicate preset name %q", p.PlanName())
		seen[p.PlanName()] = true

		b, err := p.Calculate(elec, nil)
		require.NoError(t, err, "preset %q", p.PlanName())
		require.NotNil(t, b, "preset %q", p.PlanName())
		assert.True(t, b.Yearly.Total.GreaterThan(decimal.Zero), "preset %q total", p.PlanName())
	}
	assert.Len(t, seen, 4)
}

func TestEVFreeNights_FreeWindowCostsNothing(t *testing.T) {
	// One reading inside the 02:00-05:00 free window: only the daily
	// charge remains.
	ts, err := time.Parse(time.RFC3339, "2024-01-15T03:00:00Z")
	require.NoError(t, err)
	elec := []tariff.Reading{{StartTime: ts, Kwh: decimal.NewFromFloat(7.5)}}

	b, err := EVFreeNights().Calculate(elec, nil)
	require.NoError(t, err)
	require.NotNil(t, b)

	assertDec(t, "0", b.Yearly.ByRate["free"])
	assertDec(t, "1.0", b.Yearly.Total)
	assert.Empty(t, b.Unpriced, "free is priced at zero, not unpriced")
}

func TestDefaultLegacyWeek_Shape(t *testing.T) {
	week := DefaultLegacyWeek()

	assert.True(t, week.Day("monday").IsPeak(8*60))
	assert.False(t, week.Day("monday").IsPeak(12*60))
	assert.True(t, week.Day("friday").IsPeak(18*60))
	assert.True(t, week.Day("saturday").AllOffPeak())
	assert.False(t, week.Day("sunday").IsPeak(18*60))
}

func TestDefaultDayNightWeek_Shape(t *testing.T) {
	week := DefaultDayNightWeek()
	for _, key := range tariff.WeekdayKeys() {
		day := week.Day(key)
		assert.Equal(t, "day", day.RateAt(12*60), key)
		assert.Equal(t, "night", day.RateAt(23*60), key)
		assert.Equal(t, "night", day.RateAt(6*60), key)
	}
}

// =============================================================================
// DISPLAY SUMMARIES
// =============================================================================

func TestElectricitySummary_FromRateJSON(t *testing.T) {
	record := &Record{ElectricityRates: `{"day": 0.25, "night": 0.15}`}

	sum := ElectricitySummary(record)
	require.True(t, sum.HasRates)
	assert.False(t, sum.IsSingleRate)
	assert.False(t, sum.FromColumns)
	assertDec(t, "0.25", sum.Peak)
	assertDec(t, "0.15", sum.OffPeak)
}

func TestElectricitySummary_SingleRateJSON(t *testing.T) {
	sum := ElectricitySummary(&Record{ElectricityRates: `{"flat": 0.3}`})
	require.True(t, sum.HasRates)
	assert.True(t, sum.IsSingleRate)
	assertDec(t, "0.3", sum.FlatRate)
}

func TestElectricitySummary_FallsBackToColumns(t *testing.T) {
	record := &Record{
		PeakRate:    nullDec(0.22),
		OffPeakRate: nullDec(0.12),
	}

	sum := ElectricitySummary(record)
	require.True(t, sum.HasRates)
	assert.True(t, sum.FromColumns)
	assertDec(t, "0.22", sum.Peak)
	assertDec(t, "0.12", sum.OffPeak)
}

func TestElectricitySummary_FlatColumns(t *testing.T) {
	record := &Record{
		IsFlatRate: true,
		FlatRate:   nullDec(0.15),
	}

	sum := ElectricitySummary(record)
	require.True(t, sum.HasRates)
	assert.True(t, sum.IsSingleRate)
	assert.True(t, sum.FromColumns)
	assertDec(t, "0.15", sum.FlatRate)
}

func TestGasSummary(t *testing.T) {
	noGas := &Record{GasRates: `{"day": 0.08}`}
	assert.False(t, GasSummary(noGas).HasRates, "records without gas summarize to nothing")

	withGas := &Record{
		HasGas:   true,
		GasRates: `{"day": 0.08, "night": 0.06}`,
	}
	sum := GasSummary(withGas)
	require.True(t, sum.HasRates)
	assertDec(t, "0.08", sum.Peak)
	assertDec(t, "0.06", sum.OffPeak)
}

func TestEmptyRecordSummary(t *testing.T) {
	sum := ElectricitySummary(&Record{})
	assert.False(t, sum.HasRates)
}
