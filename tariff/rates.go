/*
rates.go - Rate maps, stored-JSON parsing, and the two-tier derivation heuristic

PURPOSE:
  Retailer plans store their prices as a JSON object mapping rate names to
  $/kWh values, authored with wildly varying naming conventions ("day",
  "offpeak", "free", "tier_a", ...). This file provides:

  - RateDefinition: an ORDER-PRESERVING rate map. Document order matters in
    two places: the first key acts as a fallback default elsewhere, and the
    derivation heuristic below returns the first name-match in entry order.
  - ParseRateDefinition: tolerant decoding of the stored JSON. Returns nil
    for absent/malformed/non-object input and drops non-numeric values;
    it never fails loudly, matching the contract display code relies on.
  - DeriveTwoTierRates: collapses an arbitrary rate map into the simple
    peak/off-peak summary the non-multi-rate UI path renders.

HEURISTIC CONTRACT:
  Name matching beats magnitude. A plan priced {peak: 0.1, offpeak: 0.5}
  (deliberately inverted) still reports peak 0.1 / offPeak 0.5; max/min is
  only the fallback when no key matches the candidate lists.

SEE ALSO:
  - engine.go: Prices multi-rate buckets directly off a RateDefinition
*/
package tariff

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RATE DEFINITION - ordered name -> $/kWh map
// =============================================================================

// RateDefinition maps rate-bucket names to $/kWh prices, preserving the
// order in which names were first added (for JSON input, document order).
type RateDefinition struct {
	names []string
	rates map[string]decimal.Decimal
}

func NewRateDefinition() *RateDefinition {
	return &RateDefinition{rates: make(map[string]decimal.Decimal)}
}

// RatesFrom builds a definition from ordered name/price pairs.
func RatesFrom(pairs ...RateEntry) *RateDefinition {
	def := NewRateDefinition()
	for _, p := range pairs {
		def.Set(p.Name, p.Rate)
	}
	return def
}

// RateEntry is one ordered entry of a RateDefinition.
type RateEntry struct {
	Name string
	Rate decimal.Decimal
}

// Set adds or updates a rate. A repeated name keeps its original position
// with the latest value, mirroring JSON object semantics.
func (r *RateDefinition) Set(name string, rate decimal.Decimal) {
	if _, ok := r.rates[name]; !ok {
		r.names = append(r.names, name)
	}
	r.rates[name] = rate
}

// Rate looks up a bucket's price.
func (r *RateDefinition) Rate(name string) (decimal.Decimal, bool) {
	if r == nil {
		return decimal.Zero, false
	}
	d, ok := r.rates[name]
	return d, ok
}

// Names returns the bucket names in insertion order.
func (r *RateDefinition) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len reports the number of priced buckets.
func (r *RateDefinition) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// First returns the first entry, the conventional fallback default.
func (r *RateDefinition) First() (RateEntry, bool) {
	if r.Len() == 0 {
		return RateEntry{}, false
	}
	name := r.names[0]
	return RateEntry{Name: name, Rate: r.rates[name]}, true
}

// =============================================================================
// STORED-JSON PARSING
// =============================================================================

// ParseRateDefinition decodes a stored rate JSON string. It returns nil for
// empty input, malformed JSON, or any document that is not an object, and
// silently drops non-numeric values. Callers treat nil as "use the
// hardcoded defaults".
func ParseRateDefinition(raw string) *RateDefinition {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil
	}

	def := NewRateDefinition()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil
		}
		valTok, err := dec.Token()
		if err != nil {
			return nil
		}
		switch v := valTok.(type) {
		case json.Number:
			if d, err := decimal.NewFromString(v.String()); err == nil {
				def.Set(key, d)
			}
		case json.Delim:
			if err := skipNested(dec); err != nil {
				return nil
			}
		default:
			// string/bool/null value: not a price, dropped
		}
	}
	// Closing brace, then nothing but EOF; trailing garbage invalidates
	// the whole document.
	if _, err := dec.Token(); err != nil {
		return nil
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil
	}
	return def
}

// skipNested consumes a nested array/object value whose opening delimiter
// has already been read.
func skipNested(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

// =============================================================================
// TWO-TIER DERIVATION
// =============================================================================

// Candidate names, matched case-insensitively in entry order.
var (
	peakRateNames    = []string{"peak", "day", "shoulder"}
	offPeakRateNames = []string{"offpeak", "off_peak", "night", "free"}
)

// TwoTierSummary is the collapsed peak/off-peak view of a rate map.
type TwoTierSummary struct {
	HasRates     bool
	IsSingleRate bool

	// FlatRate is set when IsSingleRate.
	FlatRate decimal.Decimal

	// Peak and OffPeak are set when HasRates and not IsSingleRate.
	Peak    decimal.Decimal
	OffPeak decimal.Decimal
}

// DeriveTwoTierRates decides whether an arbitrary rate map is a flat rate
// or a two-tier structure. A single entry is flat. With two or more
// entries, peak is the first entry (in insertion order) whose lowercased
// name appears in the peak candidate list and off-peak likewise; either
// side falls back to the max (peak) or min (off-peak) of all values when
// nothing matches by name.
func DeriveTwoTierRates(rates *RateDefinition) TwoTierSummary {
	if rates.Len() == 0 {
		return TwoTierSummary{}
	}
	if rates.Len() == 1 {
		first, _ := rates.First()
		return TwoTierSummary{HasRates: true, IsSingleRate: true, FlatRate: first.Rate}
	}

	peak, ok := rates.firstMatching(peakRateNames)
	if !ok {
		peak = rates.maxValue()
	}
	offPeak, ok := rates.firstMatching(offPeakRateNames)
	if !ok {
		offPeak = rates.minValue()
	}
	return TwoTierSummary{HasRates: true, Peak: peak, OffPeak: offPeak}
}

// firstMatching scans entries in insertion order for the first name whose
// lowercased form appears in candidates.
func (r *RateDefinition) firstMatching(candidates []string) (decimal.Decimal, bool) {
	for _, name := range r.names {
		lower := strings.ToLower(name)
		for _, c := range candidates {
			if lower == c {
				return r.rates[name], true
			}
		}
	}
	return decimal.Zero, false
}

func (r *RateDefinition) maxValue() decimal.Decimal {
	max := r.rates[r.names[0]]
	for _, name := range r.names[1:] {
		if v := r.rates[name]; v.GreaterThan(max) {
			max = v
		}
	}
	return max
}

func (r *RateDefinition) minValue() decimal.Decimal {
	min := r.rates[r.names[0]]
	for _, name := range r.names[1:] {
		if v := r.rates[name]; v.LessThan(min) {
			min = v
		}
	}
	return min
}
