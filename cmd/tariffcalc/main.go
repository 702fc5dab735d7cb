/*
main.go - tariffcalc entry point

PURPOSE:
  Prices an exported consumption file against a retail plan and prints the
  monthly cost breakdown. The heavy lifting lives in the tariff and plan
  packages; this binary is argument parsing, file loading, and a table.

COMMAND-LINE FLAGS:
  -config    YAML config path (optional; flags override it)
  -readings  Electricity readings JSON file ([{startTime, kwh}, ...])
  -gas       Gas readings JSON file (optional)
  -preset    Preset plan name from the catalog (e.g. "Time of Use")
  -plan      Plan record JSON file (mutually exclusive with -preset)
  -debug     Verbose logging

EXAMPLES:
  # Price a year of readings against the seeded TOU plan
  ./tariffcalc -readings=usage.json -preset="Time of Use"

  # Price against a plan exported from the admin API
  ./tariffcalc -readings=usage.json -gas=gas.json -plan=plan.json

EXIT CODES:
  0 on success (including "no data to price"), 1 on any error.
*/
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/warp/tariff-engine/plan"
	"github.com/warp/tariff-engine/tariff"
)

func main() {
	var (
		configPath   = flag.String("config", "", "YAML config path")
		readingsPath = flag.String("readings", "", "electricity readings JSON file")
		gasPath      = flag.String("gas", "", "gas readings JSON file")
		presetName   = flag.String("preset", "", "preset plan name")
		planPath     = flag.String("plan", "", "plan record JSON file")
		debug        = flag.Bool("debug", false, "verbose logging")
	)
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tariffcalc: %v\n", err)
		os.Exit(1)
	}
	if *readingsPath != "" {
		cfg.ReadingsPath = *readingsPath
	}
	if *gasPath != "" {
		cfg.GasReadingsPath = *gasPath
	}
	if *presetName != "" {
		cfg.Preset = *presetName
	}
	if *planPath != "" {
		cfg.PlanPath = *planPath
	}
	if *debug {
		cfg.Debug = true
	}

	logger := newLogger(cfg.Debug)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "tariffcalc: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("calculation failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(cfg *Config, logger *slog.Logger) error {
	elec, err := loadReadings(cfg.ReadingsPath, tariff.FuelElectricity, logger)
	if err != nil {
		return fmt.Errorf("electricity readings: %w", err)
	}

	var gas []tariff.Reading
	if cfg.GasReadingsPath != "" {
		if gas, err = loadReadings(cfg.GasReadingsPath, tariff.FuelGas, logger); err != nil {
			return fmt.Errorf("gas readings: %w", err)
		}
	}

	selected, err := resolvePlan(cfg)
	if err != nil {
		return err
	}
	logger.Info("pricing plan", "retailer", selected.Retailer(), "plan", selected.PlanName())

	if mp, ok := selected.(plan.MultiRatePlan); ok {
		for _, name := range mp.UnpricedRates() {
			logger.Debug("schedule names a rate the plan does not price", "rate", name)
		}
	}

	breakdown, err := selected.Calculate(elec, gas)
	if err != nil {
		return err
	}
	if breakdown == nil {
		fmt.Println("No consumption data to price.")
		return nil
	}

	for _, name := range breakdown.Unpriced {
		logger.Warn("schedule references a rate with no price; charged at zero", "rate", name)
	}

	printBreakdown(os.Stdout, breakdown)
	return nil
}

func loadReadings(path string, fuel tariff.Fuel, logger *slog.Logger) ([]tariff.Reading, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var readings []tariff.Reading
	if err := json.Unmarshal(data, &readings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	logger.Debug("loaded readings",
		"fuel", fuel, "count", len(readings), "totalKwh", tariff.TotalKwh(readings))
	return readings, nil
}

func resolvePlan(cfg *Config) (plan.Plan, error) {
	if cfg.Preset != "" {
		for _, p := range plan.Catalog() {
			if p.PlanName() == cfg.Preset {
				return p, nil
			}
		}
		return nil, fmt.Errorf("unknown preset %q", cfg.Preset)
	}

	data, err := os.ReadFile(cfg.PlanPath)
	if err != nil {
		return nil, fmt.Errorf("plan record: %w", err)
	}
	var record plan.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse %s: %w", cfg.PlanPath, err)
	}

	defaults := plan.StandardDefaults()
	defaults.DefaultRate = cfg.DefaultRate
	return plan.Decode(&record, defaults)
}

func printBreakdown(w *os.File, b *tariff.CostBreakdown) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MONTH\tENERGY\tGAS\tDAILY CHARGES\tTOTAL")
	for _, month := range b.MonthKeys() {
		mc := b.Monthly[month]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			month,
			money(sumBuckets(mc.ByRate)),
			money(sumBuckets(mc.ByGasRate)),
			money(mc.DailyCharge.Add(mc.GasDailyCharge)),
			money(mc.Total),
		)
	}
	fmt.Fprintf(tw, "YEAR\t%s\t%s\t%s\t%s\n",
		money(sumBuckets(b.Yearly.ByRate)),
		money(sumBuckets(b.Yearly.ByGasRate)),
		money(b.Yearly.DailyCharge.Add(b.Yearly.GasDailyCharge)),
		money(b.Yearly.Total),
	)
	tw.Flush()
}

func sumBuckets(buckets map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range buckets {
		total = total.Add(v)
	}
	return total
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
