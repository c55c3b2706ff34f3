package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"turbine_optimizer/internal/clean"
	"turbine_optimizer/internal/ingest"
	"turbine_optimizer/internal/model"
	"turbine_optimizer/internal/optimize"
)

func main() {
	input := flag.String("input", "", "turbine data CSV file")
	threshold := flag.Float64("threshold", 12.0, "wind speed threshold for optimization (m/s)")
	yawRange := flag.Float64("yaw-range", 15, "yaw angle search range (± degrees)")
	pitchRange := flag.Float64("pitch-range", 10, "pitch angle search range (± degrees)")
	csvOut := flag.String("csv-out", "", "optional CSV output for the cleaned dataset")
	flag.Parse()

	if *input == "" {
		log.Fatal("No input file — use -input path/to/data.csv")
	}

	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("Opening %s: %v", *input, err)
	}
	parser := &ingest.TurbineCSVParser{}
	raw, err := parser.Parse(f)
	f.Close()
	if err != nil {
		log.Fatalf("Parsing %s: %v", *input, err)
	}

	cleaned, report, err := clean.Clean(raw)
	if err != nil {
		log.Fatalf("Cleaning %s: %v", *input, err)
	}

	printCleaningSummary(cleaned, report)

	cfg := optimize.Config{
		WindSpeedThresholdMS: *threshold,
		YawAngleRangeDeg:     *yawRange,
		PitchAngleRangeDeg:   *pitchRange,
	}
	result, err := optimize.Optimize(cleaned, cfg)
	if err != nil {
		log.Fatalf("Optimization failed: %v", err)
	}

	printOptimizationResult(result, cfg)

	current, optimized, err := optimize.Compare(cleaned, result.Params)
	if err != nil {
		log.Printf("Metrics unavailable: %v", err)
	} else {
		printMetricsComparison(current, optimized)
	}

	if *csvOut != "" {
		writeCleanedCSV(cleaned, *csvOut)
	}
}

func printCleaningSummary(t *model.Table, report clean.Report) {
	fmt.Println()
	fmt.Println("=== Data Cleaning ===")
	fmt.Printf("  Rows: %d in, %d out\n", report.RowsIn, report.RowsOut)
	if report.DroppedWindSpeed > 0 {
		fmt.Printf("  Dropped (wind speed out of range): %d\n", report.DroppedWindSpeed)
	}
	if report.DroppedPowerOutput > 0 {
		fmt.Printf("  Dropped (negative power output): %d\n", report.DroppedPowerOutput)
	}
	if report.InterpolatedCells > 0 {
		fmt.Printf("  Interpolated gaps: %d\n", report.InterpolatedCells)
	}
	if report.EfficiencyFallbacks > 0 {
		fmt.Printf("  Efficiency fallbacks (no wind power): %d\n", report.EfficiencyFallbacks)
	}
	if start, end, ok := t.TimeRange(); ok {
		days := end.Sub(start).Hours() / 24
		fmt.Printf("  Data: %s to %s (%.0f days)\n", start.Format("2006-01-02"), end.Format("2006-01-02"), days)
	}
	fmt.Println()
}

func printOptimizationResult(result model.OptimizationResult, cfg optimize.Config) {
	fmt.Println("=== Power Optimization ===")
	fmt.Printf("  Wind speed threshold: %.1f m/s\n", cfg.WindSpeedThresholdMS)
	fmt.Printf("  Optimal yaw angle:   %7.2f°\n", result.Params.YawAngle)
	fmt.Printf("  Optimal pitch angle: %7.2f°\n", result.Params.PitchAngle)
	fmt.Printf("  Expected power gain: %7.2f %%\n", result.GainPercent)
	fmt.Println()
}

func printMetricsComparison(current, optimized model.MetricsSnapshot) {
	fmt.Println("=== Performance Metrics ===")
	fmt.Printf("  %-22s │ %10s │ %10s\n", "", "Current", "Optimized")
	fmt.Printf("  ───────────────────────┼────────────┼───────────\n")
	fmt.Printf("  %-22s │ %10.1f │ %10.1f\n", "Avg power (kW)", current.AvgPowerKW, optimized.AvgPowerKW)
	fmt.Printf("  %-22s │ %10.1f │ %10.1f\n", "Efficiency (%)", current.EfficiencyPct, optimized.EfficiencyPct)
	fmt.Printf("  %-22s │ %10.1f │ %10.1f\n", "Annual energy (MWh)", current.AnnualEnergyMWh, optimized.AnnualEnergyMWh)
	fmt.Println()
}

func writeCleanedCSV(t *model.Table, path string) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("Creating CSV file: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	columns := t.Columns()
	header := make([]string, 0, len(columns)+1)
	if t.HasTimestamps() {
		header = append(header, model.ColTimestamp)
	}
	header = append(header, columns...)
	w.Write(header)

	times := t.Times()
	for i := 0; i < t.Rows(); i++ {
		record := make([]string, 0, len(header))
		if t.HasTimestamps() {
			record = append(record, formatTime(times, i))
		}
		for _, name := range columns {
			record = append(record, formatValue(t.Column(name)[i]))
		}
		w.Write(record)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("Writing CSV: %v", err)
	}

	fmt.Printf("  Cleaned data written to %s (%d rows)\n\n", path, t.Rows())
}

func formatTime(times []time.Time, i int) string {
	if times == nil || times[i].IsZero() {
		return ""
	}
	return times[i].Format(time.RFC3339)
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("%g", v)
}
