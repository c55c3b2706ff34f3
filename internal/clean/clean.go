// Package clean normalizes raw turbine tables: it types timestamps, fills
// measurement gaps, drops physically impossible rows and derives the
// theoretical-power and efficiency columns the downstream analysis needs.
package clean

import (
	"math"
	"strings"
	"time"

	"turbine_optimizer/internal/model"
)

const (
	// SweptAreaM2 is the fixed rotor swept area assumed by the
	// theoretical-power computation.
	SweptAreaM2 = 10000.0

	// BetzLimit is the maximum fraction of wind power any turbine can
	// extract. Efficiency is clamped to it.
	BetzLimit = 0.59

	// MaxWindSpeedMS is the highest wind speed treated as a real
	// measurement. Rows above it are sensor glitches and are dropped.
	MaxWindSpeedMS = 50.0
)

// timestampLayouts are tried in order when typing the timestamp column.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Report summarizes one cleaning pass.
type Report struct {
	RowsIn              int
	RowsOut             int
	DroppedWindSpeed    int
	DroppedPowerOutput  int
	InterpolatedCells   int
	EfficiencyFallbacks int
}

// Clean runs the full cleaning pipeline on a table and returns the cleaned
// copy plus a report. The input table is not modified.
//
// Steps, in order: timestamp typing, linear gap interpolation along row
// order, physical-range row filtering, derived-column computation.
func Clean(raw *model.Table) (*model.Table, Report, error) {
	report := Report{RowsIn: raw.Rows()}
	if !raw.Has(model.ColWindSpeed) {
		return nil, report, model.MissingColumnError(model.ColWindSpeed)
	}
	t := raw.Clone()

	if err := parseTimestamps(t); err != nil {
		return nil, report, err
	}

	for _, name := range t.Columns() {
		report.InterpolatedCells += interpolate(t.Column(name))
	}

	t, dropped := filterRows(t)
	report.DroppedWindSpeed = dropped.windSpeed
	report.DroppedPowerOutput = dropped.powerOutput

	fallbacks, err := deriveColumns(t)
	if err != nil {
		return nil, report, err
	}
	report.EfficiencyFallbacks = fallbacks
	report.RowsOut = t.Rows()

	return t, report, nil
}

// parseTimestamps types the raw timestamp column, if one is present and not
// already typed. Unparseable values are a format error, not a gap.
func parseTimestamps(t *model.Table) error {
	if t.Times() != nil || t.RawTimestamps() == nil {
		return nil
	}

	raw := t.RawTimestamps()
	times := make([]time.Time, len(raw))
	for i, s := range raw {
		if strings.TrimSpace(s) == "" {
			continue // missing timestamp, left as zero time
		}
		ts, err := parseTimestamp(s)
		if err != nil {
			return &model.FormatError{Row: i + 1, Detail: "parsing timestamp", Err: err}
		}
		times[i] = ts
	}
	return t.SetTimes(times)
}

func parseTimestamp(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// interpolate fills NaN gaps in place by linear interpolation between the
// nearest valid neighbors. Leading and trailing gaps have no anchor on one
// side and stay NaN. Returns the number of cells filled.
func interpolate(vals []float64) int {
	filled := 0
	prev := -1 // index of last valid value
	for i := 0; i < len(vals); i++ {
		if math.IsNaN(vals[i]) {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			step := (vals[i] - vals[prev]) / float64(i-prev)
			for j := prev + 1; j < i; j++ {
				vals[j] = vals[prev] + step*float64(j-prev)
				filled++
			}
		}
		prev = i
	}
	return filled
}

type dropCounts struct {
	windSpeed   int
	powerOutput int
}

// filterRows drops rows outside physical ranges. NaN fails every range
// check, so rows whose wind_speed or power_output gap could not be
// interpolated are dropped here as well.
func filterRows(t *model.Table) (*model.Table, dropCounts) {
	var dropped dropCounts
	ws := t.Column(model.ColWindSpeed)
	power := t.Column(model.ColPowerOutput)

	keep := make([]bool, t.Rows())
	for i := range keep {
		if !(ws[i] >= 0 && ws[i] <= MaxWindSpeedMS) {
			dropped.windSpeed++
			continue
		}
		if power != nil && !(power[i] >= 0) {
			dropped.powerOutput++
			continue
		}
		keep[i] = true
	}
	return t.Filter(keep), dropped
}

// deriveColumns computes theoretical_power and efficiency where the source
// columns allow it. Returns the number of efficiency fallbacks applied.
func deriveColumns(t *model.Table) (int, error) {
	ws := t.Column(model.ColWindSpeed)
	density := t.Column(model.ColAirDensity)
	if density == nil {
		return 0, nil
	}

	theoretical := make([]float64, t.Rows())
	for i := range theoretical {
		// P = 0.5 * ρ * A * v³, in watts.
		theoretical[i] = 0.5 * density[i] * SweptAreaM2 * ws[i] * ws[i] * ws[i]
	}
	if err := t.SetColumn(model.ColTheoreticalPower, theoretical); err != nil {
		return 0, err
	}

	power := t.Column(model.ColPowerOutput)
	if power == nil {
		return 0, nil
	}

	fallbacks := 0
	efficiency := make([]float64, t.Rows())
	for i := range efficiency {
		// power_output is kW, theoretical is W.
		if !(theoretical[i] > 0) || math.IsInf(theoretical[i], 1) {
			// No extractable wind power to measure against.
			efficiency[i] = 0
			fallbacks++
			continue
		}
		eff := power[i] * 1000 / theoretical[i]
		efficiency[i] = math.Min(math.Max(eff, 0), BetzLimit)
	}
	if err := t.SetColumn(model.ColEfficiency, efficiency); err != nil {
		return 0, err
	}
	return fallbacks, nil
}
