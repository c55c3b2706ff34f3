package optimize

import (
	"math"

	"turbine_optimizer/internal/model"
)

const (
	hoursPerYear = 8760

	// fallbackEfficiencyPct is reported when no efficiency column could be
	// derived (no air density or power data in the upload).
	fallbackEfficiencyPct = 35.0

	// betzLimitPct caps reported efficiency at the physical maximum.
	betzLimitPct = 59.0

	// Improvement per degree of average misalignment. This heuristic is
	// intentionally separate from the power model objective; both figures
	// are reported side by side.
	yawImprovementPerDegree   = 0.003
	pitchImprovementPerDegree = 0.002
)

// metricsColumns are required by Compare.
var metricsColumns = []string{
	model.ColPowerOutput,
	model.ColWindDirection,
	model.ColPitchAngle,
}

// Compare computes performance metrics for the dataset's current settings
// and projects them onto the optimized parameters using a simple
// misalignment-based improvement heuristic.
func Compare(t *model.Table, params model.ControlParameters) (current, optimized model.MetricsSnapshot, err error) {
	if t.Rows() == 0 {
		return current, optimized, &model.ValidationError{Detail: "dataset is empty"}
	}
	for _, col := range metricsColumns {
		if !t.Has(col) {
			return current, optimized, model.MissingColumnError(col)
		}
	}

	avgPower, ok := t.Mean(model.ColPowerOutput)
	if !ok {
		return current, optimized, &model.ValidationError{Detail: "power_output column has no valid values"}
	}

	current.AvgPowerKW = avgPower
	current.EfficiencyPct = fallbackEfficiencyPct
	if eff, ok := t.Mean(model.ColEfficiency); ok {
		current.EfficiencyPct = eff * 100
	}
	current.AnnualEnergyMWh = avgPower * hoursPerYear / 1000

	total := improvementFactor(t, params)

	optimized.AvgPowerKW = current.AvgPowerKW * total
	optimized.EfficiencyPct = math.Min(current.EfficiencyPct*total, betzLimitPct)
	optimized.AnnualEnergyMWh = current.AnnualEnergyMWh * total

	return current, optimized, nil
}

// improvementFactor multiplies the yaw and pitch improvement terms, each
// proportional to the mean absolute offset between the recorded settings
// and the optimized parameters.
func improvementFactor(t *model.Table, params model.ControlParameters) float64 {
	yawImprovement := 1 + yawImprovementPerDegree*meanAbsOffset(t.Column(model.ColWindDirection), params.YawAngle)
	pitchImprovement := 1 + pitchImprovementPerDegree*meanAbsOffset(t.Column(model.ColPitchAngle), params.PitchAngle)
	return yawImprovement * pitchImprovement
}

func meanAbsOffset(vals []float64, ref float64) float64 {
	var sum float64
	var n int
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		sum += math.Abs(v - ref)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
