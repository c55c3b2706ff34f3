// Package optimize estimates the yaw and pitch settings that maximize
// turbine power output, and compares performance metrics before and after.
package optimize

import (
	"math"

	"turbine_optimizer/internal/model"
)

const (
	// powerCoefficient is the fixed conversion factor of the simplified
	// power model, applied on top of the cubic wind-power law.
	powerCoefficient = 0.5

	// Penalty per degree of misalignment. Empirical model constants.
	yawPenaltyPerDegree   = 0.01
	pitchPenaltyPerDegree = 0.02
)

// modelColumns are required by the power model objective.
var modelColumns = []string{
	model.ColWindSpeed,
	model.ColWindDirection,
	model.ColAirDensity,
	model.ColPitchAngle,
}

// NegativeMeanPower is the optimization objective: the negated mean power
// proxy over all rows at or above the wind speed threshold. Negation makes
// it minimizable. Pure and deterministic.
//
// Rows below the threshold are ignored; with no rows left the function
// returns 0 rather than failing, so sparse filters stay optimizable. Rows
// with a remaining gap in any model column are skipped.
func NegativeMeanPower(params model.ControlParameters, t *model.Table, windSpeedThreshold float64) float64 {
	ws := t.Column(model.ColWindSpeed)
	direction := t.Column(model.ColWindDirection)
	density := t.Column(model.ColAirDensity)
	pitch := t.Column(model.ColPitchAngle)

	var sum float64
	var n int
	for i := 0; i < t.Rows(); i++ {
		if !(ws[i] >= windSpeedThreshold) {
			continue
		}
		if math.IsNaN(direction[i]) || math.IsNaN(density[i]) || math.IsNaN(pitch[i]) {
			continue
		}

		misalignment := yawMisalignment(direction[i], params.YawAngle)
		pitchAdjustment := math.Abs(params.PitchAngle - pitch[i])

		power := ws[i] * ws[i] * ws[i] * 0.5 * density[i] * powerCoefficient *
			(1 - yawPenaltyPerDegree*misalignment) *
			(1 - pitchPenaltyPerDegree*pitchAdjustment)

		sum += power
		n++
	}

	if n == 0 {
		return 0
	}
	return -sum / float64(n)
}

// yawMisalignment is the shortest angular distance between the wind
// direction and the yaw angle, handling the wrap-around at 0/360.
func yawMisalignment(windDirection, yawAngle float64) float64 {
	m := math.Abs(windDirection - yawAngle)
	if m > 180 {
		m = 360 - m
	}
	return m
}
