package optimize

import (
	"fmt"
	"math"

	"turbine_optimizer/internal/model"
)

// Config holds the analysis parameters. Thresholds come from the caller per
// request; there is no process-wide state.
type Config struct {
	WindSpeedThresholdMS float64
	YawAngleRangeDeg     float64
	PitchAngleRangeDeg   float64
}

// DefaultConfig returns the standard analysis parameters.
func DefaultConfig() Config {
	return Config{
		WindSpeedThresholdMS: 12.0,
		YawAngleRangeDeg:     15,
		PitchAngleRangeDeg:   10,
	}
}

func (c Config) validate() error {
	if c.WindSpeedThresholdMS < 0 {
		return &model.ValidationError{Detail: fmt.Sprintf("wind speed threshold must be >= 0, got %g", c.WindSpeedThresholdMS)}
	}
	if c.YawAngleRangeDeg < 0 {
		return &model.ValidationError{Detail: fmt.Sprintf("yaw angle range must be >= 0, got %g", c.YawAngleRangeDeg)}
	}
	if c.PitchAngleRangeDeg < 0 {
		return &model.ValidationError{Detail: fmt.Sprintf("pitch angle range must be >= 0, got %g", c.PitchAngleRangeDeg)}
	}
	return nil
}

// Optimize searches the yaw/pitch box around the dataset's average settings
// for the parameters that maximize the modeled power output.
//
// The initial guess is (mean wind direction, mean pitch angle); the box is
// that guess ± the configured ranges, with the pitch floor clamped to 0.
// The returned gain compares modeled power at the optimum against the
// initial guess, as a percentage; a non-positive baseline yields gain 0.
func Optimize(t *model.Table, cfg Config) (model.OptimizationResult, error) {
	if err := cfg.validate(); err != nil {
		return model.OptimizationResult{}, err
	}
	if t.Rows() == 0 {
		return model.OptimizationResult{}, &model.ValidationError{Detail: "dataset is empty"}
	}
	for _, col := range modelColumns {
		if !t.Has(col) {
			return model.OptimizationResult{}, model.MissingColumnError(col)
		}
	}

	yaw0, ok := t.Mean(model.ColWindDirection)
	if !ok {
		return model.OptimizationResult{}, &model.ValidationError{Detail: "wind_direction column has no valid values"}
	}
	pitch0, ok := t.Mean(model.ColPitchAngle)
	if !ok {
		return model.OptimizationResult{}, &model.ValidationError{Detail: "pitch_angle column has no valid values"}
	}

	bounds := Bounds{
		Lo: []float64{yaw0 - cfg.YawAngleRangeDeg, math.Max(0, pitch0-cfg.PitchAngleRangeDeg)},
		Hi: []float64{yaw0 + cfg.YawAngleRangeDeg, pitch0 + cfg.PitchAngleRangeDeg},
	}
	objective := func(x []float64) float64 {
		params := model.ControlParameters{YawAngle: x[0], PitchAngle: x[1]}
		return NegativeMeanPower(params, t, cfg.WindSpeedThresholdMS)
	}

	best, bestF := MinimizeBox(objective, []float64{yaw0, pitch0}, bounds)

	initialPower := -objective([]float64{yaw0, pitch0})
	optimizedPower := -bestF

	gain := 0.0
	if initialPower > 0 {
		gain = (optimizedPower/initialPower - 1) * 100
	}

	return model.OptimizationResult{
		Params:      model.ControlParameters{YawAngle: best[0], PitchAngle: best[1]},
		GainPercent: gain,
	}, nil
}
