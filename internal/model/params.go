package model

// ControlParameters is one candidate turbine setting: where the nacelle
// points and how the blades are pitched, both in degrees.
type ControlParameters struct {
	YawAngle   float64 `json:"yaw_angle"`
	PitchAngle float64 `json:"pitch_angle"`
}

// OptimizationResult holds the best-found parameters and the expected power
// gain over the dataset's average settings, in percent.
type OptimizationResult struct {
	Params      ControlParameters `json:"params"`
	GainPercent float64           `json:"expected_gain_percent"`
}

// MetricsSnapshot summarizes turbine performance for one setting.
type MetricsSnapshot struct {
	AvgPowerKW      float64 `json:"avg_power_kw"`
	EfficiencyPct   float64 `json:"efficiency_pct"`
	AnnualEnergyMWh float64 `json:"annual_energy_mwh"`
}
