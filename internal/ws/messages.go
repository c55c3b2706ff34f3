package ws

import (
	"encoding/json"

	"turbine_optimizer/internal/clean"
	"turbine_optimizer/internal/model"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	// Client -> Server
	TypeDataUpload  = "data:upload"
	TypeDataClear   = "data:clear"
	TypeAnalysisRun = "analysis:run"

	// Server -> Client
	TypeDataLoaded     = "data:loaded"
	TypeAnalysisResult = "analysis:result"
	TypeAnalysisError  = "analysis:error"
)

// Client -> Server messages

type DataUploadPayload struct {
	Name string `json:"name"`
	CSV  string `json:"csv"`
}

type DataClearPayload struct {
	Name string `json:"name"`
}

// AnalysisRunPayload carries per-request analysis parameters. Omitted
// fields fall back to the server defaults.
type AnalysisRunPayload struct {
	Name               string   `json:"name"`
	WindSpeedThreshold *float64 `json:"wind_speed_threshold,omitempty"`
	YawAngleRange      *float64 `json:"yaw_angle_range,omitempty"`
	PitchAngleRange    *float64 `json:"pitch_angle_range,omitempty"`
}

// Server -> Client messages

type DataLoadedPayload struct {
	Name                string   `json:"name"`
	Columns             []string `json:"columns"`
	RowsIn              int      `json:"rows_in"`
	RowsOut             int      `json:"rows_out"`
	DroppedWindSpeed    int      `json:"dropped_wind_speed"`
	DroppedPowerOutput  int      `json:"dropped_power_output"`
	InterpolatedCells   int      `json:"interpolated_cells"`
	EfficiencyFallbacks int      `json:"efficiency_fallbacks"`
	TimeRangeStart      string   `json:"time_range_start,omitempty"`
	TimeRangeEnd        string   `json:"time_range_end,omitempty"`
}

type MetricsPayload struct {
	AvgPowerKW      float64 `json:"avg_power_kw"`
	EfficiencyPct   float64 `json:"efficiency_pct"`
	AnnualEnergyMWh float64 `json:"annual_energy_mwh"`
}

type AnalysisResultPayload struct {
	Name                string          `json:"name"`
	YawAngle            float64         `json:"yaw_angle"`
	PitchAngle          float64         `json:"pitch_angle"`
	ExpectedGainPercent float64         `json:"expected_gain_percent"`
	Current             *MetricsPayload `json:"current,omitempty"`
	Optimized           *MetricsPayload `json:"optimized,omitempty"`
}

type AnalysisErrorPayload struct {
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

// DataLoadedFromReport builds a data:loaded payload from a cleaning pass.
func DataLoadedFromReport(name string, t *model.Table, report clean.Report) DataLoadedPayload {
	p := DataLoadedPayload{
		Name:                name,
		Columns:             t.Columns(),
		RowsIn:              report.RowsIn,
		RowsOut:             report.RowsOut,
		DroppedWindSpeed:    report.DroppedWindSpeed,
		DroppedPowerOutput:  report.DroppedPowerOutput,
		InterpolatedCells:   report.InterpolatedCells,
		EfficiencyFallbacks: report.EfficiencyFallbacks,
	}
	if start, end, ok := t.TimeRange(); ok {
		p.TimeRangeStart = start.Format("2006-01-02T15:04:05Z")
		p.TimeRangeEnd = end.Format("2006-01-02T15:04:05Z")
	}
	return p
}

// MetricsFromSnapshot converts a core metrics snapshot to its wire form.
func MetricsFromSnapshot(s model.MetricsSnapshot) *MetricsPayload {
	return &MetricsPayload{
		AvgPowerKW:      s.AvgPowerKW,
		EfficiencyPct:   s.EfficiencyPct,
		AnnualEnergyMWh: s.AnnualEnergyMWh,
	}
}
