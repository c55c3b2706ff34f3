package model

import (
	"fmt"
	"math"
	"time"
)

// Column names used in turbine data exports. Names are exact and case-sensitive.
const (
	ColTimestamp        = "timestamp"
	ColWindSpeed        = "wind_speed"
	ColWindDirection    = "wind_direction"
	ColTemperature      = "temperature"
	ColAirDensity       = "air_density"
	ColPowerOutput      = "power_output"
	ColYawAngle         = "yaw_angle"
	ColPitchAngle       = "pitch_angle"
	ColTheoreticalPower = "theoretical_power"
	ColEfficiency       = "efficiency"
)

// ColumnInfo holds display name and unit for a column.
type ColumnInfo struct {
	Name string
	Unit string
}

// ColumnCatalog maps every known column to its display name and unit.
var ColumnCatalog = map[string]ColumnInfo{
	ColTimestamp:        {Name: "Timestamp", Unit: ""},
	ColWindSpeed:        {Name: "Wind Speed", Unit: "m/s"},
	ColWindDirection:    {Name: "Wind Direction", Unit: "°"},
	ColTemperature:      {Name: "Temperature", Unit: "°C"},
	ColAirDensity:       {Name: "Air Density", Unit: "kg/m³"},
	ColPowerOutput:      {Name: "Power Output", Unit: "kW"},
	ColYawAngle:         {Name: "Yaw Angle", Unit: "°"},
	ColPitchAngle:       {Name: "Pitch Angle", Unit: "°"},
	ColTheoreticalPower: {Name: "Theoretical Power", Unit: "W"},
	ColEfficiency:       {Name: "Efficiency", Unit: ""},
}

// Table is an ordered, column-oriented dataset of turbine observations.
// Missing numeric values are NaN. Row order is meaningful: gap interpolation
// during cleaning uses neighboring rows, so rows must keep their original
// temporal order.
type Table struct {
	order   []string
	columns map[string][]float64

	// Timestamp column, if present. Raw strings come from ingest; parsed
	// times are filled in by cleaning.
	rawTimestamps []string
	times         []time.Time

	rows int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{columns: make(map[string][]float64)}
}

// Rows returns the number of rows.
func (t *Table) Rows() int {
	return t.rows
}

// Columns returns numeric column names in ingest order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Has reports whether a numeric column is present.
func (t *Table) Has(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Column returns the values of a numeric column, or nil if absent.
// The returned slice is the table's backing storage.
func (t *Table) Column(name string) []float64 {
	return t.columns[name]
}

// AddColumn adds a numeric column. The first column added fixes the row count.
func (t *Table) AddColumn(name string, values []float64) error {
	if t.Has(name) {
		return fmt.Errorf("column %q already present", name)
	}
	if len(t.order) == 0 && t.rawTimestamps == nil {
		t.rows = len(values)
	} else if len(values) != t.rows {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), t.rows)
	}
	t.order = append(t.order, name)
	t.columns[name] = values
	return nil
}

// SetColumn adds a numeric column, replacing it if already present.
// Used for derived columns, which are recomputed on every cleaning pass.
func (t *Table) SetColumn(name string, values []float64) error {
	if !t.Has(name) {
		return t.AddColumn(name, values)
	}
	if len(values) != t.rows {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), t.rows)
	}
	t.columns[name] = values
	return nil
}

// SetRawTimestamps attaches an unparsed timestamp column.
func (t *Table) SetRawTimestamps(values []string) error {
	if len(t.order) == 0 && t.rawTimestamps == nil {
		t.rows = len(values)
	} else if len(values) != t.rows {
		return fmt.Errorf("timestamp column has %d values, table has %d rows", len(values), t.rows)
	}
	t.rawTimestamps = values
	return nil
}

// SetTimes attaches parsed timestamps (set by cleaning).
func (t *Table) SetTimes(values []time.Time) error {
	if len(values) != t.rows {
		return fmt.Errorf("time column has %d values, table has %d rows", len(values), t.rows)
	}
	t.times = values
	return nil
}

// HasTimestamps reports whether a timestamp column is present.
func (t *Table) HasTimestamps() bool {
	return t.rawTimestamps != nil || t.times != nil
}

// RawTimestamps returns the unparsed timestamp values, or nil.
func (t *Table) RawTimestamps() []string {
	return t.rawTimestamps
}

// Times returns parsed timestamps, or nil if cleaning has not run.
func (t *Table) Times() []time.Time {
	return t.times
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := NewTable()
	c.rows = t.rows
	for _, name := range t.order {
		vals := make([]float64, len(t.columns[name]))
		copy(vals, t.columns[name])
		c.order = append(c.order, name)
		c.columns[name] = vals
	}
	if t.rawTimestamps != nil {
		c.rawTimestamps = make([]string, len(t.rawTimestamps))
		copy(c.rawTimestamps, t.rawTimestamps)
	}
	if t.times != nil {
		c.times = make([]time.Time, len(t.times))
		copy(c.times, t.times)
	}
	return c
}

// Filter returns a new table containing only rows where keep[i] is true.
// keep must have one entry per row.
func (t *Table) Filter(keep []bool) *Table {
	c := NewTable()
	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}
	c.rows = n
	for _, name := range t.order {
		src := t.columns[name]
		vals := make([]float64, 0, n)
		for i, k := range keep {
			if k {
				vals = append(vals, src[i])
			}
		}
		c.order = append(c.order, name)
		c.columns[name] = vals
	}
	if t.rawTimestamps != nil {
		c.rawTimestamps = make([]string, 0, n)
		for i, k := range keep {
			if k {
				c.rawTimestamps = append(c.rawTimestamps, t.rawTimestamps[i])
			}
		}
	}
	if t.times != nil {
		c.times = make([]time.Time, 0, n)
		for i, k := range keep {
			if k {
				c.times = append(c.times, t.times[i])
			}
		}
	}
	return c
}

// TimeRange returns the min/max parsed timestamps, if any.
func (t *Table) TimeRange() (start, end time.Time, ok bool) {
	for _, ts := range t.times {
		if ts.IsZero() {
			continue
		}
		if !ok || ts.Before(start) {
			start = ts
		}
		if !ok || ts.After(end) {
			end = ts
		}
		ok = true
	}
	return
}

// Mean returns the mean of a column, skipping NaN values. ok is false when
// the column is absent or has no finite values.
func (t *Table) Mean(name string) (mean float64, ok bool) {
	vals, present := t.columns[name]
	if !present {
		return 0, false
	}
	var sum float64
	var n int
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
