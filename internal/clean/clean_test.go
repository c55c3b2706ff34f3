package clean

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turbine_optimizer/internal/model"
)

func buildTable(t *testing.T, columns map[string][]float64) *model.Table {
	t.Helper()
	tbl := model.NewTable()
	// Deterministic order for the common columns.
	for _, name := range []string{
		model.ColWindSpeed, model.ColWindDirection, model.ColAirDensity,
		model.ColPowerOutput, model.ColPitchAngle,
	} {
		if vals, ok := columns[name]; ok {
			require.NoError(t, tbl.AddColumn(name, vals))
		}
	}
	return tbl
}

func TestClean_Interpolation(t *testing.T) {
	tbl := buildTable(t, map[string][]float64{
		model.ColWindSpeed: {1, math.NaN(), 3, math.NaN(), math.NaN(), 9},
	})

	cleaned, report, err := Clean(tbl)
	require.NoError(t, err)

	assert.Equal(t, 3, report.InterpolatedCells)
	assert.InDeltaSlice(t, []float64{1, 2, 3, 5, 7, 9}, cleaned.Column(model.ColWindSpeed), 1e-9)
}

func TestClean_LeadingTrailingGapsStayMissing(t *testing.T) {
	// Gaps with no valid neighbor on one side cannot be interpolated. For
	// wind_speed that means the row fails the range filter and is dropped.
	tbl := buildTable(t, map[string][]float64{
		model.ColWindSpeed: {math.NaN(), 5, 6, math.NaN()},
	})

	cleaned, report, err := Clean(tbl)
	require.NoError(t, err)

	assert.Equal(t, 2, cleaned.Rows())
	assert.Equal(t, 2, report.DroppedWindSpeed)
	assert.Equal(t, 0, report.InterpolatedCells)
}

func TestClean_DropsOutOfRangeRows(t *testing.T) {
	tbl := buildTable(t, map[string][]float64{
		model.ColWindSpeed:   {-1, 5, 51, 8, 9},
		model.ColPowerOutput: {100, 200, 300, -5, 400},
	})

	cleaned, report, err := Clean(tbl)
	require.NoError(t, err)

	assert.Equal(t, 2, report.DroppedWindSpeed)
	assert.Equal(t, 1, report.DroppedPowerOutput)
	require.Equal(t, 2, cleaned.Rows())
	assert.InDeltaSlice(t, []float64{5, 9}, cleaned.Column(model.ColWindSpeed), 1e-9)

	for _, ws := range cleaned.Column(model.ColWindSpeed) {
		assert.GreaterOrEqual(t, ws, 0.0)
		assert.LessOrEqual(t, ws, MaxWindSpeedMS)
	}
	for _, p := range cleaned.Column(model.ColPowerOutput) {
		assert.GreaterOrEqual(t, p, 0.0)
	}
}

func TestClean_DerivedColumns(t *testing.T) {
	tbl := buildTable(t, map[string][]float64{
		model.ColWindSpeed:   {10},
		model.ColAirDensity:  {1.2},
		model.ColPowerOutput: {1500},
	})

	cleaned, _, err := Clean(tbl)
	require.NoError(t, err)

	require.True(t, cleaned.Has(model.ColTheoreticalPower))
	require.True(t, cleaned.Has(model.ColEfficiency))

	// P = 0.5 * 1.2 * 10000 * 10³ = 6,000,000 W
	assert.InDelta(t, 6e6, cleaned.Column(model.ColTheoreticalPower)[0], 1e-6)
	// eff = 1500 kW * 1000 / 6e6 W = 0.25
	assert.InDelta(t, 0.25, cleaned.Column(model.ColEfficiency)[0], 1e-9)
}

func TestClean_EfficiencyClampedToBetzLimit(t *testing.T) {
	tbl := buildTable(t, map[string][]float64{
		model.ColWindSpeed:   {10},
		model.ColAirDensity:  {1.0},
		model.ColPowerOutput: {5000}, // raw ratio would be 1.0
	})

	cleaned, _, err := Clean(tbl)
	require.NoError(t, err)

	assert.InDelta(t, BetzLimit, cleaned.Column(model.ColEfficiency)[0], 1e-9)
}

func TestClean_ZeroWindSpeedEfficiencyFallback(t *testing.T) {
	// At wind speed 0 there is no wind power to measure against; the
	// efficiency falls back to 0 instead of dividing by zero.
	tbl := buildTable(t, map[string][]float64{
		model.ColWindSpeed:   {0, 10},
		model.ColAirDensity:  {1.225, 1.225},
		model.ColPowerOutput: {0, 1000},
	})

	cleaned, report, err := Clean(tbl)
	require.NoError(t, err)

	assert.Equal(t, 1, report.EfficiencyFallbacks)
	assert.Equal(t, 0.0, cleaned.Column(model.ColEfficiency)[0])
	assert.Greater(t, cleaned.Column(model.ColEfficiency)[1], 0.0)
}

func TestClean_NoDerivedColumnsWithoutAirDensity(t *testing.T) {
	tbl := buildTable(t, map[string][]float64{
		model.ColWindSpeed:   {5},
		model.ColPowerOutput: {100},
	})

	cleaned, _, err := Clean(tbl)
	require.NoError(t, err)

	assert.False(t, cleaned.Has(model.ColTheoreticalPower))
	assert.False(t, cleaned.Has(model.ColEfficiency))
}

func TestClean_ParsesTimestamps(t *testing.T) {
	tbl := buildTable(t, map[string][]float64{
		model.ColWindSpeed: {5, 6},
	})
	require.NoError(t, tbl.SetRawTimestamps([]string{"2024-03-01 00:00:00", "2024-03-01T00:10:00"}))

	cleaned, _, err := Clean(tbl)
	require.NoError(t, err)

	times := cleaned.Times()
	require.Len(t, times, 2)
	assert.Equal(t, 2024, times[0].Year())
	assert.Equal(t, 10, times[1].Minute())
}

func TestClean_UnparseableTimestampFails(t *testing.T) {
	tbl := buildTable(t, map[string][]float64{
		model.ColWindSpeed: {5},
	})
	require.NoError(t, tbl.SetRawTimestamps([]string{"not-a-date"}))

	_, _, err := Clean(tbl)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrFormat)
}

func TestClean_MissingWindSpeedColumn(t *testing.T) {
	tbl := model.NewTable()
	require.NoError(t, tbl.AddColumn(model.ColPowerOutput, []float64{100}))

	_, _, err := Clean(tbl)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestClean_Idempotent(t *testing.T) {
	tbl := buildTable(t, map[string][]float64{
		model.ColWindSpeed:     {7.2, math.NaN(), 6.3, 60, 5.2},
		model.ColWindDirection: {245, 250, 255, 240, 260},
		model.ColAirDensity:    {1.225, 1.220, 1.223, 1.218, 1.226},
		model.ColPowerOutput:   {1250, 1650, 980, -5, 750},
		model.ColPitchAngle:    {2.5, 3.0, 2.2, 3.5, 2.0},
	})

	once, _, err := Clean(tbl)
	require.NoError(t, err)
	twice, secondReport, err := Clean(once)
	require.NoError(t, err)

	assert.Equal(t, 0, secondReport.DroppedWindSpeed)
	assert.Equal(t, 0, secondReport.DroppedPowerOutput)
	assert.Equal(t, 0, secondReport.InterpolatedCells)

	require.Equal(t, once.Rows(), twice.Rows())
	require.Equal(t, once.Columns(), twice.Columns())
	for _, name := range once.Columns() {
		assert.Equal(t, once.Column(name), twice.Column(name), "column %s", name)
	}
}
