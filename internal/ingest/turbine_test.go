package ingest

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turbine_optimizer/internal/model"
)

func TestTurbineCSVParser_Parse(t *testing.T) {
	input := `timestamp,wind_speed,wind_direction,air_density,power_output,pitch_angle
2024-03-01 00:00:00,7.2,245,1.225,1250,2.5
2024-03-01 00:10:00,8.5,250,1.220,1650,3.0`

	parser := &TurbineCSVParser{}
	table, err := parser.Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Equal(t, 2, table.Rows())

	assert.Equal(t, []string{
		model.ColWindSpeed, model.ColWindDirection, model.ColAirDensity,
		model.ColPowerOutput, model.ColPitchAngle,
	}, table.Columns())

	assert.InDelta(t, 7.2, table.Column(model.ColWindSpeed)[0], 1e-9)
	assert.InDelta(t, 1650, table.Column(model.ColPowerOutput)[1], 1e-9)

	require.True(t, table.HasTimestamps())
	assert.Equal(t, "2024-03-01 00:00:00", table.RawTimestamps()[0])
	assert.Nil(t, table.Times()) // parsed later, by cleaning
}

func TestTurbineCSVParser_GapsBecomeNaN(t *testing.T) {
	input := `wind_speed,power_output
7.2,1250
,1650
8.1,n/a`

	parser := &TurbineCSVParser{}
	table, err := parser.Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Equal(t, 3, table.Rows())
	assert.True(t, math.IsNaN(table.Column(model.ColWindSpeed)[1]))
	assert.True(t, math.IsNaN(table.Column(model.ColPowerOutput)[2]))
}

func TestTurbineCSVParser_WindSpeedOnly(t *testing.T) {
	input := "wind_speed\n7.2\n8.5"

	parser := &TurbineCSVParser{}
	table, err := parser.Parse(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, 2, table.Rows())
	assert.False(t, table.HasTimestamps())
}

func TestTurbineCSVParser_MissingWindSpeed(t *testing.T) {
	input := "wind_direction,power_output\n245,1250"

	parser := &TurbineCSVParser{}
	_, err := parser.Parse(strings.NewReader(input))

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "wind_speed")
}

func TestTurbineCSVParser_DuplicateColumn(t *testing.T) {
	input := "wind_speed,wind_speed\n7.2,8.5"

	parser := &TurbineCSVParser{}
	_, err := parser.Parse(strings.NewReader(input))

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrFormat)
}

func TestTurbineCSVParser_EmptyInput(t *testing.T) {
	parser := &TurbineCSVParser{}
	_, err := parser.Parse(strings.NewReader(""))

	assert.Error(t, err)
}

func TestTurbineCSVParser_CaseSensitiveNames(t *testing.T) {
	input := "Wind_Speed\n7.2"

	parser := &TurbineCSVParser{}
	_, err := parser.Parse(strings.NewReader(input))

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
}
