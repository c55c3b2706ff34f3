package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"turbine_optimizer/internal/model"
)

// TurbineCSVParser parses turbine sensor CSV exports.
//
// Expected format (column names are exact and case-sensitive, order free):
//
//	timestamp,wind_speed,wind_direction,air_density,power_output,pitch_angle
//	2024-03-01 00:00:00,7.2,245,1.225,1250,2.5
//
// Only wind_speed is required. Empty or unparsable numeric cells become NaN
// and are left for the cleaning stage to interpolate.
type TurbineCSVParser struct{}

func (p *TurbineCSVParser) Parse(r io.Reader) (*model.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	names := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	tsIdx := -1
	for i, col := range header {
		name := strings.TrimSpace(col)
		if name == "" {
			return nil, &model.FormatError{Row: 1, Detail: fmt.Sprintf("empty name for column %d", i+1)}
		}
		if seen[name] {
			return nil, &model.FormatError{Row: 1, Detail: fmt.Sprintf("duplicate column %q", name)}
		}
		seen[name] = true
		names[i] = name
		if name == model.ColTimestamp {
			tsIdx = i
		}
	}
	if !seen[model.ColWindSpeed] {
		return nil, model.MissingColumnError(model.ColWindSpeed)
	}

	values := make([][]float64, len(header))
	var rawTimestamps []string
	lineNum := 1

	for {
		lineNum++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", lineNum, err)
		}
		if len(record) != len(header) {
			return nil, &model.FormatError{
				Row:    lineNum,
				Detail: fmt.Sprintf("expected %d fields, got %d", len(header), len(record)),
			}
		}

		for i, field := range record {
			if i == tsIdx {
				rawTimestamps = append(rawTimestamps, strings.TrimSpace(field))
				continue
			}
			values[i] = append(values[i], parseCell(field))
		}
	}

	t := model.NewTable()
	if tsIdx >= 0 {
		if err := t.SetRawTimestamps(rawTimestamps); err != nil {
			return nil, err
		}
	}
	for i, name := range names {
		if i == tsIdx {
			continue
		}
		if err := t.AddColumn(name, values[i]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// parseCell converts one numeric cell. Blank and unparsable cells are
// treated as gaps for interpolation, not as hard errors.
func parseCell(field string) float64 {
	s := strings.TrimSpace(field)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
