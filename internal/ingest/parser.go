package ingest

import (
	"io"

	"turbine_optimizer/internal/model"
)

// Parser reads tabular turbine data from a source and returns a table.
type Parser interface {
	Parse(r io.Reader) (*model.Table, error)
}
