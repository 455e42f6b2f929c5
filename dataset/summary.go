package dataset

import (
	"github.com/pbanos/sapling/feature"
)

const (
	// DefaultSummarySampleSize is the number of rows included in a summary
	DefaultSummarySampleSize = 10
	uniquesScanLimit         = 1000
)

/*
Summary describes a table for a caller about to pick a target column: its
columns, their inferred kinds, the number of distinct values per column
over the first rows, a sample of rows and the total row count.
*/
type Summary struct {
	Headers  []string            `json:"headers"`
	Types    map[string]string   `json:"types"`
	Uniques  map[string]int      `json:"uniques"`
	Sample   []map[string]string `json:"sample"`
	RowCount int                 `json:"row_count"`
}

/*
Summarize takes a table and the number of rows to include as sample and
returns the table's summary. A non-positive limit means
DefaultSummarySampleSize.
*/
func Summarize(t *Table, limit int) *Summary {
	if limit <= 0 {
		limit = DefaultSummarySampleSize
	}
	s := &Summary{
		Headers:  t.Headers,
		Types:    feature.TypeMap(feature.Infer(t)),
		Uniques:  make(map[string]int, len(t.Headers)),
		Sample:   []map[string]string{},
		RowCount: t.Len(),
	}
	for i := 0; i < t.Len() && i < limit; i++ {
		s.Sample = append(s.Sample, t.Row(i))
	}
	for j, h := range t.Headers {
		seen := make(map[string]bool)
		for i := 0; i < t.Len() && i < uniquesScanLimit; i++ {
			seen[cell(t.Rows[i], j)] = true
		}
		s.Uniques[h] = len(seen)
	}
	return s
}
