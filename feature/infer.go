package feature

/*
Columnar is the subset of a text table needed to infer feature kinds.
*/
type Columnar interface {
	// Columns returns the header names in table order.
	Columns() []string
	// Cells returns the raw text values of the named column.
	Cells(name string) []string
}

/*
Infer takes a text table and returns one feature per column in header
order: a NumericFeature when every non-empty cell of the column parses as
a finite number, a CategoricalFeature otherwise. A column with no
non-empty cells is numeric.
*/
func Infer(t Columnar) []Feature {
	columns := t.Columns()
	features := make([]Feature, 0, len(columns))
	for _, name := range columns {
		numeric := true
		for _, cell := range t.Cells(name) {
			if cell == "" {
				continue
			}
			if _, ok := ParseNumber(cell); !ok {
				numeric = false
				break
			}
		}
		if numeric {
			features = append(features, NewNumericFeature(name))
		} else {
			features = append(features, NewCategoricalFeature(name))
		}
	}
	return features
}
