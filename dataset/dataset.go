package dataset

import (
	"fmt"

	"github.com/pbanos/sapling/feature"
)

/*
Dataset is a set of samples with a target label each, typed according to
a slice of features. Values are kept by column so that trees can be grown
over slices of row indices instead of copies of the samples.

A numeric feature holds float64 values where the source value could be
coerced and the source value otherwise, so that coercion failures surface
when a tree is grown. A categorical feature holds the source values.
*/
type Dataset struct {
	features []feature.Feature
	columns  map[string][]interface{}
	labels   []string
}

/*
New takes a slice of features, a slice of samples and a parallel slice of
labels and returns a dataset with them or an error if the number of samples
and labels differ or a sample cannot provide a value.
*/
func New(features []feature.Feature, samples []Sample, labels []string) (*Dataset, error) {
	if len(samples) != len(labels) {
		return nil, fmt.Errorf("dataset has %d samples but %d labels", len(samples), len(labels))
	}
	d := &Dataset{
		features: features,
		columns:  make(map[string][]interface{}, len(features)),
		labels:   labels,
	}
	for _, f := range features {
		column := make([]interface{}, len(samples))
		for i, s := range samples {
			v, err := s.ValueFor(f.Name())
			if err != nil {
				return nil, fmt.Errorf("reading value of %s for sample %d: %v", f.Name(), i, err)
			}
			column[i] = typedValue(f, v)
		}
		d.columns[f.Name()] = column
	}
	return d, nil
}

/*
FromTable takes a table, the name of its target column and the features to
read from it and returns a dataset whose labels are the target column cells.
Every feature must name a column of the table other than the target.
*/
func FromTable(t *Table, target string, features []feature.Feature) (*Dataset, error) {
	ti := t.Index(target)
	if ti < 0 {
		return nil, fmt.Errorf("target column %q not found", target)
	}
	d := &Dataset{
		features: features,
		columns:  make(map[string][]interface{}, len(features)),
		labels:   make([]string, 0, t.Len()),
	}
	for _, row := range t.Rows {
		d.labels = append(d.labels, cell(row, ti))
	}
	for _, f := range features {
		if f.Name() == target {
			return nil, fmt.Errorf("feature %q is the target column", target)
		}
		fi := t.Index(f.Name())
		if fi < 0 {
			return nil, fmt.Errorf("feature column %q not found", f.Name())
		}
		column := make([]interface{}, len(t.Rows))
		for i, row := range t.Rows {
			column[i] = typedValue(f, cell(row, fi))
		}
		d.columns[f.Name()] = column
	}
	return d, nil
}

func typedValue(f feature.Feature, v interface{}) interface{} {
	if _, ok := f.(*feature.NumericFeature); !ok {
		return v
	}
	if n, ok := feature.ToNumber(v); ok {
		return n
	}
	return v
}

// Features returns the features of the dataset.
func (d *Dataset) Features() []feature.Feature {
	return d.features
}

// Len returns the number of samples in the dataset.
func (d *Dataset) Len() int {
	return len(d.labels)
}

// Labels returns the labels of the samples in order.
func (d *Dataset) Labels() []string {
	return d.labels
}

// Label returns the label of the i-th sample.
func (d *Dataset) Label(i int) string {
	return d.labels[i]
}

/*
Value returns the value of the named feature for the i-th sample, or nil if
the dataset has no such feature.
*/
func (d *Dataset) Value(i int, name string) interface{} {
	column, ok := d.columns[name]
	if !ok {
		return nil
	}
	return column[i]
}

// Sample returns the i-th sample of the dataset.
func (d *Dataset) Sample(i int) Sample {
	return rowSample{d, i}
}

// Samples returns all the samples of the dataset in order.
func (d *Dataset) Samples() []Sample {
	result := make([]Sample, 0, d.Len())
	for i := 0; i < d.Len(); i++ {
		result = append(result, rowSample{d, i})
	}
	return result
}
