package dataset

import (
	"fmt"
)

/*
Sample represents an item to classify or from which to learn how to
classify them.

Its ValueFor method returns the value of the sample for the feature with the
given name: a float64, a string or nil when the sample does not define it.
*/
type Sample interface {
	ValueFor(name string) (interface{}, error)
}

type sample struct {
	featureValues map[string]interface{}
}

/*
NewSample takes a map of feature string names to values and returns a
sample.
*/
func NewSample(featureValues map[string]interface{}) Sample {
	return &sample{featureValues}
}

func (s *sample) ValueFor(name string) (interface{}, error) {
	return s.featureValues[name], nil
}

func (s *sample) String() string {
	return fmt.Sprintf("[%v]", s.featureValues)
}

type rowSample struct {
	d *Dataset
	i int
}

func (rs rowSample) ValueFor(name string) (interface{}, error) {
	return rs.d.Value(rs.i, name), nil
}
