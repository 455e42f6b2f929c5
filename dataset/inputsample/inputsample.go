/*
Package inputsample provides an implementation of dataset.Sample that is read
from an io.Reader.
*/
package inputsample

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

/*
readSample represents a sample whose feature values
are retrieved from a reader. A feature value will be
requested using a FeatureValueRequester before reading it.
*/
type readSample struct {
	obtainedValues        map[string]interface{}
	undefinedValue        string
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
	features              map[string]feature.Feature
}

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(feature.Feature) error
	RejectValueFor(feature.Feature, string) error
}

/*
New takes an io.Reader, a slice of features, a
FeatureValueRequester and an undefinedValue coding string
and returns a Sample.

The returned Sample ValueFor method reads feature values first
requesting them with the given FeatureValueRequester and
then parsing the values from the reader. Each value is only
requested once.

The parsing expects each value to be presented ending with the
'\n' character, that is in new lines. Also, the undefinedValue
string followed by the '\n' character will be interpreted as an
undefined value, that is nil.

For a feature.NumericFeature, lines will be read from the
reader until a line containing a valid number is found. Non
accepted values will be rejected with the FeatureValueRequester's
RejectValueFor method.

For a feature.CategoricalFeature, the first line is the value.

Attempting to obtain a value for a feature not in the given
features slice returns an error, as does reaching the end of the
reader.
*/
func New(r io.Reader, features []feature.Feature, featureValueRequester FeatureValueRequester, undefinedValue string) dataset.Sample {
	fm := make(map[string]feature.Feature, len(features))
	for _, f := range features {
		fm[f.Name()] = f
	}
	return &readSample{make(map[string]interface{}), undefinedValue, bufio.NewScanner(r), featureValueRequester, fm}
}

func (rs *readSample) ValueFor(name string) (interface{}, error) {
	value, ok := rs.obtainedValues[name]
	if ok {
		return value, nil
	}
	f, ok := rs.features[name]
	if !ok {
		return nil, fmt.Errorf("have no information about feature %s, do not know how to read its value", name)
	}
	err := rs.featureValueRequester.RequestValueFor(f)
	if err != nil {
		return nil, err
	}
	for rs.scanner.Scan() {
		line := strings.TrimSpace(rs.scanner.Text())
		if line == rs.undefinedValue {
			rs.obtainedValues[name] = nil
			return nil, nil
		}
		if _, ok := f.(*feature.NumericFeature); !ok {
			rs.obtainedValues[name] = line
			return line, nil
		}
		if v, ok := feature.ParseNumber(line); ok {
			rs.obtainedValues[name] = v
			return v, nil
		}
		err = rs.featureValueRequester.RejectValueFor(f, line)
		if err != nil {
			return nil, err
		}
	}
	err = rs.scanner.Err()
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("EOF when requesting value for %s", name)
}
