package feature

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// Numeric is the kind name of a NumericFeature
	Numeric = "numeric"
	// Categorical is the kind name of a CategoricalFeature
	Categorical = "categorical"
)

/*
Feature represents a property of a sample that can be observed and
used to split a set of samples.
*/
type Feature interface {
	Name() string
	Kind() string
}

/*
CategoricalFeature represents a property that takes a value among a
set of labels compared by exact, case-sensitive equality.
*/
type CategoricalFeature struct {
	name string
}

/*
NumericFeature represents a property that takes a real value and is
split by a threshold.
*/
type NumericFeature struct {
	name string
}

/*
NewCategoricalFeature takes a name string and returns a categorical
feature with the given name.
*/
func NewCategoricalFeature(name string) *CategoricalFeature {
	return &CategoricalFeature{name}
}

/*
NewNumericFeature takes a name string and returns a numeric feature with
the given name.
*/
func NewNumericFeature(name string) *NumericFeature {
	return &NumericFeature{name}
}

/*
New takes a name and a kind string (see ParseKind for accepted values) and
returns the corresponding feature or an error if the kind is unknown.
*/
func New(name, kind string) (Feature, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, fmt.Errorf("feature %s: %v", name, err)
	}
	if k == Numeric {
		return NewNumericFeature(name), nil
	}
	return NewCategoricalFeature(name), nil
}

/*
ParseKind normalizes a kind string. "numeric" and "continuous" are numeric
kinds, "categorical" and "discrete" are categorical ones.
*/
func ParseKind(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case Numeric, "continuous":
		return Numeric, nil
	case Categorical, "discrete":
		return Categorical, nil
	}
	return "", fmt.Errorf("unknown feature kind %q", kind)
}

// Name returns a string with the name of the feature
func (cf *CategoricalFeature) Name() string {
	return cf.name
}

// Kind returns Categorical
func (cf *CategoricalFeature) Kind() string {
	return Categorical
}

func (cf *CategoricalFeature) String() string {
	return cf.name
}

// Name returns a string with the name of the feature
func (nf *NumericFeature) Name() string {
	return nf.name
}

// Kind returns Numeric
func (nf *NumericFeature) Kind() string {
	return Numeric
}

func (nf *NumericFeature) String() string {
	return nf.name
}

/*
TypeMap takes a slice of features and returns a map from each feature name
to its kind name.
*/
func TypeMap(features []Feature) map[string]string {
	result := make(map[string]string, len(features))
	for _, f := range features {
		result[f.Name()] = f.Kind()
	}
	return result
}

/*
AsCategorical takes a slice of features and returns a new slice with every
feature as a CategoricalFeature with the same name, keeping the order.
Growing a tree with such a slice restricts it to value branching (ID3).
*/
func AsCategorical(features []Feature) []Feature {
	result := make([]Feature, 0, len(features))
	for _, f := range features {
		result = append(result, NewCategoricalFeature(f.Name()))
	}
	return result
}

/*
Without takes a slice of features and a name and returns a new slice with
the features whose name differs from the given one.
*/
func Without(features []Feature, name string) []Feature {
	result := make([]Feature, 0, len(features))
	for _, f := range features {
		if f.Name() != name {
			result = append(result, f)
		}
	}
	return result
}

/*
ParseNumber takes a string and returns the finite float64 it represents
and true, or false if it does not represent one. Surrounding whitespace is
ignored; NaN and infinities are rejected.
*/
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

/*
ToNumber coerces a sample value into a float64. It accepts finite float64
values, integer types and strings that ParseNumber accepts. Any other value,
nil included, cannot be coerced and makes it return false.
*/
func ToNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case float32:
		return ToNumber(float64(v))
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		return ParseNumber(v)
	}
	return 0, false
}

/*
ValueKey returns the string form under which a value is matched on
categorical branches: strings are used verbatim, nil becomes the empty
string and anything else is formatted with %v.
*/
func ValueKey(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	return fmt.Sprintf("%v", value)
}
