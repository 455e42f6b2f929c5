package tree

import (
	"fmt"
	"strings"
)

// PredictionError represents an error related with predictions
type PredictionError string

/*
ErrUndetermined is the error returned by the Predict methods of a tree when
the tree itself cannot make a prediction for a sample: a numeric value is
missing or not a number, a categorical value has no branch, or the path ends
on a leaf built from no samples. It is distinct from errors obtaining the
sample's values.
*/
const ErrUndetermined = PredictionError("undetermined prediction for sample")

func (pe PredictionError) Error() string {
	return string(pe)
}

/*
UnseenPolicy decides what a prediction does when a sample's value for a
categorical split has no branch.
*/
type UnseenPolicy int

const (
	// UnseenUndetermined makes the prediction fail with ErrUndetermined
	UnseenUndetermined UnseenPolicy = iota
	// UnseenFirstChild continues the prediction on the branch of the first
	// value observed when the split was built
	UnseenFirstChild
)

/*
ParseUnseenPolicy takes a policy name, "undetermined" (or "") or
"first-child", and returns the corresponding UnseenPolicy or an error.
*/
func ParseUnseenPolicy(name string) (UnseenPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "undetermined":
		return UnseenUndetermined, nil
	case "first-child", "first_child":
		return UnseenFirstChild, nil
	}
	return UnseenUndetermined, fmt.Errorf("unknown unseen value policy %q", name)
}

func (up UnseenPolicy) String() string {
	if up == UnseenFirstChild {
		return "first-child"
	}
	return "undetermined"
}
