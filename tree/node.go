package tree

import (
	"fmt"
)

/*
Node is a node of a decision tree. It is exactly one of *Leaf,
*NumericSplit or *CategoricalSplit.
*/
type Node interface {
	node()
}

/*
Leaf is a terminal node predicting a label. Samples holds the number of
training samples that reached it; a leaf built from no samples has
Samples equal to 0 and cannot predict.
*/
type Leaf struct {
	Prediction string
	Samples    int
}

/*
NumericSplit is an inner node that routes samples on a numeric feature:
values less than or equal to Threshold go Left, greater ones go Right.
*/
type NumericSplit struct {
	Feature   string
	Threshold float64
	Left      Node
	Right     Node
}

/*
CategoricalSplit is an inner node that routes samples on the exact value
of a categorical feature. Values lists the branch values in the order they
were first observed and Children maps each of them to its subtree. There is
no branch for values not in Values.
*/
type CategoricalSplit struct {
	Feature  string
	Values   []string
	Children map[string]Node
}

func (*Leaf) node()             {}
func (*NumericSplit) node()     {}
func (*CategoricalSplit) node() {}

// Undetermined returns whether the leaf cannot make a prediction
func (l *Leaf) Undetermined() bool {
	return l.Samples == 0
}

func (l *Leaf) String() string {
	if l.Undetermined() {
		return "{ undetermined }"
	}
	return fmt.Sprintf("{ %s (%d) }", l.Prediction, l.Samples)
}

func (ns *NumericSplit) String() string {
	return fmt.Sprintf("%s <= %v", ns.Feature, ns.Threshold)
}

/*
NewCategoricalSplit takes a feature name and returns a CategoricalSplit on
it without branches.
*/
func NewCategoricalSplit(feature string) *CategoricalSplit {
	return &CategoricalSplit{Feature: feature, Children: make(map[string]Node)}
}

/*
Add takes a value and a node and sets the node as the branch for the value.
A value added for the first time is appended to Values.
*/
func (cs *CategoricalSplit) Add(value string, n Node) {
	if cs.Children == nil {
		cs.Children = make(map[string]Node)
	}
	if _, ok := cs.Children[value]; !ok {
		cs.Values = append(cs.Values, value)
	}
	cs.Children[value] = n
}

/*
Child returns the branch for the given value and whether it exists.
*/
func (cs *CategoricalSplit) Child(value string) (Node, bool) {
	n, ok := cs.Children[value]
	return n, ok
}

func (cs *CategoricalSplit) String() string {
	return fmt.Sprintf("%s in %v", cs.Feature, cs.Values)
}

/*
Subtrees takes a node and returns its direct children in branch order:
Left then Right for a NumericSplit, Values order for a CategoricalSplit and
nothing for a Leaf.
*/
func Subtrees(n Node) []Node {
	switch n := n.(type) {
	case *NumericSplit:
		return []Node{n.Left, n.Right}
	case *CategoricalSplit:
		result := make([]Node, 0, len(n.Values))
		for _, v := range n.Values {
			result = append(result, n.Children[v])
		}
		return result
	}
	return nil
}
